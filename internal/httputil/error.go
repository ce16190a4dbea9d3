package httputil

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MarcEnDev/trackanddecker/internal/bracket"
	"github.com/MarcEnDev/trackanddecker/internal/group"
	"github.com/MarcEnDev/trackanddecker/internal/service"
)

func InternalServerError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func BadRequest(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		slog.Warn("bad request", "message", msg, "error", err)
	} else {
		slog.Warn("bad request", "message", msg)
	}
	http.Error(w, msg, http.StatusBadRequest)
}

func NotFound(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		slog.Warn("not found", "message", msg, "error", err)
	} else {
		slog.Warn("not found", "message", msg)
	}
	http.Error(w, msg, http.StatusNotFound)
}

func Conflict(w http.ResponseWriter, msg string, err error) {
	slog.Warn("conflict", "message", msg, "error", err)
	http.Error(w, msg, http.StatusConflict)
}

// StatusFor maps a domain error to the HTTP status it is reported with.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, sql.ErrNoRows),
		errors.Is(err, group.ErrMemberNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, group.ErrGroupFinished),
		errors.Is(err, group.ErrMemberInBracket):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, group.ErrWrongGroupType),
		errors.Is(err, group.ErrNoBracket),
		errors.Is(err, bracket.ErrInsufficientParticipants),
		errors.Is(err, bracket.ErrDuplicateParticipant),
		errors.Is(err, bracket.ErrInvalidMatch),
		errors.Is(err, bracket.ErrInvalidWinner):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err with the status StatusFor picks. Unknown errors are logged
// with msg and hidden from the client.
func Error(w http.ResponseWriter, msg string, err error) {
	switch StatusFor(err) {
	case http.StatusNotFound:
		NotFound(w, "Not found", err)
	case http.StatusUnauthorized:
		slog.Warn("unauthenticated", "message", msg, "error", err)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	case http.StatusConflict:
		Conflict(w, err.Error(), err)
	case http.StatusBadRequest:
		BadRequest(w, err.Error(), err)
	default:
		InternalServerError(w, msg, err)
	}
}
