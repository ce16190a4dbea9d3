package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/MarcEnDev/trackanddecker/internal/group"
	"github.com/MarcEnDev/trackanddecker/internal/httputil"
	"github.com/MarcEnDev/trackanddecker/internal/middleware"
	"github.com/MarcEnDev/trackanddecker/views"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const memberFieldPrefix = "member_name_"

func alertsKey(groupID uuid.UUID) string {
	return "alerts:" + groupID.String()
}

func (app *application) index(w http.ResponseWriter, r *http.Request) {
	list, err := app.groups.ListGroups(r.Context())
	if err != nil {
		httputil.Error(w, "Failed to list groups", err)
		return
	}
	if err := views.Render(w, r, views.Index(list)); err != nil {
		slog.Error("failed to render index", "error", err)
	}
}

func (app *application) createGroup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httputil.BadRequest(w, "Invalid form data", err)
		return
	}

	g, err := app.groups.CreateGroup(r.Context(), r.Form.Get("name"), group.Type(r.Form.Get("type")), memberNames(r.Form))
	if err != nil {
		httputil.Error(w, "Failed to create group", err)
		return
	}
	redirect(w, r, groupURL(g))
}

// memberField renders one more name input, numbered after the highest one
// already in the form.
func (app *application) memberField(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httputil.BadRequest(w, "Invalid form data", err)
		return
	}
	indices := memberIndices(r.Form)
	next := 0
	if len(indices) > 0 {
		next = indices[len(indices)-1] + 1
	}
	if err := views.Render(w, r, views.MemberField(next)); err != nil {
		slog.Error("failed to render member field", "error", err)
	}
}

func (app *application) groupPage(w http.ResponseWriter, r *http.Request) {
	groupID, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	g, err := app.groups.GetGroup(r.Context(), groupID)
	if err != nil {
		httputil.Error(w, "Failed to get group", err)
		return
	}

	activeID, _ := middleware.GetSessionMember(app.sessions, r.Context(), g.ID)
	profileID, _ := uuid.Parse(r.URL.Query().Get("profile"))

	var alerts []group.MatchAlert
	if raw := app.sessions.PopString(r.Context(), alertsKey(g.ID)); raw != "" {
		if err := json.Unmarshal([]byte(raw), &alerts); err != nil {
			slog.Warn("dropping unreadable deck alerts", "group_id", g.ID, "error", err)
		}
	}

	data := views.NewGroupPageData(g, activeID, profileID, app.decks.All(), alerts)
	if err := views.Render(w, r, views.GroupPage(data)); err != nil {
		slog.Error("failed to render group page", "group_id", g.ID, "error", err)
	}
}

func (app *application) deleteGroup(w http.ResponseWriter, r *http.Request) {
	groupID, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	if err := app.groups.DeleteGroup(r.Context(), groupID); err != nil {
		httputil.Error(w, "Failed to delete group", err)
		return
	}
	middleware.ClearSessionMember(app.sessions, r.Context(), groupID)
	redirect(w, r, "/")
}

func (app *application) finishGroup(w http.ResponseWriter, r *http.Request) {
	groupID, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	g, err := app.groups.FinishGroup(r.Context(), groupID)
	if err != nil {
		httputil.Error(w, "Failed to finish group", err)
		return
	}
	redirect(w, r, groupURL(g))
}

// selectMember stores which member is using this browser. An empty member_id
// clears the selection.
func (app *application) selectMember(w http.ResponseWriter, r *http.Request) {
	groupID, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		httputil.BadRequest(w, "Invalid form data", err)
		return
	}

	g, err := app.groups.GetGroup(r.Context(), groupID)
	if err != nil {
		httputil.Error(w, "Failed to get group", err)
		return
	}

	raw := strings.TrimSpace(r.Form.Get("member_id"))
	if raw == "" {
		middleware.ClearSessionMember(app.sessions, r.Context(), g.ID)
		redirect(w, r, groupURL(g))
		return
	}

	memberID, err := uuid.Parse(raw)
	if err != nil {
		httputil.BadRequest(w, "Invalid member ID", err)
		return
	}
	if _, ok := g.Member(memberID); !ok {
		httputil.Error(w, "Failed to select member", group.ErrMemberNotFound)
		return
	}
	middleware.SetSessionMember(app.sessions, r.Context(), g.ID, memberID)
	redirect(w, r, groupURL(g))
}

func (app *application) addMember(w http.ResponseWriter, r *http.Request) {
	groupID, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		httputil.BadRequest(w, "Invalid form data", err)
		return
	}
	if _, err := app.groups.AddMember(r.Context(), groupID, r.Form.Get("name")); err != nil {
		httputil.Error(w, "Failed to add member", err)
		return
	}
	redirect(w, r, "/groups/"+groupID.String())
}

func (app *application) removeMember(w http.ResponseWriter, r *http.Request) {
	groupID, memberID, ok := urlMemberIDs(w, r)
	if !ok {
		return
	}
	g, err := app.groups.RemoveMember(r.Context(), groupID, memberID)
	if err != nil {
		httputil.Error(w, "Failed to remove member", err)
		return
	}
	if active, ok := middleware.GetSessionMember(app.sessions, r.Context(), g.ID); ok && active == memberID {
		middleware.ClearSessionMember(app.sessions, r.Context(), g.ID)
	}
	redirect(w, r, groupURL(g))
}

func (app *application) addWin(w http.ResponseWriter, r *http.Request) {
	groupID, memberID, ok := urlMemberIDs(w, r)
	if !ok {
		return
	}
	g, err := app.groups.AddWin(r.Context(), groupID, memberID)
	if err != nil {
		httputil.Error(w, "Failed to add win", err)
		return
	}
	redirect(w, r, groupURL(g))
}

// updateProfile applies one deck profile edit. Only the member selected with
// "This is me" may edit their own profile.
func (app *application) updateProfile(w http.ResponseWriter, r *http.Request) {
	groupID, memberID, ok := urlMemberIDs(w, r)
	if !ok {
		return
	}
	if active, ok := middleware.GetSessionMember(app.sessions, r.Context(), groupID); !ok || active != memberID {
		http.Error(w, "You can only edit your own profile", http.StatusForbidden)
		return
	}
	if err := r.ParseForm(); err != nil {
		httputil.BadRequest(w, "Invalid form data", err)
		return
	}

	update, err := app.profileUpdate(r.Form)
	if err != nil {
		httputil.BadRequest(w, err.Error(), err)
		return
	}

	alerts, err := app.groups.UpdateProfile(r.Context(), groupID, memberID, update)
	if err != nil {
		httputil.Error(w, "Failed to update profile", err)
		return
	}
	if len(alerts) > 0 {
		raw, err := json.Marshal(alerts)
		if err != nil {
			httputil.InternalServerError(w, "Failed to encode deck alerts", err)
			return
		}
		app.sessions.Put(r.Context(), alertsKey(groupID), string(raw))
	}

	redirect(w, r, fmt.Sprintf("/groups/%s?profile=%s", groupID, memberID))
}

func (app *application) recordWinner(w http.ResponseWriter, r *http.Request) {
	groupID, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	matchID, ok := urlID(w, r, "matchID")
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		httputil.BadRequest(w, "Invalid form data", err)
		return
	}
	winnerID, err := uuid.Parse(r.Form.Get("winner_id"))
	if err != nil {
		httputil.BadRequest(w, "Invalid winner ID", err)
		return
	}

	g, err := app.groups.RecordWinner(r.Context(), groupID, matchID, winnerID)
	if err != nil {
		httputil.Error(w, "Failed to record winner", err)
		return
	}
	redirect(w, r, groupURL(g))
}

func (app *application) groupJSON(w http.ResponseWriter, r *http.Request) {
	groupID, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	g, err := app.groups.GetGroup(r.Context(), groupID)
	if err != nil {
		httputil.Error(w, "Failed to get group", err)
		return
	}
	writeJSON(w, g)
}

func (app *application) searchDecks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, app.decks.Search(r.URL.Query().Get("q")))
}

// profileUpdate resolves the deck ids of a profile form against the catalog.
func (app *application) profileUpdate(form url.Values) (group.ProfileUpdate, error) {
	var update group.ProfileUpdate
	lookup := func(field string) (*group.Deck, error) {
		id := strings.TrimSpace(form.Get(field))
		if id == "" {
			return nil, nil
		}
		deck, ok := app.decks.Lookup(id)
		if !ok {
			return nil, fmt.Errorf("unknown deck %q", id)
		}
		return &deck, nil
	}

	var err error
	if update.PreferredDeck, err = lookup("preferred_deck"); err != nil {
		return update, err
	}
	if update.AddHave, err = lookup("add_have"); err != nil {
		return update, err
	}
	if update.AddWant, err = lookup("add_want"); err != nil {
		return update, err
	}
	update.RemoveHave = strings.TrimSpace(form.Get("remove_have"))
	update.RemoveWant = strings.TrimSpace(form.Get("remove_want"))
	return update, nil
}

func memberIndices(form url.Values) []int {
	var indices []int
	for key := range form {
		if !strings.HasPrefix(key, memberFieldPrefix) {
			continue
		}
		if index, err := strconv.Atoi(strings.TrimPrefix(key, memberFieldPrefix)); err == nil {
			indices = append(indices, index)
		}
	}
	sort.Ints(indices)
	return indices
}

// memberNames returns the member name fields in the order they were added.
func memberNames(form url.Values) []string {
	var names []string
	for _, index := range memberIndices(form) {
		names = append(names, form.Get(memberFieldPrefix+strconv.Itoa(index)))
	}
	return names
}

func groupURL(g *group.Group) string {
	return fmt.Sprintf("/groups/%s/%s", g.ID, g.Slug)
}

// redirect sends htmx requests an HX-Redirect and plain forms a 303.
func redirect(w http.ResponseWriter, r *http.Request, target string) {
	if r.Header.Get("HX-Request") != "" && r.Header.Get("HX-Boosted") == "" {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func urlID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		httputil.BadRequest(w, "Invalid "+param, err)
		return uuid.Nil, false
	}
	return id, true
}

func urlMemberIDs(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	groupID, ok := urlID(w, r, "id")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	memberID, ok := urlID(w, r, "memberID")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return groupID, memberID, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
