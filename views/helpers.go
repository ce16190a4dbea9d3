package views

import (
	"context"

	"github.com/MarcEnDev/trackanddecker/internal/middleware"
	users "github.com/MarcEnDev/trackanddecker/internal/user"
)

func GetUser(ctx context.Context) *users.User {
	return middleware.GetAuthenticatedUser(ctx)
}
