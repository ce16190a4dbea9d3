package store

import (
	"context"
	"database/sql"
	"testing"

	users "github.com/MarcEnDev/trackanddecker/internal/user"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserStore(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	ctx := context.Background()
	store := NewUserStore(database)

	provider := "discord"
	providerID := "1234"
	avatar := "https://cdn.example.com/a.png"
	user := &users.User{
		ID:         uuid.New(),
		Email:      "player@example.com",
		Username:   "player",
		Provider:   &provider,
		ProviderID: &providerID,
		AvatarURL:  &avatar,
	}
	require.NoError(t, store.CreateUser(ctx, user))

	fetched, err := store.GetUserByProvider(ctx, provider, providerID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, fetched.ID)
	assert.Equal(t, "player", fetched.Username)

	newAvatar := "https://cdn.example.com/b.png"
	fetched.Username = "renamed"
	fetched.AvatarURL = &newAvatar
	require.NoError(t, store.UpdateUserNameAndAvatar(ctx, fetched))

	again, err := store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", again.Username)
	assert.Equal(t, newAvatar, *again.AvatarURL)

	_, err = store.GetUser(ctx, uuid.New())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
