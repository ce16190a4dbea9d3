package middleware

import (
	"context"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
)

// The "this is me" selection is remembered per group, like the
// deckmatch-session-user-<group> browser key it replaces.
func sessionMemberKey(groupID uuid.UUID) string {
	return "member:" + groupID.String()
}

func SetSessionMember(sm *scs.SessionManager, ctx context.Context, groupID, memberID uuid.UUID) {
	sm.Put(ctx, sessionMemberKey(groupID), memberID.String())
}

func ClearSessionMember(sm *scs.SessionManager, ctx context.Context, groupID uuid.UUID) {
	sm.Remove(ctx, sessionMemberKey(groupID))
}

func GetSessionMember(sm *scs.SessionManager, ctx context.Context, groupID uuid.UUID) (uuid.UUID, bool) {
	raw := sm.GetString(ctx, sessionMemberKey(groupID))
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
