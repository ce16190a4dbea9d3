package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/MarcEnDev/trackanddecker/internal/bracket"
	"github.com/MarcEnDev/trackanddecker/internal/group"
	"github.com/MarcEnDev/trackanddecker/internal/metrics"
	"github.com/MarcEnDev/trackanddecker/internal/middleware"
	"github.com/MarcEnDev/trackanddecker/internal/store"
	"github.com/MarcEnDev/trackanddecker/internal/utils"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/jmoiron/sqlx"
)

const MaxNameLength = 50

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthenticated = errors.New("user ID not found in the context")
)

type GroupService struct {
	db       *sqlx.DB
	store    *store.GroupStore
	shuffler bracket.Shuffler
}

func NewGroupService(db *sqlx.DB, store *store.GroupStore) *GroupService {
	return &GroupService{db: db, store: store}
}

// WithShuffler replaces the random source used to seed brackets.
func (s *GroupService) WithShuffler(shuffler bracket.Shuffler) *GroupService {
	s.shuffler = shuffler
	return s
}

type GroupList struct {
	Active   []group.Group
	Finished []group.Group
}

func (s *GroupService) CreateGroup(ctx context.Context, name string, groupType group.Type, memberNames []string) (*group.Group, error) {
	ownerID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	name = utils.OrZero(utils.StringOrNil(name))
	if name == "" {
		return nil, fmt.Errorf("%w: group name is required", ErrInvalidInput)
	}
	if err := checkLength(name); err != nil {
		return nil, err
	}
	if !groupType.Valid() {
		return nil, fmt.Errorf("%w: unknown group type %q", ErrInvalidInput, groupType)
	}

	names := utils.CleanNames(memberNames)
	if len(names) < 2 {
		return nil, fmt.Errorf("%w: at least two members are required", bracket.ErrInsufficientParticipants)
	}

	g := &group.Group{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      name,
		Slug:      makeSlug(name),
		Type:      groupType,
		CreatedAt: time.Now().UTC(),
	}
	for _, n := range names {
		if err := checkLength(n); err != nil {
			return nil, err
		}
		if _, err := g.AddMember(n); err != nil {
			return nil, err
		}
	}

	if groupType == group.Eliminatory {
		b, err := bracket.Seed(g.MemberIDs(), s.shuffler)
		if err != nil {
			return nil, err
		}
		g.Bracket = &b
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.store.CreateGroup(ctx, tx, g); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	metrics.GroupsCreated.WithLabelValues(string(groupType)).Inc()
	slog.Info("group created", "group_id", g.ID, "type", groupType, "members", len(g.Members))
	return g, nil
}

func (s *GroupService) ListGroups(ctx context.Context) (*GroupList, error) {
	ownerID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	groups, err := s.store.ListGroupsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	list := &GroupList{}
	for _, g := range groups {
		if g.Finished {
			list.Finished = append(list.Finished, g)
		} else {
			list.Active = append(list.Active, g)
		}
	}
	return list, nil
}

// GetGroup returns a group owned by the signed-in user. Groups of other
// owners are reported as missing.
func (s *GroupService) GetGroup(ctx context.Context, id uuid.UUID) (*group.Group, error) {
	ownerID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	g, err := s.store.GetGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.OwnerID != ownerID {
		return nil, sql.ErrNoRows
	}
	return g, nil
}

func (s *GroupService) DeleteGroup(ctx context.Context, id uuid.UUID) error {
	ownerID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	g, err := s.store.GetGroupTx(ctx, tx, id)
	if err != nil {
		return err
	}
	if g.OwnerID != ownerID {
		return sql.ErrNoRows
	}
	if err := s.store.DeleteGroup(ctx, tx, id); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}

	slog.Info("group deleted", "group_id", id)
	return tx.Commit()
}

func (s *GroupService) AddMember(ctx context.Context, groupID uuid.UUID, name string) (*group.Member, error) {
	name = utils.OrZero(utils.StringOrNil(name))
	if name == "" {
		return nil, fmt.Errorf("%w: user name cannot be empty", ErrInvalidInput)
	}
	if err := checkLength(name); err != nil {
		return nil, err
	}

	var added group.Member
	_, err := s.update(ctx, groupID, func(g *group.Group) error {
		m, err := g.AddMember(name)
		added = m
		return err
	})
	if err != nil {
		return nil, err
	}
	return &added, nil
}

func (s *GroupService) RemoveMember(ctx context.Context, groupID, memberID uuid.UUID) (*group.Group, error) {
	return s.update(ctx, groupID, func(g *group.Group) error {
		return g.RemoveMember(memberID)
	})
}

func (s *GroupService) AddWin(ctx context.Context, groupID, memberID uuid.UUID) (*group.Group, error) {
	g, err := s.update(ctx, groupID, func(g *group.Group) error {
		return g.AddWin(memberID)
	})
	if err != nil {
		return nil, err
	}
	metrics.LeagueWins.Inc()
	return g, nil
}

// FinishGroup closes a league. There is no automatic finish for leagues.
func (s *GroupService) FinishGroup(ctx context.Context, groupID uuid.UUID) (*group.Group, error) {
	g, err := s.update(ctx, groupID, func(g *group.Group) error {
		return g.Finish()
	})
	if err != nil {
		return nil, err
	}
	metrics.GroupsFinished.WithLabelValues(string(g.Type)).Inc()
	slog.Info("league finished", "group_id", g.ID)
	return g, nil
}

func (s *GroupService) RecordWinner(ctx context.Context, groupID, matchID, winnerID uuid.UUID) (*group.Group, error) {
	g, err := s.update(ctx, groupID, func(g *group.Group) error {
		return g.RecordWinner(matchID, winnerID)
	})
	if err != nil {
		return nil, err
	}

	metrics.BracketResults.Inc()
	slog.Info("bracket winner recorded", "group_id", g.ID, "match_id", matchID, "winner_id", winnerID)
	if g.Finished {
		metrics.GroupsFinished.WithLabelValues(string(g.Type)).Inc()
		slog.Info("tournament finished", "group_id", g.ID, "champion_id", winnerID)
	}
	return g, nil
}

func (s *GroupService) UpdateProfile(ctx context.Context, groupID, memberID uuid.UUID, update group.ProfileUpdate) ([]group.MatchAlert, error) {
	var alerts []group.MatchAlert
	_, err := s.update(ctx, groupID, func(g *group.Group) error {
		var err error
		alerts, err = g.UpdateProfile(memberID, update)
		return err
	})
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

// update runs one read-modify-write of a group inside a transaction, which
// serializes concurrent edits of the same group.
func (s *GroupService) update(ctx context.Context, groupID uuid.UUID, mutate func(g *group.Group) error) (*group.Group, error) {
	ownerID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	g, err := s.store.GetGroupTx(ctx, tx, groupID)
	if err != nil {
		return nil, err
	}
	if g.OwnerID != ownerID {
		return nil, sql.ErrNoRows
	}

	if err := mutate(g); err != nil {
		return nil, err
	}

	if err := s.store.UpdateGroup(ctx, tx, g); err != nil {
		return nil, fmt.Errorf("failed to update group: %w", err)
	}
	return g, tx.Commit()
}

func checkLength(name string) error {
	if utf8.RuneCountInString(name) > MaxNameLength {
		return fmt.Errorf("%w: name '%s' exceeds %d characters", ErrInvalidInput, name, MaxNameLength)
	}
	return nil
}

func makeSlug(name string) string {
	if s := slug.Make(name); s != "" {
		return s
	}
	return "group"
}
