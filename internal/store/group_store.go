package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MarcEnDev/trackanddecker/internal/group"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// GroupStore keeps each group as one JSON document keyed by its id. The
// remaining columns only exist for listing and filtering.
type GroupStore struct {
	db *sqlx.DB
}

type groupRow struct {
	ID        uuid.UUID  `db:"id"`
	OwnerID   uuid.UUID  `db:"owner_id"`
	Name      string     `db:"name"`
	Slug      string     `db:"slug"`
	Type      group.Type `db:"group_type"`
	Finished  bool       `db:"is_finished"`
	Document  string     `db:"document"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

const (
	createGroupQuery = `
		INSERT INTO deck_groups (id, owner_id, name, slug, group_type, is_finished, document, created_at, updated_at)
		VALUES (:id, :owner_id, :name, :slug, :group_type, :is_finished, :document, :created_at, :updated_at)
	`
	updateGroupQuery = `
		UPDATE deck_groups SET
		name = :name,
		slug = :slug,
		is_finished = :is_finished,
		document = :document,
		updated_at = :updated_at
		WHERE id = :id
	`
	getGroupQuery          = "SELECT * FROM deck_groups WHERE id = ?"
	deleteGroupQuery       = "DELETE FROM deck_groups WHERE id = ?"
	listGroupsByOwnerQuery = "SELECT * FROM deck_groups WHERE owner_id = ? ORDER BY created_at DESC, name ASC"
)

func NewGroupStore(db *sqlx.DB) *GroupStore {
	return &GroupStore{db: db}
}

func (s *GroupStore) CreateGroup(ctx context.Context, tx *sqlx.Tx, g *group.Group) error {
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	row, err := toRow(g)
	if err != nil {
		return err
	}
	_, err = tx.NamedExecContext(ctx, createGroupQuery, row)
	return err
}

// UpdateGroup replaces the stored document. A missing group is reported as
// sql.ErrNoRows.
func (s *GroupStore) UpdateGroup(ctx context.Context, tx *sqlx.Tx, g *group.Group) error {
	row, err := toRow(g)
	if err != nil {
		return err
	}
	res, err := tx.NamedExecContext(ctx, updateGroupQuery, row)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (s *GroupStore) GetGroup(ctx context.Context, id uuid.UUID) (*group.Group, error) {
	var row groupRow
	if err := s.db.GetContext(ctx, &row, getGroupQuery, id); err != nil {
		return nil, err
	}
	return fromRow(row)
}

func (s *GroupStore) GetGroupTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*group.Group, error) {
	var row groupRow
	if err := tx.GetContext(ctx, &row, getGroupQuery, id); err != nil {
		return nil, err
	}
	return fromRow(row)
}

func (s *GroupStore) DeleteGroup(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	res, err := tx.ExecContext(ctx, deleteGroupQuery, id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (s *GroupStore) ListGroupsByOwner(ctx context.Context, ownerID uuid.UUID) ([]group.Group, error) {
	var rows []groupRow
	if err := s.db.SelectContext(ctx, &rows, listGroupsByOwnerQuery, ownerID); err != nil {
		return nil, err
	}

	groups := make([]group.Group, 0, len(rows))
	for _, row := range rows {
		g, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		groups = append(groups, *g)
	}
	return groups, nil
}

func toRow(g *group.Group) (groupRow, error) {
	doc, err := json.Marshal(g)
	if err != nil {
		return groupRow{}, fmt.Errorf("failed to encode group %s: %w", g.ID, err)
	}
	return groupRow{
		ID:        g.ID,
		OwnerID:   g.OwnerID,
		Name:      g.Name,
		Slug:      g.Slug,
		Type:      g.Type,
		Finished:  g.Finished,
		Document:  string(doc),
		CreatedAt: g.CreatedAt,
		UpdatedAt: time.Now().UTC(),
	}, nil
}

func fromRow(row groupRow) (*group.Group, error) {
	var g group.Group
	if err := json.Unmarshal([]byte(row.Document), &g); err != nil {
		return nil, fmt.Errorf("failed to decode group %s: %w", row.ID, err)
	}
	return &g, nil
}
