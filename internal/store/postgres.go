package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"propdesk/api/internal/proposal"
)

// PostgresStore persists proposals and client briefs. The JSON document
// column is authoritative; every save replaces the whole blob
// (last-write-wins, no field-level partial update at this layer).
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

// GetProposal loads and decodes a proposal document. sql.ErrNoRows passes
// through for the HTTP layer's 404 mapping.
func (s *PostgresStore) GetProposal(ctx context.Context, id string) (*proposal.Proposal, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, `SELECT doc FROM proposals WHERE id=$1`, id).Scan(&raw)
	if err != nil {
		return nil, err
	}
	var doc proposal.Proposal
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode proposal %s: %w", id, err)
	}
	return &doc, nil
}

// SaveProposal upserts the full document and refreshes the scalar listing
// columns from it.
func (s *PostgresStore) SaveProposal(ctx context.Context, doc *proposal.Proposal) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode proposal %s: %w", doc.ID, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO proposals (id, doc, status, title, client_name, organization, created_at, updated_at)
		VALUES ($1, $2::jsonb, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			doc=EXCLUDED.doc,
			status=EXCLUDED.status,
			title=EXCLUDED.title,
			client_name=EXCLUDED.client_name,
			organization=EXCLUDED.organization,
			updated_at=EXCLUDED.updated_at
	`, doc.ID, string(raw), string(doc.Status), doc.Cover.Title, doc.Cover.ClientName, doc.Cover.Organization, doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save proposal %s: %w", doc.ID, err)
	}
	return nil
}

// DeleteProposal removes a proposal. Reports whether a row existed.
func (s *PostgresStore) DeleteProposal(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM proposals WHERE id=$1`, id)
	if err != nil {
		return false, fmt.Errorf("delete proposal %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete proposal rows: %w", err)
	}
	return affected > 0, nil
}

// ListProposals returns listing rows, most recently updated first.
func (s *PostgresStore) ListProposals(ctx context.Context) ([]ProposalRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, client_name, organization, status, updated_at
		FROM proposals
		ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}
	defer rows.Close()

	items := make([]ProposalRow, 0)
	for rows.Next() {
		var item ProposalRow
		if err := rows.Scan(&item.ID, &item.Title, &item.ClientName, &item.Organization, &item.Status, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan proposal row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate proposals: %w", err)
	}
	return items, nil
}

// GetBrief loads a client brief. sql.ErrNoRows passes through.
func (s *PostgresStore) GetBrief(ctx context.Context, id string) (*proposal.ClientBrief, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM client_briefs WHERE id=$1`, id).Scan(&raw)
	if err != nil {
		return nil, err
	}
	var brief proposal.ClientBrief
	if err := json.Unmarshal(raw, &brief); err != nil {
		return nil, fmt.Errorf("decode brief %s: %w", id, err)
	}
	return &brief, nil
}

// SaveBrief upserts a client brief.
func (s *PostgresStore) SaveBrief(ctx context.Context, brief *proposal.ClientBrief) error {
	raw, err := json.Marshal(brief)
	if err != nil {
		return fmt.Errorf("encode brief %s: %w", brief.ID, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO client_briefs (id, data, client_name, organization)
		VALUES ($1, $2::jsonb, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			data=EXCLUDED.data,
			client_name=EXCLUDED.client_name,
			organization=EXCLUDED.organization,
			updated_at=NOW()
	`, brief.ID, string(raw), brief.ClientName, brief.Organization)
	if err != nil {
		return fmt.Errorf("save brief %s: %w", brief.ID, err)
	}
	return nil
}

// ListBriefs returns brief listing rows, newest first.
func (s *PostgresStore) ListBriefs(ctx context.Context) ([]BriefRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, client_name, organization, created_at
		FROM client_briefs
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list briefs: %w", err)
	}
	defer rows.Close()

	items := make([]BriefRow, 0)
	for rows.Next() {
		var item BriefRow
		if err := rows.Scan(&item.ID, &item.ClientName, &item.Organization, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan brief row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate briefs: %w", err)
	}
	return items, nil
}

// Ping verifies the database connection is alive
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
