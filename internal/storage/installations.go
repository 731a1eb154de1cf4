package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mattjoyce/slashgate/internal/oauth"
)

// ErrNotFound is returned when no installation exists for a team.
var ErrNotFound = errors.New("installation not found")

// InstallationRecord is a persisted installation.
type InstallationRecord struct {
	ID string
	oauth.Installation
	CreatedAt time.Time
	UpdatedAt time.Time
}

// InstallationStore persists OAuth installations keyed by team.
type InstallationStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewInstallationStore(db *sql.DB) *InstallationStore {
	return &InstallationStore{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Save upserts inst by team_id and returns the stored record's id. A team that
// reinstalls keeps its original id.
func (s *InstallationStore) Save(ctx context.Context, inst *oauth.Installation) (string, error) {
	if inst == nil || inst.TeamID == "" {
		return "", fmt.Errorf("installation team_id is empty")
	}

	now := s.now().Format(time.RFC3339Nano)
	var id string
	err := s.db.QueryRowContext(ctx, `
INSERT INTO installations(
  id, team_id, team_name, user_id, access_token, incoming_webhook_url,
  channel_id, channel_name, configuration_url, created_at, updated_at)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(team_id) DO UPDATE SET
  team_name = excluded.team_name,
  user_id = excluded.user_id,
  access_token = excluded.access_token,
  incoming_webhook_url = excluded.incoming_webhook_url,
  channel_id = excluded.channel_id,
  channel_name = excluded.channel_name,
  configuration_url = excluded.configuration_url,
  updated_at = excluded.updated_at
RETURNING id;
`,
		uuid.NewString(), inst.TeamID, inst.TeamName, inst.UserID, inst.AccessToken,
		inst.IncomingWebhookURL, inst.ChannelID, inst.ChannelName, inst.ConfigurationURL,
		now, now,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("upsert installation: %w", err)
	}
	return id, nil
}

// Get returns the installation for teamID, or ErrNotFound.
func (s *InstallationStore) Get(ctx context.Context, teamID string) (*InstallationRecord, error) {
	var (
		rec                  InstallationRecord
		createdAt, updatedAt string
	)
	err := s.db.QueryRowContext(ctx, `
SELECT id, team_id, team_name, user_id, access_token, incoming_webhook_url,
       channel_id, channel_name, configuration_url, created_at, updated_at
FROM installations WHERE team_id = ?;
`, teamID).Scan(
		&rec.ID, &rec.TeamID, &rec.TeamName, &rec.UserID, &rec.AccessToken,
		&rec.IncomingWebhookURL, &rec.ChannelID, &rec.ChannelName, &rec.ConfigurationURL,
		&createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read installation: %w", err)
	}

	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if rec.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &rec, nil
}

// Count returns the number of stored installations.
func (s *InstallationStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM installations;").Scan(&n); err != nil {
		return 0, fmt.Errorf("count installations: %w", err)
	}
	return n, nil
}
