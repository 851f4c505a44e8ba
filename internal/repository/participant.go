package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"league-companion/internal/domain"
)

var ErrParticipantNotFound = errors.New("participant not found")

type ParticipantRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewParticipantRepository(db *sql.DB, logger zerolog.Logger) *ParticipantRepository {
	return &ParticipantRepository{db: db, logger: logger}
}

// Create registers a tracked participant on a server.
func (r *ParticipantRepository) Create(ctx context.Context, serverID, displayName, externalID string) (*domain.Participant, error) {
	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate participant id: %w", err)
	}

	now := time.Now().UTC()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO participants (id, server_id, display_name, external_id, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		id, serverID, displayName, externalID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create participant: %w", err)
	}

	r.logger.Info().
		Str("participant_id", id).
		Str("server_id", serverID).
		Str("display_name", displayName).
		Msg("participant created")

	return &domain.Participant{
		ID:          id,
		ServerID:    serverID,
		DisplayName: displayName,
		ExternalID:  externalID,
		CreatedAt:   now,
	}, nil
}

// LinkAccount attaches a game account to a participant. The account id
// is globally unique; relinking moves it.
func (r *ParticipantRepository) LinkAccount(ctx context.Context, participantID, accountID, region string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO linked_accounts (account_id, participant_id, region, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (account_id) DO UPDATE SET
			participant_id = excluded.participant_id,
			region = excluded.region`,
		accountID, participantID, region, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to link account: %w", err)
	}

	r.logger.Info().
		Str("participant_id", participantID).
		Str("account_id", accountID).
		Str("region", region).
		Msg("account linked")
	return nil
}

// ListByServer returns the server's roster with all linked accounts.
func (r *ParticipantRepository) ListByServer(ctx context.Context, serverID string) ([]domain.Participant, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.id, p.server_id, p.display_name, p.external_id, p.created_at,
		       a.account_id, a.region
		FROM participants p
		LEFT JOIN linked_accounts a ON a.participant_id = p.id
		WHERE p.server_id = ?
		ORDER BY p.display_name, a.account_id`, serverID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []domain.Participant
	index := make(map[string]int)
	for rows.Next() {
		var p domain.Participant
		var accountID, region sql.NullString
		if err := rows.Scan(&p.ID, &p.ServerID, &p.DisplayName, &p.ExternalID, &p.CreatedAt, &accountID, &region); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		i, ok := index[p.ID]
		if !ok {
			i = len(participants)
			index[p.ID] = i
			participants = append(participants, p)
		}
		if accountID.Valid {
			participants[i].Accounts = append(participants[i].Accounts, domain.LinkedAccount{
				AccountID: accountID.String,
				Region:    region.String,
			})
		}
	}
	return participants, rows.Err()
}

// Get returns one participant by id with linked accounts.
func (r *ParticipantRepository) Get(ctx context.Context, id string) (*domain.Participant, error) {
	var p domain.Participant
	err := r.db.QueryRowContext(ctx, `
		SELECT id, server_id, display_name, external_id, created_at
		FROM participants WHERE id = ?`, id).
		Scan(&p.ID, &p.ServerID, &p.DisplayName, &p.ExternalID, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrParticipantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT account_id, region FROM linked_accounts WHERE participant_id = ? ORDER BY account_id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load linked accounts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a domain.LinkedAccount
		if err := rows.Scan(&a.AccountID, &a.Region); err != nil {
			return nil, fmt.Errorf("failed to scan linked account: %w", err)
		}
		p.Accounts = append(p.Accounts, a)
	}
	return &p, rows.Err()
}
