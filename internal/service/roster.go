package service

import (
	"context"

	"github.com/rs/zerolog"

	"league-companion/internal/domain"
	"league-companion/internal/repository"
)

// RosterService manages the tracked participants of a server and their
// linked game accounts. Every other service reads the roster it builds.
type RosterService struct {
	participants *repository.ParticipantRepository
	logger       zerolog.Logger
}

func NewRosterService(participants *repository.ParticipantRepository, logger zerolog.Logger) *RosterService {
	return &RosterService{participants: participants, logger: logger}
}

// Register creates a tracked participant, linking any accounts supplied
// up front.
func (s *RosterService) Register(ctx context.Context, serverID, displayName, externalID string, accounts []domain.LinkedAccount) (*domain.Participant, error) {
	p, err := s.participants.Create(ctx, serverID, displayName, externalID)
	if err != nil {
		return nil, err
	}
	for _, a := range accounts {
		if err := s.participants.LinkAccount(ctx, p.ID, a.AccountID, a.Region); err != nil {
			return nil, err
		}
		p.Accounts = append(p.Accounts, a)
	}

	s.logger.Info().
		Str("server_id", serverID).
		Str("participant_id", p.ID).
		Str("display_name", displayName).
		Int("accounts", len(accounts)).
		Msg("participant registered")
	return p, nil
}

// LinkAccount attaches one more account to an existing participant and
// returns the updated participant. Unknown participants surface
// repository.ErrParticipantNotFound.
func (s *RosterService) LinkAccount(ctx context.Context, participantID, accountID, region string) (*domain.Participant, error) {
	if _, err := s.participants.Get(ctx, participantID); err != nil {
		return nil, err
	}
	if err := s.participants.LinkAccount(ctx, participantID, accountID, region); err != nil {
		return nil, err
	}
	return s.participants.Get(ctx, participantID)
}

// Roster returns the server's tracked participants with their accounts.
func (s *RosterService) Roster(ctx context.Context, serverID string) ([]domain.Participant, error) {
	return s.participants.ListByServer(ctx, serverID)
}

// Get returns one participant by id.
func (s *RosterService) Get(ctx context.Context, participantID string) (*domain.Participant, error) {
	return s.participants.Get(ctx, participantID)
}
