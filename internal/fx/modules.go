package fx

import (
	"go.uber.org/fx"

	"league-companion/internal/api"
	"league-companion/internal/config"
	"league-companion/internal/database"
	"league-companion/internal/logger"
	"league-companion/internal/pairing"
	"league-companion/internal/repository"
	"league-companion/internal/server"
	"league-companion/internal/service"
	"league-companion/internal/storage"
)

func ProvideObjectStore(cfg *config.Config) storage.ObjectStore {
	return storage.NewFSStore(cfg.CachePath)
}

func ProvideMatchSource(repo *repository.MatchRepository) pairing.MatchSource {
	return repo
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(database.New),
	fx.Provide(ProvideObjectStore),
	// repos
	fx.Provide(repository.NewMatchRepository),
	fx.Provide(repository.NewParticipantRepository),
	fx.Provide(repository.NewSnapshotRepository),
	fx.Provide(ProvideMatchSource),
	// api client
	fx.Provide(api.NewRiotClient),
	// pairing core
	fx.Provide(pairing.NewEngine),
	fx.Provide(pairing.NewWeeklyCache),
	fx.Provide(pairing.NewGuard),
	// svc
	fx.Provide(service.NewRosterService),
	fx.Provide(service.NewSyncService),
	fx.Provide(service.NewReportService),
	fx.Provide(service.NewCompetitionService),
	// server
	fx.Provide(server.NewServer),
)
