package fx

import (
	"clutch-tracker/internal/api"
	"clutch-tracker/internal/config"
	"clutch-tracker/internal/database"
	"clutch-tracker/internal/logger"
	"clutch-tracker/internal/repository"
	"clutch-tracker/internal/server"
	"clutch-tracker/internal/service"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewPlayerRepository),
	fx.Provide(repository.NewGameLogRepository),
	fx.Provide(repository.NewClutchTotalsRepository),
	// api client
	fx.Provide(api.NewStatsClient),
	// svc
	fx.Provide(service.NewPlayerService),
	fx.Provide(service.NewClutchService),
	// server
	fx.Provide(server.NewClutchServer),
)
