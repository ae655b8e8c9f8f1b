//go:build wireinject
// +build wireinject

package wire

import (
	"context"

	"github.com/google/wire"

	"github.com/MananGandhi1810/coding-interview-simulation-platform/internal/app"
	"github.com/MananGandhi1810/coding-interview-simulation-platform/internal/config"
	"github.com/MananGandhi1810/coding-interview-simulation-platform/internal/db"
	"github.com/MananGandhi1810/coding-interview-simulation-platform/internal/llm"
)

func InitializeApp(ctx context.Context) (*app.App, func(), error) {
	wire.Build(
		app.NewApp,
		config.LoadConfig,
		db.NewDatabase,
		llm.NewPromptManager,
		provideLoggerConfig,
		provideLogger,
		provideDBConfig,
		provideStore,
		provideRedisClient,
		provideSubscriber,
		provideCache,
		provideExtractor,
		provideModelClient,
		provideAnalysisJob,
		provideEvaluationJob,
		provideRoutes,
		provideDispatcher,
	)
	return &app.App{}, nil, nil
}
