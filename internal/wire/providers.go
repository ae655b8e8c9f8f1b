package wire

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MananGandhi1810/coding-interview-simulation-platform/internal/cache"
	"github.com/MananGandhi1810/coding-interview-simulation-platform/internal/config"
	"github.com/MananGandhi1810/coding-interview-simulation-platform/internal/core"
	"github.com/MananGandhi1810/coding-interview-simulation-platform/internal/db"
	"github.com/MananGandhi1810/coding-interview-simulation-platform/internal/jobs"
	"github.com/MananGandhi1810/coding-interview-simulation-platform/internal/llm"
	"github.com/MananGandhi1810/coding-interview-simulation-platform/internal/logger"
	"github.com/MananGandhi1810/coding-interview-simulation-platform/internal/pubsub"
	"github.com/MananGandhi1810/coding-interview-simulation-platform/internal/resume"
	"github.com/MananGandhi1810/coding-interview-simulation-platform/internal/storage"
)

func provideLoggerConfig(cfg *config.Config) logger.Config {
	return logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}
}

func provideLogger(lc logger.Config) *slog.Logger {
	return logger.New(lc, nil)
}

func provideDBConfig(cfg *config.Config) *config.DBConfig {
	return cfg.Database
}

func provideStore(database *db.DB) storage.Store {
	return storage.NewStore(database.DB)
}

func provideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("ping redis at %s: %w", cfg.RedisAddr, err)
	}

	return client, func() { _ = client.Close() }, nil
}

func provideSubscriber(ctx context.Context, cfg *config.Config, client *redis.Client, log *slog.Logger) (pubsub.Subscriber, func(), error) {
	sub, err := pubsub.NewRedisSubscriber(ctx, client, log,
		cfg.NewInterviewChannel, cfg.EndInterviewChannel)
	if err != nil {
		return nil, nil, err
	}
	return sub, func() { _ = sub.Close() }, nil
}

func provideCache(client *redis.Client) cache.Cache {
	return cache.NewRedisCache(client)
}

// newExtractionHTTPClient bounds document fetches and OCR calls, which can
// be slow on large PDFs.
func newExtractionHTTPClient() *http.Client {
	return &http.Client{Timeout: 60 * time.Second}
}

func provideExtractor(cfg *config.Config, c cache.Cache, log *slog.Logger) (resume.Extractor, error) {
	httpClient := newExtractionHTTPClient()

	var inner resume.Extractor
	switch cfg.Extractor {
	case "mistral":
		inner = resume.NewMistralExtractor(cfg.MistralAPIKey, httpClient)
	case "docconv":
		inner = resume.NewDocconvExtractor(httpClient)
	default:
		return nil, fmt.Errorf("unsupported extractor %q", cfg.Extractor)
	}

	return resume.NewCachedExtractor(inner, c, cfg.ResumeCacheTTL, cfg.GDriveAPIKey, log), nil
}

func provideModelClient(ctx context.Context, cfg *config.Config) (llm.Client, func(), error) {
	client, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

func provideAnalysisJob(extractor resume.Extractor, model llm.Client, prompts *llm.PromptManager, store storage.Store, cfg *config.Config, log *slog.Logger) *jobs.AnalysisJob {
	return jobs.NewAnalysisJob(extractor, model, prompts, store,
		cfg.ProblemCount, cfg.ExtractTimeout, cfg.InferTimeout, log)
}

func provideEvaluationJob(model llm.Client, prompts *llm.PromptManager, store storage.Store, cfg *config.Config, log *slog.Logger) *jobs.EvaluationJob {
	return jobs.NewEvaluationJob(model, prompts, store, cfg.InferTimeout, log)
}

func provideRoutes(analysis *jobs.AnalysisJob, evaluation *jobs.EvaluationJob) map[core.EventKind]core.Job {
	return map[core.EventKind]core.Job{
		core.KindNewInterview: analysis,
		core.KindEndInterview: evaluation,
	}
}

func provideDispatcher(sub pubsub.Subscriber, routes map[core.EventKind]core.Job, store storage.Store, cfg *config.Config, log *slog.Logger) *jobs.Dispatcher {
	return jobs.NewDispatcher(sub, routes, store, cfg.MaxConcurrentJobs, log)
}
