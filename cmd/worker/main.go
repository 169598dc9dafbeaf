package main

import (
	"github.com/hibiken/asynq"
	redis "github.com/redis/go-redis/v9"

	"github.com/threadline/workwear-api/internal/config"
	"github.com/threadline/workwear-api/internal/notify"
	"github.com/threadline/workwear-api/internal/obs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := obs.NewLogger("json", "info").With().
		Str("env", cfg.AppEnv).
		Str("component", "worker").
		Logger()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisOpts.Addr, Password: redisOpts.Password, DB: redisOpts.DB},
		asynq.Config{
			Concurrency: cfg.WorkerConcurrency,
			Queues:      map[string]int{"default": 1},
		},
	)

	worker := &notify.Worker{
		Email: notify.NopEmailSender{},
		Log:   logger,
	}
	mux := asynq.NewServeMux()
	worker.Register(mux)

	logger.Info().Int("concurrency", cfg.WorkerConcurrency).Msg("worker starting")
	if err := srv.Run(mux); err != nil {
		logger.Fatal().Err(err).Msg("worker exited unexpectedly")
	}
}
