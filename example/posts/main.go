package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/kroma-labs/restapi/example/posts/internal/config"
	"github.com/kroma-labs/restapi/example/posts/internal/posts"
	"github.com/kroma-labs/restapi/example/posts/internal/telemetry"
)

func main() {
	ctx := context.Background()
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	// 1. Setup OpenTelemetry
	reader, shutdown, err := telemetry.Setup(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to setup OTel")
	}
	defer func() { _ = shutdown(ctx) }()

	// 2. Build the posts client
	client, err := posts.New(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create posts client")
	}

	created, err := client.Create(ctx, posts.Post{UserID: 1, Title: "foo", Body: "bar"})
	if err != nil {
		logger.Error().Err(err).Msg("create failed")
	} else {
		logger.Info().Int("id", created.ID).Msg("created post")
	}

	if status, err := client.Missing(ctx); err == nil {
		logger.Info().Str("status", status).Msg("missing post")
	}

	// 3. Load posts in a loop until interrupted
	tracer := otel.Tracer("posts-example")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(config.OperationInterval)
	defer ticker.Stop()

	logger.Info().Msg("posts example started, press Ctrl+C to stop")

	for {
		select {
		case <-ticker.C:
			ctx, span := tracer.Start(ctx, "load-posts")
			err := client.LoadUserPosts(ctx, func(p []posts.Post) {
				logger.Info().Int("count", len(p)).Msg("posts delivered")
			})
			if err != nil {
				logger.Error().Err(err).Msg("load failed")
			}
			span.End()

		case <-sigChan:
			var rm metricdata.ResourceMetrics
			if err := reader.Collect(ctx, &rm); err == nil {
				for _, sm := range rm.ScopeMetrics {
					for _, m := range sm.Metrics {
						logger.Info().Str("scope", sm.Scope.Name).Str("metric", m.Name).Msg("recorded")
					}
				}
			}
			logger.Info().Msg("shutting down")
			return
		}
	}
}
