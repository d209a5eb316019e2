package main

import (
	"context"
	"net/http"
	"time"

	"github.com/md-rashed-zaman/eventpub/libs/config"
	"github.com/md-rashed-zaman/eventpub/libs/events"
	"github.com/md-rashed-zaman/eventpub/libs/httpx"
	otelx "github.com/md-rashed-zaman/eventpub/libs/otel"
	"github.com/md-rashed-zaman/eventpub/libs/redisx"
	"github.com/md-rashed-zaman/eventpub/libs/runtime"
	"github.com/md-rashed-zaman/eventpub/services/event-relay/internal/backend"
	"github.com/md-rashed-zaman/eventpub/services/event-relay/internal/handlers"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	service := config.String("SERVICE_NAME", "event-relay")
	port, err := config.Port("PORT", "8090")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	topics := events.TopicsFromEnv(config.String("EVENT_TOPIC_PREFIX", "EVENT_TOPIC_"), events.DefaultTopicNames...)
	for _, name := range topics.Names() {
		if d, _ := topics.Destination(name); d == "" {
			logger.Warn("topic destination not configured", "topic", name)
		}
	}

	be, err := backend.FromEnv(ctx, logger, topics)
	if err != nil {
		logger.Error("events backend setup failed", "err", err)
		panic(err)
	}
	defer func() {
		if err := be.Close(); err != nil {
			logger.Error("events backend close failed", "err", err)
		}
	}()

	publisher := events.NewPublisher(be.Client, topics, logger)
	eventsHandler := handlers.NewEventsHandler(publisher, logger)

	var checks []runtime.ReadyCheck
	if be.Ready.Check != nil {
		checks = append(checks, be.Ready)
	}
	mux := runtime.NewBaseMuxWithReady(checks...)
	mux.HandleFunc("/api/v1/topics/{topic}/events", eventsHandler.Publish)
	mux.HandleFunc("/api/v1/topics", eventsHandler.ListTopics)

	rateLimit, err := config.Int("RATE_LIMIT_PER_MINUTE", 600)
	if err != nil {
		panic(err)
	}
	requestTimeout, err := config.Duration("REQUEST_TIMEOUT", 10*time.Second)
	if err != nil {
		panic(err)
	}

	limiter := httpx.NewRateLimiter(rateLimit, time.Minute).Middleware()
	if addr := config.String("RATE_LIMIT_REDIS_ADDR", ""); addr != "" {
		rdb, err := redisx.Open(ctx, redisx.Config{Addr: addr, Password: config.String("RATE_LIMIT_REDIS_PASSWORD", "")})
		if err != nil {
			logger.Error("redis rate limiter unavailable, using in-memory limiter", "err", err)
		} else {
			defer rdb.Close()
			limiter = httpx.NewRedisRateLimiter(rdb, rateLimit, time.Minute, service).
				Middleware(logger, config.Bool("RATE_LIMIT_FAIL_OPEN", true))
		}
	}

	handler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithRecover(logger),
		limiter,
		httpx.WithBodyLimit(1<<20),
		httpx.WithTimeout(requestTimeout),
	)
	handler = otelhttp.NewHandler(handler, "event-relay")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr, "backend", be.Name, "topics", topics.Names())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	publisher.Wait()
	logger.Info("http server stopped")
}
