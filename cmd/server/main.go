package main

import (
	"chat-relay/auth"
	"chat-relay/contract"
	grpc2 "chat-relay/infrastructure/grpc"
	"chat-relay/infrastructure/ws"
	"chat-relay/internal"
	"chat-relay/moderation"
	"chat-relay/repositories"
	"chat-relay/runtime"
	"chat-relay/runtime/workers"
	"chat-relay/sink"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

const shutdownTimeout = 5 * time.Second

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Relay terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires every component and blocks until a signal or a server error.
// Nothing is accepted before the audit log is open and the listener is bound.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Audit log, optionally mirrored into BadgerDB
	fileSink, err := sink.NewFileSink(config.AuditLogPath)
	if err != nil {
		return exitRuntime, err
	}
	defer func() {
		_ = fileSink.Close()
	}()

	var auditSink contract.AuditSink = fileSink
	var auditRepository repositories.IAuditRepository
	if config.BadgerFilepath != "" {
		db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
			WithLoggingLevel(badger.WARNING))
		if err != nil {
			return exitRuntime, fmt.Errorf("database opening failed: %w", err)
		}
		defer func() {
			logger.Info("Closing BadgerDB...")
			_ = db.Close()
		}()
		auditRepository = repositories.NewAuditRepository(db, logger, config.LimitRecords)
		auditSink = sink.NewTeeSink(fileSink, sink.NewBadgerSink(auditRepository))
	}

	// 3. Core: registry, router, interpreter and the orchestrator tying them together
	authorizer := auth.NewAuthorizer(config.AdminSecret, config.ClearLogSecret)
	if !authorizer.SharedSecret() {
		logger.Warn("Kick and log clearing are gated by different secrets")
	}

	registry := runtime.NewRegistry()
	router := runtime.NewRouter(logger, registry)
	auditor := runtime.NewAuditor(logger, auditSink)
	interpreter := runtime.NewInterpreter(logger, registry, router, auditor, authorizer, config.KickGracePeriod)
	sup := workers.NewSupervisor(logger, config.RestartInterval)

	orchestrator := runtime.NewOrchestrator(logger, sup, registry, router, interpreter, auditor, config.EventBufferSize)
	orchestrator.Add(
		workers.NewTelemetryWorker(logger, registry, config.StatsInterval),
		workers.NewChannelCapacityWorker(logger, []workers.NamedChannel{orchestrator.Queue()}, config.StatsInterval),
	)

	if config.ModerationEnabled {
		moderator, err := buildModerator(config, logger)
		if err != nil {
			return exitConfig, err
		}
		orchestrator.WithModerator(moderator)
	}

	// 4. Bind before starting anything, a busy port is fatal
	listener, err := net.Listen("tcp", config.Address())
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to listen on %s: %w", config.Address(), err)
	}

	if err = orchestrator.Start(ctx); err != nil {
		return exitRuntime, fmt.Errorf("orchestrator failed to start: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle(config.WSPath, ws.NewServer(logger, orchestrator, config.ConnectionBufferSize, config.MaxMessageSize))
	httpServer := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errChan := make(chan error, 2)
	go func() {
		logger.Info("Chat server started", "address", config.Address(),
			"path", config.WSPath, "audit_log", config.AuditLogPath)
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 5. Optional health and debug endpoints
	var healthServer *grpc2.HealthServer
	if config.HealthPort != 0 {
		healthAddress := fmt.Sprintf("%s:%d", config.Host, config.HealthPort)
		healthListener, err := net.Listen("tcp", healthAddress)
		if err != nil {
			return exitRuntime, fmt.Errorf("failed to listen on %s: %w", healthAddress, err)
		}
		healthServer = grpc2.NewHealthServer(logger)
		go func() {
			if err := healthServer.Serve(healthListener); err != nil {
				errChan <- fmt.Errorf("gRPC health server error: %w", err)
			}
		}()
		healthServer.SetServing(true)
	}

	if config.DebugPort != 0 && auditRepository != nil {
		debugAddress := fmt.Sprintf("localhost:%d", config.DebugPort)
		logger.Info("Debug inspector available", "url", fmt.Sprintf("http://%s/inspect", debugAddress))
		go func() {
			_ = http.ListenAndServe(debugAddress, internal.NewDebugHandler(logger, registry, auditRepository))
		}()
	}

	// 6. Wait for Stop or Error
	select {
	case <-ctx.Done():
		logger.Info("Shutting down gracefully...")
	case err := <-errChan:
		return exitRuntime, err
	}

	// 7. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if healthServer != nil {
		healthServer.SetServing(false)
		defer healthServer.Stop()
	}
	orchestrator.Shutdown(shutdownCtx)
	// Give write pumps the same grace as a kick to flush the goodbye frame.
	time.Sleep(config.KickGracePeriod)
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown incomplete", "error", err)
	}
	logger.Info("Server shutdown complete.")
	return exitOK, nil
}

func buildModerator(config internal.Config, logger *slog.Logger) (*moderation.Moderator, error) {
	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return nil, err
	}
	data, err := moderation.DefaultLoader().LoadAll("censored")
	if err != nil {
		return nil, fmt.Errorf("failed to load censored words: %w", err)
	}
	logger.Info(fmt.Sprintf("%d censored files loaded [%s]",
		len(data.Languages), strings.Join(data.Languages, ",")))
	logger.Info(fmt.Sprintf("%d unique censored words loaded", len(data.Words)))
	return moderation.NewModerator(data.Words, charReplacement, logger)
}
