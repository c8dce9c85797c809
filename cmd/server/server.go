package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"

	"github.com/KirkDiggler/certquest/internal/config"
	gamev1alpha1 "github.com/KirkDiggler/certquest/internal/handlers/game/v1alpha1"
	"github.com/KirkDiggler/certquest/internal/handlers/live"
	"github.com/KirkDiggler/certquest/internal/orchestrators/session"
	"github.com/KirkDiggler/certquest/internal/pkg/clock"
	"github.com/KirkDiggler/certquest/internal/pkg/idgen"
)

type serverFlags struct {
	grpcPort    int
	httpPort    int
	balanceFile string
	localeDir   string
	mapDir      string
	lang        string
	maxSessions int
	bank        bankFlags
}

func newServerCmd() *cobra.Command {
	f := &serverFlags{}

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the gRPC server and live websocket feed",
		Long:  `Start the certquest gRPC game service together with the HTTP server that streams snapshots to browser renderers at /ws.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), f)
		},
	}

	cmd.Flags().IntVar(&f.grpcPort, "port", config.EnvInt(config.EnvGRPCPort, 50051), "gRPC server port")
	cmd.Flags().IntVar(&f.httpPort, "http-port", config.EnvInt(config.EnvHTTPPort, 8080), "HTTP port for the websocket feed")
	cmd.Flags().StringVar(&f.balanceFile, "balance", config.EnvString(config.EnvBalanceFile, ""), "YAML balance file (default: built-in balance)")
	cmd.Flags().StringVar(&f.localeDir, "locale-dir", config.EnvString(config.EnvLocaleDir, ""), "Directory of <lang>.po notice translations")
	cmd.Flags().StringVar(&f.lang, "lang", config.EnvString(config.EnvLang, "en"), "Default notice language")
	cmd.Flags().StringVar(&f.mapDir, "map-dir", config.EnvString(config.EnvMapDir, ""), "Directory of *.tmx area maps (default: built-in overworld)")
	cmd.Flags().IntVar(&f.maxSessions, "max-sessions", session.DefaultMaxSessions, "Maximum concurrent game sessions")
	f.bank.register(cmd)

	return cmd
}

func runServer(parent context.Context, f *serverFlags) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			slog.Info("Received shutdown signal, gracefully stopping...")
			cancel()
		case <-ctx.Done():
		}
	}()

	balance, err := config.LoadBalance(f.balanceFile)
	if err != nil {
		return fmt.Errorf("failed to load balance: %w", err)
	}
	worlds, err := mapWorlds(f.mapDir, balance.TileSize)
	if err != nil {
		return err
	}

	quizRepo, closeBank, err := f.bank.open(ctx)
	if err != nil {
		return err
	}
	defer closeBank()

	sessionService, err := session.NewOrchestrator(&session.Config{
		QuizRepo:     quizRepo,
		Balance:      balance,
		IDGenerator:  idgen.NewUUID("session"),
		EventBus:     events.NewBus(),
		Clock:        clock.New(),
		WorldFactory: worlds,
		LocaleDir:    f.localeDir,
		DefaultLang:  f.lang,
		MaxSessions:  f.maxSessions,
	})
	if err != nil {
		return fmt.Errorf("failed to create session service: %w", err)
	}

	gameHandler, err := gamev1alpha1.NewHandler(&gamev1alpha1.HandlerConfig{
		SessionService: sessionService,
	})
	if err != nil {
		return fmt.Errorf("failed to create game handler: %w", err)
	}

	liveHandler, err := live.NewHandler(&live.HandlerConfig{
		SessionService: sessionService,
		TickRate:       balance.TickRate,
	})
	if err != nil {
		return fmt.Errorf("failed to create live handler: %w", err)
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", f.grpcPort))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(grpc_logging.LoggerFunc(logFunc)),
			grpc_recovery.UnaryServerInterceptor(),
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(grpc_logging.LoggerFunc(logFunc)),
			grpc_recovery.StreamServerInterceptor(),
		),
	)

	gamev1alpha1.RegisterGameServiceServer(srv, gameHandler)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)

	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(gamev1alpha1.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(srv)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", liveHandler.Handle)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok")) // nolint:errcheck // best effort
	})
	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", f.httpPort),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 2)
	go func() {
		slog.Info("gRPC server starting", "port", f.grpcPort)
		if err := srv.Serve(lis); err != nil {
			errChan <- fmt.Errorf("failed to serve grpc: %w", err)
		}
	}()
	go func() {
		slog.Info("HTTP server starting", "port", f.httpPort)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("failed to serve http: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errChan:
		cancel()
		shutdown(srv, httpSrv)
		return err
	}

	shutdown(srv, httpSrv)
	return nil
}

func shutdown(srv *grpc.Server, httpSrv *http.Server) {
	slog.Info("Shutting down servers...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP shutdown incomplete", "error", err)
	}

	stopped := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(stopped)
	}()

	select {
	case <-shutdownCtx.Done():
		slog.Warn("Graceful shutdown timeout exceeded, forcing stop")
		srv.Stop()
	case <-stopped:
		slog.Info("Server stopped gracefully")
	}
}

func logFunc(ctx context.Context, level grpc_logging.Level, msg string, fields ...any) {
	slog.Log(ctx, slog.Level(level), msg, fields...)
}
