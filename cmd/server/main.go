package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/livrocaixa/internal/app"
	"github.com/mmynk/livrocaixa/internal/auth"
	"github.com/mmynk/livrocaixa/internal/config"
	"github.com/mmynk/livrocaixa/internal/events"
	"github.com/mmynk/livrocaixa/internal/export"
	"github.com/mmynk/livrocaixa/internal/metrics"
	"github.com/mmynk/livrocaixa/internal/middleware"
	"github.com/mmynk/livrocaixa/internal/repository"
	"github.com/mmynk/livrocaixa/internal/service"
	"github.com/mmynk/livrocaixa/pkg/logging"
)

func main() {
	cfg := config.Load()
	cfg.BindFlags(flag.CommandLine)
	flag.Parse()

	logging.SetupWithLevel(logging.ParseLevel(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		slog.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := app.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	authenticator, err := app.NewAuthenticator(cfg, store)
	if err != nil {
		return err
	}
	sessions := auth.NewSessions(store, auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL))

	publisher := newEventPublisher(cfg)
	defer publisher.Close()

	var sheet export.Publisher
	if cfg.GoogleSpreadsheetID != "" {
		p, err := newSheetsPublisher(ctx, cfg)
		if err != nil {
			return err
		}
		sheet = p
		slog.Info("Google Sheets publishing enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		slog.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	m := metrics.New()
	transactions := repository.NewTransactions(store)
	sheets := repository.NewSheets(store)
	profiles := repository.NewProfiles(store, authenticator)

	opts := []connect.HandlerOption{
		connect.WithInterceptors(
			middleware.MetricsInterceptor(m),
			middleware.RequireSession(sessions, service.PublicProcedures...),
			middleware.LoggingInterceptor(),
		),
	}

	mux := http.NewServeMux()
	service.NewAuthService(authenticator, sessions, store, profiles, publisher, m, logging.Component("auth")).Mount(mux, opts...)
	service.NewLedgerService(transactions, profiles, publisher, logging.Component("ledger")).Mount(mux, opts...)
	service.NewSheetService(sheets, profiles, publisher, logging.Component("sheets")).Mount(mux, opts...)
	service.NewMemberService(repository.NewMembers(store), publisher, logging.Component("members")).Mount(mux, opts...)
	service.NewProfileService(profiles, logging.Component("profile")).Mount(mux, opts...)
	service.NewExportService(transactions, sheets, profiles, sheet, m, logging.Component("export")).Mount(mux, opts...)

	mux.Handle("GET /metrics", m.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	handler := h2c.NewHandler(middleware.Logging(middleware.CORS(mux)), &http2.Server{})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Connect server starting", "address", server.Addr, "url", "http://localhost"+server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down server...", "timeout", cfg.ShutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("Server stopped")
	return nil
}

// newEventPublisher connects to the broker when one is configured. A broker that
// cannot be reached disables events instead of failing startup.
func newEventPublisher(cfg *config.Config) events.Publisher {
	if cfg.AMQPURL == "" {
		return events.Nop{}
	}
	p, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		slog.Error("Failed to connect to AMQP, events disabled", "error", err)
		return events.Nop{}
	}
	slog.Info("Publishing events", "exchange", cfg.AMQPExchange)
	return p
}

func newSheetsPublisher(ctx context.Context, cfg *config.Config) (*export.SheetsPublisher, error) {
	var credentials []byte
	if cfg.GoogleCredentialsFile != "" {
		data, err := os.ReadFile(cfg.GoogleCredentialsFile)
		if err != nil {
			return nil, err
		}
		credentials = data
	}
	return export.NewSheetsPublisher(ctx, cfg.GoogleSpreadsheetID, credentials)
}
