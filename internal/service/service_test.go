package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/livrocaixa/internal/auth"
	"github.com/mmynk/livrocaixa/internal/events"
	"github.com/mmynk/livrocaixa/internal/export"
	"github.com/mmynk/livrocaixa/internal/metrics"
	"github.com/mmynk/livrocaixa/internal/middleware"
	"github.com/mmynk/livrocaixa/internal/repository"
	"github.com/mmynk/livrocaixa/internal/storage/sqlite"
)

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// fakeSpreadsheet captures published grids.
type fakeSpreadsheet struct {
	grids []export.Grid
}

func (f *fakeSpreadsheet) Publish(_ context.Context, grids []export.Grid) error {
	f.grids = grids
	return nil
}

type testEnv struct {
	server  *httptest.Server
	events  *recordingPublisher
	metrics *metrics.Metrics
}

// setupTestServer starts every service behind the session interceptor on a temp
// sqlite database. sheet may be nil to leave publishing unconfigured.
func setupTestServer(t *testing.T, sheet export.Publisher) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New()
	recorder := &recordingPublisher{}

	dir := auth.NewDirectory(store)
	authenticator := auth.NewPlaintextAuthenticator(dir)
	sessions := auth.NewSessions(store, auth.NewJWTManager("test-secret", time.Hour))

	transactions := repository.NewTransactions(store)
	sheets := repository.NewSheets(store)
	profiles := repository.NewProfiles(store, authenticator)

	opts := []connect.HandlerOption{
		connect.WithInterceptors(
			middleware.MetricsInterceptor(m),
			middleware.RequireSession(sessions, PublicProcedures...),
			middleware.LoggingInterceptor(),
		),
	}

	mux := http.NewServeMux()
	NewAuthService(authenticator, sessions, store, profiles, recorder, m, logger).Mount(mux, opts...)
	NewLedgerService(transactions, profiles, recorder, logger).Mount(mux, opts...)
	NewSheetService(sheets, profiles, recorder, logger).Mount(mux, opts...)
	NewMemberService(repository.NewMembers(store), recorder, logger).Mount(mux, opts...)
	NewProfileService(profiles, logger).Mount(mux, opts...)
	NewExportService(transactions, sheets, profiles, sheet, m, logger).Mount(mux, opts...)

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testEnv{server: server, events: recorder, metrics: m}
}

// call invokes one procedure, authenticated when token is set.
func call[Req, Res any](t *testing.T, env *testEnv, proc, token string, msg *Req) (*Res, error) {
	t.Helper()
	client := connect.NewClient[Req, Res](http.DefaultClient, env.server.URL+proc, connect.WithCodec(JSONCodec{}))
	req := connect.NewRequest(msg)
	if token != "" {
		req.Header().Set("Authorization", "Bearer "+token)
	}
	resp, err := client.CallUnary(context.Background(), req)
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

// mustCall is call that fails the test on error.
func mustCall[Req, Res any](t *testing.T, env *testEnv, proc, token string, msg *Req) *Res {
	t.Helper()
	res, err := call[Req, Res](t, env, proc, token, msg)
	if err != nil {
		t.Fatalf("%s failed: %v", proc, err)
	}
	return res
}

// register creates an account and returns its token.
func register(t *testing.T, env *testEnv, name, email string) string {
	t.Helper()
	resp := mustCall[auth.RegisterInput, AuthResponse](t, env, RegisterProcedure, "", &auth.RegisterInput{
		Name:     name,
		Email:    email,
		Password: "secret123",
	})
	if resp.Token == "" {
		t.Fatal("expected token in response")
	}
	return resp.Token
}

func expectCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected connect error, got %T: %v", err, err)
	}
	if connectErr.Code() != want {
		t.Errorf("expected code %v, got %v (%s)", want, connectErr.Code(), connectErr.Message())
	}
}
