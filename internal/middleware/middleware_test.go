package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/livrocaixa/internal/auth"
	"github.com/mmynk/livrocaixa/internal/models"
	"github.com/mmynk/livrocaixa/internal/storage"
	"github.com/mmynk/livrocaixa/internal/storage/memory"
)

// unavailableSessions fails every read of the sessions collection.
type unavailableSessions struct {
	*memory.Store
}

func (s unavailableSessions) Get(ctx context.Context, tenant, collection string) ([]byte, error) {
	if collection == storage.CollectionSessions {
		return nil, errors.New("database is locked")
	}
	return s.Store.Get(ctx, tenant, collection)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr error
	}{
		{"", "", auth.ErrMissingToken},
		{"Bearer abc.def", "abc.def", nil},
		{"Basic abc", "", auth.ErrInvalidToken},
		{"Bearer", "", auth.ErrInvalidToken},
		{"Bearer a b", "", auth.ErrInvalidToken},
	}
	for _, tt := range tests {
		got, err := BearerToken(tt.header)
		if !errors.Is(err, tt.wantErr) || got != tt.want {
			t.Errorf("BearerToken(%q) = %q, %v; want %q, %v", tt.header, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestSessionContext(t *testing.T) {
	ctx := context.Background()
	if GetUserID(ctx) != "" {
		t.Error("Expected empty user ID without session")
	}

	s := models.Session{ID: "s-1", UserID: "u-1", Email: "maria@adag.org"}
	ctx = WithSession(ctx, s, "tok")

	got, ok := SessionFrom(ctx)
	if !ok || got.ID != "s-1" {
		t.Errorf("Expected session s-1, got %+v", got)
	}
	if GetUserID(ctx) != "u-1" || GetToken(ctx) != "tok" {
		t.Errorf("Unexpected context values: %q %q", GetUserID(ctx), GetToken(ctx))
	}
}

func TestSessionsResolveThroughStore(t *testing.T) {
	store := memory.New()
	sessions := auth.NewSessions(store, auth.NewJWTManager("secret", time.Hour))
	user := &models.User{ID: "u-1", Email: "maria@adag.org", Role: models.RoleAdmin}

	token, _, err := sessions.Begin(context.Background(), user)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	header, err := BearerToken("Bearer " + token)
	if err != nil {
		t.Fatalf("BearerToken failed: %v", err)
	}
	if _, err := sessions.Resolve(context.Background(), header); err != nil {
		t.Errorf("Resolve failed: %v", err)
	}
}

func TestCORS(t *testing.T) {
	called := false
	h := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/livrocaixa.v1.LedgerService/GetReport", nil))
	if called {
		t.Error("Preflight must not reach the handler")
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected CORS origin header")
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if !called {
		t.Error("Expected POST to reach the handler")
	}
}

func TestLogging_RecordsStatus(t *testing.T) {
	h := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("Expected status to pass through, got %d", rec.Code)
	}
}

func TestRequireSession(t *testing.T) {
	user := &models.User{ID: "u-1", Email: "maria@adag.org", Role: models.RoleAdmin}
	jwt := auth.NewJWTManager("secret", time.Hour)

	call := func(store storage.Store, header string, begin, end bool) (string, error) {
		ctx := context.Background()
		sessions := auth.NewSessions(store, jwt)
		token, _, err := sessions.Begin(ctx, user)
		if err != nil {
			t.Fatalf("Begin failed: %v", err)
		}
		if end {
			if err := sessions.End(ctx, token); err != nil {
				t.Fatalf("End failed: %v", err)
			}
		}

		req := connect.NewRequest(&struct{}{})
		if begin {
			header = "Bearer " + token
		}
		if header != "" {
			req.Header().Set("Authorization", header)
		}

		var seen string
		next := func(ctx context.Context, _ connect.AnyRequest) (connect.AnyResponse, error) {
			seen = GetUserID(ctx)
			return connect.NewResponse(&struct{}{}), nil
		}
		_, err = RequireSession(sessions)(next)(ctx, req)
		return seen, err
	}

	t.Run("live session reaches handler", func(t *testing.T) {
		seen, err := call(memory.New(), "", true, false)
		if err != nil {
			t.Fatalf("Expected success, got %v", err)
		}
		if seen != "u-1" {
			t.Errorf("Expected session user in context, got %q", seen)
		}
	})

	tests := []struct {
		name   string
		store  storage.Store
		header string
		begin  bool
		end    bool
		want   connect.Code
	}{
		{"missing token", memory.New(), "", false, false, connect.CodeUnauthenticated},
		{"malformed token", memory.New(), "Bearer not-a-jwt", false, false, connect.CodeUnauthenticated},
		{"ended session", memory.New(), "", true, true, connect.CodeUnauthenticated},
		{"storage failure is not a logout", unavailableSessions{memory.New()}, "", true, false, connect.CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := call(tt.store, tt.header, tt.begin, tt.end)
			if got := connect.CodeOf(err); got != tt.want {
				t.Errorf("Expected code %v, got %v (%v)", tt.want, got, err)
			}
		})
	}
}
