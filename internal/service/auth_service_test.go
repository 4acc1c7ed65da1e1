package service

import (
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mmynk/livrocaixa/internal/auth"
	"github.com/mmynk/livrocaixa/internal/events"
	"github.com/mmynk/livrocaixa/internal/models"
)

func TestRegister(t *testing.T) {
	env := setupTestServer(t, nil)

	first := mustCall[auth.RegisterInput, AuthResponse](t, env, RegisterProcedure, "", &auth.RegisterInput{
		Name:     "Maria Tesoureira",
		Email:    "maria@adag.org",
		Password: "secret123",
	})
	if first.Session.Role != models.RoleAdmin {
		t.Errorf("Expected first user to be admin, got %s", first.Session.Role)
	}
	if first.Session.Name != "Maria Tesoureira" {
		t.Errorf("Expected session name, got %q", first.Session.Name)
	}

	second := mustCall[auth.RegisterInput, AuthResponse](t, env, RegisterProcedure, "", &auth.RegisterInput{
		Name:     "João",
		Email:    "joao@adag.org",
		Password: "secret123",
	})
	if second.Session.Role != models.RoleViewer {
		t.Errorf("Expected later users to be viewers, got %s", second.Session.Role)
	}

	got := env.events.types()
	if len(got) != 2 || got[0] != events.UserRegistered {
		t.Errorf("Expected two user.registered events, got %v", got)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := setupTestServer(t, nil)
	register(t, env, "Maria", "maria@adag.org")

	_, err := call[auth.RegisterInput, AuthResponse](t, env, RegisterProcedure, "", &auth.RegisterInput{
		Name:     "Outra Maria",
		Email:    "MARIA@adag.org",
		Password: "secret123",
	})
	expectCode(t, err, connect.CodeAlreadyExists)
}

func TestRegister_Validation(t *testing.T) {
	env := setupTestServer(t, nil)

	_, err := call[auth.RegisterInput, AuthResponse](t, env, RegisterProcedure, "", &auth.RegisterInput{
		Name:     "",
		Email:    "not-an-email",
		Password: "123",
	})
	expectCode(t, err, connect.CodeInvalidArgument)
}

func TestLogin(t *testing.T) {
	env := setupTestServer(t, nil)
	register(t, env, "Maria", "maria@adag.org")

	resp := mustCall[LoginRequest, AuthResponse](t, env, LoginProcedure, "", &LoginRequest{
		Email:    "maria@adag.org",
		Password: "secret123",
	})

	me := mustCall[Empty, models.Session](t, env, CurrentUserProcedure, resp.Token, &Empty{})
	if me.Email != "maria@adag.org" {
		t.Errorf("Expected current user maria@adag.org, got %q", me.Email)
	}
	if got := testutil.ToFloat64(env.metrics.LoginAttempts.WithLabelValues("success")); got != 1 {
		t.Errorf("Expected 1 successful login, got %v", got)
	}
}

func TestLogin_DefaultAdmin(t *testing.T) {
	env := setupTestServer(t, nil)

	resp := mustCall[LoginRequest, AuthResponse](t, env, LoginProcedure, "", &LoginRequest{
		Email:    auth.DefaultAdminEmail,
		Password: auth.DefaultAdminPassword,
	})
	if resp.Session.Role != models.RoleAdmin {
		t.Errorf("Expected default admin role, got %s", resp.Session.Role)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	env := setupTestServer(t, nil)
	register(t, env, "Maria", "maria@adag.org")

	tests := []struct {
		name  string
		email string
		pass  string
	}{
		{"unknown email", "ninguem@adag.org", "secret123"},
		{"wrong password", "maria@adag.org", "wrong-pass"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := call[LoginRequest, AuthResponse](t, env, LoginProcedure, "", &LoginRequest{
				Email:    tt.email,
				Password: tt.pass,
			})
			expectCode(t, err, connect.CodeUnauthenticated)
		})
	}

	if got := testutil.ToFloat64(env.metrics.LoginAttempts.WithLabelValues("failure")); got != 2 {
		t.Errorf("Expected 2 failed logins, got %v", got)
	}
}

func TestLogout(t *testing.T) {
	env := setupTestServer(t, nil)
	token := register(t, env, "Maria", "maria@adag.org")

	mustCall[Empty, Empty](t, env, LogoutProcedure, token, &Empty{})

	_, err := call[Empty, models.Session](t, env, CurrentUserProcedure, token, &Empty{})
	expectCode(t, err, connect.CodeUnauthenticated)

	// Second logout is a no-op
	mustCall[Empty, Empty](t, env, LogoutProcedure, token, &Empty{})
}

func TestRequireSession(t *testing.T) {
	env := setupTestServer(t, nil)

	_, err := call[models.Criteria, TransactionList](t, env, ListTransactionsProcedure, "", &models.Criteria{})
	expectCode(t, err, connect.CodeUnauthenticated)

	_, err = call[models.Criteria, TransactionList](t, env, ListTransactionsProcedure, "not-a-jwt", &models.Criteria{})
	expectCode(t, err, connect.CodeUnauthenticated)
}
