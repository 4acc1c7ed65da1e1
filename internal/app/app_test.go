package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mmynk/livrocaixa/internal/auth"
	"github.com/mmynk/livrocaixa/internal/config"
	"github.com/mmynk/livrocaixa/internal/storage/memory"
	"github.com/mmynk/livrocaixa/internal/storage/sqlite"
)

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	mem, err := OpenStore(ctx, &config.Config{StorageBackend: config.BackendMemory})
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	if _, ok := mem.(*memory.Store); !ok {
		t.Errorf("Expected *memory.Store, got %T", mem)
	}

	lite, err := OpenStore(ctx, &config.Config{
		StorageBackend: config.BackendSQLite,
		DBPath:         filepath.Join(t.TempDir(), "app.db"),
	})
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	defer lite.Close()
	if _, ok := lite.(*sqlite.SQLiteStore); !ok {
		t.Errorf("Expected *sqlite.SQLiteStore, got %T", lite)
	}

	if _, err := OpenStore(ctx, &config.Config{StorageBackend: "mongo"}); err == nil {
		t.Error("Expected error for unknown backend")
	}
}

func TestNewAuthenticator(t *testing.T) {
	store := memory.New()

	a, err := NewAuthenticator(&config.Config{Authenticator: config.AuthMock}, store)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := a.(*auth.PlaintextAuthenticator); !ok {
		t.Errorf("Expected plaintext authenticator, got %T", a)
	}

	a, err = NewAuthenticator(&config.Config{Authenticator: config.AuthPassword}, store)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := a.(*auth.PasswordAuthenticator); !ok {
		t.Errorf("Expected password authenticator, got %T", a)
	}

	if _, err := NewAuthenticator(&config.Config{Authenticator: "ldap"}, store); err == nil {
		t.Error("Expected error for unknown authenticator")
	}
}
