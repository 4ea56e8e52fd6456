package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/defensoria/expedientes/internal/app"
	"github.com/defensoria/expedientes/internal/domain"
	"github.com/defensoria/expedientes/internal/store"
)

func TestBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend, err := Open(filepath.Join(t.TempDir(), "expedientes.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		_ = backend.Close()
	})
	written := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	backend.now = func() time.Time { return written }

	if _, ok, err := backend.Get(ctx, "expedients"); err != nil || ok {
		t.Fatalf("Get() on empty db = %t, %v", ok, err)
	}
	if err := backend.Set(ctx, "expedients", []byte(`[{"id":"e1"}]`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := backend.Set(ctx, "expedients", []byte(`[{"id":"e2"}]`)); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}
	if err := backend.Set(ctx, "actuaciones", []byte(`[]`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, ok, err := backend.Get(ctx, "expedients")
	if err != nil || !ok {
		t.Fatalf("Get() = %t, %v", ok, err)
	}
	if string(got) != `[{"id":"e2"}]` {
		t.Fatalf("unexpected payload %s", got)
	}
	keys, err := backend.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if len(keys) != 2 || keys[0] != "actuaciones" || keys[1] != "expedients" {
		t.Fatalf("unexpected keys %v", keys)
	}
	at, ok, err := backend.UpdatedAt(ctx, "expedients")
	if err != nil || !ok || !at.Equal(written) {
		t.Fatalf("UpdatedAt() = %v, %t, %v", at, ok, err)
	}
}

func TestBackendPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "expedientes.db")
	backend, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	repo := store.NewRepository(backend, nil)
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	act, err := domain.NewActuacion(domain.ActuacionInput{ID: "a1", ExpedientID: "e1", Number: 1, Title: "Providencia", CreatedBy: "ana"}, now)
	if err != nil {
		t.Fatalf("NewActuacion() error = %v", err)
	}
	if err := act.SendToSign(now); err != nil {
		t.Fatalf("SendToSign() error = %v", err)
	}
	if err := act.Sign("juez", now.Add(time.Minute)); err != nil {
		t.Fatalf("Sign() error = %v", err)
	}
	if err := repo.SaveActuacion(ctx, act); err != nil {
		t.Fatalf("SaveActuacion() error = %v", err)
	}
	if err := backend.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Open() reopen error = %v", err)
	}
	t.Cleanup(func() {
		_ = reopened.Close()
	})
	loaded, err := store.NewRepository(reopened, nil).GetActuacion(ctx, "a1")
	if err != nil {
		t.Fatalf("GetActuacion() error = %v", err)
	}
	if loaded.SignedAt == nil || !loaded.SignedAt.Equal(now.Add(time.Minute)) || loaded.SignedBy != "juez" {
		t.Fatalf("unexpected reloaded actuacion %#v", loaded)
	}
	if !loaded.CreatedAt.Equal(act.CreatedAt) || loaded.Status != domain.ActuacionFirmado {
		t.Fatalf("unexpected reloaded actuacion %#v", loaded)
	}
	if _, err := store.NewRepository(reopened, nil).GetExpedient(ctx, "e1"); err == nil {
		t.Fatal("expected missing expedient")
	} else if !errors.Is(err, app.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for blank path")
	}
}
