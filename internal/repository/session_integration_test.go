//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/anayy09/AcademiaFlow/internal/model"
	"github.com/anayy09/AcademiaFlow/internal/session"
	"github.com/anayy09/AcademiaFlow/internal/storage"
	"github.com/anayy09/AcademiaFlow/internal/testutil"
)

func newSessionTestEnv(t *testing.T) (context.Context, *SessionKV) {
	t.Helper()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	repo, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(repo.Close)

	kv, err := NewSessionKV(repo, "client_sessions_test")
	if err != nil {
		t.Fatal(err)
	}
	if err := kv.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	return ctx, kv
}

func TestIntegrationSessionKV_SetGetRemove(t *testing.T) {
	ctx, kv := newSessionTestEnv(t)
	key := testutil.UniqueID("token")

	if _, ok, err := kv.Get(ctx, key); err != nil || ok {
		t.Fatalf("Get before Set = ok %v, err %v", ok, err)
	}

	if err := kv.Set(ctx, key, "abc"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := kv.Set(ctx, key, "def"); err != nil {
		t.Fatalf("Set (upsert): %v", err)
	}

	v, ok, err := kv.Get(ctx, key)
	if err != nil || !ok || v != "def" {
		t.Fatalf("Get = %q, %v, %v; want def", v, ok, err)
	}

	if err := kv.Remove(ctx, key); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok, _ := kv.Get(ctx, key); ok {
		t.Error("key should be gone after Remove")
	}
}

func TestIntegrationSessionKV_StoreRoundTrip(t *testing.T) {
	ctx, kv := newSessionTestEnv(t)
	ns := storage.WithPrefix(kv, testutil.UniqueID("ns")+":")

	first := session.New(ns, testutil.DiscardLogger())
	first.Login(ctx, model.User{ID: 42, Email: "grace@example.edu"}, "tok")

	second := session.New(ns, testutil.DiscardLogger())
	second.Initialize(ctx)

	st := second.Get()
	if !st.IsAuthenticated || st.Token != "tok" || st.User.ID != 42 {
		t.Errorf("restored state = %+v", st)
	}

	second.Logout(ctx)
	if _, ok, _ := ns.Get(ctx, storage.KeyToken); ok {
		t.Error("token should be removed after logout")
	}
}
