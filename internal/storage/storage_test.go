package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestMemory_SetGetRemove(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory()

	if _, ok, err := m.Get(ctx, KeyToken); err != nil || ok {
		t.Fatalf("Get on empty store = ok %v, err %v; want false, nil", ok, err)
	}

	if err := m.Set(ctx, KeyToken, "abc"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	v, ok, err := m.Get(ctx, KeyToken)
	if err != nil || !ok || v != "abc" {
		t.Fatalf("Get = %q, %v, %v; want abc, true, nil", v, ok, err)
	}

	if err := m.Remove(ctx, KeyToken); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := m.Remove(ctx, KeyToken); err != nil {
		t.Fatalf("second Remove should be a no-op, got %v", err)
	}
	if m.Len() != 0 {
		t.Errorf("Len = %d, want 0", m.Len())
	}
}

func TestStores_EmptyKey(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	stores := map[string]KV{
		"memory": NewMemory(),
		"file":   NewFile(filepath.Join(t.TempDir(), "s.json")),
		"prefix": WithPrefix(NewMemory(), "p:"),
	}

	for name, kv := range stores {
		if _, _, err := kv.Get(ctx, ""); !errors.Is(err, ErrEmptyKey) {
			t.Errorf("%s Get(\"\") err = %v, want ErrEmptyKey", name, err)
		}
		if err := kv.Set(ctx, "", "x"); !errors.Is(err, ErrEmptyKey) {
			t.Errorf("%s Set(\"\") err = %v, want ErrEmptyKey", name, err)
		}
		if err := kv.Remove(ctx, ""); !errors.Is(err, ErrEmptyKey) {
			t.Errorf("%s Remove(\"\") err = %v, want ErrEmptyKey", name, err)
		}
	}
}

func TestFile_PersistsAcrossInstances(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	first := NewFile(path)
	if err := first.Set(ctx, KeyToken, "tok"); err != nil {
		t.Fatalf("Set token: %v", err)
	}
	if err := first.Set(ctx, KeyUser, `{"id":1}`); err != nil {
		t.Fatalf("Set user: %v", err)
	}

	second := NewFile(path)
	v, ok, err := second.Get(ctx, KeyUser)
	if err != nil || !ok || v != `{"id":1}` {
		t.Fatalf("Get user from fresh instance = %q, %v, %v", v, ok, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != fileMode {
		t.Errorf("file mode = %o, want %o", perm, fileMode)
	}

	if err := second.Remove(ctx, KeyToken); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok, _ := first.Get(ctx, KeyToken); ok {
		t.Error("token should be gone after Remove")
	}
}

func TestFile_MissingFileIsEmpty(t *testing.T) {
	t.Parallel()

	f := NewFile(filepath.Join(t.TempDir(), "absent.json"))
	_, ok, err := f.Get(context.Background(), KeyToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected missing key")
	}
	if err := f.Remove(context.Background(), KeyToken); err != nil {
		t.Errorf("Remove on missing file: %v", err)
	}
}

func TestFile_CorruptDocument(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, _, err := NewFile(path).Get(context.Background(), KeyToken)
	if err == nil {
		t.Fatal("expected decode error for corrupt file")
	}
}

func TestWithPrefix(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	base := NewMemory()

	if got := WithPrefix(base, ""); got != KV(base) {
		t.Error("empty prefix should return the store unchanged")
	}

	kv := WithPrefix(base, "academiaflow:")
	if err := kv.Set(ctx, KeyToken, "abc"); err != nil {
		t.Fatal(err)
	}

	if _, ok, _ := base.Get(ctx, KeyToken); ok {
		t.Error("unprefixed key should not exist in base store")
	}
	if v, ok, _ := base.Get(ctx, "academiaflow:"+KeyToken); !ok || v != "abc" {
		t.Errorf("prefixed key = %q, %v", v, ok)
	}
	if n := base.Len(); n != 1 {
		t.Errorf("base store holds %d keys, want 1", n)
	}

	if err := kv.Remove(ctx, KeyToken); err != nil {
		t.Fatal(err)
	}
	if base.Len() != 0 {
		t.Errorf("base Len = %d, want 0", base.Len())
	}
}
