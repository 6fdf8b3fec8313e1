package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/anayy09/AcademiaFlow/internal/storage"
)

func TestCacheKV_EmptyKey(t *testing.T) {
	t.Parallel()

	c := &Cache{}
	if _, _, err := c.Get(context.Background(), ""); !errors.Is(err, storage.ErrEmptyKey) {
		t.Errorf("Get err = %v, want ErrEmptyKey", err)
	}
	if err := c.Set(context.Background(), "", "v"); !errors.Is(err, storage.ErrEmptyKey) {
		t.Errorf("Set err = %v, want ErrEmptyKey", err)
	}
	if err := c.Remove(context.Background(), ""); !errors.Is(err, storage.ErrEmptyKey) {
		t.Errorf("Remove err = %v, want ErrEmptyKey", err)
	}
}
