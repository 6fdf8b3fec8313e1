package repository

import (
	"errors"
	"testing"
)

func TestNewSessionKV_QuotesTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		table string
		want  string
	}{
		{"plain", "client_sessions", `"client_sessions"`},
		{"schema qualified", "app.client_sessions", `"app"."client_sessions"`},
		{"injection attempt", `x"; DROP TABLE users; --`, `"x""; DROP TABLE users; --"`},
		{"surrounding space", "  sessions ", `"sessions"`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			kv, err := NewSessionKV(&Repository{}, tt.table)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if kv.Table() != tt.want {
				t.Errorf("Table() = %s, want %s", kv.Table(), tt.want)
			}
		})
	}
}

func TestNewSessionKV_EmptyTable(t *testing.T) {
	t.Parallel()

	if _, err := NewSessionKV(&Repository{}, "  "); !errors.Is(err, ErrTableRequired) {
		t.Errorf("err = %v, want ErrTableRequired", err)
	}
}
