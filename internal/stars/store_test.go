package stars

import (
	"errors"
	"testing"

	"github.com/flowfind/flowfind/internal/log"
)

func TestValidateSession(t *testing.T) {
	tests := []struct {
		name    string
		session string
		wantErr bool
	}{
		{"valid uuid", "7c9e6679-7425-40de-944b-e07fc1f90ae7", false},
		{"empty", "", true},
		{"not a uuid", "visitor-1", true},
		{"truncated uuid", "7c9e6679-7425-40de", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateSession(tt.session)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSession) {
					t.Fatalf("validateSession(%q) = %v, want ErrInvalidSession", tt.session, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("validateSession(%q) unexpected error: %v", tt.session, err)
			}
		})
	}
}

func TestNewStore_NilPool(t *testing.T) {
	if _, err := NewStore(nil, log.NewNop()); err == nil {
		t.Fatal("NewStore(nil) should fail")
	}
}
