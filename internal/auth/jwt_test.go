package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/capitainerie/port-russell/internal/auth"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	m := auth.NewManager("test-secret", time.Hour)

	token, err := m.Issue("user-1", "capitaine@port.fr", "Capitaine")

	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := m.Verify(token)

	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	if claims.UserID != "user-1" || claims.Email != "capitaine@port.fr" || claims.Name != "Capitaine" {
		t.Fatalf("claims changed in round trip: %+v", claims)
	}
}

func TestIssueRejectsEmptyIdentity(t *testing.T) {
	m := auth.NewManager("test-secret", time.Hour)

	_, err := m.Issue("", "", "")

	if err == nil {
		t.Fatal("expected an error for an empty identity claim")
	}
}

func TestVerifyExpired(t *testing.T) {
	m := auth.NewManager("test-secret", time.Millisecond)

	token, err := m.Issue("user-1", "capitaine@port.fr", "Capitaine")

	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	_, err = m.Verify(token)

	if !errors.Is(err, auth.ErrExpired) {
		t.Fatalf("got %v, want ErrExpired", err)
	}
}

func TestVerifyMalformed(t *testing.T) {
	m := auth.NewManager("test-secret", time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "empty", token: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Verify(tt.token)

			if !errors.Is(err, auth.ErrMalformed) {
				t.Fatalf("got %v, want ErrMalformed", err)
			}
		})
	}
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	issuer := auth.NewManager("secret-a", time.Hour)
	verifier := auth.NewManager("secret-b", time.Hour)

	token, err := issuer.Issue("user-1", "capitaine@port.fr", "Capitaine")

	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	_, err = verifier.Verify(token)

	if !errors.Is(err, auth.ErrMalformed) {
		t.Fatalf("got %v, want ErrMalformed after secret rotation", err)
	}
}
