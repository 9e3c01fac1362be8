package user_test

import (
	"testing"

	"github.com/capitainerie/port-russell/internal/domain/user"
)

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "already canonical", in: "capitaine@port.fr", want: "capitaine@port.fr"},
		{name: "mixed case", in: "Capitaine@Port.FR", want: "capitaine@port.fr"},
		{name: "surrounding spaces", in: "  capitaine@port.fr ", want: "capitaine@port.fr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := user.NormalizeEmail(tt.in)

			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}
