package gate_test

import (
	"context"
	"testing"

	"github.com/diewo77/invoice-api/internal/gate"
)

type mockPolicy struct {
	allowAll bool
	seen     gate.Action
}

func (p *mockPolicy) Can(_ context.Context, _ string, action gate.Action, _ any) bool {
	p.seen = action
	return p.allowAll
}

func TestGate_Authorize_NoUser(t *testing.T) {
	g := gate.NewGate[string]()
	g.Register("invoice", &mockPolicy{allowAll: true})

	if err := g.Authorize(context.Background(), "", gate.ActionView, "invoice", nil); err != gate.ErrUnauthorized {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestGate_Authorize_NoPolicy(t *testing.T) {
	g := gate.NewGate[string]()

	if err := g.Authorize(context.Background(), "u1", gate.ActionView, "unknown", nil); err != gate.ErrNoPolicyDefined {
		t.Errorf("expected ErrNoPolicyDefined, got %v", err)
	}
}

func TestGate_Authorize(t *testing.T) {
	tests := []struct {
		name    string
		allow   bool
		wantErr error
	}{
		{"allowed", true, nil},
		{"denied", false, gate.ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := gate.NewGate[string]()
			p := &mockPolicy{allowAll: tt.allow}
			g.Register("invoice", p)

			err := g.Authorize(context.Background(), "u1", gate.ActionPay, "invoice", nil)
			if err != tt.wantErr {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if p.seen != gate.ActionPay {
				t.Errorf("policy saw action %q", p.seen)
			}
			if got := g.Can(context.Background(), "u1", gate.ActionPay, "invoice", nil); got != tt.allow {
				t.Errorf("Can() = %v, want %v", got, tt.allow)
			}
		})
	}
}

func TestGate_RegisterReplaces(t *testing.T) {
	g := gate.NewGate[string]()
	g.Register("invoice", &mockPolicy{allowAll: false})
	g.Register("invoice", &mockPolicy{allowAll: true})

	if !g.Can(context.Background(), "u1", gate.ActionView, "invoice", nil) {
		t.Error("expected the second policy to win")
	}
}
