package devauth

import (
	"context"
	"strings"
	"testing"

	"github.com/rodaworks/academy/internal/ports"
)

func TestProvider_BeginAndExchange(t *testing.T) {
	prov, err := NewProvider(Config{UserID: "dev-user", Name: "Dev", Email: "dev@example.com", Groups: []string{"academy-admins"}})
	if err != nil {
		t.Fatalf("NewProvider error: %v", err)
	}
	url, state, nonce, err := prov.Begin(context.Background(), ports.BeginInput{RedirectURL: "/"})
	if err != nil {
		t.Fatalf("Begin error: %v", err)
	}
	if !strings.HasPrefix(url, "/auth/callback?") {
		t.Fatalf("unexpected authURL: %s", url)
	}
	if state == "" || nonce == "" {
		t.Fatal("state and nonce should be generated")
	}
	id, err := prov.Exchange(context.Background(), ports.ExchangeInput{Code: "dev", State: state, Nonce: nonce})
	if err != nil {
		t.Fatalf("Exchange error: %v", err)
	}
	if id.UserID != "dev-user" || id.Email != "dev@example.com" {
		t.Fatalf("unexpected identity: %+v", id)
	}
	if len(id.Groups) != 1 || id.Groups[0] != "academy-admins" {
		t.Fatalf("unexpected groups: %+v", id.Groups)
	}
}

func TestNewProvider_DefaultsName(t *testing.T) {
	prov, err := NewProvider(Config{UserID: "u", Email: "u@example.com"})
	if err != nil {
		t.Fatalf("NewProvider error: %v", err)
	}
	id, err := prov.Exchange(context.Background(), ports.ExchangeInput{})
	if err != nil {
		t.Fatalf("Exchange error: %v", err)
	}
	if id.Name == "" {
		t.Fatal("name should default")
	}
}

func TestNewProvider_Validation(t *testing.T) {
	if _, err := NewProvider(Config{Email: "x@example.com"}); err == nil {
		t.Fatal("expected error for missing UserID")
	}
	if _, err := NewProvider(Config{UserID: "x"}); err == nil {
		t.Fatal("expected error for missing Email")
	}
}
