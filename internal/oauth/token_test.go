package oauth

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadTokenJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	body := `{"access_token":"abc","refresh_token":"def","expires_in":3600,"scope":["chat:read"],"token_type":"bearer"}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	tok, err := LoadTokenJSON(path)
	if err != nil {
		t.Fatalf("LoadTokenJSON: %v", err)
	}
	if tok.AccessToken != "abc" || tok.TokenType != "bearer" {
		t.Fatalf("token = %+v", tok)
	}
	if len(tok.Scope) != 1 || tok.Scope[0] != "chat:read" {
		t.Fatalf("scope = %v", tok.Scope)
	}
}

func TestLoadTokenJSONMissingAccessToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	if err := os.WriteFile(path, []byte(`{"token_type":"bearer"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadTokenJSON(path); err == nil {
		t.Fatal("expected error for token without access_token")
	}
}
