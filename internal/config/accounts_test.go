package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeAccountFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "account.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAccount(t *testing.T) {
	path := writeAccountFile(t, `{"user":"CaptainCallback","nick":"captaincallback"}`)

	acc, err := LoadAccount(path)
	if err != nil {
		t.Fatalf("LoadAccount: %v", err)
	}
	if acc.User != "CaptainCallback" || acc.Nick != "captaincallback" {
		t.Fatalf("account = %+v", acc)
	}
}

func TestLoadAccountMissingUser(t *testing.T) {
	path := writeAccountFile(t, `{"nick":"captaincallback"}`)

	if _, err := LoadAccount(path); err == nil {
		t.Fatal("expected error for account without user")
	}
}

func TestLoadAccountMissingFile(t *testing.T) {
	if _, err := LoadAccount(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadAccountMalformedJSON(t *testing.T) {
	path := writeAccountFile(t, `{"user":`)

	if _, err := LoadAccount(path); err == nil {
		t.Fatal("expected error for malformed json")
	}
}
