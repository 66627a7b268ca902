package channelrecord

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/CaptainCallback/TwitchChatBot/internal/types"
)

func readChannelsFile(t *testing.T, path string) types.Channels {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read channels file: %v", err)
	}
	var v types.Channels
	if err := json.Unmarshal(b, &v); err != nil {
		t.Fatalf("decode channels file: %v", err)
	}
	return v
}

func TestControllerInitializesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channels.json")

	ctl, err := NewController(path, "captaincallback", make(chan types.IRCCommand))
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}

	v, chans, _, acct := ctl.Snapshot()
	if v != 1 || len(chans) != 0 || acct != "captaincallback" {
		t.Fatalf("snapshot = v%d %v %q", v, chans, acct)
	}

	onDisk := readChannelsFile(t, path)
	if onDisk.Account != "captaincallback" || onDisk.Schema != 1 || len(onDisk.Channels) != 0 {
		t.Fatalf("initialized file = %+v", onDisk)
	}
}

func TestControllerLoadsAndNormalizesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channels.json")
	seed := types.Channels{
		Schema:    1,
		Account:   "me",
		UpdatedAt: time.Now().UTC(),
		Channels:  []string{"#Chess", "speedrun"},
	}
	b, _ := json.Marshal(seed)
	if err := os.WriteFile(path, b, 0o600); err != nil {
		t.Fatal(err)
	}

	ctl, err := NewController(path, "me", make(chan types.IRCCommand))
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}

	_, chans, _, _ := ctl.Snapshot()
	if len(chans) != 2 || chans[0] != "#chess" || chans[1] != "#speedrun" {
		t.Fatalf("normalized channels = %v", chans)
	}
}

func TestControllerRejectsAccountMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channels.json")
	seed := types.Channels{Schema: 1, Account: "somebodyelse"}
	b, _ := json.Marshal(seed)
	if err := os.WriteFile(path, b, 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := NewController(path, "me", make(chan types.IRCCommand)); err == nil {
		t.Fatal("expected account mismatch error")
	}
}

func TestControllerPersistsJoinAfterDebounce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channels.json")
	controlCh := make(chan types.IRCCommand, 4)

	ctl, err := NewController(path, "me", controlCh)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = ctl.Run(ctx) }()

	controlCh <- types.IRCCommand{Op: "JOIN", Channel: "Chess"}

	select {
	case <-ctl.Updates():
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot update after join")
	}

	v, chans, _, _ := ctl.Snapshot()
	if v != 2 {
		t.Fatalf("version = %d, want 2", v)
	}
	if len(chans) != 1 || chans[0] != "#chess" {
		t.Fatalf("channels = %v", chans)
	}

	onDisk := readChannelsFile(t, path)
	if len(onDisk.Channels) != 1 || onDisk.Channels[0] != "#chess" {
		t.Fatalf("persisted channels = %v", onDisk.Channels)
	}
}

func TestControllerDropsInvalidCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channels.json")
	controlCh := make(chan types.IRCCommand, 4)

	ctl, err := NewController(path, "me", controlCh)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = ctl.Run(ctx) }()

	controlCh <- types.IRCCommand{Op: "JOIN", Channel: "   "}
	controlCh <- types.IRCCommand{Op: "KICK", Channel: "#chess"}

	select {
	case <-ctl.Updates():
		t.Fatal("invalid commands must not produce a snapshot update")
	case <-time.After(400 * time.Millisecond):
	}

	_, chans, _, _ := ctl.Snapshot()
	if len(chans) != 0 {
		t.Fatalf("channels = %v, want none", chans)
	}
}

func TestNormalizeChannel(t *testing.T) {
	cases := map[string]struct {
		out string
		ok  bool
	}{
		"Chess":      {"#chess", true},
		"#Chess":     {"#chess", true},
		"  #chess":   {"#chess", true},
		"":           {"", false},
		"   ":        {"", false},
	}
	for in, want := range cases {
		got, ok := normalizeChannel(in)
		if got != want.out || ok != want.ok {
			t.Fatalf("normalizeChannel(%q) = %q,%v want %q,%v", in, got, ok, want.out, want.ok)
		}
	}
}
