package main

import (
	"context"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/CaptainCallback/TwitchChatBot/internal/observe"
)

// StartReader splits websocket frames on CRLF and forwards every non-empty
// line to readCh. The classifier is the single classification point, so
// pings flow through like any other line.
func StartReader(ctx context.Context, conn *websocket.Conn, readCh chan<- string) error {
	lg := observe.C("reader")

	// Ensure ReadMessage unblocks when ctx is cancelled.
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				lg.Info("reader stopping", "reason", "context_canceled")
				return ctx.Err()
			}
			lg.Warn("socket read failed", "err", err)
			return err
		}

		for _, line := range strings.Split(string(payload), "\r\n") {
			if line == "" {
				continue
			}
			select {
			case readCh <- line:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
