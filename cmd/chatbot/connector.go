package main

import (
	"context"
	"fmt"

	"github.com/CaptainCallback/TwitchChatBot/internal/observe"
	"github.com/gorilla/websocket"
)

// TwitchWebsocket dials the chat endpoint and authenticates. No IRCv3
// capabilities are requested: the parser only recognizes untagged PRIVMSG
// and PING lines, so tagged and membership traffic would only be dropped.
func TwitchWebsocket(ctx context.Context, token, username, uri string) (*websocket.Conn, error) {
	lg := observe.C("connector").With("user", username, "uri", uri)

	d := websocket.Dialer{}
	conn, _, err := d.Dial(uri, nil)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	lg.Debug("websocket dialed")

	write := func(s string) error {
		return conn.WriteMessage(websocket.TextMessage, []byte(s))
	}

	if err := write(fmt.Sprintf("PASS oauth:%s\r\n", token)); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("pass: %w", err)
	}
	lg.Debug("sent PASS")

	if err := write(fmt.Sprintf("NICK %s\r\n", username)); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("nick: %w", err)
	}
	lg.Debug("sent NICK")

	return conn, nil
}
