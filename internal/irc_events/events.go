package ircevents

import "encoding/json"

// Event is one classified chat line, ready for downstream consumers.
// Key selects the Kafka partition.
type Event interface {
	Kind() string
	Key() string
	Marshal() ([]byte, error)
}

// UserMessage is a channel PRIVMSG authored by a viewer.
type UserMessage struct {
	User string // nickname portion of the sender prefix, e.g. "carkhy"
	Text string // message body, surrounding whitespace stripped
}

// PingMessage is a server liveness probe. The server expects the argument
// echoed back in a PONG.
type PingMessage struct {
	Server string // argument after "PING :", e.g. "tmi.twitch.tv"
}

func (msg UserMessage) Kind() string {
	return "privmsg"
}

func (msg UserMessage) Key() string {
	return msg.User
}

func (msg UserMessage) Marshal() ([]byte, error) {
	return json.Marshal(msg)
}

func (msg PingMessage) Kind() string {
	return "ping"
}

func (msg PingMessage) Key() string {
	return msg.Server
}

func (msg PingMessage) Marshal() ([]byte, error) {
	return json.Marshal(msg)
}
