package ircevents

import (
	"errors"
	"strings"
)

// ErrUnknownMessageType is returned for every line shape Parse does not
// recognize. The caller decides whether to drop the line, count it, or
// reconnect; the parser itself never logs.
var ErrUnknownMessageType = errors.New("unknown message type")

type parseState int

const (
	stateUserName parseState = iota
	stateAdditionalUserInfo
	stateMessageToken
	stateChannel
	stateMessageText
)

// Parse classifies a single already-framed chat line. A line starting with
// ':' is expected to carry a channel message; anything else is expected to
// be a server ping. Exactly two shapes are accepted:
//
//	PING :<server>
//	:<nick>!<user>@<host> PRIVMSG #<channel> :<body>
//
// The returned event owns independent copies of the extracted fields; it
// does not alias line.
func Parse(line string) (Event, error) {
	if strings.HasPrefix(line, ":") {
		return parseUserMessage(line)
	}
	return parsePingMessage(line)
}

// Example message: PING :tmi.twitch.tv
func parsePingMessage(line string) (Event, error) {
	server, ok := strings.CutPrefix(line, "PING :")
	if !ok {
		return nil, ErrUnknownMessageType
	}
	// verbatim remainder, no trimming
	return PingMessage{Server: strings.Clone(server)}, nil
}

// Example message: :carkhy!carkhy@carkhy.tmi.twitch.tv PRIVMSG #captaincallback :backseating backseating
func parseUserMessage(line string) (Event, error) {
	state := stateUserName
	var userName string
	marker := 0

	// Single left-to-right scan. Ranging over the string yields the
	// starting byte offset of every scalar, so the slices below never
	// split a multi-byte scalar.
	for i, r := range line {
		switch state {
		// :carkhy!carkhy@carkhy.tmi.twitch.tv
		case stateUserName:
			switch r {
			case ':':
				marker = i + 1
			case ' ':
				return nil, ErrUnknownMessageType
			case '!':
				userName = line[marker:i]
				state = stateAdditionalUserInfo
			}

		case stateAdditionalUserInfo:
			if r == ' ' {
				marker = i + 1
				state = stateMessageToken
			}

		// PRIVMSG #captaincallback :backseating backseating
		case stateMessageToken:
			if r == ' ' {
				if line[marker:i] != "PRIVMSG" {
					// only channel messages are of interest
					return nil, ErrUnknownMessageType
				}
				state = stateChannel
			}

		case stateChannel:
			if r == ' ' {
				state = stateMessageText
			}

		case stateMessageText:
			// i is the first scalar past the channel-terminating space,
			// normally the ':' sigil of the trailing parameter. The body
			// starts one byte after it.
			return UserMessage{
				User: strings.Clone(userName),
				Text: strings.Clone(strings.TrimSpace(line[i+1:])),
			}, nil
		}
	}
	return nil, ErrUnknownMessageType
}
