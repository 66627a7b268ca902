package main

import (
	"context"
	"fmt"

	ircevents "github.com/CaptainCallback/TwitchChatBot/internal/irc_events"
	"github.com/CaptainCallback/TwitchChatBot/internal/observe"
)

// ClassifyLine runs the parser over every raw line from the reader. User
// messages go to parseCh for the Kafka producer; pings are answered with a
// PONG on writerCh; everything else is dropped.
func ClassifyLine(ctx context.Context, readerCh <-chan string, parseCh chan<- ircevents.Event, writerCh chan<- string) {
	lg := observe.C("classifier")

	for {
		select {
		case <-ctx.Done():
			return

		case line, ok := <-readerCh:
			if !ok { // channel closed
				lg.Info("reader channel closed")
				return
			}

			evt, err := ircevents.Parse(line)
			if err != nil {
				lg.Debug("skip line", "reason", "unknown message type")
				continue
			}

			switch msg := evt.(type) {
			case ircevents.PingMessage:
				// echo the server argument back, not a constant
				select {
				case writerCh <- fmt.Sprintf("PONG :%s\r\n", msg.Server):
				case <-ctx.Done():
					return
				}

			case ircevents.UserMessage:
				lg.Debug("user message", "user", msg.User, "text_len", len(msg.Text))
				select {
				case parseCh <- msg:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}
