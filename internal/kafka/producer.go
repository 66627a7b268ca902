package kafka

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"

	ircevents "github.com/CaptainCallback/TwitchChatBot/internal/irc_events"
	"github.com/CaptainCallback/TwitchChatBot/internal/observe"
)

// KafkaProducer drains parseCh into the topic. Marshal and write failures
// are logged and skipped; a bad event never stalls the pipeline.
func KafkaProducer(ctx context.Context, writer MessageWriter, parseCh <-chan ircevents.Event) {
	lg := observe.C("kafka_producer")

	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-parseCh:
			value, err := evt.Marshal()
			if err != nil {
				lg.Error("marshal event", "err", err, "kind", evt.Kind())
				continue
			}
			msg := kafkago.Message{
				Key:   []byte(evt.Key()),
				Value: value,
			}
			if err := writer.WriteMessages(ctx, msg); err != nil {
				lg.Error("kafka write", "err", err, "kind", evt.Kind())
			}
		}
	}
}
