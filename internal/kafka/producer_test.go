package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	ircevents "github.com/CaptainCallback/TwitchChatBot/internal/irc_events"
)

type fakeWriter struct {
	mu   sync.Mutex
	msgs []kafkago.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msgs...)
	return f.err
}

func (f *fakeWriter) Close() error { return nil }

func (f *fakeWriter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.msgs)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}

func TestProducerWritesKeyAndValue(t *testing.T) {
	fw := &fakeWriter{}
	parseCh := make(chan ircevents.Event, 4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go KafkaProducer(ctx, fw, parseCh)

	evt := ircevents.UserMessage{User: "carkhy", Text: "hello chat"}
	parseCh <- evt

	waitFor(t, func() bool { return fw.count() == 1 })

	fw.mu.Lock()
	msg := fw.msgs[0]
	fw.mu.Unlock()

	if string(msg.Key) != "carkhy" {
		t.Fatalf("key = %q, want the event key", msg.Key)
	}
	want, _ := evt.Marshal()
	if string(msg.Value) != string(want) {
		t.Fatalf("value = %s, want %s", msg.Value, want)
	}
}

func TestProducerContinuesOnWriteError(t *testing.T) {
	fw := &fakeWriter{err: errors.New("broker down")}
	parseCh := make(chan ircevents.Event, 4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go KafkaProducer(ctx, fw, parseCh)

	parseCh <- ircevents.UserMessage{User: "a", Text: "1"}
	parseCh <- ircevents.UserMessage{User: "b", Text: "2"}

	// Both writes are attempted despite the persistent error.
	waitFor(t, func() bool { return fw.count() == 2 })
}

func TestProducerStopsOnCancel(t *testing.T) {
	fw := &fakeWriter{}
	parseCh := make(chan ircevents.Event)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		KafkaProducer(ctx, fw, parseCh)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("producer did not stop on cancel")
	}
}
