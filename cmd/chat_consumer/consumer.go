package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/segmentio/kafka-go"
)

func main() {
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		log.Fatal("KAFKA_BROKERS is empty")
	}
	topic := os.Getenv("KAFKA_TOPIC")
	if topic == "" {
		log.Fatal("KAFKA_TOPIC is empty")
	}
	groupID := os.Getenv("KAFKA_GROUPID")
	if groupID == "" {
		log.Fatal("KAFKA_GROUPID is empty")
	}

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{brokers},
		GroupID:  groupID,
		Topic:    topic,
		MaxBytes: 10e6, // 10MB
	})
	defer func() {
		if err := r.Close(); err != nil {
			log.Printf("failed to close reader: %v", err)
		}
	}()

	for {
		m, err := r.ReadMessage(context.Background())
		if err != nil {
			log.Printf("read error: %v", err)
			return
		}

		var msg struct {
			User string
			Text string
		}
		if err := json.Unmarshal(m.Value, &msg); err != nil {
			log.Printf("decode error at offset %d: %v", m.Offset, err)
			continue
		}
		fmt.Printf("%s: %s\n", msg.User, msg.Text)
	}
}
