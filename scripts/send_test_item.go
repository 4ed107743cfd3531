// Скрипт отправляет тестовые позиции в топик импорта Kafka.
// Запуск: go run scripts/send_test_item.go -count 5
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/RoGogDBD/inventory/internal/config"
	"github.com/RoGogDBD/inventory/internal/models"
)

var categories = []string{"Electronics", "Office", "Furniture", "Tools"}

func main() {
	count := flag.Int("count", 1, "Number of test items to send")
	invalid := flag.Bool("invalid", false, "Send items that fail validation (to exercise the DLQ)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if len(cfg.Kafka.Brokers) == 0 || cfg.Kafka.ImportTopic == "" {
		log.Fatal("Kafka brokers or import topic not configured")
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Kafka.Brokers...),
		Topic:                  cfg.Kafka.ImportTopic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	defer func() {
		if err := w.Close(); err != nil {
			log.Printf("kafka writer close error: %v", err)
		}
	}()

	for i := 0; i < *count; i++ {
		quantity := rand.Intn(50)
		price := float64(rand.Intn(100000)) / 100
		if *invalid {
			quantity = -1
		}
		item := models.ItemInput{
			Name:        fmt.Sprintf("Test item %s", uuid.NewString()[:8]),
			Quantity:    &quantity,
			Price:       &price,
			Description: "Generated by send_test_item",
			Category:    categories[rand.Intn(len(categories))],
		}

		data, err := json.Marshal(item)
		if err != nil {
			log.Fatalf("Failed to marshal item: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = w.WriteMessages(ctx, kafka.Message{Key: []byte(item.Name), Value: data})
		cancel()
		if err != nil {
			log.Fatalf("Failed to send item: %v", err)
		}
		log.Printf("Sent item %q (quantity=%d, price=%.2f)", item.Name, quantity, price)
	}
}
