// nascent-nexus - Personal AI assistant system
// Copyright (C) 2025  nascent-nexus contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.

// notify-relay is a long-running Kafka consumer that reads mirrored
// notifications and forwards each one to RELAY_WEBHOOK_URL, or to the log
// when no webhook is configured.
//
//	KAFKA_BROKERS        comma-separated broker list, e.g. "kafka:9092" (required)
//	KAFKA_NOTIFY_TOPIC   mirror topic (default foodshare-notifications)
//	KAFKA_DLQ_TOPIC      dead-letter topic (default foodshare-notifications-dlq)
//	KAFKA_GROUP_ID       consumer group (default foodshare-notify-relay)
//	RELAY_WEBHOOK_URL    delivery endpoint
//	RELAY_WEBHOOK_TOKEN  optional bearer token for the endpoint
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jredh-dev/foodshare/config"
	"github.com/jredh-dev/foodshare/internal/relay"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("foodshare-notify-relay %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", buildDate)
		os.Exit(0)
	}

	cfg := config.Load()
	if len(cfg.Kafka.Brokers) == 0 {
		log.Fatal("notify-relay: required environment variable \"KAFKA_BROKERS\" is not set")
	}

	var sender relay.Sender = relay.LogSender{}
	if cfg.Relay.WebhookURL != "" {
		sender = relay.NewWebhookSender(cfg.Relay.WebhookURL, cfg.Relay.WebhookToken)
	}

	consumer := relay.NewConsumer(relay.Options{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    cfg.Kafka.NotifyTopic,
		DLQTopic: cfg.Kafka.DLQTopic,
		GroupID:  cfg.Kafka.GroupID,
	}, sender)
	defer func() {
		if err := consumer.Close(); err != nil {
			log.Printf("notify-relay: error closing consumer: %v", err)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Printf("notify-relay: starting (topic=%s group=%s webhook=%t)",
		cfg.Kafka.NotifyTopic, cfg.Kafka.GroupID, cfg.Relay.WebhookURL != "")
	if err := consumer.Run(ctx); err != nil {
		log.Fatalf("notify-relay: fatal error: %v", err)
	}
	log.Println("notify-relay: shutdown complete")
}
