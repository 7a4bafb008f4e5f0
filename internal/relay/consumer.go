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

// Package relay forwards mirrored notifications from Kafka to an outbound
// delivery channel.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	kafka "github.com/segmentio/kafka-go"

	"github.com/jredh-dev/foodshare/pkg/models"
)

// maxAttempts is the number of delivery attempts before a message is routed
// to the dead-letter topic.
const maxAttempts = 3

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads notifications from the mirror topic and hands each one to a
// Sender. Offsets are committed after delivery or dead-lettering, so delivery
// is at-least-once and a poison message never blocks the partition.
type Consumer struct {
	reader  messageReader
	dlq     messageWriter
	sender  Sender
	backoff func(attempt int) time.Duration
}

// Options configures NewConsumer.
type Options struct {
	Brokers  []string
	Topic    string
	DLQTopic string
	GroupID  string
}

// NewConsumer creates a Consumer joined to opts.GroupID.
func NewConsumer(opts Options, sender Sender) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        opts.Brokers,
		Topic:          opts.Topic,
		GroupID:        opts.GroupID,
		MinBytes:       1,
		MaxBytes:       1 << 20, // 1 MiB
		CommitInterval: 0,       // explicit commits only
		StartOffset:    kafka.LastOffset,
	})

	dlq := &kafka.Writer{
		Addr:         kafka.TCP(opts.Brokers...),
		Topic:        opts.DLQTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}

	return newConsumer(reader, dlq, sender)
}

func newConsumer(r messageReader, dlq messageWriter, sender Sender) *Consumer {
	return &Consumer{
		reader: r,
		dlq:    dlq,
		sender: sender,
		backoff: func(attempt int) time.Duration {
			return time.Duration(attempt) * 2 * time.Second
		},
	}
}

// Run consumes until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	log.Printf("relay: consuming notifications")

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("fetch: %w", err)
		}

		err = c.dispatch(ctx, m)
		if ctx.Err() != nil {
			// Neither delivered nor dead-lettered: leave it uncommitted for redelivery.
			log.Printf("relay: shutdown during delivery of key=%s, not committing", string(m.Key))
			return nil
		}
		if err != nil {
			log.Printf("relay: routed message key=%s to DLQ: %v", string(m.Key), err)
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			log.Printf("relay: commit failed (message may be redelivered): %v", err)
		}
	}
}

// Close releases the reader and the dead-letter writer.
func (c *Consumer) Close() error {
	rerr := c.reader.Close()
	werr := c.dlq.Close()
	if rerr != nil {
		return rerr
	}
	return werr
}

// dispatch delivers m, retrying with backoff. A message that cannot be
// decoded or delivered is copied to the dead-letter topic and its error
// returned.
func (c *Consumer) dispatch(ctx context.Context, m kafka.Message) error {
	var n models.Notification
	if err := json.Unmarshal(m.Value, &n); err != nil {
		return c.deadLetter(ctx, m, fmt.Errorf("unmarshal: %w", err))
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = c.sender.Send(ctx, n)
		if lastErr == nil {
			log.Printf("relay: delivered id=%s user=%s (attempt %d)", n.ID, n.UserID, attempt)
			return nil
		}

		log.Printf("relay: attempt %d/%d failed for id=%s: %v", attempt, maxAttempts, n.ID, lastErr)

		if attempt < maxAttempts {
			select {
			case <-time.After(c.backoff(attempt)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return c.deadLetter(ctx, m, lastErr)
}

func (c *Consumer) deadLetter(ctx context.Context, original kafka.Message, reason error) error {
	err := c.dlq.WriteMessages(ctx, kafka.Message{
		Key:   original.Key,
		Value: original.Value,
		Headers: []kafka.Header{
			{Key: "relay-error", Value: []byte(reason.Error())},
		},
	})
	if err != nil {
		log.Printf("relay: CRITICAL: could not write to DLQ: %v", err)
	}
	return reason
}
