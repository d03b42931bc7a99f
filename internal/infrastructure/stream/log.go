package stream

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Log is the consumer-side view of the durable event log: one stream key and
// one consumer group. Entries claimed through it stay in the group's pending
// set until acknowledged.
type Log struct {
	client *redis.Client

	streamKey     string
	groupName     string
	deadLetterKey string
}

func NewLog(client *redis.Client, streamKey, groupName, deadLetterKey string) *Log {
	return &Log{
		client:        client,
		streamKey:     streamKey,
		groupName:     groupName,
		deadLetterKey: deadLetterKey,
	}
}

// EnsureGroup creates the consumer group positioned at the start of the log.
// A group that already exists is not an error.
func (l *Log) EnsureGroup(ctx context.Context) error {
	err := l.client.XGroupCreateMkStream(ctx, l.streamKey, l.groupName, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("Log - EnsureGroup - l.client.XGroupCreateMkStream: %w", err)
	}

	return nil
}

// Claim blocks up to block waiting for new entries and returns them in log
// order. A block timeout yields an empty slice, not an error.
func (l *Log) Claim(ctx context.Context, consumer string, count int, block time.Duration) ([]Entry, error) {
	streams, err := l.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    l.groupName,
		Consumer: consumer,
		Streams:  []string{l.streamKey, ">"},
		Count:    int64(count),
		Block:    block,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}

		return nil, fmt.Errorf("Log - Claim - l.client.XReadGroup: %w", err)
	}

	var entries []Entry
	for _, s := range streams {
		for _, msg := range s.Messages {
			entries = append(entries, Entry{ID: msg.ID, Values: msg.Values})
		}
	}

	return entries, nil
}

// Ack removes the entry from the group's pending set. Safe to repeat.
func (l *Log) Ack(ctx context.Context, entryID string) error {
	err := l.client.XAck(ctx, l.streamKey, l.groupName, entryID).Err()
	if err != nil {
		return fmt.Errorf("Log - Ack - l.client.XAck: %w", err)
	}

	return nil
}

// Pending lists entries that have been idle in the pending set for at least
// minIdle, together with their delivery counts.
func (l *Log) Pending(ctx context.Context, minIdle time.Duration, count int) ([]PendingEntry, error) {
	pending, err := l.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: l.streamKey,
		Group:  l.groupName,
		Idle:   minIdle,
		Start:  "-",
		End:    "+",
		Count:  int64(count),
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}

		return nil, fmt.Errorf("Log - Pending - l.client.XPendingExt: %w", err)
	}

	entries := make([]PendingEntry, 0, len(pending))
	for _, p := range pending {
		entries = append(entries, PendingEntry{
			ID:         p.ID,
			Consumer:   p.Consumer,
			Idle:       p.Idle,
			Deliveries: p.RetryCount,
		})
	}

	return entries, nil
}

// ClaimPending transfers ownership of the given pending entries to consumer
// and returns them with their values.
func (l *Log) ClaimPending(ctx context.Context, consumer string, minIdle time.Duration, ids []string) ([]Entry, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	msgs, err := l.client.XClaim(ctx, &redis.XClaimArgs{
		Stream:   l.streamKey,
		Group:    l.groupName,
		Consumer: consumer,
		MinIdle:  minIdle,
		Messages: ids,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}

		return nil, fmt.Errorf("Log - ClaimPending - l.client.XClaim: %w", err)
	}

	entries := make([]Entry, 0, len(msgs))
	for _, msg := range msgs {
		entries = append(entries, Entry{ID: msg.ID, Values: msg.Values})
	}

	return entries, nil
}

// DeadLetter copies the entry to the dead-letter stream and acknowledges the
// original, so it stops being redelivered.
func (l *Log) DeadLetter(ctx context.Context, entry Entry) error {
	values := make(map[string]interface{}, len(entry.Values)+1)
	for k, v := range entry.Values {
		values[k] = v
	}
	values["originEntryId"] = entry.ID

	err := l.client.XAdd(ctx, &redis.XAddArgs{
		Stream: l.deadLetterKey,
		Values: values,
	}).Err()
	if err != nil {
		return fmt.Errorf("Log - DeadLetter - l.client.XAdd: %w", err)
	}

	return l.Ack(ctx, entry.ID)
}

// Tail reads the first entry appended after afterID, outside of any consumer
// group. Feeds the live-stream endpoint.
func (l *Log) Tail(ctx context.Context, afterID string, block time.Duration) (*Entry, error) {
	streams, err := l.client.XRead(ctx, &redis.XReadArgs{
		Streams: []string{l.streamKey, afterID},
		Count:   1,
		Block:   block,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}

		return nil, fmt.Errorf("Log - Tail - l.client.XRead: %w", err)
	}

	for _, s := range streams {
		for _, msg := range s.Messages {
			return &Entry{ID: msg.ID, Values: msg.Values}, nil
		}
	}

	return nil, nil
}
