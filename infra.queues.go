package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Predefinied Queue IDs.
const (
	BookCreateQueue = "book.create"
	BookUpdateQueue = "book.update"
	BookDeleteQueue = "book.delete"
	LoanCreateQueue = "loan.create"
	LoanUpdateQueue = "loan.update"
	OverdueQueue    = "loan.overdue"
)

// Ensure *redisQueue implements Queuer.
var _ Queuer = (*redisQueue)(nil)

// Queuer describes a queue carrying json-encoded records.
type Queuer interface {
	Push(ctx context.Context, qid string, record interface{}) error
	Pop(ctx context.Context, qids ...string) (string, []byte, error)
}

// redisQueue represents a queue which implements the Queuer interface.
type redisQueue struct {
	client *redis.Client
}

func NewRedisQueue(client *redis.Client) Queuer {
	return &redisQueue{client: client}
}

// Push enqueues a record onto the queue identified by qid.
func (q *redisQueue) Push(ctx context.Context, qid string, record interface{}) error {
	recordBytes, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return q.client.RPush(ctx, qid, recordBytes).Err()
}

// Pop returns the first dequeued record from the list of queue ids.
func (q *redisQueue) Pop(ctx context.Context, qids ...string) (string, []byte, error) {
	infos, err := q.client.BLPop(ctx, 0*time.Second, qids...).Result()
	if err != nil {
		return "", nil, err
	}
	return infos[0], []byte(infos[1]), nil
}
