package main

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

type Consumer interface {
	Consume(ctx context.Context, qids ...string) error
}

// boltDBConsumer replays data change events from the queues into the
// bolt replica stores. Records carry the ids assigned by the primary
// store, so creations and updates both land as upserts.
type boltDBConsumer struct {
	logger *zap.Logger
	queue  Queuer
	books  BookStorage
	loans  LoanStorage
}

func NewBoltDBConsumer(logger *zap.Logger, q Queuer, books BookStorage, loans LoanStorage) Consumer {
	return &boltDBConsumer{logger, q, books, loans}
}

func (bc *boltDBConsumer) Consume(ctx context.Context, qids ...string) error {
	for {
		qid, record, err := bc.queue.Pop(ctx, qids...)
		if err != nil && ctx.Err() != nil {
			bc.logger.Info("consumer: queue pop call: context is done: exit", zap.String("reason", ctx.Err().Error()))
			return nil
		}

		if err != nil {
			bc.logger.Error("consumer: error on queue pop call", zap.Error(err))
			continue
		}

		switch qid {
		case BookCreateQueue, BookUpdateQueue:
			bc.replicateBook(ctx, record)
		case BookDeleteQueue:
			bc.removeBook(ctx, record)
		case LoanCreateQueue, LoanUpdateQueue:
			bc.replicateLoan(ctx, record)
		default:
			bc.logger.Warn("consumer: received record on unknow queue id", zap.String("qid", qid))
		}
	}
}

func (bc *boltDBConsumer) replicateBook(ctx context.Context, record []byte) {
	var book Book
	if err := json.Unmarshal(record, &book); err != nil {
		bc.logger.Error("consumer: failed to decode book record", zap.Error(err))
		return
	}
	if _, err := bc.books.Update(ctx, book); err != nil {
		bc.logger.Error("consumer: failed to replicate book", zap.Any("book", book), zap.Error(err))
	}
}

func (bc *boltDBConsumer) removeBook(ctx context.Context, record []byte) {
	var book Book
	if err := json.Unmarshal(record, &book); err != nil {
		bc.logger.Error("consumer: failed to decode book record", zap.Error(err))
		return
	}
	if err := bc.books.Delete(ctx, book.ID); err != nil {
		bc.logger.Error("consumer: failed to delete book", zap.Int64("id", book.ID), zap.Error(err))
	}
}

func (bc *boltDBConsumer) replicateLoan(ctx context.Context, record []byte) {
	var loan Loan
	if err := json.Unmarshal(record, &loan); err != nil {
		bc.logger.Error("consumer: failed to decode loan record", zap.Error(err))
		return
	}
	if _, err := bc.loans.Update(ctx, loan); err != nil {
		bc.logger.Error("consumer: failed to replicate loan", zap.Any("loan", loan), zap.Error(err))
	}
}
