package main

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// TestBoltDBConsumer ensures queued records are replayed as upserts
// into the replica stores until the context is done.
func TestBoltDBConsumer(t *testing.T) {
	book := Book{ID: 11, Title: "As aventuras", Author: "Fulano", ISBN: "123"}
	loan := Loan{ID: 3, BookID: 11, BookISBN: "123", Customer: "Fulano", LoanDate: "2023-07-02"}
	bookBytes, err := json.Marshal(book)
	assert.NoError(t, err)
	loanBytes, err := json.Marshal(loan)
	assert.NoError(t, err)

	events := []struct {
		qid    string
		record []byte
	}{
		{BookCreateQueue, bookBytes},
		{LoanCreateQueue, loanBytes},
		{BookDeleteQueue, bookBytes},
	}

	ctx, cancel := context.WithCancel(context.Background())
	queue := NewMockQueuer()
	next := 0
	queue.PopFunc = func(ctx context.Context, qids ...string) (string, []byte, error) {
		if next >= len(events) {
			cancel()
			return "", nil, context.Canceled
		}
		ev := events[next]
		next++
		return ev.qid, ev.record, nil
	}

	var replicatedBook, deletedBookID bool
	var replicatedLoan bool
	books := &MockBookStorage{
		UpdateFunc: func(ctx context.Context, b Book) (Book, error) {
			replicatedBook = b == book
			return b, nil
		},
		DeleteFunc: func(ctx context.Context, id int64) error {
			deletedBookID = id == book.ID
			return nil
		},
	}
	loans := &MockLoanStorage{
		UpdateFunc: func(ctx context.Context, l Loan) (Loan, error) {
			replicatedLoan = l == loan
			return l, nil
		},
	}

	consumer := NewBoltDBConsumer(zap.NewNop(), queue, books, loans)
	err = consumer.Consume(ctx, BookCreateQueue, BookUpdateQueue, BookDeleteQueue, LoanCreateQueue, LoanUpdateQueue)
	assert.NoError(t, err)
	assert.True(t, replicatedBook)
	assert.True(t, replicatedLoan)
	assert.True(t, deletedBookID)
}

// TestOverdueCheckerDisabled ensures the checker exits immediately
// when not enabled from the configuration.
func TestOverdueCheckerDisabled(t *testing.T) {
	oc := NewOverdueChecker(zap.NewNop(), &OverdueCheckConfig{Enable: false}, NewMockClocker(), nil, nil)
	done := make(chan error, 1)
	go func() { done <- oc.Run(context.Background()) }()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("disabled checker did not exit")
	}
}

// TestOverdueCheckerPublishesLateLoans ensures each late loan lands on
// the overdue queue during a round.
func TestOverdueCheckerPublishesLateLoans(t *testing.T) {
	mockRepo := &MockLoanStorage{
		FindOverdueFunc: func(ctx context.Context, day time.Time) ([]Loan, error) {
			return []Loan{{ID: 1, LoanDate: "2023-06-01"}, {ID: 2, LoanDate: "2023-06-02"}}, nil
		},
	}
	queue := NewMockQueuer()
	ls := NewLoanService(zap.NewNop(), NewMockClocker(), mockRepo, queue)
	oc := NewOverdueChecker(zap.NewNop(), &OverdueCheckConfig{Enable: true, Interval: time.Hour}, NewMockClocker(), ls, queue)

	oc.check(context.Background())
	assert.Equal(t, []string{OverdueQueue, OverdueQueue}, queue.Pushed)
}
