package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// TestLoanServiceSave ensures a book out on an unreturned loan can not
// be loaned again and that created loans land on the replication queue.
func TestLoanServiceSave(t *testing.T) {
	t.Run("should pass: book is free", func(t *testing.T) {
		mockRepo := &MockLoanStorage{
			ExistsActiveByBookFunc: func(ctx context.Context, bookID int64) (bool, error) {
				return false, nil
			},
			AddFunc: func(ctx context.Context, loan Loan) (Loan, error) {
				loan.ID = 1
				return loan, nil
			},
		}
		queue := NewMockQueuer()
		ls := NewLoanService(zap.NewNop(), NewMockClocker(), mockRepo, queue)

		loan, err := ls.Save(context.Background(), Loan{BookID: 7, BookISBN: "123", Customer: "Fulano", LoanDate: "2023-07-02"})
		assert.NoError(t, err)
		assert.Equal(t, int64(1), loan.ID)
		assert.Equal(t, []string{LoanCreateQueue}, queue.Pushed)
	})

	t.Run("should fail: book already loaned", func(t *testing.T) {
		mockRepo := &MockLoanStorage{
			ExistsActiveByBookFunc: func(ctx context.Context, bookID int64) (bool, error) {
				return true, nil
			},
		}
		queue := NewMockQueuer()
		ls := NewLoanService(zap.NewNop(), NewMockClocker(), mockRepo, queue)

		_, err := ls.Save(context.Background(), Loan{BookID: 7, BookISBN: "123", Customer: "Fulano"})
		assert.ErrorIs(t, err, ErrBookAlreadyLoaned)
		assert.True(t, IsBusinessError(err))
		assert.Empty(t, queue.Pushed)
	})
}

// TestLoanServiceUpdate ensures updates require a stored id and land
// on the replication queue.
func TestLoanServiceUpdate(t *testing.T) {
	mockRepo := &MockLoanStorage{
		UpdateFunc: func(ctx context.Context, loan Loan) (Loan, error) {
			return loan, nil
		},
	}
	queue := NewMockQueuer()
	ls := NewLoanService(zap.NewNop(), NewMockClocker(), mockRepo, queue)

	_, err := ls.Update(context.Background(), Loan{Customer: "no id"})
	assert.ErrorIs(t, err, ErrMissingID)

	returned := true
	loan, err := ls.Update(context.Background(), Loan{ID: 1, BookID: 7, Returned: &returned})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), loan.ID)
	assert.Equal(t, []string{LoanUpdateQueue}, queue.Pushed)
}

// TestLoanServiceGetAllLateLoans ensures the lookup day comes from the
// injected clock.
func TestLoanServiceGetAllLateLoans(t *testing.T) {
	var gotDay time.Time
	mockRepo := &MockLoanStorage{
		FindOverdueFunc: func(ctx context.Context, day time.Time) ([]Loan, error) {
			gotDay = day
			return []Loan{{ID: 1, LoanDate: "2023-06-01"}}, nil
		},
	}
	clock := NewMockClocker()
	ls := NewLoanService(zap.NewNop(), clock, mockRepo, NewMockQueuer())

	loans, err := ls.GetAllLateLoans(context.Background())
	assert.NoError(t, err)
	assert.Len(t, loans, 1)
	assert.Equal(t, clock.MockNow, gotDay)
}

// TestLoanServiceGetLoansByBook ensures the book id drives the lookup
// with a normalized page.
func TestLoanServiceGetLoansByBook(t *testing.T) {
	var gotBookID int64
	var gotPage PageRequest
	mockRepo := &MockLoanStorage{
		FindByBookFunc: func(ctx context.Context, bookID int64, page PageRequest) ([]Loan, int64, error) {
			gotBookID = bookID
			gotPage = page
			return []Loan{}, 0, nil
		},
	}
	ls := NewLoanService(zap.NewNop(), NewMockClocker(), mockRepo, NewMockQueuer())

	_, _, err := ls.GetLoansByBook(context.Background(), Book{ID: 7}, PageRequest{Page: -1, Size: -1})
	assert.NoError(t, err)
	assert.Equal(t, int64(7), gotBookID)
	assert.Equal(t, PageRequest{Page: 0, Size: DefaultPageSize}, gotPage)
}
