package main

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type redisLoanStorage struct {
	logger *zap.Logger
	client *redis.Client
}

// NewRedisLoanStorage provides an instance of redis-based loan storage.
func NewRedisLoanStorage(logger *zap.Logger, client *redis.Client) LoanStorage {
	return &redisLoanStorage{
		logger: logger,
		client: client,
	}
}

// Add inserts a new loan record with a freshly assigned id. For an
// outstanding loan the active index insertion is conditional so two
// concurrent loans on the same book cannot both land.
func (rs *redisLoanStorage) Add(ctx context.Context, loan Loan) (Loan, error) {
	id, err := rs.client.Incr(ctx, KLoansNextID).Result()
	if err != nil {
		return loan, err
	}
	loan.ID = id

	if !loan.IsReturned() {
		ok, err := rs.client.HSetNX(ctx, HActiveLoans, formatID(loan.BookID), formatID(loan.ID)).Result()
		if err != nil {
			return loan, err
		}
		if !ok {
			return loan, ErrBookAlreadyLoaned
		}
	}

	loanBytes, err := json.Marshal(loan)
	if err != nil {
		return loan, err
	}
	if err = rs.client.HSet(ctx, HLoans, formatID(loan.ID), loanBytes).Err(); err != nil {
		return loan, err
	}
	return loan, nil
}

// GetOne retrieves a loan record based on its ID.
func (rs *redisLoanStorage) GetOne(ctx context.Context, id int64) (Loan, bool, error) {
	var loan Loan
	loanJSONString, err := rs.client.HGet(ctx, HLoans, formatID(id)).Result()
	if err == redis.Nil {
		return loan, false, nil
	}
	if err != nil {
		return loan, false, err
	}
	if err = json.Unmarshal([]byte(loanJSONString), &loan); err != nil {
		return loan, false, err
	}
	return loan, true, nil
}

// ExistsActiveByBook reports whether an unreturned loan references the book.
func (rs *redisLoanStorage) ExistsActiveByBook(ctx context.Context, bookID int64) (bool, error) {
	return rs.client.HExists(ctx, HActiveLoans, formatID(bookID)).Result()
}

// Update replaces the existing loan record data and maintains the
// active index as the returned flag flips.
func (rs *redisLoanStorage) Update(ctx context.Context, loan Loan) (Loan, error) {
	loanBytes, err := json.Marshal(loan)
	if err != nil {
		return loan, err
	}
	if err = rs.client.HSet(ctx, HLoans, formatID(loan.ID), loanBytes).Err(); err != nil {
		return loan, err
	}
	if loan.IsReturned() {
		err = rs.client.HDel(ctx, HActiveLoans, formatID(loan.BookID)).Err()
	} else {
		err = rs.client.HSet(ctx, HActiveLoans, formatID(loan.BookID), formatID(loan.ID)).Err()
	}
	return loan, err
}

// Find retrieves one page of loans matching the filter along with the
// total number of matches.
func (rs *redisLoanStorage) Find(ctx context.Context, filter LoanFilter, page PageRequest) ([]Loan, int64, error) {
	matches, err := rs.findMatching(ctx, filter.Matches)
	if err != nil {
		return nil, 0, err
	}
	lo, hi := page.Normalize().Slice(len(matches))
	return matches[lo:hi], int64(len(matches)), nil
}

// FindByBook retrieves one page of all loans, active and returned,
// referencing the given book.
func (rs *redisLoanStorage) FindByBook(ctx context.Context, bookID int64, page PageRequest) ([]Loan, int64, error) {
	matches, err := rs.findMatching(ctx, func(l Loan) bool { return l.BookID == bookID })
	if err != nil {
		return nil, 0, err
	}
	lo, hi := page.Normalize().Slice(len(matches))
	return matches[lo:hi], int64(len(matches)), nil
}

// FindOverdue retrieves all loans late relative to the given day.
func (rs *redisLoanStorage) FindOverdue(ctx context.Context, day time.Time) ([]Loan, error) {
	return rs.findMatching(ctx, func(l Loan) bool { return l.IsOverdueAt(day) })
}

// findMatching returns all loans satisfying the predicate, ordered by id.
func (rs *redisLoanStorage) findMatching(ctx context.Context, match func(Loan) bool) ([]Loan, error) {
	values, err := rs.client.HVals(ctx, HLoans).Result()
	if err != nil {
		return nil, err
	}
	matches := []Loan{}
	for _, loanJSONString := range values {
		var loan Loan
		if err = json.Unmarshal([]byte(loanJSONString), &loan); err != nil {
			return nil, err
		}
		if match(loan) {
			matches = append(matches, loan)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	return matches, nil
}
