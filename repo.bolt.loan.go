package main

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/boltdb/bolt"
	"go.uber.org/zap"
)

type boltLoanStorage struct {
	logger *zap.Logger
	client *bolt.DB
	config *BoltDBConfig
}

// NewBoltLoanStorage provides an instance of bolt-based loan storage.
func NewBoltLoanStorage(logger *zap.Logger, boltConfig *BoltDBConfig, client *bolt.DB) LoanStorage {
	return &boltLoanStorage{
		logger: logger,
		client: client,
		config: boltConfig,
	}
}

func (ls *boltLoanStorage) bucket(tx *bolt.Tx) *bolt.Bucket {
	return tx.Bucket([]byte(ls.config.LoansBucket))
}

// Add inserts a new loan record into boltdb store. Records replicated
// from the primary store keep their already assigned id, otherwise the
// bucket sequence provides one.
func (ls *boltLoanStorage) Add(_ context.Context, loan Loan) (Loan, error) {
	err := ls.client.Update(func(tx *bolt.Tx) error {
		b := ls.bucket(tx)
		if loan.ID == 0 {
			seq, errS := b.NextSequence()
			if errS != nil {
				return errS
			}
			loan.ID = int64(seq)
		}
		if !loan.IsReturned() {
			if active, errA := activeLoanExists(b, loan.BookID); errA != nil {
				return errA
			} else if active {
				return ErrBookAlreadyLoaned
			}
		}
		loanBytes, errM := json.Marshal(loan)
		if errM != nil {
			return errM
		}
		return b.Put([]byte(formatID(loan.ID)), loanBytes)
	})
	return loan, err
}

// activeLoanExists scans the bucket for an unreturned loan on the book.
func activeLoanExists(b *bolt.Bucket, bookID int64) (bool, error) {
	c := b.Cursor()
	for k, v := c.First(); k != nil; k, v = c.Next() {
		var loan Loan
		if err := json.Unmarshal(v, &loan); err != nil {
			return false, err
		}
		if loan.BookID == bookID && !loan.IsReturned() {
			return true, nil
		}
	}
	return false, nil
}

// GetOne retrieves a loan record based on its ID from boltdb store.
func (ls *boltLoanStorage) GetOne(_ context.Context, id int64) (Loan, bool, error) {
	var loan Loan
	// initialize a readable transaction.
	tx, err := ls.client.Begin(false)
	if err != nil {
		return loan, false, err
	}
	defer tx.Rollback()

	result := ls.bucket(tx).Get([]byte(formatID(id)))
	if result == nil {
		return loan, false, nil
	}
	err = json.Unmarshal(result, &loan)
	return loan, err == nil, err
}

// ExistsActiveByBook reports whether an unreturned loan references the book.
func (ls *boltLoanStorage) ExistsActiveByBook(_ context.Context, bookID int64) (bool, error) {
	var active bool
	err := ls.client.View(func(tx *bolt.Tx) error {
		var errA error
		active, errA = activeLoanExists(ls.bucket(tx), bookID)
		return errA
	})
	return active, err
}

// Update replaces existing loan record data or inserts the loan if it
// does not exist, so replication replays stay idempotent.
func (ls *boltLoanStorage) Update(_ context.Context, loan Loan) (Loan, error) {
	loanBytes, err := json.Marshal(loan)
	if err != nil {
		return loan, err
	}
	err = ls.client.Update(func(tx *bolt.Tx) error {
		return ls.bucket(tx).Put([]byte(formatID(loan.ID)), loanBytes)
	})
	return loan, err
}

// Find retrieves one page of loans matching the filter along with the
// total number of matches.
func (ls *boltLoanStorage) Find(ctx context.Context, filter LoanFilter, page PageRequest) ([]Loan, int64, error) {
	matches, err := ls.findMatching(ctx, filter.Matches)
	if err != nil {
		return nil, 0, err
	}
	lo, hi := page.Normalize().Slice(len(matches))
	return matches[lo:hi], int64(len(matches)), nil
}

// FindByBook retrieves one page of all loans, active and returned,
// referencing the given book.
func (ls *boltLoanStorage) FindByBook(ctx context.Context, bookID int64, page PageRequest) ([]Loan, int64, error) {
	matches, err := ls.findMatching(ctx, func(l Loan) bool { return l.BookID == bookID })
	if err != nil {
		return nil, 0, err
	}
	lo, hi := page.Normalize().Slice(len(matches))
	return matches[lo:hi], int64(len(matches)), nil
}

// FindOverdue retrieves all loans late relative to the given day.
func (ls *boltLoanStorage) FindOverdue(ctx context.Context, day time.Time) ([]Loan, error) {
	return ls.findMatching(ctx, func(l Loan) bool { return l.IsOverdueAt(day) })
}

// findMatching returns all loans satisfying the predicate, ordered by id.
func (ls *boltLoanStorage) findMatching(_ context.Context, match func(Loan) bool) ([]Loan, error) {
	tx, err := ls.client.Begin(false)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	c := ls.bucket(tx).Cursor()
	matches := []Loan{}
	for k, v := c.First(); k != nil; k, v = c.Next() {
		var loan Loan
		if err = json.Unmarshal(v, &loan); err != nil {
			return nil, err
		}
		if match(loan) {
			matches = append(matches, loan)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	return matches, nil
}
