package main

import (
	"context"

	"go.uber.org/zap"
)

type LoanServiceProvider interface {
	Save(ctx context.Context, loan Loan) (Loan, error)
	GetByID(ctx context.Context, id int64) (Loan, bool, error)
	Update(ctx context.Context, loan Loan) (Loan, error)
	Find(ctx context.Context, filter LoanFilter, page PageRequest) ([]Loan, int64, error)
	GetLoansByBook(ctx context.Context, book Book, page PageRequest) ([]Loan, int64, error)
	GetAllLateLoans(ctx context.Context) ([]Loan, error)
}

type LoanService struct {
	logger  *zap.Logger
	clock   Clocker
	storage LoanStorage
	queue   Queuer
}

func NewLoanService(logger *zap.Logger, clock Clocker, storage LoanStorage, queue Queuer) LoanServiceProvider {
	return &LoanService{
		logger:  logger,
		clock:   clock,
		storage: storage,
		queue:   queue,
	}
}

// Save stores a new loan after making sure the book is not already out
// on an unreturned loan. The storage enforces the same rule again at
// insertion time, so a concurrent loan surfaces as the business error
// either way.
func (ls *LoanService) Save(ctx context.Context, loan Loan) (Loan, error) {
	loaned, err := ls.storage.ExistsActiveByBook(ctx, loan.BookID)
	if err != nil {
		return loan, err
	}
	if loaned {
		return loan, ErrBookAlreadyLoaned
	}

	loan, err = ls.storage.Add(ctx, loan)
	if err != nil {
		return loan, err
	}

	if err := ls.queue.Push(ctx, LoanCreateQueue, loan); err != nil {
		ls.logger.Error("service: failed to push loan to queue", zap.String("qid", LoanCreateQueue), zap.Error(err))
	}
	return loan, nil
}

func (ls *LoanService) GetByID(ctx context.Context, id int64) (Loan, bool, error) {
	return ls.storage.GetOne(ctx, id)
}

func (ls *LoanService) Update(ctx context.Context, loan Loan) (Loan, error) {
	if loan.ID == 0 {
		return loan, ErrMissingID
	}

	loan, err := ls.storage.Update(ctx, loan)
	if err != nil {
		return loan, err
	}

	if err := ls.queue.Push(ctx, LoanUpdateQueue, loan); err != nil {
		ls.logger.Error("service: failed to push loan to queue", zap.String("qid", LoanUpdateQueue), zap.Error(err))
	}
	return loan, nil
}

func (ls *LoanService) Find(ctx context.Context, filter LoanFilter, page PageRequest) ([]Loan, int64, error) {
	return ls.storage.Find(ctx, filter, page.Normalize())
}

func (ls *LoanService) GetLoansByBook(ctx context.Context, book Book, page PageRequest) ([]Loan, int64, error) {
	return ls.storage.FindByBook(ctx, book.ID, page.Normalize())
}

// GetAllLateLoans returns every unreturned loan past its return window
// relative to the current day.
func (ls *LoanService) GetAllLateLoans(ctx context.Context) ([]Loan, error) {
	return ls.storage.FindOverdue(ctx, ls.clock.Now())
}
