package main

import (
	"context"
	"time"
)

// OverdueLoanDays is the number of days after which an unreturned
// loan becomes late.
const OverdueLoanDays = 4

// DateLayout is the wire and storage format of loan dates.
const DateLayout = "2006-01-02"

// Loan represents the lending of a book to a customer. The book isbn
// is denormalized at creation time so loans can be searched by isbn
// without a lookup on the books records. The isbn never changes once
// a book exists so both copies stay consistent.
type Loan struct {
	ID       int64  `json:"id"`
	BookID   int64  `json:"bookId"`
	BookISBN string `json:"bookIsbn"`
	Customer string `json:"customer"`
	LoanDate string `json:"loanDate"`
	Returned *bool  `json:"returned"`
}

// IsReturned reports whether the loan was flagged as returned.
// A nil flag means the loan is still outstanding.
func (l Loan) IsReturned() bool {
	return l.Returned != nil && *l.Returned
}

// IsOverdueAt reports whether the loan is late relative to the given
// day: still outstanding with a loan date strictly earlier than the
// day minus the grace period.
func (l Loan) IsOverdueAt(day time.Time) bool {
	if l.IsReturned() {
		return false
	}
	loanDate, err := time.Parse(DateLayout, l.LoanDate)
	if err != nil {
		return false
	}
	c := day.AddDate(0, 0, -OverdueLoanDays)
	cutoff := time.Date(c.Year(), c.Month(), c.Day(), 0, 0, 0, 0, time.UTC)
	return loanDate.Before(cutoff)
}

// LoanFilter carries alternative search criteria over loans. A loan
// matches when its book isbn equals ISBN or its customer equals
// Customer. An empty criterion never matches.
type LoanFilter struct {
	ISBN     string
	Customer string
}

// Matches reports whether the loan satisfies at least one criterion.
func (f LoanFilter) Matches(l Loan) bool {
	if f.ISBN != "" && l.BookISBN == f.ISBN {
		return true
	}
	if f.Customer != "" && l.Customer == f.Customer {
		return true
	}
	return false
}

// LoanStorage defines possible operations on loan records.
type LoanStorage interface {
	Add(ctx context.Context, loan Loan) (Loan, error)
	GetOne(ctx context.Context, id int64) (Loan, bool, error)
	ExistsActiveByBook(ctx context.Context, bookID int64) (bool, error)
	Update(ctx context.Context, loan Loan) (Loan, error)
	Find(ctx context.Context, filter LoanFilter, page PageRequest) ([]Loan, int64, error)
	FindByBook(ctx context.Context, bookID int64, page PageRequest) ([]Loan, int64, error)
	FindOverdue(ctx context.Context, day time.Time) ([]Loan, error)
}
