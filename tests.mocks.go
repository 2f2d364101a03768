package main

import (
	"context"
	"time"
)

// This file contains mocks definitions needed to perform unit tests.

type MockBookStorage struct {
	AddFunc          func(ctx context.Context, book Book) (Book, error)
	GetOneFunc       func(ctx context.Context, id int64) (Book, bool, error)
	GetByISBNFunc    func(ctx context.Context, isbn string) (Book, bool, error)
	ExistsByISBNFunc func(ctx context.Context, isbn string) (bool, error)
	UpdateFunc       func(ctx context.Context, book Book) (Book, error)
	DeleteFunc       func(ctx context.Context, id int64) error
	FindFunc         func(ctx context.Context, filter BookFilter, page PageRequest) ([]Book, int64, error)
}

func (m *MockBookStorage) Add(ctx context.Context, book Book) (Book, error) {
	return m.AddFunc(ctx, book)
}

func (m *MockBookStorage) GetOne(ctx context.Context, id int64) (Book, bool, error) {
	return m.GetOneFunc(ctx, id)
}

func (m *MockBookStorage) GetByISBN(ctx context.Context, isbn string) (Book, bool, error) {
	return m.GetByISBNFunc(ctx, isbn)
}

func (m *MockBookStorage) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	return m.ExistsByISBNFunc(ctx, isbn)
}

func (m *MockBookStorage) Update(ctx context.Context, book Book) (Book, error) {
	return m.UpdateFunc(ctx, book)
}

func (m *MockBookStorage) Delete(ctx context.Context, id int64) error {
	return m.DeleteFunc(ctx, id)
}

func (m *MockBookStorage) Find(ctx context.Context, filter BookFilter, page PageRequest) ([]Book, int64, error) {
	return m.FindFunc(ctx, filter, page)
}

type MockLoanStorage struct {
	AddFunc                func(ctx context.Context, loan Loan) (Loan, error)
	GetOneFunc             func(ctx context.Context, id int64) (Loan, bool, error)
	ExistsActiveByBookFunc func(ctx context.Context, bookID int64) (bool, error)
	UpdateFunc             func(ctx context.Context, loan Loan) (Loan, error)
	FindFunc               func(ctx context.Context, filter LoanFilter, page PageRequest) ([]Loan, int64, error)
	FindByBookFunc         func(ctx context.Context, bookID int64, page PageRequest) ([]Loan, int64, error)
	FindOverdueFunc        func(ctx context.Context, day time.Time) ([]Loan, error)
}

func (m *MockLoanStorage) Add(ctx context.Context, loan Loan) (Loan, error) {
	return m.AddFunc(ctx, loan)
}

func (m *MockLoanStorage) GetOne(ctx context.Context, id int64) (Loan, bool, error) {
	return m.GetOneFunc(ctx, id)
}

func (m *MockLoanStorage) ExistsActiveByBook(ctx context.Context, bookID int64) (bool, error) {
	return m.ExistsActiveByBookFunc(ctx, bookID)
}

func (m *MockLoanStorage) Update(ctx context.Context, loan Loan) (Loan, error) {
	return m.UpdateFunc(ctx, loan)
}

func (m *MockLoanStorage) Find(ctx context.Context, filter LoanFilter, page PageRequest) ([]Loan, int64, error) {
	return m.FindFunc(ctx, filter, page)
}

func (m *MockLoanStorage) FindByBook(ctx context.Context, bookID int64, page PageRequest) ([]Loan, int64, error) {
	return m.FindByBookFunc(ctx, bookID, page)
}

func (m *MockLoanStorage) FindOverdue(ctx context.Context, day time.Time) ([]Loan, error) {
	return m.FindOverdueFunc(ctx, day)
}

// MockQueuer implements a fake Queuer recording pushed records.
type MockQueuer struct {
	PushFunc func(ctx context.Context, qid string, record interface{}) error
	PopFunc  func(ctx context.Context, qids ...string) (string, []byte, error)
	Pushed   []string
}

func NewMockQueuer() *MockQueuer {
	m := &MockQueuer{}
	m.PushFunc = func(_ context.Context, qid string, _ interface{}) error {
		m.Pushed = append(m.Pushed, qid)
		return nil
	}
	return m
}

func (m *MockQueuer) Push(ctx context.Context, qid string, record interface{}) error {
	return m.PushFunc(ctx, qid, record)
}

func (m *MockQueuer) Pop(ctx context.Context, qids ...string) (string, []byte, error) {
	return m.PopFunc(ctx, qids...)
}

// MockClocker implements a fake TickerClocker.
type MockClocker struct {
	MockNow time.Time
}

// NewMockClocker returns a mocked instance with fixed time.
func NewMockClocker() *MockClocker {
	return &MockClocker{time.Date(2023, 0o7, 0o2, 0o0, 0o0, 0o0, 0o00000000, time.UTC)}
}

// Now returns an already defined time to be used as mock. This
// equals to `Sun, 02 Jul 2023 00:00:00 UTC` in time.RFC1123 format.
// equals to `2023-07-02 00:00:00 +0000 UTC` in String format.
func (mck *MockClocker) Now() time.Time {
	return mck.MockNow
}

// NewTicker provides a real ticker firing at the given period.
func (mck *MockClocker) NewTicker(d time.Duration) *time.Ticker {
	return time.NewTicker(d)
}

// MockUIDHandler implements a fake UIDHandler.
type MockUIDHandler struct {
	MockedUID string
}

// NewMockUIDHandler returns a mocked instance with predictable id.
func NewMockUIDHandler(id string) *MockUIDHandler {
	return &MockUIDHandler{MockedUID: id}
}

// Generate constructs a predictable id to be used as mock.
func (muid *MockUIDHandler) Generate(prefix string) string {
	return prefix + ":" + muid.MockedUID
}
