package main

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func startRedisDockerContainer(t *testing.T) (string, func()) {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("Failed to start Dockertest: %+v", err)
	}

	err = pool.Client.Ping()
	if err != nil {
		t.Fatalf("Could not connect to Docker: %+v", err)
	}

	resource, err := pool.Run("redis", "7.0.10-alpine", nil)
	if err != nil {
		t.Fatalf("Failed to start redis: %+v", err)
	}

	// build address the container is listening on
	addr := net.JoinHostPort("localhost", resource.GetPort("6379/tcp"))

	// ensure to wait for the container to be ready
	err = pool.Retry(func() error {
		var e error
		client := redis.NewClient(&redis.Options{Addr: addr})
		defer client.Close()

		e = client.Ping(context.Background()).Err()
		return e
	})

	if err != nil {
		t.Fatalf("Failed to ping Redis: %+v", err)
	}

	destroyFunc := func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("Failed to purge resource: %+v", err)
		}
	}

	return addr, destroyFunc
}

func TestRedisBookStorage(t *testing.T) {
	addr, destroyFunc := startRedisDockerContainer(t)
	defer destroyFunc()
	rs := NewRedisBookStorage(zap.NewNop(), redis.NewClient(&redis.Options{Addr: addr}))

	var testBook Book

	t.Run("Add Book", func(t *testing.T) {
		// ensures we can insert new book record and get an id back.
		book, err := rs.Add(context.Background(), Book{Title: "Redis test book title", Author: "Jerome Amon", ISBN: "123"})
		assert.NoError(t, err)
		assert.NotZero(t, book.ID)
		testBook = book
	})

	t.Run("Add Book With Taken ISBN", func(t *testing.T) {
		// ensures isbn uniqueness is enforced at insertion.
		_, err := rs.Add(context.Background(), Book{Title: "Another title", Author: "Someone", ISBN: "123"})
		assert.ErrorIs(t, err, ErrISBNAlreadyExists)
	})

	t.Run("Get Existent Book", func(t *testing.T) {
		// ensures we can fetch specific book.
		book, found, err := rs.GetOne(context.Background(), testBook.ID)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, testBook, book)
	})

	t.Run("Get NonExistent Book", func(t *testing.T) {
		// ensures fetching non-existent book reports absence without error.
		book, found, err := rs.GetOne(context.Background(), 999)
		assert.NoError(t, err)
		assert.False(t, found)
		assert.Equal(t, Book{}, book)
	})

	t.Run("Get Book By ISBN", func(t *testing.T) {
		book, found, err := rs.GetByISBN(context.Background(), "123")
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, testBook, book)

		_, found, err = rs.GetByISBN(context.Background(), "999")
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Update Existent Book", func(t *testing.T) {
		// ensures we can update an existent book record.
		testBook.Title = "Updated title"
		book, err := rs.Update(context.Background(), testBook)
		assert.NoError(t, err)
		assert.Equal(t, testBook, book)

		book, found, err := rs.GetOne(context.Background(), testBook.ID)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "Updated title", book.Title)
	})

	t.Run("Find Books", func(t *testing.T) {
		// ensures search combines criteria as case-insensitive substrings.
		books, total, err := rs.Find(context.Background(), BookFilter{Title: "updated"}, PageRequest{Page: 0, Size: 10})
		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, books, 1)

		_, total, err = rs.Find(context.Background(), BookFilter{Title: "nowhere"}, PageRequest{Page: 0, Size: 10})
		assert.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("Delete Existent Book", func(t *testing.T) {
		// ensures deleting existent book succeed and frees its isbn.
		err := rs.Delete(context.Background(), testBook.ID)
		assert.NoError(t, err)

		_, found, err := rs.GetOne(context.Background(), testBook.ID)
		assert.NoError(t, err)
		assert.False(t, found)

		exists, err := rs.ExistsByISBN(context.Background(), "123")
		assert.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Delete NonExistent Book", func(t *testing.T) {
		// ensures deleting non existent book stays silent.
		err := rs.Delete(context.Background(), 999)
		assert.NoError(t, err)
	})
}

func TestRedisLoanStorage(t *testing.T) {
	addr, destroyFunc := startRedisDockerContainer(t)
	defer destroyFunc()
	rs := NewRedisLoanStorage(zap.NewNop(), redis.NewClient(&redis.Options{Addr: addr}))

	var testLoan Loan

	t.Run("Add Loan", func(t *testing.T) {
		loan, err := rs.Add(context.Background(), Loan{BookID: 11, BookISBN: "123", Customer: "Fulano", LoanDate: "2023-07-02"})
		assert.NoError(t, err)
		assert.NotZero(t, loan.ID)
		testLoan = loan
	})

	t.Run("Add Loan On Loaned Book", func(t *testing.T) {
		// ensures one active loan per book is enforced at insertion.
		_, err := rs.Add(context.Background(), Loan{BookID: 11, BookISBN: "123", Customer: "Beltrano", LoanDate: "2023-07-03"})
		assert.ErrorIs(t, err, ErrBookAlreadyLoaned)

		active, err := rs.ExistsActiveByBook(context.Background(), 11)
		assert.NoError(t, err)
		assert.True(t, active)
	})

	t.Run("Return Loan Frees The Book", func(t *testing.T) {
		returned := true
		testLoan.Returned = &returned
		_, err := rs.Update(context.Background(), testLoan)
		assert.NoError(t, err)

		active, err := rs.ExistsActiveByBook(context.Background(), 11)
		assert.NoError(t, err)
		assert.False(t, active)

		_, err = rs.Add(context.Background(), Loan{BookID: 11, BookISBN: "123", Customer: "Beltrano", LoanDate: "2023-07-04"})
		assert.NoError(t, err)
	})

	t.Run("Find Loans", func(t *testing.T) {
		loans, total, err := rs.Find(context.Background(), LoanFilter{ISBN: "123"}, PageRequest{Page: 0, Size: 10})
		assert.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, loans, 2)

		_, total, err = rs.Find(context.Background(), LoanFilter{}, PageRequest{Page: 0, Size: 10})
		assert.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("Find Loans By Book", func(t *testing.T) {
		loans, total, err := rs.FindByBook(context.Background(), 11, PageRequest{Page: 0, Size: 10})
		assert.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, loans, 2)
	})

	t.Run("Find Overdue Loans", func(t *testing.T) {
		day := time.Date(2023, 7, 10, 0, 0, 0, 0, time.UTC)
		loans, err := rs.FindOverdue(context.Background(), day)
		assert.NoError(t, err)
		// only the unreturned 2023-07-04 loan is late.
		assert.Len(t, loans, 1)
		assert.Equal(t, "2023-07-04", loans[0].LoanDate)
	})
}
