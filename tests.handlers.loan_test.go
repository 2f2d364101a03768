package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// TestCreateLoanHandler ensures a loan creation resolves the book by
// isbn, rejects unknown books and double loans, and answers with the
// bare loan id.
func TestCreateLoanHandler(t *testing.T) {
	mockBooks := &MockBookStorage{
		GetByISBNFunc: func(ctx context.Context, isbn string) (Book, bool, error) {
			if isbn == "123" {
				return Book{ID: 11, Title: "As aventuras", Author: "Fulano", ISBN: "123"}, true, nil
			}
			return Book{}, false, nil
		},
	}
	bs := NewBookService(zap.NewNop(), mockBooks, NewMockQueuer())

	t.Run("should pass: book is free", func(t *testing.T) {
		var added Loan
		mockLoans := &MockLoanStorage{
			ExistsActiveByBookFunc: func(ctx context.Context, bookID int64) (bool, error) {
				return false, nil
			},
			AddFunc: func(ctx context.Context, loan Loan) (Loan, error) {
				loan.ID = 3
				added = loan
				return loan, nil
			},
		}
		ls := NewLoanService(zap.NewNop(), NewMockClocker(), mockLoans, NewMockQueuer())
		api := newTestAPIHandler(bs, ls)

		payload := []byte(`{"isbn":"123", "customer":"Fulano"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/loans", bytes.NewBuffer(payload))
		w := httptest.NewRecorder()
		api.CreateLoan(w, req, httprouter.Params{})
		res := w.Result()
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, res.StatusCode)
		assert.Equal(t, "3", strings.TrimSpace(string(data)))

		assert.Equal(t, int64(11), added.BookID)
		assert.Equal(t, "123", added.BookISBN)
		assert.Equal(t, "Fulano", added.Customer)
		assert.Equal(t, "2023-07-02", added.LoanDate)
	})

	t.Run("should fail: unknown isbn", func(t *testing.T) {
		api := newTestAPIHandler(bs, nil)
		payload := []byte(`{"isbn":"999", "customer":"Fulano"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/loans", bytes.NewBuffer(payload))
		w := httptest.NewRecorder()
		api.CreateLoan(w, req, httprouter.Params{})
		res := w.Result()
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.JSONEq(t, `{"errors":["Book not found for passed isbn"]}`, string(data))
	})

	t.Run("should fail: book already loaned", func(t *testing.T) {
		mockLoans := &MockLoanStorage{
			ExistsActiveByBookFunc: func(ctx context.Context, bookID int64) (bool, error) {
				return true, nil
			},
		}
		ls := NewLoanService(zap.NewNop(), NewMockClocker(), mockLoans, NewMockQueuer())
		api := newTestAPIHandler(bs, ls)

		payload := []byte(`{"isbn":"123", "customer":"Fulano"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/loans", bytes.NewBuffer(payload))
		w := httptest.NewRecorder()
		api.CreateLoan(w, req, httprouter.Params{})
		res := w.Result()
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.JSONEq(t, `{"errors":["Book already loaned"]}`, string(data))
	})
}

// TestReturnLoanHandler ensures the returned flag is applied and the
// response carries no body.
func TestReturnLoanHandler(t *testing.T) {
	var updated Loan
	mockLoans := &MockLoanStorage{
		GetOneFunc: func(ctx context.Context, id int64) (Loan, bool, error) {
			if id == 3 {
				return Loan{ID: 3, BookID: 11, BookISBN: "123", Customer: "Fulano", LoanDate: "2023-07-02"}, true, nil
			}
			return Loan{}, false, nil
		},
		UpdateFunc: func(ctx context.Context, loan Loan) (Loan, error) {
			updated = loan
			return loan, nil
		},
	}
	ls := NewLoanService(zap.NewNop(), NewMockClocker(), mockLoans, NewMockQueuer())
	api := newTestAPIHandler(nil, ls)

	t.Run("should pass: flag as returned", func(t *testing.T) {
		payload := []byte(`{"returned":true}`)
		req := httptest.NewRequest(http.MethodPatch, "/api/loans/3", bytes.NewBuffer(payload))
		w := httptest.NewRecorder()
		api.ReturnLoan(w, req, httprouter.Params{{Key: "id", Value: "3"}})
		res := w.Result()
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Empty(t, data)
		assert.NotNil(t, updated.Returned)
		assert.True(t, *updated.Returned)
	})

	t.Run("should fail: missing loan gives bodyless 404", func(t *testing.T) {
		payload := []byte(`{"returned":true}`)
		req := httptest.NewRequest(http.MethodPatch, "/api/loans/99", bytes.NewBuffer(payload))
		w := httptest.NewRecorder()
		api.ReturnLoan(w, req, httprouter.Params{{Key: "id", Value: "99"}})
		res := w.Result()
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
		assert.Empty(t, data)
	})
}

// TestFindLoansHandler ensures loans search expands the referenced
// book inside the page envelope.
func TestFindLoansHandler(t *testing.T) {
	var gotFilter LoanFilter
	mockLoans := &MockLoanStorage{
		FindFunc: func(ctx context.Context, filter LoanFilter, page PageRequest) ([]Loan, int64, error) {
			gotFilter = filter
			return []Loan{{ID: 3, BookID: 11, BookISBN: "123", Customer: "Fulano", LoanDate: "2023-07-02"}}, 1, nil
		},
	}
	mockBooks := &MockBookStorage{
		GetOneFunc: func(ctx context.Context, id int64) (Book, bool, error) {
			return Book{ID: 11, Title: "As aventuras", Author: "Fulano", ISBN: "123"}, true, nil
		},
	}
	bs := NewBookService(zap.NewNop(), mockBooks, NewMockQueuer())
	ls := NewLoanService(zap.NewNop(), NewMockClocker(), mockLoans, NewMockQueuer())
	api := newTestAPIHandler(bs, ls)

	req := httptest.NewRequest(http.MethodGet, "/api/loans?customer=Fulano", nil)
	w := httptest.NewRecorder()
	api.FindLoans(w, req, httprouter.Params{})
	res := w.Result()
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, LoanFilter{Customer: "Fulano"}, gotFilter)
	expected := `{
		"content":[{
			"id":3, "isbn":"123", "customer":"Fulano", "loanDate":"2023-07-02",
			"book":{"id":11, "title":"As aventuras", "author":"Fulano", "isbn":"123"}
		}],
		"totalElements":1,
		"pageable":{"pageNumber":0, "pageSize":10}
	}`
	assert.JSONEq(t, expected, string(data))
}
