package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// CreateLoan godoc
// @Summary Lend a book to a customer
// @Tags loans
// @Accept json
// @Produce json
// @Param loan body LoanDTO true "loan to register, only isbn and customer are read"
// @Success 201 {integer} int64
// @Failure 400 {object} APIErrors
// @Router /api/loans [post]
func (api *APIHandler) CreateLoan(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	dto := LoanDTO{}
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	if err := DecodeRequestBody(r, &dto); err != nil {
		api.logger.Error("failed to create loan", zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrors(w, http.StatusBadRequest, "failed to decode the request body"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	book, found, err := api.bookService.GetByISBN(r.Context(), dto.ISBN)
	if err != nil {
		api.logger.Error("failed to get book by isbn", zap.String("book.isbn", dto.ISBN), zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrors(w, http.StatusInternalServerError, "failed to create the loan"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if !found {
		api.logger.Info("book does not exist for isbn", zap.String("book.isbn", dto.ISBN), zap.String("request.id", requestID))
		if err = WriteErrors(w, http.StatusBadRequest, ErrBookNotFoundISBN.Error()); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	loan := Loan{
		BookID:   book.ID,
		BookISBN: book.ISBN,
		Customer: dto.Customer,
		LoanDate: api.clock.Now().Format(DateLayout),
	}
	loan, err = api.loanService.Save(r.Context(), loan)
	if IsBusinessError(err) {
		api.logger.Error("failed to create loan", zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrors(w, http.StatusBadRequest, err.Error()); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err != nil {
		api.logger.Error("failed to create loan", zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrors(w, http.StatusInternalServerError, "failed to create the loan"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to create loan", zap.Int64("loan.id", loan.ID), zap.String("request.id", requestID))
	// The creation response body is the bare loan id.
	if err = WriteJSON(w, http.StatusCreated, loan.ID); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// ReturnLoan godoc
// @Summary Flag a loan as returned or not
// @Tags loans
// @Accept json
// @Param id path int true "loan id"
// @Param loan body ReturnedLoanDTO true "returned flag"
// @Success 200
// @Failure 404
// @Router /api/loans/{id} [patch]
func (api *APIHandler) ReturnLoan(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	id, err := ParseID(ps.ByName("id"))
	if err != nil {
		api.logger.Error("loan id provided is not valid", zap.String("loan.id", ps.ByName("id")), zap.String("request.id", requestID))
		if err = WriteErrors(w, http.StatusBadRequest, "loan id provided is not valid"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	loan, found, err := api.loanService.GetByID(r.Context(), id)
	if err != nil {
		api.logger.Error("failed to get loan", zap.Int64("loan.id", id), zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrors(w, http.StatusInternalServerError, "failed to update the loan"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if !found {
		api.logger.Info("loan does not exist", zap.Int64("loan.id", id), zap.String("request.id", requestID))
		WriteNotFound(w)
		return
	}

	dto := ReturnedLoanDTO{}
	if err = DecodeRequestBody(r, &dto); err != nil {
		api.logger.Error("failed to update loan", zap.Int64("loan.id", id), zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrors(w, http.StatusBadRequest, "failed to decode the request body"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	loan.Returned = dto.Returned
	if _, err = api.loanService.Update(r.Context(), loan); err != nil {
		api.logger.Error("failed to update loan", zap.Int64("loan.id", id), zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrors(w, http.StatusInternalServerError, "failed to update the loan"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to update loan", zap.Int64("loan.id", id), zap.String("request.id", requestID))
	w.WriteHeader(http.StatusOK)
}

// FindLoans godoc
// @Summary Search loans by isbn or customer
// @Tags loans
// @Produce json
// @Param isbn query string false "exact book isbn"
// @Param customer query string false "exact customer name"
// @Param page query int false "zero-based page number"
// @Param size query int false "page size"
// @Success 200 {object} PageDTO
// @Router /api/loans [get]
func (api *APIHandler) FindLoans(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	q := r.URL.Query()
	filter := LoanFilter{
		ISBN:     q.Get("isbn"),
		Customer: q.Get("customer"),
	}
	page := ParsePageRequest(q)

	loans, total, err := api.loanService.Find(r.Context(), filter, page)
	if err != nil {
		api.logger.Error("failed to find loans", zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrors(w, http.StatusInternalServerError, "failed to find loans"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	dtos := make([]LoanDTO, 0, len(loans))
	for _, loan := range loans {
		var bookDTO *BookDTO
		book, found, errB := api.bookService.GetByID(r.Context(), loan.BookID)
		if errB != nil {
			api.logger.Error("failed to expand loan book", zap.Int64("loan.id", loan.ID), zap.String("request.id", requestID), zap.Error(errB))
		}
		if errB == nil && found {
			dto := ToBookDTO(book)
			bookDTO = &dto
		}
		dtos = append(dtos, ToLoanDTO(loan, bookDTO))
	}
	if err = WriteJSON(w, http.StatusOK, NewPageDTO(dtos, total, page)); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}
