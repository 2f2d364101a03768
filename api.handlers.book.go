package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// CreateBook godoc
// @Summary Register a new book
// @Tags books
// @Accept json
// @Produce json
// @Param book body BookDTO true "book to register"
// @Success 201 {object} BookDTO
// @Failure 400 {object} APIErrors
// @Router /api/books [post]
func (api *APIHandler) CreateBook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	dto := BookDTO{}
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	if err := DecodeRequestBody(r, &dto); err != nil {
		api.logger.Error("failed to create book", zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrors(w, http.StatusBadRequest, "failed to decode the request body"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	if messages := api.validator.Check(dto); messages != nil {
		api.logger.Error("failed to create book", zap.String("request.id", requestID), zap.Strings("violations", messages))
		if err := WriteErrors(w, http.StatusBadRequest, messages...); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	// The id always comes from storage, whatever the client sent.
	book := Book{Title: dto.Title, Author: dto.Author, ISBN: dto.ISBN}
	book, err := api.bookService.Save(r.Context(), book)
	if IsBusinessError(err) {
		api.logger.Error("failed to create book", zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrors(w, http.StatusBadRequest, err.Error()); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err != nil {
		api.logger.Error("failed to create book", zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrors(w, http.StatusInternalServerError, "failed to create the book"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to create book", zap.Int64("book.id", book.ID), zap.String("request.id", requestID))
	if err = WriteJSON(w, http.StatusCreated, ToBookDTO(book)); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetOneBook godoc
// @Summary Fetch a book by its id
// @Tags books
// @Produce json
// @Param id path int true "book id"
// @Success 200 {object} BookDTO
// @Failure 404
// @Router /api/books/{id} [get]
func (api *APIHandler) GetOneBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	id, err := ParseID(ps.ByName("id"))
	if err != nil {
		api.logger.Error("book id provided is not valid", zap.String("book.id", ps.ByName("id")), zap.String("request.id", requestID))
		if err = WriteErrors(w, http.StatusBadRequest, "book id provided is not valid"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	book, found, err := api.bookService.GetByID(r.Context(), id)
	if err != nil {
		api.logger.Error("failed to get book", zap.Int64("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrors(w, http.StatusInternalServerError, "failed to get the book"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if !found {
		api.logger.Info("book does not exist", zap.Int64("book.id", id), zap.String("request.id", requestID))
		WriteNotFound(w)
		return
	}
	if err = WriteJSON(w, http.StatusOK, ToBookDTO(book)); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// FindBooks godoc
// @Summary Search books by optional criteria
// @Tags books
// @Produce json
// @Param title query string false "title substring"
// @Param author query string false "author substring"
// @Param isbn query string false "isbn substring"
// @Param page query int false "zero-based page number"
// @Param size query int false "page size"
// @Success 200 {object} PageDTO
// @Router /api/books [get]
func (api *APIHandler) FindBooks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	q := r.URL.Query()
	filter := BookFilter{
		Title:  q.Get("title"),
		Author: q.Get("author"),
		ISBN:   q.Get("isbn"),
	}
	page := ParsePageRequest(q)

	books, total, err := api.bookService.Find(r.Context(), filter, page)
	if err != nil {
		api.logger.Error("failed to find books", zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrors(w, http.StatusInternalServerError, "failed to find books"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err = WriteJSON(w, http.StatusOK, NewPageDTO(ToBookDTOs(books), total, page)); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// UpdateBook godoc
// @Summary Update the title and author of a book
// @Tags books
// @Accept json
// @Produce json
// @Param id path int true "book id"
// @Param book body BookDTO true "new book data"
// @Success 200 {object} BookDTO
// @Failure 404
// @Router /api/books/{id} [put]
func (api *APIHandler) UpdateBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	id, err := ParseID(ps.ByName("id"))
	if err != nil {
		api.logger.Error("book id provided is not valid", zap.String("book.id", ps.ByName("id")), zap.String("request.id", requestID))
		if err = WriteErrors(w, http.StatusBadRequest, "book id provided is not valid"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	book, found, err := api.bookService.GetByID(r.Context(), id)
	if err != nil {
		api.logger.Error("failed to get book", zap.Int64("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrors(w, http.StatusInternalServerError, "failed to update the book"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if !found {
		api.logger.Info("book does not exist", zap.Int64("book.id", id), zap.String("request.id", requestID))
		WriteNotFound(w)
		return
	}

	dto := BookDTO{}
	if err = DecodeRequestBody(r, &dto); err != nil {
		api.logger.Error("failed to update book", zap.Int64("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrors(w, http.StatusBadRequest, "failed to decode the request body"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	// Only the title and author are updatable. The isbn identifies the
	// book to the outside world and never changes.
	book.Title = dto.Title
	book.Author = dto.Author
	book, err = api.bookService.Update(r.Context(), book)
	if err != nil {
		api.logger.Error("failed to update book", zap.Int64("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrors(w, http.StatusInternalServerError, "failed to update the book"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to update book", zap.Int64("book.id", book.ID), zap.String("request.id", requestID))
	if err = WriteJSON(w, http.StatusOK, ToBookDTO(book)); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// DeleteOneBook godoc
// @Summary Remove a book
// @Tags books
// @Param id path int true "book id"
// @Success 204
// @Failure 404
// @Router /api/books/{id} [delete]
func (api *APIHandler) DeleteOneBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	id, err := ParseID(ps.ByName("id"))
	if err != nil {
		api.logger.Error("book id provided is not valid", zap.String("book.id", ps.ByName("id")), zap.String("request.id", requestID))
		if err = WriteErrors(w, http.StatusBadRequest, "book id provided is not valid"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	_, found, err := api.bookService.GetByID(r.Context(), id)
	if err != nil {
		api.logger.Error("failed to check if the book exist", zap.Int64("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrors(w, http.StatusInternalServerError, "failed to delete the book"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if !found {
		api.logger.Info("book does not exist", zap.Int64("book.id", id), zap.String("request.id", requestID))
		WriteNotFound(w)
		return
	}

	if err = api.bookService.Delete(r.Context(), id); err != nil {
		api.logger.Error("failed to delete book", zap.Int64("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrors(w, http.StatusInternalServerError, "failed to delete the book"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to delete book", zap.Int64("book.id", id), zap.String("request.id", requestID))
	w.WriteHeader(http.StatusNoContent)
}

// GetBookLoans godoc
// @Summary Fetch the loans history of a book
// @Tags books
// @Produce json
// @Param id path int true "book id"
// @Param page query int false "zero-based page number"
// @Param size query int false "page size"
// @Success 200 {object} PageDTO
// @Failure 404
// @Router /api/books/{id}/loans [get]
func (api *APIHandler) GetBookLoans(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	id, err := ParseID(ps.ByName("id"))
	if err != nil {
		api.logger.Error("book id provided is not valid", zap.String("book.id", ps.ByName("id")), zap.String("request.id", requestID))
		if err = WriteErrors(w, http.StatusBadRequest, "book id provided is not valid"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	book, found, err := api.bookService.GetByID(r.Context(), id)
	if err != nil {
		api.logger.Error("failed to get book", zap.Int64("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrors(w, http.StatusInternalServerError, "failed to get the book loans"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if !found {
		api.logger.Info("book does not exist", zap.Int64("book.id", id), zap.String("request.id", requestID))
		WriteNotFound(w)
		return
	}

	page := ParsePageRequest(r.URL.Query())
	loans, total, err := api.loanService.GetLoansByBook(r.Context(), book, page)
	if err != nil {
		api.logger.Error("failed to get book loans", zap.Int64("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrors(w, http.StatusInternalServerError, "failed to get the book loans"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	bookDTO := ToBookDTO(book)
	dtos := make([]LoanDTO, 0, len(loans))
	for _, loan := range loans {
		dtos = append(dtos, ToLoanDTO(loan, &bookDTO))
	}
	if err = WriteJSON(w, http.StatusOK, NewPageDTO(dtos, total, page)); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}
