package main

// This file holds the wire representations of the domain entities and
// their explicit field by field conversions. Keeping the mapping by
// hand makes the wire contract auditable: a field travels only when a
// line below copies it.

// BookDTO is the wire representation of a book.
type BookDTO struct {
	ID     int64  `json:"id"`
	Title  string `json:"title" validate:"required"`
	Author string `json:"author" validate:"required"`
	ISBN   string `json:"isbn" validate:"required"`
}

// LoanDTO is the wire representation of a loan. The embedded book is
// expanded on search responses only. On loan creation requests only
// the isbn and customer fields are read.
type LoanDTO struct {
	ID       int64    `json:"id"`
	ISBN     string   `json:"isbn"`
	Customer string   `json:"customer"`
	LoanDate string   `json:"loanDate,omitempty"`
	Returned *bool    `json:"returned,omitempty"`
	Book     *BookDTO `json:"book,omitempty"`
}

// ReturnedLoanDTO is the payload flagging a loan as returned.
type ReturnedLoanDTO struct {
	Returned *bool `json:"returned"`
}

// ToBookDTO converts a book entity to its wire representation.
func ToBookDTO(b Book) BookDTO {
	return BookDTO{
		ID:     b.ID,
		Title:  b.Title,
		Author: b.Author,
		ISBN:   b.ISBN,
	}
}

// ToBookDTOs converts a list of book entities.
func ToBookDTOs(books []Book) []BookDTO {
	dtos := make([]BookDTO, 0, len(books))
	for _, b := range books {
		dtos = append(dtos, ToBookDTO(b))
	}
	return dtos
}

// ToLoanDTO converts a loan entity to its wire representation with an
// optional expanded book.
func ToLoanDTO(l Loan, book *BookDTO) LoanDTO {
	return LoanDTO{
		ID:       l.ID,
		ISBN:     l.BookISBN,
		Customer: l.Customer,
		LoanDate: l.LoanDate,
		Returned: l.Returned,
		Book:     book,
	}
}
