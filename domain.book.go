package main

import (
	"context"
	"strings"
)

// Book represents a library book entity. The ID is assigned by the
// storage at creation time and is immutable afterwards. The ISBN is
// the book natural key and must be unique across all books.
type Book struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
}

// BookFilter carries optional search criteria over books. Empty fields
// are not constrained, non-empty fields must all match their book field
// as a case-insensitive substring.
type BookFilter struct {
	Title  string
	Author string
	ISBN   string
}

// predicates builds the list of field-level matching functions,
// one per non-empty criterion of the filter.
func (f BookFilter) predicates() []func(Book) bool {
	var preds []func(Book) bool
	if f.Title != "" {
		preds = append(preds, func(b Book) bool { return containsFold(b.Title, f.Title) })
	}
	if f.Author != "" {
		preds = append(preds, func(b Book) bool { return containsFold(b.Author, f.Author) })
	}
	if f.ISBN != "" {
		preds = append(preds, func(b Book) bool { return containsFold(b.ISBN, f.ISBN) })
	}
	return preds
}

// Matches reports whether the book satisfies every non-empty criterion.
// An empty filter matches any book.
func (f BookFilter) Matches(b Book) bool {
	for _, pred := range f.predicates() {
		if !pred(b) {
			return false
		}
	}
	return true
}

// containsFold reports whether substr occurs inside s, ignoring case.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// BookStorage defines possible operations on book records. Lookups
// signal absence through their boolean result, never with an error.
type BookStorage interface {
	Add(ctx context.Context, book Book) (Book, error)
	GetOne(ctx context.Context, id int64) (Book, bool, error)
	GetByISBN(ctx context.Context, isbn string) (Book, bool, error)
	ExistsByISBN(ctx context.Context, isbn string) (bool, error)
	Update(ctx context.Context, book Book) (Book, error)
	Delete(ctx context.Context, id int64) error
	Find(ctx context.Context, filter BookFilter, page PageRequest) ([]Book, int64, error)
}
