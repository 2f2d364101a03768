package main

import (
	"context"

	"go.uber.org/zap"
)

type BookServiceProvider interface {
	Save(ctx context.Context, book Book) (Book, error)
	GetByID(ctx context.Context, id int64) (Book, bool, error)
	GetByISBN(ctx context.Context, isbn string) (Book, bool, error)
	Update(ctx context.Context, book Book) (Book, error)
	Delete(ctx context.Context, id int64) error
	Find(ctx context.Context, filter BookFilter, page PageRequest) ([]Book, int64, error)
}

type BookService struct {
	logger  *zap.Logger
	storage BookStorage
	queue   Queuer
}

func NewBookService(logger *zap.Logger, storage BookStorage, queue Queuer) BookServiceProvider {
	return &BookService{
		logger:  logger,
		storage: storage,
		queue:   queue,
	}
}

// Save stores a new book after making sure its isbn is not already in
// use. The storage enforces the same rule again at insertion time, so
// a concurrent duplicate surfaces as the business error either way.
func (bs *BookService) Save(ctx context.Context, book Book) (Book, error) {
	taken, err := bs.storage.ExistsByISBN(ctx, book.ISBN)
	if err != nil {
		return book, err
	}
	if taken {
		return book, ErrISBNAlreadyExists
	}

	book, err = bs.storage.Add(ctx, book)
	if err != nil {
		return book, err
	}

	if err := bs.queue.Push(ctx, BookCreateQueue, book); err != nil {
		bs.logger.Error("service: failed to push book to queue", zap.String("qid", BookCreateQueue), zap.Error(err))
	}
	return book, nil
}

func (bs *BookService) GetByID(ctx context.Context, id int64) (Book, bool, error) {
	return bs.storage.GetOne(ctx, id)
}

func (bs *BookService) GetByISBN(ctx context.Context, isbn string) (Book, bool, error) {
	return bs.storage.GetByISBN(ctx, isbn)
}

// Update replaces the stored book data. The caller must provide a book
// which already went through storage, so a missing id is a programming
// fault rather than a user mistake.
func (bs *BookService) Update(ctx context.Context, book Book) (Book, error) {
	if book.ID == 0 {
		return book, ErrMissingID
	}

	book, err := bs.storage.Update(ctx, book)
	if err != nil {
		return book, err
	}

	if err := bs.queue.Push(ctx, BookUpdateQueue, book); err != nil {
		bs.logger.Error("service: failed to push book to queue", zap.String("qid", BookUpdateQueue), zap.Error(err))
	}
	return book, nil
}

func (bs *BookService) Delete(ctx context.Context, id int64) error {
	if id == 0 {
		return ErrMissingID
	}

	if err := bs.storage.Delete(ctx, id); err != nil {
		return err
	}

	if err := bs.queue.Push(ctx, BookDeleteQueue, Book{ID: id}); err != nil {
		bs.logger.Error("service: failed to push book to queue", zap.String("qid", BookDeleteQueue), zap.Error(err))
	}
	return nil
}

func (bs *BookService) Find(ctx context.Context, filter BookFilter, page PageRequest) ([]Book, int64, error) {
	return bs.storage.Find(ctx, filter, page.Normalize())
}
