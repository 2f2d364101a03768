package main

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type redisBookStorage struct {
	logger *zap.Logger
	client *redis.Client
}

// NewRedisBookStorage provides an instance of redis-based book storage.
func NewRedisBookStorage(logger *zap.Logger, client *redis.Client) BookStorage {
	return &redisBookStorage{
		logger: logger,
		client: client,
	}
}

// Add inserts a new book record with a freshly assigned id. The isbn
// index insertion is conditional so two concurrent creations with the
// same isbn cannot both land.
func (rs *redisBookStorage) Add(ctx context.Context, book Book) (Book, error) {
	id, err := rs.client.Incr(ctx, KBooksNextID).Result()
	if err != nil {
		return book, err
	}
	book.ID = id

	ok, err := rs.client.HSetNX(ctx, HBooksByISBN, book.ISBN, formatID(book.ID)).Result()
	if err != nil {
		return book, err
	}
	if !ok {
		return book, ErrISBNAlreadyExists
	}

	bookBytes, err := json.Marshal(book)
	if err != nil {
		return book, err
	}
	if err = rs.client.HSet(ctx, HBooks, formatID(book.ID), bookBytes).Err(); err != nil {
		return book, err
	}
	return book, nil
}

// GetOne retrieves a book record based on its ID.
func (rs *redisBookStorage) GetOne(ctx context.Context, id int64) (Book, bool, error) {
	var book Book
	bookJSONString, err := rs.client.HGet(ctx, HBooks, formatID(id)).Result()
	if err == redis.Nil {
		return book, false, nil
	}
	if err != nil {
		return book, false, err
	}
	if err = json.Unmarshal([]byte(bookJSONString), &book); err != nil {
		return book, false, err
	}
	return book, true, nil
}

// GetByISBN retrieves a book record through the isbn index.
func (rs *redisBookStorage) GetByISBN(ctx context.Context, isbn string) (Book, bool, error) {
	rawID, err := rs.client.HGet(ctx, HBooksByISBN, isbn).Result()
	if err == redis.Nil {
		return Book{}, false, nil
	}
	if err != nil {
		return Book{}, false, err
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return Book{}, false, err
	}
	return rs.GetOne(ctx, id)
}

// ExistsByISBN reports whether a book record holds the given isbn.
func (rs *redisBookStorage) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	return rs.client.HExists(ctx, HBooksByISBN, isbn).Result()
}

// Update replaces the existing book record data. The isbn index is
// left untouched since the isbn is immutable.
func (rs *redisBookStorage) Update(ctx context.Context, book Book) (Book, error) {
	bookBytes, err := json.Marshal(book)
	if err != nil {
		return book, err
	}
	err = rs.client.HSet(ctx, HBooks, formatID(book.ID), bookBytes).Err()
	return book, err
}

// Delete removes a book record and its isbn index entry.
func (rs *redisBookStorage) Delete(ctx context.Context, id int64) error {
	book, found, err := rs.GetOne(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	if err = rs.client.HDel(ctx, HBooksByISBN, book.ISBN).Err(); err != nil {
		return err
	}
	return rs.client.HDel(ctx, HBooks, formatID(id)).Err()
}

// Find retrieves one page of books matching the filter along with the
// total number of matches. The record set is small enough to filter
// and sort in memory.
func (rs *redisBookStorage) Find(ctx context.Context, filter BookFilter, page PageRequest) ([]Book, int64, error) {
	values, err := rs.client.HVals(ctx, HBooks).Result()
	if err != nil {
		return nil, 0, err
	}
	matches := []Book{}
	for _, bookJSONString := range values {
		var book Book
		if err = json.Unmarshal([]byte(bookJSONString), &book); err != nil {
			return nil, 0, err
		}
		if filter.Matches(book) {
			matches = append(matches, book)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	lo, hi := page.Normalize().Slice(len(matches))
	return matches[lo:hi], int64(len(matches)), nil
}
