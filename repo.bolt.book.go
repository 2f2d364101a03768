package main

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/boltdb/bolt"
	"go.uber.org/zap"
)

type boltBookStorage struct {
	logger *zap.Logger
	client *bolt.DB
	config *BoltDBConfig
}

// NewBoltBookStorage provides an instance of bolt-based book storage.
func NewBoltBookStorage(logger *zap.Logger, boltConfig *BoltDBConfig, client *bolt.DB) BookStorage {
	return &boltBookStorage{
		logger: logger,
		client: client,
		config: boltConfig,
	}
}

func (bs *boltBookStorage) bucket(tx *bolt.Tx) *bolt.Bucket {
	return tx.Bucket([]byte(bs.config.BooksBucket))
}

// Add inserts a new book record into boltdb store. Records replicated
// from the primary store keep their already assigned id, otherwise the
// bucket sequence provides one.
func (bs *boltBookStorage) Add(_ context.Context, book Book) (Book, error) {
	err := bs.client.Update(func(tx *bolt.Tx) error {
		b := bs.bucket(tx)
		if book.ID == 0 {
			seq, errS := b.NextSequence()
			if errS != nil {
				return errS
			}
			book.ID = int64(seq)
		}
		if key := isbnIndexKey(bs.config.BooksBucket, tx, book.ISBN); key != nil {
			return ErrISBNAlreadyExists
		}
		bookBytes, errM := json.Marshal(book)
		if errM != nil {
			return errM
		}
		return b.Put([]byte(formatID(book.ID)), bookBytes)
	})
	return book, err
}

// isbnIndexKey scans the bucket for a record holding the isbn and
// returns its key, or nil when the isbn is free.
func isbnIndexKey(bucketName string, tx *bolt.Tx, isbn string) []byte {
	c := tx.Bucket([]byte(bucketName)).Cursor()
	for k, v := c.First(); k != nil; k, v = c.Next() {
		var book Book
		if json.Unmarshal(v, &book) == nil && book.ISBN == isbn {
			return k
		}
	}
	return nil
}

// GetOne retrieves a book record based on its ID from boltdb store.
func (bs *boltBookStorage) GetOne(_ context.Context, id int64) (Book, bool, error) {
	var book Book
	// initialize a readable transaction.
	tx, err := bs.client.Begin(false)
	if err != nil {
		return book, false, err
	}
	defer tx.Rollback()

	result := bs.bucket(tx).Get([]byte(formatID(id)))
	if result == nil {
		return book, false, nil
	}
	err = json.Unmarshal(result, &book)
	return book, err == nil, err
}

// GetByISBN retrieves a book record holding the given isbn.
func (bs *boltBookStorage) GetByISBN(ctx context.Context, isbn string) (Book, bool, error) {
	var match Book
	var found bool
	err := bs.scan(ctx, func(book Book) {
		if book.ISBN == isbn {
			match = book
			found = true
		}
	})
	return match, found, err
}

// ExistsByISBN reports whether a book record holds the given isbn.
func (bs *boltBookStorage) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	_, found, err := bs.GetByISBN(ctx, isbn)
	return found, err
}

// Update replaces existing book record data or inserts the book if it
// does not exist, so replication replays stay idempotent.
func (bs *boltBookStorage) Update(_ context.Context, book Book) (Book, error) {
	bookBytes, err := json.Marshal(book)
	if err != nil {
		return book, err
	}
	err = bs.client.Update(func(tx *bolt.Tx) error {
		return bs.bucket(tx).Put([]byte(formatID(book.ID)), bookBytes)
	})
	return book, err
}

// Delete removes a book record based on its ID from boltdb store.
func (bs *boltBookStorage) Delete(_ context.Context, id int64) error {
	return bs.client.Update(func(tx *bolt.Tx) error {
		return bs.bucket(tx).Delete([]byte(formatID(id)))
	})
}

// Find retrieves one page of books matching the filter along with the
// total number of matches.
func (bs *boltBookStorage) Find(ctx context.Context, filter BookFilter, page PageRequest) ([]Book, int64, error) {
	matches := []Book{}
	err := bs.scan(ctx, func(book Book) {
		if filter.Matches(book) {
			matches = append(matches, book)
		}
	})
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	lo, hi := page.Normalize().Slice(len(matches))
	return matches[lo:hi], int64(len(matches)), nil
}

// scan walks the books' bucket and hands each record to the visitor.
func (bs *boltBookStorage) scan(_ context.Context, visit func(Book)) error {
	tx, err := bs.client.Begin(false)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	c := bs.bucket(tx).Cursor()
	for k, v := c.First(); k != nil; k, v = c.Next() {
		var book Book
		if err = json.Unmarshal(v, &book); err != nil {
			return err
		}
		visit(book)
	}
	return nil
}
