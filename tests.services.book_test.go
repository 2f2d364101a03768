package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// TestBookServiceSave ensures isbn uniqueness is checked before
// insertion and that created books land on the replication queue.
func TestBookServiceSave(t *testing.T) {
	t.Run("should pass: free isbn", func(t *testing.T) {
		mockRepo := &MockBookStorage{
			ExistsByISBNFunc: func(ctx context.Context, isbn string) (bool, error) {
				return false, nil
			},
			AddFunc: func(ctx context.Context, book Book) (Book, error) {
				book.ID = 1
				return book, nil
			},
		}
		queue := NewMockQueuer()
		bs := NewBookService(zap.NewNop(), mockRepo, queue)

		book, err := bs.Save(context.Background(), Book{Title: "As aventuras", Author: "Fulano", ISBN: "123"})
		assert.NoError(t, err)
		assert.Equal(t, int64(1), book.ID)
		assert.Equal(t, []string{BookCreateQueue}, queue.Pushed)
	})

	t.Run("should fail: isbn already in use", func(t *testing.T) {
		mockRepo := &MockBookStorage{
			ExistsByISBNFunc: func(ctx context.Context, isbn string) (bool, error) {
				return true, nil
			},
		}
		queue := NewMockQueuer()
		bs := NewBookService(zap.NewNop(), mockRepo, queue)

		_, err := bs.Save(context.Background(), Book{Title: "As aventuras", Author: "Fulano", ISBN: "123"})
		assert.ErrorIs(t, err, ErrISBNAlreadyExists)
		assert.True(t, IsBusinessError(err))
		assert.Empty(t, queue.Pushed)
	})

	t.Run("should fail: storage insertion failure", func(t *testing.T) {
		mockRepo := &MockBookStorage{
			ExistsByISBNFunc: func(ctx context.Context, isbn string) (bool, error) {
				return false, nil
			},
			AddFunc: func(ctx context.Context, book Book) (Book, error) {
				return book, errors.New("storage failure")
			},
		}
		queue := NewMockQueuer()
		bs := NewBookService(zap.NewNop(), mockRepo, queue)

		_, err := bs.Save(context.Background(), Book{Title: "As aventuras", Author: "Fulano", ISBN: "123"})
		assert.Error(t, err)
		assert.False(t, IsBusinessError(err))
		assert.Empty(t, queue.Pushed)
	})

	t.Run("should pass: queue failure does not fail the save", func(t *testing.T) {
		mockRepo := &MockBookStorage{
			ExistsByISBNFunc: func(ctx context.Context, isbn string) (bool, error) {
				return false, nil
			},
			AddFunc: func(ctx context.Context, book Book) (Book, error) {
				book.ID = 1
				return book, nil
			},
		}
		queue := NewMockQueuer()
		queue.PushFunc = func(ctx context.Context, qid string, record interface{}) error {
			return errors.New("queue down")
		}
		bs := NewBookService(zap.NewNop(), mockRepo, queue)

		book, err := bs.Save(context.Background(), Book{Title: "As aventuras", Author: "Fulano", ISBN: "123"})
		assert.NoError(t, err)
		assert.Equal(t, int64(1), book.ID)
	})
}

// TestBookServiceUpdate ensures updates require a stored id and land
// on the replication queue.
func TestBookServiceUpdate(t *testing.T) {
	mockRepo := &MockBookStorage{
		UpdateFunc: func(ctx context.Context, book Book) (Book, error) {
			return book, nil
		},
	}
	queue := NewMockQueuer()
	bs := NewBookService(zap.NewNop(), mockRepo, queue)

	_, err := bs.Update(context.Background(), Book{Title: "no id"})
	assert.ErrorIs(t, err, ErrMissingID)

	book, err := bs.Update(context.Background(), Book{ID: 1, Title: "As aventuras", ISBN: "123"})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), book.ID)
	assert.Equal(t, []string{BookUpdateQueue}, queue.Pushed)
}

// TestBookServiceDelete ensures deletions require a stored id and land
// on the replication queue.
func TestBookServiceDelete(t *testing.T) {
	mockRepo := &MockBookStorage{
		DeleteFunc: func(ctx context.Context, id int64) error {
			return nil
		},
	}
	queue := NewMockQueuer()
	bs := NewBookService(zap.NewNop(), mockRepo, queue)

	err := bs.Delete(context.Background(), 0)
	assert.ErrorIs(t, err, ErrMissingID)

	err = bs.Delete(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, []string{BookDeleteQueue}, queue.Pushed)
}

// TestBookServiceFind ensures pagination is normalized before
// reaching the storage.
func TestBookServiceFind(t *testing.T) {
	var gotPage PageRequest
	mockRepo := &MockBookStorage{
		FindFunc: func(ctx context.Context, filter BookFilter, page PageRequest) ([]Book, int64, error) {
			gotPage = page
			return []Book{{ID: 1}}, 1, nil
		},
	}
	bs := NewBookService(zap.NewNop(), mockRepo, NewMockQueuer())

	books, total, err := bs.Find(context.Background(), BookFilter{}, PageRequest{Page: -3, Size: 0})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, books, 1)
	assert.Equal(t, PageRequest{Page: 0, Size: DefaultPageSize}, gotPage)
}
