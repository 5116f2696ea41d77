package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/leaflist/leaflist-server/internal/domain"
)

const bookPrefix = "book:"

// FindOrCreateBook returns the stored book with the same selfLink, creating
// the record if no match exists. Books without a selfLink are always created
// fresh.
func (s *Store) FindOrCreateBook(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	if book.SelfLink != "" {
		existing, err := s.Books.GetByIndex(ctx, "selfLink", book.SelfLink)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("lookup book by selfLink: %w", err)
		}
	}

	err := s.Books.Create(ctx, book.ID, book)
	if errors.Is(err, ErrAlreadyExists) && book.SelfLink != "" {
		// Lost a race with a concurrent insert of the same selfLink.
		return s.Books.GetByIndex(ctx, "selfLink", book.SelfLink)
	}
	if err != nil {
		return nil, err
	}

	return book, nil
}

// ListBooks returns every book in the store.
func (s *Store) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	var books []*domain.Book
	for book, err := range s.Books.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list books: %w", err)
		}
		books = append(books, book)
	}
	return books, nil
}

// GetBooksByIDs resolves a set of book IDs in one read transaction. Missing
// IDs are skipped rather than failing the whole lookup.
func (s *Store) GetBooksByIDs(_ context.Context, ids []string) ([]*domain.Book, error) {
	books := make([]*domain.Book, 0, len(ids))

	err := s.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			var book domain.Book
			err := getInTxn(txn, []byte(bookPrefix+id), &book)
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return fmt.Errorf("get book %s: %w", id, err)
			}
			books = append(books, &book)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return books, nil
}

// DeleteBook removes a book, its selfLink index entry, and every list
// reference to it, all in one transaction.
func (s *Store) DeleteBook(ctx context.Context, id string) error {
	book, err := s.Books.Get(ctx, id)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		// Detach the book from any list that holds it.
		prefix := []byte(bookListPrefix)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)

		type pendingWrite struct {
			key  []byte
			list *domain.BookList
		}
		var updates []pendingWrite

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().KeyCopy(nil)
			var list domain.BookList
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &list)
			})
			if err != nil {
				continue
			}
			if list.RemoveBook(id) {
				list.Touch()
				updates = append(updates, pendingWrite{key: key, list: &list})
			}
		}
		it.Close()

		for _, u := range updates {
			if err := setInTxn(txn, u.key, u.list); err != nil {
				return err
			}
		}

		if book.SelfLink != "" {
			idxKey := s.Books.indexKey("selfLink", book.SelfLink)
			if err := txn.Delete(idxKey); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
		}

		return txn.Delete([]byte(bookPrefix + id))
	})
}
