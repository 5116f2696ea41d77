package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/leaflist/leaflist-server/internal/domain"
)

// Import helpers used by backup restore. Unlike the regular Create methods
// they write records verbatim, without reference bookkeeping: a restored list
// already carries its review IDs and its owner already carries the list ID.
// Each returns whether the record was written (false means it existed and
// overwrite was off).

// ImportUser writes a user record together with its email index entry.
func (s *Store) ImportUser(_ context.Context, user *domain.User, overwrite bool) (bool, error) {
	key := []byte(userPrefix + user.ID)
	emailKey := []byte(userByEmailPrefix + normalizeEmail(user.Email))

	written := false
	err := s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil && !overwrite {
			return nil
		}
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check user exists: %w", err)
		}

		if err := setInTxn(txn, key, user); err != nil {
			return err
		}
		if err := txn.Set(emailKey, []byte(user.ID)); err != nil {
			return err
		}
		written = true
		return nil
	})
	return written, err
}

// ImportBookList writes a list record verbatim.
func (s *Store) ImportBookList(_ context.Context, list *domain.BookList, overwrite bool) (bool, error) {
	return s.importRecord([]byte(bookListPrefix+list.ID), list, overwrite)
}

// ImportReview writes a review record verbatim.
func (s *Store) ImportReview(_ context.Context, review *domain.Review, overwrite bool) (bool, error) {
	return s.importRecord([]byte(reviewPrefix+review.ID), review, overwrite)
}

// ImportBook writes a book record through the entity layer so the selfLink
// index stays consistent.
func (s *Store) ImportBook(ctx context.Context, book *domain.Book, overwrite bool) (bool, error) {
	err := s.Books.Create(ctx, book.ID, book)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, ErrAlreadyExists) {
		return false, err
	}
	if !overwrite {
		return false, nil
	}
	if err := s.Books.Update(ctx, book.ID, book); err != nil {
		return false, err
	}
	return true, nil
}

// DropAll wipes every key in the database. Used by full restore.
func (s *Store) DropAll(_ context.Context) error {
	if s.logger != nil {
		s.logger.Warn("Dropping all database records")
	}
	return s.db.DropAll()
}

func (s *Store) importRecord(key []byte, value any, overwrite bool) (bool, error) {
	written := false
	err := s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil && !overwrite {
			return nil
		}
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check record exists: %w", err)
		}
		if err := setInTxn(txn, key, value); err != nil {
			return err
		}
		written = true
		return nil
	})
	return written, err
}
