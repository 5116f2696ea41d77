package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/leaflist/leaflist-server/internal/domain"
)

const bookListPrefix = "list:"

// ErrBookListNotFound is returned when a book list cannot be found by ID.
var ErrBookListNotFound = errors.New("book list not found")

// CreateBookList stores a new list and appends its ID to the owner's
// collection in the same transaction, so the back-reference can never be
// missing.
func (s *Store) CreateBookList(_ context.Context, list *domain.BookList) error {
	key := []byte(bookListPrefix + list.ID)
	ownerKey := []byte(userPrefix + list.OwnerID)

	return s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return ErrAlreadyExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check list exists: %w", err)
		}

		var owner domain.User
		err = getInTxn(txn, ownerKey, &owner)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("get owner: %w", err)
		}

		owner.AddBookList(list.ID)
		owner.Touch()

		if err := setInTxn(txn, key, list); err != nil {
			return err
		}
		return setInTxn(txn, ownerKey, &owner)
	})
}

// GetBookList retrieves a book list by ID.
func (s *Store) GetBookList(_ context.Context, id string) (*domain.BookList, error) {
	key := []byte(bookListPrefix + id)

	var list domain.BookList
	if err := s.get(key, &list); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrBookListNotFound
		}
		return nil, fmt.Errorf("get book list: %w", err)
	}

	return &list, nil
}

// UpdateBookList writes back a modified list.
func (s *Store) UpdateBookList(_ context.Context, list *domain.BookList) error {
	key := []byte(bookListPrefix + list.ID)

	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrBookListNotFound
			}
			return fmt.Errorf("check list exists: %w", err)
		}
		return setInTxn(txn, key, list)
	})
}

// DeleteBookList removes a list, its reviews, and the owner's reference to
// it, all in one transaction.
func (s *Store) DeleteBookList(ctx context.Context, id string) error {
	list, err := s.GetBookList(ctx, id)
	if err != nil {
		return err
	}

	ownerKey := []byte(userPrefix + list.OwnerID)

	return s.db.Update(func(txn *badger.Txn) error {
		for _, reviewID := range list.ReviewIDs {
			if err := txn.Delete([]byte(reviewPrefix + reviewID)); err != nil {
				return fmt.Errorf("delete review %s: %w", reviewID, err)
			}
		}

		var owner domain.User
		err := getInTxn(txn, ownerKey, &owner)
		if err == nil {
			if owner.RemoveBookList(id) {
				owner.Touch()
				if err := setInTxn(txn, ownerKey, &owner); err != nil {
					return err
				}
			}
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("get owner: %w", err)
		}

		return txn.Delete([]byte(bookListPrefix + id))
	})
}

// ListBookLists returns every book list in the store.
func (s *Store) ListBookLists(_ context.Context) ([]*domain.BookList, error) {
	var lists []*domain.BookList

	err := s.scanBookLists(func(list *domain.BookList) {
		lists = append(lists, list)
	})
	if err != nil {
		return nil, fmt.Errorf("list book lists: %w", err)
	}

	return lists, nil
}

// ListBookListsByOwner returns the lists owned by a user, most recently
// edited first.
func (s *Store) ListBookListsByOwner(ctx context.Context, userID string) ([]*domain.BookList, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	lists := make([]*domain.BookList, 0, len(user.BookListIDs))

	err = s.db.View(func(txn *badger.Txn) error {
		for _, listID := range user.BookListIDs {
			var list domain.BookList
			err := getInTxn(txn, []byte(bookListPrefix+listID), &list)
			if errors.Is(err, badger.ErrKeyNotFound) {
				// Stale reference, skip it.
				continue
			}
			if err != nil {
				return fmt.Errorf("get book list %s: %w", listID, err)
			}
			lists = append(lists, &list)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortByLastEdited(lists)

	return lists, nil
}

// ListRecentPublicBookLists returns the most recently edited public lists,
// capped at limit.
func (s *Store) ListRecentPublicBookLists(_ context.Context, limit int) ([]*domain.BookList, error) {
	var lists []*domain.BookList

	err := s.scanBookLists(func(list *domain.BookList) {
		if list.Visibility.IsPublic() {
			lists = append(lists, list)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("list recent public book lists: %w", err)
	}

	sortByLastEdited(lists)

	if limit > 0 && len(lists) > limit {
		lists = lists[:limit]
	}

	return lists, nil
}

// sortByLastEdited orders lists most recently edited first, the ordering
// every list read surface presents.
func sortByLastEdited(lists []*domain.BookList) {
	slices.SortFunc(lists, func(a, b *domain.BookList) int {
		return b.LastEdited.Compare(a.LastEdited)
	})
}

// scanBookLists iterates every stored list and hands each to fn.
func (s *Store) scanBookLists(fn func(*domain.BookList)) error {
	prefix := []byte(bookListPrefix)

	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var list domain.BookList
				if unmarshalErr := json.Unmarshal(val, &list); unmarshalErr != nil {
					// Skip malformed lists
					return nil //nolint:nilerr // intentionally skip malformed entries
				}
				fn(&list)
				return nil
			})
			if err != nil {
				return err
			}
		}

		return nil
	})
}
