package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/leaflist/leaflist-server/internal/domain"
)

const reviewPrefix = "review:"

// ErrReviewNotFound is returned when a review cannot be found by ID.
var ErrReviewNotFound = errors.New("review not found")

// CreateReview stores a new review and appends its ID to the reviewed list
// in the same transaction.
func (s *Store) CreateReview(_ context.Context, review *domain.Review) error {
	key := []byte(reviewPrefix + review.ID)
	listKey := []byte(bookListPrefix + review.BookListID)

	return s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return ErrAlreadyExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check review exists: %w", err)
		}

		var list domain.BookList
		err = getInTxn(txn, listKey, &list)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrBookListNotFound
		}
		if err != nil {
			return fmt.Errorf("get book list: %w", err)
		}

		list.AddReview(review.ID)
		list.Touch()

		if err := setInTxn(txn, key, review); err != nil {
			return err
		}
		return setInTxn(txn, listKey, &list)
	})
}

// GetReview retrieves a review by ID.
func (s *Store) GetReview(_ context.Context, id string) (*domain.Review, error) {
	key := []byte(reviewPrefix + id)

	var review domain.Review
	if err := s.get(key, &review); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("get review: %w", err)
	}

	return &review, nil
}

// UpdateReview writes back a modified review.
func (s *Store) UpdateReview(_ context.Context, review *domain.Review) error {
	key := []byte(reviewPrefix + review.ID)

	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrReviewNotFound
			}
			return fmt.Errorf("check review exists: %w", err)
		}
		return setInTxn(txn, key, review)
	})
}

// DeleteReview removes a review and the list's reference to it in one
// transaction.
func (s *Store) DeleteReview(ctx context.Context, id string) error {
	review, err := s.GetReview(ctx, id)
	if err != nil {
		return err
	}

	listKey := []byte(bookListPrefix + review.BookListID)

	return s.db.Update(func(txn *badger.Txn) error {
		var list domain.BookList
		err := getInTxn(txn, listKey, &list)
		if err == nil {
			if list.RemoveReview(id) {
				list.Touch()
				if err := setInTxn(txn, listKey, &list); err != nil {
					return err
				}
			}
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("get book list: %w", err)
		}

		return txn.Delete([]byte(reviewPrefix + id))
	})
}

// ListReviews returns every stored review (for backup export).
func (s *Store) ListReviews(_ context.Context) ([]*domain.Review, error) {
	prefix := []byte(reviewPrefix)
	var reviews []*domain.Review

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var review domain.Review
				if unmarshalErr := json.Unmarshal(val, &review); unmarshalErr != nil {
					// Skip malformed reviews
					return nil //nolint:nilerr // intentionally skip malformed entries
				}
				reviews = append(reviews, &review)
				return nil
			})
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	return reviews, nil
}

// ListReviewsByBookList returns the reviews attached to a list, in the order
// they were posted. Hidden reviews are included; visibility filtering is the
// caller's concern.
func (s *Store) ListReviewsByBookList(ctx context.Context, listID string) ([]*domain.Review, error) {
	list, err := s.GetBookList(ctx, listID)
	if err != nil {
		return nil, err
	}

	reviews := make([]*domain.Review, 0, len(list.ReviewIDs))

	err = s.db.View(func(txn *badger.Txn) error {
		for _, reviewID := range list.ReviewIDs {
			var review domain.Review
			err := getInTxn(txn, []byte(reviewPrefix+reviewID), &review)
			if errors.Is(err, badger.ErrKeyNotFound) {
				// Stale reference, skip it.
				continue
			}
			if err != nil {
				return fmt.Errorf("get review %s: %w", reviewID, err)
			}
			reviews = append(reviews, &review)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return reviews, nil
}
