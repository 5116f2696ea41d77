// Package main provides a read-only inspection tool for the badger database.
//
// It walks the raw key space, counts records and index entries per prefix,
// and prints a sample of each record type. Useful for debugging reference
// consistency between users, booklists, and reviews.
//
// Usage:
//
//	DB_PATH=~/leaflist/db go run ./cmd/dbinspect
package main

import (
	"encoding/json/v2"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/leaflist/leaflist-server/internal/domain"
)

// sampleLimit caps how many records of each type get printed in full.
const sampleLimit = 3

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/leaflist/db")
	}

	opts := badger.DefaultOptions(dbPath).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Database Inspection ===")
	fmt.Println()

	var (
		userCount, listCount, reviewCount, bookCount int
		indexCount, otherCount, hiddenReviews        int
		danglingListRefs                             int
	)

	listIDs := make(map[string]bool)
	var referencedLists []string

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := string(item.Key())

			// Index entries hold a record ID, not a document.
			if strings.Contains(key, "idx:") {
				indexCount++
				continue
			}

			switch {
			case strings.HasPrefix(key, "user:"):
				userCount++
				item.Value(func(val []byte) error {
					var user domain.User
					if err := json.Unmarshal(val, &user); err != nil {
						log.Printf("Malformed user at %s: %v", key, err)
						return nil
					}
					if userCount <= sampleLimit {
						fmt.Printf("User: %s <%s>\n", user.Name, user.Email)
						fmt.Printf("  ID: %s\n", user.ID)
						fmt.Printf("  Role: %s, Active: %v\n", user.Role, user.IsActive)
						fmt.Printf("  Booklists: %d\n", len(user.BookListIDs))
						fmt.Println()
					}
					referencedLists = append(referencedLists, user.BookListIDs...)
					return nil
				})

			case strings.HasPrefix(key, "list:"):
				listCount++
				item.Value(func(val []byte) error {
					var list domain.BookList
					if err := json.Unmarshal(val, &list); err != nil {
						log.Printf("Malformed booklist at %s: %v", key, err)
						return nil
					}
					listIDs[list.ID] = true
					if listCount <= sampleLimit {
						fmt.Printf("BookList: %s (%s)\n", list.Name, list.Visibility)
						fmt.Printf("  ID: %s, Owner: %s\n", list.ID, list.OwnerID)
						fmt.Printf("  Books: %d, Reviews: %d\n", len(list.BookIDs), len(list.ReviewIDs))
						fmt.Println()
					}
					return nil
				})

			case strings.HasPrefix(key, "review:"):
				reviewCount++
				item.Value(func(val []byte) error {
					var review domain.Review
					if err := json.Unmarshal(val, &review); err != nil {
						log.Printf("Malformed review at %s: %v", key, err)
						return nil
					}
					if !review.Visibility.IsVisible() {
						hiddenReviews++
					}
					return nil
				})

			case strings.HasPrefix(key, "book:"):
				bookCount++
				item.Value(func(val []byte) error {
					var book domain.Book
					if err := json.Unmarshal(val, &book); err != nil {
						log.Printf("Malformed book at %s: %v", key, err)
						return nil
					}
					if bookCount <= sampleLimit {
						fmt.Printf("Book: %s by %s\n", book.Title, book.Authors)
						fmt.Printf("  ID: %s\n", book.ID)
						if book.SelfLink != "" {
							fmt.Printf("  SelfLink: %s\n", book.SelfLink)
						}
						fmt.Println()
					}
					return nil
				})

			default:
				otherCount++
				log.Printf("Unrecognized key: %s", key)
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Error iterating database: %v", err)
	}

	// Booklist references on users should all resolve to stored lists.
	for _, listID := range referencedLists {
		if !listIDs[listID] {
			danglingListRefs++
			log.Printf("User references missing booklist: %s", listID)
		}
	}

	fmt.Println("=== Summary ===")
	fmt.Printf("Users: %d\n", userCount)
	fmt.Printf("Booklists: %d\n", listCount)
	fmt.Printf("Reviews: %d (%d hidden)\n", reviewCount, hiddenReviews)
	fmt.Printf("Books: %d\n", bookCount)
	fmt.Printf("Index entries: %d\n", indexCount)
	if otherCount > 0 {
		fmt.Printf("Unrecognized keys: %d\n", otherCount)
	}
	if danglingListRefs > 0 {
		fmt.Printf("Dangling booklist references: %d\n", danglingListRefs)
	} else {
		fmt.Println("All user booklist references resolve.")
	}
}
