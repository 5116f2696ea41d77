// Package main provides a tool to seed the database with demo data.
//
// It creates a handful of verified users, booklists with real-looking book
// entries, and reviews on the public lists, so the API has something to show
// during development.
//
// Usage:
//
//	DB_PATH=~/leaflist/db go run ./cmd/seed
//	DB_PATH=~/leaflist/db go run ./cmd/seed --with-admin  # Also create an admin account
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/leaflist/leaflist-server/internal/auth"
	"github.com/leaflist/leaflist-server/internal/domain"
	"github.com/leaflist/leaflist-server/internal/id"
	"github.com/leaflist/leaflist-server/internal/store"
)

var withAdmin = flag.Bool("with-admin", false, "Also create an admin account (admin@example.com)")

// seedPassword is the password every seeded account gets.
const seedPassword = "leaflist-demo"

type seedUser struct {
	name  string
	email string
	role  domain.Role
}

var seedUsers = []seedUser{
	{name: "Alex Rivera", email: "alex@example.com", role: domain.RoleRegularUser},
	{name: "Jordan Chen", email: "jordan@example.com", role: domain.RoleRegularUser},
	{name: "Sam Taylor", email: "sam@example.com", role: domain.RoleRegularUser},
	{name: "Casey Morgan", email: "casey@example.com", role: domain.RoleManager},
}

type seedBook struct {
	title    string
	authors  string
	selfLink string
}

var seedBooks = []seedBook{
	{title: "Dune", authors: "Frank Herbert", selfLink: "https://books.example.com/v1/volumes/dune"},
	{title: "The Left Hand of Darkness", authors: "Ursula K. Le Guin", selfLink: "https://books.example.com/v1/volumes/lhod"},
	{title: "Hyperion", authors: "Dan Simmons", selfLink: "https://books.example.com/v1/volumes/hyperion"},
	{title: "A Wizard of Earthsea", authors: "Ursula K. Le Guin", selfLink: "https://books.example.com/v1/volumes/earthsea"},
	{title: "The Name of the Wind", authors: "Patrick Rothfuss", selfLink: "https://books.example.com/v1/volumes/notw"},
	{title: "Piranesi", authors: "Susanna Clarke", selfLink: "https://books.example.com/v1/volumes/piranesi"},
	{title: "Project Hail Mary", authors: "Andy Weir", selfLink: "https://books.example.com/v1/volumes/phm"},
	{title: "The Fifth Season", authors: "N. K. Jemisin", selfLink: "https://books.example.com/v1/volumes/fifth-season"},
}

var seedListNames = []struct {
	name       string
	visibility domain.Visibility
}{
	{name: "Science Fiction Essentials", visibility: domain.VisibilityPublic},
	{name: "Fantasy Favorites", visibility: domain.VisibilityPublic},
	{name: "To Read This Year", visibility: domain.VisibilityPrivate},
}

var seedReviewBodies = []string{
	"Couldn't put it down. The worldbuilding alone is worth the read.",
	"Slow start but the second half more than makes up for it.",
	"A classic for a reason. Re-reads better than it reads.",
	"Solid picks on this list, though I'd swap a couple out.",
	"Finished it in a weekend. Immediately ordered the sequel.",
}

func main() {
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/leaflist/db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := store.New(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	passwordHash, err := auth.HashPassword(seedPassword)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	users := createSeedUsers(ctx, s, passwordHash)
	if *withAdmin {
		createAdminUser(ctx, s, passwordHash)
	}

	books := createSeedBooks(ctx, s)

	var publicLists []*domain.BookList
	for _, user := range users {
		lists := createListsForUser(ctx, s, rng, user, books)
		for _, l := range lists {
			if l.Visibility.IsPublic() {
				publicLists = append(publicLists, l)
			}
		}
	}

	reviewsCreated := createSeedReviews(ctx, s, rng, users, publicLists)

	fmt.Printf("\nSeeded %d users, %d books, %d public lists, %d reviews\n",
		len(users), len(books), len(publicLists), reviewsCreated)
	fmt.Printf("All seeded accounts use the password %q\n", seedPassword)
	fmt.Println("Seeding complete!")
}

// createSeedUsers creates the demo accounts, skipping any email that already
// exists. All seeded users are created verified so they can log in directly.
func createSeedUsers(ctx context.Context, s *store.Store, passwordHash string) []*domain.User {
	fmt.Println("\n=== Creating Users ===")

	var users []*domain.User
	for _, su := range seedUsers {
		if existing, err := s.GetUserByEmail(ctx, su.email); err == nil {
			fmt.Printf("  User %s already exists, skipping\n", su.email)
			users = append(users, existing)
			continue
		}

		user := &domain.User{
			Name:         su.name,
			Email:        su.email,
			PasswordHash: passwordHash,
			IsActive:     true,
			Role:         su.role,
		}
		user.ID = id.MustGenerate("user")
		user.InitTimestamps()

		if err := s.CreateUser(ctx, user); err != nil {
			log.Printf("  Failed to create user %s: %v", su.email, err)
			continue
		}

		fmt.Printf("  Created user: %s (%s, %s)\n", su.name, su.email, su.role)
		users = append(users, user)
	}
	return users
}

// createAdminUser creates a verified admin account if one does not exist yet.
func createAdminUser(ctx context.Context, s *store.Store, passwordHash string) {
	const adminEmail = "admin@example.com"

	if _, err := s.GetUserByEmail(ctx, adminEmail); err == nil {
		fmt.Printf("  Admin %s already exists, skipping\n", adminEmail)
		return
	}

	admin := &domain.User{
		Name:         "Site Admin",
		Email:        adminEmail,
		PasswordHash: passwordHash,
		IsActive:     true,
		Role:         domain.RoleAdmin,
	}
	admin.ID = id.MustGenerate("user")
	admin.InitTimestamps()

	if err := s.CreateUser(ctx, admin); err != nil {
		log.Printf("  Failed to create admin: %v", err)
		return
	}
	fmt.Printf("  Created admin: %s\n", adminEmail)
}

// createSeedBooks resolves the demo catalog through FindOrCreateBook, so
// re-running the tool reuses existing entries instead of duplicating them.
func createSeedBooks(ctx context.Context, s *store.Store) []*domain.Book {
	fmt.Println("\n=== Creating Books ===")

	var books []*domain.Book
	for _, sb := range seedBooks {
		book := &domain.Book{
			Title:    sb.title,
			Authors:  sb.authors,
			SelfLink: sb.selfLink,
		}
		book.ID = id.MustGenerate("book")
		book.InitTimestamps()

		stored, err := s.FindOrCreateBook(ctx, book)
		if err != nil {
			log.Printf("  Failed to create book %q: %v", sb.title, err)
			continue
		}
		fmt.Printf("  Book: %s by %s\n", stored.Title, stored.Authors)
		books = append(books, stored)
	}
	return books
}

// createListsForUser gives the user each seed list with a random sample of
// 2-4 books. Users who already own lists are left alone.
func createListsForUser(ctx context.Context, s *store.Store, rng *rand.Rand, user *domain.User, books []*domain.Book) []*domain.BookList {
	if len(user.BookListIDs) > 0 {
		fmt.Printf("  %s already owns lists, skipping\n", user.Name)
		return nil
	}

	fmt.Printf("\nCreating lists for %s\n", user.Name)

	var created []*domain.BookList
	for _, sl := range seedListNames {
		list := &domain.BookList{
			ID:         id.MustGenerate("list"),
			Name:       sl.name,
			Visibility: sl.visibility,
			OwnerID:    user.ID,
			CreatedAt:  time.Now(),
			LastEdited: time.Now(),
		}

		if err := s.CreateBookList(ctx, list); err != nil {
			log.Printf("  Failed to create list %q: %v", sl.name, err)
			continue
		}

		// Attach a random sample of books.
		numBooks := min(2+rng.Intn(3), len(books))
		shuffled := make([]*domain.Book, len(books))
		copy(shuffled, books)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		for _, book := range shuffled[:numBooks] {
			list.AddBook(book.ID)
		}
		list.Touch()

		if err := s.UpdateBookList(ctx, list); err != nil {
			log.Printf("  Failed to attach books to %q: %v", sl.name, err)
			continue
		}

		fmt.Printf("  Created list: %s (%s, %d books)\n", list.Name, list.Visibility, len(list.BookIDs))
		created = append(created, list)
	}
	return created
}

// createSeedReviews posts a couple of reviews per public list, from users who
// do not own the list.
func createSeedReviews(ctx context.Context, s *store.Store, rng *rand.Rand, users []*domain.User, lists []*domain.BookList) int {
	fmt.Println("\n=== Creating Reviews ===")

	created := 0
	for _, list := range lists {
		numReviews := 1 + rng.Intn(2)
		for range numReviews {
			reviewer := users[rng.Intn(len(users))]
			if reviewer.ID == list.OwnerID {
				continue
			}

			review := &domain.Review{
				ID:         id.MustGenerate("review"),
				Body:       seedReviewBodies[rng.Intn(len(seedReviewBodies))],
				Visibility: domain.ReviewVisibilityPublic,
				UserID:     reviewer.ID,
				BookListID: list.ID,
				CreatedAt:  time.Now().AddDate(0, 0, -rng.Intn(14)),
			}

			if err := s.CreateReview(ctx, review); err != nil {
				log.Printf("  Failed to create review on %q: %v", list.Name, err)
				continue
			}
			created++
		}
	}
	fmt.Printf("  Created %d reviews\n", created)
	return created
}
