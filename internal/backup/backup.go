package backup

import (
	"archive/zip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/leaflist/leaflist-server/internal/backup/stream"
	"github.com/leaflist/leaflist-server/internal/store"
)

const backupExt = ".leaflist.zip"

// Archive layout.
const (
	manifestFile  = "manifest.json"
	usersFile     = "records/users.jsonl"
	booksFile     = "records/books.jsonl"
	bookListsFile = "records/booklists.jsonl"
	reviewsFile   = "records/reviews.jsonl"
)

// BackupService exports the document store into zip archives and manages the
// backup directory.
type BackupService struct {
	store      *store.Store
	backupDir  string
	serverName string
	version    string
	logger     *slog.Logger
}

// NewBackupService creates a BackupService.
func NewBackupService(s *store.Store, backupDir, serverName, version string, logger *slog.Logger) *BackupService {
	return &BackupService{
		store:      s,
		backupDir:  backupDir,
		serverName: serverName,
		version:    version,
		logger:     logger,
	}
}

// Create writes a new backup archive and returns its summary.
func (s *BackupService) Create(ctx context.Context, opts BackupOptions) (*BackupResult, error) {
	start := time.Now()

	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}

	outputPath := opts.OutputPath
	if outputPath == "" {
		timestamp := time.Now().Format("2006-01-02-150405")
		outputPath = filepath.Join(s.backupDir, "backup-"+timestamp+backupExt)
	}

	if s.logger != nil {
		s.logger.Info("Creating backup", "output", outputPath)
	}

	counts, err := s.export(ctx, outputPath)
	if err != nil {
		// An aborted export must not leave a half-written archive behind.
		os.Remove(outputPath)
		return nil, err
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return nil, fmt.Errorf("stat backup: %w", err)
	}

	checksum, err := fileChecksum(outputPath)
	if err != nil {
		return nil, err
	}

	result := &BackupResult{
		Path:     outputPath,
		Size:     info.Size(),
		Counts:   counts,
		Duration: time.Since(start),
		Checksum: checksum,
	}

	if s.logger != nil {
		s.logger.Info("Backup complete",
			"path", result.Path,
			"size", result.Size,
			"duration", result.Duration,
			"checksum", result.Checksum)
	}

	return result, nil
}

// export streams every record type into the archive and finishes with the
// manifest.
func (s *BackupService) export(ctx context.Context, path string) (EntityCounts, error) {
	var counts EntityCounts

	f, err := os.Create(path) //#nosec G304 -- Backup path is operator-chosen
	if err != nil {
		return counts, fmt.Errorf("create backup file: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return counts, err
	}
	w, err := stream.NewWriter(zw, usersFile)
	if err != nil {
		return counts, err
	}
	for _, u := range users {
		if err := w.Write(u); err != nil {
			return counts, fmt.Errorf("write user %s: %w", u.ID, err)
		}
	}
	counts.Users = w.Count()

	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return counts, err
	}
	if w, err = stream.NewWriter(zw, booksFile); err != nil {
		return counts, err
	}
	for _, b := range books {
		if err := w.Write(b); err != nil {
			return counts, fmt.Errorf("write book %s: %w", b.ID, err)
		}
	}
	counts.Books = w.Count()

	lists, err := s.store.ListBookLists(ctx)
	if err != nil {
		return counts, err
	}
	if w, err = stream.NewWriter(zw, bookListsFile); err != nil {
		return counts, err
	}
	for _, l := range lists {
		if err := w.Write(l); err != nil {
			return counts, fmt.Errorf("write book list %s: %w", l.ID, err)
		}
	}
	counts.BookLists = w.Count()

	reviews, err := s.store.ListReviews(ctx)
	if err != nil {
		return counts, err
	}
	if w, err = stream.NewWriter(zw, reviewsFile); err != nil {
		return counts, err
	}
	for _, r := range reviews {
		if err := w.Write(r); err != nil {
			return counts, fmt.Errorf("write review %s: %w", r.ID, err)
		}
	}
	counts.Reviews = w.Count()

	manifest := Manifest{
		Version:         FormatVersion,
		CreatedAt:       time.Now(),
		ServerName:      s.serverName,
		LeaflistVersion: s.version,
		Counts:          counts,
	}

	mw, err := zw.Create(manifestFile)
	if err != nil {
		return counts, err
	}
	if err := json.MarshalWrite(mw, manifest); err != nil {
		return counts, fmt.Errorf("write manifest: %w", err)
	}

	if err := zw.Close(); err != nil {
		return counts, fmt.Errorf("close archive: %w", err)
	}
	return counts, f.Close()
}

// List returns all available backups, newest first.
func (s *BackupService) List(ctx context.Context) ([]BackupInfo, error) {
	entries, err := os.ReadDir(s.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), backupExt) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		backups = append(backups, BackupInfo{
			ID:        strings.TrimSuffix(entry.Name(), backupExt),
			Path:      filepath.Join(s.backupDir, entry.Name()),
			Size:      info.Size(),
			CreatedAt: info.ModTime(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})

	return backups, nil
}

// Get returns a backup by ID.
func (s *BackupService) Get(ctx context.Context, id string) (*BackupInfo, error) {
	path := filepath.Join(s.backupDir, id+backupExt)

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBackupNotFound
		}
		return nil, err
	}

	return &BackupInfo{
		ID:        id,
		Path:      path,
		Size:      info.Size(),
		CreatedAt: info.ModTime(),
	}, nil
}

// Delete removes a backup.
func (s *BackupService) Delete(ctx context.Context, id string) error {
	path := filepath.Join(s.backupDir, id+backupExt)

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return ErrBackupNotFound
		}
		return err
	}

	return os.Remove(path)
}

func fileChecksum(path string) (string, error) {
	f, err := os.Open(path) //#nosec G304 -- Backup path is operator-chosen
	if err != nil {
		return "", fmt.Errorf("open for checksum: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("checksum: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
