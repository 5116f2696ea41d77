package backup

import (
	"archive/zip"
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"time"

	"github.com/leaflist/leaflist-server/internal/backup/stream"
	"github.com/leaflist/leaflist-server/internal/domain"
	"github.com/leaflist/leaflist-server/internal/store"
)

// RestoreService loads backup archives back into the document store.
type RestoreService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewRestoreService creates a RestoreService.
func NewRestoreService(s *store.Store, logger *slog.Logger) *RestoreService {
	return &RestoreService{store: s, logger: logger}
}

// Restore loads a backup archive. Full mode wipes the store first; merge mode
// resolves ID conflicts per the merge strategy.
func (s *RestoreService) Restore(ctx context.Context, path string, opts RestoreOptions) (*RestoreResult, error) {
	if !opts.Mode.Valid() {
		return nil, fmt.Errorf("invalid restore mode %q", opts.Mode)
	}
	if !opts.MergeStrategy.Valid() {
		return nil, fmt.Errorf("invalid merge strategy %q", opts.MergeStrategy)
	}

	if s.logger != nil {
		s.logger.Info("Starting restore",
			"path", path,
			"mode", opts.Mode,
			"merge_strategy", opts.MergeStrategy,
			"dry_run", opts.DryRun)
	}

	start := time.Now()

	validation, err := s.Validate(ctx, path)
	if err != nil {
		return nil, err
	}
	if !validation.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, validation.Errors)
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open backup: %w", err)
	}
	defer zr.Close()

	if opts.Mode == RestoreModeFull && !opts.DryRun {
		if err := s.store.DropAll(ctx); err != nil {
			return nil, fmt.Errorf("wipe store: %w", err)
		}
	}

	// Full mode writes onto a wiped store; merge with keep_backup overwrites.
	overwrite := opts.Mode == RestoreModeFull || opts.MergeStrategy == MergeKeepBackup

	result := &RestoreResult{
		Imported: make(map[string]int),
		Skipped:  make(map[string]int),
	}

	restoreRecords(ctx, zr, usersFile, "user", opts.DryRun, result,
		func(u *domain.User) (bool, error) { return s.store.ImportUser(ctx, u, overwrite) },
		func(u *domain.User) string { return u.ID })

	restoreRecords(ctx, zr, booksFile, "book", opts.DryRun, result,
		func(b *domain.Book) (bool, error) { return s.store.ImportBook(ctx, b, overwrite) },
		func(b *domain.Book) string { return b.ID })

	restoreRecords(ctx, zr, bookListsFile, "book_list", opts.DryRun, result,
		func(l *domain.BookList) (bool, error) { return s.store.ImportBookList(ctx, l, overwrite) },
		func(l *domain.BookList) string { return l.ID })

	restoreRecords(ctx, zr, reviewsFile, "review", opts.DryRun, result,
		func(r *domain.Review) (bool, error) { return s.store.ImportReview(ctx, r, overwrite) },
		func(r *domain.Review) string { return r.ID })

	result.Duration = time.Since(start)

	if s.logger != nil {
		s.logger.Info("Restore complete",
			"imported", result.Imported,
			"skipped", result.Skipped,
			"errors", len(result.Errors),
			"duration", result.Duration)
	}

	return result, nil
}

// restoreRecords streams one JSONL file and feeds each record to the import
// function, tallying outcomes on the result.
func restoreRecords[T any](
	ctx context.Context,
	zr *zip.ReadCloser,
	file, recordType string,
	dryRun bool,
	result *RestoreResult,
	importFn func(*T) (bool, error),
	idFn func(*T) string,
) {
	rc, err := stream.OpenFile(zr, file)
	if err != nil {
		result.Errors = append(result.Errors, RestoreError{
			RecordType: recordType,
			Error:      fmt.Sprintf("missing %s", file),
		})
		return
	}

	for record, err := range stream.NewReader[T](rc).All() {
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			result.Errors = append(result.Errors, RestoreError{
				RecordType: recordType,
				Error:      err.Error(),
			})
			continue
		}

		if dryRun {
			result.Imported[recordType]++
			continue
		}

		written, err := importFn(&record)
		switch {
		case err != nil:
			result.Errors = append(result.Errors, RestoreError{
				RecordType: recordType,
				RecordID:   idFn(&record),
				Error:      err.Error(),
			})
		case written:
			result.Imported[recordType]++
		default:
			result.Skipped[recordType]++
		}
	}
}

// Validate checks a backup archive without importing.
func (s *RestoreService) Validate(_ context.Context, path string) (*ValidationResult, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return &ValidationResult{
			Valid:  false,
			Errors: []string{fmt.Sprintf("failed to open backup: %v", err)},
		}, nil
	}
	defer zr.Close()

	result := &ValidationResult{Valid: true}

	rc, err := stream.OpenFile(zr, manifestFile)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, "missing manifest.json")
		return result, nil
	}

	var manifest Manifest
	if err := json.UnmarshalRead(rc, &manifest); err != nil {
		rc.Close()
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("invalid manifest: %v", err))
		return result, nil
	}
	rc.Close()

	result.Manifest = &manifest
	result.ExpectedCounts = manifest.Counts

	if manifest.Version != FormatVersion {
		result.Valid = false
		result.Errors = append(result.Errors,
			fmt.Sprintf("unsupported version %s (want %s)", manifest.Version, FormatVersion))
	}

	for _, required := range []string{usersFile, booksFile, bookListsFile, reviewsFile} {
		if _, err := stream.OpenFile(zr, required); err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("missing file: %s", required))
		}
	}

	return result, nil
}
