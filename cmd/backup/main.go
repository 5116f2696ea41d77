// Package main provides a command line tool for creating, inspecting, and
// restoring database backups.
//
// Usage:
//
//	DB_PATH=~/leaflist/db go run ./cmd/backup create
//	DB_PATH=~/leaflist/db go run ./cmd/backup list
//	DB_PATH=~/leaflist/db go run ./cmd/backup validate <path>
//	DB_PATH=~/leaflist/db go run ./cmd/backup restore --mode=merge --strategy=keep_local <path>
//	DB_PATH=~/leaflist/db go run ./cmd/backup delete <id>
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/leaflist/leaflist-server/internal/backup"
	"github.com/leaflist/leaflist-server/internal/store"
)

const version = "1.0.0"

func main() {
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/leaflist/db")
	}
	backupDir := os.Getenv("BACKUP_DIR")
	if backupDir == "" {
		backupDir = filepath.Join(filepath.Dir(dbPath), "backups")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	s, err := store.New(dbPath, logger)
	if err != nil {
		fatalf("open store: %v", err)
	}
	defer s.Close()

	svc := backup.NewBackupService(s, backupDir, "leaflist", version, logger)
	restoreSvc := backup.NewRestoreService(s, logger)
	ctx := context.Background()

	cmd, args := flag.Arg(0), flag.Args()[1:]
	switch cmd {
	case "create":
		runCreate(ctx, svc, args)
	case "list":
		runList(ctx, svc)
	case "validate":
		runValidate(ctx, restoreSvc, args)
	case "restore":
		runRestore(ctx, restoreSvc, args)
	case "delete":
		runDelete(ctx, svc, args)
	default:
		fatalf("unknown command %q", cmd)
	}
}

func runCreate(ctx context.Context, svc *backup.BackupService, args []string) {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	output := fs.String("output", "", "Output path for the backup file")
	fs.Parse(args)

	result, err := svc.Create(ctx, backup.BackupOptions{OutputPath: *output})
	if err != nil {
		fatalf("create backup: %v", err)
	}

	fmt.Printf("Backup written to %s\n", result.Path)
	fmt.Printf("  Size: %d bytes\n", result.Size)
	fmt.Printf("  Checksum: %s\n", result.Checksum)
	fmt.Printf("  Users: %d, Books: %d, Booklists: %d, Reviews: %d\n",
		result.Counts.Users, result.Counts.Books, result.Counts.BookLists, result.Counts.Reviews)
	fmt.Printf("  Took %s\n", result.Duration)
}

func runList(ctx context.Context, svc *backup.BackupService) {
	backups, err := svc.List(ctx)
	if err != nil {
		fatalf("list backups: %v", err)
	}
	if len(backups) == 0 {
		fmt.Println("No backups found.")
		return
	}
	for _, b := range backups {
		fmt.Printf("%s  %10d bytes  %s\n", b.CreatedAt.Format("2006-01-02 15:04:05"), b.Size, b.ID)
	}
}

func runValidate(ctx context.Context, svc *backup.RestoreService, args []string) {
	if len(args) != 1 {
		fatalf("usage: backup validate <path>")
	}

	result, err := svc.Validate(ctx, args[0])
	if err != nil {
		fatalf("validate backup: %v", err)
	}

	if result.Manifest != nil {
		fmt.Printf("Manifest version %s, created %s by %s\n",
			result.Manifest.Version, result.Manifest.CreatedAt.Format("2006-01-02 15:04:05"), result.Manifest.ServerName)
		fmt.Printf("Expected records: %d users, %d books, %d booklists, %d reviews\n",
			result.ExpectedCounts.Users, result.ExpectedCounts.Books,
			result.ExpectedCounts.BookLists, result.ExpectedCounts.Reviews)
	}
	for _, w := range result.Warnings {
		fmt.Printf("Warning: %s\n", w)
	}
	for _, e := range result.Errors {
		fmt.Printf("Error: %s\n", e)
	}
	if !result.Valid {
		os.Exit(1)
	}
	fmt.Println("Backup is valid.")
}

func runRestore(ctx context.Context, svc *backup.RestoreService, args []string) {
	fs := flag.NewFlagSet("restore", flag.ExitOnError)
	mode := fs.String("mode", "merge", "Restore mode: full or merge")
	strategy := fs.String("strategy", "keep_local", "Merge conflict strategy: keep_local or keep_backup")
	dryRun := fs.Bool("dry-run", false, "Validate and count without writing")
	fs.Parse(args)

	if fs.NArg() != 1 {
		fatalf("usage: backup restore [flags] <path>")
	}

	opts := backup.RestoreOptions{
		Mode:          backup.RestoreMode(*mode),
		MergeStrategy: backup.MergeStrategy(*strategy),
		DryRun:        *dryRun,
	}

	if opts.Mode == backup.RestoreModeFull && !opts.DryRun {
		fmt.Print("Full restore wipes all existing data. Continue? [y/N] ")
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("Aborted.")
			return
		}
	}

	result, err := svc.Restore(ctx, fs.Arg(0), opts)
	if err != nil {
		fatalf("restore backup: %v", err)
	}

	if *dryRun {
		fmt.Println("Dry run; nothing was written.")
	}
	for _, recordType := range []string{"user", "book", "book_list", "review"} {
		fmt.Printf("  %s: %d imported, %d skipped\n", recordType, result.Imported[recordType], result.Skipped[recordType])
	}
	for _, e := range result.Errors {
		fmt.Printf("  error: %s %s: %s\n", e.RecordType, e.RecordID, e.Error)
	}
	fmt.Printf("Took %s\n", result.Duration)
}

func runDelete(ctx context.Context, svc *backup.BackupService, args []string) {
	if len(args) != 1 {
		fatalf("usage: backup delete <id>")
	}
	if err := svc.Delete(ctx, args[0]); err != nil {
		fatalf("delete backup: %v", err)
	}
	fmt.Println("Backup deleted.")
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: backup <create|list|validate|restore|delete> [flags] [args]")
	flag.PrintDefaults()
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
