package backups

import (
	"fmt"
	"path/filepath"

	"github.com/julianstephens/yearlit/internal/cli"
	"github.com/julianstephens/yearlit/internal/constants"
	"github.com/julianstephens/yearlit/internal/storage/sqlite"
)

type BackupCreateCmd struct {
	DatabaseCopy string `name:"database-copy" help:"Also write a raw copy of the SQLite database to this path (SQLite stores only)."`
}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	backupPath, err := ctx.Backups().Create(ctx.Workspace)
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	ctx.Printf("✓ Backup created: %s\n", filepath.Base(backupPath))

	if c.DatabaseCopy != "" {
		store, ok := ctx.Store.(*sqlite.Store)
		if !ok {
			return fmt.Errorf("--database-copy needs an SQLite store")
		}
		if err := store.Backup(c.DatabaseCopy); err != nil {
			return err
		}
		ctx.Printf("✓ Database copied to: %s\n", c.DatabaseCopy)
	}
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr := ctx.Backups()
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		ctx.Println("No backups found.")
		ctx.Printf("Backups are stored in: %s\n", mgr.Dir())
		return nil
	}

	ctx.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	for _, b := range backups {
		sizeKB := float64(b.Size) / 1024.0
		timestamp := b.Timestamp.Format("2006-01-02 15:04")
		ctx.Printf("  %s  %s  (%.1f KB)\n", timestamp, filepath.Base(b.Path), sizeKB)
	}
	ctx.Printf("\nBackup directory: %s\n", mgr.Dir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr := ctx.Backups()
	backupPath, err := mgr.Resolve(c.BackupFile)
	if err != nil {
		return err
	}

	if !c.Yes {
		ctx.Println("⚠️  WARNING: This will replace all entries and ranges with the backup.")
		ctx.Println("A backup of your current data will be created before restoring.")
		ctx.Printf("\nRestore from: %s\n", backupPath)
		ok, err := ctx.Confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Restore cancelled.")
			return nil
		}
	}

	previous, summary, err := mgr.Restore(ctx.Workspace, backupPath)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	ctx.Printf("✓ Restored %d entries and %d ranges from %s\n", summary.EntriesTotal, summary.RangesTotal, filepath.Base(backupPath))
	ctx.Printf("  Previous data saved to: %s\n", filepath.Base(previous))
	return nil
}
