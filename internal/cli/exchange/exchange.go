package exchange

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/julianstephens/yearlit/internal/cli"
	"github.com/julianstephens/yearlit/internal/merge"
	"github.com/julianstephens/yearlit/internal/transfer"
)

type ImportCmd struct {
	File string `arg:"" help:"JSON file to import, or - for stdin."`
	Mode string `help:"How to combine with existing data: merge or overwrite. Defaults to the import_policy setting."`
	Yes  bool   `short:"y" help:"Skip the confirmation prompt for overwrite imports."`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	policy := ctx.Config.Policy()
	if c.Mode != "" {
		p, err := merge.ParsePolicy(c.Mode)
		if err != nil {
			return err
		}
		policy = p
	}

	data, err := c.read(ctx)
	if err != nil {
		return err
	}
	// Fail on malformed input before prompting or backing up
	if _, err := transfer.Decode(data); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	if policy == merge.PolicyOverwrite {
		if !c.Yes {
			if c.File == "-" {
				return fmt.Errorf("overwrite imports from stdin need --yes")
			}
			ok, err := ctx.Confirm("⚠️  Overwrite replaces all current entries and ranges. Continue?")
			if err != nil {
				return err
			}
			if !ok {
				ctx.Println("Import cancelled.")
				return nil
			}
		}
		ctx.PerformAutomaticBackup()
	}

	summary, err := ctx.Workspace.Import(data, policy)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	ctx.Printf("✓ Imported %d entries and %d ranges (%s)\n", summary.EntriesImported, summary.RangesImported, summary.Policy)
	ctx.Printf("  Now tracking %d entries and %d ranges\n", summary.EntriesTotal, summary.RangesTotal)
	if summary.ViewPrefApplied {
		ctx.Println("  View preference restored")
	}
	return nil
}

func (c *ImportCmd) read(ctx *cli.Context) ([]byte, error) {
	var r io.Reader = ctx.Stdin()
	if c.File != "-" {
		f, err := os.Open(c.File)
		if err != nil {
			return nil, fmt.Errorf("failed to open import file: %w", err)
		}
		defer f.Close()
		r = f
	}
	return transfer.Read(r)
}

type ExportCmd struct {
	Out   string `short:"o" help:"Write the snapshot to this file instead of stdout."`
	Force bool   `help:"Overwrite the output file if it exists."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	data, err := ctx.Workspace.Export()
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if c.Out == "" || c.Out == "-" {
		_, err := ctx.Stdout().Write(append(data, '\n'))
		return err
	}

	if err := os.MkdirAll(filepath.Dir(c.Out), 0700); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if c.Force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(c.Out, flags, 0600)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%s already exists, use --force to replace it", c.Out)
		}
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write export file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	s := ctx.Workspace.State()
	ctx.Printf("✓ Exported %d entries and %d ranges to %s\n", len(s.Entries), len(s.Ranges), c.Out)
	return nil
}
