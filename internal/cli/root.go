package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/yearlit/internal/backup"
	"github.com/julianstephens/yearlit/internal/config"
	"github.com/julianstephens/yearlit/internal/logger"
	"github.com/julianstephens/yearlit/internal/models"
	"github.com/julianstephens/yearlit/internal/storage"
	"github.com/julianstephens/yearlit/internal/workspace"
)

type Context struct {
	Store     storage.Provider
	Workspace *workspace.Workspace
	Config    config.Config
	// ConfigDir holds config.toml, backups, logs and the writer lock
	ConfigDir string
	// Out defaults to stdout
	Out io.Writer
	// In defaults to stdin; used for confirmation prompts
	In io.Reader
}

func (c *Context) Stdout() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Stdin() io.Reader {
	if c.In == nil {
		return os.Stdin
	}
	return c.In
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Stdout(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Stdout(), args...)
}

// ConfigPath returns the location of config.toml
func (c *Context) ConfigPath() string {
	return config.Path(c.ConfigDir)
}

// Backups returns the backup manager for this config directory
func (c *Context) Backups() *backup.Manager {
	return backup.NewManager(c.ConfigDir, c.Workspace.Clock())
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if _, err := c.Backups().Create(c.Workspace); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Confirm asks a yes/no question on Out and reads the answer from In
func (c *Context) Confirm(prompt string) (bool, error) {
	c.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(c.Stdin())
	response, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// ResolveRange finds a range by id or name. An empty ref picks the active
// range from the view preference.
func (c *Context) ResolveRange(ref string) (models.Range, error) {
	if ref == "" {
		if p := c.Workspace.State().ViewPref; p != nil && p.ActiveRangeID != nil {
			ref = *p.ActiveRangeID
		}
	}
	if ref == "" {
		return models.Range{}, fmt.Errorf("no range given and no active range set")
	}
	return c.Workspace.FindRange(ref)
}
