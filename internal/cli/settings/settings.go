package settings

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/yearlit/internal/cli"
	"github.com/julianstephens/yearlit/internal/config"
	"github.com/julianstephens/yearlit/internal/constants"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Store        *string `help:"Store location: a file path (.db for SQLite, .json for JSON) or 'postgres' to use the keyring/env connection."`
	Timezone     *string `help:"IANA timezone that decides what 'today' is (e.g. Europe/Berlin, Local)."`
	DefaultMode  *string `help:"Calendar mode shown when no view is saved: year, range or custom."`
	ImportPolicy *string `help:"Default import policy: merge or overwrite."`
	Debug        *bool   `help:"Enable debug logging to stderr."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	cfg := ctx.Config

	if c.List {
		ctx.Println("Current Settings:")
		for _, key := range config.Keys() {
			value, err := cfg.Get(key)
			if err != nil {
				return err
			}
			ctx.Printf("  %-14s %s\n", key+":", value)
		}
		ctx.Printf("\nConfig file: %s\n", ctx.ConfigPath())
		return nil
	}

	changes := []struct {
		key   string
		value *string
	}{
		{constants.SettingStore, c.Store},
		{constants.SettingTimezone, c.Timezone},
		{constants.SettingDefaultMode, c.DefaultMode},
		{constants.SettingImportPolicy, c.ImportPolicy},
	}
	if c.Debug != nil {
		v := strconv.FormatBool(*c.Debug)
		changes = append(changes, struct {
			key   string
			value *string
		}{constants.SettingDebug, &v})
	}

	updated := false
	for _, ch := range changes {
		if ch.value == nil {
			continue
		}
		if err := cfg.Set(ch.key, *ch.value); err != nil {
			return fmt.Errorf("invalid %s: %w", ch.key, err)
		}
		updated = true
	}

	if !updated {
		ctx.Println("No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}

	if err := config.Save(ctx.ConfigPath(), cfg); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.Config = cfg
	ctx.Println("Settings updated successfully.")
	if c.Store != nil || c.Timezone != nil {
		ctx.Println("Store and timezone changes apply from the next command.")
	}
	return nil
}
