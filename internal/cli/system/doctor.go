package system

import (
	"fmt"
	"strings"

	"github.com/julianstephens/yearlit/internal/cli"
	"github.com/julianstephens/yearlit/internal/constants"
	"github.com/julianstephens/yearlit/internal/dates"
	"github.com/julianstephens/yearlit/internal/ids"
	"github.com/julianstephens/yearlit/internal/lock"
	"github.com/julianstephens/yearlit/internal/normalize"
	"github.com/julianstephens/yearlit/internal/storage"
	"github.com/julianstephens/yearlit/internal/transfer"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	storeReachable := false

	// Check 1: Store reachable
	if err := checkStoreReachable(ctx); err != nil {
		ctx.Printf("❌ Store reachable: FAIL\n")
		ctx.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		ctx.Printf("✓ Store reachable: OK\n")
		storeReachable = true
	}

	// Check 2: Schema version (only if the store is reachable and versioned)
	if versioned, ok := ctx.Store.(storage.Versioned); !ok {
		ctx.Printf("⊘ Schema version: SKIPPED (store has no schema)\n")
	} else if !storeReachable {
		ctx.Printf("⊘ Schema version: SKIPPED (store not reachable)\n")
	} else if err := checkSchemaVersion(versioned); err != nil {
		ctx.Printf("❌ Schema version: FAIL\n")
		ctx.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		ctx.Printf("✓ Schema version: OK\n")
	}

	// Check 3: Backups present (warning only)
	if err := checkBackupsPresent(ctx); err != nil {
		ctx.Printf("⚠ Backups present: WARNING\n")
		ctx.Printf("   %v\n", err)
	} else {
		ctx.Printf("✓ Backups present: OK\n")
	}

	// Check 4: Stored values survive normalization
	if storeReachable {
		if err := checkStoredData(ctx.Store); err != nil {
			ctx.Printf("❌ Data validation: FAIL\n")
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			ctx.Printf("✓ Data validation: OK\n")
		}
	} else {
		ctx.Printf("⊘ Data validation: SKIPPED (store not reachable)\n")
	}

	// Check 5: Timezone
	if err := checkTimezone(ctx); err != nil {
		ctx.Printf("❌ Clock/timezone: FAIL\n")
		ctx.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		ctx.Printf("✓ Clock/timezone: OK\n")
	}

	// Check 6: Writer lock (warning only)
	if holder, held := lock.Status(ctx.ConfigDir); held {
		ctx.Printf("⚠ Writer lock: WARNING\n")
		ctx.Printf("   Held by %s (PID %d) since %s\n", holder.Executable, holder.PID, holder.AcquiredAt.Format("2006-01-02 15:04"))
	} else {
		ctx.Printf("✓ Writer lock: OK\n")
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}
	if _, err := ctx.Store.Keys(); err != nil {
		return fmt.Errorf("failed to query store: %w", err)
	}
	return nil
}

func checkSchemaVersion(v storage.Versioned) error {
	current, err := v.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	latest, err := v.LatestSchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read embedded migrations: %w", err)
	}
	if current < latest {
		return fmt.Errorf("schema version %d is behind %d, run '%s init' to migrate", current, latest, constants.AppName)
	}
	if current > latest {
		return fmt.Errorf("schema version %d is newer than this binary supports (%d)", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	backups, err := ctx.Backups().List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found in %s, run '%s backup create'", ctx.Backups().Dir(), constants.AppName)
	}
	return nil
}

// checkStoredData reports values that the normalizer would drop on load
func checkStoredData(store storage.Provider) error {
	var problems []string
	for _, key := range []string{constants.KeyEntries, constants.KeyRanges, constants.KeyViewPref, constants.KeyGuideDismissed} {
		text, ok, err := store.Get(key)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", key, err)
		}
		if !ok {
			continue
		}
		raw, err := transfer.Decode([]byte(text))
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s is not valid JSON", key))
			continue
		}

		switch key {
		case constants.KeyEntries:
			obj, isObj := raw.(map[string]any)
			if !isObj {
				problems = append(problems, fmt.Sprintf("%s is not an object", key))
			} else if kept := len(normalize.Entries(raw)); kept != len(obj) {
				problems = append(problems, fmt.Sprintf("%d of %d stored entries are invalid", len(obj)-kept, len(obj)))
			}
		case constants.KeyRanges:
			list, isList := raw.([]any)
			if !isList {
				problems = append(problems, fmt.Sprintf("%s is not a list", key))
			} else if kept := len(normalize.Ranges(raw, &ids.Sequence{})); kept != len(list) {
				problems = append(problems, fmt.Sprintf("%d of %d stored ranges are invalid", len(list)-kept, len(list)))
			}
		case constants.KeyViewPref:
			if raw != nil && normalize.ViewPref(raw) == nil {
				problems = append(problems, fmt.Sprintf("%s holds no usable view settings", key))
			}
		case constants.KeyGuideDismissed:
			if _, isBool := raw.(bool); !isBool {
				problems = append(problems, fmt.Sprintf("%s is not a boolean", key))
			}
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%s (invalid values are dropped on the next save)", strings.Join(problems, "; "))
	}
	return nil
}

func checkTimezone(ctx *cli.Context) error {
	tz := ctx.Config.Timezone
	if !dates.ValidateTimezone(tz) {
		return fmt.Errorf("unknown timezone %q", tz)
	}
	today, err := dates.Today(ctx.Workspace.Clock(), tz)
	if err != nil {
		return err
	}
	if !dates.IsISODate(today) {
		return fmt.Errorf("clock produced invalid date %q", today)
	}
	return nil
}
