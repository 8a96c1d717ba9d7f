package workspace

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/yearlit/internal/constants"
	"github.com/julianstephens/yearlit/internal/dates"
	"github.com/julianstephens/yearlit/internal/ids"
	"github.com/julianstephens/yearlit/internal/lock"
	"github.com/julianstephens/yearlit/internal/merge"
	"github.com/julianstephens/yearlit/internal/models"
	"github.com/julianstephens/yearlit/internal/storage"
)

var testNow = time.Date(2024, 8, 15, 12, 0, 0, 0, time.UTC)

func newTestWorkspace(t *testing.T, store storage.Provider) *Workspace {
	t.Helper()
	if store == nil {
		store = storage.NewMemoryStore()
	}
	w := New(store, Options{
		Clock:    dates.FixedClock(testNow),
		IDs:      &ids.Sequence{Prefix: "id"},
		Timezone: "UTC",
	})
	if _, err := w.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return w
}

func storedJSON(t *testing.T, store storage.Provider, key string) any {
	t.Helper()
	text, ok, err := store.Get(key)
	if err != nil || !ok {
		t.Fatalf("key %s not stored (ok %v, err %v)", key, ok, err)
	}
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		t.Fatalf("key %s holds invalid JSON: %v", key, err)
	}
	return v
}

func TestLoadDefaults(t *testing.T) {
	w := newTestWorkspace(t, nil)
	s := w.State()

	if len(s.Entries) != 0 || s.Entries == nil {
		t.Errorf("Entries = %#v, want empty map", s.Entries)
	}
	expected := []models.Range{{ID: "id1", Name: "Q3 2024", StartISO: "2024-07-01", EndISO: "2024-09-30"}}
	if diff := cmp.Diff(expected, s.Ranges); diff != "" {
		t.Errorf("default ranges mismatch (-want +got):\n%s", diff)
	}
	if s.ViewPref != nil || s.GuideDismissed {
		t.Errorf("unexpected view pref %+v / guide %v", s.ViewPref, s.GuideDismissed)
	}
}

func TestLoadNormalizesStoredValues(t *testing.T) {
	store := storage.NewMemoryStore()
	store.Set(constants.KeyEntries, `{"2024-01-01": {"state": 3, "note": "ok"}, "2024-02-30": {"state": 1}, "2024-01-02": {"state": 7}}`)
	store.Set(constants.KeyRanges, `[{"id": "a", "name": "Trip", "startISO": "2024-01-10", "endISO": "2024-01-01"}]`)
	store.Set(constants.KeyViewPref, `{"calendarMode": "range", "anchorISO": "nope"}`)
	store.Set(constants.KeyGuideDismissed, `true`)

	w := newTestWorkspace(t, store)
	s := w.State()

	if diff := cmp.Diff(models.Entries{"2024-01-01": {State: 3, Note: "ok"}}, s.Entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
	// Stored but fully invalid ranges stay empty rather than reverting to defaults
	if s.Ranges == nil || len(s.Ranges) != 0 {
		t.Errorf("Ranges = %#v, want empty non-nil slice", s.Ranges)
	}
	if s.ViewPref == nil || s.ViewPref.Mode() != constants.CalendarModeRange || s.ViewPref.AnchorISO != nil {
		t.Errorf("ViewPref = %+v, want range mode without anchor", s.ViewPref)
	}
	if !s.GuideDismissed {
		t.Error("GuideDismissed not loaded")
	}
}

func TestLoadTreatsCorruptValuesAsMissing(t *testing.T) {
	store := storage.NewMemoryStore()
	store.Set(constants.KeyEntries, `{not json`)
	store.Set(constants.KeyRanges, `also broken`)

	w := newTestWorkspace(t, store)
	s := w.State()
	if len(s.Entries) != 0 {
		t.Errorf("Entries = %#v, want empty", s.Entries)
	}
	if len(s.Ranges) != 1 || s.Ranges[0].Name != "Q3 2024" {
		t.Errorf("Ranges = %#v, want default quarter range", s.Ranges)
	}
}

func TestSaveAndReload(t *testing.T) {
	store := storage.NewMemoryStore()
	w := newTestWorkspace(t, store)

	mode := constants.CalendarModeCustom
	start, end := "2024-03-01", "2024-03-31"
	s := State{
		Entries:        models.Entries{"2024-03-02": {State: 2, Note: "tired"}},
		Ranges:         []models.Range{{ID: "r", Name: "March", StartISO: start, EndISO: end, Color: models.ColorPink}},
		ViewPref:       &models.ViewPref{CalendarMode: &mode, CustomStartISO: &start, CustomEndISO: &end},
		GuideDismissed: true,
	}
	if err := w.Save(s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded := newTestWorkspace(t, store)
	if diff := cmp.Diff(s, reloaded.State()); diff != "" {
		t.Errorf("reloaded state mismatch (-want +got):\n%s", diff)
	}

	// Save copies its input
	s.Entries["2024-03-03"] = models.Entry{State: 1}
	if _, ok, _ := w.Entry("2024-03-03", ""); ok {
		t.Error("Save aliased the caller's entry map")
	}
}

func TestSaveClearsViewPref(t *testing.T) {
	store := storage.NewMemoryStore()
	w := newTestWorkspace(t, store)

	anchor := "2024-01-01"
	if err := w.SetViewPref(&models.ViewPref{AnchorISO: &anchor}); err != nil {
		t.Fatalf("SetViewPref failed: %v", err)
	}
	if _, ok, _ := store.Get(constants.KeyViewPref); !ok {
		t.Fatal("view pref not stored")
	}
	if err := w.SetViewPref(nil); err != nil {
		t.Fatalf("SetViewPref(nil) failed: %v", err)
	}
	if _, ok, _ := store.Get(constants.KeyViewPref); ok {
		t.Error("view pref still stored after clearing")
	}
}

func TestDismissGuide(t *testing.T) {
	store := storage.NewMemoryStore()
	w := newTestWorkspace(t, store)
	if err := w.DismissGuide(); err != nil {
		t.Fatalf("DismissGuide failed: %v", err)
	}
	if v := storedJSON(t, store, constants.KeyGuideDismissed); v != true {
		t.Errorf("stored guideDismissed = %v, want true", v)
	}
}

func TestOperationsRequireLoad(t *testing.T) {
	w := New(storage.NewMemoryStore(), Options{})
	if _, err := w.SetEntry("2024-01-01", 3, "", ""); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("SetEntry before Load = %v, want ErrNotLoaded", err)
	}
	if _, err := w.Export(); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Export before Load = %v, want ErrNotLoaded", err)
	}
}

func TestImportMergeAndOverwrite(t *testing.T) {
	store := storage.NewMemoryStore()
	w := newTestWorkspace(t, store)
	if _, err := w.SetEntry("2024-08-01", 2, "", ""); err != nil {
		t.Fatalf("SetEntry failed: %v", err)
	}

	payload := []byte(`{
		"entries": {"2024-08-01": {"state": 5, "note": "imported"}, "2024-08-02": {"state": 1}},
		"ranges": [{"id": "id1", "name": "Q3 2024", "startISO": "2024-07-01", "endISO": "2024-09-30"}],
		"viewPref": {"calendarMode": "range"}
	}`)

	summary, err := w.Import(payload, merge.PolicyMerge)
	if err != nil {
		t.Fatalf("Import merge failed: %v", err)
	}
	if summary.EntriesTotal != 2 || summary.RangesTotal != 2 {
		t.Errorf("merge summary = %+v, want 2 entries and 2 ranges", summary)
	}
	s := w.State()
	if s.Entries["2024-08-01"].Note != "imported" {
		t.Errorf("incoming entry did not replace local one: %+v", s.Entries["2024-08-01"])
	}
	if s.Ranges[1].ID == "id1" || s.Ranges[1].Name != "Q3 2024-2" {
		t.Errorf("colliding range = %+v, want fresh id and suffixed name", s.Ranges[1])
	}
	if s.ViewPref != nil {
		t.Error("merge applied the incoming view pref")
	}

	if _, err := w.Import(payload, merge.PolicyOverwrite); err != nil {
		t.Fatalf("Import overwrite failed: %v", err)
	}
	s = w.State()
	if len(s.Ranges) != 1 || s.Ranges[0].ID != "id1" {
		t.Errorf("overwrite ranges = %+v, want the single imported range", s.Ranges)
	}
	if s.ViewPref.Mode() != constants.CalendarModeRange {
		t.Errorf("overwrite did not apply view pref: %+v", s.ViewPref)
	}

	// Result is persisted
	reloaded := newTestWorkspace(t, store)
	if diff := cmp.Diff(s, reloaded.State()); diff != "" {
		t.Errorf("persisted state mismatch (-want +got):\n%s", diff)
	}
}

func TestImportRejectsBadPayload(t *testing.T) {
	w := newTestWorkspace(t, nil)
	before := w.State()

	if _, err := w.Import([]byte(`[1,2,3]`), merge.PolicyOverwrite); err == nil {
		t.Fatal("expected error for non-object payload")
	}
	if diff := cmp.Diff(before, w.State()); diff != "" {
		t.Errorf("failed import changed state (-want +got):\n%s", diff)
	}
}

func TestExportRoundTrip(t *testing.T) {
	w := newTestWorkspace(t, nil)
	if _, err := w.SetEntry("2024-08-10", 4, "good", ""); err != nil {
		t.Fatal(err)
	}
	r, err := w.AddRange(Draft{Name: "Sprint", StartISO: "2024-08-01", EndISO: "2024-08-14", Color: models.ColorBlue})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.AddMilestone(r.ID, "ship"); err != nil {
		t.Fatal(err)
	}
	want := w.State()

	data, err := w.Export()
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	other := newTestWorkspace(t, nil)
	if _, err := other.Import(data, merge.PolicyOverwrite); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if diff := cmp.Diff(want, other.State()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestImportHonoursWriterLock(t *testing.T) {
	dir := t.TempDir()
	w := New(storage.NewMemoryStore(), Options{
		Clock:    dates.FixedClock(testNow),
		IDs:      &ids.Sequence{},
		Timezone: "UTC",
		LockDir:  dir,
	})
	if _, err := w.Load(); err != nil {
		t.Fatal(err)
	}

	if _, err := w.Import([]byte(`{"entries": {}}`), merge.PolicyMerge); err != nil {
		t.Fatalf("Import with free lock failed: %v", err)
	}
	if _, held := lock.Status(dir); held {
		t.Error("lock still held after Import returned")
	}

	err := w.Exclusive(func() error {
		_, err := w.Import([]byte(`{"entries": {}}`), merge.PolicyMerge)
		return err
	})
	if err != nil {
		t.Errorf("nested Import inside Exclusive failed: %v", err)
	}
}
