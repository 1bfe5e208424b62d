package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/dagaz/internal/models"
)

func testFile(t *testing.T) *File {
	t.Helper()
	f, err := NewFile(filepath.Join(t.TempDir(), "journal.json"))
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestLoad_MissingFile(t *testing.T) {
	f := testFile(t)
	entries, err := f.Load()
	if err != nil {
		t.Fatal(err)
	}
	if entries == nil || len(entries) != 0 {
		t.Errorf("Load = %v, want empty non-nil slice", entries)
	}
}

func TestLoad_MalformedJSON(t *testing.T) {
	f := testFile(t)
	if err := os.WriteFile(f.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	entries, err := f.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("Load of malformed journal = %v, want empty", entries)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	f := testFile(t)
	want := []models.Entry{
		{
			ID:      1,
			Title:   "First",
			Content: "<p>hello</p>",
			Mood:    "happy",
			Tags:    []string{"work", "notes"},
			Date:    models.Day{Year: 2026, Month: time.August, Date: 28},
			Time:    "21:04",
		},
		{
			ID:      2,
			Content: "untitled body",
			Date:    models.Day{Year: 2026, Month: time.August, Date: 27},
		},
	}
	if err := f.Save(want); err != nil {
		t.Fatal(err)
	}
	got, err := f.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(want) {
		t.Fatalf("loaded %d entries, want %d", len(got), len(want))
	}
	if got[0].ID != 1 || got[0].Title != "First" || got[0].Content != "<p>hello</p>" ||
		got[0].Mood != "happy" || got[0].Time != "21:04" {
		t.Errorf("entry 1 = %+v", got[0])
	}
	if len(got[0].Tags) != 2 || got[0].Tags[0] != "work" {
		t.Errorf("tags = %v", got[0].Tags)
	}
	if got[0].Date != want[0].Date {
		t.Errorf("date = %v, want %v", got[0].Date, want[0].Date)
	}
	if got[1].ID != 2 || got[1].Title != "" || got[1].Mood != "" {
		t.Errorf("entry 2 = %+v", got[1])
	}
}

func TestSave_NilCollection(t *testing.T) {
	f := testFile(t)
	if err := f.Save(nil); err != nil {
		t.Fatal(err)
	}
	entries, err := f.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %v, want empty", entries)
	}
}

func TestSave_ReplacesExisting(t *testing.T) {
	f := testFile(t)
	if err := f.Save([]models.Entry{{ID: 1, Content: "a"}, {ID: 2, Content: "b"}}); err != nil {
		t.Fatal(err)
	}
	if err := f.Save([]models.Entry{{ID: 2, Content: "b"}}); err != nil {
		t.Fatal(err)
	}
	entries, err := f.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].ID != 2 {
		t.Errorf("entries = %v, want only id 2", entries)
	}
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	f := testFile(t)
	if err := f.Save([]models.Entry{{ID: 1, Content: "a"}}); err != nil {
		t.Fatal(err)
	}
	matches, err := filepath.Glob(filepath.Join(filepath.Dir(f.Path()), ".dagaz-tmp-*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Errorf("temp files left behind: %v", matches)
	}
}

func TestBackup(t *testing.T) {
	f := testFile(t)
	if err := f.Save([]models.Entry{{ID: 7, Content: "keep me"}}); err != nil {
		t.Fatal(err)
	}
	dst := f.Path() + ".bak"
	if err := f.Backup(dst); err != nil {
		t.Fatal(err)
	}
	orig, err := os.ReadFile(f.Path())
	if err != nil {
		t.Fatal(err)
	}
	copied, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(orig) != string(copied) {
		t.Error("backup content differs from journal")
	}
}

func TestBackup_MissingJournal(t *testing.T) {
	f := testFile(t)
	if err := f.Backup(f.Path() + ".bak"); err != nil {
		t.Errorf("Backup of missing journal = %v, want nil", err)
	}
	if _, err := os.Stat(f.Path() + ".bak"); !os.IsNotExist(err) {
		t.Error("backup file should not exist when journal is missing")
	}
}
