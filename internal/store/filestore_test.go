package store

import (
	"path/filepath"
	"testing"

	"github.com/planforge/planforge/internal/plan"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "planforge"))
}

func TestFileStore_JSONRoundTrip(t *testing.T) {
	s := newTestFileStore(t)

	in := plan.Project{ID: "p1", Name: "Demo", Status: plan.ProjectActive}
	if err := s.WriteJSON(KeyProject, in); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var out plan.Project
	found, err := s.ReadJSON(KeyProject, &out)
	if err != nil || !found {
		t.Fatalf("ReadJSON: found=%v err=%v", found, err)
	}
	if out.Name != "Demo" || out.Status != plan.ProjectActive {
		t.Errorf("round-trip mismatch: %+v", out)
	}
}

func TestFileStore_ReadMissingIsNotError(t *testing.T) {
	s := newTestFileStore(t)

	var out plan.Project
	found, err := s.ReadJSON("nope.json", &out)
	if err != nil {
		t.Fatalf("ReadJSON of missing key: %v", err)
	}
	if found {
		t.Error("ReadJSON of missing key should report not found")
	}

	if _, found, err := s.ReadText("nope.md"); err != nil || found {
		t.Errorf("ReadText of missing key: found=%v err=%v", found, err)
	}
}

func TestFileStore_YAMLRoundTrip(t *testing.T) {
	s := newTestFileStore(t)

	in := plan.Config{Version: "1", LockTimeoutMinutes: 5}
	if err := s.WriteYAML(KeyConfig, in); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	var out plan.Config
	found, err := s.ReadYAML(KeyConfig, &out)
	if err != nil || !found {
		t.Fatalf("ReadYAML: found=%v err=%v", found, err)
	}
	if out.LockTimeoutMinutes != 5 {
		t.Errorf("round-trip mismatch: %+v", out)
	}
}

func TestFileStore_TextAndExistsAndDelete(t *testing.T) {
	s := newTestFileStore(t)

	key := EpicKey("E1-auth", FilePRD)
	if err := s.WriteText(key, "### R1: something\n"); err != nil {
		t.Fatalf("WriteText: %v", err)
	}

	content, found, err := s.ReadText(key)
	if err != nil || !found {
		t.Fatalf("ReadText: found=%v err=%v", found, err)
	}
	if content != "### R1: something\n" {
		t.Errorf("ReadText = %q", content)
	}

	if ok, _ := s.Exists(key); !ok {
		t.Error("Exists should be true after write")
	}
	if err := s.Delete(key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if ok, _ := s.Exists(key); ok {
		t.Error("Exists should be false after delete")
	}
	if err := s.Delete(key); err != nil {
		t.Errorf("Delete of absent key should not error: %v", err)
	}
}

func TestFileStore_ListSeparatesFilesAndDirectories(t *testing.T) {
	s := newTestFileStore(t)

	if err := s.WriteJSON(EpicKey("E1-auth", FileEpic), plan.Epic{ID: "E1"}); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteJSON(EpicKey("E2-billing", FileEpic), plan.Epic{ID: "E2"}); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteText(EpicKey("E1-auth", FilePRD), "# prd"); err != nil {
		t.Fatal(err)
	}

	dirs, err := s.ListDirectories(DirEpics)
	if err != nil {
		t.Fatalf("ListDirectories: %v", err)
	}
	if len(dirs) != 2 || dirs[0] != "E1-auth" || dirs[1] != "E2-billing" {
		t.Errorf("ListDirectories = %v", dirs)
	}

	files, err := s.List(DirEpics + "/E1-auth")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(files) != 2 { // epic.json, prd.md
		t.Errorf("List = %v", files)
	}

	// Missing prefix lists empty.
	if got, err := s.List("milestones/M9"); err != nil || got != nil {
		t.Errorf("List of missing prefix = %v, %v", got, err)
	}
}

func TestFileStore_IsInitialized(t *testing.T) {
	s := newTestFileStore(t)
	if s.IsInitialized() {
		t.Error("fresh store should not be initialized")
	}
	if err := s.WriteJSON(KeyProject, plan.Project{ID: "p1"}); err != nil {
		t.Fatal(err)
	}
	if !s.IsInitialized() {
		t.Error("store with project.json should be initialized")
	}
}

func TestFileStore_EnsureDirectory(t *testing.T) {
	s := newTestFileStore(t)
	if err := s.EnsureDirectory(DirValidation); err != nil {
		t.Fatalf("EnsureDirectory: %v", err)
	}
	// Idempotent.
	if err := s.EnsureDirectory(DirValidation); err != nil {
		t.Errorf("EnsureDirectory twice: %v", err)
	}
}
