package storage

import (
	"path/filepath"
	"testing"
)

func TestSQLiteStore_RoundTrip(t *testing.T) {
	s, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "board.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	if _, ok := s.ReadKey("a"); ok {
		t.Error("fresh store returned a value")
	}
	if err := s.WriteKey("a", "1"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if v, ok := s.ReadKey("a"); !ok || v != "1" {
		t.Errorf("ReadKey(a) = %q,%v", v, ok)
	}
	// Upsert.
	if err := s.WriteKey("a", "2"); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if v, _ := s.ReadKey("a"); v != "2" {
		t.Errorf("ReadKey(a) = %q after rewrite, want 2", v)
	}
	if err := s.DeleteKey("a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := s.ReadKey("a"); ok {
		t.Error("key survived delete")
	}
}
