package backup

import (
	"errors"
	"testing"

	"github.com/spf13/afero"

	"github.com/YangQing-Lin/springtint/internal/catalog"
	"github.com/YangQing-Lin/springtint/internal/errs"
)

func lookup(t *testing.T, kind catalog.Kind) catalog.Entry {
	t.Helper()
	e, err := catalog.Default().Lookup(kind)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	return e
}

func TestSnapshotKeepsFirstCopy(t *testing.T) {
	fsys := afero.NewMemMapFs()
	s := New(fsys, "/data")
	e := lookup(t, catalog.Folder)

	wrote, err := s.Snapshot(e, "folderDark", []byte("stock"))
	if err != nil || !wrote {
		t.Fatalf("Snapshot() = %v, %v", wrote, err)
	}
	wrote, err = s.Snapshot(e, "folderDark", []byte("tinted"))
	if err != nil || wrote {
		t.Fatalf("second Snapshot() = %v, %v, want no write", wrote, err)
	}

	data, err := s.Read(e, "folderDark")
	if err != nil || string(data) != "stock" {
		t.Fatalf("Read() = %q, %v", data, err)
	}
	if s.Path(e, "folderDark") != "/data/originals/folder/folderDark.materialrecipe" {
		t.Fatalf("unexpected path %s", s.Path(e, "folderDark"))
	}

	tmp, _ := afero.Glob(fsys, "/data/originals/folder/.tmp-*")
	if len(tmp) != 0 {
		t.Fatalf("临时文件未清理: %v", tmp)
	}
}

func TestListAndKinds(t *testing.T) {
	s := New(afero.NewMemMapFs(), "/data")

	kinds, err := s.Kinds(catalog.Default())
	if err != nil || len(kinds) != 0 {
		t.Fatalf("Kinds() on empty store = %v, %v", kinds, err)
	}

	folder := lookup(t, catalog.Folder)
	dock := lookup(t, catalog.Dock)
	if _, err := s.Snapshot(folder, "folderLight", []byte("abc")); err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if _, err := s.Snapshot(dock, "dockDark", []byte("abcd")); err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	held, err := s.List(folder)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(held) != 1 || held[0].Basename != "folderLight" || held[0].Size != 3 {
		t.Fatalf("List() = %+v", held)
	}

	kinds, err = s.Kinds(catalog.Default())
	if err != nil {
		t.Fatalf("Kinds() error = %v", err)
	}
	if len(kinds) != 2 || kinds[0] != catalog.Dock || kinds[1] != catalog.Folder {
		t.Fatalf("Kinds() = %v", kinds)
	}

	if err := s.Discard(catalog.Folder); err != nil {
		t.Fatalf("Discard() error = %v", err)
	}
	if s.Has(folder, "folderLight") {
		t.Fatalf("original should be discarded")
	}
	if err := s.Discard(catalog.Folder); err != nil {
		t.Fatalf("second Discard() error = %v", err)
	}
}

func TestReadMissing(t *testing.T) {
	s := New(afero.NewMemMapFs(), "/data")
	_, err := s.Read(lookup(t, catalog.Switcher), "homeScreenBackdrop-application")
	var readErr *errs.ReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("Read() error = %v, want ReadError", err)
	}
}

func TestSnapshotReadOnlyFs(t *testing.T) {
	s := New(afero.NewReadOnlyFs(afero.NewMemMapFs()), "/data")
	_, err := s.Snapshot(lookup(t, catalog.Dock), "dockDark", []byte("x"))
	var dirErr *errs.DirectoryError
	if !errors.As(err, &dirErr) {
		t.Fatalf("Snapshot() error = %v, want DirectoryError", err)
	}
}
