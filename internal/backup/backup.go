// Package backup keeps pristine copies of protected files taken the first
// time each one is overwritten, so a kind can be put back to stock later.
package backup

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"github.com/YangQing-Lin/springtint/internal/catalog"
	"github.com/YangQing-Lin/springtint/internal/errs"
)

// DirName is the name of the originals directory under the data directory
const DirName = "originals"

// Info describes one stored original
type Info struct {
	Kind     catalog.Kind
	Basename string
	Path     string
	Size     int64
}

// Store holds originals as {parent}/originals/{kind}/{basename}{ext}
type Store struct {
	fs     afero.Fs
	parent string
}

// New creates a Store under parent
func New(fsys afero.Fs, parent string) *Store {
	return &Store{fs: fsys, parent: parent}
}

// Dir returns the originals directory
func (s *Store) Dir() string {
	return filepath.Join(s.parent, DirName)
}

func (s *Store) kindDir(kind catalog.Kind) string {
	return filepath.Join(s.Dir(), kind.String())
}

// Path returns where the original of basename is kept
func (s *Store) Path(entry catalog.Entry, basename string) string {
	return filepath.Join(s.kindDir(entry.Kind), entry.FileName(basename))
}

// Has reports whether an original is held for basename
func (s *Store) Has(entry catalog.Entry, basename string) bool {
	ok, err := afero.Exists(s.fs, s.Path(entry, basename))
	return err == nil && ok
}

// Snapshot keeps data as the original of basename unless one is already
// held. It reports whether anything was written.
func (s *Store) Snapshot(entry catalog.Entry, basename string, data []byte) (bool, error) {
	if s.Has(entry, basename) {
		return false, nil
	}

	dir := s.kindDir(entry.Kind)
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return false, &errs.DirectoryError{Path: dir, Err: err}
	}

	tmp, err := afero.TempFile(s.fs, dir, ".tmp-*")
	if err != nil {
		return false, &errs.DirectoryError{Path: dir, Err: err}
	}
	tmpName := tmp.Name()
	defer s.fs.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return false, &errs.DirectoryError{Path: dir, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return false, &errs.DirectoryError{Path: dir, Err: err}
	}
	if err := s.fs.Rename(tmpName, s.Path(entry, basename)); err != nil {
		return false, &errs.DirectoryError{Path: dir, Err: err}
	}
	return true, nil
}

// Read returns the original of basename
func (s *Store) Read(entry catalog.Entry, basename string) ([]byte, error) {
	p := s.Path(entry, basename)
	data, err := afero.ReadFile(s.fs, p)
	if err != nil {
		return nil, &errs.ReadError{Path: p, Err: err}
	}
	return data, nil
}

// List returns the originals held for entry, in catalog order
func (s *Store) List(entry catalog.Entry) ([]Info, error) {
	var out []Info
	for _, b := range entry.Files {
		p := s.Path(entry, b)
		info, err := s.fs.Stat(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, &errs.ReadError{Path: p, Err: err}
		}
		out = append(out, Info{Kind: entry.Kind, Basename: b, Path: p, Size: info.Size()})
	}
	return out, nil
}

// Kinds returns the kinds that have at least one original, sorted by name
func (s *Store) Kinds(c *catalog.Catalog) ([]catalog.Kind, error) {
	entries, err := afero.ReadDir(s.fs, s.Dir())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &errs.DirectoryError{Path: s.Dir(), Err: err}
	}

	var kinds []catalog.Kind
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		kind, err := catalog.ParseKind(e.Name())
		if err != nil {
			continue
		}
		entry, err := c.Lookup(kind)
		if err != nil {
			continue
		}
		if held, _ := s.List(entry); len(held) > 0 {
			kinds = append(kinds, kind)
		}
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i].String() < kinds[j].String() })
	return kinds, nil
}

// Discard drops every original of kind
func (s *Store) Discard(kind catalog.Kind) error {
	if err := s.fs.RemoveAll(s.kindDir(kind)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove originals: %w", err)
	}
	return nil
}
