package catalog

import (
	"errors"
	"testing"

	"github.com/YangQing-Lin/springtint/internal/errs"
)

func TestDefaultCatalogEntries(t *testing.T) {
	c := Default()

	tests := []struct {
		kind     Kind
		files    []string
		ext      string
		mix      float64
		wantPath string
	}{
		{Dock, []string{"dockDark", "dockLight"}, ExtMaterialRecipe, 0.3, "/System/Library/PrivateFrameworks/CoreMaterial.framework/dockDark.materialrecipe"},
		{Folder, []string{"folderDark", "folderLight"}, ExtMaterialRecipe, 0.3, "/System/Library/PrivateFrameworks/SpringBoardHome.framework/folderDark.materialrecipe"},
		{FolderBackground, []string{"folderExpandedBackgroundHome", "homeScreenOverlay", "homeScreenOverlay-iPad"}, ExtMaterialRecipe, 0.3, "/System/Library/PrivateFrameworks/SpringBoardHome.framework/folderExpandedBackgroundHome.materialrecipe"},
		{LibraryFolder, []string{"podBackgroundViewDark", "podBackgroundViewLight"}, ExtVisualStyleSet, 0.3, "/System/Library/PrivateFrameworks/SpringBoardHome.framework/podBackgroundViewDark.visualstyleset"},
		{Switcher, []string{"homeScreenBackdrop-application"}, ExtMaterialRecipe, 0.3, "/System/Library/PrivateFrameworks/SpringBoard.framework/homeScreenBackdrop-application.materialrecipe"},
		{Notification, []string{"plattersDark", "platters"}, ExtMaterialRecipe, 0.8, "/System/Library/PrivateFrameworks/CoreMaterial.framework/plattersDark.materialrecipe"},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			e, err := c.Lookup(tt.kind)
			if err != nil {
				t.Fatalf("Lookup() error = %v", err)
			}
			if len(e.Files) != len(tt.files) {
				t.Fatalf("files = %v, want %v", e.Files, tt.files)
			}
			for i := range tt.files {
				if e.Files[i] != tt.files[i] {
					t.Fatalf("files[%d] = %s, want %s", i, e.Files[i], tt.files[i])
				}
			}
			if e.Ext != tt.ext {
				t.Fatalf("ext = %s, want %s", e.Ext, tt.ext)
			}
			if got := tt.kind.MixFactor(); got != tt.mix {
				t.Fatalf("MixFactor() = %v, want %v", got, tt.mix)
			}
			if got := e.SystemPath(e.Representative()); got != tt.wantPath {
				t.Fatalf("SystemPath() = %s, want %s", got, tt.wantPath)
			}
		})
	}

	if got := len(c.AllKinds()); got != 6 {
		t.Fatalf("AllKinds() len = %d", got)
	}
}

func TestLookupUnknownKind(t *testing.T) {
	c := Default()
	if _, err := c.Lookup(Kind(42)); !errors.Is(err, errs.ErrUnknownKind) {
		t.Fatalf("Lookup(42) error = %v, want ErrUnknownKind", err)
	}
}

func TestLookupReturnsCopy(t *testing.T) {
	c := Default()
	e, _ := c.Lookup(Folder)
	e.Files[0] = "mutated"

	again, _ := c.Lookup(Folder)
	if again.Files[0] != "folderDark" {
		t.Fatalf("catalog mutated through Lookup result: %v", again.Files)
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"folder", Folder, false},
		{" Notification ", Notification, false},
		{"folder-bg", FolderBackground, false},
		{"wallpaper", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Fatalf("ParseKind() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewRejectsIncompleteEntries(t *testing.T) {
	if _, err := New(Entry{Kind: Dock, Dir: "/x", Ext: ".y"}); err == nil {
		t.Fatalf("expected error for entry without files")
	}
	if _, err := New(
		Entry{Kind: Dock, Files: []string{"a"}, Dir: "/x", Ext: ".y"},
		Entry{Kind: Dock, Files: []string{"b"}, Dir: "/x", Ext: ".y"},
	); err == nil {
		t.Fatalf("expected error for duplicate kind")
	}
}
