package portable

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func withExecutable(t *testing.T, fn func() (string, error)) {
	t.Helper()
	old := portableExecutableFunc
	portableExecutableFunc = fn
	t.Cleanup(func() { portableExecutableFunc = old })
}

func TestIsPortableMode(t *testing.T) {
	tests := []struct {
		name  string
		setup func(dir string) error
		want  bool
	}{
		{
			name:  "no marker",
			setup: func(string) error { return nil },
			want:  false,
		},
		{
			name:  "marker file",
			setup: func(dir string) error { return os.WriteFile(filepath.Join(dir, "portable.ini"), nil, 0644) },
			want:  true,
		},
		{
			name:  "marker is a directory",
			setup: func(dir string) error { return os.Mkdir(filepath.Join(dir, "portable.ini"), 0755) },
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := tt.setup(dir); err != nil {
				t.Fatalf("准备目录失败: %v", err)
			}
			withExecutable(t, func() (string, error) { return filepath.Join(dir, "springtint"), nil })

			if got := IsPortableMode(); got != tt.want {
				t.Fatalf("IsPortableMode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsPortableModeExecutableError(t *testing.T) {
	withExecutable(t, func() (string, error) { return "", errors.New("boom") })
	if IsPortableMode() {
		t.Fatalf("IsPortableMode() should be false when the executable is unknown")
	}
	if _, err := GetPortableDataDir(); err == nil {
		t.Fatalf("GetPortableDataDir() should fail")
	}
}

func TestGetPortableDataDir(t *testing.T) {
	dir := t.TempDir()
	withExecutable(t, func() (string, error) { return filepath.Join(dir, "springtint"), nil })

	got, err := GetPortableDataDir()
	if err != nil {
		t.Fatalf("GetPortableDataDir failed: %v", err)
	}
	if want := filepath.Join(dir, ".springtint"); got != want {
		t.Fatalf("GetPortableDataDir() = %s, want %s", got, want)
	}
}
