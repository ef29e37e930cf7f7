package overwrite

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/afero"
)

func TestFSOverwriter(t *testing.T) {
	tests := []struct {
		name     string
		existing []byte
		payload  []byte
		wantErr  error
		want     string
	}{
		{name: "same size", existing: []byte("abcd"), payload: []byte("wxyz"), want: "wxyz"},
		{name: "shorter payload", existing: []byte("abcd"), payload: []byte("xy"), wantErr: ErrSizePrecondition, want: "abcd"},
		{name: "longer payload", existing: []byte("ab"), payload: []byte("xyz"), wantErr: ErrSizePrecondition, want: "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			if err := afero.WriteFile(fsys, "/sys/file", tt.existing, 0644); err != nil {
				t.Fatalf("写入文件失败: %v", err)
			}

			err := FSOverwriter{Fs: fsys}.Overwrite(context.Background(), "/sys/file", tt.payload)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Overwrite() error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("Overwrite() error = %v", err)
			}

			got, _ := afero.ReadFile(fsys, "/sys/file")
			if string(got) != tt.want {
				t.Fatalf("file content = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFSOverwriterMissingFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	err := FSOverwriter{Fs: fsys}.Overwrite(context.Background(), "/sys/missing", []byte("x"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
	if exists, _ := afero.Exists(fsys, "/sys/missing"); exists {
		t.Fatalf("overwriter must not create files")
	}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line    string
		want    []string
		wantErr bool
	}{
		{line: `mdc-helper --mode "in place"`, want: []string{"mdc-helper", "--mode", "in place"}},
		{line: "", wantErr: true},
		{line: `helper "unterminated`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseCommand(tt.line)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCommand() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got.Argv) != len(tt.want) {
				t.Fatalf("Argv = %v, want %v", got.Argv, tt.want)
			}
			for i := range tt.want {
				if got.Argv[i] != tt.want[i] {
					t.Fatalf("Argv[%d] = %q, want %q", i, got.Argv[i], tt.want[i])
				}
			}
		})
	}
}

func TestCommandOverwriter(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("跳过 Windows shell 测试")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh 不可用")
	}

	dir := t.TempDir()
	target := filepath.Join(dir, "target.bin")
	if err := os.WriteFile(target, []byte("....."), 0644); err != nil {
		t.Fatalf("写入文件失败: %v", err)
	}

	ok, err := ParseCommand(`sh -c 'cat > "$0"'`)
	if err != nil {
		t.Fatalf("ParseCommand() error = %v", err)
	}
	if err := ok.Overwrite(context.Background(), target, []byte("hello")); err != nil {
		t.Fatalf("Overwrite() error = %v", err)
	}
	got, _ := os.ReadFile(target)
	if string(got) != "hello" {
		t.Fatalf("target content = %q", got)
	}

	failing, _ := ParseCommand(`sh -c 'echo refused >&2; exit 3'`)
	err = failing.Overwrite(context.Background(), target, []byte("xxxxx"))
	if err == nil {
		t.Fatalf("expected helper failure")
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 3 {
		t.Fatalf("Overwrite() error = %v, want exit status 3", err)
	}
}
