// Package overwrite adapts the privileged overwrite primitive. Every
// implementation only replaces existing bytes: the payload must be exactly as
// long as the file currently on disk.
package overwrite

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/spf13/afero"
)

// ErrSizePrecondition is returned when the payload length differs from the
// live size of the target.
var ErrSizePrecondition = errors.New("payload size differs from on-disk size")

// Overwriter replaces the contents of a protected file in place.
type Overwriter interface {
	Overwrite(ctx context.Context, path string, data []byte) error
}

// FSOverwriter writes through an afero filesystem without truncating or
// creating files. It serves mirrors of the system tree and tests.
type FSOverwriter struct {
	Fs afero.Fs
}

func (o FSOverwriter) Overwrite(_ context.Context, path string, data []byte) error {
	info, err := o.Fs.Stat(path)
	if err != nil {
		return err
	}
	if info.Size() != int64(len(data)) {
		return fmt.Errorf("%w: %d on disk, %d given", ErrSizePrecondition, info.Size(), len(data))
	}

	f, err := o.Fs.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	if _, err := f.WriteAt(data, 0); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// CommandOverwriter hands each file to an external helper. The helper is run
// as `argv... <Root/path>` with the payload on stdin and must exit 0 on success.
type CommandOverwriter struct {
	Argv []string
	Root string
}

// ParseCommand builds a CommandOverwriter from a shell-style command line.
func ParseCommand(commandLine string) (*CommandOverwriter, error) {
	argv, err := shellwords.Parse(commandLine)
	if err != nil {
		return nil, fmt.Errorf("parse overwrite command: %w", err)
	}
	if len(argv) == 0 {
		return nil, errors.New("overwrite command is empty")
	}
	return &CommandOverwriter{Argv: argv}, nil
}

func (o *CommandOverwriter) Overwrite(ctx context.Context, path string, data []byte) error {
	if o.Root != "" {
		path = filepath.Join(o.Root, path)
	}
	args := append(append([]string{}, o.Argv[1:]...), path)
	cmd := exec.CommandContext(ctx, o.Argv[0], args...)
	cmd.Stdin = bytes.NewReader(data)

	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			return fmt.Errorf("%s: %w", o.Argv[0], err)
		}
		return fmt.Errorf("%s: %w: %s", o.Argv[0], err, msg)
	}
	return nil
}
