package staging

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/YangQing-Lin/springtint/internal/catalog"
	"github.com/YangQing-Lin/springtint/internal/errs"
)

const (
	// DirName 是私有存储下的暂存目录名
	DirName = "Background_Files"
	// filePerm 暂存文件权限
	filePerm = 0644
)

// Store 管理暂存的替换文件
type Store struct {
	fs     afero.Fs
	parent string
}

// New 创建暂存区；parent 必须是已经存在的私有可写目录
func New(fsys afero.Fs, parent string) *Store {
	return &Store{fs: fsys, parent: parent}
}

// Dir 返回暂存目录路径，不做任何文件系统访问
func (s *Store) Dir() string {
	return filepath.Join(s.parent, DirName)
}

// Fs 返回暂存区使用的文件系统
func (s *Store) Fs() afero.Fs {
	return s.fs
}

// Root 返回暂存目录，首次使用时创建（不递归创建父目录）
func (s *Store) Root() (string, error) {
	dir := s.Dir()

	info, err := s.fs.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return "", &errs.DirectoryError{Path: dir, Err: fmt.Errorf("not a directory")}
		}
		return dir, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", &errs.DirectoryError{Path: dir, Err: err}
	}

	// 父目录必须已经存在
	if parent, err := s.fs.Stat(s.parent); err != nil || !parent.IsDir() {
		if err == nil {
			err = fmt.Errorf("not a directory")
		}
		return "", &errs.DirectoryError{Path: s.parent, Err: err}
	}

	if err := s.fs.Mkdir(dir, 0755); err != nil && !errors.Is(err, fs.ErrExist) {
		return "", &errs.DirectoryError{Path: dir, Err: err}
	}
	return dir, nil
}

// Path 返回暂存文件路径 {root}/{basename}{ext}
func (s *Store) Path(e catalog.Entry, basename string) string {
	return filepath.Join(s.Dir(), e.FileName(basename))
}

// Save 原子写入一个暂存文件
func (s *Store) Save(e catalog.Entry, basename string, data []byte) error {
	root, err := s.Root()
	if err != nil {
		return err
	}
	return s.writeAtomic(root, e.FileName(basename), data)
}

func (s *Store) writeAtomic(root, name string, data []byte) error {
	target := filepath.Join(root, name)

	tmp, err := afero.TempFile(s.fs, root, ".tmp-*")
	if err != nil {
		return &errs.DirectoryError{Path: root, Err: fmt.Errorf("创建临时文件失败: %w", err)}
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = s.fs.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return &errs.DirectoryError{Path: target, Err: fmt.Errorf("写入临时文件失败: %w", err)}
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return &errs.DirectoryError{Path: target, Err: fmt.Errorf("关闭临时文件失败: %w", err)}
	}
	if err := s.fs.Chmod(tmpName, filePerm); err != nil {
		cleanup()
		return &errs.DirectoryError{Path: target, Err: err}
	}
	if err := s.fs.Rename(tmpName, target); err != nil {
		cleanup()
		return &errs.DirectoryError{Path: target, Err: fmt.Errorf("替换文件失败: %w", err)}
	}
	return nil
}

// Read 读取暂存文件
func (s *Store) Read(e catalog.Entry, basename string) ([]byte, error) {
	p := s.Path(e, basename)
	data, err := afero.ReadFile(s.fs, p)
	if err != nil {
		return nil, &errs.ReadError{Path: p, Err: err}
	}
	return data, nil
}

// Exists 判断暂存文件是否存在
func (s *Store) Exists(e catalog.Entry, basename string) bool {
	info, err := s.fs.Stat(s.Path(e, basename))
	return err == nil && !info.IsDir()
}

// List 按文件集顺序返回已暂存的文件名
func (s *Store) List(e catalog.Entry) ([]string, error) {
	if _, err := s.Root(); err != nil {
		return nil, err
	}
	var present []string
	for _, name := range e.Files {
		if s.Exists(e, name) {
			present = append(present, name)
		}
	}
	return present, nil
}

// Remove 删除该类型的全部暂存文件；缺失的文件不算错误
// 其余删除失败会合并返回，调用方可以只记录不中断
func (s *Store) Remove(e catalog.Entry) error {
	if _, err := s.Root(); err != nil {
		return err
	}

	var failures []error
	for _, name := range e.Files {
		p := s.Path(e, name)
		if err := s.fs.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			failures = append(failures, &errs.DirectoryError{Path: p, Err: err})
		}
	}
	if err := s.ClearState(e.Kind); err != nil {
		failures = append(failures, err)
	}
	return errors.Join(failures...)
}
