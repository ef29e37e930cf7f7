package staging

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/YangQing-Lin/springtint/internal/catalog"
	"github.com/YangQing-Lin/springtint/internal/errs"
)

// State 是每个类型的生命周期状态
type State string

const (
	Unset   State = "unset"
	Staged  State = "staged"
	Applied State = "applied"
)

// Record 记录一个类型当前暂存的定制内容
type Record struct {
	Kind        string     `json:"kind"`
	State       State      `json:"state"`
	OperationID string     `json:"operationId"`
	Red         float64    `json:"red"`
	Green       float64    `json:"green"`
	Blue        float64    `json:"blue"`
	Alpha       float64    `json:"alpha"`
	Blur        int        `json:"blur"`
	Files       []string   `json:"files"`
	StagedAt    time.Time  `json:"stagedAt"`
	AppliedAt   *time.Time `json:"appliedAt,omitempty"`
}

func (s *Store) statePath(kind catalog.Kind) string {
	return filepath.Join(s.Dir(), "."+kind.String()+".state.json")
}

// ReadState 读取状态记录；不存在时返回 Unset 记录
func (s *Store) ReadState(kind catalog.Kind) (Record, error) {
	p := s.statePath(kind)
	data, err := afero.ReadFile(s.fs, p)
	if errors.Is(err, fs.ErrNotExist) {
		return Record{Kind: kind.String(), State: Unset}, nil
	}
	if err != nil {
		return Record{}, &errs.ReadError{Path: p, Err: err}
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, &errs.FormatError{Reason: "state record " + p, Err: err}
	}
	return rec, nil
}

// WriteState 原子写入状态记录
func (s *Store) WriteState(kind catalog.Kind, rec Record) error {
	root, err := s.Root()
	if err != nil {
		return err
	}
	rec.Kind = kind.String()
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化状态失败: %w", err)
	}
	return s.writeAtomic(root, filepath.Base(s.statePath(kind)), data)
}

// ClearState 删除状态记录
func (s *Store) ClearState(kind catalog.Kind) error {
	p := s.statePath(kind)
	if err := s.fs.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &errs.DirectoryError{Path: p, Err: err}
	}
	return nil
}
