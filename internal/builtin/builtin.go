package builtin

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/YangQing-Lin/springtint/internal/errs"
	"github.com/YangQing-Lin/springtint/internal/plisttree"
)

//go:embed recipes/*
var recipesFS embed.FS

// Source 提供按扩展名区分的模板
type Source interface {
	Template(ext string) (plisttree.Dict, error)
}

// Embedded 读取随程序打包的模板
type Embedded struct{}

// Template 返回扩展名对应的模板树；每次调用都重新解码，调用方可以随意修改
func (Embedded) Template(ext string) (plisttree.Dict, error) {
	// embed.FS 只接受正斜杠路径
	name := "recipes/replacement" + ext
	data, err := recipesFS.ReadFile(name)
	if err != nil {
		return nil, &errs.ReadError{Path: "builtin:" + name, Err: err}
	}
	tree, _, err := plisttree.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("builtin template %s: %w", name, err)
	}
	return tree, nil
}

// Names 列出所有内置模板文件
func Names() ([]string, error) {
	entries, err := fs.ReadDir(recipesFS, "recipes")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
