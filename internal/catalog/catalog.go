package catalog

import (
	"fmt"
	"path"
	"strings"

	"github.com/YangQing-Lin/springtint/internal/errs"
)

// Kind 表示一类 SpringBoard 材质
type Kind int

const (
	Dock Kind = iota
	Folder
	FolderBackground
	LibraryFolder
	Switcher
	Notification
)

const (
	ExtMaterialRecipe = ".materialrecipe"
	ExtVisualStyleSet = ".visualstyleset"
)

const (
	springBoardHomeDir = "/System/Library/PrivateFrameworks/SpringBoardHome.framework/"
	coreMaterialDir    = "/System/Library/PrivateFrameworks/CoreMaterial.framework/"
	springBoardDir     = "/System/Library/PrivateFrameworks/SpringBoard.framework/"
)

var kindNames = map[Kind]string{
	Dock:             "dock",
	Folder:           "folder",
	FolderBackground: "folder-bg",
	LibraryFolder:    "library-folder",
	Switcher:         "switcher",
	Notification:     "notification",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MixFactor 把用户可见的 alpha 换算成 tintAlpha 字段的系数
func (k Kind) MixFactor() float64 {
	if k == Notification {
		return 0.8
	}
	return 0.3
}

// ParseKind 解析命令行里的类型名称
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%q: %w", name, errs.ErrUnknownKind)
}

// Entry 描述一类材质对应的系统文件
type Entry struct {
	Kind  Kind
	Files []string // 第一个是代表文件
	Dir   string
	Ext   string
}

// Representative 返回用于读取当前值的文件名
func (e Entry) Representative() string {
	return e.Files[0]
}

// FileName 返回带扩展名的文件名
func (e Entry) FileName(basename string) string {
	return basename + e.Ext
}

// SystemPath 返回受保护文件的完整路径
func (e Entry) SystemPath(basename string) string {
	return path.Join(e.Dir, e.FileName(basename))
}

// Catalog 是构造后只读的注册表
type Catalog struct {
	order   []Kind
	entries map[Kind]Entry
}

// New 创建注册表；每个条目必须至少有一个文件
func New(entries ...Entry) (*Catalog, error) {
	c := &Catalog{entries: make(map[Kind]Entry, len(entries))}
	for _, e := range entries {
		if len(e.Files) == 0 || e.Dir == "" || e.Ext == "" {
			return nil, fmt.Errorf("catalog entry %s is incomplete", e.Kind)
		}
		if _, dup := c.entries[e.Kind]; dup {
			return nil, fmt.Errorf("catalog entry %s registered twice", e.Kind)
		}
		files := make([]string, len(e.Files))
		copy(files, e.Files)
		e.Files = files
		c.entries[e.Kind] = e
		c.order = append(c.order, e.Kind)
	}
	return c, nil
}

// Default 返回内置的 SpringBoard 材质表
func Default() *Catalog {
	c, err := New(
		Entry{Kind: Dock, Files: []string{"dockDark", "dockLight"}, Dir: coreMaterialDir, Ext: ExtMaterialRecipe},
		Entry{Kind: Folder, Files: []string{"folderDark", "folderLight"}, Dir: springBoardHomeDir, Ext: ExtMaterialRecipe},
		Entry{Kind: FolderBackground, Files: []string{"folderExpandedBackgroundHome", "homeScreenOverlay", "homeScreenOverlay-iPad"}, Dir: springBoardHomeDir, Ext: ExtMaterialRecipe},
		Entry{Kind: LibraryFolder, Files: []string{"podBackgroundViewDark", "podBackgroundViewLight"}, Dir: springBoardHomeDir, Ext: ExtVisualStyleSet},
		Entry{Kind: Switcher, Files: []string{"homeScreenBackdrop-application"}, Dir: springBoardDir, Ext: ExtMaterialRecipe},
		Entry{Kind: Notification, Files: []string{"plattersDark", "platters"}, Dir: coreMaterialDir, Ext: ExtMaterialRecipe},
	)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup 查找类型；未注册的类型返回 errs.ErrUnknownKind
func (c *Catalog) Lookup(kind Kind) (Entry, error) {
	e, ok := c.entries[kind]
	if !ok {
		return Entry{}, fmt.Errorf("%s: %w", kind, errs.ErrUnknownKind)
	}
	files := make([]string, len(e.Files))
	copy(files, e.Files)
	e.Files = files
	return e, nil
}

// AllKinds 按注册顺序返回所有类型
func (c *Catalog) AllKinds() []Kind {
	out := make([]Kind, len(c.order))
	copy(out, c.order)
	return out
}
