package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"

	"github.com/YangQing-Lin/springtint/internal/backup"
	"github.com/YangQing-Lin/springtint/internal/builtin"
	"github.com/YangQing-Lin/springtint/internal/catalog"
	"github.com/YangQing-Lin/springtint/internal/config"
	"github.com/YangQing-Lin/springtint/internal/errs"
	"github.com/YangQing-Lin/springtint/internal/history"
	"github.com/YangQing-Lin/springtint/internal/i18n"
	"github.com/YangQing-Lin/springtint/internal/logging"
	"github.com/YangQing-Lin/springtint/internal/overwrite"
	"github.com/YangQing-Lin/springtint/internal/preset"
	"github.com/YangQing-Lin/springtint/internal/recolor"
	"github.com/YangQing-Lin/springtint/internal/staging"
)

// app 汇总一次命令执行需要的组件
type app struct {
	manager   *config.Manager
	cfg       config.Config
	log       hclog.Logger
	coord     *recolor.Coordinator
	history   *history.Log
	originals *backup.Store
}

// getManager 获取配置管理器（考虑 --home 参数）
func getManager() (*config.Manager, error) {
	if homeDir != "" {
		return config.NewManagerWithDir(homeDir)
	}
	return config.NewManager()
}

func newApp(ctx context.Context) (*app, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	manager, err := getManager()
	if err != nil {
		return nil, fmt.Errorf("初始化配置管理器失败: %w", err)
	}
	cfg := manager.Config()
	if systemRoot != "" {
		cfg.SystemRoot = systemRoot
	}
	if language != "" {
		cfg.Language = language
	}
	i18n.Init(cfg.Language)

	a := &app{
		manager:   manager,
		cfg:       cfg,
		log:       logging.New("springtint", logging.Level(cfg.LogLevel), nil),
		originals: backup.New(afero.NewOsFs(), manager.DataDir()),
	}

	system := afero.NewOsFs()
	if root := filepath.Clean(cfg.SystemRoot); root != string(filepath.Separator) {
		system = afero.NewBasePathFs(afero.NewOsFs(), root)
	}

	var ow overwrite.Overwriter = overwrite.FSOverwriter{Fs: system}
	if cfg.OverwriteCommand != "" {
		co, err := overwrite.ParseCommand(cfg.OverwriteCommand)
		if err != nil {
			return nil, err
		}
		co.Root = cfg.SystemRoot
		ow = co
	}

	opts := recolor.Options{
		Catalog:       catalog.Default(),
		Store:         staging.New(afero.NewOsFs(), manager.DataDir()),
		System:        system,
		Templates:     builtin.Embedded{},
		Overwriter:    ow,
		Logger:        a.log,
		Originals:     a.originals,
		MaxIterations: cfg.MaxIterations,
	}
	if cfg.History {
		h, err := history.Open(ctx, filepath.Join(manager.DataDir(), history.FileName))
		if err != nil {
			a.log.Warn("history disabled", "error", err)
		} else {
			a.history = h
			opts.Recorder = h
		}
	}

	a.coord, err = recolor.New(opts)
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// Close 释放历史数据库
func (a *app) Close() {
	if a.history != nil {
		_ = a.history.Close()
	}
}

// parseKind 解析命令行中的类型名称
func parseKind(name string) (catalog.Kind, error) {
	kind, err := catalog.ParseKind(name)
	if err != nil {
		return 0, fmt.Errorf("%w（可用: %s）", err, kindNames())
	}
	return kind, nil
}

func kindNames() string {
	var s string
	for i, k := range catalog.Default().AllKinds() {
		if i > 0 {
			s += ", "
		}
		s += k.String()
	}
	return s
}

// stageError 将错误描述为失败阶段
func stageError(kind catalog.Kind, err error) error {
	return fmt.Errorf("%s", i18n.T("error.stage", kind, errs.Stage(err), err))
}

func stateLabel(st staging.State) string {
	label := i18n.T("state." + string(st))
	switch st {
	case staging.Applied:
		return color.GreenString(label)
	case staging.Staged:
		return color.YellowString(label)
	default:
		return color.HiBlackString(label)
	}
}

func listKinds(w io.Writer, a *app) error {
	for _, k := range a.coord.Kinds() {
		rec, err := a.coord.State(k)
		if err != nil {
			a.log.Warn("state unreadable", "kind", k.String(), "error", err)
			rec.State = staging.Unset
		}
		tint := a.coord.GetColor(k)
		fmt.Fprintf(w, "%-16s %s  α=%.2f  blur=%-3d %s\n",
			k,
			preset.FormatColor(tint.Red, tint.Green, tint.Blue),
			tint.Alpha,
			a.coord.GetBlur(k),
			stateLabel(rec.State))
	}
	return nil
}
