package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/YangQing-Lin/springtint/internal/catalog"
	"github.com/YangQing-Lin/springtint/internal/i18n"
	"github.com/YangQing-Lin/springtint/internal/plisttree"
	"github.com/YangQing-Lin/springtint/internal/testutil"
	"github.com/YangQing-Lin/springtint/internal/tui"
)

func resetGlobals() {
	homeDir = ""
	systemRoot = ""
	language = ""
	createColor = "#808080"
	createAlpha = 1
	createBlur = 30
	createApply = false
	presetAll = false
	presetApply = false
	historyKind = ""
	historyLimit = 20
	restoreList = false
	i18n.SetLanguage("en")
}

func resetFlags(cmd *cobra.Command) {
	resetFlagSet(cmd.Flags())
	resetFlagSet(cmd.PersistentFlags())
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func resetFlagSet(flags *pflag.FlagSet) {
	if flags == nil {
		return
	}
	flags.VisitAll(func(flag *pflag.Flag) {
		_ = flag.Value.Set(flag.DefValue)
		flag.Changed = false
	})
}

// env 是一次测试使用的数据目录和系统镜像目录
type env struct {
	home   string
	mirror string
}

func newEnv(t *testing.T, kinds ...catalog.Kind) env {
	t.Helper()
	resetGlobals()
	resetFlags(rootCmd)
	t.Cleanup(func() {
		resetGlobals()
		resetFlags(rootCmd)
	})

	origInteractive := interactive
	interactive = func() bool { return false }
	t.Cleanup(func() { interactive = origInteractive })

	e := env{home: t.TempDir(), mirror: t.TempDir()}
	mirror := afero.NewBasePathFs(afero.NewOsFs(), e.mirror)
	for _, k := range kinds {
		testutil.InstallStockRecipes(t, mirror, k, 4096, plisttree.Binary)
	}
	return e
}

func (e env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--home", e.home, "--system-root", e.mirror}, args...))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := ExecuteContext(context.Background())
	return out.String(), err
}

func (e env) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	if err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out)
	}
	return out
}

func (e env) systemFile(t *testing.T, kind catalog.Kind, basename string) []byte {
	t.Helper()
	entry, err := catalog.Default().Lookup(kind)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	data, err := os.ReadFile(filepath.Join(e.mirror, filepath.FromSlash(entry.SystemPath(basename))))
	if err != nil {
		t.Fatalf("读取系统文件失败: %v", err)
	}
	return data
}

func TestCreateApplyRevertFlow(t *testing.T) {
	e := newEnv(t, catalog.Folder)
	before := e.systemFile(t, catalog.Folder, "folderDark")

	out := e.mustRun(t, "create", "folder", "--color", "#ff0000", "--alpha", "0.5", "--blur", "44")
	if !strings.Contains(out, "Staged folder: 2 file(s)") {
		t.Fatalf("unexpected create output: %s", out)
	}
	if _, err := os.Stat(filepath.Join(e.home, "Background_Files", "folderDark.materialrecipe")); err != nil {
		t.Fatalf("staged file missing: %v", err)
	}

	out = e.mustRun(t, "show", "folder")
	for _, want := range []string{"#ff0000", "α=0.50", "44", "folderDark.materialrecipe"} {
		if !strings.Contains(out, want) {
			t.Fatalf("show output missing %q:\n%s", want, out)
		}
	}

	out = e.mustRun(t, "diff", "folder")
	if !strings.Contains(out, "staged/folderDark.materialrecipe") || !strings.Contains(out, "44") {
		t.Fatalf("unexpected diff output:\n%s", out)
	}

	out = e.mustRun(t, "apply", "folder")
	if !strings.Contains(out, "Applied folder: 2/2 file(s)") {
		t.Fatalf("unexpected apply output: %s", out)
	}
	after := e.systemFile(t, catalog.Folder, "folderDark")
	if len(after) != len(before) {
		t.Fatalf("system file size changed: %d -> %d", len(before), len(after))
	}
	if bytes.Equal(after, before) {
		t.Fatalf("system file was not overwritten")
	}

	out = e.mustRun(t, "history", "--kind", "folder")
	for _, want := range []string{"create", "apply", "folder/folderLight"} {
		if !strings.Contains(out, want) {
			t.Fatalf("history output missing %q:\n%s", want, out)
		}
	}

	e.mustRun(t, "revert", "folder")
	if _, err := os.Stat(filepath.Join(e.home, "Background_Files", "folderDark.materialrecipe")); !os.IsNotExist(err) {
		t.Fatalf("staged file should be removed, stat err = %v", err)
	}
	out = e.mustRun(t, "revert", "folder")
	if !strings.Contains(out, "Reverted folder") {
		t.Fatalf("second revert output: %s", out)
	}
}

func TestRestoreCmd(t *testing.T) {
	e := newEnv(t, catalog.Folder)
	stock := e.systemFile(t, catalog.Folder, "folderLight")

	if _, err := e.run(t, "restore", "folder"); err == nil {
		t.Fatalf("expected error before any apply")
	}

	e.mustRun(t, "create", "folder", "--color", "#123456", "--apply")
	if bytes.Equal(stock, e.systemFile(t, catalog.Folder, "folderLight")) {
		t.Fatalf("apply did not change the system file")
	}

	out := e.mustRun(t, "restore", "--list")
	if !strings.Contains(out, "folderDark.materialrecipe") || !strings.Contains(out, "4096 B") {
		t.Fatalf("unexpected originals listing: %s", out)
	}

	out = e.mustRun(t, "restore", "folder")
	if !strings.Contains(out, "Restored folder: 2/2 file(s)") {
		t.Fatalf("unexpected restore output: %s", out)
	}
	if !bytes.Equal(stock, e.systemFile(t, catalog.Folder, "folderLight")) {
		t.Fatalf("system file not restored")
	}
}

func TestCreateWithApplyFlag(t *testing.T) {
	e := newEnv(t, catalog.Dock)
	out := e.mustRun(t, "create", "dock", "--color", "3366cc", "--apply")
	if !strings.Contains(out, "Staged dock") || !strings.Contains(out, "Applied dock") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestCreateErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "unknown kind", args: []string{"create", "wallpaper"}, want: "可用"},
		{name: "bad color", args: []string{"create", "folder", "--color", "#zzz"}, want: "invalid"},
		{name: "bad alpha", args: []string{"create", "folder", "--alpha", "1.5"}, want: "alpha"},
		{name: "not installed", args: []string{"create", "switcher"}, want: "switcher"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t, catalog.Folder)
			_, err := e.run(t, tt.args...)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(strings.ToLower(err.Error()), strings.ToLower(tt.want)) {
				t.Fatalf("error = %v, want substring %q", err, tt.want)
			}
		})
	}
}

func TestApplyNothingStaged(t *testing.T) {
	e := newEnv(t, catalog.Folder)
	before := e.systemFile(t, catalog.Folder, "folderDark")
	if _, err := e.run(t, "apply", "folder"); err == nil {
		t.Fatalf("expected error when nothing is staged")
	}
	if !bytes.Equal(before, e.systemFile(t, catalog.Folder, "folderDark")) {
		t.Fatalf("system file must be untouched")
	}
}

func TestKindsListing(t *testing.T) {
	e := newEnv(t)
	for _, args := range [][]string{{"kinds"}, {}} {
		out := e.mustRun(t, args...)
		for _, k := range catalog.Default().AllKinds() {
			if !strings.Contains(out, k.String()) {
				t.Fatalf("%v output missing %s:\n%s", args, k, out)
			}
		}
		if !strings.Contains(out, "#808080") {
			t.Fatalf("default color not shown:\n%s", out)
		}
	}
}

func TestPresetRoundTrip(t *testing.T) {
	e := newEnv(t, catalog.Folder)
	e.mustRun(t, "create", "folder", "--color", "#00ff00", "--alpha", "0.25", "--blur", "12")

	file := filepath.Join(t.TempDir(), "presets.yaml")
	out := e.mustRun(t, "preset", "export", file)
	if !strings.Contains(out, "Exported 1 preset(s)") {
		t.Fatalf("unexpected export output: %s", out)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("读取预设失败: %v", err)
	}
	if !strings.Contains(string(data), "kind: folder") || !strings.Contains(string(data), "#00ff00") {
		t.Fatalf("unexpected preset file:\n%s", data)
	}

	fresh := newEnv(t, catalog.Folder)
	out = fresh.mustRun(t, "preset", "import", file)
	if !strings.Contains(out, "Imported 1 preset(s)") {
		t.Fatalf("unexpected import output: %s", out)
	}
	out = fresh.mustRun(t, "show", "folder")
	if !strings.Contains(out, "#00ff00") || !strings.Contains(out, "12") {
		t.Fatalf("import did not stage preset:\n%s", out)
	}
}

func TestPresetExportStdout(t *testing.T) {
	e := newEnv(t)
	out := e.mustRun(t, "preset", "export", "--all")
	if !strings.Contains(out, "version: 1") || !strings.Contains(out, "kind: notification") {
		t.Fatalf("unexpected export:\n%s", out)
	}
}

func TestHistoryEmpty(t *testing.T) {
	e := newEnv(t)
	out := e.mustRun(t, "history")
	if !strings.Contains(out, "No history recorded") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestConfigSetShow(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "config", "set", "log_level", "debug")

	out := e.mustRun(t, "config", "show")
	if !strings.Contains(out, "debug") || !strings.Contains(out, filepath.Join(e.home, "config.toml")) {
		t.Fatalf("unexpected config output:\n%s", out)
	}

	if _, err := e.run(t, "config", "set", "nope", "1"); err == nil {
		t.Fatalf("expected unknown key error")
	}
	if _, err := e.run(t, "config", "set", "history", "maybe"); err == nil {
		t.Fatalf("expected bool parse error")
	}
}

func TestLanguageFlag(t *testing.T) {
	e := newEnv(t, catalog.Folder)
	out := e.mustRun(t, "--lang", "zh", "create", "folder")
	if !strings.Contains(out, "已暂存") {
		t.Fatalf("expected Chinese output, got: %s", out)
	}
}

func TestRootLaunchesTUIOnTerminal(t *testing.T) {
	e := newEnv(t)
	interactive = func() bool { return true }

	var got tui.Backend
	orig := tuiRunner
	tuiRunner = func(ctx context.Context, backend tui.Backend) error {
		got = backend
		return nil
	}
	t.Cleanup(func() { tuiRunner = orig })

	e.mustRun(t)
	if got == nil {
		t.Fatalf("TUI was not started")
	}
	if len(got.Kinds()) != len(catalog.Default().AllKinds()) {
		t.Fatalf("backend kinds = %v", got.Kinds())
	}
}

func TestVersionCmd(t *testing.T) {
	e := newEnv(t)
	out := e.mustRun(t, "version")
	if !strings.HasPrefix(out, "springtint ") {
		t.Fatalf("unexpected version output: %s", out)
	}
	for _, want := range []string{"replacement.materialrecipe", "replacement.visualstyleset"} {
		if !strings.Contains(out, want) {
			t.Fatalf("version output missing template %s:\n%s", want, out)
		}
	}
}

func TestShowLabelsFollowLanguage(t *testing.T) {
	e := newEnv(t, catalog.Folder)
	e.mustRun(t, "create", "folder")

	out := e.mustRun(t, "show", "folder")
	for _, want := range []string{"State:", "Color:", "Blur:", "Mix factor:", "Operation:", "Staged at:", "Files:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("english show output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "状态") {
		t.Fatalf("english show output contains Chinese labels:\n%s", out)
	}

	out = e.mustRun(t, "--lang", "zh", "show", "folder")
	for _, want := range []string{"状态:", "颜色:", "文件:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("chinese show output missing %q:\n%s", want, out)
		}
	}
}
