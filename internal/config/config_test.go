package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewManagerCreatesDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	m, err := NewManagerWithDir(dir)
	if err != nil {
		t.Fatalf("NewManagerWithDir() error = %v", err)
	}
	if m.Config() != Default() {
		t.Fatalf("Config() = %+v, want defaults", m.Config())
	}
	if _, err := os.Stat(m.GetConfigPath()); err != nil {
		t.Fatalf("配置文件未创建: %v", err)
	}
	if m.DataDir() != dir {
		t.Fatalf("DataDir() = %s", m.DataDir())
	}
}

func TestLoadExistingFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
		check   func(t *testing.T, c Config)
	}{
		{
			name:    "partial file keeps defaults",
			content: "language = \"zh\"\nsystem_root = \"/tmp/mirror\"\n",
			check: func(t *testing.T, c Config) {
				if c.Language != "zh" || c.SystemRoot != "/tmp/mirror" || c.LogLevel != "warn" || !c.History {
					t.Fatalf("Config() = %+v", c)
				}
			},
		},
		{
			name:    "overwrite command",
			content: "overwrite_command = \"mdc-helper --in-place\"\nhistory = false\n",
			check: func(t *testing.T, c Config) {
				if c.OverwriteCommand != "mdc-helper --in-place" || c.History {
					t.Fatalf("Config() = %+v", c)
				}
			},
		},
		{name: "invalid toml", content: "language = ", wantErr: true},
		{name: "invalid language", content: "language = \"fr\"\n", wantErr: true},
		{name: "relative root", content: "system_root = \"mirror\"\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, FileName), []byte(tt.content), 0644); err != nil {
				t.Fatalf("写入配置失败: %v", err)
			}
			m, err := NewManagerWithDir(dir)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewManagerWithDir() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, m.Config())
			}
		})
	}
}

func TestSet(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManagerWithDir(dir)
	if err != nil {
		t.Fatalf("NewManagerWithDir() error = %v", err)
	}

	tests := []struct {
		key, value string
		wantErr    bool
	}{
		{key: "language", value: "zh"},
		{key: "log_level", value: "DEBUG"},
		{key: "history", value: "false"},
		{key: "max_iterations", value: "64"},
		{key: "history", value: "maybe", wantErr: true},
		{key: "log_level", value: "loud", wantErr: true},
		{key: "colour", value: "red", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			err := m.Set(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	reloaded, err := NewManagerWithDir(dir)
	if err != nil {
		t.Fatalf("reload error = %v", err)
	}
	c := reloaded.Config()
	if c.Language != "zh" || c.LogLevel != "debug" || c.History || c.MaxIterations != 64 {
		t.Fatalf("reloaded config = %+v", c)
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".config-") {
			t.Fatalf("临时文件未清理: %s", e.Name())
		}
	}
}

func TestDataDirFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvHome, dir)

	got, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir() error = %v", err)
	}
	if got != dir {
		t.Fatalf("DataDir() = %s, want %s", got, dir)
	}
	p, _ := GetConfigPath()
	if p != filepath.Join(dir, FileName) {
		t.Fatalf("GetConfigPath() = %s", p)
	}
}
