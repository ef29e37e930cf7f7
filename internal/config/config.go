package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"
	toml "github.com/pelletier/go-toml/v2"
)

// Config 是 config.toml 的内容
type Config struct {
	Language         string `toml:"language"`
	LogLevel         string `toml:"log_level"`
	SystemRoot       string `toml:"system_root"`
	OverwriteCommand string `toml:"overwrite_command"`
	History          bool   `toml:"history"`
	MaxIterations    int    `toml:"max_iterations"`
}

// Default 返回默认配置
func Default() Config {
	return Config{
		Language:   "en",
		LogLevel:   "warn",
		SystemRoot: "/",
		History:    true,
	}
}

// Validate 检查配置是否可用
func (c Config) Validate() error {
	switch c.Language {
	case "en", "zh":
	default:
		return fmt.Errorf("不支持的语言 '%s'", c.Language)
	}
	if hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		return fmt.Errorf("无效的日志级别 '%s'", c.LogLevel)
	}
	if !filepath.IsAbs(c.SystemRoot) {
		return fmt.Errorf("system_root 必须是绝对路径: %s", c.SystemRoot)
	}
	if c.MaxIterations < 0 {
		return fmt.Errorf("max_iterations 不能为负数")
	}
	return nil
}

// Manager 配置管理器
type Manager struct {
	cfg        Config
	configPath string
}

// NewManager 在默认数据目录创建配置管理器
func NewManager() (*Manager, error) {
	dir, err := DataDir()
	if err != nil {
		return nil, err
	}
	return NewManagerWithDir(dir)
}

// NewManagerWithDir 使用指定数据目录创建配置管理器
func NewManagerWithDir(dir string) (*Manager, error) {
	m := &Manager{configPath: filepath.Join(dir, FileName)}
	if err := m.Load(); err != nil {
		return nil, err
	}
	return m, nil
}

// Load 加载配置文件；文件不存在时写入默认配置
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.configPath)
	if os.IsNotExist(err) {
		m.cfg = Default()
		return m.Save()
	}
	if err != nil {
		return fmt.Errorf("读取配置文件失败: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("解析配置文件失败: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("配置文件 %s: %w", m.configPath, err)
	}
	m.cfg = cfg
	return nil
}

// Save 原子写入配置文件
func (m *Manager) Save() error {
	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("创建配置目录失败: %w", err)
	}

	data, err := toml.Marshal(m.cfg)
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.toml")
	if err != nil {
		return fmt.Errorf("创建临时文件失败: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("写入配置文件失败: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("写入配置文件失败: %w", err)
	}
	if err := os.Rename(tmpName, m.configPath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("替换配置文件失败: %w", err)
	}
	return nil
}

// Config 返回当前配置的副本
func (m *Manager) Config() Config {
	return m.cfg
}

// GetConfigPath 返回配置文件路径
func (m *Manager) GetConfigPath() string {
	return m.configPath
}

// DataDir 返回配置文件所在的数据目录
func (m *Manager) DataDir() string {
	return filepath.Dir(m.configPath)
}

var setters = map[string]func(c *Config, v string) error{
	"language":          func(c *Config, v string) error { c.Language = v; return nil },
	"log_level":         func(c *Config, v string) error { c.LogLevel = strings.ToLower(v); return nil },
	"system_root":       func(c *Config, v string) error { c.SystemRoot = v; return nil },
	"overwrite_command": func(c *Config, v string) error { c.OverwriteCommand = v; return nil },
	"history": func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("history 需要布尔值: %w", err)
		}
		c.History = b
		return nil
	},
	"max_iterations": func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("max_iterations 需要整数: %w", err)
		}
		c.MaxIterations = n
		return nil
	},
}

// Keys 返回可设置的配置项
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set 修改单个配置项并保存
func (m *Manager) Set(key, value string) error {
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("未知配置项 '%s'，可用: %s", key, strings.Join(Keys(), ", "))
	}
	next := m.cfg
	if err := set(&next, value); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	m.cfg = next
	return m.Save()
}
