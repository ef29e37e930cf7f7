package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/YangQing-Lin/springtint/internal/portable"
)

// EnvHome 覆盖数据目录
const EnvHome = "SPRINGTINT_HOME"

// FileName 是配置文件名
const FileName = "config.toml"

// DataDir 返回数据目录：SPRINGTINT_HOME > 便携版目录 > ~/.springtint
func DataDir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return filepath.Abs(dir)
	}

	if portable.IsPortableMode() {
		dir, err := portable.GetPortableDataDir()
		if err != nil {
			return "", fmt.Errorf("获取便携版数据目录失败: %w", err)
		}
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("获取用户主目录失败: %w", err)
	}
	return filepath.Join(home, ".springtint"), nil
}

// GetConfigPath 返回配置文件路径
func GetConfigPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}
