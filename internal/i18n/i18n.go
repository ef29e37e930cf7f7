package i18n

import (
	"fmt"
)

var currentLanguage = "en" // 默认英文

// Message 多语言消息定义
var messages = map[string]map[string]string{
	"en": {
		// Common
		"success": "Success",
		"failed":  "Failed",
		"error":   "Error",
		"warning": "Warning",

		// States
		"state.unset":   "unset",
		"state.staged":  "staged",
		"state.applied": "applied",

		// Operations
		"create.staged":     "Staged %s: %d file(s), operation %s",
		"apply.applied":     "Applied %s: %d/%d file(s)",
		"apply.file_failed": "%s failed at %s stage: %v",
		"revert.done":       "Reverted %s",
		"restore.done":      "Restored %s: %d/%d file(s)",
		"preset.exported":   "Exported %d preset(s) to %s",
		"preset.imported":   "Imported %d preset(s)",
		"history.empty":     "No history recorded",
		"config.updated":    "Set %s = %s",

		// show
		"show.state":      "State:",
		"show.color":      "Color:",
		"show.blur":       "Blur:",
		"show.mix":        "Mix factor:",
		"show.operation":  "Operation:",
		"show.staged_at":  "Staged at:",
		"show.applied_at": "Applied at:",
		"show.files":      "Files:",

		// Errors
		"error.stage":         "%s failed at %s stage: %v",
		"error.invalid_color": "Invalid color, use #RRGGBB",
		"error.invalid_alpha": "Alpha must be a number between 0 and 1",
		"error.invalid_blur":  "Blur must be a non-negative integer",

		// TUI specific
		"tui.title":          "SpringTint",
		"tui.help.list":      "↑/↓ select • e edit • a apply • r revert • o restore originals • q quit",
		"tui.help.form":      "tab next field • enter stage • esc cancel",
		"tui.field.color":    "Color (hex)",
		"tui.field.alpha":    "Alpha (0-1)",
		"tui.field.blur":     "Blur radius",
		"tui.confirm.revert": "Revert '%s'? (y/n)",
		"success.staged":     "Staged %s",
		"success.applied":    "Applied %s",
		"success.reverted":   "Reverted %s",
	},
	"zh": {
		// Common
		"success": "成功",
		"failed":  "失败",
		"error":   "错误",
		"warning": "警告",

		// States
		"state.unset":   "未设置",
		"state.staged":  "已暂存",
		"state.applied": "已应用",

		// Operations
		"create.staged":     "已暂存 %s：%d 个文件，操作 %s",
		"apply.applied":     "已应用 %s：%d/%d 个文件",
		"apply.file_failed": "%s 在 %s 阶段失败: %v",
		"revert.done":       "已还原 %s",
		"restore.done":      "已恢复 %s：%d/%d 个文件",
		"preset.exported":   "已导出 %d 个预设到 %s",
		"preset.imported":   "已导入 %d 个预设",
		"history.empty":     "暂无历史记录",
		"config.updated":    "已设置 %s = %s",

		// show
		"show.state":      "状态:",
		"show.color":      "颜色:",
		"show.blur":       "模糊:",
		"show.mix":        "混合系数:",
		"show.operation":  "操作:",
		"show.staged_at":  "暂存于:",
		"show.applied_at": "应用于:",
		"show.files":      "文件:",

		// Errors
		"error.stage":         "%s 在 %s 阶段失败: %v",
		"error.invalid_color": "颜色无效，请使用 #RRGGBB",
		"error.invalid_alpha": "透明度必须是 0 到 1 之间的数字",
		"error.invalid_blur":  "模糊半径必须是非负整数",

		// TUI specific
		"tui.title":          "SpringTint",
		"tui.help.list":      "↑/↓ 选择 • e 编辑 • a 应用 • r 还原 • o 恢复原始文件 • q 退出",
		"tui.help.form":      "tab 下一项 • enter 暂存 • esc 取消",
		"tui.field.color":    "颜色 (hex)",
		"tui.field.alpha":    "透明度 (0-1)",
		"tui.field.blur":     "模糊半径",
		"tui.confirm.revert": "确定要还原 '%s' 吗？(y/n)",
		"success.staged":     "已暂存 %s",
		"success.applied":    "已应用 %s",
		"success.reverted":   "已还原 %s",
	},
}

// Init 根据配置初始化语言
func Init(lang string) {
	SetLanguage(lang)
}

// SetLanguage 设置当前语言
func SetLanguage(lang string) {
	if lang == "en" || lang == "zh" {
		currentLanguage = lang
	}
}

// GetLanguage 获取当前语言
func GetLanguage() string {
	return currentLanguage
}

// T 翻译消息 (Translation)
func T(key string, args ...interface{}) string {
	langMessages, ok := messages[currentLanguage]
	if !ok {
		langMessages = messages["en"] // 降级到英文
	}

	msg, ok := langMessages[key]
	if !ok {
		return key // 如果找不到翻译，返回 key 本身
	}

	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}

	return msg
}
