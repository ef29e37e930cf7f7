package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/YangQing-Lin/springtint/internal/material"
	"github.com/YangQing-Lin/springtint/internal/staging"
)

var (
	accentColor = lipgloss.Color("#5E5CE6")
	okColor     = lipgloss.Color("#30D158")
	failColor   = lipgloss.Color("#FF453A")
	pendColor   = lipgloss.Color("#FFD60A")
	dimColor    = lipgloss.Color("#8E8E93")
	textColor   = lipgloss.Color("#F2F2F7")

	// 预览色块下方的底色（近似主屏壁纸）
	swatchBase = colorful.Color{R: 0.11, G: 0.11, B: 0.12}

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().Foreground(dimColor)

	selectedItemStyle = lipgloss.NewStyle().
				Background(accentColor).
				Foreground(textColor).
				Bold(true).
				Padding(0, 1)

	normalItemStyle    = lipgloss.NewStyle().Padding(0, 1)
	detailContentStyle = lipgloss.NewStyle().Foreground(dimColor)

	successMessageStyle = lipgloss.NewStyle().Foreground(okColor).Bold(true)
	errorMessageStyle   = lipgloss.NewStyle().Foreground(failColor).Bold(true)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor)
	inputLabelStyle = lipgloss.NewStyle().Bold(true)

	buttonStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Background(accentColor).
			Padding(0, 2).
			Bold(true)
	cancelButtonStyle = lipgloss.NewStyle().
				Foreground(textColor).
				Background(dimColor).
				Padding(0, 2)
	dangerButtonStyle = lipgloss.NewStyle().
				Foreground(textColor).
				Background(failColor).
				Padding(0, 2).
				Bold(true)

	badgeStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true)

	stateColors = map[staging.State]lipgloss.Color{
		staging.Unset:   dimColor,
		staging.Staged:  pendColor,
		staging.Applied: okColor,
	}
)

// stateBadge 根据状态返回带样式的徽章
func stateBadge(state staging.State, label string) string {
	color, ok := stateColors[state]
	if !ok {
		color = dimColor
	}
	return badgeStyle.Foreground(color).Render(label)
}

// swatch 渲染色块：按 alpha 与底色混合，近似材质实际效果
func swatch(t material.Tint) string {
	t = t.Clamp()
	c := colorful.Color{R: t.Red, G: t.Green, B: t.Blue}
	shown := swatchBase.BlendRgb(c, t.Alpha).Clamped()
	return lipgloss.NewStyle().Background(lipgloss.Color(shown.Hex())).Render("    ")
}
