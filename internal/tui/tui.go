package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/YangQing-Lin/springtint/internal/catalog"
	"github.com/YangQing-Lin/springtint/internal/errs"
	"github.com/YangQing-Lin/springtint/internal/i18n"
	"github.com/YangQing-Lin/springtint/internal/material"
	"github.com/YangQing-Lin/springtint/internal/preset"
	"github.com/YangQing-Lin/springtint/internal/recolor"
	"github.com/YangQing-Lin/springtint/internal/staging"
)

// Backend 是 TUI 需要的协调器操作
type Backend interface {
	Kinds() []catalog.Kind
	State(kind catalog.Kind) (staging.Record, error)
	GetColor(kind catalog.Kind) material.Tint
	GetBlur(kind catalog.Kind) material.Blur
	CreateColor(ctx context.Context, kind catalog.Kind, tint material.Tint, blur material.Blur) (staging.Record, error)
	ApplyColor(ctx context.Context, kind catalog.Kind) (*recolor.ApplyReport, error)
	DeleteColor(ctx context.Context, kind catalog.Kind) error
	Restore(ctx context.Context, kind catalog.Kind) (*recolor.ApplyReport, error)
}

type row struct {
	kind  catalog.Kind
	state staging.State
	tint  material.Tint
	blur  material.Blur
}

// opDoneMsg 是后台操作完成后的结果
type opDoneMsg struct {
	verb   string
	kind   catalog.Kind
	report *recolor.ApplyReport
	err    error
}

// Model TUI 主模型
type Model struct {
	ctx        context.Context
	backend    Backend
	rows       []row
	cursor     int
	width      int
	height     int
	err        error
	message    string
	mode       string // "list", "edit", "revert"
	busy       bool
	inputs     []textinput.Model
	focusIndex int
}

// New 创建新的 TUI 模型
func New(ctx context.Context, backend Backend) Model {
	m := Model{
		ctx:     ctx,
		backend: backend,
		mode:    "list",
	}
	m.refresh()
	return m
}

func (m *Model) refresh() {
	kinds := m.backend.Kinds()
	m.rows = make([]row, 0, len(kinds))
	for _, k := range kinds {
		r := row{kind: k, state: staging.Unset, tint: m.backend.GetColor(k), blur: m.backend.GetBlur(k)}
		if rec, err := m.backend.State(k); err == nil {
			r.state = rec.State
		}
		m.rows = append(m.rows, r)
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) selected() (row, bool) {
	if len(m.rows) == 0 {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case opDoneMsg:
		return m.handleOpDone(msg), nil

	case tea.KeyMsg:
		switch m.mode {
		case "list":
			return m.handleListKeys(msg)
		case "edit":
			// 先处理特殊键,再更新输入框
			handled, newModel, cmd := m.handleFormKeys(msg)
			if handled {
				return newModel, cmd
			}
			return m.updateInputs(msg)
		case "revert":
			return m.handleRevertKeys(msg)
		}
	}

	return m, nil
}

func (m Model) View() string {
	switch m.mode {
	case "edit":
		return m.viewForm()
	case "revert":
		return m.viewRevert()
	}
	return m.viewList()
}

// 后台执行，避免阻塞界面
func (m Model) run(verb string, kind catalog.Kind, fn func(ctx context.Context) (*recolor.ApplyReport, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		report, err := fn(ctx)
		return opDoneMsg{verb: verb, kind: kind, report: report, err: err}
	}
}

func (m Model) handleOpDone(msg opDoneMsg) Model {
	m.busy = false
	m.refresh()
	if msg.err != nil {
		m.err = fmt.Errorf("%s", i18n.T("error.stage", msg.kind, errs.Stage(msg.err), msg.err))
		m.message = ""
		return m
	}
	m.err = nil
	switch msg.verb {
	case "create":
		m.message = i18n.T("success.staged", msg.kind)
	case "apply":
		m.message = i18n.T("success.applied", msg.kind)
		if msg.report != nil {
			m.message = i18n.T("apply.applied", msg.kind, len(msg.report.Applied()), len(msg.report.Results))
			if failed := msg.report.Failed(); len(failed) > 0 {
				f := failed[0]
				m.err = fmt.Errorf("%s", i18n.T("apply.file_failed", f.Basename, errs.Stage(f.Err), f.Err))
			}
		}
	case "revert":
		m.message = i18n.T("success.reverted", msg.kind)
	case "restore":
		if msg.report != nil {
			m.message = i18n.T("restore.done", msg.kind, len(msg.report.Applied()), len(msg.report.Results))
		}
	}
	return m
}

// List view handlers
func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	}

	if m.busy {
		return m, nil
	}
	r, ok := m.selected()
	if !ok {
		return m, nil
	}

	switch msg.String() {
	case "e", "enter":
		m.mode = "edit"
		m.initForm(r)
		return m, textinput.Blink
	case "a":
		m.busy = true
		backend := m.backend
		return m, m.run("apply", r.kind, func(ctx context.Context) (*recolor.ApplyReport, error) {
			return backend.ApplyColor(ctx, r.kind)
		})
	case "r":
		m.mode = "revert"
	case "o":
		m.busy = true
		backend := m.backend
		return m, m.run("restore", r.kind, func(ctx context.Context) (*recolor.ApplyReport, error) {
			return backend.Restore(ctx, r.kind)
		})
	}
	return m, nil
}

// Form handlers - 返回 (handled, model, cmd)
func (m Model) handleFormKeys(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = "list"
		m.err = nil
		return true, m, nil
	case "tab", "shift+tab", "up", "down":
		if msg.String() == "up" || msg.String() == "shift+tab" {
			m.focusIndex--
		} else {
			m.focusIndex++
		}
		if m.focusIndex >= len(m.inputs) {
			m.focusIndex = 0
		} else if m.focusIndex < 0 {
			m.focusIndex = len(m.inputs) - 1
		}
		cmds := make([]tea.Cmd, len(m.inputs))
		for i := range m.inputs {
			if i == m.focusIndex {
				cmds[i] = m.inputs[i].Focus()
			} else {
				m.inputs[i].Blur()
			}
		}
		return true, m, tea.Batch(cmds...)
	case "enter", "ctrl+s":
		cmd := m.submitForm()
		return true, m, cmd
	}
	// 未处理,返回 false
	return false, m, nil
}

func (m *Model) submitForm() tea.Cmd {
	r, ok := m.selected()
	if !ok {
		return nil
	}

	red, green, blue, err := preset.ParseColor(m.inputs[0].Value())
	if err != nil {
		m.err = fmt.Errorf("%s", i18n.T("error.invalid_color"))
		return nil
	}
	alpha, err := strconv.ParseFloat(strings.TrimSpace(m.inputs[1].Value()), 64)
	if err != nil || alpha < 0 || alpha > 1 {
		m.err = fmt.Errorf("%s", i18n.T("error.invalid_alpha"))
		return nil
	}
	blur, err := strconv.Atoi(strings.TrimSpace(m.inputs[2].Value()))
	if err != nil || blur < 0 {
		m.err = fmt.Errorf("%s", i18n.T("error.invalid_blur"))
		return nil
	}

	m.err = nil
	m.mode = "list"
	m.busy = true
	tint := material.Tint{Red: red, Green: green, Blue: blue, Alpha: alpha}
	backend := m.backend
	return m.run("create", r.kind, func(ctx context.Context) (*recolor.ApplyReport, error) {
		_, err := backend.CreateColor(ctx, r.kind, tint, material.Blur(blur))
		return nil, err
	})
}

// Revert handlers
func (m Model) handleRevertKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		r, _ := m.selected()
		m.mode = "list"
		m.busy = true
		backend := m.backend
		return m, m.run("revert", r.kind, func(ctx context.Context) (*recolor.ApplyReport, error) {
			return nil, backend.DeleteColor(ctx, r.kind)
		})
	case "n", "N", "esc":
		m.mode = "list"
	}
	return m, nil
}

// View renderers
func (m Model) viewList() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(i18n.T("tui.title")) + "\n\n")
	m.writeStatus(&s)

	for i, r := range m.rows {
		name := fmt.Sprintf("%-15s", r.kind)
		if i == m.cursor {
			name = selectedItemStyle.Render(name)
		} else {
			name = normalItemStyle.Render(name)
		}
		hex := preset.FormatColor(r.tint.Red, r.tint.Green, r.tint.Blue)
		detail := detailContentStyle.Render(fmt.Sprintf("%s α=%.2f blur=%d", hex, r.tint.Alpha, r.blur))
		badge := stateBadge(r.state, i18n.T("state."+string(r.state)))
		s.WriteString(fmt.Sprintf("%s %s %s %s\n", name, swatch(r.tint), detail, badge))
	}

	s.WriteString("\n")
	if m.busy {
		s.WriteString(helpStyle.Render("…") + "\n")
	}
	s.WriteString(helpStyle.Render(i18n.T("tui.help.list")))
	return s.String()
}

func (m Model) writeStatus(s *strings.Builder) {
	if m.message != "" {
		s.WriteString(successMessageStyle.Render("✓ "+m.message) + "\n")
	}
	if m.err != nil {
		s.WriteString(errorMessageStyle.Render("✗ "+m.err.Error()) + "\n")
	}
	if m.message != "" || m.err != nil {
		s.WriteString("\n")
	}
}

func (m Model) viewForm() string {
	var s strings.Builder
	r, _ := m.selected()

	s.WriteString(titleStyle.Render(r.kind.String()) + "\n\n")
	if m.err != nil {
		s.WriteString(errorMessageStyle.Render("✗ "+m.err.Error()) + "\n\n")
	}

	labels := []string{i18n.T("tui.field.color"), i18n.T("tui.field.alpha"), i18n.T("tui.field.blur")}
	for i, label := range labels {
		s.WriteString(inputLabelStyle.Render(label+":") + "\n")
		if i == m.focusIndex {
			s.WriteString(inputBoxStyle.Render(m.inputs[i].View()) + "\n\n")
		} else {
			s.WriteString(m.inputs[i].View() + "\n\n")
		}
	}

	if red, green, blue, err := preset.ParseColor(m.inputs[0].Value()); err == nil {
		alpha, err := strconv.ParseFloat(strings.TrimSpace(m.inputs[1].Value()), 64)
		if err != nil {
			alpha = 1
		}
		s.WriteString(swatch(material.Tint{Red: red, Green: green, Blue: blue, Alpha: alpha}) + "\n\n")
	}

	s.WriteString(buttonStyle.Render("Enter") + " ")
	s.WriteString(cancelButtonStyle.Render("ESC") + "\n\n")
	s.WriteString(helpStyle.Render(i18n.T("tui.help.form")))
	return s.String()
}

func (m Model) viewRevert() string {
	var s strings.Builder
	r, _ := m.selected()

	s.WriteString(titleStyle.Render(i18n.T("tui.title")) + "\n\n")
	s.WriteString(i18n.T("tui.confirm.revert", r.kind) + "\n\n")
	s.WriteString(dangerButtonStyle.Render("Y") + " ")
	s.WriteString(cancelButtonStyle.Render("N"))
	return s.String()
}

// Helper functions
func (m *Model) initForm(r row) {
	m.inputs = make([]textinput.Model, 3)
	m.focusIndex = 0
	m.err = nil

	m.inputs[0] = textinput.New()
	m.inputs[0].Placeholder = "#808080"
	m.inputs[0].CharLimit = 7
	m.inputs[0].Width = 20
	m.inputs[0].SetValue(preset.FormatColor(r.tint.Red, r.tint.Green, r.tint.Blue))
	m.inputs[0].Focus()

	m.inputs[1] = textinput.New()
	m.inputs[1].Placeholder = "1.0"
	m.inputs[1].CharLimit = 8
	m.inputs[1].Width = 20
	m.inputs[1].SetValue(strconv.FormatFloat(r.tint.Alpha, 'f', 2, 64))

	m.inputs[2] = textinput.New()
	m.inputs[2].Placeholder = "30"
	m.inputs[2].CharLimit = 4
	m.inputs[2].Width = 20
	m.inputs[2].SetValue(strconv.Itoa(int(r.blur)))
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}
	return m, tea.Batch(cmds...)
}

// Run 启动交互界面
func Run(ctx context.Context, backend Backend) error {
	p := tea.NewProgram(New(ctx, backend), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
