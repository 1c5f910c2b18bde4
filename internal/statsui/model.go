// Package statsui renders the interactive ratings dashboard.
package statsui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"rateboard/internal/model"
	"rateboard/internal/rater"
	"rateboard/internal/stats"
	"rateboard/internal/store"
)

const (
	tabOverview = iota
	tabProblems
	tabRaters
)

const plotHeight = 10

const loadErrText = "Could not load ratings."

var (
	tabActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E6E6E6")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#7E9CD8"))
	tabIdleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A0A6B5")).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#3C3F4C"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7A8093"))
	alertStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E46876"))
	panelStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#3C3F4C"))
	panelLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9099AB"))
	panelValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E6E6E6")).Bold(true)
	tableBodyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#B4BAC8"))
)

// Model is the dashboard's Bubble Tea model.
type Model struct {
	store    store.Store
	problems []model.Problem
	cfg      model.StatsConfig

	report stats.Report
	errMsg string

	tabs         []string
	activeTab    int
	viewports    []viewport.Model
	problemTable table.Model
	geom         tableGeom

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string

	sortBySeverity bool
}

// tableGeom remembers the problem table's last applied shape so resizes
// that change nothing skip the rebuild.
type tableGeom struct {
	width  int
	height int
	rows   int
	cols   int
}

// NewModel builds a dashboard over the given store and catalog.
func NewModel(st store.Store, problems []model.Problem, cfg model.StatsConfig) *Model {
	if cfg.Window < 1 {
		cfg.Window = 1
	}
	m := &Model{
		store:    st,
		problems: problems,
		cfg:      cfg,
		tabs:     []string{"Overview", "Problems", "Raters"},
	}
	m.initFilterInputs()
	m.initProblemTable()
	m.initViewports()
	m.reloadReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeComponents()
		m.refreshTabViews()
		return m, nil
	case tea.KeyMsg:
		if key := msg.String(); key == "ctrl+c" || key == "q" {
			return m, tea.Quit
		}
		if m.activeTab == tabProblems {
			m.problemTable.Focus()
		} else {
			m.problemTable.Blur()
		}
		if m.filterMode {
			return m.handleFilterKey(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		m.cycleTab(-1)
		return m, tea.ClearScreen
	case "right", "l":
		m.cycleTab(1)
		return m, tea.ClearScreen
	case "=":
		m.cfg.Window = stepCurveWindow(m.cfg.Window, 1)
		m.refreshTabViews()
		return m, nil
	case "-":
		m.cfg.Window = stepCurveWindow(m.cfg.Window, -1)
		m.refreshTabViews()
		return m, nil
	case "/":
		return m.openFilter()
	case "s":
		if m.activeTab == tabProblems {
			m.sortBySeverity = !m.sortBySeverity
			m.rebuildProblemTable(true)
		}
		return m, nil
	case "r":
		m.reloadReport()
		m.resizeComponents()
		return m, nil
	case "g", "home":
		if m.activeTab == tabProblems {
			m.problemTable.GotoTop()
		} else {
			m.viewports[m.activeTab].GotoTop()
		}
		return m, nil
	case "G", "end":
		if m.activeTab == tabProblems {
			m.problemTable.GotoBottom()
		} else {
			m.viewports[m.activeTab].GotoBottom()
		}
		return m, nil
	}
	var cmd tea.Cmd
	if m.activeTab == tabProblems {
		m.problemTable, cmd = m.problemTable.Update(msg)
	} else {
		m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	top, mid, bottom := m.splitHeights()
	return lipgloss.JoinVertical(lipgloss.Left,
		fitBlock(m.renderHeader(), m.width, top),
		fitBlock(m.renderBody(mid), m.width, mid),
		fitBlock(m.renderFooter(), m.width, bottom),
	)
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initFilterInputs() {
	m.filterInputs = []textinput.Model{
		newFilterField("Rater: "),
		newFilterField("Smoothing window: "),
	}
	m.syncFilterInputs()
}

func (m *Model) initProblemTable() {
	cols, _ := problemTableData(nil, false, 80)
	m.problemTable = table.New(
		table.WithColumns(cols),
		table.WithHeight(1),
	)
	m.problemTable.SetStyles(problemTableStyles())
}

// splitHeights divides the terminal into header, body and footer rows.
func (m *Model) splitHeights() (top, mid, bottom int) {
	top = max(1, lipgloss.Height(tabActiveStyle.Render("X"))) + 1
	bottom = 1
	if !m.filterMode && m.errMsg != "" {
		bottom++
	}
	mid = max(1, m.height-top-bottom)
	return top, mid, bottom
}

func newFilterField(prompt string) textinput.Model {
	field := textinput.New()
	field.Prompt = prompt
	field.CharLimit = 0
	field.Cursor.SetMode(cursor.CursorBlink)
	return field
}

func (m *Model) syncFilterInputs() {
	if len(m.filterInputs) < 2 {
		return
	}
	m.filterInputs[0].SetValue(strings.TrimSpace(m.cfg.RaterID))
	m.filterInputs[1].SetValue(strconv.Itoa(m.cfg.Window))
}

func (m *Model) resizeComponents() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, mid, _ := m.splitHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = mid
	}
	m.rebuildProblemTable(false)
	for i := range m.filterInputs {
		m.filterInputs[i].Width = max(10, m.width-lipgloss.Width(m.filterInputs[i].Prompt)-2)
	}
}

func (m *Model) cycleTab(delta int) {
	n := len(m.tabs)
	if n == 0 {
		return
	}
	m.activeTab = (m.activeTab + delta + n) % n
	if m.activeTab == tabProblems {
		m.problemTable.Focus()
	} else {
		m.problemTable.Blur()
	}
}

func (m *Model) renderTabBar() string {
	parts := make([]string, len(m.tabs))
	for i, name := range m.tabs {
		style := tabIdleStyle
		if i == m.activeTab {
			style = tabActiveStyle
		}
		parts[i] = style.Render(name)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	return padBlock(m.renderTabBar(), m.width) + "\n" + padBlock(m.renderFilterLine(), m.width)
}

func (m *Model) renderFilterLine() string {
	who := m.cfg.RaterID
	if who == "" {
		who = "all"
	}
	order := "position"
	if m.sortBySeverity {
		order = "severity"
	}
	line := fmt.Sprintf("Filters: rater=%s  window=%d  sort=%s", who, m.cfg.Window, order)
	return dimStyle.Render(clipLine(line, m.width))
}

func (m *Model) renderKeyHelp() string {
	if m.filterMode {
		return dimStyle.Render("tab: next field  enter: apply  esc: cancel  q: quit")
	}
	help := "h/l: tabs  j/k: scroll  -/=: curve window  /: filter  r: reload  q: quit"
	if m.activeTab == tabProblems {
		help = "h/l: tabs  j/k: move  s: toggle sort  /: filter  r: reload  q: quit"
	}
	return dimStyle.Render(help)
}

func (m *Model) renderFooter() string {
	if !m.filterMode && m.errMsg != "" {
		return m.renderKeyHelp() + "\n" + alertStyle.Render(m.errMsg)
	}
	return m.renderKeyHelp()
}

func (m *Model) renderFilterView() string {
	lines := []string{"Filter ratings (enter applies, esc cancels)"}
	for _, field := range m.filterInputs {
		lines = append(lines, field.View())
	}
	if m.filterError != "" {
		lines = append(lines, alertStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	switch {
	case m.filterMode:
		return fitBlock(m.renderFilterView(), m.width, height)
	case m.activeTab == tabProblems:
		if len(m.report.Problems) == 0 {
			return fitBlock("No problems in catalog.", m.width, height)
		}
		return fitBlock(tableBodyStyle.Render(m.problemTable.View()), m.width, height)
	default:
		return fitBlock(m.viewports[m.activeTab].View(), m.width, height)
	}
}

func (m *Model) reloadReport() {
	full, err := stats.BuildReport(context.Background(), m.store, m.problems)
	if err != nil {
		m.errMsg = err.Error()
		m.fillViewports(loadErrText)
		return
	}
	m.errMsg = ""
	m.report = full.FilterRater(m.cfg.RaterID)
	m.rebuildProblemTable(true)
	m.refreshTabViews()
}

func (m *Model) fillViewports(content string) {
	for i := range m.viewports {
		m.viewports[i].SetContent(content)
	}
}

func (m *Model) refreshTabViews() {
	if len(m.viewports) == 0 {
		return
	}
	if m.errMsg != "" {
		m.fillViewports(loadErrText)
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(overviewContent(m.report, m.cfg.Window, width))
	m.viewports[tabRaters].SetContent(ratersContent(m.report))
}

func overviewContent(report stats.Report, window, width int) string {
	if len(report.Problems) == 0 {
		return "No problems in catalog."
	}
	body := summaryPanels(report, width) + "\n\n" + curvesContent(report, window, width)
	return strings.TrimRight(body, "\n")
}

func summaryPanels(report stats.Report, width int) string {
	rated, assigned := 0, 0
	var dist [5]int
	for _, rp := range report.Raters {
		rated += rp.Rated
		assigned += rp.Hi - rp.Lo
		for i, c := range rp.Distribution {
			dist[i] += c
		}
	}
	mean := "-"
	if rated > 0 {
		sum := 0
		for i, c := range dist {
			sum += (i + model.RatingMin) * c
		}
		mean = fmt.Sprintf("%.2f", float64(sum)/float64(rated))
	}
	severe := "-"
	if top := stats.SelectSevereProblems(report.Aggregates, 1); len(top) > 0 {
		severe = fmt.Sprintf("%s (%.2f)", top[0].Problem.QuestionID, top[0].Mean)
	}
	panels := []string{
		panel("Problems", strconv.Itoa(len(report.Problems))),
		panel("Raters", strconv.Itoa(len(report.Raters))),
		panel("Rated pairs", fmt.Sprintf("%d/%d", rated, assigned)),
		panel("Mean severity", mean),
		panel("Most severe", severe),
	}
	if width < 80 {
		return strings.Join(panels, "\n")
	}
	rows := make([]string, 0, (len(panels)+2)/3)
	for start := 0; start < len(panels); start += 3 {
		end := min(start+3, len(panels))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, panels[start:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func panel(label, value string) string {
	return panelStyle.Render(panelLabelStyle.Render(label) + "\n" + panelValueStyle.Render(value))
}

func curvesContent(report stats.Report, window, width int) string {
	var buf bytes.Buffer
	if err := stats.RenderSeverityCurvesWithSize(&buf, report, window, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Could not render curves: %v", err)
	}
	if buf.Len() == 0 {
		return "Not enough ratings to draw severity curves."
	}
	return strings.TrimRight(buf.String(), "\n")
}

func ratersContent(report stats.Report) string {
	var buf bytes.Buffer
	if err := stats.RenderRaterTable(&buf, report); err != nil {
		return fmt.Sprintf("Could not render rater table: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func (m *Model) rebuildProblemTable(force bool) {
	width := m.width
	if width <= 0 {
		width = 80
	}
	_, mid, _ := m.splitHeights()
	cols, rows := problemTableData(m.report.Aggregates, m.sortBySeverity, width)
	want := tableGeom{width: width, height: max(1, mid-1), rows: len(rows), cols: len(cols)}
	if !force && m.geom == want {
		return
	}
	m.problemTable.SetColumns(cols)
	m.problemTable.SetRows(rows)
	m.geom.rows = len(rows)
	m.geom.cols = len(cols)
	m.sizeProblemTable(width, mid)
}

func (m *Model) sizeProblemTable(width, height int) {
	m.geom.width = width
	m.geom.height = max(1, height-1)
	m.problemTable.SetWidth(width)
	m.problemTable.SetHeight(m.geom.height)
	if fitted := m.trimTableHeight(height); fitted != m.geom.height {
		m.geom.height = fitted
		m.problemTable.SetHeight(fitted)
	}
}

func problemTableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#3C3F4C")).
		Foreground(lipgloss.Color("#C8CEDC")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	s.Cell = s.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	s.Selected = s.Cell.
		Foreground(lipgloss.Color("#E6E6E6")).
		Bold(true)
	return s
}

// trimTableHeight nudges the bubbles table until its rendered height
// matches the body. The widget adds chrome of its own, so the fit is
// probed rather than computed.
func (m *Model) trimTableHeight(bodyHeight int) int {
	target := max(1, bodyHeight)
	height := m.problemTable.Height()
	for range 2 {
		rendered := lipgloss.Height(m.problemTable.View())
		if rendered == target {
			break
		}
		height = max(1, height+target-rendered)
		m.problemTable.SetHeight(height)
	}
	return height
}

func problemTableData(aggs []stats.ProblemAggregate, bySeverity bool, width int) ([]table.Column, []table.Row) {
	issueWidth := max(20, width-33)
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Question", Width: 10},
		{Title: "Mean", Width: 6},
		{Title: "Ratings", Width: 7},
		{Title: "Issue", Width: issueWidth},
	}
	rows := make([]table.Row, 0, len(aggs))
	for _, agg := range orderedAggregates(aggs, bySeverity) {
		mean := "-"
		if agg.Count > 0 {
			mean = fmt.Sprintf("%.2f", agg.Mean)
		}
		rows = append(rows, table.Row{
			strconv.Itoa(agg.Problem.Index + 1),
			agg.Problem.QuestionID,
			mean,
			strconv.Itoa(agg.Count),
			strings.ReplaceAll(agg.Problem.ProblemDescription, "\n", " "),
		})
	}
	return columns, rows
}

// orderedAggregates keeps catalog order, or ranks rated problems first
// by severity with unrated ones trailing in catalog order.
func orderedAggregates(aggs []stats.ProblemAggregate, bySeverity bool) []stats.ProblemAggregate {
	if !bySeverity {
		return aggs
	}
	out := stats.SelectSevereProblems(aggs, 0)
	for _, agg := range aggs {
		if agg.Count == 0 {
			out = append(out, agg)
		}
	}
	return out
}

func (m *Model) openFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.syncFilterInputs()
	return m, m.focusFilterField(0)
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.commitFilter(); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.reloadReport()
		m.resizeComponents()
		return m, nil
	case tea.KeyTab:
		return m, m.focusFilterField(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.focusFilterField(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) focusFilterField(idx int) tea.Cmd {
	n := len(m.filterInputs)
	if n == 0 {
		return nil
	}
	m.filterIndex = (idx + n) % n
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) commitFilter() error {
	name := strings.TrimSpace(m.filterInputs[0].Value())
	if name != "" {
		if _, ok := rater.AssignmentFor(name); !ok {
			if hint := rater.Suggest(name); hint != "" {
				return fmt.Errorf("unknown rater %q (did you mean %s?)", name, hint)
			}
			return fmt.Errorf("unknown rater %q", name)
		}
	}

	window := 1
	if raw := strings.TrimSpace(m.filterInputs[1].Value()); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return errors.New("curve window must be a whole number >= 1")
		}
		window = parsed
	}

	m.cfg.RaterID = name
	m.cfg.Window = window
	return nil
}

// stepCurveWindow moves the smoothing window between 1 and multiples of 5.
func stepCurveWindow(n, delta int) int {
	if delta > 0 {
		if n < 5 {
			return 5
		}
		return (n/5 + 1) * 5
	}
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return n / 5 * 5
}

func padRight(line string, width int) string {
	if pad := width - lipgloss.Width(line); pad > 0 {
		return line + strings.Repeat(" ", pad)
	}
	return line
}

func padBlock(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = padRight(lines[i], width)
	}
	return strings.Join(lines, "\n")
}

// fitBlock pads every line to width and forces the block to exactly
// height rows, truncating or blank-filling as needed.
func fitBlock(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	blank := strings.Repeat(" ", width)
	out := make([]string, height)
	for i := range out {
		if i < len(lines) {
			out[i] = padRight(lines[i], width)
		} else {
			out[i] = blank
		}
	}
	return strings.Join(out, "\n")
}

func clipLine(s string, width int) string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}
