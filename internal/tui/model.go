// Package tui provides the Bubble Tea rating interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"rateboard/internal/model"
	"rateboard/internal/session"
	"rateboard/internal/store"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	textStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	issueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	savingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Italic(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Model implements the Bubble Tea rating UI.
type Model struct {
	store    store.Store
	sess     *session.Session
	problems []model.Problem

	width  int
	height int

	jumpMode  bool
	jumpInput textinput.Model
	jumpError string

	pendingRating int
	saving        bool
	degraded      bool
	status        string
	statusIsError bool
}

type ratingsMsg struct {
	ratings []model.Rating
	err     error
}

type savedMsg struct {
	rating model.Rating
	err    error
}

type exportedMsg struct {
	path string
	err  error
}

// NewModel constructs a rating TUI model.
func NewModel(st store.Store, sess *session.Session, problems []model.Problem) *Model {
	m := &Model{
		store:    st,
		sess:     sess,
		problems: problems,
	}
	m.jumpInput = newJumpInput(sess)
	return m
}

func newJumpInput(sess *session.Session) textinput.Model {
	lo, hi := sess.Bounds()
	input := textinput.New()
	input.Prompt = "Jump to problem: "
	input.Placeholder = fmt.Sprintf("%d-%d", lo+1, hi)
	input.CharLimit = 6
	input.Width = 10
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.loadRatings
}

func (m *Model) loadRatings() tea.Msg {
	ratings, err := m.store.All(context.Background())
	return ratingsMsg{ratings: ratings, err: err}
}

func (m *Model) saveRating(r model.Rating) tea.Cmd {
	return func() tea.Msg {
		return savedMsg{rating: r, err: m.store.Set(context.Background(), r)}
	}
}

func (m *Model) exportRatings() tea.Msg {
	mem, ok := m.store.(*store.Memory)
	if !ok {
		return exportedMsg{err: fmt.Errorf("export applies to the memory store; other stores already persist")}
	}
	path := store.ExportFileName(m.sess.RaterID(), time.Now())
	f, err := os.Create(path)
	if err != nil {
		return exportedMsg{err: err}
	}
	if err := mem.ExportCSV(f, m.sess.RaterID()); err != nil {
		_ = f.Close()
		return exportedMsg{err: err}
	}
	if err := f.Close(); err != nil {
		return exportedMsg{err: err}
	}
	return exportedMsg{path: path}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case ratingsMsg:
		if msg.err != nil {
			m.degraded = true
			m.setError(fmt.Sprintf("store unreachable, showing problems as unrated: %v", msg.err))
			return m, nil
		}
		m.degraded = false
		m.sess.LoadRatings(msg.ratings)
		m.setStatus("")
		return m, nil
	case savedMsg:
		m.saving = false
		m.pendingRating = 0
		if msg.err != nil {
			m.setError(fmt.Sprintf("failed to save rating: %v", msg.err))
			return m, nil
		}
		m.sess.Record(msg.rating.Rating)
		if m.sess.Complete() {
			m.setStatus("All assigned problems rated.")
		} else {
			m.setStatus("")
		}
		return m, nil
	case exportedMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("export failed: %v", msg.err))
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Exported to %s", msg.path))
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.jumpMode {
		return m.updateJump(msg)
	}
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "1", "2", "3", "4", "5":
		if m.saving {
			return m, nil
		}
		return m.startSave(int(msg.String()[0] - '0'))
	case "left", "h":
		if m.saving {
			return m, nil
		}
		m.sess.Retreat()
		m.setStatus("")
		return m, nil
	case "right", "l":
		if m.saving {
			return m, nil
		}
		m.sess.Advance()
		m.setStatus("")
		return m, nil
	case "g":
		if m.saving {
			return m, nil
		}
		return m.startJump()
	case "n":
		if m.saving {
			return m, nil
		}
		if m.sess.JumpToFirstUnrated() {
			m.setStatus("")
		} else {
			m.setStatus("Every assigned problem is rated.")
		}
		return m, nil
	case "u":
		if m.saving {
			return m, nil
		}
		m.sess.SetUnratedOnly(!m.sess.UnratedOnly())
		return m, nil
	case "r":
		m.setStatus("Refreshing from store...")
		return m, m.loadRatings
	case "e":
		return m, m.exportRatings
	default:
		return m, nil
	}
}

// startSave issues the store write; the session view is updated only
// once the store confirms.
func (m *Model) startSave(rating int) (tea.Model, tea.Cmd) {
	idx := m.sess.Current()
	if idx >= len(m.problems) {
		m.setError(fmt.Sprintf("problem %d is outside the catalog", idx+1))
		return m, nil
	}
	r := model.Rating{
		ProblemIndex: idx,
		QuestionID:   m.problems[idx].QuestionID,
		Rating:       rating,
		RaterID:      m.sess.RaterID(),
	}
	m.saving = true
	m.pendingRating = rating
	m.setStatus("")
	return m, m.saveRating(r)
}

func (m *Model) startJump() (tea.Model, tea.Cmd) {
	m.jumpMode = true
	m.jumpError = ""
	m.jumpInput.SetValue("")
	return m, m.jumpInput.Focus()
}

func (m *Model) updateJump(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.jumpMode = false
		m.jumpError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyJump(); err != nil {
			m.jumpError = err.Error()
			return m, nil
		}
		m.jumpMode = false
		m.jumpError = ""
		m.setStatus("")
		return m, nil
	}
	var cmd tea.Cmd
	m.jumpInput, cmd = m.jumpInput.Update(msg)
	return m, cmd
}

func (m *Model) applyJump() error {
	pos, err := strconv.Atoi(strings.TrimSpace(m.jumpInput.Value()))
	if err != nil {
		return fmt.Errorf("enter a problem number")
	}
	return m.sess.Jump(pos - 1)
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusIsError = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusIsError = true
}

// View implements tea.Model.
func (m *Model) View() string {
	if len(m.problems) == 0 {
		return ""
	}
	contentWidth := 76
	if m.width > 0 {
		contentWidth = int(float64(m.width) * 0.70)
		if contentWidth < 20 {
			contentWidth = 20
		}
	}
	content := m.renderProblem(contentWidth)
	if m.width == 0 || m.height == 0 {
		return content
	}
	body := lipgloss.NewStyle().Width(contentWidth).Render(content)
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}
	bodyHeight := m.height - 1
	placed := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, body)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return placed + "\n" + footerLine
}

func (m *Model) renderProblem(width int) string {
	idx := m.sess.Current()
	if idx >= len(m.problems) {
		return errorStyle.Render("catalog is shorter than the assigned range")
	}
	p := m.problems[idx]
	lo, _ := m.sess.Bounds()

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Problem %d of %d", idx-lo+1, m.sess.Assigned())))
	b.WriteString(labelStyle.Render("  " + p.QuestionID))
	if m.degraded {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Store unreachable; ratings shown may be stale. Press r to retry."))
	}
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Question"))
	b.WriteString("\n")
	b.WriteString(textStyle.Render(wrapText(p.QuestionText, width)))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Response options"))
	b.WriteString("\n")
	b.WriteString(textStyle.Render(wrapText(p.ResponseOptions, width)))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Described problem"))
	b.WriteString("\n")
	b.WriteString(issueStyle.Render(wrapText(p.ProblemDescription, width)))
	b.WriteString("\n\n")
	b.WriteString(m.renderScale(idx))
	if m.jumpMode {
		b.WriteString("\n\n")
		b.WriteString(m.jumpInput.View())
		if m.jumpError != "" {
			b.WriteString("\n")
			b.WriteString(errorStyle.Render(m.jumpError))
		}
	}
	if m.status != "" {
		b.WriteString("\n\n")
		if m.statusIsError {
			b.WriteString(errorStyle.Render(wrapText(m.status, width)))
		} else {
			b.WriteString(labelStyle.Render(wrapText(m.status, width)))
		}
	}
	return b.String()
}

func (m *Model) renderScale(idx int) string {
	current, rated := m.sess.Rating(idx)
	lines := make([]string, 0, model.RatingMax-model.RatingMin+1)
	for r := model.RatingMin; r <= model.RatingMax; r++ {
		line := fmt.Sprintf("%d  %s", r, model.ScaleLabel(r))
		switch {
		case m.saving && r == m.pendingRating:
			lines = append(lines, savingStyle.Render("> "+line+" (saving)"))
		case rated && r == current:
			lines = append(lines, selectedStyle.Render("> "+line))
		default:
			lines = append(lines, labelStyle.Render("  "+line))
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	rated, assigned := m.sess.Progress()
	segments := []string{fmt.Sprintf("Rated %d/%d", rated, assigned)}
	if assigned > 0 && rated == assigned {
		segments = append(segments, "all rated")
	}
	if m.sess.UnratedOnly() {
		segments = append(segments, "unrated only")
	}
	segments = append(segments, m.helpLine())
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) helpLine() string {
	if _, ok := m.store.(*store.Memory); ok {
		return "Rate: 1-5  Move: h/l  Jump: g  Unrated: n/u  Refresh: r  Export: e  Quit: q"
	}
	return "Rate: 1-5  Move: h/l  Jump: g  Unrated: n/u  Refresh: r  Quit: q"
}
