package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"repo-archiver/internal/archiver"
	"repo-archiver/internal/github"
	"repo-archiver/internal/inventory"
	"repo-archiver/pkg/utils"
)

type screen int

const (
	screenSelecting screen = iota
	screenConfirming
	screenArchiving
	screenDone
)

const (
	buttonCancel   = 0
	buttonContinue = 1
)

type outcomeStatus int

const (
	statusNone outcomeStatus = iota // row was not selected for archiving
	statusPending
	statusInFlight
	statusSucceeded
	statusFailed
)

// outcome tracks one selected row through the executor. It only ever moves
// forward: pending -> in flight -> succeeded/failed.
type outcome struct {
	status outcomeStatus
	reason string
}

type model struct {
	inv    *inventory.Inventory
	client github.Client
	dryRun bool

	scr          screen
	cursor       int
	scrollOffset int
	modalButton  int

	outcomes []outcome
	total    int // rows handed to the executor
	done     int // rows in a terminal state

	sp       spinner.Model
	archCh   chan tea.Msg
	archOpts archiver.Options

	termW int
	termH int
}

func newModel(inv *inventory.Inventory, client github.Client, dryRun bool) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return model{
		inv:         inv,
		client:      client,
		dryRun:      dryRun,
		sp:          sp,
		modalButton: buttonContinue,
		outcomes:    make([]outcome, inv.Len()),
	}
}

// Run drives the selection/confirmation/archiving screens over an already
// fetched inventory.
func Run(inv *inventory.Inventory, client github.Client, dryRun bool) error {
	p := tea.NewProgram(newModel(inv, client, dryRun), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m model) Init() tea.Cmd { return nil }

// messages bridged from the executor goroutine
type archiveEventMsg struct{ ev archiver.Event }
type archiveDoneMsg struct{ summary archiver.Summary }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termW, m.termH = msg.Width, msg.Height
		m.adjustScroll()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.sp, cmd = m.sp.Update(msg)
		return m, cmd
	case archiveEventMsg:
		m.applyEvent(msg.ev)
		return m, m.waitArchiveMsg()
	case archiveDoneMsg:
		// every row already reflects its terminal event
		return m, nil
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.scr {
	case screenSelecting:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "down", "j":
			m.moveCursor(1)
		case "up", "k":
			m.moveCursor(-1)
		case " ", "tab":
			if m.inv.Len() > 0 {
				m.inv.Toggle(m.cursor)
			}
		case "enter":
			// the single business-rule gate: nothing selected, no confirm
			if m.inv.SelectedCount() > 0 {
				m.scr = screenConfirming
				m.modalButton = buttonContinue
			}
		}
	case screenConfirming:
		switch msg.String() {
		case "left", "h":
			m.modalButton = buttonCancel
		case "right", "l":
			m.modalButton = buttonContinue
		case "tab":
			m.modalButton = 1 - m.modalButton
		case "enter":
			if m.modalButton == buttonContinue {
				return m.startArchiving()
			}
			m.scr = screenSelecting
		case "y":
			return m.startArchiving()
		case "n", "esc":
			m.scr = screenSelecting
		}
	case screenArchiving:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			// quitting now would orphan in-flight operations from the
			// operator's view; ignored until every outcome is terminal
		case "down", "j":
			m.moveCursor(1)
		case "up", "k":
			m.moveCursor(-1)
		}
	case screenDone:
		switch msg.String() {
		case "q", "esc", "enter", "ctrl+c":
			return m, tea.Quit
		case "down", "j":
			m.moveCursor(1)
		case "up", "k":
			m.moveCursor(-1)
		}
	}
	return m, nil
}

func (m *model) moveCursor(delta int) {
	n := m.inv.Len()
	if n == 0 {
		return
	}
	m.cursor = (m.cursor + delta + n) % n
	m.adjustScroll()
}

// startArchiving freezes the current selection into executor targets and
// launches the executor on a worker goroutine, bridging its events into tea
// messages. Selection can no longer change: the selecting screen is gone.
func (m model) startArchiving() (tea.Model, tea.Cmd) {
	m.scr = screenArchiving
	m.sp = spinner.New()
	m.sp.Spinner = spinner.Dot
	m.done = 0

	var targets []archiver.Target
	for _, t := range m.inv.Selected() {
		m.outcomes[t.Index] = outcome{status: statusPending}
		targets = append(targets, archiver.Target{Index: t.Index, Name: t.Repo.Name})
	}
	m.total = len(targets)

	ch := make(chan tea.Msg)
	m.archCh = ch
	client := m.client
	opts := m.archOpts
	opts.DryRun = m.dryRun
	go func() {
		progress := make(chan archiver.Event)
		done := make(chan archiver.Summary, 1)
		go func() {
			done <- archiver.Archive(context.Background(), client, targets, progress, opts)
			close(progress)
		}()
		for ev := range progress {
			ch <- archiveEventMsg{ev: ev}
		}
		ch <- archiveDoneMsg{summary: <-done}
		close(ch)
	}()

	return m, tea.Batch(m.sp.Tick, m.waitArchiveMsg())
}

func (m *model) waitArchiveMsg() tea.Cmd {
	ch := m.archCh
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

func (m *model) applyEvent(ev archiver.Event) {
	switch ev.Kind {
	case archiver.Started:
		m.outcomes[ev.Index] = outcome{status: statusInFlight}
	case archiver.Done:
		m.outcomes[ev.Index] = outcome{status: statusSucceeded}
		m.done++
	case archiver.Failed:
		m.outcomes[ev.Index] = outcome{status: statusFailed, reason: ev.Reason}
		m.done++
	}
	if m.done >= m.total && m.scr == screenArchiving {
		m.scr = screenDone
	}
}

func (m model) View() string {
	if m.scr == screenConfirming {
		return m.renderConfirm()
	}
	return m.renderHeader() + m.renderList() + m.renderHelp()
}

func (m model) renderHeader() string {
	badge := ""
	if m.dryRun {
		badge = " [DRY RUN]"
	}
	var title string
	switch m.scr {
	case screenArchiving:
		title = fmt.Sprintf(" Archiving%s (%d/%d) %s", badge, m.done, m.total, m.sp.View())
	case screenDone:
		title = " Done! "
	default:
		title = fmt.Sprintf(" Repo Archiver%s (%d selected) ", badge, m.inv.SelectedCount())
	}
	return titleStyle.Render(title) + "\n\n"
}

func (m model) renderList() string {
	if m.inv.Len() == 0 {
		return "No repos to show.\n"
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("    %-30s %-12s %-12s %s", "Name", "Created", "Last Push", "Description")) + "\n")

	visible := m.visibleHeight()
	start := m.scrollOffset
	end := start + visible
	if end > m.inv.Len() {
		end = m.inv.Len()
	}
	for i := start; i < end; i++ {
		r := m.inv.At(i)

		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("▶") + " "
		}

		desc := r.Description
		if desc == "" {
			desc = "-"
		}
		desc = utils.Truncate(desc, 50)
		if m.outcomes[i].status == statusFailed {
			desc = failStyle.Render(utils.Truncate(m.outcomes[i].reason, 50))
		}

		row := fmt.Sprintf("%-30s %-12s %-12s %s",
			utils.Truncate(r.Name, 30),
			utils.FormatDate(r.CreatedAt),
			utils.FormatDate(r.PushedAt),
			desc,
		)
		b.WriteString(prefix + m.statusGlyph(i) + " " + m.rowStyle(i).Render(row) + "\n")
	}
	return b.String()
}

func (m model) statusGlyph(i int) string {
	switch m.outcomes[i].status {
	case statusPending:
		return pendingStyle.Render("⏳")
	case statusInFlight:
		return m.sp.View()
	case statusSucceeded:
		return okStyle.Render("✓")
	case statusFailed:
		return failStyle.Render("✗")
	default:
		if m.inv.IsSelected(i) {
			return okStyle.Render("✓")
		}
		return " "
	}
}

func (m model) rowStyle(i int) lipgloss.Style {
	switch m.outcomes[i].status {
	case statusSucceeded:
		return okStyle
	case statusFailed:
		return failStyle
	case statusInFlight:
		return activeStyle
	}
	if m.inv.IsSelected(i) {
		return selectedStyle
	}
	return mutedStyle
}

func (m model) renderHelp() string {
	var help string
	switch m.scr {
	case screenArchiving:
		help = "↑/↓ or j/k: Scroll"
	case screenDone:
		help = "All done! Press q or Enter to exit."
	default:
		help = "↑/↓ or j/k: Navigate | Space/Tab: Toggle | Enter: Confirm | q: Quit"
	}
	return "\n" + dimStyle.Render(help) + "\n"
}

func (m model) renderConfirm() string {
	count := m.inv.SelectedCount()

	warn := dangerStyle.Render("This action cannot be undone.")
	if m.dryRun {
		warn = pendingStyle.Render("(Dry run - no changes will be made)")
	}

	cancel := buttonStyle.Render(" Cancel ")
	cont := buttonStyle.Render(" Continue ")
	if m.modalButton == buttonCancel {
		cancel = buttonActiveStyle.Render(" Cancel ")
	} else {
		cont = buttonActiveStyle.Render(" Continue ")
	}

	body := fmt.Sprintf("Archive %d %s?\n\n%s\n\n%s    %s\n\n%s",
		count, utils.Pluralize(count, "repo"),
		warn,
		cancel, cont,
		dimStyle.Render("←/→ or Tab: Switch | Enter: Select | Esc: Cancel"),
	)
	panel := panelStyle.Render(body)
	if m.termW > 0 && m.termH > 0 {
		return lipgloss.Place(m.termW, m.termH, lipgloss.Center, lipgloss.Center, panel)
	}
	return panel
}

func (m model) visibleHeight() int {
	// title block, column header, help bar
	h := m.termH - 7
	if h < 3 {
		h = 3
	}
	return h
}

func (m *model) adjustScroll() {
	vis := m.visibleHeight()
	if m.cursor >= m.scrollOffset+vis {
		m.scrollOffset = m.cursor - vis + 1
	}
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}
}

var (
	titleStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("45")).Bold(true)  // cyan
	headerStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("227")).Bold(true) // yellow
	cursorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))             // purple
	selectedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))            // white
	mutedStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))            // gray
	dimStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))            // dark gray
	okStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))             // green
	failStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))            // red
	activeStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))             // cyan
	pendingStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("227"))            // yellow
	dangerStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	buttonStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	buttonActiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("232")).Background(lipgloss.Color("255"))
	panelStyle        = lipgloss.NewStyle().Padding(1, 2).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("45"))
)
