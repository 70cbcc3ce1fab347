package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Cyber-Donchichi/Fhg-scoutier/internal/engine"
	"github.com/Cyber-Donchichi/Fhg-scoutier/internal/history"
	"github.com/Cyber-Donchichi/Fhg-scoutier/internal/model"
	"github.com/Cyber-Donchichi/Fhg-scoutier/internal/viewer"
)

type appModel struct {
	engine  *engine.Engine
	history *history.Store
	viewer  viewer.Viewer

	visible  []int // collection indices passing the active filter
	selected int   // position within visible

	filter       engine.Filter
	tagCursor    int // -1 = all tags, otherwise index into the facet
	searchMode   bool
	confirmClear bool

	width  int
	height int

	statusMsg string
	err       error
}

type loadDoneMsg struct {
	index int
	url   string
	doc   viewer.Document
	err   error
}

type statusMsg struct {
	message string
}

func initialModel(e *engine.Engine, h *history.Store, v viewer.Viewer) appModel {
	m := appModel{
		engine:    e,
		history:   h,
		viewer:    v,
		tagCursor: -1,
		width:     80,
		height:    24,
	}
	m.refreshVisible()
	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.EnterAltScreen
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.confirmClear {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			return m.handleClearConfirmation(keyMsg)
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchInput(msg)
		}
		return m.handleKey(msg)

	case loadDoneMsg:
		return m.handleLoadDone(msg)

	case statusMsg:
		m.statusMsg = msg.message
		if msg.message == "" {
			return m, nil
		}
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return statusMsg{""}
		})
	}

	return m, nil
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "j", "down":
		if m.selected < len(m.visible)-1 {
			m.selected++
		}
		return m, nil

	case "k", "up":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case "g":
		m.selected = 0
		return m, nil

	case "G":
		m.selected = len(m.visible) - 1
		if m.selected < 0 {
			m.selected = 0
		}
		return m, nil

	case "o", "enter":
		return m, m.openSelected()

	case "n":
		return m, m.openNext()

	case "p":
		return m, m.openPrev()

	case "r":
		return m, m.refreshCurrent()

	case "v":
		return m, m.toggleVisited()

	case "tab":
		m.cycleVisitedFilter()
		return m, nil

	case "t":
		m.cycleTagFilter()
		return m, nil

	case "/":
		m.searchMode = true
		m.filter.Text = ""
		return m, nil

	case "esc":
		m.filter.Text = ""
		m.applyFilter()
		return m, nil

	case "D":
		if m.engine.Len() > 0 {
			m.confirmClear = true
		}
		return m, nil
	}
	return m, nil
}

func (m *appModel) refreshVisible() {
	m.engine.SetFilter(m.filter)
	m.visible = m.engine.VisibleIndices()
	if m.selected >= len(m.visible) {
		m.selected = len(m.visible) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m *appModel) applyFilter() {
	m.refreshVisible()
}

func (m *appModel) cycleVisitedFilter() {
	switch m.filter.Visited {
	case engine.VisitedAll:
		m.filter.Visited = engine.UnvisitedOnly
	case engine.UnvisitedOnly:
		m.filter.Visited = engine.VisitedOnly
	case engine.VisitedOnly:
		m.filter.Visited = engine.VisitedAll
	}
	m.selected = 0
	m.applyFilter()
}

func (m *appModel) cycleTagFilter() {
	facet := m.engine.TagFacet()
	if len(facet) == 0 {
		m.tagCursor = -1
		m.filter.Tag = ""
		return
	}
	m.tagCursor++
	if m.tagCursor >= len(facet) {
		m.tagCursor = -1
	}
	if m.tagCursor == -1 {
		m.filter.Tag = ""
	} else {
		m.filter.Tag = facet[m.tagCursor]
	}
	m.selected = 0
	m.applyFilter()
}

func (m *appModel) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchMode = false
		m.filter.Text = ""
		m.applyFilter()
		return m, nil

	case "enter":
		m.searchMode = false
		m.applyFilter()
		return m, nil

	case "backspace":
		if len(m.filter.Text) > 0 {
			m.filter.Text = m.filter.Text[:len(m.filter.Text)-1]
			m.applyFilter()
		}
		return m, nil

	default:
		if len(msg.Runes) > 0 {
			m.filter.Text += string(msg.Runes)
			m.applyFilter()
		}
		return m, nil
	}
}

// openSelected opens the link under the selection and starts a preview load.
func (m *appModel) openSelected() tea.Cmd {
	if len(m.visible) == 0 || m.selected >= len(m.visible) {
		return nil
	}
	return m.openAt(m.visible[m.selected])
}

func (m *appModel) openAt(index int) tea.Cmd {
	link, err := m.engine.Open(index)
	if err != nil {
		return reportError(err)
	}
	m.refreshVisible()
	return tea.Batch(
		func() tea.Msg { return statusMsg{"Loading " + link.URL + "..."} },
		loadPage(m.viewer, index, link.URL),
	)
}

func (m *appModel) openNext() tea.Cmd {
	index, link, err := m.engine.Next()
	if errors.Is(err, model.ErrExhausted) {
		return func() tea.Msg {
			return statusMsg{"All links visited. Great job!"}
		}
	}
	if err != nil {
		return reportError(err)
	}
	m.refreshVisible()
	return loadPage(m.viewer, index, link.URL)
}

func (m *appModel) openPrev() tea.Cmd {
	index, link, err := m.engine.Prev()
	if errors.Is(err, model.ErrExhausted) {
		return func() tea.Msg {
			return statusMsg{"No earlier unvisited links."}
		}
	}
	if err != nil {
		return reportError(err)
	}
	m.refreshVisible()
	return loadPage(m.viewer, index, link.URL)
}

// refreshCurrent reloads the current link in the viewer, re-running the
// full load cycle.
func (m *appModel) refreshCurrent() tea.Cmd {
	link, ok := m.engine.Current()
	if !ok {
		return nil
	}
	return loadPage(m.viewer, m.engine.CurrentIndex(), link.URL)
}

func (m *appModel) toggleVisited() tea.Cmd {
	if len(m.visible) == 0 || m.selected >= len(m.visible) {
		return nil
	}
	index := m.visible[m.selected]
	links := m.engine.Links()
	target := !links[index].Visited
	if err := m.engine.SetVisited(index, target); err != nil {
		return reportError(err)
	}
	m.refreshVisible()
	word := "unvisited"
	if target {
		word = "visited"
	}
	return func() tea.Msg { return statusMsg{"Marked as " + word} }
}

func (m appModel) handleClearConfirmation(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.confirmClear = false
		if err := m.engine.DeleteAll(); err != nil {
			return m, reportError(err)
		}
		m.refreshVisible()
		return m, func() tea.Msg { return statusMsg{"Deleted all links"} }

	case "n", "N", "esc":
		m.confirmClear = false
		return m, nil

	default:
		return m, nil
	}
}

// handleLoadDone applies the preview metadata capture. Stale completions
// (the cursor moved while the load was in flight) are discarded.
func (m appModel) handleLoadDone(msg loadDoneMsg) (tea.Model, tea.Cmd) {
	ev := engine.LoadEvent{Index: msg.index, URL: msg.url}
	if msg.err == nil {
		ev.Doc = msg.doc
	}

	outcome, err := m.engine.HandleLoad(ev)
	if outcome.Stale {
		return m, nil
	}
	m.refreshVisible()

	cmds := []tea.Cmd{}
	if err != nil && errors.Is(err, model.ErrPersistence) {
		cmds = append(cmds, reportError(err))
	}

	status := outcome.Status
	if outcome.Contact != "" {
		status += " · " + outcome.Contact
	}
	cmds = append(cmds, func() tea.Msg { return statusMsg{status} })

	if outcome.Redirect != "" {
		cmds = append(cmds, loadPage(m.viewer, msg.index, outcome.Redirect))
	} else if cur, ok := m.engine.Current(); ok {
		h := m.history
		cmds = append(cmds, func() tea.Msg {
			if _, err := h.Record(context.Background(), cur.URL, cur.Title); err != nil {
				return statusMsg{fmt.Sprintf("History error: %v", err)}
			}
			return nil
		})
	}

	return m, tea.Batch(cmds...)
}

func loadPage(v viewer.Viewer, index int, url string) tea.Cmd {
	return func() tea.Msg {
		doc, err := v.Navigate(context.Background(), url)
		return loadDoneMsg{index: index, url: url, doc: doc, err: err}
	}
}

func reportError(err error) tea.Cmd {
	if errors.Is(err, model.ErrPersistence) {
		return func() tea.Msg {
			return statusMsg{"Warning: could not save; changes may not survive a reload"}
		}
	}
	return func() tea.Msg {
		return statusMsg{fmt.Sprintf("Error: %v", err)}
	}
}

func (m appModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err)
	}

	var view string
	view += m.renderHeader() + "\n"
	if m.searchMode {
		view += m.renderSearchBar() + "\n"
	}
	view += m.renderList() + "\n"
	view += m.renderStatusBar()
	return view
}

// Run starts the TUI session.
func Run(e *engine.Engine, h *history.Store, v viewer.Viewer) error {
	p := tea.NewProgram(initialModel(e, h, v), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
