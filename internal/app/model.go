package app

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/spinner"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"

	"convo/internal/content"
	"convo/internal/store"
	"convo/internal/types"
)

const (
	minViewportWidth = 20
	minContentHeight = 4
	chromeLines      = 2
	snapshotBuffer   = 64
	tickInterval     = 100 * time.Millisecond
)

// Options configures the terminal viewer.
type Options struct {
	ShowThoughts bool
	WrapWidth    int
}

type snapshotMsg struct {
	session *types.Session
}

type tickMsg time.Time

// Model is a read-only terminal view over a session store. It never mutates
// the store; all state arrives as immutable snapshots.
type Model struct {
	sessions     *store.SessionStore
	updates      chan *types.Session
	unsubscribe  func()
	viewport     viewport.Model
	loader       spinner.Model
	session      *types.Session
	width        int
	height       int
	follow       bool
	showThoughts bool
	wrapWidth    int
	status       string
	statusIsErr  bool
}

func NewModel(sessions *store.SessionStore, opts Options) Model {
	updates := make(chan *types.Session, snapshotBuffer)
	unsubscribe := sessions.Subscribe(func(session *types.Session) {
		// Snapshots are complete states; coalescing a burst by dropping
		// intermediates loses nothing the next snapshot does not carry.
		select {
		case updates <- session:
		default:
		}
	})
	vp := viewport.New(viewport.WithWidth(minViewportWidth), viewport.WithHeight(minContentHeight))
	loader := spinner.New()
	loader.Spinner = spinner.Line
	return Model{
		sessions:     sessions,
		updates:      updates,
		unsubscribe:  unsubscribe,
		viewport:     vp,
		loader:       loader,
		session:      sessions.Snapshot(),
		follow:       true,
		showThoughts: opts.ShowThoughts,
		wrapWidth:    opts.WrapWidth,
	}
}

func (m *Model) Init() tea.Cmd {
	m.refresh()
	return tea.Batch(m.waitForSnapshot(), tick())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case snapshotMsg:
		m.session = msg.session
		m.refresh()
		return m, m.waitForSnapshot()
	case tickMsg:
		if m.busy() {
			m.loader, _ = m.loader.Update(spinner.TickMsg{Time: time.Time(msg), ID: m.loader.ID()})
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusView())
	return b.String()
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.unsubscribe != nil {
			m.unsubscribe()
		}
		return tea.Quit
	case "t":
		m.showThoughts = !m.showThoughts
		m.refresh()
	case "f":
		m.follow = !m.follow
		if m.follow {
			m.viewport.GotoBottom()
		}
	case "g", "home":
		m.follow = false
		m.viewport.GotoTop()
	case "G", "end":
		m.follow = true
		m.viewport.GotoBottom()
	case "up", "k":
		m.follow = false
		m.viewport.LineUp(1)
	case "down", "j":
		m.viewport.LineDown(1)
		m.follow = m.viewport.AtBottom()
	case "pgup", "b":
		m.follow = false
		m.viewport.ViewUp()
	case "pgdown", " ":
		m.viewport.ViewDown()
		m.follow = m.viewport.AtBottom()
	case "y":
		m.copyLatestAnswer()
	}
	return nil
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	vpWidth := width
	if vpWidth < minViewportWidth {
		vpWidth = minViewportWidth
	}
	vpHeight := height - chromeLines
	if vpHeight < minContentHeight {
		vpHeight = minContentHeight
	}
	m.viewport.SetWidth(vpWidth)
	m.viewport.SetHeight(vpHeight)
	m.refresh()
}

func (m *Model) refresh() {
	width := m.viewport.Width()
	if m.wrapWidth > 0 && m.wrapWidth < width {
		width = m.wrapWidth
	}
	lines := RenderTranscript(m.session, TranscriptOptions{
		Width:        width,
		ShowThoughts: m.showThoughts,
		Styled:       true,
	})
	m.viewport.SetContent(strings.Join(lines, "\n"))
	if m.follow {
		m.viewport.GotoBottom()
	}
}

func (m *Model) waitForSnapshot() tea.Cmd {
	updates := m.updates
	return func() tea.Msg {
		session, ok := <-updates
		if !ok {
			return nil
		}
		return snapshotMsg{session: session}
	}
}

func (m *Model) busy() bool {
	return m.session != nil && (len(m.session.Streaming) > 0 || len(m.session.ActiveTools) > 0)
}

func (m *Model) headerView() string {
	title := "convo"
	if m.session != nil {
		switch {
		case m.session.Title != "":
			title = m.session.Title
		case m.session.ID != "":
			title = m.session.ID
		}
		if m.session.Vendor != "" {
			title += " · " + m.session.Vendor
		}
	}
	return headerStyle.Render(title)
}

func (m *Model) statusView() string {
	left := ""
	if m.busy() {
		left = streamingStyle.Render(m.loader.View() + " streaming")
	}
	if m.status != "" {
		style := statusStyle
		if m.statusIsErr {
			style = statusErrorStyle
		}
		if left != "" {
			left += "  "
		}
		left += style.Render(m.status)
	}
	help := helpStyle.Render("q quit · t thoughts · f follow · y copy")
	if left == "" {
		return help
	}
	return left + "  " + help
}

func (m *Model) copyLatestAnswer() {
	text := latestAnswerText(m.session)
	if text == "" {
		m.setStatus("nothing to copy", false)
		return
	}
	if err := copyTextToClipboard(text); err != nil {
		m.setStatus("copy failed: "+err.Error(), true)
		return
	}
	m.setStatus("copied last answer", false)
}

func (m *Model) setStatus(status string, isErr bool) {
	m.status = status
	m.statusIsErr = isErr
}

func latestAnswerText(session *types.Session) string {
	if session == nil {
		return ""
	}
	for i := len(session.Messages) - 1; i >= 0; i-- {
		msg := session.Messages[i]
		if msg.Role != types.MessageRoleAssistant || msg.Kind != types.MessageKindMessage {
			continue
		}
		if msg.Content.IsStructured() {
			return content.ExtractPlainText(msg.Content)
		}
		return msg.Content.Text
	}
	return ""
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Run drives the viewer until the user quits.
func Run(sessions *store.SessionStore, opts Options) error {
	model := NewModel(sessions, opts)
	p := tea.NewProgram(&model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
