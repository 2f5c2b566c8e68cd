package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/liarsbar/internal/deck"
	"github.com/lox/liarsbar/internal/game"
	"github.com/lox/liarsbar/internal/server"
)

// Commander sends player requests to the server. *client.Client implements it.
type Commander interface {
	Create(ctx context.Context, name string) (server.AckData, error)
	Join(ctx context.Context, matchID, name string) (server.AckData, error)
	Start(ctx context.Context) error
	ChooseRank(ctx context.Context, rank deck.Rank) error
	Play(ctx context.Context, cardIDs []string, declared int) error
	Accept(ctx context.Context) error
	Challenge(ctx context.Context) error
	Spin(ctx context.Context) error
	Fire(ctx context.Context) error
}

// ServerMsg wraps a message pushed by the server
type ServerMsg struct {
	Msg *server.Message
}

// DisconnectedMsg is sent once the server connection is gone
type DisconnectedMsg struct{}

// resultMsg carries the outcome of a request started from the input box
type resultMsg struct {
	command string
	ack     server.AckData
	err     error
}

const defaultRequestTimeout = 10 * time.Second

// TUIModel represents the Bubble Tea model for a liar's bar client
type TUIModel struct {
	logger         *log.Logger
	commander      Commander
	events         <-chan *server.Message
	name           string
	requestTimeout time.Duration

	// UI components
	logViewport viewport.Model
	actionInput textinput.Model

	// State
	gameLog     []string
	quitting    bool
	focusedPane int // 0 = log, 1 = input

	// Display state, all of it from server pushes
	matchID   string
	seat      int
	spectator bool
	lobby     game.LobbyView
	snapshot  *game.Snapshot
	hand      []deck.Card

	// Dimensions
	width       int
	height      int
	initialized bool // Track if viewport has been properly sized

	// Test mode
	testMode    bool
	capturedLog []string // For test assertions
}

// NewTUIModel creates a new TUI model. events is the client's push stream.
func NewTUIModel(commander Commander, events <-chan *server.Message, name string, logger *log.Logger) *TUIModel {
	return NewTUIModelWithOptions(commander, events, name, logger, false)
}

// NewTUIModelWithOptions creates a new TUI model with test mode option
func NewTUIModelWithOptions(commander Commander, events <-chan *server.Message, name string, logger *log.Logger, testMode bool) *TUIModel {
	// Will be properly sized when WindowSizeMsg arrives
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "/create or /join <code>"
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 100
	ti.PromptStyle = lipgloss.NewStyle().Foreground(colorFelt).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(colorText)
	ti.Prompt = "> "

	return &TUIModel{
		logger:         logger.WithPrefix("tui"),
		commander:      commander,
		events:         events,
		name:           name,
		requestTimeout: defaultRequestTimeout,
		logViewport:    vp,
		actionInput:    ti,
		gameLog:        []string{},
		seat:           -1,
		focusedPane:    1, // Start with input focused
		testMode:       testMode,
		capturedLog:    []string{},
	}
}

// Run starts the full-screen program and blocks until the user quits
func Run(commander Commander, events <-chan *server.Message, name string, requestTimeout time.Duration, logger *log.Logger) error {
	model := NewTUIModel(commander, events, name, logger)
	model.SetRequestTimeout(requestTimeout)
	model.AddLogEntry(fmt.Sprintf("Welcome to the liar's bar, %s. %s", name, commandHelp))
	_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

// SetRequestTimeout bounds how long a request waits for its ack
func (m *TUIModel) SetRequestTimeout(d time.Duration) {
	m.requestTimeout = d
}

// Init initializes the TUI model
func (m *TUIModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForEvent())
}

// waitForEvent returns a command that delivers the next server push
func (m *TUIModel) waitForEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}
	events := m.events
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return DisconnectedMsg{}
		}
		return ServerMsg{Msg: msg}
	}
}

// Update handles messages in the TUI
func (m *TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case ServerMsg:
		m.applyServerMessage(msg.Msg)
		return m, m.waitForEvent()

	case DisconnectedMsg:
		m.AddLogEntry(ErrorStyle.Render("Disconnected from server. Ctrl+C to quit"))
		return m, nil

	case resultMsg:
		m.applyResult(msg)
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "tab":
			// Switch focus between log and input
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.actionInput.Focus()
			} else {
				m.focusedPane = 0
				m.actionInput.Blur()
			}
		case "enter":
			if m.focusedPane == 1 {
				input := strings.TrimSpace(m.actionInput.Value())
				m.actionInput.SetValue("")
				if cmd := m.processAction(input); cmd != nil {
					cmds = append(cmds, cmd)
				}
			}
		case "up", "k":
			if m.focusedPane == 0 {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == 0 {
				m.logViewport.ScrollDown(1)
			}
		case "pgup", "b":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageUp()
			}
		case "pgdown", "f":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageDown()
			}
		case "home", "g":
			if m.focusedPane == 0 {
				m.logViewport.GotoTop()
			}
		case "end", "G":
			if m.focusedPane == 0 {
				m.logViewport.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == 1 {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// processAction parses a line of input and returns the request to run
func (m *TUIModel) processAction(input string) tea.Cmd {
	cmd, err := ParseCommand(input, m.hand)
	if err != nil {
		m.AddLogEntry(ErrorStyle.Render(err.Error()))
		return nil
	}

	switch cmd.Name {
	case "quit":
		m.quitting = true
		return tea.Sequence(tea.ClearScreen, tea.Quit)
	case "help":
		m.AddLogEntry(InfoStyle.Render(commandHelp))
		return nil
	}
	return m.request(cmd)
}

// request runs cmd against the server off the update loop
func (m *TUIModel) request(cmd Command) tea.Cmd {
	commander := m.commander
	name := m.name
	timeout := m.requestTimeout

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		res := resultMsg{command: cmd.Name}
		switch cmd.Name {
		case "create":
			res.ack, res.err = commander.Create(ctx, name)
		case "join":
			res.ack, res.err = commander.Join(ctx, cmd.MatchID, name)
		case "start":
			res.err = commander.Start(ctx)
		case "rank":
			res.err = commander.ChooseRank(ctx, cmd.Rank)
		case "play":
			res.err = commander.Play(ctx, cmd.CardIDs, len(cmd.CardIDs))
		case "accept":
			res.err = commander.Accept(ctx)
		case "challenge":
			res.err = commander.Challenge(ctx)
		case "spin":
			res.err = commander.Spin(ctx)
		case "fire":
			res.err = commander.Fire(ctx)
		}
		return res
	}
}

func (m *TUIModel) applyResult(res resultMsg) {
	if res.err != nil {
		m.AddLogEntry(ErrorStyle.Render(fmt.Sprintf("/%s: %v", res.command, res.err)))
		return
	}

	switch res.command {
	case "create", "join":
		m.matchID = res.ack.MatchID
		m.spectator = res.ack.Spectator
		m.seat = -1
		if res.ack.Seat != nil {
			m.seat = *res.ack.Seat
		}
		switch {
		case res.command == "create":
			m.AddLogEntry(SuccessStyle.Render(fmt.Sprintf("Opened room %s. Share the code, then /start", m.matchID)))
		case m.spectator:
			m.AddLogEntry(InfoStyle.Render(fmt.Sprintf("Watching room %s", m.matchID)))
		default:
			m.AddLogEntry(SuccessStyle.Render(fmt.Sprintf("Joined room %s in seat %d", m.matchID, m.seat+1)))
		}
	}
}

// applyServerMessage folds a push into display state and the log
func (m *TUIModel) applyServerMessage(msg *server.Message) {
	switch msg.Type {
	case server.MessageTypeLobbyUpdate:
		var lobby game.LobbyView
		if m.decode(msg, &lobby) {
			m.lobby = lobby
		}

	case server.MessageTypeGameUpdate:
		var snap game.Snapshot
		if m.decode(msg, &snap) {
			m.snapshot = &snap
		}

	case server.MessageTypeHandUpdate:
		var data server.HandData
		if !m.decode(msg, &data) {
			return
		}
		dealt := len(data.Cards) > len(m.hand)
		m.hand = data.Cards
		m.seat = data.Seat
		if dealt {
			m.AddLogEntry(HandInfoStyle.Render("Dealt to you: " + formatCards(data.Cards)))
		}

	case server.MessageTypeRoundSummary:
		var summary game.RoundSummary
		if m.decode(msg, &summary) {
			for _, line := range describeSummary(summary) {
				m.AddLogEntry(line)
			}
		}

	case server.MessageTypeGunPending:
		var pending game.GunPending
		if !m.decode(msg, &pending) {
			return
		}
		switch {
		case pending.Seat != m.seat:
			m.AddLogEntry(fmt.Sprintf("%s faces the revolver", pending.Name))
		case pending.CanSpin:
			m.AddLogEntry(WarningStyle.Render("Your turn at the revolver: /spin, then /fire"))
		default:
			m.AddLogEntry(WarningStyle.Render("Your turn at the revolver: /fire"))
		}

	case server.MessageTypeGunResult:
		var result game.GunResult
		if !m.decode(msg, &result) {
			return
		}
		if result.Fired {
			m.AddLogEntry(ErrorStyle.Render(fmt.Sprintf("BANG. %s pulls the trigger", result.Name)))
		} else {
			m.AddLogEntry(fmt.Sprintf("Click. %s pulls the trigger and lives", result.Name))
		}

	case server.MessageTypeSystemLog:
		var entry game.SystemLog
		if m.decode(msg, &entry) {
			m.AddLogEntry(describeLog(entry))
		}

	default:
		m.logger.Debug("Ignoring message", "type", msg.Type)
	}
}

func (m *TUIModel) decode(msg *server.Message, v any) bool {
	if err := json.Unmarshal(msg.Data, v); err != nil {
		m.logger.Warn("Malformed message", "type", msg.Type, "error", err)
		return false
	}
	return true
}

// View renders the TUI
func (m *TUIModel) View() string {
	if m.quitting {
		return ""
	}

	// Don't render until we have valid dimensions
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// Action pane (bottom, full width)
	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	actionStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorFelt).
		Width(max(m.width-2, 1)).
		Height(max(actionHeight, 1))
	actionPane := actionStyle.Render(actionContent)

	// Sidebar pane (right side of log pane, same height as log pane)
	sidebarContent := m.renderSidebarPane()
	sidebarWidth := max(lipgloss.Width(sidebarContent), 28)
	paneHeight := max(m.height-actionHeight-4, 1) // Account for borders and action pane

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSmoke).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	// Log pane (top, fills height minus action pane)
	logWidth := max(m.width-sidebarWidth-4, 1)
	m.logViewport.SetContent(m.renderLogPane())
	m.logViewport.Width = logWidth
	m.logViewport.Height = paneHeight

	// On first proper sizing, jump to the newest entries
	if !m.initialized && logWidth > 1 && paneHeight > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSmoke).
		Width(logWidth).
		Height(paneHeight)
	if m.focusedPane == 0 {
		logStyle = logStyle.BorderForeground(colorFelt)
	}
	logPane := logStyle.Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

// renderLogPane renders the game log pane content
func (m *TUIModel) renderLogPane() string {
	return strings.Join(m.gameLog, "\n")
}

// renderSidebarPane shows the room, the public table state and the hand
func (m *TUIModel) renderSidebarPane() string {
	var content strings.Builder

	if m.matchID == "" {
		content.WriteString(InfoStyle.Render("Not in a room"))
		return content.String()
	}
	content.WriteString(HeaderStyle.Render(" Room " + m.matchID + " "))
	content.WriteString("\n\n")

	snap := m.snapshot
	seats := m.lobby.Seats
	if snap != nil {
		seats = snap.Seats
		content.WriteString(WarningStyle.Render(m.tableLine(snap)))
		content.WriteString("\n")
		content.WriteString(InfoStyle.Render(fmt.Sprintf("Pile %d  Deck %d", snap.PileSize, snap.DeckCount)))
		content.WriteString("\n\n")
	}

	for _, seat := range seats {
		content.WriteString(m.seatLine(seat))
		content.WriteString("\n")
	}

	if m.seat >= 0 {
		content.WriteString("\n")
		content.WriteString(HandInfoStyle.Render("Your hand"))
		content.WriteString("\n")
		content.WriteString(formatHand(m.hand))
	} else if m.spectator {
		content.WriteString("\n")
		content.WriteString(InfoStyle.Render("Spectating"))
	}

	return content.String()
}

func (m *TUIModel) tableLine(snap *game.Snapshot) string {
	switch snap.State {
	case game.StateLobby:
		return "Waiting for the host"
	case game.StateEnded:
		return fmt.Sprintf("%s won. Host may /start again", snap.Winner)
	}
	line := fmt.Sprintf("Round %d", snap.Round)
	if snap.TableRank != nil {
		line += " • table rank " + snap.TableRank.String()
	}
	return line
}

func (m *TUIModel) seatLine(seat game.SeatView) string {
	marker := "  "
	if snap := m.snapshot; snap != nil {
		switch {
		case snap.ResponderIndex != nil && *snap.ResponderIndex == seat.Index:
			marker = "? "
		case snap.TurnIndex != nil && *snap.TurnIndex == seat.Index:
			marker = "▶ "
		case snap.Gun != nil && snap.Gun.Seat == seat.Index:
			marker = "☠ "
		}
	}

	name := seat.Name
	if seat.Index == m.seat {
		name += " (you)"
	}
	if seat.IsHost {
		name += " ★"
	}
	line := fmt.Sprintf("%s%-16s %d cards", marker, name, seat.CardsCount)
	switch {
	case !seat.Alive && m.snapshot != nil && m.snapshot.State != game.StateLobby:
		return InfoStyle.Render(line + " out")
	case !seat.Connected:
		return InfoStyle.Render(line + " away")
	}
	return PlayerInfoStyle.Render(line)
}

// availableActions lists what this seat may do right now
func (m *TUIModel) availableActions() []string {
	snap := m.snapshot
	if m.matchID == "" {
		return []string{"/create", "/join <code>"}
	}
	if snap == nil || m.seat < 0 {
		return nil
	}

	if snap.State != game.StatePlaying {
		if snap.Host == m.name {
			return []string{"/start"}
		}
		return nil
	}

	switch {
	case snap.Gun != nil && snap.Gun.Seat == m.seat:
		if snap.Gun.CanSpin {
			return []string{"/spin", "/fire"}
		}
		return []string{"/fire"}
	case snap.Phase != nil && *snap.Phase == game.PhaseChooseRank && snap.TurnIndex != nil && *snap.TurnIndex == m.seat:
		return []string{"/rank <A|K|Q|J>"}
	case snap.ResponderIndex != nil && *snap.ResponderIndex == m.seat:
		return []string{"/accept", "/challenge"}
	case snap.TurnIndex != nil && *snap.TurnIndex == m.seat:
		return []string{"/play <n...>"}
	}
	return nil
}

// renderActionPane renders the action input pane
func (m *TUIModel) renderActionPane() string {
	var content strings.Builder

	actions := m.availableActions()
	if len(actions) > 0 {
		content.WriteString(ActionsStyle.Render("Actions: " + strings.Join(actions, " ")))
		m.actionInput.Placeholder = actions[0]
	} else {
		content.WriteString(HandInfoStyle.Render("Waiting..."))
		m.actionInput.Placeholder = "/help for commands"
	}
	content.WriteString("\n")
	content.WriteString(m.actionInput.View())
	content.WriteString("\n")

	help := "Tab to scroll log • Enter to submit • Ctrl+C to quit"
	if m.focusedPane == 0 {
		help = "Log focused: ↑↓ scroll, PgUp/PgDn half page, Home/End, Tab to input"
	}
	content.WriteString(InfoStyle.Render(help))

	return content.String()
}

// AddLogEntry adds an entry to the game log
func (m *TUIModel) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)

	// In test mode, also capture the log entry
	if m.testMode {
		m.capturedLog = append(m.capturedLog, entry)
		return // Skip UI updates in test mode
	}

	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// Hand returns the cards last pushed for this seat
func (m *TUIModel) Hand() []deck.Card {
	return m.hand
}

// GetCapturedLog returns the captured log entries (test mode only)
func (m *TUIModel) GetCapturedLog() []string {
	if !m.testMode {
		return nil
	}
	// Return a copy to prevent modification
	result := make([]string, len(m.capturedLog))
	copy(result, m.capturedLog)
	return result
}

// IsTestMode returns whether the TUI is in test mode
func (m *TUIModel) IsTestMode() bool {
	return m.testMode
}
