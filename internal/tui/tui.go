package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tatianab/text-rpg/internal/game"
)

type sessionState int

const (
	stateChooseSession sessionState = iota
	stateLoading
	statePlaying
	stateError
)

type model struct {
	state     sessionState
	service   *game.Service
	sessionID string
	player    string
	status    game.Status
	textInput textinput.Model
	viewport  viewport.Model
	err       error
	gameLog   string
	width     int
	height    int
}

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	gameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	stateStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	hpStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#5FD75F")).
		Bold(true)
)

func NewModel(svc *game.Service, sessionID, player string) model {
	ti := textinput.New()
	ti.Placeholder = sessionID
	ti.Focus()
	ti.CharLimit = 156
	ti.Width = 40

	return model{
		state:     stateChooseSession,
		service:   svc,
		sessionID: sessionID,
		player:    player,
		textInput: ti,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

type sessionOpenedMsg struct {
	result game.Result
}

type commandDoneMsg struct {
	result game.Result
	err    error
}

type errMsg struct {
	err error
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			if m.state == stateChooseSession {
				name := strings.TrimSpace(m.textInput.Value())
				if name == "" {
					name = m.sessionID
				}
				m.state = stateLoading
				return m, m.openSession(name)
			}
			if m.state == statePlaying {
				action := m.textInput.Value()
				if action == "" {
					return m, nil
				}
				m.textInput.Reset()

				if action == "/quit" || action == "quit" {
					return m, tea.Quit
				}

				styledAction := userStyle.Width(m.logWidth()).Render("> " + action)
				m.gameLog += "\n\n" + styledAction + "\n\n"
				m.viewport.SetContent(m.renderLog())
				m.viewport.GotoBottom()
				return m, m.execute(action)
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.logWidth()
		m.viewport.Height = msg.Height - 6
		if m.state == statePlaying {
			m.viewport.SetContent(m.renderLog())
		}

	case sessionOpenedMsg:
		m.state = statePlaying
		m.sessionID = msg.result.SessionID
		m.status = msg.result.Status
		header := gameStyle.Bold(true).Render("Session: " + m.sessionID)
		m.gameLog = header + "\n\n" + gameStyle.Width(m.logWidth()).Render(strings.Join(msg.result.Lines, "\n")) + "\n\n"
		if m.viewport.Width == 0 {
			m.viewport = viewport.New(m.logWidth(), m.height-6)
		}
		m.viewport.SetContent(m.renderLog())
		m.textInput.Placeholder = "What do you do? (type 'help')"
		m.textInput.Reset()
		return m, nil

	case commandDoneMsg:
		if msg.result.SessionID != "" {
			m.sessionID = msg.result.SessionID
		}
		if msg.result.Status.SessionID != "" {
			m.status = msg.result.Status
		}
		var out string
		if msg.err != nil {
			out = errorStyle.Width(m.logWidth()).Render(msg.err.Error())
		} else {
			out = gameStyle.Width(m.logWidth()).Render(strings.Join(msg.result.Lines, "\n"))
		}
		m.gameLog += out + "\n\n"
		m.viewport.SetContent(m.renderLog())
		m.viewport.GotoBottom()
		return m, nil

	case errMsg:
		m.err = msg.err
		m.state = stateError
		return m, nil
	}

	switch m.state {
	case stateChooseSession:
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	case statePlaying:
		var vpCmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		m.viewport, vpCmd = m.viewport.Update(msg)
		return m, tea.Batch(cmd, vpCmd)
	}

	return m, nil
}

func (m model) View() string {
	var s string

	switch m.state {
	case stateChooseSession:
		s = fmt.Sprintf(
			"Welcome, %s, to an endless procedurally generated world!\n\n%s\n\n%s",
			m.player,
			"Name the game session to load or start (Enter for the default):",
			m.textInput.View(),
		)

	case stateLoading:
		s = "\n  Opening your session... please wait.\n"

	case statePlaying:
		mainView := lipgloss.JoinHorizontal(lipgloss.Top,
			m.viewport.View(),
			m.renderState(),
		)

		help := helpStyle.Render("Commands: help, status, look, n/s/e/w, battle, cast <element>, narrate <prompt>, quit.")

		s = lipgloss.JoinVertical(lipgloss.Left,
			mainView,
			"\n"+m.textInput.View(),
			"\n"+help,
		)

	case stateError:
		s = fmt.Sprintf("\n  Error: %v\n\nPress Esc to quit.", m.err)
	}

	return "\n" + s + "\n"
}

func (m model) renderState() string {
	st := m.status
	stateWidth := int(float64(m.width) * 0.23)
	if !st.HasCharacter {
		content := titleStyle.Render("SESSION") + "\n" + m.sessionID + "\n\n" +
			"No character yet.\nType 'create <name>'."
		return stateStyle.Width(stateWidth).Height(m.viewport.Height).Render(content)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(strings.ToUpper(st.Name)) + "\n")
	fmt.Fprintf(&b, "Level %d (%s)\n", st.Level, st.Temperament)
	b.WriteString(hpStyle.Render(fmt.Sprintf("HP %d/%d", st.HP, st.MaxHP)) + "\n")
	fmt.Fprintf(&b, "Exp %d/%d\nGold %d\n\n", st.Exp, st.NextLevelExp, st.Money)

	b.WriteString(titleStyle.Render("STATS") + "\n")
	fmt.Fprintf(&b, "Attack %d  Defense %d\n", st.Attack, st.Defense)
	fmt.Fprintf(&b, "Magic %d  Resist %d\n", st.MagicAttack, st.MagicDefense)
	if st.Weapon != "" {
		b.WriteString("Weapon: " + st.Weapon + "\n")
	}
	if len(st.Skills) > 0 {
		b.WriteString("Skills: " + strings.Join(st.Skills, ", ") + "\n")
	}
	b.WriteString("\n")

	b.WriteString(titleStyle.Render("LOCATION") + "\n")
	fmt.Fprintf(&b, "Room %s\n", st.Position)
	if len(st.Exits) > 0 {
		b.WriteString("Exits: " + strings.Join(st.Exits, ", ") + "\n")
	}
	for i, item := range st.RoomItems {
		fmt.Fprintf(&b, "  [%d] %s\n", i, item)
	}
	b.WriteString("\n")

	b.WriteString(titleStyle.Render("INVENTORY") + "\n")
	if len(st.Inventory) == 0 {
		b.WriteString("(empty)")
	}
	for i, item := range st.Inventory {
		fmt.Fprintf(&b, "[%d] %s\n", i, item)
	}

	return stateStyle.Width(stateWidth).Height(m.viewport.Height).Render(b.String())
}

func (m model) renderLog() string {
	return m.gameLog
}

func (m model) logWidth() int {
	return int(float64(m.width) * 0.75)
}

// openSession loads name if it was saved before, otherwise starts it.
func (m model) openSession(name string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		res, err := m.service.Execute(ctx, name, m.player, game.Command{Name: game.CmdLoad, Args: []string{name}})
		if errors.Is(err, game.ErrNoSession) {
			res, err = m.service.Execute(ctx, name, m.player, game.Command{Name: game.CmdStart, Args: []string{name}})
		}
		if err != nil {
			return errMsg{err}
		}
		return sessionOpenedMsg{res}
	}
}

func (m model) execute(action string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.service.Execute(context.Background(), m.sessionID, m.player, game.Parse(action))
		return commandDoneMsg{res, err}
	}
}

func Run(svc *game.Service, sessionID, player string) error {
	p := tea.NewProgram(NewModel(svc, sessionID, player), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
