// Package tui is the interactive terminal table. All game mutation goes
// through the session's action interface; the queue countdown runs on the
// session's clock, and only the per-seat reveal pacing lives here.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kwpid/singleplayer-blackjack/internal/config"
	"github.com/kwpid/singleplayer-blackjack/internal/game"
	"github.com/kwpid/singleplayer-blackjack/internal/session"
)

type screen int

const (
	screenMenu screen = iota
	screenQueue
	screenTable
	screenResult
)

type (
	queueTickMsg struct {
		elapsed   time.Duration
		remaining time.Duration
	}
	queueDoneMsg  struct{ err error }
	revealTickMsg struct{}
)

// Model is the bubbletea model for the whole game UI
type Model struct {
	session *session.Session
	display config.DisplaySettings
	spin    spinner.Model

	screen      screen
	pendingMode game.Mode
	snap        session.Snapshot
	revealed    int
	errMsg      string

	queueTotal     time.Duration
	queueRemaining time.Duration
	queueCtx       context.Context
	queueCancel    context.CancelFunc
	queueMsgs      chan tea.Msg
}

// New creates the UI over a session
func New(s *session.Session, display config.DisplaySettings) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		session: s,
		display: display,
		spin:    sp,
		snap:    s.Snapshot(),
	}
}

// Run starts the interactive program
func Run(s *session.Session, display config.DisplaySettings) error {
	_, err := tea.NewProgram(New(s, display), tea.WithAltScreen()).Run()
	return err
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

func tick(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

func (m Model) seatDelay() time.Duration {
	return time.Duration(m.display.SeatDelayMs) * time.Millisecond
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case queueTickMsg:
		if m.screen != screenQueue {
			return m, nil
		}
		m.queueRemaining = msg.remaining
		return m, awaitQueueMsg(m.queueMsgs)

	case queueDoneMsg:
		if m.screen != screenQueue {
			return m, nil
		}
		m.queueCancel()
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			m.screen = screenMenu
			return m, nil
		}
		return m.startMatch()

	case revealTickMsg:
		if m.revealed < len(m.snap.Seats) {
			m.revealed++
		}
		if m.revealed < len(m.snap.Seats) {
			return m, tick(m.seatDelay(), revealTickMsg{})
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key := msg.String(); key == "ctrl+c" || key == "q" {
		return m, tea.Quit
	}

	switch m.screen {
	case screenMenu:
		return m.updateMenu(msg)
	case screenQueue:
		return m.updateQueue(msg)
	case screenTable:
		return m.updateTable(msg)
	case screenResult:
		if msg.String() == "enter" {
			m.screen = screenMenu
			m.errMsg = ""
		}
		return m, nil
	}
	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var mode game.Mode
	switch msg.String() {
	case "1":
		mode = game.HeadToHead
	case "2":
		mode = game.Team
	case "3":
		mode = game.FreeForAll
	default:
		return m, nil
	}

	m.pendingMode = mode
	if m.display.SkipQueue {
		return m.startMatch()
	}

	m.screen = screenQueue
	m.queueTotal = m.session.QueueWait()
	m.queueRemaining = m.queueTotal
	m.queueCtx, m.queueCancel = context.WithCancel(context.Background())
	m.queueMsgs = make(chan tea.Msg, 1)
	return m, tea.Batch(m.spin.Tick, m.runQueue(), awaitQueueMsg(m.queueMsgs))
}

// runQueue drives the session's matchmaking countdown, forwarding each tick
// over the model's channel. Returns once the wait elapses or the context is
// cancelled.
func (m Model) runQueue() tea.Cmd {
	sess, ctx, ch := m.session, m.queueCtx, m.queueMsgs
	return func() tea.Msg {
		err := sess.WaitForMatch(ctx, func(elapsed, remaining time.Duration) {
			ch <- queueTickMsg{elapsed: elapsed, remaining: remaining}
		})
		close(ch)
		return queueDoneMsg{err: err}
	}
}

func awaitQueueMsg(ch chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

func (m Model) updateQueue(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		if m.queueCancel != nil {
			m.queueCancel()
		}
		m.screen = screenMenu
	}
	return m, nil
}

func (m Model) startMatch() (tea.Model, tea.Cmd) {
	snap, err := m.session.SelectMode(m.pendingMode)
	if err != nil {
		m.errMsg = err.Error()
		m.screen = screenMenu
		return m, nil
	}

	m.snap = snap
	m.screen = screenTable
	m.errMsg = ""
	return m.maybeStartReveal()
}

// maybeStartReveal kicks off the staggered seat reveal after a round resolves
func (m Model) maybeStartReveal() (tea.Model, tea.Cmd) {
	if m.snap.Phase == game.Resolved && m.snap.InMatch {
		m.revealed = 1
		if m.seatDelay() <= 0 {
			m.revealed = len(m.snap.Seats)
			return m, nil
		}
		return m, tick(m.seatDelay(), revealTickMsg{})
	}
	m.revealed = len(m.snap.Seats)
	return m, nil
}

func (m Model) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var (
		snap session.Snapshot
		err  error
	)

	switch msg.String() {
	case "h":
		snap, err = m.session.Hit()
	case "s":
		snap, err = m.session.Stand()
	case "d":
		snap, err = m.session.Double()
	case "n", "enter":
		if m.snap.Phase != game.Resolved {
			return m, nil
		}
		snap, err = m.session.AdvanceRound()
		if err == nil && snap.Result != nil {
			m.snap = snap
			m.screen = screenResult
			return m, nil
		}
	case "a":
		snap, err = m.session.AbandonMatch()
		if err == nil {
			m.snap = snap
			m.screen = screenMenu
			return m, nil
		}
	default:
		return m, nil
	}

	if err != nil {
		m.errMsg = err.Error()
		return m, nil
	}

	m.snap = snap
	m.errMsg = ""
	return m.maybeStartReveal()
}

// View implements tea.Model
func (m Model) View() string {
	switch m.screen {
	case screenMenu:
		return m.viewMenu()
	case screenQueue:
		return m.viewQueue()
	case screenTable:
		return m.viewTable()
	case screenResult:
		return m.viewResult()
	}
	return ""
}

func (m Model) viewMenu() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("BLACKJACK") + "\n\n")
	fmt.Fprintf(&b, "rating: %d\n\n", m.snap.Rating)
	b.WriteString(menuStyle.Render("[1] 1v1   [2] 2v2   [3] free for all") + "\n\n")
	if m.errMsg != "" {
		b.WriteString(loseStyle.Render(m.errMsg) + "\n\n")
	}
	b.WriteString(helpStyle.Render("1-3 play · q quit"))
	return b.String()
}

func (m Model) viewQueue() string {
	remaining := m.queueRemaining
	return fmt.Sprintf("%s\n\n%s finding %s opponents... %ds\n\n%s",
		titleStyle.Render("QUEUE"),
		m.spin.View(),
		m.pendingMode,
		int(remaining.Seconds()),
		helpStyle.Render("esc cancel · q quit"))
}

func (m Model) viewTable() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  round %d/%d\n\n",
		titleStyle.Render(strings.ToUpper(m.snap.Mode.String())),
		m.snap.RoundIndex+1, m.snap.MaxRounds)

	for i, seat := range m.snap.Seats {
		b.WriteString(m.renderSeat(i, seat) + "\n")
	}

	b.WriteString("\n")
	if m.snap.Phase == game.Resolved {
		if m.revealed >= len(m.snap.Seats) {
			b.WriteString(m.renderOutcomes())
			b.WriteString(helpStyle.Render("n next round · a abandon · q quit"))
		}
	} else {
		b.WriteString(helpStyle.Render("h hit · s stand · d double · q quit"))
	}

	if m.errMsg != "" {
		b.WriteString("\n" + infoStyle.Render(m.errMsg))
	}
	return b.String()
}

func (m Model) renderSeat(idx int, seat session.SeatView) string {
	style := seatStyle
	if m.snap.Phase == game.HumanTurn && seat.Kind == game.Human {
		style = activeSeatStyle
	}

	hidden := idx >= m.revealed && m.snap.Phase == game.Resolved
	houseHole := seat.Kind == game.House && m.snap.Phase == game.HumanTurn

	cards := make([]string, len(seat.Cards))
	for i, c := range seat.Cards {
		switch {
		case hidden, houseHole && i == 1:
			cards[i] = blackCardStyle.Render("🂠")
		case strings.ContainsAny(c, "♥♦"):
			cards[i] = redCardStyle.Render(c)
		default:
			cards[i] = blackCardStyle.Render(c)
		}
	}

	score := fmt.Sprintf("%d", seat.Score)
	if hidden || houseHole {
		score = "?"
	}

	return style.Render(fmt.Sprintf("%-10s", seat.Name)) +
		"  " + strings.Join(cards, " ") +
		"  " + infoStyle.Render(fmt.Sprintf("(%s, %s, %d won)", score, seat.Status, seat.RoundsWon))
}

func (m Model) renderOutcomes() string {
	byID := make(map[string]game.Outcome, len(m.snap.Outcomes))
	for _, o := range m.snap.Outcomes {
		byID[o.ParticipantID] = o.Outcome
	}

	var parts []string
	for _, seat := range m.snap.Seats {
		o, ok := byID[seat.ID]
		if !ok {
			continue
		}
		style := infoStyle
		switch o {
		case game.Win:
			style = winStyle
		case game.Lose, game.Bust:
			style = loseStyle
		}
		parts = append(parts, style.Render(fmt.Sprintf("%s: %s", seat.Name, o)))
	}
	return strings.Join(parts, "  ") + "\n\n"
}

func (m Model) viewResult() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("MATCH OVER") + "\n\n")

	if r := m.snap.Result; r != nil {
		if r.Drawn {
			b.WriteString(infoStyle.Render("draw") + "\n")
		}
		for _, s := range r.Ranking {
			line := fmt.Sprintf("%d. %-10s %d rounds", s.Position, s.Name, s.RoundsWon)
			if s.ParticipantID == "you" && s.Position == 1 && !r.Drawn {
				b.WriteString(winStyle.Render(line) + "\n")
			} else {
				b.WriteString(seatStyle.Render(line) + "\n")
			}
		}
	}

	fmt.Fprintf(&b, "\nrating: %d (%+d)\n\n", m.snap.Rating, m.snap.Delta)
	b.WriteString(helpStyle.Render("enter menu · q quit"))
	return b.String()
}

var _ tea.Model = Model{}
