// Package dashboard renders a live terminal view of one planet workflow:
// energy cells, rocket readiness, lifetime stats, and the tail of the game
// event log. It is read-only; all mutation goes through the console.
package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.temporal.io/sdk/client"

	"github.com/galaxysim/orbitron/internal/gamelog"
	"github.com/galaxysim/orbitron/internal/workflow"
)

// pollEvery is the refresh interval.
const pollEvery = 500 * time.Millisecond

// eventTail is how many recent events the feed shows.
const eventTail = 12

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	chargedBar  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	emptyBar    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	phaseColors = map[workflow.Phase]string{
		workflow.PhaseInitializing: "3",
		workflow.PhaseStopped:      "3",
		workflow.PhaseRunning:      "2",
		workflow.PhaseShuttingDown: "3",
		workflow.PhaseDestroyed:    "1",
	}
	channelStyles = map[gamelog.Channel]lipgloss.Style{
		gamelog.ChannelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		gamelog.ChannelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		gamelog.ChannelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		gamelog.ChannelError: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
)

type tickMsg time.Time

type pollMsg struct {
	report workflow.StateReport
	status workflow.Status
	events []gamelog.Event
	err    error
}

// Model is the bubbletea model for the planet dashboard.
type Model struct {
	client     client.Client
	workflowID string

	spinner spinner.Model
	report  workflow.StateReport
	status  workflow.Status
	events  []gamelog.Event
	pollErr error
	loaded  bool
	width   int
}

// New creates a dashboard model watching the given planet workflow.
func New(c client.Client, workflowID string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	return Model{
		client:     c,
		workflowID: workflowID,
		spinner:    sp,
		width:      80,
	}
}

// Run starts the dashboard and blocks until the user quits.
func Run(c client.Client, workflowID string) error {
	p := tea.NewProgram(New(c, workflowID), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.poll)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case pollMsg:
		m.pollErr = msg.err
		if msg.err == nil {
			m.loaded = true
			m.report = msg.report
			m.status = msg.status
			m.events = msg.events
		}
		return m, tick()

	case tickMsg:
		return m, m.poll

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func tick() tea.Cmd {
	return tea.Tick(pollEvery, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// poll queries the planet workflow once.
func (m Model) poll() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var out pollMsg
	query := func(name string, into interface{}) error {
		resp, err := m.client.QueryWorkflow(ctx, m.workflowID, "", name)
		if err != nil {
			return err
		}
		return resp.Get(into)
	}

	if err := query(workflow.QueryPlanetState, &out.report); err != nil {
		out.err = err
		return out
	}
	if err := query(workflow.QueryStatus, &out.status); err != nil {
		out.err = err
		return out
	}
	if err := query(workflow.QueryEventLog, &out.events); err != nil {
		out.err = err
		return out
	}
	return out
}

func (m Model) View() string {
	if !m.loaded {
		msg := fmt.Sprintf("%s connecting to %s ...", m.spinner.View(), m.workflowID)
		if m.pollErr != nil {
			msg += "\n" + errStyle.Render(m.pollErr.Error())
		}
		return msg
	}

	header := titleStyle.Render(fmt.Sprintf("planet %s", m.report.Snapshot.PlanetID)) +
		"  " + m.phaseBadge() + "  " + m.spinner.View()

	left := lipgloss.JoinVertical(lipgloss.Left,
		panelStyle.Render(m.cellsView()),
		panelStyle.Render(m.statsView()),
	)
	right := panelStyle.Width(max(40, m.width-lipgloss.Width(left)-6)).Render(m.eventsView())

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	footer := labelStyle.Render("q to quit")
	if m.pollErr != nil {
		footer = errStyle.Render(m.pollErr.Error())
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) phaseBadge() string {
	color, ok := phaseColors[m.report.Phase]
	if !ok {
		color = "8"
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color(color)).
		Padding(0, 1).
		Render(string(m.report.Phase))
}

func (m Model) cellsView() string {
	var b strings.Builder
	snap := m.report.Snapshot
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("type"), string(snap.Type))
	for i, c := range snap.Cells {
		bar := chargedBar.Render(strings.Repeat("█", c.Charge)) +
			emptyBar.Render(strings.Repeat("░", c.Capacity-c.Charge))
		fmt.Fprintf(&b, "cell %d %s %d/%d\n", i, bar, c.Charge, c.Capacity)
	}
	rocket := emptyBar.Render("none")
	if snap.HasRocket {
		rocket = chargedBar.Render("🚀 ready")
	}
	fmt.Fprintf(&b, "%s %s", labelStyle.Render("rocket"), rocket)
	return b.String()
}

func (m Model) statsView() string {
	s := m.status.Stats
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", labelStyle.Render("lifetime"))
	fmt.Fprintf(&b, "sunrays   %d (+%d acked)\n", s.SunraysAbsorbed, s.SunraysAcked)
	fmt.Fprintf(&b, "generated %d\n", s.ResourcesGenerated)
	fmt.Fprintf(&b, "combined  %d\n", s.ResourcesCombined)
	fmt.Fprintf(&b, "failed    %d\n", s.FailedRequests)
	fmt.Fprintf(&b, "asteroids %d survived\n", s.AsteroidsSurvived)
	fmt.Fprintf(&b, "visits    %d", s.ExplorerVisits)
	return b.String()
}

func (m Model) eventsView() string {
	events := m.events
	if len(events) > eventTail {
		events = events[len(events)-eventTail:]
	}
	if len(events) == 0 {
		return labelStyle.Render("no events yet")
	}
	lines := make([]string, 0, len(events))
	for _, e := range events {
		st, ok := channelStyles[e.Channel]
		if !ok {
			st = labelStyle
		}
		lines = append(lines, st.Render(e.String()))
	}
	return strings.Join(lines, "\n")
}
