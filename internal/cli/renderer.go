package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/galaxysim/orbitron/internal/ai"
	"github.com/galaxysim/orbitron/internal/game"
	"github.com/galaxysim/orbitron/internal/gamelog"
	"github.com/galaxysim/orbitron/internal/workflow"
)

// Renderer writes console output. All game output goes through it so color
// handling stays in one place.
type Renderer struct {
	out     io.Writer
	noColor bool

	chStyles map[gamelog.Channel]lipgloss.Style
	dim      lipgloss.Style
	ok       lipgloss.Style
	bad      lipgloss.Style
	head     lipgloss.Style
}

// NewRenderer creates a renderer. With noColor all styling is disabled.
func NewRenderer(out io.Writer, noColor bool) *Renderer {
	style := func(color string) lipgloss.Style {
		if noColor {
			return lipgloss.NewStyle()
		}
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}
	return &Renderer{
		out:     out,
		noColor: noColor,
		chStyles: map[gamelog.Channel]lipgloss.Style{
			gamelog.ChannelDebug: style("8"),
			gamelog.ChannelInfo:  style("6"),
			gamelog.ChannelWarn:  style("3"),
			gamelog.ChannelError: style("1"),
		},
		dim:  style("8"),
		ok:   style("2"),
		bad:  style("1"),
		head: style("5"),
	}
}

// RenderEvent prints one game event, colored by channel.
func (r *Renderer) RenderEvent(e gamelog.Event) {
	st, ok := r.chStyles[e.Channel]
	if !ok {
		st = r.dim
	}
	fmt.Fprintln(r.out, st.Render(e.String()))
}

// RenderEvents prints a batch of game events.
func (r *Renderer) RenderEvents(events []gamelog.Event) {
	for _, e := range events {
		r.RenderEvent(e)
	}
}

// RenderStateReport prints the planet snapshot.
func (r *Renderer) RenderStateReport(report workflow.StateReport) {
	snap := report.Snapshot
	fmt.Fprintln(r.out, r.head.Render(fmt.Sprintf("planet %s (type %s)", snap.PlanetID, snap.Type)))
	fmt.Fprintf(r.out, "  phase: %s  running: %t\n", report.Phase, report.Running)
	for i, c := range snap.Cells {
		bar := cellBar(c)
		if c.IsCharged() {
			bar = r.ok.Render(bar)
		} else {
			bar = r.dim.Render(bar)
		}
		fmt.Fprintf(r.out, "  cell %d: %s %d/%d\n", i, bar, c.Charge, c.Capacity)
	}
	rocket := "none"
	if snap.HasRocket {
		rocket = r.ok.Render("ready")
	}
	fmt.Fprintf(r.out, "  rocket: %s\n", rocket)
}

// RenderStatus prints workflow phase and lifetime stats.
func (r *Renderer) RenderStatus(status workflow.Status) {
	fmt.Fprintln(r.out, r.head.Render(fmt.Sprintf("phase: %s", status.Phase)))
	s := status.Stats
	fmt.Fprintf(r.out, "  sunrays absorbed/acked: %d/%d\n", s.SunraysAbsorbed, s.SunraysAcked)
	fmt.Fprintf(r.out, "  resources generated: %d  combined: %d  failed requests: %d\n",
		s.ResourcesGenerated, s.ResourcesCombined, s.FailedRequests)
	fmt.Fprintf(r.out, "  asteroids survived: %d  explorer visits: %d\n",
		s.AsteroidsSurvived, s.ExplorerVisits)
	fmt.Fprintln(r.out, r.dim.Render(fmt.Sprintf("  events: %d (last seq %d)", status.EventCount, status.LastSeq)))
}

// RenderRecipes prints the planet's supported resources and combinations.
func (r *Renderer) RenderRecipes(resources []game.BasicType, combinations []game.ComplexType) {
	fmt.Fprintf(r.out, "generates: %s\n", joinBasic(resources))
	if len(combinations) == 0 {
		fmt.Fprintln(r.out, "combines: "+r.dim.Render("nothing"))
		return
	}
	fmt.Fprintln(r.out, "combines:")
	for _, c := range combinations {
		a, b, _ := game.RecipeFor(c)
		fmt.Fprintf(r.out, "  %s = %s + %s\n", c, a, b)
	}
}

// RenderExplorerResponse prints the planet's answer to an explorer request.
func (r *Renderer) RenderExplorerResponse(resp ai.ExplorerResponse) {
	if !resp.OK() {
		fmt.Fprintln(r.out, r.bad.Render("refused: "+resp.Reason))
		if len(resp.Returned) > 0 {
			for _, res := range resp.Returned {
				fmt.Fprintf(r.out, "  returned %s\n", res)
			}
		}
		return
	}
	switch resp.Type {
	case ai.ReqSupportedResources:
		fmt.Fprintf(r.out, "supported resources: %s\n", joinBasic(resp.SupportedResources))
	case ai.ReqSupportedCombinations:
		names := make([]string, len(resp.SupportedCombinations))
		for i, c := range resp.SupportedCombinations {
			names[i] = string(c)
		}
		fmt.Fprintf(r.out, "supported combinations: %s\n", strings.Join(names, ", "))
	case ai.ReqAvailableCells:
		fmt.Fprintf(r.out, "charged cells available: %d\n", resp.AvailableCells)
	default:
		if resp.Resource != nil {
			fmt.Fprintln(r.out, r.ok.Render("received "+resp.Resource.String()))
		}
	}
}

// RenderInventory prints the explorer's collected resources, sorted by ID.
func (r *Renderer) RenderInventory(inv map[string]game.Resource) {
	if len(inv) == 0 {
		fmt.Fprintln(r.out, r.dim.Render("inventory empty"))
		return
	}
	ids := make([]string, 0, len(inv))
	for id := range inv {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(r.out, "  %s\n", inv[id])
	}
}

// RenderHelp renders the command reference as markdown.
func (r *Renderer) RenderHelp() {
	if r.noColor {
		fmt.Fprint(r.out, helpText)
		return
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(terminalWidth()),
	)
	if err != nil {
		fmt.Fprint(r.out, helpText)
		return
	}
	rendered, err := tr.Render(helpText)
	if err != nil {
		fmt.Fprint(r.out, helpText)
		return
	}
	fmt.Fprint(r.out, rendered)
}

// RenderError prints a command error.
func (r *Renderer) RenderError(err error) {
	fmt.Fprintln(r.out, r.bad.Render("error: "+err.Error()))
}

// RenderNotice prints a dim informational line.
func (r *Renderer) RenderNotice(msg string) {
	fmt.Fprintln(r.out, r.dim.Render(msg))
}

func cellBar(c game.EnergyCell) string {
	if c.Capacity <= 0 {
		return ""
	}
	return strings.Repeat("█", c.Charge) + strings.Repeat("░", c.Capacity-c.Charge)
}

func joinBasic(types []game.BasicType) string {
	if len(types) == 0 {
		return "nothing"
	}
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || w > 100 {
		return 100
	}
	return w
}
