// Package display renders cards, game states and advisor tallies for the
// terminal.
package display

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/pileclear/internal/advisor"
	"github.com/lox/pileclear/internal/cards"
	"github.com/lox/pileclear/internal/game"
	"github.com/lox/pileclear/internal/statistics"
)

// BarWidth is the length of the tally bar of the best move.
const BarWidth = 70

var cardColors = [cards.NumColors]lipgloss.Color{
	cards.Green:  "#04B575",
	cards.Red:    "#FF6B6B",
	cards.Gray:   "#A0A0A0",
	cards.Purple: "#7D56F4",
	cards.Blue:   "#74B9FF",
	cards.Yellow: "#FFD700",
}

type styles struct {
	header lipgloss.Style
	label  lipgloss.Style
	dim    lipgloss.Style
	win    lipgloss.Style
	loss   lipgloss.Style
	best   lipgloss.Style
	bar    lipgloss.Style
	colors [cards.NumColors]lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	st := styles{
		header: r.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
		label:  r.NewStyle().Foreground(lipgloss.Color("12")),
		dim:    r.NewStyle().Foreground(lipgloss.Color("#626262")),
		win:    r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		loss:   r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		best:   r.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true),
		bar:    r.NewStyle().Foreground(lipgloss.Color("14")),
	}
	for i, c := range cardColors {
		st.colors[i] = r.NewStyle().Foreground(c)
	}
	return st
}

// Printer writes human readable output.
type Printer struct {
	w  io.Writer
	st styles
}

// New returns a printer writing to w. With color false every style renders
// as plain text.
func New(w io.Writer, color bool) *Printer {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Printer{w: w, st: newStyles(r)}
}

// Card renders a card as "RED GOOSE TAKE", with the removal target for
// removal cards.
func (p *Printer) Card(c cards.CardID) string {
	if !c.Valid() {
		return p.st.dim.Render(c.String())
	}
	card := cards.Get(c)
	return p.st.colors[card.Color].Render(card.Describe())
}

// Move renders a move with its secondary card.
func (p *Printer) Move(m game.Move) string {
	if m.Extra == cards.None {
		return p.Card(m.Card)
	}
	return p.Card(m.Card) + " " + p.Card(m.Extra)
}

// State prints the bookkeeping matrix, the table, both hands and the size
// of the draw pile. Cards known to both players are marked [visible].
func (p *Printer) State(s *game.State) {
	fmt.Fprintf(p.w, "%s %d\n", p.st.label.Render("total cards left:"), s.CardsLeft())

	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	for color := cards.Color(0); color < cards.NumColors; color++ {
		fmt.Fprintf(tw, "\t%s%s", mark(s.CanRemoveColor(color)), color)
	}
	fmt.Fprintln(tw)
	for kind := cards.Kind(0); kind < cards.NumColors; kind++ {
		fmt.Fprintf(tw, "%s%s", mark(s.CanRemoveKind(kind)), kind)
		for color := cards.Color(0); color < cards.NumColors; color++ {
			n := 0
			if s.Alive(color, kind) {
				n = 1
			}
			fmt.Fprintf(tw, "\t%d", n)
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()

	fmt.Fprintf(p.w, "\n%s\n", p.st.header.Render(fmt.Sprintf("table (%d piles):", s.PileCount())))
	for _, pile := range s.Table() {
		parts := make([]string, len(pile))
		for i, c := range pile {
			parts[i] = p.Card(c)
		}
		fmt.Fprintf(p.w, "  %s\n", strings.Join(parts, "  "))
	}

	for player := 0; player < game.Players; player++ {
		fmt.Fprintf(p.w, "%s\n", p.st.header.Render(fmt.Sprintf("player %d", player+1)))
		for _, c := range s.Hand(player) {
			line := p.Card(c)
			if s.IsOpen(c) {
				line += p.st.dim.Render(" [visible]")
			}
			fmt.Fprintf(p.w, "  %s\n", line)
		}
	}
	fmt.Fprintf(p.w, "%s %d\n", p.st.label.Render("draw pile:"), s.DrawSize())
}

func mark(ok bool) string {
	if ok {
		return "*"
	}
	return " "
}

// Tallies prints every move with a positive score, a bar proportional to its
// score and "!!" after the recommended move.
func (p *Printer) Tallies(rec advisor.Recommendation) {
	fmt.Fprintf(p.w, "losses = %d. wins = %d. unknowns = %d. nodes = %d\n",
		rec.Losses, rec.Wins, rec.Unknowns, rec.Nodes)

	best := 0
	for _, t := range rec.Tallies {
		best = max(best, t.Score())
	}
	for _, t := range rec.Tallies {
		score := t.Score()
		if score == 0 {
			continue
		}
		n := int(math.Ceil(BarWidth * float64(score) / float64(best)))
		line := fmt.Sprintf("%s (%d)", p.st.bar.Render(strings.Repeat("*", n)), score)
		if rec.Found && t.Move == rec.Move {
			line += p.st.best.Render(" !!")
		}
		fmt.Fprintf(p.w, "%s\n%s\n", p.Move(t.Move), line)
	}

	if !rec.Found && !rec.Won {
		fmt.Fprintln(p.w, p.st.loss.Render("no win found"))
	}
}

// Line prints a winning continuation, one move per line.
func (p *Printer) Line(line []game.Move) {
	for i, m := range line {
		fmt.Fprintf(p.w, "  [%d] %s\n", i, p.Move(m))
	}
}

// Deck prints the 36 cards with their derived attributes.
func (p *Printer) Deck() {
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
		p.st.header.Render("id"),
		p.st.header.Render("name"),
		p.st.header.Render("kind"),
		p.st.header.Render("removes"),
		p.st.header.Render("card"))
	for _, c := range cards.Deck() {
		removes := "-"
		switch c.Action {
		case cards.RemoveKind:
			removes = c.RemovesKind.String()
		case cards.RemoveColor:
			removes = c.RemovesColor.String()
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", c.ID, c.ID, c.Kind, removes, p.Card(c.ID))
	}
	tw.Flush()
}

// Summary prints aggregate session results.
func (p *Printer) Summary(stats *statistics.Statistics) {
	lo, hi := stats.ConfidenceInterval95()
	won := p.st.win.Render(fmt.Sprintf("%d / %d", stats.Wins, stats.Games))
	fmt.Fprintf(p.w, "%s %s (%.1f%%, 95%% CI %.1f%%-%.1f%%)\n",
		p.st.header.Render("games won ="), won, 100*stats.WinRate(), 100*lo, 100*hi)
	if stats.Capped > 0 {
		fmt.Fprintf(p.w, "%s %d\n", p.st.loss.Render("turn limit reached:"), stats.Capped)
	}
	fmt.Fprintf(p.w, "%s %.0f (median turns %.0f)\n",
		p.st.label.Render("nodes per game:"), stats.NodesPerGame(), stats.MedianTurns())
	fmt.Fprintf(p.w, "%s %s\n", p.st.label.Render("elapsed:"), stats.Duration)
}
