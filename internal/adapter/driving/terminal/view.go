// Package terminal prints invitation cards and config for the meet client.
package terminal

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/Wyydra/meet/internal/core/domain"
	"github.com/Wyydra/meet/internal/render"
	"github.com/charmbracelet/lipgloss"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5B8DEF")).
			Padding(0, 1)
	pretextStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0")).Italic(true)
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC"))
	buttonStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
	linkStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Underline(true)
	keyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
)

type View struct {
	out io.Writer
}

func NewView(out io.Writer) *View {
	return &View{out: out}
}

// Card lays out an invitation card. A nil card renders as the empty string.
func Card(card *render.InvitationCard) string {
	if card == nil {
		return ""
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(card.Title),
		subtitleStyle.Render(card.Subtitle),
		"",
		buttonStyle.Render("[ "+card.Join.Label+" ]")+" "+linkStyle.Render(card.Join.URL),
	)
	return lipgloss.JoinVertical(lipgloss.Left,
		pretextStyle.Render(card.Pretext),
		cardStyle.Render(body),
	)
}

func (v *View) PrintCard(card *render.InvitationCard) {
	if card == nil {
		return
	}
	fmt.Fprintln(v.out, Card(card))
}

// PrintPost prints a plain message line for posts without a renderer.
func (v *View) PrintPost(msg domain.Message) {
	fmt.Fprintf(v.out, "%s %s: %s\n",
		keyStyle.Render(msg.CreatedAt.Local().Format("15:04")),
		msg.AuthorID, msg.Content)
}

func (v *View) PrintConfig(cfg domain.FeatureConfig) {
	if len(cfg) == 0 {
		fmt.Fprintln(v.out, keyStyle.Render("(empty config)"))
		return
	}
	keys := make([]string, 0, len(cfg))
	for k := range cfg {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s = %v\n", keyStyle.Render(k), cfg[k])
	}
	fmt.Fprint(v.out, b.String())
}

func (v *View) PrintLink(link string) {
	fmt.Fprintln(v.out, linkStyle.Render(link))
}
