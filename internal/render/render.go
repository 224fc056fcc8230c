// Package render draws chatbot replies for a terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/flynn-ai/chatbot/pkg/protocol"
)

// Palette
var (
	Primary = lipgloss.AdaptiveColor{Light: "#101F38", Dark: "#8BC34A"}
	Muted   = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#9ca3af"}
	Warning = lipgloss.Color("#FFC107")
	Border  = lipgloss.AdaptiveColor{Light: "#dce0e5", Dark: "#2a3850"}
)

// Styles holds the lipgloss styles used for each reply part.
type Styles struct {
	Bot     lipgloss.Style
	Heading lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Dim     lipgloss.Style
	Alert   lipgloss.Style
	Card    lipgloss.Style
}

// DefaultStyles returns the terminal styles.
func DefaultStyles() Styles {
	return Styles{
		Bot:     lipgloss.NewStyle().Foreground(Primary).Bold(true),
		Heading: lipgloss.NewStyle().Foreground(Primary).Bold(true).MarginBottom(1),
		Label:   lipgloss.NewStyle().Foreground(Muted),
		Value:   lipgloss.NewStyle().Bold(true),
		Dim:     lipgloss.NewStyle().Foreground(Muted).Italic(true),
		Alert:   lipgloss.NewStyle().Foreground(Warning),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1),
	}
}

// Renderer turns replies into terminal text.
type Renderer struct {
	styles Styles
	width  int
}

// New creates a renderer. A width of zero leaves cards unwrapped.
func New(width int) *Renderer {
	return &Renderer{styles: DefaultStyles(), width: width}
}

// Reply renders any reply kind.
func (r *Renderer) Reply(reply protocol.Reply) string {
	switch reply.Kind {
	case protocol.KindText:
		return r.styles.Bot.Render("bot: ") + reply.Text
	case protocol.KindTime:
		return r.Time(reply.Time)
	case protocol.KindNameEditor:
		return r.NameEditor(reply.NameEditor)
	case protocol.KindDefinition:
		return r.Definition(reply.Definition)
	case protocol.KindNoteCreate:
		return r.NoteCreate(reply.NoteCreate)
	case protocol.KindNotePager:
		return r.NotePager(reply.NotePager)
	default:
		return ""
	}
}

func (r *Renderer) card(lines ...string) string {
	style := r.styles.Card
	if r.width > 0 {
		style = style.Width(r.width)
	}
	return style.Render(strings.Join(lines, "\n"))
}

// Time renders a time display, one row per zone.
func (r *Renderer) Time(t *protocol.TimeDisplay) string {
	lines := []string{r.styles.Heading.Render(t.Heading)}
	if t.NotFound {
		lines = append(lines, r.styles.Alert.Render(t.Note))
	}
	for _, z := range t.Zones {
		lines = append(lines, fmt.Sprintf("%s  %s  %s",
			r.styles.Value.Render(z.Time),
			z.Date,
			r.styles.Label.Render(z.Zone)))
	}
	return r.card(lines...)
}

// NameEditor renders the name prompt with the follow-up command.
func (r *Renderer) NameEditor(e *protocol.NameEditor) string {
	current := e.Current
	if current == "" {
		current = "(not set)"
	}
	return r.card(
		r.styles.Heading.Render(e.Heading),
		r.styles.Label.Render("Current: ")+current,
		r.styles.Dim.Render(fmt.Sprintf("/save-name <name>  (%d-%d characters)", e.MinLen, e.MaxLen)),
	)
}

// Definition renders a dictionary entry or its not-found notice.
func (r *Renderer) Definition(d *protocol.Definition) string {
	if d.NotFound {
		return r.card(r.styles.Heading.Render(d.Heading), r.styles.Alert.Render(d.Message))
	}
	lines := []string{r.styles.Heading.Render(d.Heading)}
	for _, m := range d.Meanings {
		lines = append(lines, r.styles.Value.Render(m.PartOfSpeech))
		for i, s := range m.Senses {
			lines = append(lines, fmt.Sprintf("  %d. %s", i+1, s.Definition))
			if s.Example != "" {
				lines = append(lines, r.styles.Dim.Render("     \""+s.Example+"\""))
			}
		}
		if len(m.Synonyms) > 0 {
			lines = append(lines, r.styles.Label.Render("  Synonyms: ")+strings.Join(m.Synonyms, ", "))
		}
	}
	return r.card(lines...)
}

// NoteCreate renders the note form prompt.
func (r *Renderer) NoteCreate(f *protocol.NoteCreateForm) string {
	return r.card(
		r.styles.Heading.Render(f.Heading),
		r.styles.Dim.Render(fmt.Sprintf("/note <title> | <description>  (title up to %d, description up to %d characters)",
			f.TitleMax, f.DescriptionMax)),
	)
}

// NotePager renders the current page and the paging commands.
func (r *Renderer) NotePager(p *protocol.NotePager) string {
	lines := []string{r.styles.Heading.Render(p.Heading()), p.Body()}
	if p.Empty() {
		return r.card(lines...)
	}
	footer := p.Label() + "  /delete"
	if p.CanPage() {
		footer += "  /next  /back"
	}
	lines = append(lines, "", r.styles.Dim.Render(footer))
	return r.card(lines...)
}
