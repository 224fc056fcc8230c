package protocol

import "fmt"

const (
	// EmptyPagerHeading is shown when there are no notes.
	EmptyPagerHeading = "Nothing to see here :("
	// EmptyPagerBody suggests how to create the first note.
	EmptyPagerBody = `Create a new note, try saying "Create a note."`
)

// PagedNote is one page of a note pager.
type PagedNote struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Created     string `json:"created"` // e.g. "Mon 02 Jan, 2006 | 15:04"
}

// NotePager pages through the stored notes one at a time. Paging is cyclic.
type NotePager struct {
	Notes   []PagedNote `json:"notes"`
	Current int         `json:"current"`
}

// Empty reports whether there is nothing to page through.
func (p *NotePager) Empty() bool { return len(p.Notes) == 0 }

// Page returns the note being shown; ok is false for an empty pager.
func (p *NotePager) Page() (note PagedNote, ok bool) {
	if p.Empty() {
		return PagedNote{}, false
	}
	return p.Notes[p.Current], true
}

// Heading is the current title, or the empty-state heading.
func (p *NotePager) Heading() string {
	if n, ok := p.Page(); ok {
		return n.Title
	}
	return EmptyPagerHeading
}

// Body is the current description prefixed with its creation date, or the
// empty-state hint.
func (p *NotePager) Body() string {
	n, ok := p.Page()
	if !ok {
		return EmptyPagerBody
	}
	if n.Created == "" {
		return n.Description
	}
	return n.Created + "\n" + n.Description
}

// Label is the "n / total" page indicator; empty for an empty pager.
func (p *NotePager) Label() string {
	if p.Empty() {
		return ""
	}
	return fmt.Sprintf("%d / %d", p.Current+1, len(p.Notes))
}

// CanPage reports whether next/back do anything.
func (p *NotePager) CanPage() bool { return len(p.Notes) > 1 }

// Next moves forward, wrapping to the first note.
func (p *NotePager) Next() {
	if p.Empty() {
		return
	}
	p.Current = (p.Current + 1) % len(p.Notes)
}

// Back moves backward, wrapping to the last note.
func (p *NotePager) Back() {
	if p.Empty() {
		return
	}
	p.Current = (p.Current - 1 + len(p.Notes)) % len(p.Notes)
}

// RemoveCurrent drops the shown note from the pager and returns it. The
// pager then shows the note that followed it, wrapping at the end.
func (p *NotePager) RemoveCurrent() (PagedNote, bool) {
	if p.Empty() {
		return PagedNote{}, false
	}
	removed := p.Notes[p.Current]
	p.Notes = append(p.Notes[:p.Current:p.Current], p.Notes[p.Current+1:]...)
	if p.Empty() {
		p.Current = 0
	} else {
		p.Current %= len(p.Notes)
	}
	return removed, true
}
