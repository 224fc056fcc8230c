// Package protocol provides the reply payloads the chatbot hands to a
// presentation layer. Every type is plain data and JSON-serializable; the
// presentation layer renders and animates them independently.
package protocol

// Kind tags which payload a Reply carries.
type Kind string

const (
	KindText       Kind = "text"
	KindTime       Kind = "time"
	KindNameEditor Kind = "name_editor"
	KindDefinition Kind = "definition"
	KindNoteCreate Kind = "note_create"
	KindNotePager  Kind = "note_pager"
)

// Reply is the answer to one user message. Exactly one payload field is
// set, matching Kind.
type Reply struct {
	Kind       Kind            `json:"kind"`
	Text       string          `json:"text,omitempty"`
	Time       *TimeDisplay    `json:"time,omitempty"`
	NameEditor *NameEditor     `json:"name_editor,omitempty"`
	Definition *Definition     `json:"definition,omitempty"`
	NoteCreate *NoteCreateForm `json:"note_create,omitempty"`
	NotePager  *NotePager      `json:"note_pager,omitempty"`
}

// TextReply wraps a plain string.
func TextReply(text string) Reply {
	return Reply{Kind: KindText, Text: text}
}

// ZoneTime is one row of a time display.
type ZoneTime struct {
	Zone string `json:"zone"` // IANA name, or the local abbreviation
	Time string `json:"time"` // e.g. "03:04 PM"
	Date string `json:"date"` // e.g. "02/01/2006"
}

// TimeDisplay shows the current time for one or more zones.
type TimeDisplay struct {
	Place    string     `json:"place"`
	Heading  string     `json:"heading"`
	NotFound bool       `json:"not_found,omitempty"`
	Note     string     `json:"note,omitempty"` // e.g. "place not found."
	Zones    []ZoneTime `json:"zones"`
}

// TimeReply wraps a time display.
func TimeReply(t *TimeDisplay) Reply { return Reply{Kind: KindTime, Time: t} }

// NameEditor asks the user to set or change their display name.
type NameEditor struct {
	Heading  string `json:"heading"`
	Current  string `json:"current"`
	Editable bool   `json:"editable"`
	MinLen   int    `json:"min_len"`
	MaxLen   int    `json:"max_len"`
}

// NameEditorReply wraps a name editor.
func NameEditorReply(e *NameEditor) Reply { return Reply{Kind: KindNameEditor, NameEditor: e} }

// Sense is one definition of a word.
type Sense struct {
	Definition string `json:"definition"`
	Example    string `json:"example,omitempty"`
}

// Meaning groups the senses of one part of speech.
type Meaning struct {
	PartOfSpeech string   `json:"part_of_speech"`
	Senses       []Sense  `json:"senses"`
	Synonyms     []string `json:"synonyms,omitempty"`
}

// Definition is a dictionary entry, or a not-found notice.
type Definition struct {
	Word     string    `json:"word"`
	Heading  string    `json:"heading"`
	NotFound bool      `json:"not_found,omitempty"`
	Message  string    `json:"message,omitempty"`
	Meanings []Meaning `json:"meanings,omitempty"`
}

// DefinitionReply wraps a definition.
func DefinitionReply(d *Definition) Reply { return Reply{Kind: KindDefinition, Definition: d} }

// NoteCreateForm asks for a new note's title and description.
type NoteCreateForm struct {
	Heading        string `json:"heading"`
	TitleMax       int    `json:"title_max"`
	DescriptionMax int    `json:"description_max"`
}

// NoteCreateReply wraps a note creation form.
func NoteCreateReply(f *NoteCreateForm) Reply { return Reply{Kind: KindNoteCreate, NoteCreate: f} }

// NotePagerReply wraps a note pager.
func NotePagerReply(p *NotePager) Reply { return Reply{Kind: KindNotePager, NotePager: p} }
