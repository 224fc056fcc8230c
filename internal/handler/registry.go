// Package handler provides the intent handlers and the closed set of
// handler identifiers an intent catalog may reference.
package handler

import (
	"context"
	"slices"

	apperrors "github.com/flynn-ai/chatbot/internal/errors"
	"github.com/flynn-ai/chatbot/pkg/protocol"
)

// ID names a handler. The set is closed: catalogs are validated against it
// when they load.
type ID string

const (
	GoodTime      ID = "good_time"
	MakeJoke      ID = "make_joke"
	TimeUser      ID = "time_user"
	TimeSomewhere ID = "time_somewhere"
	Define        ID = "define"
	CreateNote    ID = "create_a_note"
	ShowNote      ID = "show_note"
	SetUserName   ID = "set_user_name"
	GetUserName   ID = "get_user_name"
)

var known = []ID{
	GoodTime, MakeJoke, TimeUser, TimeSomewhere, Define,
	CreateNote, ShowNote, SetUserName, GetUserName,
}

// All returns every known handler ID.
func All() []ID { return slices.Clone(known) }

// Valid reports whether id is a known handler.
func (id ID) Valid() bool { return slices.Contains(known, id) }

// Parse converts a catalog func name into an ID. Unknown names are a
// CATALOG_INVALID error.
func Parse(name string) (ID, error) {
	id := ID(name)
	if !id.Valid() {
		return "", apperrors.NewBuilder(apperrors.CodeCatalogInvalid, "unknown handler "+name).
			User().
			WithContext("func", name).
			Build()
	}
	return id, nil
}

// Request is what a handler receives for one turn.
type Request struct {
	// Text is the raw, unnormalized user message.
	Text string
}

// Func handles one turn.
type Func func(ctx context.Context, req Request) (protocol.Reply, error)

// Registry maps handler IDs to implementations.
type Registry struct {
	handlers map[ID]Func
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[ID]Func),
	}
}

// Register adds or replaces the handler for id.
func (r *Registry) Register(id ID, fn Func) {
	r.handlers[id] = fn
}

// Get retrieves a handler by id.
func (r *Registry) Get(id ID) (Func, bool) {
	fn, ok := r.handlers[id]
	return fn, ok
}

// Missing returns the known IDs without an implementation.
func (r *Registry) Missing() []ID {
	var ids []ID
	for _, id := range known {
		if _, ok := r.handlers[id]; !ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// Execute runs the handler registered for id.
func (r *Registry) Execute(ctx context.Context, id ID, req Request) (protocol.Reply, error) {
	fn, ok := r.Get(id)
	if !ok {
		return protocol.Reply{}, &NotFoundError{ID: id}
	}
	return fn(ctx, req)
}

// NotFoundError is returned when no handler is registered for an ID.
type NotFoundError struct {
	ID ID
}

func (e *NotFoundError) Error() string {
	return "handler not found: " + string(e.ID)
}
