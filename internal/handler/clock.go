package handler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/flynn-ai/chatbot/internal/memory"
	"github.com/flynn-ai/chatbot/pkg/protocol"
)

const (
	// LocalPlace names the user's own zone in a time display.
	LocalPlace = "Your place"
	// PlaceNotFound is the note on a time display whose place was unknown.
	PlaceNotFound = "place not found."

	clockLayout = "03:04 PM"
	dateLayout  = "02/01/2006"
)

func (h *Handlers) timeUser(ctx context.Context, req Request) (protocol.Reply, error) {
	if hasPlace(req.Text) {
		return h.timeSomewhere(ctx, req)
	}
	return protocol.TimeReply(h.localTime()), nil
}

func (h *Handlers) timeSomewhere(ctx context.Context, req Request) (protocol.Reply, error) {
	query := extractPlace(req.Text)
	var place *memory.Place
	if h.store != nil {
		var err error
		if place, err = h.store.FindPlace(ctx, query); err != nil {
			h.logger.Warn("place lookup failed", zap.String("place", query), zap.Error(err))
		}
	}
	if place == nil {
		display := h.localTime()
		display.NotFound = true
		display.Note = PlaceNotFound
		return protocol.TimeReply(display), nil
	}

	name := capitalize(place.Name)
	display := &protocol.TimeDisplay{
		Place:   name,
		Heading: "Current time in " + name,
	}
	now := h.now()
	for _, zone := range place.Zones {
		loc, err := time.LoadLocation(zone)
		if err != nil {
			h.logger.Warn("unknown zone", zap.String("zone", zone), zap.Error(err))
			continue
		}
		display.Zones = append(display.Zones, zoneTime(zone, now.In(loc)))
	}
	return protocol.TimeReply(display), nil
}

// localTime shows the user's own zone, labelled by its abbreviation.
func (h *Handlers) localTime() *protocol.TimeDisplay {
	t := h.now().In(h.loc)
	abbr, _ := t.Zone()
	return &protocol.TimeDisplay{
		Place:   LocalPlace,
		Heading: "Current time in " + LocalPlace,
		Zones:   []protocol.ZoneTime{zoneTime(abbr, t)},
	}
}

func zoneTime(label string, t time.Time) protocol.ZoneTime {
	return protocol.ZoneTime{
		Zone: label,
		Time: t.Format(clockLayout),
		Date: t.Format(dateLayout),
	}
}
