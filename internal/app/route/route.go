// Package route maps the current page URL to a view state. It is pure:
// no network, no state beyond the URL it is given.
package route

import (
	"fmt"
	"net/url"

	"github.com/carelink/CareCall/internal/domain"
)

type ViewKind int

const (
	ViewHome ViewKind = iota
	ViewRoom
)

// View is the resolved state for one URL: the room view iff the "room"
// query parameter is present and non-empty.
type View struct {
	Kind     ViewKind
	Room     domain.RoomID
	ShareURL string
}

// Resolve derives the view for raw. For the room view it also rewrites
// raw's "room" parameter into a shareable absolute URL.
func Resolve(raw string) (View, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return View{}, fmt.Errorf("parse location: %w", err)
	}
	room := u.Query().Get("room")
	if room == "" {
		return View{Kind: ViewHome}, nil
	}
	share, err := ShareableURL(raw, domain.RoomID(room))
	if err != nil {
		return View{}, err
	}
	return View{Kind: ViewRoom, Room: domain.RoomID(room), ShareURL: share}, nil
}

// ShareableURL returns base with its "room" query parameter set to room.
func ShareableURL(base string, room domain.RoomID) (string, error) {
	if room == "" {
		return "", domain.ErrRoomEmpty
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	q := u.Query()
	q.Set("room", string(room))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
