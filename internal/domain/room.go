// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"math/rand/v2"
	"strings"
)

const (
	// RoomIDPrefix makes generated room ids human-recognizable in a URL.
	RoomIDPrefix = "care-"
	roomRandLen  = 6

	// MaxRandomUID bounds server-generated participant ids: [0, MaxRandomUID).
	MaxRandomUID = 10_000_000
)

var ErrRoomEmpty = errors.New("room id empty")

type (
	// RoomID is an opaque client-generated channel name. There is no
	// server-side record of it; uniqueness is advisory only.
	RoomID string

	// ParticipantID identifies one participant within one session.
	// It is never persisted across sessions.
	ParticipantID uint32
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewRoomID returns RoomIDPrefix plus 6 pseudorandom base36 characters.
// Collisions are accepted and never checked against anything.
func NewRoomID() RoomID {
	var b strings.Builder
	b.WriteString(RoomIDPrefix)
	for range roomRandLen {
		b.WriteByte(base36[rand.IntN(len(base36))])
	}
	return RoomID(b.String())
}

// RandomParticipantID draws a uid in [0, MaxRandomUID).
func RandomParticipantID() ParticipantID {
	return ParticipantID(rand.IntN(MaxRandomUID))
}
