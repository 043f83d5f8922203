// Package core defines the ports between the session orchestration and
// the opaque vendor RTC engine. Nothing outside the session controller
// touches these handles.
package core

import (
	"context"

	"github.com/carelink/CareCall/internal/domain"
	"github.com/carelink/CareCall/internal/token"
)

type EventType int

const (
	EventPublished EventType = iota
	EventJoined
	EventUnpublished
)

// ParticipantEvent is one inbound notification from the vendor client.
// Events arrive on a single channel in delivery order; the consumer must
// not assume deduplication.
type ParticipantEvent struct {
	Type EventType
	UID  domain.ParticipantID
	Kind domain.MediaKind
}

// RTCClient abstracts the vendor signaling client for one session.
// Owned by the session controller; the controller must Close() it.
type RTCClient interface {
	Join(ctx context.Context, appID string, room domain.RoomID, tok string, uid domain.ParticipantID) error
	Publish(tracks ...LocalTrack) error
	Subscribe(uid domain.ParticipantID, kind domain.MediaKind) error
	Leave() error
	// Events returns the inbound participant event stream. Close()
	// closes it, which is how observers are detached.
	Events() <-chan ParticipantEvent
	Close()
}

// ClientFactory builds a fresh vendor client in routed mode with the
// fixed codec. One client per join attempt.
type ClientFactory func() (RTCClient, error)

// LocalTrack is a capture handle for one local media kind.
type LocalTrack interface {
	Kind() domain.MediaKind
	SetEnabled(enabled bool) error
	Stop()
	Close()
}

// DeviceSource acquires local capture hardware. Either call may fail
// when permission is denied or the device is absent or busy.
type DeviceSource interface {
	CameraAndMicrophone(ctx context.Context) (mic, cam LocalTrack, err error)
	Microphone(ctx context.Context) (LocalTrack, error)
}

// Renderer owns the remote participant rendering surfaces.
// Mount is create-or-reuse, Unmount ignores unknown uids.
type Renderer interface {
	Mount(uid domain.ParticipantID, kind domain.MediaKind)
	Unmount(uid domain.ParticipantID)
	Clear()
}

// TokenSource fetches a join credential for a room.
type TokenSource interface {
	Fetch(ctx context.Context, room domain.RoomID) (token.Credential, error)
}
