// Package session orchestrates one call session: credential fetch,
// vendor client join, tiered local media acquisition, remote participant
// rendering and best-effort teardown.
package session

import (
	"context"
	"errors"
	"regexp"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/carelink/CareCall/internal/app/route"
	"github.com/carelink/CareCall/internal/core"
	"github.com/carelink/CareCall/internal/domain"
)

var (
	ErrNoRoom        = errors.New("no room selected")
	ErrAlreadyJoined = errors.New("already joined")
	ErrBusy          = errors.New("session transition in flight")
	ErrNotJoined     = errors.New("not joined")
	ErrNotViewOnly   = errors.New("session is not view-only")
	ErrNoTrack       = errors.New("no local track of that kind")
)

type State int

const (
	StateIdle State = iota
	StateJoining
	StateJoined
	StateLeaving
)

func (s State) String() string {
	switch s {
	case StateJoining:
		return "joining"
	case StateJoined:
		return "joined"
	case StateLeaving:
		return "leaving"
	default:
		return "idle"
	}
}

var mobileUA = regexp.MustCompile(`Android|iPhone|iPad|iPod|BlackBerry|IEMobile|Opera Mini`)

const (
	statusJoined         = "Joined"
	statusAudioOnly      = "Joined (audio only)"
	statusViewOnly       = "Joined (view only)"
	statusViewOnlyMobile = `Joined (view only). Click "Enable Camera/Mic" and allow permissions when prompted.`
)

// Deps are the external collaborators of a controller. All of them are
// required except UserAgent.
type Deps struct {
	Tokens    core.TokenSource
	NewClient core.ClientFactory
	Devices   core.DeviceSource
	Renderer  core.Renderer
	UserAgent string
}

// Status is a snapshot of everything the control surface renders from.
type Status struct {
	State                 State
	Tier                  domain.Tier
	Room                  domain.RoomID
	UID                   domain.ParticipantID
	CameraOn              bool
	MicOn                 bool
	Text                  string
	ShowCameraToggle      bool
	ShowMicToggle         bool
	ShowPermissionRequest bool
}

// Controller is the single live session handle for this process.
// At most one joined session exists per controller.
type Controller struct {
	deps Deps

	mu       sync.Mutex
	state    State
	tier     domain.Tier
	room     domain.RoomID
	uid      domain.ParticipantID
	client   core.RTCClient
	mic      core.LocalTrack
	cam      core.LocalTrack
	micOn    bool
	camOn    bool
	text     string
	pumpDone chan struct{}
}

func New(deps Deps) *Controller {
	return &Controller{deps: deps, micOn: true, camOn: true}
}

// Join runs the full join sequence for room: credential fetch, client
// join, then tiered media acquisition. Any failure before the signaling
// join succeeds returns the controller to idle with the failure message;
// media failures after that only lower the tier.
func (c *Controller) Join(ctx context.Context, room domain.RoomID) error {
	c.mu.Lock()
	switch {
	case room == "":
		c.mu.Unlock()
		return ErrNoRoom
	case c.state == StateJoined:
		c.mu.Unlock()
		return ErrAlreadyJoined
	case c.state != StateIdle:
		c.mu.Unlock()
		return ErrBusy
	}
	c.state = StateJoining
	c.text = "Joining..."
	c.mu.Unlock()

	cred, err := c.deps.Tokens.Fetch(ctx, room)
	if err != nil {
		c.failJoin(err)
		return err
	}

	client, err := c.deps.NewClient()
	if err != nil {
		c.failJoin(err)
		return err
	}

	done := make(chan struct{})
	go c.pump(client, done)

	if err := client.Join(ctx, cred.AppID, room, cred.Token, cred.UID); err != nil {
		client.Close()
		<-done
		c.failJoin(err)
		return err
	}

	// The session counts as joined from here on, whatever tier applies.
	mic, cam, tier, text := c.acquireMedia(ctx, client)

	c.mu.Lock()
	c.state = StateJoined
	c.tier = tier
	c.room = room
	c.uid = cred.UID
	c.client = client
	c.mic = mic
	c.cam = cam
	c.micOn = mic != nil
	c.camOn = cam != nil
	c.text = text
	c.pumpDone = done
	c.mu.Unlock()

	log.Info().Str("module", "app.session").
		Str("room", string(room)).
		Uint32("uid", uint32(cred.UID)).
		Str("tier", tier.String()).
		Msg("joined room")
	return nil
}

// JoinURL resolves the room from a page URL and joins it. A URL without
// a room resolves to the home view, where there is nothing to join.
func (c *Controller) JoinURL(ctx context.Context, rawURL string) error {
	v, err := route.Resolve(rawURL)
	if err != nil {
		return err
	}
	if v.Kind != route.ViewRoom {
		return ErrNoRoom
	}
	return c.Join(ctx, v.Room)
}

// acquireMedia walks the descending media tiers. Each tier is attempted
// only when the previous one is unavailable, and no failure here is
// fatal to the session.
func (c *Controller) acquireMedia(ctx context.Context, client core.RTCClient) (mic, cam core.LocalTrack, tier domain.Tier, text string) {
	mic, cam, err := c.deps.Devices.CameraAndMicrophone(ctx)
	if err == nil {
		if perr := client.Publish(mic, cam); perr == nil {
			return mic, cam, domain.TierFull, statusJoined
		}
		releaseTrack(mic)
		releaseTrack(cam)
		log.Warn().Str("module", "app.session").Msg("publish camera+mic failed, trying audio only")
	} else {
		log.Warn().Str("module", "app.session").Err(err).Msg("camera+mic unavailable, trying audio only")
	}

	mic, err = c.deps.Devices.Microphone(ctx)
	if err == nil {
		if perr := client.Publish(mic); perr == nil {
			return mic, nil, domain.TierAudioOnly, statusAudioOnly
		}
		releaseTrack(mic)
		log.Warn().Str("module", "app.session").Msg("publish mic failed, joining as viewer")
	} else {
		log.Warn().Str("module", "app.session").Err(err).Msg("microphone unavailable, joining as viewer")
	}

	text = statusViewOnly
	if mobileUA.MatchString(c.deps.UserAgent) {
		text = statusViewOnlyMobile
	}
	return nil, nil, domain.TierViewOnly, text
}

func (c *Controller) failJoin(err error) {
	c.mu.Lock()
	c.state = StateIdle
	c.tier = domain.TierNone
	c.room = ""
	c.text = err.Error()
	c.mu.Unlock()
	log.Warn().Str("module", "app.session").Err(err).Msg("join failed")
}

// Leave tears the session down best-effort: every release step runs even
// if an earlier one fails, and the controller always ends idle.
// Leave while a join is in flight is rejected; the join either completes
// or fails back to idle on its own.
func (c *Controller) Leave() error {
	c.mu.Lock()
	switch c.state {
	case StateIdle:
		c.mu.Unlock()
		return ErrNotJoined
	case StateJoining, StateLeaving:
		c.mu.Unlock()
		return ErrBusy
	}
	c.state = StateLeaving
	client, mic, cam, done := c.client, c.mic, c.cam, c.pumpDone
	c.client, c.mic, c.cam, c.pumpDone = nil, nil, nil, nil
	c.mu.Unlock()

	releaseTrack(mic)
	releaseTrack(cam)
	if client != nil {
		release("client.leave", func() {
			if err := client.Leave(); err != nil {
				log.Warn().Str("module", "app.session").Err(err).Msg("leave signaling failed")
			}
		})
		release("client.close", client.Close)
	}
	if done != nil {
		<-done
	}
	release("renderer.clear", c.deps.Renderer.Clear)

	c.mu.Lock()
	c.state = StateIdle
	c.tier = domain.TierNone
	c.room = ""
	c.uid = 0
	c.micOn = true
	c.camOn = true
	c.text = ""
	c.mu.Unlock()

	log.Info().Str("module", "app.session").Msg("left room")
	return nil
}

// RequestPermissions retroactively acquires and publishes full media,
// promoting a view-only session to full without rejoining.
func (c *Controller) RequestPermissions(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateJoined || c.tier != domain.TierViewOnly {
		c.mu.Unlock()
		return ErrNotViewOnly
	}
	client := c.client
	c.mu.Unlock()

	mic, cam, err := c.deps.Devices.CameraAndMicrophone(ctx)
	if err != nil {
		c.setText("Failed to access camera/microphone: " + err.Error())
		return err
	}
	if err := client.Publish(mic, cam); err != nil {
		releaseTrack(mic)
		releaseTrack(cam)
		c.setText("Failed to publish media: " + err.Error())
		return err
	}

	c.mu.Lock()
	c.mic, c.cam = mic, cam
	c.micOn, c.camOn = true, true
	c.tier = domain.TierFull
	c.text = statusJoined
	c.mu.Unlock()

	log.Info().Str("module", "app.session").Msg("promoted view-only session to full media")
	return nil
}

// ToggleCamera flips the camera handle and returns the new enabled state.
// No-op error when the active tier never acquired a camera.
func (c *Controller) ToggleCamera() (bool, error) {
	return c.toggle(&c.cam, &c.camOn)
}

// ToggleMic flips the microphone handle and returns the new enabled state.
func (c *Controller) ToggleMic() (bool, error) {
	return c.toggle(&c.mic, &c.micOn)
}

func (c *Controller) toggle(track *core.LocalTrack, on *bool) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if *track == nil {
		return false, ErrNoTrack
	}
	next := !*on
	if err := (*track).SetEnabled(next); err != nil {
		return *on, err
	}
	*on = next
	return next, nil
}

// Snapshot reports the current UI truth.
func (c *Controller) Snapshot() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		State:                 c.state,
		Tier:                  c.tier,
		Room:                  c.room,
		UID:                   c.uid,
		CameraOn:              c.camOn,
		MicOn:                 c.micOn,
		Text:                  c.text,
		ShowCameraToggle:      c.state == StateJoined && c.tier == domain.TierFull,
		ShowMicToggle:         c.state == StateJoined && (c.tier == domain.TierFull || c.tier == domain.TierAudioOnly),
		ShowPermissionRequest: c.state == StateJoined && c.tier == domain.TierViewOnly,
	}
}

func (c *Controller) setText(text string) {
	c.mu.Lock()
	c.text = text
	c.mu.Unlock()
}
