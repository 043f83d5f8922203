package session

import (
	"github.com/rs/zerolog/log"

	"github.com/carelink/CareCall/internal/core"
)

// pump consumes the client's event channel in delivery order until the
// client closes it. Handlers are idempotent per participant id: Mount is
// create-or-reuse and Unmount ignores unknown ids, so duplicate events
// are harmless.
func (c *Controller) pump(client core.RTCClient, done chan struct{}) {
	defer close(done)
	for ev := range client.Events() {
		switch ev.Type {
		case core.EventPublished:
			if err := client.Subscribe(ev.UID, ev.Kind); err != nil {
				log.Warn().Str("module", "app.session").
					Uint32("uid", uint32(ev.UID)).
					Str("kind", string(ev.Kind)).
					Err(err).Msg("subscribe failed")
				continue
			}
			c.deps.Renderer.Mount(ev.UID, ev.Kind)
		case core.EventUnpublished:
			c.deps.Renderer.Unmount(ev.UID)
		case core.EventJoined:
			log.Info().Str("module", "app.session").
				Uint32("uid", uint32(ev.UID)).Msg("participant joined")
		}
	}
}

// release runs one teardown step in its own scope so a panicking step
// never skips the ones after it.
func release(step string, f func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Str("module", "app.session").
				Str("step", step).Interface("panic", r).Msg("release step failed")
		}
	}()
	f()
}

func releaseTrack(t core.LocalTrack) {
	if t == nil {
		return
	}
	release("track.stop", t.Stop)
	release("track.close", t.Close)
}
