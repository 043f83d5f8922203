package domain

// MediaKind names one local or remote media track kind.
// Values match what the vendor client reports in its events.
type MediaKind string

const (
	MediaAudio MediaKind = "audio"
	MediaVideo MediaKind = "video"
)

// Tier describes which local media kinds a joined session actually
// acquired and published. The signaling join succeeds regardless of tier.
type Tier int

const (
	TierNone Tier = iota
	TierFull
	TierAudioOnly
	TierViewOnly
)

func (t Tier) String() string {
	switch t {
	case TierFull:
		return "full"
	case TierAudioOnly:
		return "audio-only"
	case TierViewOnly:
		return "view-only"
	default:
		return "none"
	}
}
