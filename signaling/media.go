package signaling

import "github.com/pion/webrtc/v4"

// LocalMedia is an acquired local audio capability. Release must be safe
// to call more than once.
type LocalMedia interface {
	Track() webrtc.TrackLocal
	Release()
}

// MediaSource acquires the local audio capability for a call. Hardware
// capture is outside this core; implementations decide where samples
// come from.
type MediaSource interface {
	Acquire() (LocalMedia, error)
}

// StaticAudioSource produces a sample-fed Opus track with no device
// behind it. It is the default source for environments without capture
// hardware, including tests.
type StaticAudioSource struct{}

func (StaticAudioSource) Acquire() (LocalMedia, error) {
	track, err := webrtc.NewTrackLocalStaticSample(
		webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeOpus},
		"audio",
		"glue-connect",
	)
	if err != nil {
		return nil, err
	}
	return &staticMedia{track: track}, nil
}

type staticMedia struct {
	track *webrtc.TrackLocalStaticSample
}

func (m *staticMedia) Track() webrtc.TrackLocal { return m.track }

// Release is a no-op: a static track holds no hardware.
func (m *staticMedia) Release() {}
