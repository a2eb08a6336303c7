package ffprobe

import (
	"context"
	"fmt"
	"strings"

	"github.com/Digital-Shane/media-mover/internal/provider"
	"gopkg.in/vansante/go-ffprobe.v2"
)

const providerName = "ffprobe"

// probeFunc defines the function signature used to execute ffprobe.
type probeFunc func(ctx context.Context, path string, extraOpts ...string) (*ffprobe.ProbeData, error)

// Prober reads quality facts straight from the media file itself, for when
// the release name lies or says nothing.
type Prober struct {
	probe probeFunc
}

func New() *Prober {
	return &Prober{probe: ffprobe.ProbeURL}
}

// NewWithProbe is the test seam: it injects a fake probe function.
func NewWithProbe(probe probeFunc) *Prober {
	return &Prober{probe: probe}
}

// Quality probes path and returns a space-joined quality token string like
// "1080p h264 aac". Tokens that cannot be determined are omitted; an
// unreadable file is an error.
func (p *Prober) Quality(ctx context.Context, path string) (string, error) {
	data, err := p.probe(ctx, path)
	if err != nil {
		return "", &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeUnavailable,
			Message:  fmt.Sprintf("ffprobe failed for %s: %v", path, err),
		}
	}
	if data == nil {
		return "", nil
	}

	var tokens []string
	if video := data.FirstVideoStream(); video != nil {
		if video.Height > 0 {
			tokens = append(tokens, fmt.Sprintf("%dp", video.Height))
		}
		if codec := pickCodecName(video); codec != "" {
			tokens = append(tokens, codec)
		}
	}
	if audio := data.FirstAudioStream(); audio != nil {
		if codec := pickCodecName(audio); codec != "" {
			tokens = append(tokens, codec)
		}
	}
	return strings.Join(tokens, " "), nil
}

func pickCodecName(stream *ffprobe.Stream) string {
	if stream == nil {
		return ""
	}
	if stream.CodecName != "" {
		return stream.CodecName
	}
	return stream.CodecLongName
}
