package reply

import (
	"fmt"

	"github.com/nguyennehehe/banking-chatbot/pkg/chat"
)

// Streamer drains a fragment stream through an accumulator, pushing each
// intermediate state to a display surface. The accumulation itself stays
// pure; the surface push is the only side effect and happens after each
// fragment is consumed
type Streamer struct {
	acc     *Accumulator
	surface chat.DisplaySurface
}

// NewStreamer creates a streamer pushing to the given surface. A nil
// surface disables display updates
func NewStreamer(surface chat.DisplaySurface) *Streamer {
	return &Streamer{
		acc:     NewAccumulator(),
		surface: surface,
	}
}

// Drain consumes the stream to completion and returns the finalized
// assistant turn. The visible in-progress message always equals the
// accumulator state: one replacement per fragment, in arrival order.
// A stream error is fatal to the turn and discards the partial reply
func (s *Streamer) Drain(stream chat.FragmentStream) (chat.Turn, error) {
	defer stream.Close()

	s.acc.NewTurn()
	for stream.Next() {
		current := s.acc.Consume(stream.Current())
		if s.surface != nil {
			s.surface.ReplaceInProgress(current)
		}
	}

	if err := stream.Err(); err != nil {
		return chat.Turn{}, fmt.Errorf("reply stream failed: %w", err)
	}

	return s.acc.Finalize(), nil
}
