// Package reply assembles a streamed assistant reply from incremental text
// fragments. Fragments are scrubbed of citation artifacts and concatenated
// in arrival order into a single growing display string, which becomes one
// finalized transcript turn.
package reply

import (
	"regexp"
	"strings"

	"github.com/nguyennehehe/banking-chatbot/pkg/chat"
)

// citationPattern matches source-attribution artifacts the conversation
// service embeds in reply text, e.g. 【12:3†source】
var citationPattern = regexp.MustCompile(`【\d+:\d+†source】`)

// Scrub removes citation markers from text. Text without markers is
// returned unchanged; scrubbing already-scrubbed text is a no-op
func Scrub(text string) string {
	return citationPattern.ReplaceAllString(text, "")
}

// Accumulator builds one assistant reply from a sequence of fragments.
// Each fragment is scrubbed independently; a citation marker split across
// two fragments is not reassembled. Accumulators are not safe for
// concurrent use: fragments of a turn arrive strictly in order.
//
// The lifecycle is NewTurn -> Consume* -> Finalize. Consume after Finalize
// is undefined; start a fresh turn with NewTurn instead
type Accumulator struct {
	builder strings.Builder
}

// NewAccumulator creates an accumulator ready for its first turn
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Consume scrubs a fragment, appends it, and returns the full accumulated
// reply so far. Empty fragments are allowed and leave the state unchanged
func (a *Accumulator) Consume(fragment string) string {
	a.builder.WriteString(Scrub(fragment))
	return a.builder.String()
}

// Current returns the accumulated reply without consuming anything
func (a *Accumulator) Current() string {
	return a.builder.String()
}

// Finalize produces the assistant turn for the accumulated reply. Calling
// it again without further Consume calls yields the same turn
func (a *Accumulator) Finalize() chat.Turn {
	return chat.NewTurn(chat.RoleAssistant, a.builder.String())
}

// NewTurn resets the accumulator for the next assistant turn. It must be
// called before the first Consume of each new turn
func (a *Accumulator) NewTurn() {
	a.builder.Reset()
}
