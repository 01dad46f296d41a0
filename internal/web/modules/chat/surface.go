package chat

import (
	"github.com/gin-gonic/gin"

	chatcore "github.com/nguyennehehe/banking-chatbot/pkg/chat"
	"github.com/nguyennehehe/banking-chatbot/pkg/media"
	"github.com/nguyennehehe/banking-chatbot/pkg/sdk"
)

// sseSurface is a DisplaySurface that relays display updates to the
// browser as server-sent events. Each update is flushed immediately so the
// visible text tracks the accumulator state
type sseSurface struct {
	c *gin.Context
}

func newSSESurface(c *gin.Context) *sseSurface {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(200)
	c.Writer.Flush()

	return &sseSurface{c: c}
}

// ShowTurn echoes a completed turn onto the stream
func (s *sseSurface) ShowTurn(turn chatcore.Turn) {
	s.emit(sdk.EventTurn, turn)
}

// ReplaceInProgress replaces the in-progress assistant message
func (s *sseSurface) ReplaceInProgress(text string) {
	s.emit(sdk.EventDelta, sdk.DeltaEvent{Text: text})
}

// ShowAudio embeds the synthesized clip as a data URI
func (s *sseSurface) ShowAudio(mp3 []byte) {
	s.emit(sdk.EventAudio, media.AudioDataURI(mp3))
}

// ShowError reports a turn-level failure
func (s *sseSurface) ShowError(msg string) {
	s.emit(sdk.EventError, sdk.ErrorEvent{Message: msg})
}

// Done terminates the stream with the finalized result
func (s *sseSurface) Done(result sdk.MessageResult) {
	s.emit(sdk.EventDone, result)
}

func (s *sseSurface) emit(event string, data any) {
	s.c.SSEvent(event, data)
	s.c.Writer.Flush()
}
