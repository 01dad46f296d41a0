// Package engine runs complete conversation turns: one user message in, one
// streamed assistant reply out, with optional speech synthesis.
package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nguyennehehe/banking-chatbot/pkg/chat"
	"github.com/nguyennehehe/banking-chatbot/pkg/reply"
)

// Engine drives conversation turns against the external services. One
// turn is processed to completion before the next user input is accepted;
// there is no concurrent streaming within a session
type Engine struct {
	conv   chat.ConversationService
	speech chat.SpeechService
	log    *zap.Logger
}

// TurnOptions control per-turn behavior
type TurnOptions struct {
	// SpeechEnabled requests audio synthesis of the assistant reply
	SpeechEnabled bool

	// Voice selects the synthesis voice; zero value means alloy
	Voice chat.Voice
}

// TurnResult is the outcome of one completed turn
type TurnResult struct {
	// Reply is the finalized assistant turn
	Reply chat.Turn

	// Audio holds the synthesized mp3 clip, nil when speech was disabled
	// or synthesis failed
	Audio []byte

	// AudioErr reports a speech synthesis failure. It is recoverable: the
	// text reply is intact and already displayed
	AudioErr error
}

// New creates a turn engine. The speech service may be nil when audio
// output is not configured
func New(conv chat.ConversationService, speech chat.SpeechService, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}

	return &Engine{
		conv:   conv,
		speech: speech,
		log:    log,
	}
}

// RunTurn processes one request/response cycle: it appends the user turn,
// streams the assistant reply through the accumulator onto the surface,
// finalizes the assistant turn, and optionally synthesizes audio.
//
// A streaming failure is fatal to the turn: the user turn stays in the
// transcript, no assistant turn is appended, and the error is reported to
// the surface. A speech failure is recoverable and reported separately
func (e *Engine) RunTurn(ctx context.Context, sess *chat.Session, input string, surface chat.DisplaySurface, opts TurnOptions) (*TurnResult, error) {
	userTurn := chat.NewTurn(chat.RoleUser, input)
	sess.AppendTurn(userTurn)
	if surface != nil {
		surface.ShowTurn(userTurn)
	}

	threadID, err := sess.EnsureThread(ctx, e.conv)
	if err != nil {
		return nil, e.failTurn(surface, "failed to start conversation", err)
	}

	if err := e.conv.Send(ctx, threadID, chat.RoleUser, input); err != nil {
		return nil, e.failTurn(surface, "failed to send message", err)
	}

	stream, err := e.conv.StreamRun(ctx, threadID)
	if err != nil {
		return nil, e.failTurn(surface, "failed to start assistant run", err)
	}

	assistantTurn, err := reply.NewStreamer(surface).Drain(stream)
	if err != nil {
		return nil, e.failTurn(surface, "assistant reply failed", err)
	}

	result := &TurnResult{Reply: assistantTurn}

	// Speech is a blocking call that completes before the turn is
	// finalized; a failure never touches the already-displayed text
	if opts.SpeechEnabled && e.speech != nil {
		voice := opts.Voice
		if voice == "" {
			voice = chat.VoiceAlloy
		}

		audio, err := e.speech.Synthesize(ctx, assistantTurn.Content, voice)
		if err != nil {
			e.log.Warn("speech synthesis failed, reply shown without audio",
				zap.String("session_id", sess.ID.String()),
				zap.Error(err))
			result.AudioErr = fmt.Errorf("reply shown, audio unavailable: %w", err)
			if surface != nil {
				surface.ShowError("reply shown, audio unavailable")
			}
		} else {
			result.Audio = audio
			if surface != nil {
				surface.ShowAudio(audio)
			}
		}
	}

	sess.AppendTurn(assistantTurn)

	e.log.Info("turn completed",
		zap.String("session_id", sess.ID.String()),
		zap.String("thread_id", threadID),
		zap.Int("reply_len", len(assistantTurn.Content)),
		zap.Bool("audio", result.Audio != nil))

	return result, nil
}

// failTurn reports a fatal turn error to the surface and wraps it
func (e *Engine) failTurn(surface chat.DisplaySurface, msg string, err error) error {
	e.log.Error(msg, zap.Error(err))
	if surface != nil {
		surface.ShowError(msg)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
