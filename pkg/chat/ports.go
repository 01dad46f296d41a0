package chat

import (
	"context"
	"fmt"
)

// ConversationService is the external conversation backend. It owns threads,
// message delivery, and streamed assistant runs
type ConversationService interface {
	// CreateThread creates a new conversation thread and returns its handle
	CreateThread(ctx context.Context) (string, error)

	// Send delivers a message to an existing thread
	Send(ctx context.Context, threadID string, role Role, content string) error

	// StreamRun starts an assistant run on the thread and returns the
	// streamed reply. The stream is finite and cannot be restarted
	StreamRun(ctx context.Context, threadID string) (FragmentStream, error)
}

// FragmentStream is a lazy sequence of incremental reply fragments. Next
// blocks until the next fragment arrives or the run ends. After Next returns
// false, Err reports whether the stream ended cleanly
type FragmentStream interface {
	Next() bool
	Current() string
	Err() error
	Close() error
}

// SpeechService converts assistant text to playable audio
type SpeechService interface {
	Synthesize(ctx context.Context, text string, voice Voice) ([]byte, error)
}

// DisplaySurface renders conversation state for the user. The engine pushes
// completed turns, in-progress replacements, audio clips, and errors to it
type DisplaySurface interface {
	// ShowTurn renders a completed transcript turn
	ShowTurn(turn Turn)

	// ReplaceInProgress replaces the current in-progress assistant message
	// with the given text. It is a replacement, never an append
	ReplaceInProgress(text string)

	// ShowAudio embeds a playable audio clip for the last assistant turn
	ShowAudio(mp3 []byte)

	// ShowError reports a turn-level failure to the user
	ShowError(msg string)
}

// Voice selects the speech synthesis voice
type Voice string

const (
	VoiceAlloy   Voice = "alloy"
	VoiceEcho    Voice = "echo"
	VoiceFable   Voice = "fable"
	VoiceOnyx    Voice = "onyx"
	VoiceNova    Voice = "nova"
	VoiceShimmer Voice = "shimmer"
)

// Voices lists every supported speech voice
func Voices() []Voice {
	return []Voice{VoiceAlloy, VoiceEcho, VoiceFable, VoiceOnyx, VoiceNova, VoiceShimmer}
}

// ParseVoice validates a voice name. An empty name falls back to alloy
func ParseVoice(name string) (Voice, error) {
	if name == "" {
		return VoiceAlloy, nil
	}

	for _, v := range Voices() {
		if string(v) == name {
			return v, nil
		}
	}

	return "", fmt.Errorf("unknown voice %q", name)
}
