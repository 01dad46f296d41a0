package openai

import (
	"context"
	"fmt"
	"io"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/nguyennehehe/banking-chatbot/pkg/chat"
)

// Speech implements chat.SpeechService over the OpenAI speech API
type Speech struct {
	client *goopenai.Client
}

// NewSpeech creates a speech service
func NewSpeech(apiKey string) *Speech {
	return &Speech{
		client: goopenai.NewClient(apiKey),
	}
}

// Synthesize converts text to mp3 audio using the tts-1 model. The call
// blocks until the full clip is available
func (s *Speech) Synthesize(ctx context.Context, text string, voice chat.Voice) ([]byte, error) {
	resp, err := s.client.CreateSpeech(ctx, goopenai.CreateSpeechRequest{
		Model: goopenai.TTSModel1,
		Input: text,
		Voice: goopenai.SpeechVoice(voice),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize speech: %w", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read speech audio: %w", err)
	}

	return audio, nil
}
