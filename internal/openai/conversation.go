// Package openai adapts the hosted OpenAI services to the chat ports:
// the Assistants API for streamed conversation turns and the speech API
// for text-to-speech.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/packages/ssestream"

	"github.com/nguyennehehe/banking-chatbot/pkg/chat"
)

// Conversation implements chat.ConversationService over the OpenAI
// Assistants API. Threads live on the OpenAI side; this adapter only holds
// the client and the configured assistant id
type Conversation struct {
	client      openai.Client
	assistantID string
}

// NewConversation creates a conversation service for the given assistant
func NewConversation(apiKey, assistantID string) *Conversation {
	return &Conversation{
		client:      openai.NewClient(option.WithAPIKey(apiKey)),
		assistantID: assistantID,
	}
}

// CreateThread creates a new conversation thread and returns its handle
func (c *Conversation) CreateThread(ctx context.Context) (string, error) {
	thread, err := c.client.Beta.Threads.New(ctx, openai.BetaThreadNewParams{})
	if err != nil {
		return "", fmt.Errorf("failed to create thread: %w", err)
	}

	return thread.ID, nil
}

// Send delivers a message to an existing thread
func (c *Conversation) Send(ctx context.Context, threadID string, role chat.Role, content string) error {
	_, err := c.client.Beta.Threads.Messages.New(ctx, threadID, openai.BetaThreadMessageNewParams{
		Role: openai.BetaThreadMessageNewParamsRole(role),
		Content: openai.BetaThreadMessageNewParamsContentUnion{
			OfString: openai.String(content),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to post message: %w", err)
	}

	return nil
}

// StreamRun starts an assistant run on the thread and returns the streamed
// reply as text fragments
func (c *Conversation) StreamRun(ctx context.Context, threadID string) (chat.FragmentStream, error) {
	stream := c.client.Beta.Threads.Runs.NewStreaming(ctx, threadID, openai.BetaThreadRunNewParams{
		AssistantID: c.assistantID,
	})

	return &runStream{stream: stream}, nil
}

// runStream adapts the SSE assistant event stream to a fragment stream.
// Only message delta text blocks contribute fragments; other run events
// (step updates, tool activity) are skipped
type runStream struct {
	stream  *ssestream.Stream[openai.AssistantStreamEventUnion]
	pending []string
	current string
}

func (s *runStream) Next() bool {
	if len(s.pending) > 0 {
		s.current = s.pending[0]
		s.pending = s.pending[1:]
		return true
	}

	for s.stream.Next() {
		event := s.stream.Current()
		if event.Event != "thread.message.delta" {
			continue
		}

		delta := event.AsThreadMessageDelta()
		for _, block := range delta.Data.Delta.Content {
			if block.Type == "text" {
				s.pending = append(s.pending, block.Text.Value)
			}
		}

		if len(s.pending) > 0 {
			s.current = s.pending[0]
			s.pending = s.pending[1:]
			return true
		}
	}

	return false
}

func (s *runStream) Current() string { return s.current }

func (s *runStream) Err() error {
	if err := s.stream.Err(); err != nil {
		return fmt.Errorf("assistant run stream: %w", err)
	}
	return nil
}

func (s *runStream) Close() error { return s.stream.Close() }
