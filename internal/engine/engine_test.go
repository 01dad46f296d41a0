package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyennehehe/banking-chatbot/pkg/chat"
)

// fakeConversation replays scripted fragments for every run
type fakeConversation struct {
	fragments []string
	streamErr error
	sendErr   error

	creates int
	sent    []string
}

func (f *fakeConversation) CreateThread(ctx context.Context) (string, error) {
	f.creates++
	return "thread_1", nil
}

func (f *fakeConversation) Send(ctx context.Context, threadID string, role chat.Role, content string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, content)
	return nil
}

func (f *fakeConversation) StreamRun(ctx context.Context, threadID string) (chat.FragmentStream, error) {
	return &scriptedStream{fragments: f.fragments, err: f.streamErr}, nil
}

type scriptedStream struct {
	fragments []string
	pos       int
	err       error
}

func (s *scriptedStream) Next() bool {
	if s.pos >= len(s.fragments) {
		return false
	}
	s.pos++
	return true
}

func (s *scriptedStream) Current() string { return s.fragments[s.pos-1] }
func (s *scriptedStream) Err() error      { return s.err }
func (s *scriptedStream) Close() error    { return nil }

type fakeSpeech struct {
	audio []byte
	err   error
	calls int
	text  string
	voice chat.Voice
}

func (f *fakeSpeech) Synthesize(ctx context.Context, text string, voice chat.Voice) ([]byte, error) {
	f.calls++
	f.text = text
	f.voice = voice
	return f.audio, f.err
}

type recordingSurface struct {
	turns        []chat.Turn
	replacements []string
	audio        [][]byte
	errors       []string
}

func (r *recordingSurface) ShowTurn(turn chat.Turn) { r.turns = append(r.turns, turn) }
func (r *recordingSurface) ReplaceInProgress(text string) {
	r.replacements = append(r.replacements, text)
}
func (r *recordingSurface) ShowAudio(mp3 []byte) { r.audio = append(r.audio, mp3) }
func (r *recordingSurface) ShowError(msg string) { r.errors = append(r.errors, msg) }

func TestRunTurn(t *testing.T) {
	t.Run("appends exactly one turn per side", func(t *testing.T) {
		conv := &fakeConversation{fragments: []string{"The balance is ", "100【12:3†source】 dollars."}}
		eng := New(conv, nil, nil)
		sess := chat.NewSession("customer-1")
		surface := &recordingSurface{}

		result, err := eng.RunTurn(context.Background(), sess, "What is my balance?", surface, TurnOptions{})
		require.NoError(t, err)

		// Greeting + user turn + assistant turn
		require.Len(t, sess.Transcript, 3)
		assert.Equal(t, chat.RoleUser, sess.Transcript[1].Role)
		assert.Equal(t, "What is my balance?", sess.Transcript[1].Content)
		assert.Equal(t, chat.RoleAssistant, sess.Transcript[2].Role)
		assert.Equal(t, "The balance is 100 dollars.", sess.Transcript[2].Content)
		assert.Equal(t, result.Reply, sess.Transcript[2])

		// Fragments reached the surface as in-order replacements
		assert.Equal(t, []string{"The balance is ", "The balance is 100 dollars."}, surface.replacements)
		assert.Equal(t, []string{"What is my balance?"}, conv.sent)
	})

	t.Run("thread is reused across turns", func(t *testing.T) {
		conv := &fakeConversation{fragments: []string{"ok"}}
		eng := New(conv, nil, nil)
		sess := chat.NewSession("customer-1")

		_, err := eng.RunTurn(context.Background(), sess, "first", nil, TurnOptions{})
		require.NoError(t, err)
		_, err = eng.RunTurn(context.Background(), sess, "second", nil, TurnOptions{})
		require.NoError(t, err)

		assert.Equal(t, 1, conv.creates)
		assert.Equal(t, "thread_1", sess.ThreadID)
	})

	t.Run("stream failure keeps user turn and omits assistant turn", func(t *testing.T) {
		conv := &fakeConversation{
			fragments: []string{"partial"},
			streamErr: errors.New("run interrupted"),
		}
		eng := New(conv, nil, nil)
		sess := chat.NewSession("customer-1")
		surface := &recordingSurface{}

		_, err := eng.RunTurn(context.Background(), sess, "hello", surface, TurnOptions{})
		require.Error(t, err)

		require.Len(t, sess.Transcript, 2)
		assert.Equal(t, chat.RoleUser, sess.Transcript[1].Role)
		assert.NotEmpty(t, surface.errors)
	})

	t.Run("send failure is fatal to the turn", func(t *testing.T) {
		conv := &fakeConversation{sendErr: errors.New("service down")}
		eng := New(conv, nil, nil)
		sess := chat.NewSession("customer-1")

		_, err := eng.RunTurn(context.Background(), sess, "hello", nil, TurnOptions{})
		require.Error(t, err)
		assert.Len(t, sess.Transcript, 2)
	})

	t.Run("speech synthesis attaches audio", func(t *testing.T) {
		conv := &fakeConversation{fragments: []string{"Your loan is repaid."}}
		speech := &fakeSpeech{audio: []byte("mp3")}
		eng := New(conv, speech, nil)
		sess := chat.NewSession("customer-1")
		surface := &recordingSurface{}

		result, err := eng.RunTurn(context.Background(), sess, "loan status", surface, TurnOptions{
			SpeechEnabled: true,
			Voice:         chat.VoiceNova,
		})
		require.NoError(t, err)

		assert.Equal(t, []byte("mp3"), result.Audio)
		assert.NoError(t, result.AudioErr)
		assert.Equal(t, 1, speech.calls)
		assert.Equal(t, "Your loan is repaid.", speech.text)
		assert.Equal(t, chat.VoiceNova, speech.voice)
		assert.Equal(t, [][]byte{[]byte("mp3")}, surface.audio)
	})

	t.Run("speech failure is recoverable and distinct", func(t *testing.T) {
		conv := &fakeConversation{fragments: []string{"reply text"}}
		speech := &fakeSpeech{err: errors.New("tts quota exceeded")}
		eng := New(conv, speech, nil)
		sess := chat.NewSession("customer-1")
		surface := &recordingSurface{}

		result, err := eng.RunTurn(context.Background(), sess, "hello", surface, TurnOptions{SpeechEnabled: true})
		require.NoError(t, err)

		// The text reply survives; the assistant turn is still appended
		assert.Equal(t, "reply text", result.Reply.Content)
		assert.Len(t, sess.Transcript, 3)
		assert.Nil(t, result.Audio)
		assert.ErrorContains(t, result.AudioErr, "reply shown, audio unavailable")
		assert.Contains(t, surface.errors, "reply shown, audio unavailable")
	})

	t.Run("speech disabled never calls the speech service", func(t *testing.T) {
		conv := &fakeConversation{fragments: []string{"reply"}}
		speech := &fakeSpeech{audio: []byte("mp3")}
		eng := New(conv, speech, nil)
		sess := chat.NewSession("customer-1")

		result, err := eng.RunTurn(context.Background(), sess, "hello", nil, TurnOptions{})
		require.NoError(t, err)
		assert.Nil(t, result.Audio)
		assert.Zero(t, speech.calls)
	})
}
