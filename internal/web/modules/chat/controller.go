// Package chat exposes the conversation API: session management plus the
// streamed message endpoint that relays assistant reply fragments to the
// browser as server-sent events.
package chat

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nguyennehehe/banking-chatbot/internal/engine"
	"github.com/nguyennehehe/banking-chatbot/internal/store"
	chatcore "github.com/nguyennehehe/banking-chatbot/pkg/chat"
	"github.com/nguyennehehe/banking-chatbot/pkg/media"
	"github.com/nguyennehehe/banking-chatbot/pkg/sdk"
)

// Controller handles chat API requests
type Controller struct {
	store  store.Store
	engine *engine.Engine
	log    *zap.Logger

	// busy guards one outstanding turn per session
	busy sync.Map
}

// NewController creates a chat controller
func NewController(st store.Store, eng *engine.Engine, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}

	return &Controller{
		store:  st,
		engine: eng,
		log:    log,
	}
}

// CreateSession handles POST requests to create a new session
func (ctrl *Controller) CreateSession(c *gin.Context) {
	var req sdk.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Could not parse request body", err).AsGinResponse())
		return
	}

	sess, err := ctrl.store.CreateSession(c.Request.Context(), req.UserID)
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusInternalServerError, "Failed to create session", err).AsGinResponse())
		return
	}

	ctrl.log.Info("session created",
		zap.String("session_id", sess.ID.String()),
		zap.String("user_id", sess.UserID))

	c.JSON(sdk.NewSuccessResponse("Session created successfully", toSDKSession(sess)).AsGinResponse())
}

// GetSession handles GET requests to retrieve an existing session by UUID
func (ctrl *Controller) GetSession(c *gin.Context) {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return
	}

	sess, err := ctrl.store.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusNotFound, "Session not found", err).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse("Session retrieved successfully", toSDKSession(sess)).AsGinResponse())
}

// DeleteSession handles DELETE requests to remove an existing session
func (ctrl *Controller) DeleteSession(c *gin.Context) {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return
	}

	if err := ctrl.store.DeleteSession(c.Request.Context(), sessionID); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusNotFound, "Failed to delete session", err).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse[any]("Session deleted successfully", nil).AsGinResponse())
}

// PostMessage handles POST requests to send a user message. The assistant
// reply is streamed back as server-sent events: delta events replace the
// in-progress message, and a final done event carries the finalized turn
// plus optional audio
func (ctrl *Controller) PostMessage(c *gin.Context) {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return
	}

	var req sdk.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Could not parse request body", err).AsGinResponse())
		return
	}

	voice, err := chatcore.ParseVoice(req.Voice)
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Invalid voice", err).AsGinResponse())
		return
	}

	// One outstanding turn per session: reject concurrent sends
	if _, loaded := ctrl.busy.LoadOrStore(sessionID, struct{}{}); loaded {
		c.JSON(sdk.NewErrorResponse(http.StatusConflict, "A turn is already in progress for this session", nil).AsGinResponse())
		return
	}
	defer ctrl.busy.Delete(sessionID)

	sess, err := ctrl.store.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusNotFound, "Session not found", err).AsGinResponse())
		return
	}

	surface := newSSESurface(c)
	result, err := ctrl.engine.RunTurn(c.Request.Context(), sess, req.Content, surface, engine.TurnOptions{
		SpeechEnabled: req.Speech,
		Voice:         voice,
	})
	if err != nil {
		// The turn failed after the stream started; the surface already
		// reported it. Keep the user turn in the persisted transcript
		if saveErr := ctrl.store.AppendTurns(c.Request.Context(), sessionID, chatcore.NewTurn(chatcore.RoleUser, req.Content)); saveErr != nil {
			ctrl.log.Error("failed to persist user turn after failed reply", zap.Error(saveErr))
		}
		return
	}

	if err := ctrl.persistTurn(c, sessionID, sess, req.Content, result); err != nil {
		ctrl.log.Error("failed to persist turn", zap.String("session_id", sessionID.String()), zap.Error(err))
	}

	done := sdk.MessageResult{Reply: result.Reply}
	if result.Audio != nil {
		done.AudioDataURI = media.AudioDataURI(result.Audio)
	}
	if result.AudioErr != nil {
		done.AudioError = result.AudioErr.Error()
	}
	surface.Done(done)
}

// persistTurn records the thread handle and the completed turn pair
func (ctrl *Controller) persistTurn(c *gin.Context, sessionID uuid.UUID, sess *chatcore.Session, input string, result *engine.TurnResult) error {
	ctx := c.Request.Context()

	if err := ctrl.store.UpdateThread(ctx, sessionID, sess.ThreadID); err != nil {
		return err
	}

	return ctrl.store.AppendTurns(ctx, sessionID,
		chatcore.NewTurn(chatcore.RoleUser, input),
		result.Reply,
	)
}

// parseSessionID reads and validates the :uuid path parameter
func parseSessionID(c *gin.Context) (uuid.UUID, bool) {
	sessionID, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Invalid session id", err).AsGinResponse())
		return uuid.Nil, false
	}
	return sessionID, true
}

// toSDKSession converts a domain session to its wire representation
func toSDKSession(sess *chatcore.Session) sdk.Session {
	return sdk.Session{
		ID:       sess.ID.String(),
		UserID:   sess.UserID,
		ThreadID: sess.ThreadID,
		Turns:    sess.Transcript,
	}
}
