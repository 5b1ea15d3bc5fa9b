package webserver

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xd-ai/gemini-chat/src/ai/core"
	"github.com/xd-ai/gemini-chat/src/chat"
	"github.com/xd-ai/gemini-chat/src/shared/htmlx"
)

type Chat struct {
	orc      *chat.Orchestrator
	renderer *htmlx.Renderer
}

func NewChat(orc *chat.Orchestrator) Chat {
	return Chat{orc: orc, renderer: htmlx.NewRenderer()}
}

// Submit handles one chat turn. Errors are scoped to this turn; nothing here
// mutates the credential store.
func (h Chat) Submit(c *gin.Context) {
	var req struct {
		Message string `json:"message" binding:"required,max=8000"`
		Model   string `json:"model" binding:"max=64"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	turn, err := h.orc.Submit(c, userID(c), req.Message, req.Model)
	if err != nil {
		status, msg := turnErrorResponse(err)
		c.JSON(status, msg)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"turnId":    turn.ID,
		"response":  h.renderer.Render(turn.Response),
		"markdown":  turn.Response,
		"model":     turn.Model,
		"searched":  turn.Searched,
		"timestamp": time.Now().Format("15:04"),
	})
}

func (h Chat) Models(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"models": chat.SupportedModels()})
}

func turnErrorResponse(err error) (int, gin.H) {
	var vErr *chat.ValidationError
	if errors.As(err, &vErr) {
		return http.StatusBadRequest, gin.H{"err": vErr.Error()}
	}
	var cfgErr *chat.ConfigurationError
	if errors.As(err, &cfgErr) {
		return http.StatusBadRequest, gin.H{"err": cfgErr.Error(), "missingKey": cfgErr.Key}
	}
	var pErr *core.ProviderError
	if errors.As(err, &pErr) {
		// Don't forward raw provider bodies; category + short message only.
		return http.StatusBadGateway, gin.H{
			"err":      "AI provider error: " + pErr.Message,
			"category": pErr.Category,
		}
	}
	log.Printf("chat: turn failed: %v", err)
	return http.StatusInternalServerError, gin.H{"err": "failed to process the message"}
}
