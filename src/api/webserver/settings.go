package webserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xd-ai/gemini-chat/src/api/users"
)

type Settings struct {
	store *users.Store
}

func NewSettings(store *users.Store) Settings {
	return Settings{store: store}
}

// maskKey hides all but the last four characters. Full keys never go back
// over the wire.
func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}

func (s Settings) GetKeys(c *gin.Context) {
	keys, err := s.store.Keys(c, userID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": "failed to load settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"geminiApiKey":        maskKey(keys.GeminiKey),
		"serpApiKey":          maskKey(keys.SerpKey),
		"geminiKeyConfigured": keys.GeminiKey != "",
		"serpKeyConfigured":   keys.SerpKey != "",
	})
}

func (s Settings) UpdateKeys(c *gin.Context) {
	var req struct {
		GeminiAPIKey *string `json:"geminiApiKey" binding:"omitempty,max=255"`
		SerpAPIKey   *string `json:"serpApiKey" binding:"omitempty,max=255"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	trim := func(p *string) *string {
		if p == nil {
			return nil
		}
		v := strings.TrimSpace(*p)
		return &v
	}

	if err := s.store.SetKeys(c, userID(c), trim(req.GeminiAPIKey), trim(req.SerpAPIKey)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": "failed to save settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
