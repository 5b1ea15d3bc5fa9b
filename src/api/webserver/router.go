package webserver

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/xd-ai/gemini-chat/src/api/config"
	"github.com/xd-ai/gemini-chat/src/api/data"
	"github.com/xd-ai/gemini-chat/src/api/users"
	"github.com/xd-ai/gemini-chat/src/chat"
	"github.com/xd-ai/gemini-chat/src/search"
	"github.com/xd-ai/gemini-chat/src/search/serpapi"
)

func New(cfg config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	g := gin.New()
	g.Use(gin.Logger(), gin.Recovery())
	attachRoutes(g, cfg, db, rdb)
	return g
}

// triggerKeywords reads the configurable trigger set from the settings
// table; the compiled-in default applies when the setting is absent.
func triggerKeywords() []string {
	raw := data.GetSetting("search_keywords")
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

func attachRoutes(r *gin.Engine, cfg config.Config, db *gorm.DB, rdb *redis.Client) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	store := users.NewStore(db)
	detector := chat.NewDetector(triggerKeywords())
	searcher := search.NewCache(serpapi.NewClient(), rdb, time.Duration(cfg.SearchCacheTTL)*time.Minute)
	orc := chat.NewOrchestrator(store, searcher, detector)

	tokenTTL := time.Duration(cfg.TokenTTLHours) * time.Hour
	authH := NewAuth(store, []byte(cfg.JWTSecret), tokenTTL)
	settingsH := NewSettings(store)
	chatH := NewChat(orc)
	chatLimiter := NewRateLimiter(cfg.ChatRatePerMin, time.Minute)

	v1 := r.Group("/v1")
	{
		v1.POST("/auth/register", authH.Register)
		v1.POST("/auth/login", authH.Login)

		secured := v1.Use(JWTMiddleware([]byte(cfg.JWTSecret)))
		secured.GET("/models", chatH.Models)
		secured.GET("/settings/keys", settingsH.GetKeys)
		secured.PUT("/settings/keys", settingsH.UpdateKeys)
		secured.POST("/chat", RateLimitMiddleware(chatLimiter), chatH.Submit)
	}
}
