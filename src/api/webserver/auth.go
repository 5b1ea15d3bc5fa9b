package webserver

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/xd-ai/gemini-chat/src/api/types"
	"github.com/xd-ai/gemini-chat/src/api/users"
)

type Auth struct {
	store     *users.Store
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuth(store *users.Store, secret []byte, tokenTTL time.Duration) Auth {
	return Auth{store: store, jwtSecret: secret, tokenTTL: tokenTTL}
}

func (a Auth) Register(c *gin.Context) {
	var req struct {
		Username        string `json:"username" binding:"required,min=3,max=32"`
		Email           string `json:"email" binding:"required,email,max=255"`
		Password        string `json:"password" binding:"required,min=6,max=128"`
		ConfirmPassword string `json:"confirmPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	if req.Password != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"err": "passwords do not match"})
		return
	}

	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	taken, err := a.store.Exists(c, username, email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": "registration failed"})
		return
	}
	if taken {
		c.JSON(http.StatusConflict, gin.H{"err": "username or email already in use"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": "registration failed"})
		return
	}

	user := &types.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := a.store.Create(c, user); err != nil {
		// Unique index race between Exists and Create.
		log.Printf("register: create failed for %s: %v", username, err)
		c.JSON(http.StatusConflict, gin.H{"err": "username or email already in use"})
		return
	}

	token, err := issueJWT(user.ID, a.jwtSecret, a.tokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": "registration failed"})
		return
	}

	log.Printf("registered user %s (id=%d)", user.Username, user.ID)
	c.JSON(http.StatusCreated, gin.H{"token": token, "username": user.Username})
}

func (a Auth) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := a.store.FindByEmail(c, email)
	if err != nil {
		if !errors.Is(err, users.ErrNotFound) {
			log.Printf("login: lookup failed: %v", err)
		}
		c.JSON(http.StatusUnauthorized, gin.H{"err": "invalid email or password"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"err": "invalid email or password"})
		return
	}

	if err := a.store.TouchLastLogin(c, user.ID); err != nil {
		log.Printf("login: last_login update failed for id=%d: %v", user.ID, err)
	}

	token, err := issueJWT(user.ID, a.jwtSecret, a.tokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": "login failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "username": user.Username})
}
