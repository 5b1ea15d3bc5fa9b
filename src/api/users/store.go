package users

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/xd-ai/gemini-chat/src/api/types"
	"github.com/xd-ai/gemini-chat/src/chat"
)

// ErrNotFound is returned when no user matches the lookup.
var ErrNotFound = errors.New("user not found")

// Store is the credential store: one record per user, identity plus hashed
// password plus per-provider API keys. It is the only state shared across
// turns, read-only during a turn.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, u *types.User) error {
	return s.db.WithContext(ctx).Create(u).Error
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*types.User, error) {
	var u types.User
	err := s.db.WithContext(ctx).First(&u, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) FindByID(ctx context.Context, id uint64) (*types.User, error) {
	var u types.User
	err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Exists reports whether a user with the given username or email is taken.
func (s *Store) Exists(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&types.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	return count > 0, err
}

// Keys satisfies chat.KeySource.
func (s *Store) Keys(ctx context.Context, userID uint64) (chat.Keys, error) {
	u, err := s.FindByID(ctx, userID)
	if err != nil {
		return chat.Keys{}, err
	}
	return chat.Keys{GeminiKey: u.GeminiAPIKey, SerpKey: u.SerpAPIKey}, nil
}

// SetKeys updates provider keys; a nil pointer leaves that key unchanged,
// an empty string clears it.
func (s *Store) SetKeys(ctx context.Context, userID uint64, geminiKey, serpKey *string) error {
	updates := map[string]interface{}{}
	if geminiKey != nil {
		updates["gemini_api_key"] = *geminiKey
	}
	if serpKey != nil {
		updates["serp_api_key"] = *serpKey
	}
	if len(updates) == 0 {
		return nil
	}
	res := s.db.WithContext(ctx).Model(&types.User{}).Where("id = ?", userID).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) TouchLastLogin(ctx context.Context, userID uint64) error {
	now := time.Now()
	return s.db.WithContext(ctx).Model(&types.User{}).
		Where("id = ?", userID).
		Update("last_login", &now).Error
}
