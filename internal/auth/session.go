package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"
)

var (
	ErrInvalidSessionToken = errors.New("session token is invalid")
	ErrExpiredSessionToken = errors.New("token is expired")
)

// A session token only bridges the gap between password login and 2FA
// verification, so it is short-lived.
const defaultSessionTokenDuration = 5 * time.Minute

type SessionManagerInterface interface {
	VerifySessionToken(sessionToken string) (string, error)
	DeleteSessionToken(sessionToken string)
	CleanupExpired() int
	GenerateSessionToken(userID string, duration time.Duration) (string, error)
}

type SessionToken struct {
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

type SessionManager struct {
	mu     sync.RWMutex
	tokens map[string]SessionToken
}

func NewSessionManager() SessionManagerInterface {
	return &SessionManager{
		tokens: make(map[string]SessionToken),
	}
}

func (sm *SessionManager) VerifySessionToken(sessionToken string) (string, error) {
	sm.mu.RLock()
	token, exists := sm.tokens[sessionToken]
	sm.mu.RUnlock()

	if !exists {
		return "", ErrInvalidSessionToken
	}

	if time.Now().After(token.ExpiresAt) {
		return "", ErrExpiredSessionToken
	}

	return token.UserID, nil
}

func (sm *SessionManager) DeleteSessionToken(sessionToken string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.tokens, sessionToken)
}

// CleanupExpired drops expired tokens and reports how many were removed.
// It is run on a schedule from main.
func (sm *SessionManager) CleanupExpired() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	removed := 0
	now := time.Now()
	for token, session := range sm.tokens {
		if now.After(session.ExpiresAt) {
			delete(sm.tokens, token)
			removed++
		}
	}
	return removed
}

func (sm *SessionManager) GenerateSessionToken(userID string, duration time.Duration) (string, error) {
	tokenBytes := make([]byte, 32)

	_, err := rand.Read(tokenBytes)
	if err != nil {
		return "", ErrInternalError
	}

	token := hex.EncodeToString(tokenBytes)
	expirationTime := time.Now().Add(duration)

	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.tokens[token] = SessionToken{
		UserID:    userID,
		ExpiresAt: expirationTime,
		CreatedAt: time.Now(),
	}
	return token, nil
}
