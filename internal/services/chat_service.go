package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/omer-studio/backend/internal/auth"
	"github.com/omer-studio/backend/internal/gemini"
	"github.com/omer-studio/backend/internal/models"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// chatSession holds one conversation's history. The gateway is stateless,
// so the full history is replayed on every message.
type chatSession struct {
	mu      sync.Mutex
	history []models.ChatMessage
}

// ChatService keeps chat histories server-side. A session is addressed by a
// signed token; idle sessions expire with the cache TTL.
type ChatService struct {
	gateway  Gateway
	sessions *cache.Cache
	secret   string
	ttl      time.Duration
	audit    Auditor
	log      *zap.Logger
}

func NewChatService(gateway Gateway, secret string, ttl time.Duration, audit Auditor, log *zap.Logger) *ChatService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ChatService{
		gateway:  gateway,
		sessions: cache.New(ttl, 10*time.Minute),
		secret:   secret,
		ttl:      ttl,
		audit:    audit,
		log:      log,
	}
}

// CreateSession opens an empty conversation and returns its id with the
// token the client must present on every message.
func (s *ChatService) CreateSession() (string, string, error) {
	id := uuid.New()
	token, err := auth.GenerateSessionToken(s.secret, id, s.ttl)
	if err != nil {
		return "", "", err
	}
	s.sessions.Set(id.String(), &chatSession{}, s.ttl)
	return id.String(), token, nil
}

// Verify checks the token signature and returns the session id it names.
func (s *ChatService) Verify(token string) (string, error) {
	claims, err := auth.ParseSessionToken(s.secret, token)
	if err != nil {
		return "", err
	}
	return claims.SessionID.String(), nil
}

// SendMessage appends the user's turn, replays the history through the
// gateway and appends the model's reply. Each message refreshes the
// session's idle timer.
func (s *ChatService) SendMessage(ctx context.Context, sessionID, text string, images []string) (gemini.ChatReply, error) {
	if strings.TrimSpace(text) == "" && len(images) == 0 {
		return gemini.ChatReply{}, missingInput(msgNeedChatMessage)
	}
	v, ok := s.sessions.Get(sessionID)
	if !ok {
		return gemini.ChatReply{}, ErrSessionNotFound
	}
	session := v.(*chatSession)

	session.mu.Lock()
	defer session.mu.Unlock()

	reply, err := s.gateway.Chat(ctx, session.history, text, images)
	if err != nil {
		return gemini.ChatReply{}, err
	}

	now := time.Now()
	session.history = append(session.history,
		models.ChatMessage{Role: models.ChatRoleUser, Text: text, Images: images, Timestamp: now},
		models.ChatMessage{Role: models.ChatRoleModel, Text: reply.Text, Images: reply.Images, Timestamp: now},
	)
	s.sessions.Set(sessionID, session, s.ttl)

	if err := s.audit.Log(ctx, models.AuditLog{
		ActorType:  "api",
		Action:     models.AuditActionChatMessageSent,
		EntityType: "chat_session",
		EntityID:   strPtr(sessionID),
	}); err != nil {
		s.log.Warn("audit log failed", zap.Error(err))
	}
	return reply, nil
}

// History returns a copy of the session's messages in order.
func (s *ChatService) History(sessionID string) ([]models.ChatMessage, error) {
	v, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	session := v.(*chatSession)
	session.mu.Lock()
	defer session.mu.Unlock()
	out := make([]models.ChatMessage, len(session.history))
	copy(out, session.history)
	return out, nil
}
