package application

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/bharosahq/trust-network/pkg/helpers"
)

// Session is the server-side record of a signed-in party, created only
// after successful registration or an identity-match sign-in.
type Session struct {
	SubjectID  string    `json:"subject_id"`
	Role       string    `json:"role"`
	Name       string    `json:"name"`
	SignedInAt time.Time `json:"signed_in_at"`
}

// TokenPair carries the issued JWT cookies and their expiries.
type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func sessionKey(subjectID string) string {
	return "session:" + subjectID
}

// SessionService issues JWT pairs and mirrors session state into Redis
// when configured. Without Redis, the signed tokens alone carry the
// session, which is enough for the prototype.
type SessionService struct {
	JWT    *helpers.JWTManager
	Redis  *redis.Client
	Logger *logrus.Logger
}

func NewSessionService(jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger) *SessionService {
	return &SessionService{JWT: jwt, Redis: rdb, Logger: logger}
}

// Create issues a token pair for the subject and records the session.
func (s *SessionService) Create(ctx context.Context, subjectID, role, name string) (*TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(subjectID, role)
	if err != nil {
		return nil, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(subjectID, role)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		sess := Session{SubjectID: subjectID, Role: role, Name: name, SignedInAt: time.Now().UTC()}
		if err := helpers.RedisSetJSON(ctx, s.Redis, sessionKey(subjectID), sess, s.JWT.RefreshTTL); err != nil {
			helpers.LogError(s.Logger, "store session", err, logrus.Fields{"subject_id": subjectID})
		}
	}

	return &TokenPair{
		AccessToken:        access,
		AccessTokenExpiry:  aexp,
		RefreshToken:       refresh,
		RefreshTokenExpiry: rexp,
	}, nil
}

// Refresh exchanges a valid refresh token for a fresh pair.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, *helpers.Claims, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, err
	}
	pair, err := s.Create(ctx, claims.SubjectID, claims.Role, "")
	if err != nil {
		return nil, nil, err
	}
	return pair, claims, nil
}

// Lookup fetches the stored session, when Redis holds one.
func (s *SessionService) Lookup(ctx context.Context, subjectID string) (*Session, bool, error) {
	if s.Redis == nil {
		return nil, false, nil
	}
	var sess Session
	found, err := helpers.RedisGetJSON(ctx, s.Redis, sessionKey(subjectID), &sess)
	if err != nil || !found {
		return nil, false, err
	}
	return &sess, true, nil
}

// Destroy removes the server-side session record on logout.
func (s *SessionService) Destroy(ctx context.Context, subjectID string) error {
	if s.Redis == nil {
		return nil
	}
	return helpers.RedisDel(ctx, s.Redis, sessionKey(subjectID))
}
