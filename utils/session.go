package utils

import (
	"errors"
	"net/http"
	"time"

	"github.com/iluvios/menumagic-sub001/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const SessionCookieName = "mm_session"

var ErrInvalidSession = errors.New("invalid session token")

type sessionClaims struct {
	UserID       uint `json:"userId"`
	RestaurantID uint `json:"restaurantId"`
	jwt.RegisteredClaims
}

// SessionSigner issues and verifies the HS256 session token kept in the
// mm_session cookie.
type SessionSigner struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewSessionSigner(secret string, ttl time.Duration, secureCookie bool) *SessionSigner {
	return &SessionSigner{secret: []byte(secret), ttl: ttl, secure: secureCookie, now: time.Now}
}

func (s *SessionSigner) Sign(sess models.Session) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		UserID:       sess.UserID,
		RestaurantID: sess.RestaurantID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (s *SessionSigner) Parse(tokenString string) (models.Session, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return models.Session{}, ErrInvalidSession
	}
	if claims.UserID == 0 || claims.RestaurantID == 0 {
		return models.Session{}, ErrInvalidSession
	}
	return models.Session{UserID: claims.UserID, RestaurantID: claims.RestaurantID}, nil
}

func (s *SessionSigner) SetCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, int(s.ttl.Seconds()), "/", "", s.secure, true)
}

func (s *SessionSigner) ClearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", s.secure, true)
}
