package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Claims struct {
	UID string `json:"uid"`
	jwt.RegisteredClaims
}

type Pair struct {
	AccessToken  string
	RefreshToken string
}

// Tokens 双密钥签发：access 短期、refresh 长期，互不通用
type Tokens struct {
	AccessSecret  []byte
	RefreshSecret []byte
	Issuer        string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func (t *Tokens) IssuePair(uid string) (Pair, error) {
	access, err := t.IssueAccess(uid)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := t.issue(uid, t.RefreshSecret, t.RefreshTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{AccessToken: access, RefreshToken: refresh}, nil
}

func (t *Tokens) IssueAccess(uid string) (string, error) {
	return t.issue(uid, t.AccessSecret, t.AccessTTL)
}

func (t *Tokens) issue(uid string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UID: uid,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(), // 同一秒内连续签发也不会撞出相同 token
			Subject:   uid,
			Issuer:    t.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (t *Tokens) ParseAccess(tokenStr string) (*Claims, error) {
	return t.parse(tokenStr, t.AccessSecret)
}

func (t *Tokens) ParseRefresh(tokenStr string) (*Claims, error) {
	return t.parse(tokenStr, t.RefreshSecret)
}

func (t *Tokens) parse(tokenStr string, secret []byte) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg")
		}
		return secret, nil
	}, jwt.WithIssuer(t.Issuer))
	if err != nil {
		return nil, err
	}
	if c, ok := tok.Claims.(*Claims); ok && tok.Valid {
		return c, nil
	}
	return nil, errors.New("invalid token")
}
