package auth

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

const SigningMethod = "HS256"

var ErrRefreshExpired = errors.New("refresh has expired")

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt int64  `json:"oriat,omitempty"`
	Email        string `json:"email,omitempty"`
}

// Session is a signed-in account and its access token.
type Session struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	Account     Account   `json:"user"`
}

func (s Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

func (svc *Service) claims(acc Account, origIat ...int64) *Claims {
	now := NowFunc()
	nownix := now.Unix()

	oriat := nownix
	if len(origIat) > 0 {
		oriat = origIat[0]
	}

	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    svc.appName,
			Subject:   acc.ID,
			ExpiresAt: now.Add(svc.jwtExpiration).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt: oriat,
		Email:        acc.Email,
	}
}

// IssueSession signs a new access token for acc.
func (svc *Service) IssueSession(acc Account, origIat ...int64) (Session, error) {
	claims := svc.claims(acc, origIat...)
	token := jwt.NewWithClaims(jwt.GetSigningMethod(SigningMethod), claims)

	ss, err := token.SignedString(svc.secretKey)
	if err != nil {
		return Session{}, errors.Wrap(err, "signing token")
	}
	return Session{
		AccessToken: ss,
		TokenType:   "bearer",
		ExpiresAt:   time.Unix(claims.ExpiresAt, 0).UTC(),
		Account:     acc,
	}, nil
}

// SigningKey is the HMAC key of the access tokens.
func (svc *Service) SigningKey() []byte {
	return svc.secretKey
}

// ParseToken verifies an access token and returns its claims.
func (svc *Service) ParseToken(tokenStr string) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != SigningMethod {
			return nil, errors.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return svc.secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
