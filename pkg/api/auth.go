package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt"

	"github.com/danielkrainas/sbi/pkg/api/v1"
	"github.com/danielkrainas/sbi/pkg/dispatch"
)

// Authenticator derives the request principal. A nil principal with a nil
// error means the request is anonymous.
type Authenticator interface {
	Authenticate(r *http.Request) (*dispatch.Principal, error)
}

// AccessTokenClaims are the claims of an NRF-issued OAuth2 access token.
type AccessTokenClaims struct {
	jwt.StandardClaims
	Scope string `json:"scope"`
}

// JWTAuthenticator accepts HS256 bearer tokens signed with Key.
type JWTAuthenticator struct {
	Key []byte
}

func (a *JWTAuthenticator) Authenticate(r *http.Request) (*dispatch.Principal, error) {
	header := r.Header.Get(v1.AuthorizationHeader.Name)
	if header == "" {
		return nil, nil
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return nil, v1.ErrorCodeTokenMissing
	}

	claims := &AccessTokenClaims{}
	_, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}

		return a.Key, nil
	})

	if err != nil {
		return nil, v1.ErrorCodeTokenInvalid.WithArgs(err)
	}

	return &dispatch.Principal{
		Subject: claims.Subject,
		Scopes:  dispatch.ParseScopes(claims.Scope),
	}, nil
}

// IssueToken signs an access token for subject with the given scopes.
func (a *JWTAuthenticator) IssueToken(subject string, scopes []string, expiresAt int64) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &AccessTokenClaims{
		StandardClaims: jwt.StandardClaims{
			Subject:   subject,
			ExpiresAt: expiresAt,
		},
		Scope: strings.Join(scopes, " "),
	})

	return token.SignedString(a.Key)
}

// AllowAllAuthenticator grants every scope to every request.
type AllowAllAuthenticator struct {
	Subject string
}

func (a AllowAllAuthenticator) Authenticate(r *http.Request) (*dispatch.Principal, error) {
	return &dispatch.Principal{Subject: a.Subject, Scopes: dispatch.AllScopes()}, nil
}

// AnonymousAuthenticator never yields a principal.
type AnonymousAuthenticator struct{}

func (AnonymousAuthenticator) Authenticate(r *http.Request) (*dispatch.Principal, error) {
	return nil, nil
}

const (
	AuthModeJWT      = "jwt"
	AuthModeAllowAll = "allow-all"
	AuthModeNone     = "none"
)

func NewAuthenticator(mode string, key []byte, subject string) (Authenticator, error) {
	switch mode {
	case AuthModeJWT:
		if len(key) == 0 {
			return nil, fmt.Errorf("auth mode %q requires a signing key", mode)
		}

		return &JWTAuthenticator{Key: key}, nil
	case AuthModeAllowAll, "":
		return AllowAllAuthenticator{Subject: subject}, nil
	case AuthModeNone:
		return AnonymousAuthenticator{}, nil
	}

	return nil, fmt.Errorf("unsupported auth mode %q", mode)
}
