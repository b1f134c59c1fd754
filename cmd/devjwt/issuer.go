package main

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
)

type jwk struct {
	Kty string `json:"kty"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	Kid string `json:"kid"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type jwks struct {
	Keys []jwk `json:"keys"`
}

// issuer mints RS256 tokens for local development and serves the matching JWKS.
type issuer struct {
	priv     *rsa.PrivateKey
	kid      string
	iss      string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

func newIssuer(s settings) (*issuer, error) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}
	return &issuer{
		priv:     priv,
		kid:      s.Kid,
		iss:      s.Issuer,
		audience: s.Audience,
		ttl:      s.TTL,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

func (i *issuer) jwks() jwks {
	enc := base64.RawURLEncoding
	return jwks{Keys: []jwk{{
		Kty: "RSA",
		Use: "sig",
		Alg: "RS256",
		Kid: i.kid,
		N:   enc.EncodeToString(i.priv.PublicKey.N.Bytes()),
		E:   enc.EncodeToString(big.NewInt(int64(i.priv.PublicKey.E)).Bytes()),
	}}}
}

func (i *issuer) mint(sub string, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    i.iss,
		Subject:   sub,
		Audience:  jwt.ClaimStrings{i.audience},
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		// Small skew tolerance for local use.
		NotBefore: jwt.NewNumericDate(now.Add(-5 * time.Second)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = i.kid
	return tok.SignedString(i.priv)
}

func (i *issuer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	// Common JWKS path used by many providers.
	r.Get("/.well-known/jwks.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(i.jwks())
	})

	// GET /token?sub=dev|alice
	r.Get("/token", func(w http.ResponseWriter, r *http.Request) {
		sub := strings.TrimSpace(r.URL.Query().Get("sub"))
		if sub == "" {
			http.Error(w, "missing sub", http.StatusBadRequest)
			return
		}
		now := i.now()
		token, err := i.mint(sub, now)
		if err != nil {
			http.Error(w, "failed to mint token", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token": token,
			"sub":   sub,
			"iss":   i.iss,
			"aud":   i.audience,
			"exp":   now.Add(i.ttl).Unix(),
		})
	})
	return r
}
