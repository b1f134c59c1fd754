package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isail-maritime/crew-rotation-api/internal/platform/auth/jwtverifier"
	"github.com/isail-maritime/crew-rotation-api/internal/platform/config"
)

func TestIssuer_TokensVerifyAgainstOwnJWKS(t *testing.T) {
	t.Parallel()

	iss, err := newIssuer(settings{Issuer: "http://devjwt.test", Audience: "crew-rotation-api", Kid: "k1", TTL: 10 * time.Minute})
	require.NoError(t, err)
	srv := httptest.NewServer(iss.routes())
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/token?sub=" + url.QueryEscape("dev|alice"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
		Sub   string `json:"sub"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "dev|alice", body.Sub)

	cfg := config.DefaultJWTConfig()
	cfg.Issuer = "http://devjwt.test"
	cfg.Audience = "crew-rotation-api"
	cfg.JWKSURL = srv.URL + "/.well-known/jwks.json"
	v := jwtverifier.New(cfg)

	sub, err := v.Verify(context.Background(), body.Token)
	require.NoError(t, err)
	assert.Equal(t, "dev|alice", sub)
}

func TestIssuer_TokenRequiresSub(t *testing.T) {
	t.Parallel()

	iss, err := newIssuer(settings{Issuer: "i", Audience: "a", Kid: "k", TTL: time.Minute})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	iss.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/token", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
