// Command devjwt is a tiny dev-only JWT issuer and JWKS server.
//
// It is NOT an OIDC provider. It exists so local development can run against real RS256
// verification (iss/aud/exp + JWKS).
package main

import (
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/isail-maritime/crew-rotation-api/internal/platform/logger"
)

type settings struct {
	Port     int           `default:"5556"`
	Issuer   string        `default:"http://devjwt:5556"`
	Audience string        `default:"crew-rotation-api"`
	Kid      string        `default:"dev-kid-1"`
	TTL      time.Duration `default:"30m"`
	LogLevel string        `split_words:"true" default:"info"`
}

func main() {
	var s settings
	if err := envconfig.Process("devjwt", &s); err != nil {
		slog.Error("invalid devjwt config", "err", err)
		os.Exit(1)
	}
	log := logger.Setup(s.LogLevel, nil)

	iss, err := newIssuer(s)
	if err != nil {
		log.Error("generate key", "err", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(s.Port),
		Handler:           iss.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info("devjwt listening", "addr", srv.Addr, "iss", s.Issuer, "aud", s.Audience, "kid", s.Kid, "ttl", s.TTL.String())
	if err := srv.ListenAndServe(); err != nil {
		log.Error("listen", "err", err)
		os.Exit(1)
	}
}
