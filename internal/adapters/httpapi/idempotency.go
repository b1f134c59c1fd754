package httpapi

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/isail-maritime/crew-rotation-api/internal/domain"
	"github.com/isail-maritime/crew-rotation-api/internal/ports/out/idempotency"
)

const idempotencyKeyHeader = "Idempotency-Key"

// idempotentCall describes one mutating request that may be replayed.
//
// The meta fingerprint (empty body hash) remembers which payload first used the key; the
// response fingerprint (body hash set) holds the stored response.
type idempotentCall struct {
	meta     idempotency.Fingerprint
	bodyHash string
}

func hashBody(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// beginIdempotent checks the Idempotency-Key header. It returns handled=true when it has
// already written a response (a replay, a key reuse conflict or a missing required key).
// call is nil when no key was supplied and none is required.
func (s *Server) beginIdempotent(w http.ResponseWriter, r *http.Request, subject domain.SubjectID, required bool, canonical any) (call *idempotentCall, handled bool) {
	key := strings.TrimSpace(r.Header.Get(idempotencyKeyHeader))
	if key == "" {
		if required {
			writeValidation(w, r, "missing Idempotency-Key header", map[string]any{idempotencyKeyHeader: "is required"})
			return nil, true
		}
		return nil, false
	}
	if s.idem == nil {
		return nil, false
	}

	bodyHash, err := hashBody(canonical)
	if err != nil {
		writeAppError(w, r, s.logger, err)
		return nil, true
	}
	call = &idempotentCall{
		meta: idempotency.Fingerprint{
			Key:      idempotency.Key(key),
			Subject:  subject,
			Method:   r.Method,
			Route:    r.URL.Path,
			BodyHash: "",
		},
		bodyHash: bodyHash,
	}

	ctx := r.Context()
	meta, ok, err := s.idem.Get(ctx, call.meta)
	if err != nil {
		writeAppError(w, r, s.logger, err)
		return nil, true
	}
	if ok {
		if string(meta.Body) != bodyHash {
			writeError(w, r, http.StatusConflict, "IDEMPOTENCY_KEY_REUSE", "idempotency key reuse with different payload", nil)
			return nil, true
		}
	} else if err := s.idem.Put(ctx, call.meta, idempotency.Record{
		StatusCode:  0,
		ContentType: "text/plain",
		Body:        []byte(bodyHash),
		CreatedAt:   s.clk.Now().UTC(),
	}); err != nil {
		writeAppError(w, r, s.logger, err)
		return nil, true
	}

	rec, ok, err := s.idem.Get(ctx, call.response())
	if err != nil {
		writeAppError(w, r, s.logger, err)
		return nil, true
	}
	if ok && rec.StatusCode >= 200 && rec.StatusCode < 300 {
		w.Header().Set("Content-Type", rec.ContentType)
		w.Header().Set("Idempotent-Replayed", "true")
		w.WriteHeader(rec.StatusCode)
		_, _ = w.Write(rec.Body)
		return nil, true
	}
	return call, false
}

func (c *idempotentCall) response() idempotency.Fingerprint {
	fp := c.meta
	fp.BodyHash = c.bodyHash
	return fp
}

// finishIdempotent writes payload and, when the call is keyed, stores it for replay.
func (s *Server) finishIdempotent(w http.ResponseWriter, r *http.Request, call *idempotentCall, status int, payload any) {
	if call == nil || s.idem == nil {
		writeJSON(w, status, payload)
		return
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		writeAppError(w, r, s.logger, err)
		return
	}
	if err := s.idem.Put(r.Context(), call.response(), idempotency.Record{
		StatusCode:  status,
		ContentType: "application/json",
		Body:        buf.Bytes(),
		CreatedAt:   s.clk.Now().UTC(),
	}); err != nil {
		s.logger.WarnContext(r.Context(), "idempotency record not stored", "route", call.meta.Route, "error", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
