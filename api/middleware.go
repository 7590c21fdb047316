package api

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/airticket/internal/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	requestIDHeader   = "X-Request-ID"
	idempotencyHeader = "Idempotency-Key"
	userIDKey         = "user_id"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// RequestLogger writes one line per request.
func RequestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(logrus.Fields{
			"request_id": c.GetString(requestIDHeader),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
		})
		if len(c.Errors) > 0 {
			entry = entry.WithField("error", c.Errors.String())
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.Error("request failed")
		case c.Writer.Status() >= http.StatusBadRequest:
			entry.Warn("request rejected")
		default:
			entry.Info("request handled")
		}
	}
}

// RequireUser verifies an HS256 bearer token and stores the acting user id
// taken from the "sub" or "userId" claim.
func RequireUser(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := auth.UserFromHeader(c.GetHeader("Authorization"), secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

func actingUser(c *gin.Context) (int64, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// IdempotencyStore keeps Idempotency-Key reservations and the responses
// they produced.
type IdempotencyStore interface {
	ReserveIdempotencyKey(ctx context.Context, key string, lockTTL time.Duration) (bool, error)
	LookupIdempotencyKey(ctx context.Context, key string) ([]byte, bool, error)
	CompleteIdempotencyKey(ctx context.Context, key string, response []byte, ttl time.Duration) error
	ReleaseIdempotencyKey(ctx context.Context, key string) error
}

type storedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

type capturingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *capturingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *capturingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

const idempotencyLockTTL = 30 * time.Second

// Idempotency replays the stored response of a repeated POST, PUT or PATCH
// carrying the same Idempotency-Key from the same caller. Store failures let
// the request through. Server errors, 401/403 and responses written by a
// guard that aborted the chain release the key so the client can retry.
func Idempotency(store IdempotencyStore, ttl time.Duration, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			c.Next()
			return
		}
		header := c.GetHeader(idempotencyHeader)
		if header == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := fmt.Sprintf("%s:%s:%s:%s", callerScope(c.GetHeader("Authorization")), c.Request.Method, c.Request.URL.Path, header)

		stored, done, err := store.LookupIdempotencyKey(ctx, key)
		if err != nil {
			log.WithError(err).Warn("idempotency lookup failed")
			c.Next()
			return
		}
		if done {
			var resp storedResponse
			if err := json.Unmarshal(stored, &resp); err == nil {
				c.Header("X-Idempotency-Hit", "true")
				c.Data(resp.Status, "application/json; charset=utf-8", resp.Body)
				c.Abort()
				return
			}
		}

		acquired, err := store.ReserveIdempotencyKey(ctx, key, idempotencyLockTTL)
		if err != nil {
			log.WithError(err).Warn("idempotency reserve failed")
			c.Next()
			return
		}
		if !acquired {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "request with this Idempotency-Key is in progress"})
			return
		}

		w := &capturingWriter{ResponseWriter: c.Writer}
		c.Writer = w
		c.Next()

		// the request context may already be cancelled here
		bg := context.WithoutCancel(ctx)
		if !replayable(c, w.Status()) {
			if err := store.ReleaseIdempotencyKey(bg, key); err != nil {
				log.WithError(err).Warn("idempotency release failed")
			}
			return
		}
		body := w.body.Bytes()
		if len(body) == 0 {
			body = []byte("null")
		}
		payload, err := json.Marshal(storedResponse{Status: w.Status(), Body: body})
		if err == nil {
			err = store.CompleteIdempotencyKey(bg, key, payload, ttl)
		}
		if err != nil {
			log.WithError(err).Warn("idempotency complete failed")
		}
	}
}

// callerScope ties a key to the credentials it was first used with, so a
// stored response is never replayed to another caller.
func callerScope(authorization string) string {
	if authorization == "" {
		return "anonymous"
	}
	sum := sha256.Sum256([]byte(authorization))
	return hex.EncodeToString(sum[:8])
}

func replayable(c *gin.Context, status int) bool {
	switch {
	case c.IsAborted():
		return false
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return false
	default:
		return status < http.StatusInternalServerError
	}
}
