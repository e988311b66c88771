package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type trackingBody struct {
	io.Reader
	read   int
	closed bool
}

func (b *trackingBody) Read(p []byte) (int, error) {
	n, err := b.Reader.Read(p)
	b.read += n
	return n, err
}

func (b *trackingBody) Close() error {
	b.closed = true
	return nil
}

func TestDrainAndCloseRequest(t *testing.T) {
	cases := []struct {
		name     string
		bodySize int
		wantRead int
	}{
		{name: "small body drained", bodySize: 1024, wantRead: 1024},
		{name: "large body capped", bodySize: maxDrainBytes + 4096, wantRead: maxDrainBytes},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := &trackingBody{Reader: strings.NewReader(strings.Repeat("f", tc.bodySize))}
			req := httptest.NewRequest(http.MethodPost, "/assessment/analyze", nil)
			req.Body = body

			handler := DrainAndCloseRequest()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
			}))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, tc.wantRead, body.read)
			assert.True(t, body.closed)
		})
	}
}

func TestLogRequest(t *testing.T) {
	level := log.GetLevel()
	defer log.SetLevel(level)

	for _, lvl := range []log.Level{log.InfoLevel, log.TraceLevel} {
		log.SetLevel(lvl)

		called := false
		handler := LogRequest()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			called = true
			w.WriteHeader(http.StatusCreated)
		}))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.True(t, called)
		assert.Equal(t, http.StatusCreated, rr.Code)
	}
}
