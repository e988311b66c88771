package middleware

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// LogRequest traces every request with its duration.
func LogRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !log.IsLevelEnabled(log.TraceLevel) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			next.ServeHTTP(w, r)
			log.WithFields(log.Fields{
				"method":         r.Method,
				"path":           r.URL.Path,
				"content_length": r.ContentLength,
				"ua":             r.UserAgent(),
				"took":           time.Since(start),
			}).Trace("request served")
		})
	}
}
