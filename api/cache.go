package api

import (
	"bytes"
	"net/http"

	"github.com/rpupo63/pulse-backend/pagecache"
)

// cachingResponseWriter buffers a handler's body so a successful
// response can be stored verbatim and replayed on later requests.
type cachingResponseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	buf         bytes.Buffer
}

func (w *cachingResponseWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.status = statusCode
		w.wroteHeader = true
		w.ResponseWriter.WriteHeader(statusCode)
	}
}

func (w *cachingResponseWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// CachePageResponses serves GET responses from the page cache when a
// cached blob exists, and fills the cache on a miss. Entity writes do
// not invalidate entries; a cached page stays stale until it expires or
// the cache is cleared explicitly.
func CachePageResponses(store *pagecache.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if store == nil || r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key := pagecache.Key(r)
			if blob, ok := store.Get(key); ok {
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.Header().Set("X-Cache", "HIT")
				w.WriteHeader(http.StatusOK)
				w.Write(blob)
				return
			}

			crw := &cachingResponseWriter{ResponseWriter: w, status: 200}
			next.ServeHTTP(crw, r)

			if crw.status == http.StatusOK {
				// Cache fill failures only cost the next request a rebuild.
				_ = store.Set(key, crw.buf.Bytes())
			}
		})
	}
}
