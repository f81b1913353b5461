package middleware

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
)

var gzipPool = sync.Pool{
	New: func() any {
		w, _ := gzip.NewWriterLevel(nil, gzip.DefaultCompression)
		return w
	},
}

type gzipResponseWriter struct {
	gin.ResponseWriter
	gz    *gzip.Writer
	wrote bool
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	w.wrote = true
	return w.gz.Write(b)
}

func (w *gzipResponseWriter) WriteString(s string) (int, error) {
	w.wrote = true
	return w.gz.Write([]byte(s))
}

// Compress middleware gzips responses for clients that accept it.
// Analytics payloads are large and repetitive, so compression pays off.
func Compress() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.Contains(c.GetHeader("Accept-Encoding"), "gzip") {
			c.Next()
			return
		}

		gz := gzipPool.Get().(*gzip.Writer)
		gz.Reset(c.Writer)

		c.Header("Content-Encoding", "gzip")
		c.Header("Vary", "Accept-Encoding")
		gzw := &gzipResponseWriter{ResponseWriter: c.Writer, gz: gz}
		c.Writer = gzw

		defer func() {
			c.Writer = gzw.ResponseWriter
			if gzw.wrote {
				// Content-Length no longer matches the compressed body.
				c.Header("Content-Length", "")
				_ = gz.Close()
			} else {
				// No body went through the stream; closing would emit
				// an empty gzip frame and mark the response written.
				c.Header("Content-Encoding", "")
			}
			gzipPool.Put(gz)
		}()

		c.Next()
	}
}
