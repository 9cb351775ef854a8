// Package middleware holds the gin middleware shared by every route.
package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/amaumene/venusplay/pkg/logger"
	"github.com/amaumene/venusplay/pkg/security"
)

type gzipResponseWriter struct {
	gin.ResponseWriter
	zw *gzip.Writer
}

func (w *gzipResponseWriter) Write(data []byte) (int, error) {
	return w.zw.Write(data)
}

func (w *gzipResponseWriter) WriteString(s string) (int, error) {
	return w.zw.Write([]byte(s))
}

var gzipWriters = sync.Pool{
	New: func() interface{} {
		zw, _ := gzip.NewWriterLevel(io.Discard, gzip.BestSpeed)
		return zw
	},
}

// Gzip compresses responses for clients that accept it. Catalog listings
// are large and compress well. Register it outside Recovery so a recovered
// panic still writes through the open gzip stream.
func Gzip() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.Contains(c.GetHeader("Accept-Encoding"), "gzip") {
			c.Next()
			return
		}

		c.Header("Content-Encoding", "gzip")
		c.Header("Vary", "Accept-Encoding")

		original := c.Writer
		zw := gzipWriters.Get().(*gzip.Writer)
		zw.Reset(original)

		defer func() {
			_ = zw.Close()
			gzipWriters.Put(zw)
			c.Writer = original
		}()

		c.Writer = &gzipResponseWriter{ResponseWriter: original, zw: zw}
		c.Next()
	}
}

// CORS allows browser players on any origin to read the catalog.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Logger writes one access line per request.
func Logger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		clientIP := c.ClientIP()
		method := c.Request.Method
		statusCode := c.Writer.Status()

		if raw != "" {
			path = security.RedactURL(path + "?" + raw)
		}

		switch {
		case statusCode >= 500:
			log.Errorf("%s %s %d %v %s", clientIP, method, statusCode, latency, path)
		case statusCode >= 400:
			log.Warnf("%s %s %d %v %s", clientIP, method, statusCode, latency, path)
		default:
			log.Infof("%s %s %d %v %s", clientIP, method, statusCode, latency, path)
		}
	}
}

// Recovery turns a panic in a handler into a 500 with the usual error body.
func Recovery(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Errorf("[Recovery] panic serving %s: %v\n%s", c.Request.URL.Path, rec, debug.Stack())
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			}
		}()
		c.Next()
	}
}
