package router

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/akeren/innr-waitlist/internal/log"
	"github.com/gin-gonic/gin"
)

const correlationIDHeader = "X-Correlation-ID"

// correlationMiddleware reuses the caller's correlation id when present, then stores a
// correlated logger on the request context for handlers and services.
func (routerService *RouterService) correlationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(correlationIDHeader))
		if id == "" {
			id = log.GenerateCorrelationID()
		}
		c.Header(correlationIDHeader, id)

		ctx := log.ContextWithCorrelationID(c.Request.Context(), id)
		ctx = log.ContextWithLogger(ctx, routerService.logger.WithCorrelationID(ctx))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func (routerService *RouterService) accessLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.GetLoggerInstanceFromContext(c.Request.Context(), routerService.logger).Info("HTTP request",
			"method", c.Request.Method,
			"route", c.FullPath(),
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
	}
}

func (routerService *RouterService) securityHeadersMiddleware() gin.HandlerFunc {
	hsts := routerService.options.HSTS
	hstsValue := hsts.headerValue()

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")

		if hsts.Enabled && requestIsHTTPS(c) {
			h.Set("Strict-Transport-Security", hstsValue)
		}
		c.Next()
	}
}

// requestIsHTTPS also honors X-Forwarded-Proto for TLS terminated at a proxy.
func requestIsHTTPS(c *gin.Context) bool {
	if c.Request.TLS != nil {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(c.GetHeader("X-Forwarded-Proto")), "https")
}

func (routerService *RouterService) bodyLimitMiddleware() gin.HandlerFunc {
	limit := routerService.options.MaxBodyBytes

	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			abortWith(c, payloadTooLargeResult())
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

// corsMiddleware lets the landing page origins call the API. Requests from other
// origins still reach the handlers but get no CORS headers, so browsers drop the response.
func (routerService *RouterService) corsMiddleware() gin.HandlerFunc {
	opts := routerService.options

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			c.Next()
			return
		}

		if !opts.originAllowed(origin) {
			routerService.logger.Warn("CORS origin not allowed", "origin", origin)
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Methods", "GET, HEAD, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin, X-Requested-With, "+correlationIDHeader)
		h.Set("Access-Control-Expose-Headers", correlationIDHeader)
		h.Add("Vary", "Origin")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// deadlineMiddleware bounds the store calls of a request through its context. Handlers
// still run on the request goroutine since gin.Context is not safe for concurrent use.
func (routerService *RouterService) deadlineMiddleware() gin.HandlerFunc {
	timeout := routerService.requestTimeout

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			log.GetLoggerInstanceFromContext(ctx, routerService.logger).Warn("Request deadline exceeded", "timeout", timeout.String())
			abortWith(c, requestTimeoutResult())
		}
	}
}

func abortWith(c *gin.Context, result *ServiceResult) {
	c.AbortWithStatusJSON(result.StatusCode, result.ToJSON())
}
