// Package server exposes the bot over HTTP: liveness, Prometheus metrics and
// the Telegram webhook endpoint.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const IndexText = "Бот работает! 🚂"

// UpdateHandler consumes one Telegram update.
type UpdateHandler interface {
	HandleUpdate(upd tgbotapi.Update)
}

// StatsFunc reports registered clients and clients with an open order.
type StatsFunc func() (registered, withOrders int)

type Server struct {
	Router *gin.Engine
	log    *logrus.Logger
	srv    *http.Server
}

// New builds the router. The webhook route is only mounted when webhookPath
// is non-empty.
func New(addr, webhookPath string, h UpdateHandler, stats StatsFunc, log *logrus.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	s := &Server{
		Router: router,
		log:    log,
		srv:    &http.Server{Addr: addr, Handler: router, ReadHeaderTimeout: 10 * time.Second},
	}

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, IndexText)
	})
	router.GET("/healthz", func(c *gin.Context) {
		registered, withOrders := stats()
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"registered":  registered,
			"open_orders": withOrders,
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if webhookPath != "" {
		router.POST(webhookPath, webhook(h, log))
	}
	return s
}

// webhook accepts Telegram JSON updates only.
func webhook(h UpdateHandler, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.HasPrefix(c.ContentType(), "application/json") {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		var upd tgbotapi.Update
		if err := c.ShouldBindJSON(&upd); err != nil {
			log.WithError(err).Warn("Некорректный webhook запрос")
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		h.HandleUpdate(upd)
		c.String(http.StatusOK, "")
	}
}

func requestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		}).Debug("http")
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.srv.Addr).Info("🌐 HTTP сервер запущен")
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}
