package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/julianstephens/focusplan/internal/logger"
)

// DefaultOrigins are the local front-end origins allowed by CORS.
var DefaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5173",
}

type RouterConfig struct {
	Handler      *Handler
	AllowOrigins []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(), CORS(cfg.AllowOrigins))

	h := cfg.Handler
	router.GET("/healthcheck", HealthCheck)

	router.POST("/categories", h.CreateCategory)
	router.GET("/categories", h.ListCategories)

	router.POST("/appointments", h.CreateAppointment)
	router.GET("/appointments", h.ListAppointments)
	router.PUT("/appointments/:id", h.UpdateAppointment)
	router.DELETE("/appointments/:id", h.DeleteAppointment)

	router.GET("/tasks", h.ListTasks)
	router.GET("/tasks/:id", h.GetTask)
	router.POST("/tasks/plan", h.PlanTask)

	router.POST("/focus-sessions/:id/complete", h.CompleteFocusSession)
	router.POST("/subtasks/:id/complete", h.CompleteSubtask)

	router.GET("/stats", h.Stats)

	return router
}

func CORS(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		origins = DefaultOrigins
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		fields := []interface{}{
			"method", strings.ToUpper(c.Request.Method),
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}

		switch {
		case status >= 500:
			logger.Error("HTTP request", fields...)
		case status >= 400:
			logger.Warn("HTTP request", fields...)
		default:
			logger.Debug("HTTP request", fields...)
		}
	}
}

func HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
