// Package server wires the HTTP API: routing, middleware, and the
// translation between JSON requests and the service layer.
package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"contactManagement/internal/config"
	"contactManagement/internal/logger"
	"contactManagement/internal/service"
)

type Server struct {
	cfg      *config.Config
	users    *service.UserService
	contacts *service.ContactService
	log      *logger.Logger
}

func New(cfg *config.Config, users *service.UserService, contacts *service.ContactService, log *logger.Logger) *Server {
	return &Server{
		cfg:      cfg,
		users:    users,
		contacts: contacts,
		log:      log.With("component", "server"),
	}
}

// Router builds the gin engine with all routes attached.
func (s *Server) Router() *gin.Engine {
	if s.cfg.Log.Mode != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")

	api.GET("/healthcheck", s.handleHealthcheck)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", s.handleRegister)
		authGroup.POST("/login", s.handleLogin)
	}

	me := api.Group("/me", s.requireAuth())
	{
		me.GET("", s.handleGetMe)
		me.PATCH("/password", s.handleChangePassword)
	}

	users := api.Group("/users", s.requireAuth())
	{
		users.GET("", s.handleListUsers)
		users.POST("", s.handleCreateUser)
		users.GET("/:id", s.handleGetUser)
		users.PATCH("/:id", s.handleUpdateUser)
		users.DELETE("/:id", s.handleDeleteUser)
	}

	contacts := api.Group("/contacts", s.requireAuth())
	{
		contacts.GET("", s.handleListContacts)
		contacts.POST("", s.handleCreateContact)
		contacts.GET("/count", s.handleCountContacts)
		contacts.GET("/birthdays", s.handleUpcomingBirthdays)
		contacts.GET("/:id", s.handleGetContact)
		contacts.PUT("/:id", s.handleOverwriteContact)
		contacts.PATCH("/:id", s.handleUpdateContact)
		contacts.DELETE("/:id", s.handleDeleteContact)
	}

	return r
}

func (s *Server) handleHealthcheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
