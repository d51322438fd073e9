package handlers

import (
	"github.com/gin-gonic/gin"

	"messenger-service/internal/middleware"
)

const (
	readWriteMethods = "GET, POST, OPTIONS"
	writeOnlyMethods = "POST, OPTIONS"
)

// Handlers groups the endpoint handlers served by the router.
type Handlers struct {
	Auth    *AuthHandler
	Friends *FriendsHandler
	Chats   *ChatsHandler
	Files   *FilesHandler
	Health  gin.HandlerFunc
}

// RegisterRoutes mounts every endpoint. Unsupported verbs on a known path get 405.
func RegisterRoutes(router *gin.Engine, h Handlers) {
	router.HandleMethodNotAllowed = true
	router.NoMethod(MethodNotAllowed)

	preflightOnly := func(c *gin.Context) {}

	auth := router.Group("/auth", middleware.Preflight(readWriteMethods))
	auth.OPTIONS("", preflightOnly)
	auth.POST("", h.Auth.Post)

	friends := router.Group("/friends", middleware.Preflight(readWriteMethods))
	friends.OPTIONS("", preflightOnly)
	friends.GET("", h.Friends.Get)
	friends.POST("", h.Friends.Post)

	chats := router.Group("/chats", middleware.Preflight(readWriteMethods))
	chats.OPTIONS("", preflightOnly)
	chats.GET("", h.Chats.Get)
	chats.POST("", h.Chats.Post)

	files := router.Group("/files", middleware.Preflight(writeOnlyMethods))
	files.OPTIONS("", preflightOnly)
	files.POST("", h.Files.Post)

	if h.Health != nil {
		router.GET("/health", h.Health)
	}
}
