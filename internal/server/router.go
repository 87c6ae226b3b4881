package server

import (
	"github.com/gin-gonic/gin"

	"quire/internal/quire"
)

type RouterConfig struct {
	DocumentHandler *DocumentHandler
	HealthHandler   *HealthHandler
	Logger          quire.Logger
	AllowedOrigins  []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(cfg.Logger))
	r.Use(CORS(cfg.AllowedOrigins))

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	if h := cfg.DocumentHandler; h != nil {
		api.GET("/documents", h.ListDocuments)
		api.POST("/documents", h.CreateDocument)
		api.GET("/documents/:id", h.GetDocument)
		api.PATCH("/documents/:id", h.UpdateDocument)

		api.GET("/documents/:id/text", h.GetText)
		api.PUT("/documents/:id/text", h.PutText)
		api.GET("/documents/:id/html", h.GetHTML)

		api.POST("/documents/:id/blocks", h.AppendBlocks)
		api.PUT("/documents/:id/blocks/:blockID", h.UpdateBlock)
		api.DELETE("/documents/:id/blocks/:blockID", h.DeleteBlock)

		api.GET("/documents/:id/images", h.ListImages)
		api.POST("/documents/:id/images", h.UploadImage)

		api.POST("/generate", h.Generate)
	}

	return r
}
