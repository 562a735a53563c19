package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oratioapp/oratio-backend/internal/common"
	"github.com/oratioapp/oratio-backend/internal/httpapi/handlers"
	"github.com/oratioapp/oratio-backend/internal/httpapi/middleware"
)

func NewRouter(h *handlers.Handler) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	r.Use(middleware.RequestID())

	r.GET("/ping", h.Ping)

	api := r.Group("/api")

	// users
	api.POST("/users", h.CreateUser)
	api.POST("/login", h.Login)

	authGroup := api.Group("/")
	authGroup.Use(middleware.AuthRequired(h.Cfg.JWTSecret))

	authGroup.GET("/me", h.Me)

	// conversion proxy
	authGroup.POST("/convert", h.ConvertPresentation)

	// presentations
	authGroup.POST("/presentations", h.CreatePresentation)
	authGroup.GET("/presentations", h.ListPresentations)
	authGroup.GET("/presentations/:presentation_id", h.GetPresentation)
	authGroup.DELETE("/presentations/:presentation_id", h.DeletePresentation)

	// slides
	authGroup.PATCH("/slides", h.UpdateSlide)

	// narration generation
	authGroup.POST("/generate-script", h.GenerateScript)
	authGroup.POST("/generate-script/async", h.GenerateScriptAsync)
	authGroup.GET("/jobs/:job_id", h.GetJob)

	return r
}
