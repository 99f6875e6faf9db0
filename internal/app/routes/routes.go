package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	appAuth "github.com/ucsb-cs156/crudapi/internal/app/auth"
	"github.com/ucsb-cs156/crudapi/internal/app/controllers"
	"github.com/ucsb-cs156/crudapi/internal/app/models"
	"github.com/ucsb-cs156/crudapi/internal/middleware"
	"github.com/ucsb-cs156/crudapi/internal/pkg/metrics"
)

// Controllers groups the controllers served under /api
type Controllers struct {
	Auth     *controllers.AuthController
	Books    *controllers.CrudController[models.Book]
	Movies   *controllers.CrudController[models.Movie]
	Students *controllers.CrudController[models.Student]
	Vehicles *controllers.CrudController[models.Vehicle]
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, ctrls *Controllers, authMiddleware *middleware.AuthMiddleware) {
	api := router.Group("/api")
	api.Use(authMiddleware.Authenticate())

	auth := api.Group("/auth")
	{
		auth.POST("/login", ctrls.Auth.Login)
	}
	api.GET("/currentUser", authMiddleware.Require(appAuth.OpGet), ctrls.Auth.CurrentUser)

	RegisterCrud(api, ctrls.Books, authMiddleware)
	RegisterCrud(api, ctrls.Movies, authMiddleware)
	RegisterCrud(api, ctrls.Students, authMiddleware)
	RegisterCrud(api, ctrls.Vehicles, authMiddleware)
}

// RegisterCrud mounts the five CRUD routes of one entity under /api/{route}.
// The authorization gate runs before every handler.
func RegisterCrud[T any](api *gin.RouterGroup, c *controllers.CrudController[T], authMiddleware *middleware.AuthMiddleware) {
	group := api.Group("/" + c.Route())
	{
		group.GET("/all", authMiddleware.Require(appAuth.OpList), c.List)
		group.GET("", authMiddleware.Require(appAuth.OpGet), c.Get)
		group.POST("/post", authMiddleware.Require(appAuth.OpCreate), c.Create)
		group.PUT("", authMiddleware.Require(appAuth.OpUpdate), c.Update)
		group.DELETE("", authMiddleware.Require(appAuth.OpDelete), c.Delete)
	}
}

// SetupHealth exposes /health, reporting the storage engine status
func SetupHealth(router *gin.Engine, ping func(ctx context.Context) error) {
	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// SetupMetrics exposes the Prometheus registry at path
func SetupMetrics(router *gin.Engine, path string, m *metrics.Metrics) {
	router.GET(path, gin.WrapH(m.Handler()))
}
