package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/PunitTak2005/Smart-Academic-Calendar/internal/config"
	"github.com/PunitTak2005/Smart-Academic-Calendar/internal/handler"
	"github.com/PunitTak2005/Smart-Academic-Calendar/internal/middleware"
)

// SetupRouter configures the gin engine: API routes plus the static
// single-page client.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.RequestID())

	// single-page client
	r.Static("/static", "./web/static")
	r.GET("/", func(c *gin.Context) {
		c.File("./web/static/index.html")
	})

	// ====== API ======
	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Smart Academic Calendar API",
			"status":  "ok",
		})
	})

	jwtSecret := cfg.JWT.Secret

	// auth routes (no token required except /me)
	authHandler := handler.NewAuthHandler(db, jwtSecret, cfg.JWT.ExpireHours, cfg.Security.BcryptCost)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/check-unique", authHandler.CheckUnique)

	// everything below requires a valid bearer token
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(jwtSecret, db))

	protected.GET("/auth/me", authHandler.GetMe)
	protected.GET("/users/me", authHandler.GetMe)
	protected.POST("/users/password", handler.ChangePassword(db, cfg.Security.BcryptCost))

	eventHandler := handler.NewEventHandler(db)
	protected.GET("/events", eventHandler.ListEvents)
	protected.GET("/events/mine", eventHandler.MyEvents)
	protected.GET("/events/dashboard", eventHandler.Dashboard)
	protected.POST("/events", eventHandler.CreateEvent)
	protected.PUT("/events/:id", eventHandler.UpdateEvent)
	protected.DELETE("/events/:id", eventHandler.DeleteEvent)
	protected.POST("/events/:id/make-personal", eventHandler.MakePersonal)

	exportHandler := handler.NewExportHandler(db)
	protected.GET("/events/export/csv", exportHandler.ExportCSV)
	protected.GET("/events/export/xlsx", exportHandler.ExportXLSX)
	protected.GET("/events/export/ics", exportHandler.ExportICS)

	// unknown API routes get a JSON 404; anything else falls back to the
	// single-page client so browser-side routes survive reloads
	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "Route " + c.Request.URL.Path + " not found",
			})
			return
		}
		c.File("./web/static/index.html")
	})

	return r
}
