package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"trainer-backend/controllers"
	"trainer-backend/middleware"
	"trainer-backend/models"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter รับ Controller Instances เข้ามาเพื่อกำหนด Route
func SetupRouter(
	db *gorm.DB,
	logger *zap.Logger,
	qc *controllers.QRCodeController,
	sc *controllers.SessionController,
	vc *controllers.VolumeController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", controllers.Login)
		}

		authed := api.Group("")
		authed.Use(middleware.AuthRequired(db))
		{
			qrCodes := authed.Group("/qr-codes")
			{
				qrCodes.GET("/me", qc.GetMyQRCode)
				qrCodes.POST("/scan",
					middleware.RequireAnyRole(models.RoleTrainer, models.RoleAdmin),
					qc.ScanQRCode)
			}

			sessions := authed.Group("/sessions")
			{
				sessions.POST("/track", sc.TrackSession)

				// ต้องอยู่ก่อน /:id
				sessions.GET("/trainer/:id", sc.GetTrainerSessions)

				sessions.GET("",
					middleware.RequireAnyRole(models.RoleAdmin),
					sc.GetSessions)
				sessions.GET("/:id", sc.GetSessionByID)
				sessions.DELETE("/:id",
					middleware.RequireAnyRole(models.RoleAdmin),
					sc.DeleteSession)
			}

			volumes := authed.Group("/volumes")
			{
				volumes.GET("", vc.GetVolumes)
				volumes.POST("",
					middleware.RequireAnyRole(models.RoleTrainer, models.RoleAdmin),
					vc.CreateVolume)

				// convenience filter ต้องอยู่ก่อน /:id
				volumes.GET("/period/:year/:month", vc.GetVolumesByPeriod)

				volumes.GET("/:id", vc.GetVolumeByID)
				volumes.PUT("/:id", vc.UpdateVolume)
				volumes.DELETE("/:id", vc.DeleteVolume)

				volumes.POST("/:id/submit", vc.SubmitVolume)
				volumes.POST("/:id/approve", vc.ApproveVolume)
				volumes.POST("/:id/reject", vc.RejectVolume)
				volumes.POST("/:id/reopen", vc.ReopenVolume)
			}
		}
	}

	return r
}
