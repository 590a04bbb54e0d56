package main

import (
	"log"
	"strings"
	"time"

	"wsuconnect/internal/config"
	"wsuconnect/internal/entity"
	"wsuconnect/internal/handler"
	"wsuconnect/internal/middleware"
	"wsuconnect/internal/repository"
	"wsuconnect/internal/service"
	"wsuconnect/pkg/database"
	"wsuconnect/pkg/mailer"
	"wsuconnect/pkg/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db := database.Connect()
	if err := migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	redisClient := database.ConnectRedis()

	mail := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName)

	imageStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Printf("cloudinary not configured, avatar uploads disabled: %v", err)
		imageStorage = nil
	}

	profileRepo := repository.NewProfileRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	statusRepo := repository.NewLecturerStatusRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)

	notificationService := service.NewNotificationService(notificationRepo, redisClient)
	authService := service.NewAuthService(profileRepo, redisClient, mail, cfg.JWTSecret, cfg.JWTTTL, cfg.ResetTokenTTL, cfg.AppBaseURL)
	directoryService := service.NewDirectoryService(profileRepo, statusRepo)
	appointmentService := service.NewAppointmentService(appointmentRepo, profileRepo, notificationService, redisClient, cfg.RateLimitBooking)
	messageService := service.NewMessageService(messageRepo, profileRepo, notificationService, redisClient, cfg.RateLimitMessage)
	profileService := service.NewProfileService(profileRepo, statusRepo, imageStorage)
	availabilityService := service.NewAvailabilityService(availabilityRepo)

	authHandler := handler.NewAuthHandler(authService)
	lecturerHandler := handler.NewLecturerHandler(directoryService)
	appointmentHandler := handler.NewAppointmentHandler(appointmentService, redisClient)
	messageHandler := handler.NewMessageHandler(messageService, redisClient)
	notificationHandler := handler.NewNotificationHandler(notificationService, redisClient)
	profileHandler := handler.NewProfileHandler(profileService)
	availabilityHandler := handler.NewAvailabilityHandler(availabilityService)

	authMiddleware := middleware.NewAuthMiddleware(profileRepo, redisClient, cfg.JWTSecret)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(corsMiddleware(cfg.AllowedOrigins))

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/signup", authHandler.SignUp)
		auth.POST("/login", authHandler.Login)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
	}

	api.Use(authMiddleware.RequireAuth())
	{
		api.POST("/auth/logout", authHandler.Logout)
		api.GET("/auth/me", authHandler.Me)

		api.GET("/lecturers", lecturerHandler.List)

		api.GET("/appointments", appointmentHandler.List)
		api.PUT("/appointments/:id/reschedule", appointmentHandler.Reschedule)
		api.GET("/appointments/ws", appointmentHandler.HandleWebSocket)

		api.GET("/messages/conversations", messageHandler.Conversations)
		api.GET("/messages/thread/:userID", messageHandler.Thread)
		api.POST("/messages", messageHandler.Send)
		api.GET("/messages/ws", messageHandler.HandleWebSocket)

		api.GET("/notifications", notificationHandler.List)
		api.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		api.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		api.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		api.GET("/notifications/ws", notificationHandler.HandleWebSocket)

		api.GET("/profile", profileHandler.Get)
		api.GET("/profile/status", profileHandler.Status)

		student := api.Group("")
		student.Use(authMiddleware.RequireRole(entity.RoleStudent))
		{
			student.POST("/appointments", appointmentHandler.Book)
			student.PUT("/appointments/:id/cancel", appointmentHandler.Cancel)
		}

		lecturer := api.Group("")
		lecturer.Use(authMiddleware.RequireRole(entity.RoleLecturer))
		{
			lecturer.PUT("/appointments/:id/confirm", appointmentHandler.Confirm)
			lecturer.PUT("/appointments/:id/decline", appointmentHandler.Decline)

			lecturer.PUT("/profile", profileHandler.Update)

			lecturer.GET("/availability", availabilityHandler.List)
			lecturer.POST("/availability", availabilityHandler.Create)
			lecturer.PUT("/availability/:id", availabilityHandler.Update)
			lecturer.DELETE("/availability/:id", availabilityHandler.Delete)
		}
	}

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Profile{},
		&entity.LecturerStatus{},
		&entity.AvailabilitySlot{},
		&entity.Appointment{},
		&entity.Message{},
		&entity.Notification{},
	)
}

func corsMiddleware(allowedOrigins string) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if allowedOrigins == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = strings.Split(allowedOrigins, ",")
	}

	return cors.New(corsConfig)
}
