package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/activity"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/auth"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/checkin"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/class"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/config"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/email"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/feedback"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/membership"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/notify"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/payment"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/plan"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/promotion"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/stats"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/trainer"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/upload"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/user"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/verification"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
	email  *email.Service
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service, rdb *redis.Client, gateway payment.Gateway) (*Server, error) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(corsMiddleware())

	activityRepo := activity.NewRepository(db)
	activitySvc := activity.NewService(activityRepo)

	userRepo := user.NewRepository(db)
	planRepo := plan.NewRepository(db)
	membershipRepo := membership.NewRepository(db)
	checkinRepo := checkin.NewRepository(db)
	classRepo := class.NewRepository(db)
	trainerRepo := trainer.NewRepository(db)
	paymentRepo := payment.NewRepository(db)
	notifyRepo := notify.NewRepository(db)
	feedbackRepo := feedback.NewRepository(db)
	promotionRepo := promotion.NewRepository(db)

	codes := verification.NewStore(rdb)

	userSvc := user.NewService(userRepo, codes, emailService, membershipRepo, activitySvc, cfg.JWTSecret)
	membershipSvc := membership.NewService(membershipRepo, planRepo)
	checkinSvc := checkin.NewService(checkinRepo, userRepo, membershipRepo, activitySvc)
	classSvc := class.NewService(classRepo, membershipRepo, userRepo, emailService, activitySvc)
	trainerSvc := trainer.NewService(trainerRepo, userRepo, emailService, activitySvc)
	paymentSvc := payment.NewService(paymentRepo, gateway, planRepo, membershipSvc, activitySvc)

	whatsapp := notify.NewWhatsAppSender(cfg.WhatsAppToken, cfg.WhatsAppPhoneID, cfg.WhatsAppAPIURL)
	notifySvc := notify.NewService(notifyRepo, whatsapp)

	uploadSvc, err := upload.NewService(cfg.UploadDir)
	if err != nil {
		return nil, err
	}

	statsSvc := stats.NewService(db, trainerRepo, paymentRepo)

	userHandler := user.NewHandler(userSvc)
	planHandler := plan.NewHandler(planRepo)
	membershipHandler := membership.NewHandler(membershipSvc)
	checkinHandler := checkin.NewHandler(checkinSvc)
	classHandler := class.NewHandler(classSvc)
	trainerHandler := trainer.NewHandler(trainerSvc)
	paymentHandler := payment.NewHandler(paymentSvc)
	notifyHandler := notify.NewHandler(notifySvc)
	feedbackHandler := feedback.NewHandler(feedbackRepo)
	promotionHandler := promotion.NewHandler(promotionRepo)
	uploadHandler := upload.NewHandler(uploadSvc)
	statsHandler := stats.NewHandler(statsSvc)
	activityHandler := activity.NewHandler(activityRepo)

	authLimiter := RateLimitMiddleware(5, 10)

	public := router.Group("/api")
	{
		public.POST("/send-verification-code", authLimiter, userHandler.SendVerificationCode)
		public.POST("/register-verified", authLimiter, userHandler.RegisterVerified)
		public.POST("/register", authLimiter, userHandler.Register)
		public.POST("/login", authLimiter, userHandler.Login)
		public.POST("/refresh", userHandler.RefreshToken)
		public.POST("/forgot-password", authLimiter, userHandler.ForgotPassword)
		public.POST("/reset-password", authLimiter, userHandler.ResetPassword)

		public.POST("/checkin/verify", checkinHandler.Verify)
		public.GET("/checkin/status/:qrCode", checkinHandler.Status)

		public.GET("/membership-plans", planHandler.ListActive)
		public.GET("/promotions", promotionHandler.ListActive)
		public.GET("/trainers", trainerHandler.List)
		public.GET("/trainers/:trainerID", trainerHandler.Get)
		public.GET("/classes", classHandler.List)
		public.GET("/classes/:classID", classHandler.Get)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/api")
	protected.Use(authMiddleware)
	{
		protected.POST("/logout", userHandler.Logout)
		protected.GET("/me", userHandler.GetMe)
		protected.PUT("/profile", userHandler.UpdateProfile)

		protected.GET("/membership", membershipHandler.GetMine)

		protected.POST("/checkin/generate", checkinHandler.Generate)
		protected.POST("/checkin/checkout", checkinHandler.Checkout)

		protected.POST("/classes/:classID/book", classHandler.Book)
		protected.GET("/class-bookings", classHandler.MyBookings)
		protected.DELETE("/class-bookings/:bookingID", classHandler.Cancel)

		protected.POST("/pt-bookings", trainerHandler.Book)
		protected.GET("/pt-bookings", trainerHandler.MyBookings)
		protected.DELETE("/pt-bookings/:bookingID", trainerHandler.Cancel)
		protected.GET("/pt-packages", trainerHandler.MyPackages)
		protected.POST("/pt-packages/:packageID/attendance", trainerHandler.RecordAttendance)

		protected.POST("/payments/purchase", paymentHandler.Purchase)
		protected.GET("/payments", paymentHandler.MyPayments)

		protected.GET("/notifications", notifyHandler.List)
		protected.GET("/notifications/unread-count", notifyHandler.UnreadCount)
		protected.PUT("/notifications/:notificationID/read", notifyHandler.MarkRead)
		protected.PUT("/notifications/read-all", notifyHandler.MarkAllRead)
		protected.POST("/notifications/subscribe", notifyHandler.Subscribe)
		protected.DELETE("/notifications/subscribe", notifyHandler.Unsubscribe)

		protected.POST("/feedback", feedbackHandler.Submit)
		protected.POST("/upload", uploadHandler.Upload)
	}

	// Admin role is re-read from the database on every request, so a
	// demoted or suspended admin loses access without waiting for
	// their token to expire.
	admin := router.Group("/api/admin")
	admin.Use(authMiddleware, auth.RequireFreshRole(userRepo, user.RoleAdmin, user.RoleOwner))
	{
		admin.GET("/members", userHandler.ListMembers)
		admin.POST("/members", userHandler.CreateMember)
		admin.PUT("/members/:memberID/active", userHandler.SetMemberActive)
		admin.DELETE("/members/:memberID", userHandler.DeleteMember)

		admin.GET("/plans", planHandler.ListAll)
		admin.POST("/plans", planHandler.Create)
		admin.PUT("/plans/:planID", planHandler.Update)

		admin.POST("/memberships", membershipHandler.Assign)
		admin.POST("/memberships/:membershipID/cancel", membershipHandler.Cancel)
		admin.GET("/memberships/expiring", membershipHandler.ListExpiringSoon)

		admin.GET("/checkin/preview/:qrCode", checkinHandler.Preview)
		admin.POST("/checkin/approve", checkinHandler.Approve)
		admin.GET("/checkins", checkinHandler.ListRecent)

		admin.POST("/classes", classHandler.Create)
		admin.PUT("/classes/:classID", classHandler.Update)
		admin.GET("/classes/:classID/bookings", classHandler.Roster)
		admin.PUT("/class-bookings/:bookingID/attended", classHandler.MarkAttended)

		admin.POST("/trainers", trainerHandler.Create)
		admin.PUT("/trainers/:trainerID", trainerHandler.Update)
		admin.GET("/pt-bookings", trainerHandler.ListBookings)
		admin.PUT("/pt-bookings/:bookingID/confirm", trainerHandler.ConfirmBooking)
		admin.PUT("/pt-bookings/:bookingID/complete", trainerHandler.CompleteBooking)
		admin.POST("/pt-packages", trainerHandler.CreatePackage)
		admin.GET("/pt-attendance", trainerHandler.ListPendingAttendance)
		admin.PUT("/pt-attendance/:attendanceID/confirm", trainerHandler.ConfirmAttendance)
		admin.PUT("/pt-attendance/:attendanceID/reject", trainerHandler.RejectAttendance)

		admin.GET("/payments", paymentHandler.ListAll)
		admin.POST("/payments/:paymentID/refund", paymentHandler.Refund)

		admin.GET("/promotions", promotionHandler.ListAll)
		admin.POST("/promotions", promotionHandler.Create)
		admin.PUT("/promotions/:promotionID", promotionHandler.Update)
		admin.DELETE("/promotions/:promotionID", promotionHandler.Delete)

		admin.POST("/notifications/whatsapp", notifyHandler.SendWhatsApp)

		admin.GET("/feedback", feedbackHandler.List)
		admin.GET("/activity", activityHandler.List)
		admin.GET("/stats", statsHandler.Dashboard)
	}

	router.GET("/health", Health)
	router.GET("/api/health", Health)
	router.GET("/metrics", Metrics())
	router.GET("/test-email", TestEmail(emailService))
	router.Static("/uploads", cfg.UploadDir)
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		email:  emailService,
	}, nil
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

// Shutdown stops accepting new connections and waits for in-flight
// requests, up to the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Router exposes the engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
