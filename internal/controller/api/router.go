package api

import (
	"net/http"
	"time"

	"github.com/Freeeeeet/tutorhub/internal/payment"
	"github.com/Freeeeeet/tutorhub/internal/realtime"
	"github.com/Freeeeeet/tutorhub/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Services struct {
	Tutors       *service.TutorService
	Availability *service.AvailabilityService
	Bookings     *service.BookingService
	Payments     *service.PaymentService
	Reviews      *service.ReviewService
	Hub          *realtime.Hub
}

type RouterConfig struct {
	JWTSecret   string
	CORSOrigins []string
	Production  bool
}

// NewRouter собирает gin с middleware и всеми маршрутами API
func NewRouter(cfg RouterConfig, svc Services, logger *zap.Logger) *gin.Engine {
	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	registerValidators()

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger), corsMiddleware(cfg.CORSOrigins))

	tutors := NewTutorHandler(svc.Tutors, svc.Reviews)
	availability := NewAvailabilityHandler(svc.Availability, svc.Bookings)
	bookings := NewBookingHandler(svc.Bookings, svc.Tutors, svc.Payments)
	payments := NewPaymentHandler(svc.Payments, bookings)
	reviews := NewReviewHandler(svc.Reviews, svc.Bookings)
	live := NewRealtimeHandler(svc.Hub, cfg.CORSOrigins, logger)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := AuthMiddleware(cfg.JWTSecret)

	public := router.Group("/api")
	public.GET("/tutors/:id", tutors.GetTutor)
	public.GET("/tutors/:id/availability", availability.ListWindows)
	public.GET("/tutors/:id/slots", availability.Slots)
	public.GET("/tutors/:id/reviews", tutors.ListReviews)
	public.POST("/webhooks/razorpay", payments.Webhook(payment.ProviderRazorpay, "X-Razorpay-Signature"))
	public.POST("/webhooks/midtrans", payments.Webhook(payment.ProviderMidtrans, ""))

	protected := router.Group("/api")
	protected.Use(auth)
	protected.PUT("/tutors/me", tutors.SaveProfile)
	protected.POST("/availability", availability.AddWindow)
	protected.DELETE("/availability/:id", availability.DeleteWindow)
	protected.POST("/bookings", bookings.CreateBooking)
	protected.GET("/bookings/me", bookings.MyBookings)
	protected.GET("/bookings/:id", bookings.GetBooking)
	protected.POST("/bookings/:id/confirm", bookings.ConfirmBooking)
	protected.POST("/bookings/:id/cancel", bookings.CancelBooking)
	protected.POST("/bookings/:id/reschedule", bookings.RescheduleBooking)
	protected.GET("/tutor/bookings", bookings.TutorBookings)
	protected.POST("/payments/checkout", payments.Checkout)
	protected.POST("/payments/capture", payments.Capture)
	protected.POST("/reviews", reviews.SubmitReview)

	router.GET("/ws", auth, live.Subscribe)

	return router
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = origins
	}

	return cors.New(cfg)
}
