package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pawfectpets/pawfect-api/internal/audit"
	"github.com/pawfectpets/pawfect-api/internal/config"
	"github.com/pawfectpets/pawfect-api/internal/handlers"
	infraRepo "github.com/pawfectpets/pawfect-api/internal/infra/repository"
	"github.com/pawfectpets/pawfect-api/internal/llm"
	"github.com/pawfectpets/pawfect-api/internal/media"
	"github.com/pawfectpets/pawfect-api/internal/metrics"
	"github.com/pawfectpets/pawfect-api/internal/middleware"
	"github.com/pawfectpets/pawfect-api/internal/payment"
	"github.com/pawfectpets/pawfect-api/internal/timezone"
	ucBooking "github.com/pawfectpets/pawfect-api/internal/usecase/booking"
	"github.com/pawfectpets/pawfect-api/internal/usecase/guide"
	ucOrder "github.com/pawfectpets/pawfect-api/internal/usecase/order"
	"github.com/pawfectpets/pawfect-api/internal/validators"
)

// Deps are the collaborators built once in main. Nil optional fields
// disable the feature that needs them.
type Deps struct {
	DB      *gorm.DB
	Config  *config.Config
	Log     *zap.Logger
	Audit   audit.Sink
	Metrics *metrics.Metrics

	Storage  media.Storage
	Payments ucOrder.PaymentGateway
	LLM      guide.Completer
	Redis    *redis.Client

	Clock ucBooking.Clock
}

// Optional builds the external integrations that are configured.
func Optional(cfg *config.Config, log *zap.Logger) (media.Storage, ucOrder.PaymentGateway, guide.Completer, *redis.Client) {
	var (
		storage   media.Storage
		payments  ucOrder.PaymentGateway
		completer guide.Completer
		rdb       *redis.Client
	)

	if cfg.StorageEnabled() {
		storage = media.NewS3Storage(media.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
	}

	if cfg.PaymentsEnabled() {
		mp, err := payment.NewMercadoPago(payment.Options{
			AccessToken:     cfg.MPAccessToken,
			NotificationURL: cfg.MPNotificationURL,
			Currency:        cfg.Currency,
			BackURL:         cfg.ClientURL,
		})
		if err != nil {
			log.Warn("payments disabled", zap.Error(err))
		} else {
			payments = mp
		}
	}

	if cfg.OpenAIKey != "" {
		completer = llm.NewClient(llm.Config{
			APIKey:  cfg.OpenAIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
		})
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Warn("invalid REDIS_URL, using in-process rate limiting", zap.Error(err))
		} else {
			rdb = redis.NewClient(opts)
		}
	}

	return storage, payments, completer, rdb
}

func limiter(d Deps, prefix string) middleware.Limiter {
	perMinute := d.Config.RateLimitPerMinute
	if perMinute <= 0 {
		perMinute = 20
	}
	if d.Redis != nil {
		return middleware.NewRedisLimiter(d.Redis, prefix, perMinute, time.Minute)
	}
	return middleware.NewLocalLimiter(perMinute)
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	validators.Register()

	if d.Clock == nil {
		d.Clock = timezone.Now
	}

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(d.Log),
		middleware.Logger(d.Log),
		d.Metrics.Middleware(),
		middleware.CORSMiddleware(d.Config.ClientURL),
	)

	// ======================================================
	// INFRA
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(d.DB)
	orderRepo := infraRepo.NewOrderGormRepository(d.DB)

	// ======================================================
	// USE CASES
	// ======================================================
	bookingHandler := handlers.NewBookingHandler(
		ucBooking.NewCreateBooking(bookingRepo, d.Audit, d.Clock),
		ucBooking.NewRescheduleBooking(bookingRepo, d.Audit, d.Clock),
		ucBooking.NewCancelBooking(bookingRepo, d.Audit),
		ucBooking.NewListBookings(bookingRepo),
		ucBooking.NewGetBooking(bookingRepo),
		ucBooking.NewSetBookingStatus(bookingRepo, d.Audit),
		d.Config.Timezone,
		d.Metrics,
	)

	orderHandler := handlers.NewOrderHandler(
		ucOrder.NewPlaceOrder(orderRepo, d.Audit),
		ucOrder.NewListOrders(orderRepo),
		ucOrder.NewGetOrder(orderRepo),
		ucOrder.NewStartCheckout(orderRepo, d.Payments),
		d.Metrics,
	)

	paymentHandler := handlers.NewPaymentHandler(
		ucOrder.NewSettlePayment(orderRepo, d.Payments, d.Audit),
	)

	guideHandler := handlers.NewGuideHandler(guide.NewGenerateGuide(d.LLM), d.Metrics)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.DB, d.Config)
	productHandler := handlers.NewProductHandler(d.DB, d.Audit, d.Storage)
	serviceHandler := handlers.NewServiceHandler(d.DB, d.Audit)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)
	healthHandler := handlers.NewHealthHandler(d.DB)

	auth := middleware.AuthMiddleware(d.Config, d.DB)
	admin := middleware.RequireAdmin()

	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", d.Metrics.Handler())

	// ======================================================
	// API
	// ======================================================
	api := r.Group("/api")
	{
		api.GET("/health", healthHandler.Health)

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", middleware.RateLimit(limiter(d, "login"), d.Log), authHandler.Login)
		api.GET("/auth/me", auth, authHandler.Me)

		// ------------------------------
		// CATALOG
		// ------------------------------
		api.GET("/products", productHandler.List)
		api.GET("/products/:id", productHandler.Get)
		api.POST("/products", auth, admin, productHandler.Create)
		api.PUT("/products/:id", auth, admin, productHandler.Update)
		api.DELETE("/products/:id", auth, admin, productHandler.Delete)
		api.POST("/products/:id/image", auth, admin, productHandler.UploadImage)

		api.GET("/services", serviceHandler.List)
		api.GET("/services/:id", serviceHandler.Get)
		api.POST("/services", auth, admin, serviceHandler.Create)
		api.PUT("/services/:id", auth, admin, serviceHandler.Update)
		api.DELETE("/services/:id", auth, admin, serviceHandler.Delete)

		// ------------------------------
		// BOOKINGS
		// ------------------------------
		bookings := api.Group("/bookings", auth)
		{
			bookings.GET("", bookingHandler.List)
			bookings.GET("/:id", bookingHandler.Get)
			bookings.POST("", bookingHandler.Create)
			bookings.PUT("/:id", bookingHandler.Update)
			bookings.DELETE("/:id", bookingHandler.Cancel)
		}

		// ------------------------------
		// ORDERS
		// ------------------------------
		orders := api.Group("/orders", auth)
		{
			orders.GET("", orderHandler.List)
			orders.GET("/:id", orderHandler.Get)
			orders.POST("", orderHandler.Create)
			orders.POST("/:id/checkout", orderHandler.Checkout)
		}

		api.POST("/payments/webhook", paymentHandler.Webhook)

		// ------------------------------
		// TRAINING GUIDE
		// ------------------------------
		api.POST("/training-guide", middleware.RateLimit(limiter(d, "guide"), d.Log), guideHandler.Generate)

		// ------------------------------
		// ADMIN
		// ------------------------------
		adminAPI := api.Group("/admin", auth, admin)
		{
			adminAPI.GET("/audit-logs", auditLogsHandler.List)
			adminAPI.PUT("/bookings/:id/status", bookingHandler.SetStatus)
		}
	}
}
