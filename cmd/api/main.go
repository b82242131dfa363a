package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/fitbody/fitbody-backend/internal/config"
	"github.com/fitbody/fitbody-backend/internal/handler"
	"github.com/fitbody/fitbody-backend/internal/middleware"
	"github.com/fitbody/fitbody-backend/internal/repository"
	"github.com/fitbody/fitbody-backend/internal/service"
	"github.com/fitbody/fitbody-backend/pkg/database"
	"github.com/fitbody/fitbody-backend/pkg/email"
	"github.com/fitbody/fitbody-backend/pkg/logger"
	"github.com/fitbody/fitbody-backend/pkg/payment"
	"github.com/fitbody/fitbody-backend/pkg/storage"
	"github.com/fitbody/fitbody-backend/pkg/utils"
	"go.uber.org/zap"
)

func main() {
	// .env is optional outside local development
	_ = godotenv.Load()

	cfg := config.LoadConfig()

	zapLogger, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer zapLogger.Sync()

	db, err := database.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := database.RunMigrations(db); err != nil {
		zapLogger.Fatal("failed to migrate database", zap.Error(err))
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	packageRepo := repository.NewTrainingPackageRepository(db)
	discountRepo := repository.NewDiscountCodeRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	ticketRepo := repository.NewSupportTicketRepository(db)

	// Object storage for package images
	r2Storage, err := storage.NewCloudflareStorage(cfg)
	if err != nil {
		zapLogger.Fatal("failed to initialize R2 storage", zap.Error(err))
	}

	// External services
	emailService := email.NewEmailService(cfg.Resend.APIKey, cfg.Resend.FromAddress, cfg.Resend.FromName, zapLogger)
	stripeGateway := payment.NewStripeGateway(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)

	// Services
	authService := service.NewAuthService(userRepo, emailService, zapLogger, cfg.JWTSecret)
	packageService := service.NewPackageService(packageRepo, r2Storage)
	paymentService := service.NewPaymentService(
		stripeGateway,
		purchaseRepo,
		packageRepo,
		discountRepo,
		emailService,
		zapLogger,
		cfg,
	)
	ticketService := service.NewTicketService(ticketRepo, emailService, zapLogger)

	validator := utils.NewValidator()

	// Handlers
	authHandler := handler.NewAuthHandler(authService, validator)
	packageHandler := handler.NewPackageHandler(packageService, validator)
	paymentHandler := handler.NewPaymentHandler(paymentService, stripeGateway, validator, zapLogger)
	ticketHandler := handler.NewTicketHandler(ticketService, validator)
	bodyFatHandler := handler.NewBodyFatHandler(validator)

	// Router
	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE",
		AllowCredentials: true,
	}))
	app.Use(fiberlogger.New())
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	api := app.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	api.Get("/packages", packageHandler.GetAllPackages)
	api.Get("/packages/:id", packageHandler.GetPackageByID)
	api.Get("/discounts/validate", paymentHandler.ValidateDiscount)
	api.Post("/bodyfat", bodyFatHandler.Calculate)

	// Stripe webhook (public, signature-verified)
	api.Post("/payments/webhook", paymentHandler.HandleStripeWebhook)

	// Confirmation page surface (public: the customer follows the Stripe
	// redirect before any session token is guaranteed)
	api.Get("/payments/checkout-session", paymentHandler.GetCheckoutSessionDetails)
	api.Post("/payments/reconcile", paymentHandler.ReconcilePurchase)
	api.Post("/payments/send-package-email", paymentHandler.SendPackageEmail)

	// Protected routes
	api.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		user := api.Group("/user")
		user.Get("/profile", authHandler.GetProfile)
		user.Put("/profile", authHandler.UpdateProfile)

		payments := api.Group("/payments")
		payments.Post("/checkout", paymentHandler.CreateCheckoutSession)

		api.Get("/purchases", paymentHandler.GetPurchaseHistory)

		tickets := api.Group("/tickets")
		tickets.Post("/", ticketHandler.CreateTicket)
		tickets.Get("/", ticketHandler.GetMyTickets)

		// Admin back-office
		admin := api.Group("/admin", middleware.AdminMiddleware())
		admin.Post("/packages", packageHandler.CreatePackage)
		admin.Put("/packages/:id", packageHandler.UpdatePackage)
		admin.Delete("/packages/:id", packageHandler.DeletePackage)
		admin.Post("/packages/:id/image", packageHandler.UploadPackageImage)
		admin.Get("/purchases", paymentHandler.GetAllPurchases)
		admin.Get("/tickets", ticketHandler.GetAllTickets)
		admin.Put("/tickets/:id", ticketHandler.ReplyToTicket)
	}

	zapLogger.Info("starting server",
		zap.String("port", cfg.Port),
		zap.Bool("auto_reconcile", cfg.AutoReconcileEnabled),
	)

	if err := app.Listen(":" + cfg.Port); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}
