package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"solve_litigation_go/config"
	"solve_litigation_go/db"
	"solve_litigation_go/handlers"
	"solve_litigation_go/logger"
	"solve_litigation_go/middleware"
	"solve_litigation_go/models"
	"solve_litigation_go/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if err := logger.Init(cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Log.Sync()

	// Initialize database
	if err := db.Initialize(db.Options{
		Path:        cfg.DBPath,
		TursoURL:    cfg.TursoDatabaseURL,
		TursoToken:  cfg.TursoAuthToken,
		Environment: cfg.Environment,
	}); err != nil {
		logger.Log.Fatal("Failed to initialize database", "error", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		logger.Log.Fatal("Failed to run migrations", "error", err)
	}

	if err := services.SeedAdminFromEnv(db.DB, cfg); err != nil {
		logger.Log.Error("Failed to seed admin account", "error", err)
	}

	services.InitializeStorage(cfg)
	services.InitializeStatistics(db.DB)
	services.InitSecurityMonitor()

	e := newServer(cfg)

	go func() {
		logger.Log.Info("Server starting", "port", cfg.ServerPort, "environment", cfg.Environment)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Log.Error("Server shutdown failed", "error", err)
	}
	logger.Log.Info("Server stopped")
}

func newServer(cfg *config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echomiddleware.BodyLimit("15M"))
	e.Use(middleware.APIRateLimiter.Middleware())

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(middleware.ContextKeyConfig, cfg)
			return next(c)
		}
	})

	e.GET("/health", handlers.HealthHandler)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	registerRoutes(e.Group("/api/solve_litigation"), cfg)
	return e
}

func registerRoutes(api *echo.Group, cfg *config.Config) {
	requireAuth := middleware.RequireAuth(cfg.SecretKey)
	optionalAuth := middleware.OptionalAuth(cfg.SecretKey)
	staff := middleware.RequireStaff()
	admin := middleware.RequireAdmin()

	auth := api.Group("/auth")
	{
		auth.POST("/register", handlers.RegisterHandler, middleware.PublicFormRateLimiter.Middleware())
		auth.POST("/login", handlers.LoginHandler, middleware.LoginRateLimiter.Middleware())
		auth.GET("/check", handlers.CheckAuthHandler, requireAuth)
		auth.GET("/user-details/:userId", handlers.UserDetailsHandler, requireAuth)
		auth.PUT("/update-details/:userId", handlers.UpdateDetailsHandler, requireAuth)
		auth.POST("/create-staff", handlers.CreateStaffHandler, requireAuth, admin)
	}

	verification := api.Group("/verification")
	{
		verification.POST("/verify-email/:token", handlers.VerifyEmailHandler)
		verification.POST("/forgot-password", handlers.ForgotPasswordHandler, middleware.PasswordResetRateLimiter.Middleware())
		verification.POST("/reset-password/:token", handlers.ResetPasswordHandler, middleware.PasswordResetRateLimiter.Middleware())
	}

	citation := api.Group("/citation", requireAuth)
	{
		citation.POST("/upload-citation", handlers.UploadCitationHandler, staff)
		citation.PUT("/update-citation/:id", handlers.UpdateRecordHandler, staff)
		citation.DELETE("/delete-citation/:id", handlers.DeleteRecordHandler, admin)
		citation.PUT("/approve-citation/:id", handlers.ApproveRecordHandler, admin)
		citation.GET("/pending-citations", handlers.PendingRecordsHandler, staff)
		citation.GET("/approved-citations", handlers.ApprovedRecordsHandler, staff)
		citation.GET("/citation/:id", handlers.GetRecordHandler)
		citation.GET("/citation/:id/pdf", handlers.RecordPDFHandler)
		citation.GET("/citation/:id/history", handlers.RecordHistoryHandler, admin)
		citation.GET("/search-citations", handlers.SearchRecordsHandler)
		citation.GET("/search-by-date/:year/:month/:day", handlers.SearchByDateHandler)
		citation.GET("/last-10-citations", handlers.LatestRecordsHandler)
		citation.GET("/last-10-citations/:pageNumber", handlers.LatestRecordsHandler)
		citation.POST("/get-laws-by-apellateType", handlers.LawsByApellateTypeHandler)
		citation.POST("/get-pointOfLaw-by-law", handlers.PointsOfLawByLawHandler)
		citation.POST("/get-citations-by-filter", handlers.CitationsByFilterHandler)
		citation.POST("/citation-pdf", handlers.CitationPDFHandler)
		citation.GET("/export", handlers.ExportRecordsHandler, admin)
		citation.POST("/import", handlers.ImportCitationsHandler, admin)
	}

	act := api.Group("/act", requireAuth)
	{
		act.POST("/upload-act", handlers.UploadActHandler, admin)
		act.PUT("/update-act/:id", handlers.UpdateRecordHandler, staff)
		act.DELETE("/delete-act/:id", handlers.DeleteRecordHandler, admin)
		act.PUT("/approve-act/:id", handlers.ApproveRecordHandler, admin)
		act.GET("/act/:id", handlers.GetRecordHandler)
	}

	filter := api.Group("/filter", requireAuth, staff)
	{
		filter.GET("/get-highCourt", handlers.HighCourtsHandler)
		filter.GET("/get-tribunal", handlers.TribunalsHandler)
		filter.GET("/get-year/:court", handlers.CourtYearsHandler)
		filter.GET("/get-months/:court/:year", handlers.CourtMonthsHandler)
		filter.GET("/get-days/:court/:year/:month", handlers.CourtDaysHandler)
		filter.GET("/get-citations/:court/:year/:month/:day", handlers.CourtCitationsHandler)
	}

	contents := api.Group("/contents", requireAuth)
	{
		contents.GET("/statistics", handlers.StatisticsHandler, staff)
		contents.GET("/security-alerts", handlers.SecurityAlertsHandler, admin)
		contents.GET("/audit-logs", handlers.AuditLogsHandler, admin)

		catalogs := []struct {
			kind, add, list, update, remove string
		}{
			{models.CatalogKindPointOfLaw, "/add-pol", "/pol-list", "/update-pol", "/delete-pols"},
			{models.CatalogKindLaw, "/add-law", "/law-list", "/update-law", "/delete-laws"},
			{models.CatalogKindCourt, "/add-courts", "/court-list", "/update-court", "/delete-court"},
			{models.CatalogKindApellateType, "/add-apellate", "/apellate-list", "/update-apellate", "/delete-apellate"},
		}
		for _, cat := range catalogs {
			contents.POST(cat.add, handlers.AddCatalogEntryHandler(cat.kind), admin)
			contents.GET(cat.list, handlers.ListCatalogHandler(cat.kind))
			contents.PUT(cat.update, handlers.RenameCatalogEntryHandler(cat.kind), admin)
			contents.DELETE(cat.remove, handlers.DeleteCatalogEntriesHandler(cat.kind), admin)
		}
	}

	contact := api.Group("/contact")
	{
		contact.POST("/contact", handlers.SubmitContactHandler, middleware.PublicFormRateLimiter.Middleware())
		contact.GET("/all-forms", handlers.ContactFormsHandler, requireAuth, admin)
	}

	legalAdvice := api.Group("/legal-advice", requireAuth, admin)
	{
		legalAdvice.POST("/create-lawyer", handlers.CreateLawyerHandler)
		legalAdvice.GET("/lawyer-list", handlers.LawyerListHandler)
		legalAdvice.GET("/lawyer/:id", handlers.LawyerHandler)
	}

	adviceRequests := api.Group("/legal-advice-requests", requireAuth)
	{
		adviceRequests.POST("", handlers.CreateAdviceRequestHandler)
		adviceRequests.GET("", handlers.AdviceRequestsHandler, admin)
		adviceRequests.GET("/my-requests", handlers.MyAdviceRequestsHandler)
		adviceRequests.GET("/case-details/:id", handlers.AdviceCaseDetailsHandler)
		adviceRequests.POST("/give-feedback/:id", handlers.AdviceFeedbackHandler, admin)
		adviceRequests.GET("/:id", handlers.AdviceRequestHandler)
		adviceRequests.GET("/:id/attachments", handlers.AdviceAttachmentHandler)
		adviceRequests.DELETE("/:id", handlers.DeleteAdviceRequestHandler, admin)
	}

	notification := api.Group("/notification")
	{
		notification.GET("", handlers.GetNotificationsHandler, optionalAuth)
		notification.POST("", handlers.CreateNotificationHandler, requireAuth, admin)
		notification.DELETE("/:id", handlers.DeleteNotificationHandler, requireAuth, admin)
	}

	studyMaterial := api.Group("/study-material", requireAuth)
	{
		studyMaterial.POST("/add-topic", handlers.AddTopicHandler, admin)
		studyMaterial.GET("/topics", handlers.TopicsHandler)
		studyMaterial.PUT("/topics/:topicId", handlers.RenameTopicHandler, admin)
		studyMaterial.DELETE("/topics/:topicId", handlers.DeleteTopicHandler, admin)
		studyMaterial.POST("/topics/:topicId/questions", handlers.AddQuestionHandler, staff)
		studyMaterial.GET("/topics/:topicId/questions", handlers.TopicQuestionsHandler)
		studyMaterial.PUT("/topics/:topicId/questions/:questionId", handlers.UpdateQuestionHandler, staff)
		studyMaterial.DELETE("/topics/:topicId/questions/:questionId", handlers.DeleteQuestionHandler, staff)
		studyMaterial.GET("/questions", handlers.QuestionsHandler)
	}

	message := api.Group("/message", requireAuth)
	{
		message.POST("/send-message", handlers.SendMessageHandler)
		message.POST("/send-attachment", handlers.SendAttachmentHandler)
		message.GET("/download/:messageId", handlers.MessageAttachmentHandler)
		message.DELETE("/delete-message/:messageId", handlers.DeleteMessageHandler)
		message.GET("/lawyer-list", handlers.LawyerListHandler)
		message.GET("/chatted-users", handlers.ChattedUsersHandler)
		message.GET("/:fromUser/:toUser", handlers.ConversationHandler)
	}

	liquidText := api.Group("/liquid-text", requireAuth)
	{
		liquidText.POST("/upload-file", handlers.UploadLiquidTextHandler)
		liquidText.POST("/add-text/:id", handlers.AddLiquidTextHandler)
		liquidText.GET("/all-documents", handlers.LiquidTextDocumentsHandler)
		liquidText.GET("/document-details/:id", handlers.LiquidTextDocumentHandler)
		liquidText.GET("/document-file/:id", handlers.LiquidTextFileHandler)
	}
}
