package config

import (
	"context"
	"errors"
	"os"
	"time"

	"our-recipes/domain"
	"our-recipes/internal/api/handlers"
	"our-recipes/internal/api/presenters"
	"our-recipes/internal/api/routes"
	"our-recipes/internal/middleware"
	"our-recipes/internal/utils"
	"our-recipes/internal/utils/storage"
	"our-recipes/internal/views"
	"our-recipes/pkg/classifier"
	"our-recipes/pkg/recipe"
	"our-recipes/pkg/scraper"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

const defaultClientTimeout = 20 * time.Second

// NewApp builds the fiber application. db may be nil when the database is
// unreachable; store routes then answer 503 instead of the process exiting.
func NewApp(ctx context.Context, db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	validator := utils.Validate

	app := fiber.New(appConfig(utils.GetList("TRUSTED_PROXIES")))
	middlewares := middleware.NewMiddleware()

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		return nil, err
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		return nil, err
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Second,
	}))

	app.Use(recover.New())

	// utils
	clientTimeout := utils.GetDuration("HTTP_CLIENT_TIMEOUT", defaultClientTimeout)
	s3 := newStorage(ctx)

	// Repository
	var recipeRepository recipe.RecipeRepository
	if db != nil {
		recipeRepository = recipe.NewRecipeRepository(db)
	}

	// Service
	recipeService := recipe.NewRecipeService(recipe.Dependencies{
		Repository: recipeRepository,
		S3:         s3,
		Scraper:    scraper.NewScraper(scraper.Config{Timeout: clientTimeout}),
		Classifier: newClassifier(ctx, clientTimeout),
		Images:     utils.ImageDownloader{Timeout: clientTimeout},
	})

	// Handler
	recipeHandler := handlers.NewRecipeHandler(recipeService, validator)
	pageHandler := handlers.NewPageHandler(recipeService)

	// routes
	routesConfig := routes.Config{
		App:           app,
		RecipeHandler: recipeHandler,
		PageHandler:   pageHandler,
		Middleware:    middlewares,
		Ready:         recipeService.Ready,
		Username:      utils.GetConfig("BASIC_AUTH_USERNAME"),
		Password:      utils.GetConfig("BASIC_AUTH_PASSWORD"),
	}
	routesConfig.Setup()
	return app, nil
}

func newStorage(ctx context.Context) storage.AwsS3 {
	s3, err := storage.NewAwsS3(ctx, storage.Config{
		Bucket:    utils.GetConfig("AWS_S3_BUCKET"),
		Region:    utils.GetConfig("AWS_S3_REGION"),
		Endpoint:  utils.GetConfig("AWS_S3_ENDPOINT"),
		AccessKey: utils.GetConfig("AWS_ACCESS_KEY"),
		SecretKey: utils.GetConfig("AWS_SECRET_KEY"),
		URLExpiry: utils.GetDuration("AWS_S3_URL_EXPIRY", storage.MaxURLExpiry),
	})
	if err != nil {
		log.Errorf("object storage unavailable: %v", err)
		return nil
	}
	return s3
}

func newClassifier(ctx context.Context, timeout time.Duration) recipe.RecipeClassifier {
	apiKey := utils.GetConfig("GEMINI_API_KEY")
	if apiKey == "" {
		log.Info("GEMINI_API_KEY is not set, recipes will not be classified")
		return nil
	}

	c, err := classifier.NewClassifier(ctx, classifier.Config{
		APIKey:  apiKey,
		Model:   utils.GetConfig("GEMINI_MODEL"),
		Timeout: timeout,
	})
	if err != nil {
		log.Errorf("classifier disabled: %v", err)
		return nil
	}
	return c
}

// appConfig always enables the trusted proxy check, so with no proxies
// configured the forwarded headers of every peer are ignored.
func appConfig(trustedProxies []string) fiber.Config {
	return fiber.Config{
		AppName:                 "Our Recipes",
		Views:                   views.New(),
		EnableTrustedProxyCheck: true,
		TrustedProxies:          trustedProxies,
		ProxyHeader:             proxyHeader(trustedProxies),
		ErrorHandler:            errorHandler,
	}
}

func proxyHeader(trustedProxies []string) string {
	if len(trustedProxies) == 0 {
		return ""
	}
	return fiber.HeaderXForwardedFor
}

func errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := domain.MessageFailedProcessRequest

	var e *fiber.Error
	if errors.As(err, &e) {
		status = e.Code
		if status == fiber.StatusNotFound {
			message = domain.MessageRouteNotFound
		}
	}
	if status >= fiber.StatusInternalServerError {
		log.Errorf("unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	}
	return presenters.ErrorResponse(c, status, message, err)
}
