// Package app assembles the HTTP application from its dependencies.
package app

import (
	"time"

	"foodgram/internal/config"
	"foodgram/internal/events"
	"foodgram/internal/handlers"
	"foodgram/internal/metrics"
	"foodgram/internal/middleware"
	"foodgram/internal/repositories"
	"foodgram/internal/services"
	"foodgram/internal/validation"
	"foodgram/pkg/storage"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

const maxPageSize = 100

// Deps are the external resources the application runs on.
type Deps struct {
	Config    config.Config
	DB        *gorm.DB
	Media     storage.Storage
	Publisher events.Publisher
}

// Services exposes the wired services, e.g. for the catalog importer.
type Services struct {
	Auth       *services.AuthService
	Users      *services.UserService
	Catalog    *services.CatalogService
	Recipes    *services.RecipeService
	Engagement *services.EngagementService
	Links      *services.LinkService
}

// NewServices builds repositories and services on top of deps.
func NewServices(deps Deps) *Services {
	if deps.Publisher == nil {
		deps.Publisher = events.NopPublisher{}
	}
	validate := validation.New()

	userRepo := repositories.NewGORMUserRepository(deps.DB)
	subRepo := repositories.NewGORMSubscriptionRepository(deps.DB)
	recipeRepo := repositories.NewGORMRecipeRepository(deps.DB)
	ingredientRepo := repositories.NewGORMIngredientRepository(deps.DB)
	tagRepo := repositories.NewGORMTagRepository(deps.DB)
	favoriteRepo := repositories.NewGORMFavoriteRepository(deps.DB)
	cartRepo := repositories.NewGORMShoppingCartRepository(deps.DB)
	linkRepo := repositories.NewGORMLinkRepository(deps.DB)

	return &Services{
		Auth:    services.NewAuthService(userRepo, deps.Config.JWTSecret, deps.Config.TokenTTL),
		Users:   services.NewUserService(userRepo, subRepo, recipeRepo, deps.Media, deps.Publisher),
		Catalog: services.NewCatalogService(ingredientRepo, tagRepo, validate),
		Recipes: services.NewRecipeService(services.RecipeStores{
			Recipes:       recipeRepo,
			Ingredients:   ingredientRepo,
			Tags:          tagRepo,
			Favorites:     favoriteRepo,
			ShoppingCarts: cartRepo,
			Subscriptions: subRepo,
		}, deps.Media, deps.Publisher, validate),
		Engagement: services.NewEngagementService(recipeRepo, favoriteRepo, cartRepo, deps.Media, deps.Publisher),
		Links:      services.NewLinkService(linkRepo, recipeRepo, deps.Config.BaseURL),
	}
}

// New returns a configured fiber app with every route registered.
func New(deps Deps) *fiber.App {
	svc := NewServices(deps)
	validate := validation.New()
	paginator := handlers.Paginator{DefaultLimit: deps.Config.PageSize, MaxLimit: maxPageSize}
	guards := handlers.Guards{
		Required: middleware.AuthRequired(svc.Auth),
		Optional: middleware.OptionalAuth(svc.Auth),
	}

	app := fiber.New(fiber.Config{
		AppName:     "foodgram",
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
		BodyLimit:   16 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${method} ${path} ${latency}\n",
	}))
	app.Use(metrics.Middleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	app.Get("/metrics", metrics.Handler())

	if local, ok := deps.Media.(*storage.LocalStorage); ok {
		app.Static(deps.Config.MediaURL, local.Root())
	}

	api := app.Group("/api")
	handlers.NewAuthHandler(svc.Auth, validate).RegisterRoutes(api, guards)
	handlers.NewUserHandler(svc.Auth, svc.Users, validate, paginator).RegisterRoutes(api, guards)
	handlers.NewCatalogHandler(svc.Catalog).RegisterRoutes(api)

	links := handlers.NewLinkHandler(svc.Links)
	links.RegisterRoutes(api)
	handlers.NewRecipeHandler(svc.Recipes, svc.Engagement, validate, paginator).RegisterRoutes(api, guards)
	links.RegisterRedirect(app)

	return app
}
