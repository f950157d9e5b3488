package routes

import (
	"our-recipes/internal/api/handlers"
	"our-recipes/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App           *fiber.App
	RecipeHandler handlers.RecipeHandler
	PageHandler   handlers.PageHandler
	Middleware    middleware.Middleware
	Ready         func() error
	Username      string
	Password      string
}

func (c *Config) Setup() {
	c.GuestRoute()
	c.App.Use(c.Middleware.BasicAuth(c.Username, c.Password))
	c.Pages()
	c.Recipes()
	c.App.Use(c.PageHandler.NotFound)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}

func (c *Config) Pages() {
	ready := c.Middleware.RequireReady(c.Ready)

	c.App.Get("/", c.PageHandler.Index)
	c.App.Get("/recipes", ready, c.PageHandler.Recipes)
	c.App.Get("/recipes/:id", ready, c.PageHandler.RecipeDetail)
}

func (c *Config) Recipes() {
	ready := c.Middleware.RequireReady(c.Ready)

	// scraping does not touch the store
	c.App.Get("/fetch-recipe", c.RecipeHandler.FetchRecipe)

	c.App.Post("/save-recipe", ready, c.RecipeHandler.SaveRecipe)
	c.App.Get("/get-recipes", ready, c.RecipeHandler.GetRecipes)
	c.App.Get("/get-recipe/:id", ready, c.RecipeHandler.GetRecipeDetail)
	c.App.Delete("/delete-recipe/:id", ready, c.RecipeHandler.DeleteRecipe)
	c.App.Post("/increment-cooked/:id", ready, c.RecipeHandler.IncrementCooked)
	c.App.Get("/image/:id", ready, c.RecipeHandler.GetRecipeImage)
}
