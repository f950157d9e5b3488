package handlers

import (
	"our-recipes/domain"
	"our-recipes/internal/api/presenters"
	"our-recipes/pkg/recipe"

	"github.com/gofiber/fiber/v2"
)

type (
	PageHandler interface {
		Index(c *fiber.Ctx) error
		Recipes(c *fiber.Ctx) error
		RecipeDetail(c *fiber.Ctx) error
		NotFound(c *fiber.Ctx) error
	}

	pageHandler struct {
		recipeService recipe.RecipeService
	}
)

func NewPageHandler(recipeService recipe.RecipeService) PageHandler {
	return &pageHandler{
		recipeService: recipeService,
	}
}

func (h *pageHandler) Index(c *fiber.Ctx) error {
	return c.Render("index", fiber.Map{})
}

func (h *pageHandler) Recipes(c *fiber.Ctx) error {
	recipes, err := h.recipeService.GetRecipes(c.UserContext())
	if err != nil {
		return h.errorPage(c, statusFor(err), domain.MessageFailedGetRecipes, err)
	}

	return c.Render("recipes", fiber.Map{"Recipes": recipes})
}

func (h *pageHandler) RecipeDetail(c *fiber.Ctx) error {
	detail, err := h.recipeService.GetRecipeDetail(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errorPage(c, statusFor(err), domain.MessageFailedGetRecipeDetail, err)
	}

	return c.Render("recipe", fiber.Map{"Recipe": detail})
}

func (h *pageHandler) NotFound(c *fiber.Ctx) error {
	if c.Accepts(fiber.MIMETextHTML) == "" {
		return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageRouteNotFound, fiber.ErrNotFound)
	}
	return h.errorPage(c, fiber.StatusNotFound, domain.MessageRouteNotFound, nil)
}

func (h *pageHandler) errorPage(c *fiber.Ctx, status int, message string, err error) error {
	data := fiber.Map{"Message": message}
	if err != nil {
		data["Error"] = err.Error()
	}
	return c.Status(status).Render("error", data)
}
