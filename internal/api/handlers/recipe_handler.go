package handlers

import (
	"errors"

	"our-recipes/domain"
	"our-recipes/internal/api/presenters"
	"our-recipes/pkg/recipe"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type (
	RecipeHandler interface {
		FetchRecipe(c *fiber.Ctx) error
		SaveRecipe(c *fiber.Ctx) error
		GetRecipes(c *fiber.Ctx) error
		GetRecipeDetail(c *fiber.Ctx) error
		DeleteRecipe(c *fiber.Ctx) error
		IncrementCooked(c *fiber.Ctx) error
		GetRecipeImage(c *fiber.Ctx) error
	}

	recipeHandler struct {
		recipeService recipe.RecipeService
		validator     *validator.Validate
	}
)

func NewRecipeHandler(recipeService recipe.RecipeService, validator *validator.Validate) RecipeHandler {
	return &recipeHandler{
		recipeService: recipeService,
		validator:     validator,
	}
}

func (h *recipeHandler) FetchRecipe(c *fiber.Ctx) error {
	res, err := h.recipeService.FetchRecipe(c.UserContext(), c.Query("url"))
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedFetchRecipe, err)
	}

	return presenters.JSON(c, fiber.StatusOK, res)
}

func (h *recipeHandler) SaveRecipe(c *fiber.Ctx) error {
	req := new(domain.SaveRecipeRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSaveRecipe, err)
	}

	res, err := h.recipeService.SaveRecipe(c.UserContext(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedSaveRecipe, err)
	}

	return presenters.JSON(c, fiber.StatusCreated, res)
}

func (h *recipeHandler) GetRecipes(c *fiber.Ctx) error {
	res, err := h.recipeService.GetRecipes(c.UserContext())
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetRecipes, err)
	}

	return presenters.JSON(c, fiber.StatusOK, res)
}

func (h *recipeHandler) GetRecipeDetail(c *fiber.Ctx) error {
	res, err := h.recipeService.GetRecipeDetail(c.UserContext(), c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetRecipeDetail, err)
	}

	return presenters.JSON(c, fiber.StatusOK, res)
}

func (h *recipeHandler) DeleteRecipe(c *fiber.Ctx) error {
	if err := h.recipeService.DeleteRecipe(c.UserContext(), c.Params("id")); err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedDeleteRecipe, err)
	}

	return presenters.MessageResponse(c, fiber.StatusOK, domain.MessageSuccessDeleteRecipe)
}

func (h *recipeHandler) IncrementCooked(c *fiber.Ctx) error {
	res, err := h.recipeService.IncrementCooked(c.UserContext(), c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedMarkAsCooked, err)
	}

	return presenters.JSON(c, fiber.StatusOK, res)
}

func (h *recipeHandler) GetRecipeImage(c *fiber.Ctx) error {
	img, err := h.recipeService.GetRecipeImage(c.UserContext(), c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetImage, err)
	}

	c.Set(fiber.HeaderContentType, img.ContentType)
	c.Set(fiber.HeaderCacheControl, "private, max-age=3600")
	return c.Status(fiber.StatusOK).Send(img.Body)
}

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrURLMissing),
		errors.Is(err, domain.ErrRecipeAlreadyExists),
		errors.Is(err, domain.ErrInvalidTitle):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrRecipeNotFound),
		errors.Is(err, domain.ErrRecipeImageNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrStoreNotReady):
		return fiber.StatusServiceUnavailable
	default:
		log.Errorf("request failed: %v", err)
		return fiber.StatusInternalServerError
	}
}
