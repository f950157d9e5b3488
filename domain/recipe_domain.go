package domain

import (
	"errors"
)

const (
	NotAvailable        = "Not available"
	NotAvailableDisplay = "Not Available"

	CategoryVegetarian  = "Vegetarian"
	CategoryPescatarian = "Pescatarian"
	CategoryDessert     = "Dessert"
	CategoryStarter     = "Starter"
)

var Categories = []string{
	CategoryVegetarian,
	CategoryPescatarian,
	CategoryDessert,
	CategoryStarter,
}

var (
	MessageSuccessFetchRecipe     = "success fetch recipe"
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessSaveRecipe      = "recipe saved successfully"
	MessageSuccessDeleteRecipe    = "Recipe deleted successfully"
	MessageSuccessMarkAsCooked    = "recipe marked as cooked successfully"

	MessageFailedFetchRecipe     = "failed to fetch recipe"
	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedSaveRecipe      = "failed to save recipe"
	MessageFailedDeleteRecipe    = "failed to delete recipe"
	MessageFailedMarkAsCooked    = "failed to mark recipe as cooked"
	MessageFailedGetImage        = "failed to get recipe image"

	ErrRecipeNotFound      = errors.New("recipe not found")
	ErrRecipeAlreadyExists = errors.New("Recipe already exists")
	ErrRecipeImageNotFound = errors.New("recipe has no image")
	ErrInvalidTitle        = errors.New("title has no usable characters")
	ErrURLMissing          = errors.New("URL parameter is missing")
	ErrScrapeFailed        = errors.New("recipe extraction failed")
	ErrClassifyFailed      = errors.New("recipe classification failed")
	ErrImageFetchFailed    = errors.New("image download failed")
)

type (
	// ScrapedRecipe is the normalized record returned by fetch-recipe.
	ScrapedRecipe struct {
		Title        string   `json:"title"`
		Image        string   `json:"image"`
		Yields       string   `json:"yields"`
		PrepTime     string   `json:"prep_time"`
		CookTime     string   `json:"cook_time"`
		Ingredients  []string `json:"ingredients"`
		Instructions string   `json:"instructions"`
		URL          string   `json:"url,omitempty"`
		Category     string   `json:"category,omitempty"`
	}

	SaveRecipeRequest struct {
		Title        string   `json:"title" validate:"required,max=100"`
		Image        string   `json:"image" validate:"omitempty,url"`
		Yields       string   `json:"yields" validate:"max=50"`
		PrepTime     string   `json:"prep_time" validate:"max=50"`
		CookTime     string   `json:"cook_time" validate:"max=50"`
		Ingredients  []string `json:"ingredients" validate:"dive,required"`
		Instructions string   `json:"instructions"`
		Category     string   `json:"category" validate:"max=50"`
		URL          string   `json:"url" validate:"omitempty,url"`
	}

	SaveRecipeResponse struct {
		ID       string  `json:"id"`
		ImageURL *string `json:"image_url"`
	}

	RecipeSummary struct {
		ID          string  `json:"id"`
		Title       string  `json:"title"`
		TimesCooked int     `json:"times_cooked"`
		ImageURL    *string `json:"image_url"`
		Category    string  `json:"category,omitempty"`
	}

	RecipeDetail struct {
		ID           string   `json:"id"`
		Title        string   `json:"title"`
		Image        *string  `json:"image"`
		Yields       string   `json:"yields"`
		PrepTime     string   `json:"prep_time"`
		CookTime     string   `json:"cook_time"`
		Ingredients  []string `json:"ingredients"`
		Instructions string   `json:"instructions"`
		TimesCooked  int      `json:"times_cooked"`
		Category     string   `json:"category,omitempty"`
		URL          string   `json:"url,omitempty"`
	}

	IncrementCookedResponse struct {
		Success     bool `json:"success"`
		TimesCooked int  `json:"times_cooked"`
	}

	RecipeImage struct {
		ContentType string
		Body        []byte
	}
)

// IsKnownCategory reports whether category is one of the four catalog categories.
func IsKnownCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}
