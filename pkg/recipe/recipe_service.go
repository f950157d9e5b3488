package recipe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"our-recipes/domain"
	"our-recipes/entities"
	"our-recipes/internal/utils/storage"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	RecipeScraper interface {
		Scrape(ctx context.Context, url string) (domain.ScrapedRecipe, error)
	}

	RecipeClassifier interface {
		Classify(ctx context.Context, title string, ingredients []string) (string, error)
	}

	ImageFetcher interface {
		FetchImage(ctx context.Context, url string) ([]byte, error)
	}

	RecipeService interface {
		Ready() error
		FetchRecipe(ctx context.Context, url string) (domain.ScrapedRecipe, error)
		SaveRecipe(ctx context.Context, req domain.SaveRecipeRequest) (domain.SaveRecipeResponse, error)
		GetRecipes(ctx context.Context) ([]domain.RecipeSummary, error)
		GetRecipeDetail(ctx context.Context, id string) (domain.RecipeDetail, error)
		DeleteRecipe(ctx context.Context, id string) error
		IncrementCooked(ctx context.Context, id string) (domain.IncrementCookedResponse, error)
		GetRecipeImage(ctx context.Context, id string) (domain.RecipeImage, error)
	}

	Dependencies struct {
		Repository RecipeRepository
		S3         storage.AwsS3
		Scraper    RecipeScraper
		Classifier RecipeClassifier
		Images     ImageFetcher
	}

	recipeService struct {
		recipeRepository RecipeRepository
		s3               storage.AwsS3
		scraper          RecipeScraper
		classifier       RecipeClassifier
		images           ImageFetcher
	}
)

// NewRecipeService wires the service. Repository and S3 may be nil when the
// store could not be initialized; Classifier may be nil to skip categories.
func NewRecipeService(deps Dependencies) RecipeService {
	return &recipeService{
		recipeRepository: deps.Repository,
		s3:               deps.S3,
		scraper:          deps.Scraper,
		classifier:       deps.Classifier,
		images:           deps.Images,
	}
}

func (s *recipeService) Ready() error {
	if s.recipeRepository == nil || s.s3 == nil {
		return domain.ErrStoreNotReady
	}
	return nil
}

func (s *recipeService) FetchRecipe(ctx context.Context, url string) (domain.ScrapedRecipe, error) {
	if strings.TrimSpace(url) == "" {
		return domain.ScrapedRecipe{}, domain.ErrURLMissing
	}

	scraped, err := s.scraper.Scrape(ctx, url)
	if err != nil {
		return domain.ScrapedRecipe{}, err
	}

	if s.classifier != nil {
		category, err := s.classifier.Classify(ctx, scraped.Title, scraped.Ingredients)
		if err != nil {
			return domain.ScrapedRecipe{}, err
		}
		if !domain.IsKnownCategory(category) {
			log.Warnf("classifier returned unknown category %q for %q", category, scraped.Title)
		}
		scraped.Category = category
	}

	return scraped, nil
}

func (s *recipeService) SaveRecipe(ctx context.Context, req domain.SaveRecipeRequest) (domain.SaveRecipeResponse, error) {
	if err := s.Ready(); err != nil {
		return domain.SaveRecipeResponse{}, err
	}

	title := SanitizeTitle(req.Title)
	if title == "" {
		return domain.SaveRecipeResponse{}, domain.ErrInvalidTitle
	}

	exists, err := s.recipeRepository.TitleExists(ctx, title)
	if err != nil {
		return domain.SaveRecipeResponse{}, err
	}
	if exists {
		return domain.SaveRecipeResponse{}, domain.ErrRecipeAlreadyExists
	}

	recipe := &entities.Recipe{
		ID:           uuid.New(),
		Title:        title,
		Yields:       req.Yields,
		PrepTime:     req.PrepTime,
		CookTime:     req.CookTime,
		Ingredients:  JoinIngredients(req.Ingredients),
		Instructions: req.Instructions,
		Category:     req.Category,
		URL:          req.URL,
	}

	if req.Image != "" {
		key, link, err := s.storeImage(ctx, title, req.Image)
		if err != nil {
			return domain.SaveRecipeResponse{}, err
		}
		recipe.ImageKey = key
		recipe.ImageURL = link
	}

	if err := s.recipeRepository.CreateRecipe(ctx, recipe); err != nil {
		return domain.SaveRecipeResponse{}, err
	}

	return domain.SaveRecipeResponse{
		ID:       recipe.ID.String(),
		ImageURL: optional(recipe.ImageURL),
	}, nil
}

// storeImage downloads the remote image, uploads it under the title key and
// returns the key with a signed link. An already stored object is reused.
func (s *recipeService) storeImage(ctx context.Context, title, remoteURL string) (string, string, error) {
	body, err := s.images.FetchImage(ctx, remoteURL)
	if err != nil {
		return "", "", err
	}

	key := storage.ObjectKey(storage.ImageFolder, title)
	contentType := mimetype.Detect(body).String()

	if err := s.s3.UploadFile(ctx, key, body, contentType); err != nil {
		if !errors.Is(err, storage.ErrObjectExists) {
			return "", "", err
		}
		log.Infof("Image already exists, skipping upload: %s", title)
	}

	link, err := s.s3.GetSignedLink(ctx, key)
	if err != nil {
		return "", "", err
	}
	return key, link, nil
}

func (s *recipeService) GetRecipes(ctx context.Context) ([]domain.RecipeSummary, error) {
	if err := s.Ready(); err != nil {
		return nil, err
	}

	recipes, err := s.recipeRepository.GetRecipes(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.RecipeSummary, 0, len(recipes))
	for _, recipe := range recipes {
		result = append(result, domain.RecipeSummary{
			ID:          recipe.ID.String(),
			Title:       recipe.Title,
			TimesCooked: recipe.TimesCooked,
			ImageURL:    s.imageLink(ctx, recipe),
			Category:    recipe.Category,
		})
	}
	return result, nil
}

func (s *recipeService) GetRecipeDetail(ctx context.Context, id string) (domain.RecipeDetail, error) {
	recipe, err := s.getRecipe(ctx, id)
	if err != nil {
		return domain.RecipeDetail{}, err
	}

	return domain.RecipeDetail{
		ID:           recipe.ID.String(),
		Title:        recipe.Title,
		Image:        s.imageLink(ctx, recipe),
		Yields:       valueOr(recipe.Yields, domain.NotAvailableDisplay),
		PrepTime:     valueOr(recipe.PrepTime, domain.NotAvailableDisplay),
		CookTime:     valueOr(recipe.CookTime, domain.NotAvailableDisplay),
		Ingredients:  SplitIngredients(recipe.Ingredients),
		Instructions: FormatInstructions(recipe.Instructions),
		TimesCooked:  recipe.TimesCooked,
		Category:     recipe.Category,
		URL:          recipe.URL,
	}, nil
}

func (s *recipeService) DeleteRecipe(ctx context.Context, id string) error {
	recipe, err := s.getRecipe(ctx, id)
	if err != nil {
		return err
	}

	if err := s.recipeRepository.DeleteRecipe(ctx, recipe.ID.String()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecipeNotFound
		}
		return err
	}

	if recipe.ImageKey != "" {
		if err := s.s3.DeleteFile(ctx, recipe.ImageKey); err != nil {
			log.Warnf("failed to delete image %s of recipe %s: %v", recipe.ImageKey, recipe.ID, err)
		}
	}
	return nil
}

func (s *recipeService) IncrementCooked(ctx context.Context, id string) (domain.IncrementCookedResponse, error) {
	if err := s.Ready(); err != nil {
		return domain.IncrementCookedResponse{}, err
	}

	recipeID, err := uuid.Parse(id)
	if err != nil {
		return domain.IncrementCookedResponse{}, domain.ErrRecipeNotFound
	}

	timesCooked, err := s.recipeRepository.IncrementTimesCooked(ctx, recipeID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.IncrementCookedResponse{}, domain.ErrRecipeNotFound
		}
		return domain.IncrementCookedResponse{}, err
	}

	return domain.IncrementCookedResponse{Success: true, TimesCooked: timesCooked}, nil
}

func (s *recipeService) GetRecipeImage(ctx context.Context, id string) (domain.RecipeImage, error) {
	recipe, err := s.getRecipe(ctx, id)
	if err != nil {
		return domain.RecipeImage{}, err
	}
	if recipe.ImageKey == "" {
		return domain.RecipeImage{}, domain.ErrRecipeImageNotFound
	}

	body, contentType, err := s.s3.GetFile(ctx, recipe.ImageKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return domain.RecipeImage{}, domain.ErrRecipeImageNotFound
		}
		return domain.RecipeImage{}, err
	}
	if contentType == "" {
		contentType = mimetype.Detect(body).String()
	}

	return domain.RecipeImage{ContentType: contentType, Body: body}, nil
}

func (s *recipeService) getRecipe(ctx context.Context, id string) (*entities.Recipe, error) {
	if err := s.Ready(); err != nil {
		return nil, err
	}

	recipeID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrRecipeNotFound
	}

	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, fmt.Errorf("get recipe %s: %w", recipeID, err)
	}
	return recipe, nil
}

// imageLink signs a fresh link for the stored object on every read; a
// presigned URL is valid for at most storage.MaxURLExpiry. When signing fails
// the streaming route is returned instead.
func (s *recipeService) imageLink(ctx context.Context, recipe *entities.Recipe) *string {
	if recipe.ImageKey == "" {
		return optional(recipe.ImageURL)
	}

	link, err := s.s3.GetSignedLink(ctx, recipe.ImageKey)
	if err != nil {
		log.Warnf("failed to sign image link for recipe %s: %v", recipe.ID, err)
		link = ImageRoute(recipe.ID.String())
	}
	return &link
}

// ImageRoute is the path that streams a recipe image.
func ImageRoute(id string) string {
	return "/image/" + id
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
