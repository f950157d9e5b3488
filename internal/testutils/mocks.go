package testutils

import (
	"context"

	"our-recipes/domain"

	"github.com/stretchr/testify/mock"
)

// MockScraper mocks recipe extraction.
type MockScraper struct {
	mock.Mock
}

func (m *MockScraper) Scrape(ctx context.Context, url string) (domain.ScrapedRecipe, error) {
	args := m.Called(ctx, url)
	return args.Get(0).(domain.ScrapedRecipe), args.Error(1)
}

// MockClassifier mocks category classification.
type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, title string, ingredients []string) (string, error) {
	args := m.Called(ctx, title, ingredients)
	return args.String(0), args.Error(1)
}

// MockImageFetcher mocks the remote image download.
type MockImageFetcher struct {
	mock.Mock
}

func (m *MockImageFetcher) FetchImage(ctx context.Context, url string) ([]byte, error) {
	args := m.Called(ctx, url)
	body, _ := args.Get(0).([]byte)
	return body, args.Error(1)
}

// MockS3 mocks the object store.
type MockS3 struct {
	mock.Mock
}

func (m *MockS3) UploadFile(ctx context.Context, key string, body []byte, contentType string) error {
	return m.Called(ctx, key, body, contentType).Error(0)
}

func (m *MockS3) GetFile(ctx context.Context, key string) ([]byte, string, error) {
	args := m.Called(ctx, key)
	body, _ := args.Get(0).([]byte)
	return body, args.String(1), args.Error(2)
}

func (m *MockS3) DeleteFile(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockS3) GetSignedLink(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

// MockRecipeService mocks the recipe service behind the HTTP handlers.
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) Ready() error {
	return m.Called().Error(0)
}

func (m *MockRecipeService) FetchRecipe(ctx context.Context, url string) (domain.ScrapedRecipe, error) {
	args := m.Called(ctx, url)
	return args.Get(0).(domain.ScrapedRecipe), args.Error(1)
}

func (m *MockRecipeService) SaveRecipe(ctx context.Context, req domain.SaveRecipeRequest) (domain.SaveRecipeResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.SaveRecipeResponse), args.Error(1)
}

func (m *MockRecipeService) GetRecipes(ctx context.Context) ([]domain.RecipeSummary, error) {
	args := m.Called(ctx)
	recipes, _ := args.Get(0).([]domain.RecipeSummary)
	return recipes, args.Error(1)
}

func (m *MockRecipeService) GetRecipeDetail(ctx context.Context, id string) (domain.RecipeDetail, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.RecipeDetail), args.Error(1)
}

func (m *MockRecipeService) DeleteRecipe(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRecipeService) IncrementCooked(ctx context.Context, id string) (domain.IncrementCookedResponse, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.IncrementCookedResponse), args.Error(1)
}

func (m *MockRecipeService) GetRecipeImage(ctx context.Context, id string) (domain.RecipeImage, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.RecipeImage), args.Error(1)
}
