package routes

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"our-recipes/domain"
	"our-recipes/internal/api/handlers"
	"our-recipes/internal/middleware"
	"our-recipes/internal/testutils"
	"our-recipes/internal/utils"
	"our-recipes/internal/views"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const recipeID = "6f1c2c7e-8f0e-4f8e-9c39-1d2f0c8c9a11"

type RouteTestSuite struct {
	suite.Suite
	service  *testutils.MockRecipeService
	readyErr error
	app      *fiber.App
}

func (s *RouteTestSuite) SetupTest() {
	utils.InitValidator()

	s.service = new(testutils.MockRecipeService)
	s.readyErr = nil
	s.app = fiber.New(fiber.Config{Views: views.New()})

	cfg := Config{
		App:           s.app,
		RecipeHandler: handlers.NewRecipeHandler(s.service, utils.Validate),
		PageHandler:   handlers.NewPageHandler(s.service),
		Middleware:    middleware.NewMiddleware(),
		Ready:         func() error { return s.readyErr },
		Username:      "cook",
		Password:      "s3cret",
	}
	cfg.Setup()
}

func (s *RouteTestSuite) TearDownTest() {
	s.service.AssertExpectations(s.T())
}

func (s *RouteTestSuite) do(method, target, body string) (*http.Response, string) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(fiber.HeaderAuthorization, "Basic "+base64.StdEncoding.EncodeToString([]byte("cook:s3cret")))
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	resp, err := s.app.Test(req, -1)
	s.Require().NoError(err)
	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp, string(raw)
}

func (s *RouteTestSuite) TestPingIsPublic() {
	resp, err := s.app.Test(httptest.NewRequest(fiber.MethodGet, "/api/ping", nil))
	s.Require().NoError(err)
	s.Equal(fiber.StatusOK, resp.StatusCode)
}

func (s *RouteTestSuite) TestRoutesRequireAuth() {
	for _, target := range []string{"/", "/recipes", "/get-recipes", "/fetch-recipe?url=x"} {
		resp, err := s.app.Test(httptest.NewRequest(fiber.MethodGet, target, nil))
		s.Require().NoError(err)
		s.Equal(fiber.StatusUnauthorized, resp.StatusCode, target)
		s.Equal(`Basic realm="Our Recipes"`, resp.Header.Get(fiber.HeaderWWWAuthenticate))
	}
}

func (s *RouteTestSuite) TestFetchRecipe() {
	scraped := domain.ScrapedRecipe{Title: "Soup", Yields: domain.NotAvailable, Ingredients: []string{"water"}, Category: "Starter"}
	s.service.On("FetchRecipe", mock.Anything, "https://example.com/soup").Return(scraped, nil).Once()

	resp, body := s.do(fiber.MethodGet, "/fetch-recipe?url=https://example.com/soup", "")
	s.Equal(fiber.StatusOK, resp.StatusCode)
	s.JSONEq(`{"title":"Soup","image":"","yields":"Not available","prep_time":"","cook_time":"","ingredients":["water"],"instructions":"","category":"Starter"}`, body)
}

func (s *RouteTestSuite) TestFetchRecipeErrors() {
	s.service.On("FetchRecipe", mock.Anything, "").Return(domain.ScrapedRecipe{}, domain.ErrURLMissing).Once()
	s.service.On("FetchRecipe", mock.Anything, "https://bad.example").
		Return(domain.ScrapedRecipe{}, fmt.Errorf("%w: boom", domain.ErrScrapeFailed)).Once()

	resp, body := s.do(fiber.MethodGet, "/fetch-recipe", "")
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
	s.JSONEq(`{"message":"failed to fetch recipe","error":"URL parameter is missing"}`, body)

	resp, body = s.do(fiber.MethodGet, "/fetch-recipe?url=https://bad.example", "")
	s.Equal(fiber.StatusInternalServerError, resp.StatusCode)
	s.Contains(body, "recipe extraction failed: boom")
}

func (s *RouteTestSuite) TestSaveRecipe() {
	req := domain.SaveRecipeRequest{Title: "Soup", Ingredients: []string{"water", "salt"}, Yields: "2 servings"}
	s.service.On("SaveRecipe", mock.Anything, req).Return(domain.SaveRecipeResponse{ID: recipeID}, nil).Once()

	resp, body := s.do(fiber.MethodPost, "/save-recipe", `{"title":"Soup","ingredients":["water","salt"],"yields":"2 servings"}`)
	s.Equal(fiber.StatusCreated, resp.StatusCode)
	s.JSONEq(`{"id":"`+recipeID+`","image_url":null}`, body)
}

func (s *RouteTestSuite) TestSaveRecipeRejectsBadInput() {
	cases := []string{
		`{"title":`,
		`{"ingredients":["water"]}`,
		`{"title":"Soup","image":"not a url"}`,
		`{"title":"Soup","ingredients":["water",""]}`,
	}
	for _, payload := range cases {
		resp, _ := s.do(fiber.MethodPost, "/save-recipe", payload)
		s.Equal(fiber.StatusBadRequest, resp.StatusCode, payload)
	}
	s.service.AssertNotCalled(s.T(), "SaveRecipe", mock.Anything, mock.Anything)
}

func (s *RouteTestSuite) TestSaveRecipeDuplicate() {
	s.service.On("SaveRecipe", mock.Anything, mock.Anything).
		Return(domain.SaveRecipeResponse{}, domain.ErrRecipeAlreadyExists).Once()

	resp, body := s.do(fiber.MethodPost, "/save-recipe", `{"title":"Soup"}`)
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
	s.JSONEq(`{"message":"failed to save recipe","error":"Recipe already exists"}`, body)
}

func (s *RouteTestSuite) TestGetRecipes() {
	s.service.On("GetRecipes", mock.Anything).Return([]domain.RecipeSummary{
		{ID: "b", Title: "Stew", TimesCooked: 4},
		{ID: "a", Title: "Soup", TimesCooked: 1},
	}, nil).Once()

	resp, body := s.do(fiber.MethodGet, "/get-recipes", "")
	s.Equal(fiber.StatusOK, resp.StatusCode)
	s.JSONEq(`[{"id":"b","title":"Stew","times_cooked":4,"image_url":null},{"id":"a","title":"Soup","times_cooked":1,"image_url":null}]`, body)
}

func (s *RouteTestSuite) TestGetRecipeDetail() {
	s.service.On("GetRecipeDetail", mock.Anything, recipeID).Return(domain.RecipeDetail{
		ID: recipeID, Title: "Soup", Yields: domain.NotAvailableDisplay, Ingredients: []string{"water"}, Instructions: "Boil.\n",
	}, nil).Once()
	s.service.On("GetRecipeDetail", mock.Anything, "missing").Return(domain.RecipeDetail{}, domain.ErrRecipeNotFound).Once()

	resp, body := s.do(fiber.MethodGet, "/get-recipe/"+recipeID, "")
	s.Equal(fiber.StatusOK, resp.StatusCode)
	s.Contains(body, `"ingredients":["water"]`)
	s.Contains(body, `"yields":"Not Available"`)

	resp, _ = s.do(fiber.MethodGet, "/get-recipe/missing", "")
	s.Equal(fiber.StatusNotFound, resp.StatusCode)
}

func (s *RouteTestSuite) TestDeleteRecipe() {
	s.service.On("DeleteRecipe", mock.Anything, recipeID).Return(nil).Once()
	s.service.On("DeleteRecipe", mock.Anything, "missing").Return(domain.ErrRecipeNotFound).Once()

	resp, body := s.do(fiber.MethodDelete, "/delete-recipe/"+recipeID, "")
	s.Equal(fiber.StatusOK, resp.StatusCode)
	s.JSONEq(`{"message":"Recipe deleted successfully"}`, body)

	resp, _ = s.do(fiber.MethodDelete, "/delete-recipe/missing", "")
	s.Equal(fiber.StatusNotFound, resp.StatusCode)
}

func (s *RouteTestSuite) TestIncrementCooked() {
	s.service.On("IncrementCooked", mock.Anything, recipeID).
		Return(domain.IncrementCookedResponse{Success: true, TimesCooked: 3}, nil).Once()

	resp, body := s.do(fiber.MethodPost, "/increment-cooked/"+recipeID, "")
	s.Equal(fiber.StatusOK, resp.StatusCode)
	s.JSONEq(`{"success":true,"times_cooked":3}`, body)
}

func (s *RouteTestSuite) TestRecipeImage() {
	s.service.On("GetRecipeImage", mock.Anything, recipeID).
		Return(domain.RecipeImage{ContentType: "image/png", Body: []byte("png-bytes")}, nil).Once()
	s.service.On("GetRecipeImage", mock.Anything, "plain").
		Return(domain.RecipeImage{}, domain.ErrRecipeImageNotFound).Once()

	resp, body := s.do(fiber.MethodGet, "/image/"+recipeID, "")
	s.Equal(fiber.StatusOK, resp.StatusCode)
	s.Equal("image/png", resp.Header.Get(fiber.HeaderContentType))
	s.Equal("png-bytes", body)

	resp, _ = s.do(fiber.MethodGet, "/image/plain", "")
	s.Equal(fiber.StatusNotFound, resp.StatusCode)
}

func (s *RouteTestSuite) TestStoreNotReady() {
	s.readyErr = domain.ErrStoreNotReady

	for _, target := range []string{"/get-recipes", "/recipes", "/get-recipe/" + recipeID} {
		resp, _ := s.do(fiber.MethodGet, target, "")
		s.Equal(fiber.StatusServiceUnavailable, resp.StatusCode, target)
	}
	resp, _ := s.do(fiber.MethodPost, "/save-recipe", `{"title":"Soup"}`)
	s.Equal(fiber.StatusServiceUnavailable, resp.StatusCode)
}

func (s *RouteTestSuite) TestPages() {
	image := "https://s3.example.com/images/Soup?X-Amz-Date=day8"
	s.service.On("GetRecipes", mock.Anything).Return([]domain.RecipeSummary{{ID: recipeID, Title: "Soup", ImageURL: &image}}, nil).Once()
	s.service.On("GetRecipeDetail", mock.Anything, "missing").Return(domain.RecipeDetail{}, domain.ErrRecipeNotFound).Once()

	resp, body := s.do(fiber.MethodGet, "/", "")
	s.Equal(fiber.StatusOK, resp.StatusCode)
	s.Contains(body, "<h1>Our Recipes</h1>")

	resp, body = s.do(fiber.MethodGet, "/recipes", "")
	s.Equal(fiber.StatusOK, resp.StatusCode)
	s.Contains(resp.Header.Get(fiber.HeaderContentType), fiber.MIMETextHTML)
	s.Contains(body, `href="/recipes/`+recipeID+`"`)
	s.Contains(body, `<img src="`+image+`"`)

	resp, body = s.do(fiber.MethodGet, "/recipes/missing", "")
	s.Equal(fiber.StatusNotFound, resp.StatusCode)
	s.Contains(body, "recipe not found")
}

func (s *RouteTestSuite) TestUnknownRoute() {
	resp, _ := s.do(fiber.MethodGet, "/nope", "")
	s.Equal(fiber.StatusNotFound, resp.StatusCode)
}

func TestRouteTestSuite(t *testing.T) {
	suite.Run(t, new(RouteTestSuite))
}
