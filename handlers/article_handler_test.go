package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"articles-cms/cache"
	"articles-cms/middleware"
	"articles-cms/models"
	"articles-cms/repositories"
	"articles-cms/services"
)

type publicAPITest struct {
	router         *gin.Engine
	articleService services.ArticleService
	token          string
	authorID       uint
}

func setupPublicAPI(t *testing.T) *publicAPITest {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Site{}, &models.Tag{}, &models.Article{}))

	userRepo := repositories.NewUserRepository(db)
	articleRepo := repositories.NewArticleRepository(db)
	tagRepo := repositories.NewTagRepository(db)
	siteRepo := repositories.NewSiteRepository(db)

	resolver := services.NewLinkResolver(cache.NewMemory(), &http.Client{Timeout: time.Second}, zerolog.Nop())
	authService := services.NewAuthService(userRepo)
	articleService := services.NewArticleService(articleRepo, tagRepo, siteRepo, userRepo, resolver)
	tagService := services.NewTagService(tagRepo, articleRepo)

	articleHandler := NewArticleHandler(articleService)
	tagHandler := NewTagHandler(tagService)

	router := gin.New()
	public := router.Group("/public")
	public.Use(middleware.OptionalAuth())
	{
		public.GET("/articles", articleHandler.GetPublicArticles)
		public.GET("/articles/:year/:slug", articleHandler.GetPublicArticle)
		public.GET("/tags/:name/articles", tagHandler.GetTagArticles)
	}

	auth, err := authService.Register(models.RegisterRequest{
		Username: "writer",
		Email:    "writer@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	return &publicAPITest{
		router:         router,
		articleService: articleService,
		token:          auth.Token,
		authorID:       auth.User.ID,
	}
}

func (s *publicAPITest) createArticle(t *testing.T, slug string, publish time.Time, loginRequired bool) *models.Article {
	t.Helper()

	article, err := s.articleService.CreateArticle(models.CreateArticleRequest{
		Title:         "Title " + slug,
		Slug:          slug,
		Markup:        string(models.MarkupHTML),
		Content:       "<p>public body</p>",
		PublishDate:   &publish,
		LoginRequired: loginRequired,
		Tags:          []string{"testing"},
	}, s.authorID)
	require.NoError(t, err)
	return article
}

func (s *publicAPITest) get(path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestGetPublicArticleBySlug(t *testing.T) {
	suite := setupPublicAPI(t)

	publish := time.Now().Add(-48 * time.Hour)
	suite.createArticle(t, "first", publish, false)
	suite.createArticle(t, "second", publish.Add(time.Hour), false)

	w := suite.get(fmt.Sprintf("/public/articles/%d/first", publish.Year()), "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body, "article")
	assert.Contains(t, body, "teaser")
	assert.Contains(t, body, "links")

	var next map[string]interface{}
	require.NoError(t, json.Unmarshal(body["next"], &next))
	assert.Equal(t, "second", next["slug"])
}

func TestGetPublicArticleUnknownSlug(t *testing.T) {
	suite := setupPublicAPI(t)

	w := suite.get("/public/articles/2024/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetPublicArticleLoginRequired(t *testing.T) {
	suite := setupPublicAPI(t)

	publish := time.Now().Add(-time.Hour)
	suite.createArticle(t, "members-only", publish, true)

	path := fmt.Sprintf("/public/articles/%d/members-only", publish.Year())

	w := suite.get(path, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = suite.get(path, suite.token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetPublicArticlesListsActiveOnly(t *testing.T) {
	suite := setupPublicAPI(t)

	suite.createArticle(t, "visible", time.Now().Add(-time.Hour), false)
	suite.createArticle(t, "upcoming", time.Now().Add(24*time.Hour), false)

	w := suite.get("/public/articles", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Articles []models.Article `json:"articles"`
		Total    int64            `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(1), body.Total)
	require.Len(t, body.Articles, 1)
	assert.Equal(t, "visible", body.Articles[0].Slug)
}

func TestGetTagArticles(t *testing.T) {
	suite := setupPublicAPI(t)

	suite.createArticle(t, "tagged-post", time.Now().Add(-time.Hour), false)

	w := suite.get("/public/tags/testing/articles", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Total int64 `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(1), body.Data.Total)
}
