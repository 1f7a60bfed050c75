package services

import (
	"errors"
	"strings"
	"time"

	"articles-cms/config"
	"articles-cms/markup"
	"articles-cms/models"
	"articles-cms/repositories"
)

type ArticleService interface {
	CreateArticle(req models.CreateArticleRequest, userID uint) (*models.Article, error)
	UpdateArticle(id uint, req models.UpdateArticleRequest, userID uint) (*models.Article, error)
	GetArticle(id uint) (*models.Article, error)
	GetArticleBySlug(year int, slug string) (*models.Article, error)
	GetArticles(params models.ArticleListParams, isPublic bool) ([]models.Article, int64, error)
	DeleteArticle(id uint, userID uint) error
	AddFollowup(articleID, targetID, userID uint) error
	AddRelated(articleID, otherID, userID uint) error
	NextArticle(article *models.Article) (*models.Article, error)
	PreviousArticle(article *models.Article) (*models.Article, error)
	ArticleLinks(article *models.Article) []Link
}

type articleService struct {
	articleRepo repositories.ArticleRepository
	tagRepo     repositories.TagRepository
	siteRepo    repositories.SiteRepository
	userRepo    repositories.UserRepository
	links       LinkResolver
}

func NewArticleService(
	articleRepo repositories.ArticleRepository,
	tagRepo repositories.TagRepository,
	siteRepo repositories.SiteRepository,
	userRepo repositories.UserRepository,
	links LinkResolver,
) ArticleService {
	return &articleService{
		articleRepo: articleRepo,
		tagRepo:     tagRepo,
		siteRepo:    siteRepo,
		userRepo:    userRepo,
		links:       links,
	}
}

func (s *articleService) CreateArticle(req models.CreateArticleRequest, userID uint) (*models.Article, error) {
	dialect := models.MarkupType(req.Markup)
	if dialect == "" {
		dialect = config.DefaultMarkup
	}

	publish := time.Now()
	if req.PublishDate != nil {
		publish = *req.PublishDate
	}

	taken, err := s.articleRepo.SlugTakenInYear(req.Slug, publish.Year(), 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errors.New("slug already used for this publish year")
	}

	article := &models.Article{
		Title:            req.Title,
		Slug:             req.Slug,
		AuthorID:         userID,
		Keywords:         req.Keywords,
		Description:      req.Description,
		Markup:           dialect,
		Content:          req.Content,
		PublishDate:      publish,
		ExpirationDate:   req.ExpirationDate,
		IsActive:         true,
		LoginRequired:    req.LoginRequired,
		UseAddthisButton: config.UseAddthisButton,
		AddthisUseAuthor: config.AddthisUseAuthor,
		AddthisUsername:  config.DefaultAddthisUser,
	}

	if err := s.save(article, req.Tags); err != nil {
		return nil, err
	}

	return s.articleRepo.GetByID(article.ID)
}

func (s *articleService) UpdateArticle(id uint, req models.UpdateArticleRequest, userID uint) (*models.Article, error) {
	article, err := s.articleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if article.AuthorID != userID {
		return nil, errors.New("unauthorized")
	}

	article.Title = req.Title
	article.Content = req.Content
	article.Keywords = req.Keywords
	article.Description = req.Description
	article.LoginRequired = req.LoginRequired
	article.ExpirationDate = req.ExpirationDate
	if req.Markup != "" {
		article.Markup = models.MarkupType(req.Markup)
	}
	if req.PublishDate != nil {
		article.PublishDate = *req.PublishDate
	}
	if req.Slug != "" && req.Slug != article.Slug {
		taken, err := s.articleRepo.SlugTakenInYear(req.Slug, article.PublishDate.Year(), article.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, errors.New("slug already used for this publish year")
		}
		article.Slug = req.Slug
	}

	if err := s.save(article, req.Tags); err != nil {
		return nil, err
	}

	return s.articleRepo.GetByID(article.ID)
}

func (s *articleService) GetArticle(id uint) (*models.Article, error) {
	article, err := s.articleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.afterLoad(article); err != nil {
		return nil, err
	}
	return article, nil
}

func (s *articleService) GetArticleBySlug(year int, slug string) (*models.Article, error) {
	article, err := s.articleRepo.GetBySlugAndYear(slug, year)
	if err != nil {
		return nil, err
	}
	if err := s.afterLoad(article); err != nil {
		return nil, err
	}
	return article, nil
}

func (s *articleService) GetArticles(params models.ArticleListParams, isPublic bool) ([]models.Article, int64, error) {
	return s.articleRepo.GetList(params, isPublic)
}

func (s *articleService) DeleteArticle(id uint, userID uint) error {
	article, err := s.articleRepo.GetByID(id)
	if err != nil {
		return err
	}
	if article.AuthorID != userID {
		return errors.New("unauthorized")
	}
	return s.articleRepo.Delete(id)
}

func (s *articleService) AddFollowup(articleID, targetID, userID uint) error {
	article, target, err := s.pairForAuthor(articleID, targetID, userID)
	if err != nil {
		return err
	}
	return s.articleRepo.AddFollowupFor(article, target)
}

func (s *articleService) AddRelated(articleID, otherID, userID uint) error {
	article, other, err := s.pairForAuthor(articleID, otherID, userID)
	if err != nil {
		return err
	}
	return s.articleRepo.AddRelated(article, other)
}

// NextArticle resolves the adjacent active article published after this one,
// memoized on the instance.
func (s *articleService) NextArticle(article *models.Article) (*models.Article, error) {
	return article.Next(func() (*models.Article, error) {
		return s.articleRepo.NextActive(article)
	})
}

func (s *articleService) PreviousArticle(article *models.Article) (*models.Article, error) {
	return article.Previous(func() (*models.Article, error) {
		return s.articleRepo.PreviousActive(article)
	})
}

func (s *articleService) ArticleLinks(article *models.Article) []Link {
	return s.links.ResolveLinks(article.RenderedContent)
}

// save runs the full save lifecycle: render the content, default the AddThis
// username to the author's, persist the record, then fill any derived fields
// that need the record to already exist (keywords from tags, description from
// the teaser, the default site) and persist a second time if anything was
// derived. A nil tagNames leaves the current tag set untouched.
func (s *articleService) save(article *models.Article, tagNames []string) error {
	rendered, err := markup.Render(article.Markup, article.Content)
	if err != nil {
		return err
	}
	article.RenderedContent = rendered

	if article.UseAddthisButton && article.AddthisUseAuthor && article.AddthisUsername == "" {
		author, err := s.userRepo.GetByID(article.AuthorID)
		if err != nil {
			return err
		}
		article.AddthisUsername = author.Username
	}

	if article.ID == 0 {
		if err := s.articleRepo.Create(article); err != nil {
			return err
		}
	} else {
		if err := s.articleRepo.Update(article); err != nil {
			return err
		}
	}

	if tagNames != nil {
		tags, err := s.tagsFor(tagNames)
		if err != nil {
			return err
		}
		if err := s.articleRepo.ReplaceTags(article, tags); err != nil {
			return err
		}
		article.Tags = tags
	}

	return s.finalizeDerived(article)
}

// finalizeDerived is the second phase of a save. Relationship-backed values
// can only be derived once the record has a durable identity.
func (s *articleService) finalizeDerived(article *models.Article) error {
	requiresSave := false

	if strings.TrimSpace(article.Keywords) == "" {
		article.Keywords = models.KeywordsFromTags(article.Tags)
		requiresSave = true
	}

	if strings.TrimSpace(article.Description) == "" {
		article.Description = article.Teaser(config.TeaserWordLimit)
		requiresSave = true
	}

	if s.articleRepo.SiteCount(article) == 0 {
		site, err := s.siteRepo.GetOrCreate(config.SiteDomain, config.SiteName)
		if err != nil {
			return err
		}
		if err := s.articleRepo.ReplaceSites(article, []models.Site{*site}); err != nil {
			return err
		}
		article.Sites = []models.Site{*site}
		requiresSave = true
	}

	if requiresSave {
		return s.articleRepo.Update(article)
	}
	return nil
}

// afterLoad enforces the load-time invariants: an expired article is switched
// off with a single write, and a blank rendered body is backfilled by a full
// save.
func (s *articleService) afterLoad(article *models.Article) error {
	if article.Expired(time.Now()) && article.IsActive {
		article.IsActive = false
		if err := s.articleRepo.Update(article); err != nil {
			return err
		}
	}

	if strings.TrimSpace(article.RenderedContent) == "" {
		return s.save(article, nil)
	}
	return nil
}

// tagsFor resolves tag names to rows, creating missing tags. Order follows
// the request so derived keywords keep insertion order.
func (s *articleService) tagsFor(names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	seen := map[string]bool{}

	for _, name := range names {
		name = models.NormalizeTagName(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		tag, err := s.tagRepo.GetOrCreate(name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}

	return tags, nil
}

func (s *articleService) pairForAuthor(articleID, otherID, userID uint) (*models.Article, *models.Article, error) {
	if articleID == otherID {
		return nil, nil, errors.New("article cannot reference itself")
	}

	article, err := s.articleRepo.GetByID(articleID)
	if err != nil {
		return nil, nil, err
	}
	if article.AuthorID != userID {
		return nil, nil, errors.New("unauthorized")
	}

	other, err := s.articleRepo.GetByID(otherID)
	if err != nil {
		return nil, nil, err
	}
	return article, other, nil
}
