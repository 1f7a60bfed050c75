package repositories

import (
	"errors"
	"fmt"
	"time"

	"articles-cms/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ArticleRepository interface {
	Create(article *models.Article) error
	Update(article *models.Article) error
	GetByID(id uint) (*models.Article, error)
	GetBySlugAndYear(slug string, year int) (*models.Article, error)
	GetList(params models.ArticleListParams, activeOnly bool) ([]models.Article, int64, error)
	Delete(id uint) error
	SlugTakenInYear(slug string, year int, excludeID uint) (bool, error)
	NextActive(article *models.Article) (*models.Article, error)
	PreviousActive(article *models.Article) (*models.Article, error)
	ReplaceTags(article *models.Article, tags []models.Tag) error
	ReplaceSites(article *models.Article, sites []models.Site) error
	SiteCount(article *models.Article) int64
	AddFollowupFor(article, target *models.Article) error
	AddRelated(article, other *models.Article) error
}

type articleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

// activeWindow limits a query to articles that are active, already published
// and not yet expired.
func activeWindow(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("is_active = ?", true).
			Where("publish_date <= ?", now).
			Where("expiration_date IS NULL OR expiration_date >= ?", now)
	}
}

func yearBounds(year int) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0)
}

func (r *articleRepository) Create(article *models.Article) error {
	return r.db.Create(article).Error
}

// Update persists the article row itself. Associations are managed through
// the Replace/Add methods so a save never cascades into related records.
func (r *articleRepository) Update(article *models.Article) error {
	return r.db.Omit(clause.Associations).Save(article).Error
}

func (r *articleRepository) GetByID(id uint) (*models.Article, error) {
	var article models.Article
	err := r.db.Preload("Author").
		Preload("Tags").
		Preload("Sites").
		Preload("FollowupFor").
		Preload("RelatedArticles").
		First(&article, id).Error
	if err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) GetBySlugAndYear(slug string, year int) (*models.Article, error) {
	start, end := yearBounds(year)

	var article models.Article
	err := r.db.Preload("Author").
		Preload("Tags").
		Preload("Sites").
		Preload("FollowupFor").
		Preload("RelatedArticles").
		Where("slug = ?", slug).
		Where("publish_date >= ? AND publish_date < ?", start, end).
		First(&article).Error
	if err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) GetList(params models.ArticleListParams, activeOnly bool) ([]models.Article, int64, error) {
	var articles []models.Article
	var total int64

	query := r.db.Model(&models.Article{}).Preload("Author").Preload("Tags")

	if activeOnly {
		query = query.Scopes(activeWindow(time.Now()))
	}

	if params.Tag != "" {
		query = query.Joins("JOIN article_tags ON article_tags.article_id = articles.id").
			Joins("JOIN tags ON tags.id = article_tags.tag_id").
			Where("tags.name = ?", models.NormalizeTagName(params.Tag))
	}

	if params.AuthorID > 0 {
		query = query.Where("author_id = ?", params.AuthorID)
	}

	if params.Year > 0 {
		start, end := yearBounds(params.Year)
		query = query.Where("publish_date >= ? AND publish_date < ?", start, end)
	}

	query.Count(&total)

	sortBy := params.SortBy
	if sortBy == "" {
		sortBy = "publish_date"
	}
	sortOrder := params.SortOrder
	if sortOrder == "" {
		sortOrder = "desc"
	}
	query = query.Order(fmt.Sprintf("articles.%s %s", sortBy, sortOrder)).Order("articles.title asc")

	offset := (params.Page - 1) * params.Limit
	err := query.Offset(offset).Limit(params.Limit).Find(&articles).Error

	return articles, total, err
}

func (r *articleRepository) Delete(id uint) error {
	return r.db.Delete(&models.Article{}, id).Error
}

func (r *articleRepository) SlugTakenInYear(slug string, year int, excludeID uint) (bool, error) {
	start, end := yearBounds(year)

	var count int64
	query := r.db.Model(&models.Article{}).
		Where("slug = ?", slug).
		Where("publish_date >= ? AND publish_date < ?", start, end)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}

	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// NextActive finds the earliest active article published at or after this
// one. Equal publish timestamps are broken by id ascending.
func (r *articleRepository) NextActive(article *models.Article) (*models.Article, error) {
	var next models.Article
	err := r.db.Scopes(activeWindow(time.Now())).
		Where("id <> ?", article.ID).
		Where("publish_date >= ?", article.PublishDate).
		Order("publish_date asc").Order("id asc").
		First(&next).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &next, nil
}

// PreviousActive mirrors NextActive: the latest active article published at
// or before this one, ties broken by id descending.
func (r *articleRepository) PreviousActive(article *models.Article) (*models.Article, error) {
	var previous models.Article
	err := r.db.Scopes(activeWindow(time.Now())).
		Where("id <> ?", article.ID).
		Where("publish_date <= ?", article.PublishDate).
		Order("publish_date desc").Order("id desc").
		First(&previous).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &previous, nil
}

func (r *articleRepository) ReplaceTags(article *models.Article, tags []models.Tag) error {
	return r.db.Model(article).Association("Tags").Replace(tags)
}

func (r *articleRepository) ReplaceSites(article *models.Article, sites []models.Site) error {
	return r.db.Model(article).Association("Sites").Replace(sites)
}

func (r *articleRepository) SiteCount(article *models.Article) int64 {
	return r.db.Model(article).Association("Sites").Count()
}

func (r *articleRepository) AddFollowupFor(article, target *models.Article) error {
	return r.db.Model(article).Association("FollowupFor").Append(target)
}

// AddRelated writes the association in both directions so related lookups
// stay a single-column read.
func (r *articleRepository) AddRelated(article, other *models.Article) error {
	if err := r.db.Model(article).Association("RelatedArticles").Append(other); err != nil {
		return err
	}
	return r.db.Model(other).Association("RelatedArticles").Append(article)
}
