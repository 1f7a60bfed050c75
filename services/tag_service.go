package services

import (
	"errors"

	"gorm.io/gorm"

	"articles-cms/models"
	"articles-cms/repositories"
)

type TagService interface {
	CreateTag(req models.CreateTagRequest) (*models.Tag, error)
	GetTags() ([]models.Tag, error)
	GetTag(id uint) (*models.Tag, error)
	DeleteTag(id uint) error
	GetArticlesByTag(name string, params models.ArticleListParams, isPublic bool) ([]models.Article, int64, error)
}

type tagService struct {
	tagRepo     repositories.TagRepository
	articleRepo repositories.ArticleRepository
}

func NewTagService(tagRepo repositories.TagRepository, articleRepo repositories.ArticleRepository) TagService {
	return &tagService{
		tagRepo:     tagRepo,
		articleRepo: articleRepo,
	}
}

func (s *tagService) CreateTag(req models.CreateTagRequest) (*models.Tag, error) {
	name := models.NormalizeTagName(req.Name)
	if name == "" {
		return nil, errors.New("tag name is empty after normalization")
	}

	_, err := s.tagRepo.GetByName(name)
	if err == nil {
		return nil, errors.New("tag already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tag := &models.Tag{Name: name}
	if err := s.tagRepo.Create(tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *tagService) GetTags() ([]models.Tag, error) {
	return s.tagRepo.GetAll()
}

func (s *tagService) GetTag(id uint) (*models.Tag, error) {
	return s.tagRepo.GetByID(id)
}

func (s *tagService) DeleteTag(id uint) error {
	return s.tagRepo.Delete(id)
}

// GetArticlesByTag lists the articles carrying a tag, addressed by its
// normalized name.
func (s *tagService) GetArticlesByTag(name string, params models.ArticleListParams, isPublic bool) ([]models.Article, int64, error) {
	params.Tag = name
	return s.articleRepo.GetList(params, isPublic)
}
