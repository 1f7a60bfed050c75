package repositories

import (
	"articles-cms/models"

	"gorm.io/gorm"
)

type SiteRepository interface {
	GetOrCreate(domain, name string) (*models.Site, error)
	GetAll() ([]models.Site, error)
}

type siteRepository struct {
	db *gorm.DB
}

func NewSiteRepository(db *gorm.DB) SiteRepository {
	return &siteRepository{db: db}
}

// GetOrCreate fetches the site record for a domain, creating it on first use.
// This is how the configured current site comes into being.
func (r *siteRepository) GetOrCreate(domain, name string) (*models.Site, error) {
	var site models.Site
	err := r.db.Where("domain = ?", domain).
		FirstOrCreate(&site, models.Site{Domain: domain, Name: name}).Error
	if err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *siteRepository) GetAll() ([]models.Site, error) {
	var sites []models.Site
	err := r.db.Order("domain asc").Find(&sites).Error
	return sites, err
}
