package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"articles-cms/models"
)

// Application settings with their historical defaults. LoadSettings applies
// the environment overrides once the .env file has been read.
var (
	TeaserWordLimit    = 75
	DefaultMarkup      = models.MarkupHTML
	UseAddthisButton   = true
	AddthisUseAuthor   = true
	DefaultAddthisUser = ""
	SiteName           = "example"
	SiteDomain         = "example.com"
	LinkFetchTimeout   = 10 * time.Second
)

// LoadSettings reads optional environment overrides for the settings above.
func LoadSettings() {
	if v := os.Getenv("ARTICLES_TEASER_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			TeaserWordLimit = n
		}
	}
	if v := os.Getenv("ARTICLE_MARKUP_DEFAULT"); v != "" {
		DefaultMarkup = models.MarkupType(v)
	}
	UseAddthisButton = envBool("USE_ADDTHIS_BUTTON", UseAddthisButton)
	AddthisUseAuthor = envBool("ADDTHIS_USE_AUTHOR", AddthisUseAuthor)
	if v := os.Getenv("DEFAULT_ADDTHIS_USER"); v != "" {
		DefaultAddthisUser = v
	}
	if v := os.Getenv("SITE_NAME"); v != "" {
		SiteName = v
	}
	if v := os.Getenv("SITE_DOMAIN"); v != "" {
		SiteDomain = v
	}
	if v := os.Getenv("LINK_FETCH_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			LinkFetchTimeout = time.Duration(n) * time.Second
		}
	}
}

// InitDB opens the postgres connection and migrates the schema.
func InitDB() *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		env("DB_HOST", "localhost"),
		env("DB_PORT", "5432"),
		env("DB_USER", "postgres"),
		env("DB_PASSWORD", ""),
		env("DB_NAME", "articles"))

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := db.AutoMigrate(&models.User{}, &models.Site{}, &models.Tag{}, &models.Article{}); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate schema")
	}

	return db
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
