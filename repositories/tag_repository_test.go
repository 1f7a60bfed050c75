package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"articles-cms/models"
)

func setupTagRepo(t *testing.T) TagRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Tag{}))

	return NewTagRepository(db)
}

func TestTagCreateNormalizesName(t *testing.T) {
	repo := setupTagRepo(t)

	tag := &models.Tag{Name: "Clean Code!"}
	require.NoError(t, repo.Create(tag))
	assert.Equal(t, "clean-code", tag.Name)
}

func TestGetOrCreateReusesNormalizedRow(t *testing.T) {
	repo := setupTagRepo(t)

	first, err := repo.GetOrCreate("Go Lang")
	require.NoError(t, err)
	assert.Equal(t, "go-lang", first.Name)

	second, err := repo.GetOrCreate("go-lang")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	tags, err := repo.GetAll()
	require.NoError(t, err)
	assert.Len(t, tags, 1)
}

func TestGetByNameNormalizesLookup(t *testing.T) {
	repo := setupTagRepo(t)

	_, err := repo.GetOrCreate("gopher")
	require.NoError(t, err)

	tag, err := repo.GetByName("GOPHER")
	require.NoError(t, err)
	assert.Equal(t, "gopher", tag.Name)
}
