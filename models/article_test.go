package models

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wordsOf(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(words, " ")
}

func TestTeaserShortTextUnchanged(t *testing.T) {
	article := &Article{RenderedContent: wordsOf(75)}
	assert.Equal(t, article.RenderedContent, article.Teaser(75))
}

func TestTeaserCutsLongText(t *testing.T) {
	long := wordsOf(76)
	article := &Article{RenderedContent: long}

	want := strings.Join(strings.Split(long, " ")[:75], " ") + "..."
	assert.Equal(t, want, article.Teaser(75))
}

func TestTeaserPrefersDescription(t *testing.T) {
	article := &Article{
		Description:     "a short description",
		RenderedContent: wordsOf(200),
	}
	assert.Equal(t, "a short description", article.Teaser(75))
}

func TestTeaserMemoized(t *testing.T) {
	article := &Article{Description: "original"}
	assert.Equal(t, "original", article.Teaser(75))

	article.Description = "changed afterwards"
	assert.Equal(t, "original", article.Teaser(75))
}

func TestKeywordsFromTagsKeepsOrder(t *testing.T) {
	tags := []Tag{{Name: "go"}, {Name: "rust"}}
	assert.Equal(t, "go, rust", KeywordsFromTags(tags))
	assert.Equal(t, "", KeywordsFromTags(nil))
}

func TestWordCountStripsMarkup(t *testing.T) {
	article := &Article{RenderedContent: "<p>one <b>two</b> three</p>"}
	assert.Equal(t, 3, article.WordCount())
}

func TestExpiredAndActiveNow(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	article := &Article{IsActive: true, PublishDate: past}
	assert.False(t, article.Expired(now))
	assert.True(t, article.ActiveNow(now))

	article.ExpirationDate = &past
	assert.True(t, article.Expired(now))
	assert.False(t, article.ActiveNow(now))

	article.ExpirationDate = &future
	assert.True(t, article.ActiveNow(now))

	article.PublishDate = future
	assert.False(t, article.ActiveNow(now))

	article.PublishDate = past
	article.IsActive = false
	assert.False(t, article.ActiveNow(now))
}

func TestNextMemoizesResult(t *testing.T) {
	article := &Article{ID: 1}
	other := &Article{ID: 2}

	calls := 0
	resolve := func() (*Article, error) {
		calls++
		return other, nil
	}

	got, err := article.Next(resolve)
	require.NoError(t, err)
	assert.Same(t, other, got)

	got, err = article.Next(resolve)
	require.NoError(t, err)
	assert.Same(t, other, got)
	assert.Equal(t, 1, calls)
}

func TestNextMemoizesNil(t *testing.T) {
	article := &Article{ID: 1}

	calls := 0
	resolve := func() (*Article, error) {
		calls++
		return nil, nil
	}

	for i := 0; i < 2; i++ {
		got, err := article.Next(resolve)
		require.NoError(t, err)
		assert.Nil(t, got)
	}
	assert.Equal(t, 1, calls)
}

func TestPreviousDoesNotMemoizeErrors(t *testing.T) {
	article := &Article{ID: 1}
	boom := errors.New("db down")

	calls := 0
	resolve := func() (*Article, error) {
		calls++
		if calls == 1 {
			return nil, boom
		}
		return &Article{ID: 9}, nil
	}

	_, err := article.Previous(resolve)
	assert.ErrorIs(t, err, boom)

	got, err := article.Previous(resolve)
	require.NoError(t, err)
	assert.Equal(t, uint(9), got.ID)
}
