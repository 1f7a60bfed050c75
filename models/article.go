package models

import (
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"
)

// MarkupType selects the converter used to turn raw content into HTML.
type MarkupType string

const (
	MarkupHTML     MarkupType = "h"
	MarkupMarkdown MarkupType = "m"
	MarkupReST     MarkupType = "r"
	MarkupTextile  MarkupType = "t"
)

var htmlTagRE = regexp.MustCompile(`<[^>]*?>`)

type Article struct {
	ID       uint   `json:"id" gorm:"primarykey"`
	Title    string `json:"title" gorm:"size:100;not null"`
	Slug     string `json:"slug" gorm:"size:100;not null;index"`
	AuthorID uint   `json:"author_id" gorm:"not null"`
	Author   User   `json:"author" gorm:"foreignKey:AuthorID"`
	Sites    []Site `json:"sites,omitempty" gorm:"many2many:article_sites;"`

	// Keywords and Description may be left blank; the save lifecycle fills
	// them in from the tags and the teaser.
	Keywords    string `json:"keywords" gorm:"type:text"`
	Description string `json:"description" gorm:"type:text"`

	Markup          MarkupType `json:"markup" gorm:"size:1;default:'h'"`
	Content         string     `json:"content" gorm:"type:text"`
	RenderedContent string     `json:"rendered_content" gorm:"type:text"`

	Tags            []Tag      `json:"tags,omitempty" gorm:"many2many:article_tags;"`
	FollowupFor     []*Article `json:"followup_for,omitempty" gorm:"many2many:article_followups;"`
	RelatedArticles []*Article `json:"related_articles,omitempty" gorm:"many2many:article_related;"`

	PublishDate    time.Time  `json:"publish_date"`
	ExpirationDate *time.Time `json:"expiration_date"`

	IsActive      bool `json:"is_active" gorm:"default:true"`
	LoginRequired bool `json:"login_required"`

	UseAddthisButton bool   `json:"use_addthis_button"`
	AddthisUseAuthor bool   `json:"addthis_use_author"`
	AddthisUsername  string `json:"addthis_username" gorm:"size:50"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Lazily computed values, valid for the lifetime of this instance only.
	teaser      string
	teaserSet   bool
	next        *Article
	nextSet     bool
	previous    *Article
	previousSet bool
}

// Expired reports whether the article's expiration date has passed.
func (a *Article) Expired(now time.Time) bool {
	return a.ExpirationDate != nil && !a.ExpirationDate.After(now)
}

// ActiveNow reports whether the article is inside its publication window:
// active, published, and not expired.
func (a *Article) ActiveNow(now time.Time) bool {
	return a.IsActive && !a.PublishDate.After(now) && !a.Expired(now)
}

// Teaser returns the description, or the opening of the rendered content when
// no description was written. Text longer than wordLimit words is cut and
// given a trailing ellipsis. The result is computed once per instance and not
// re-derived if the underlying fields change afterwards.
func (a *Article) Teaser(wordLimit int) string {
	if a.teaserSet {
		return a.teaser
	}

	text := a.Description
	if strings.TrimSpace(text) == "" {
		text = a.RenderedContent
	}

	words := strings.Split(text, " ")
	if len(words) > wordLimit {
		text = strings.Join(words[:wordLimit], " ") + "..."
	}

	a.teaser = text
	a.teaserSet = true
	return a.teaser
}

// WordCount counts words in the rendered content with markup stripped.
func (a *Article) WordCount() int {
	return len(strings.Split(htmlTagRE.ReplaceAllString(a.RenderedContent, ""), " "))
}

// Next resolves the adjacent article published after this one. The resolver
// runs once; later calls return the memoized result, nil included.
func (a *Article) Next(resolve func() (*Article, error)) (*Article, error) {
	if a.nextSet {
		return a.next, nil
	}

	next, err := resolve()
	if err != nil {
		return nil, err
	}

	a.next = next
	a.nextSet = true
	return next, nil
}

// Previous is the counterpart of Next for the article published before this
// one.
func (a *Article) Previous(resolve func() (*Article, error)) (*Article, error) {
	if a.previousSet {
		return a.previous, nil
	}

	previous, err := resolve()
	if err != nil {
		return nil, err
	}

	a.previous = previous
	a.previousSet = true
	return previous, nil
}

// KeywordsFromTags joins tag names with ", " keeping the collection order.
func KeywordsFromTags(tags []Tag) string {
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	return strings.Join(names, ", ")
}
