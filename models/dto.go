package models

import "time"

type RegisterRequest struct {
	Username  string   `json:"username" binding:"required,min=3,max=50"`
	Email     string   `json:"email" binding:"required,email"`
	Password  string   `json:"password" binding:"required,min=6"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Role      UserRole `json:"role,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type CreateArticleRequest struct {
	Title          string     `json:"title" binding:"required,min=1,max=100"`
	Slug           string     `json:"slug" binding:"required,min=1,max=100"`
	Markup         string     `json:"markup,omitempty"`
	Content        string     `json:"content" binding:"required"`
	Keywords       string     `json:"keywords"`
	Description    string     `json:"description"`
	Tags           []string   `json:"tags"`
	PublishDate    *time.Time `json:"publish_date"`
	ExpirationDate *time.Time `json:"expiration_date"`
	LoginRequired  bool       `json:"login_required"`
}

type UpdateArticleRequest struct {
	Title          string     `json:"title" binding:"required,min=1,max=100"`
	Slug           string     `json:"slug"`
	Markup         string     `json:"markup,omitempty"`
	Content        string     `json:"content" binding:"required"`
	Keywords       string     `json:"keywords"`
	Description    string     `json:"description"`
	Tags           []string   `json:"tags"`
	PublishDate    *time.Time `json:"publish_date"`
	ExpirationDate *time.Time `json:"expiration_date"`
	LoginRequired  bool       `json:"login_required"`
}

type ArticleRefRequest struct {
	ArticleID uint `json:"article_id" binding:"required"`
}

type CreateTagRequest struct {
	Name string `json:"name" binding:"required,min=1,max=64"`
}

type ArticleListParams struct {
	Tag       string `form:"tag"`
	AuthorID  uint   `form:"author_id"`
	Year      int    `form:"year"`
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=10"`
	SortBy    string `form:"sort_by,default=publish_date"`
	SortOrder string `form:"sort_order,default=desc"`
}
