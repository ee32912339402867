package models

import (
	"time"
)

type PostStatus string

const (
	PostDraft     PostStatus = "draft"
	PostPublished PostStatus = "published"
)

type Post struct {
	ID         string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Title      string     `json:"title" gorm:"not null"`
	Slug       string     `json:"slug" gorm:"uniqueIndex"`
	Content    string     `json:"content" gorm:"type:text"`
	Image      string     `json:"image"`
	Status     PostStatus `json:"status" gorm:"default:published;index"`
	ViewsCount int64      `json:"viewsCount" gorm:"column:views_count;default:0"`
	AuthorID   string     `json:"authorId" gorm:"column:author_id;index"`
	Author     User       `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CategoryID *string    `json:"categoryId" gorm:"column:category_id"`
	Category   *Category  `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`

	// Rempli à la sérialisation, jamais stocké
	CommentsCount int64 `json:"commentsCount" gorm:"-"`
}

type PostCreate struct {
	Title      string  `json:"title" binding:"required"`
	Content    string  `json:"content" binding:"required"`
	Image      string  `json:"image"`
	CategoryID *string `json:"categoryId"`
	Status     string  `json:"status"`
}

type PostUpdate struct {
	Title      *string `json:"title"`
	Content    *string `json:"content"`
	Image      *string `json:"image"`
	CategoryID *string `json:"categoryId"`
	Status     *string `json:"status"`
}

func (Post) TableName() string {
	return "posts"
}
