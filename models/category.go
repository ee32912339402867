package models

import (
	"time"
)

type Category struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Slug        string    `json:"slug" gorm:"uniqueIndex"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`

	// Rempli à la sérialisation, jamais stocké
	PostsCount int64 `json:"postsCount" gorm:"-"`
}

type CategoryCreate struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (Category) TableName() string {
	return "categories"
}
