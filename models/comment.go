package models

import (
	"time"
)

type Comment struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	IsActive  bool      `json:"isActive" gorm:"column:is_active;default:true;index"`
	PostID    string    `json:"postId" gorm:"column:post_id;index"`
	Post      Post      `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	AuthorID  string    `json:"authorId" gorm:"column:author_id;index"`
	Author    User      `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ParentID  *string   `json:"parentId" gorm:"column:parent_id;index"` // null = commentaire racine
	Parent    *Comment  `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Comment) TableName() string {
	return "comments"
}

// IsReply indique si le commentaire est une réponse à un autre commentaire
func (c Comment) IsReply() bool {
	return c.ParentID != nil
}

type CommentCreate struct {
	PostID   string  `json:"postId" binding:"required"`
	ParentID *string `json:"parentId"`
	Content  string  `json:"content" binding:"required"`
}

type CommentUpdate struct {
	Content string `json:"content" binding:"required"`
}

type CommentBulkActive struct {
	CommentIDs []string `json:"commentIds" binding:"required"`
	IsActive   *bool    `json:"isActive" binding:"required"`
}

// AuthorInfo est le sous-objet auteur renvoyé avec chaque commentaire
type AuthorInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar,omitempty"`
}

type CommentResponse struct {
	ID           string     `json:"id"`
	Content      string     `json:"content"`
	IsActive     bool       `json:"isActive"`
	PostID       string     `json:"postId"`
	ParentID     *string    `json:"parentId"`
	Author       AuthorInfo `json:"author"`
	RepliesCount int64      `json:"repliesCount"`
	IsReply      bool       `json:"isReply"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type CommentDetailResponse struct {
	CommentResponse
	Replies []CommentResponse `json:"replies"`
}
