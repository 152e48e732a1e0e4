package model

import "time"

const (
	BlogTitleMaxLen   = 100
	BlogExcerptMaxLen = 200
	DefaultBlogTag    = "general"
)

type BlogImage struct {
	PublicID string `json:"publicId"`
	URL      string `json:"url"`
}

type Blog struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Content     string     `json:"content"`
	Excerpt     string     `json:"excerpt"`
	Image       *BlogImage `json:"image,omitempty"`
	AuthorID    string     `json:"author"`
	Tags        []string   `json:"tags"`
	IsPublished bool       `json:"isPublished"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
