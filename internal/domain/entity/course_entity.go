package entity

import (
	"math"
	"time"
)

type VideoResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type Video struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	URL         string          `json:"url"`
	Resources   []VideoResource `json:"resources"`
}

type Course struct {
	ID           string    `json:"_id"`
	Title        string    `json:"title"`
	Level        string    `json:"level"`
	Category     string    `json:"category"`
	Language     string    `json:"language"`
	Duration     float64   `json:"duration"`
	Price        float64   `json:"price"`
	Description  string    `json:"description"`
	Tags         []string  `json:"tags"`
	Thumbnail    string    `json:"thumbnail"`
	Videos       []Video   `json:"videos,omitempty"`
	InstructorID string    `json:"instructorId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Instructor is the public projection of a course author.
type Instructor struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CourseFilter narrows catalog listings. Empty fields do not filter.
type CourseFilter struct {
	Category string
	Level    string
	Language string
	Search   string
}

// Page is a 1-based page request.
type Page struct {
	Page  int
	Limit int
}

// Skip is the number of rows before the page. It saturates at
// math.MaxInt64 instead of wrapping.
func (p Page) Skip() int64 {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	n, l := int64(p.Page-1), int64(p.Limit)
	if n > math.MaxInt64/l {
		return math.MaxInt64
	}
	return n * l
}

// Pages returns ceil(total/limit).
func (p Page) Pages(total int64) int64 {
	if p.Limit <= 0 {
		return 0
	}
	return (total + int64(p.Limit) - 1) / int64(p.Limit)
}
