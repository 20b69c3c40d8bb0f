package dto

import "time"

type BlogDTO struct {
	ID            string     `json:"_id"`
	Title         string     `json:"title" validate:"required,min=3,max=200"`
	Slug          string     `json:"slug,omitempty"`
	Content       string     `json:"content" validate:"required"`
	Excerpt       string     `json:"excerpt,omitempty" validate:"max=500"`
	Category      string     `json:"category,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	Status        string     `json:"status,omitempty" validate:"omitempty,oneof=draft published archived"`
	FeaturedImage string     `json:"featuredImage,omitempty" validate:"omitempty,url"`
	Author        string     `json:"author,omitempty"`
	PublishedAt   *time.Time `json:"publishedAt,omitempty"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

type BlogCategoryDTO struct {
	ID          string `json:"_id"`
	Name        string `json:"name" validate:"required,min=2,max=80"`
	Slug        string `json:"slug,omitempty"`
	Description string `json:"description,omitempty" validate:"max=500"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

type BlogPage struct {
	Blogs      []BlogDTO     `json:"blogs"`
	Pagination PaginationDTO `json:"pagination"`
}

// AdminAccountDTO is a staff account; Password is only sent on create.
type AdminAccountDTO struct {
	ID          string            `json:"_id"`
	Name        string            `json:"name" validate:"required,min=2"`
	Email       string            `json:"email" validate:"required,email"`
	Password    string            `json:"password,omitempty" validate:"omitempty,min=8"`
	Role        string            `json:"role" validate:"required"`
	Permissions map[string]string `json:"permissions,omitempty" validate:"dive,oneof=View Full"`
	IsActive    *bool             `json:"isActive,omitempty"`
	LastLogin   *time.Time        `json:"lastLogin,omitempty"`
	CreatedAt   *time.Time        `json:"createdAt,omitempty"`
}

type AdminPage struct {
	Admins     []AdminAccountDTO `json:"admins"`
	Pagination PaginationDTO     `json:"pagination"`
}

type ActivityLogDTO struct {
	ID          string         `json:"_id"`
	Admin       PersonDTO      `json:"admin"`
	Action      string         `json:"action"`
	Module      string         `json:"module"`
	TargetID    string         `json:"targetId,omitempty"`
	Description string         `json:"description,omitempty"`
	IPAddress   string         `json:"ipAddress,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

type ActivityLogPage struct {
	Logs       []ActivityLogDTO `json:"logs"`
	Pagination PaginationDTO    `json:"pagination"`
}

type MediaUpload struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId,omitempty"`
}
