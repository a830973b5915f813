package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoginRequest is the payload for password login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the minted access token and the user it belongs to.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *User  `json:"user"`
}

// ChangePasswordRequest is the payload for changing the current password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// CreateUserRequest is the admin payload for creating a user.
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50,alphanum"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"omitempty,max=100"`
	IsActive *bool  `json:"is_active"`
	IsAdmin  *bool  `json:"is_admin"`
}

// UpdateUserRequest is the admin payload for updating a user. Nil fields
// are left untouched.
type UpdateUserRequest struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=50,alphanum"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=8"`
	FullName *string `json:"full_name" binding:"omitempty,max=100"`
	IsActive *bool   `json:"is_active"`
	IsAdmin  *bool   `json:"is_admin"`
}

// ProjectFilter captures the query parameters of the project listing.
type ProjectFilter struct {
	Category         string
	IsFeatured       *bool
	Search           string
	ComplexityLevels []string
	MinPrice         *decimal.Decimal
	MaxPrice         *decimal.Decimal
	MinHours         *int
	MaxHours         *int
}

// CreateProjectRequest is the payload for creating a project.
type CreateProjectRequest struct {
	Title                  string              `json:"title" binding:"required,max=200"`
	Description            string              `json:"description"`
	Category               string              `json:"category" binding:"required,max=50"`
	IsFeatured             bool                `json:"is_featured"`
	Images                 []string            `json:"images"`
	Metadata               map[string]any      `json:"metadata"`
	EstimatedPrice         decimal.NullDecimal `json:"estimated_price"`
	EstimatedDurationHours *int                `json:"estimated_duration_hours" binding:"omitempty,min=0"`
	ComplexityLevel        string              `json:"complexity_level" binding:"omitempty,oneof=simple medium complex"`
	PriceRangeMin          decimal.NullDecimal `json:"price_range_min"`
	PriceRangeMax          decimal.NullDecimal `json:"price_range_max"`
}

// UpdateProjectRequest is the payload for updating a project.
type UpdateProjectRequest struct {
	Title                  *string             `json:"title" binding:"omitempty,max=200"`
	Description            *string             `json:"description"`
	Category               *string             `json:"category" binding:"omitempty,max=50"`
	IsFeatured             *bool               `json:"is_featured"`
	Images                 []string            `json:"images"`
	Metadata               map[string]any      `json:"metadata"`
	EstimatedPrice         decimal.NullDecimal `json:"estimated_price"`
	EstimatedDurationHours *int                `json:"estimated_duration_hours" binding:"omitempty,min=0"`
	ComplexityLevel        *string             `json:"complexity_level" binding:"omitempty,oneof=simple medium complex"`
	PriceRangeMin          decimal.NullDecimal `json:"price_range_min"`
	PriceRangeMax          decimal.NullDecimal `json:"price_range_max"`
}

// CreateServiceRequest is the payload for creating a service.
type CreateServiceRequest struct {
	Name        string   `json:"name" binding:"required,max=100"`
	Description string   `json:"description"`
	Category    string   `json:"category" binding:"omitempty,max=50"`
	Features    []string `json:"features"`
	Icon        string   `json:"icon" binding:"omitempty,max=50"`
	IsActive    *bool    `json:"is_active"`
}

// UpdateServiceRequest is the payload for updating a service.
type UpdateServiceRequest struct {
	Name        *string  `json:"name" binding:"omitempty,max=100"`
	Description *string  `json:"description"`
	Category    *string  `json:"category" binding:"omitempty,max=50"`
	Features    []string `json:"features"`
	Icon        *string  `json:"icon" binding:"omitempty,max=50"`
	IsActive    *bool    `json:"is_active"`
}

// CreateColorRequest is the payload for creating a color.
type CreateColorRequest struct {
	Name              string         `json:"name" binding:"required,max=100"`
	Type              string         `json:"type" binding:"required,oneof=solid gradient metallic"`
	HexCode           string         `json:"hex_code" binding:"omitempty,hexcolor"`
	GradientColors    []GradientStop `json:"gradient_colors"`
	GradientDirection string         `json:"gradient_direction" binding:"omitempty,oneof=linear radial"`
	MetallicBase      string         `json:"metallic_base" binding:"omitempty,hexcolor"`
	MetallicIntensity *float64       `json:"metallic_intensity" binding:"omitempty,min=0,max=1"`
	IsActive          *bool          `json:"is_active"`
	IsNew             *bool          `json:"is_new"`
	SortOrder         int            `json:"sort_order"`
	PriceModifier     *float64       `json:"price_modifier" binding:"omitempty,gt=0"`
}

// UpdateColorRequest is the payload for updating a color.
type UpdateColorRequest struct {
	Name              *string        `json:"name" binding:"omitempty,max=100"`
	Type              *string        `json:"type" binding:"omitempty,oneof=solid gradient metallic"`
	HexCode           *string        `json:"hex_code" binding:"omitempty,hexcolor"`
	GradientColors    []GradientStop `json:"gradient_colors"`
	GradientDirection *string        `json:"gradient_direction" binding:"omitempty,oneof=linear radial"`
	MetallicBase      *string        `json:"metallic_base" binding:"omitempty,hexcolor"`
	MetallicIntensity *float64       `json:"metallic_intensity" binding:"omitempty,min=0,max=1"`
	IsActive          *bool          `json:"is_active"`
	IsNew             *bool          `json:"is_new"`
	SortOrder         *int           `json:"sort_order"`
	PriceModifier     *float64       `json:"price_modifier" binding:"omitempty,gt=0"`
}

// CreateOrderRequest is the public payload for placing an order.
type CreateOrderRequest struct {
	CustomerName       string              `json:"customer_name" binding:"required,max=100"`
	CustomerEmail      string              `json:"customer_email" binding:"required,email"`
	CustomerPhone      string              `json:"customer_phone" binding:"omitempty,max=50"`
	AlternativeContact string              `json:"alternative_contact" binding:"omitempty,max=200"`
	ServiceID          uuid.UUID           `json:"service_id" binding:"required"`
	CustomerID         *uuid.UUID          `json:"customer_id"`
	Specifications     map[string]any      `json:"specifications"`
	TotalPrice         decimal.NullDecimal `json:"total_price"`
	Source             string              `json:"source" binding:"required,oneof=web telegram"`
	Notes              string              `json:"notes"`
	DeliveryNeeded     bool                `json:"delivery_needed"`
	DeliveryDetails    string              `json:"delivery_details"`
}

// UpdateOrderRequest is the admin payload for updating an order.
type UpdateOrderRequest struct {
	Status          *string             `json:"status" binding:"omitempty,oneof=new confirmed in_progress completed cancelled"`
	TotalPrice      decimal.NullDecimal `json:"total_price"`
	Notes           *string             `json:"notes"`
	DeliveryNeeded  *bool               `json:"delivery_needed"`
	DeliveryDetails *string             `json:"delivery_details"`
	Specifications  map[string]any      `json:"specifications"`
}

// CreateArticleRequest is the payload for creating an article.
type CreateArticleRequest struct {
	Title         string     `json:"title" binding:"required,max=200"`
	Content       string     `json:"content" binding:"required"`
	Excerpt       string     `json:"excerpt"`
	FeaturedImage string     `json:"featured_image" binding:"omitempty,max=255"`
	Category      string     `json:"category" binding:"required,max=50"`
	Slug          string     `json:"slug" binding:"required,max=255"`
	Tags          []string   `json:"tags"`
	Status        string     `json:"status" binding:"omitempty,oneof=draft published"`
	PublishedAt   *time.Time `json:"published_at"`
}

// UpdateArticleRequest is the payload for updating an article.
type UpdateArticleRequest struct {
	Title         *string  `json:"title" binding:"omitempty,max=200"`
	Content       *string  `json:"content"`
	Excerpt       *string  `json:"excerpt"`
	FeaturedImage *string  `json:"featured_image" binding:"omitempty,max=255"`
	Category      *string  `json:"category" binding:"omitempty,max=50"`
	Slug          *string  `json:"slug" binding:"omitempty,max=255"`
	Tags          []string `json:"tags"`
	Status        *string  `json:"status" binding:"omitempty,oneof=draft published"`
}

// CreateCategoryRequest is the payload for creating a category.
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	Slug        string `json:"slug" binding:"required,max=100"`
	Type        string `json:"type" binding:"required,oneof=article project service"`
	IsActive    *bool  `json:"is_active"`
}

// UpdateCategoryRequest is the payload for updating a category.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=100"`
	Description *string `json:"description"`
	Slug        *string `json:"slug" binding:"omitempty,max=100"`
	Type        *string `json:"type" binding:"omitempty,oneof=article project service"`
	IsActive    *bool   `json:"is_active"`
}

// CreateReviewRequest is the public payload for submitting a review.
type CreateReviewRequest struct {
	CustomerName  string        `json:"customer_name" binding:"required,max=100"`
	CustomerEmail string        `json:"customer_email" binding:"required,email"`
	Rating        int           `json:"rating" binding:"required,min=1,max=5"`
	Title         string        `json:"title" binding:"omitempty,max=200"`
	Content       string        `json:"content" binding:"required"`
	Images        []ReviewImage `json:"images"`
}

// UpdateReviewRequest is the admin payload for editing a review.
type UpdateReviewRequest struct {
	CustomerName *string       `json:"customer_name" binding:"omitempty,max=100"`
	Rating       *int          `json:"rating" binding:"omitempty,min=1,max=5"`
	Title        *string       `json:"title" binding:"omitempty,max=200"`
	Content      *string       `json:"content"`
	Images       []ReviewImage `json:"images"`
	IsApproved   *bool         `json:"is_approved"`
	IsFeatured   *bool         `json:"is_featured"`
}

// ModerateReviewRequest is the admin payload for moderating a review.
type ModerateReviewRequest struct {
	IsApproved *bool `json:"is_approved"`
	IsFeatured *bool `json:"is_featured"`
}

// CreateContactRequest is the public payload for the contact form.
type CreateContactRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"omitempty,max=20"`
	Subject string `json:"subject" binding:"required,max=200"`
	Message string `json:"message" binding:"required"`
}

// UpdateContactRequest is the admin payload for editing a contact request.
type UpdateContactRequest struct {
	Status     *string `json:"status" binding:"omitempty,oneof=new in_progress resolved closed"`
	AdminNotes *string `json:"admin_notes"`
}

// UpsertContentRequest is the admin payload for CMS content entries.
type UpsertContentRequest struct {
	Key         string         `json:"key" binding:"omitempty,max=255"`
	ContentType string         `json:"content_type" binding:"omitempty,oneof=text html json image_url"`
	Content     string         `json:"content"`
	JSONContent map[string]any `json:"json_content"`
	Description string         `json:"description" binding:"omitempty,max=500"`
	GroupName   string         `json:"group_name" binding:"omitempty,max=100"`
	IsActive    *bool          `json:"is_active"`
	SortOrder   int            `json:"sort_order"`
}

// UpsertPageRequest is the admin payload for CMS pages.
type UpsertPageRequest struct {
	Slug            string         `json:"slug" binding:"omitempty,max=255"`
	Title           string         `json:"title" binding:"required,max=255"`
	MetaTitle       string         `json:"meta_title" binding:"omitempty,max=255"`
	MetaDescription string         `json:"meta_description"`
	Content         map[string]any `json:"content"`
	IsActive        *bool          `json:"is_active"`
	PageType        string         `json:"page_type" binding:"omitempty,max=50"`
}

// UpsertSettingRequest is the admin payload for site settings.
type UpsertSettingRequest struct {
	Key         string `json:"key" binding:"omitempty,max=100"`
	Value       string `json:"value"`
	ValueType   string `json:"value_type" binding:"omitempty,oneof=text json boolean number"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"omitempty,max=50"`
	IsPublic    *bool  `json:"is_public"`
}
