package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Complexity levels for printed projects.
const (
	ComplexitySimple  = "simple"  // 1-3 hours
	ComplexityMedium  = "medium"  // 4-8 hours
	ComplexityComplex = "complex" // 9+ hours
)

// ComplexityLevels lists the accepted complexity_level values.
var ComplexityLevels = []string{ComplexitySimple, ComplexityMedium, ComplexityComplex}

// Order lifecycle statuses.
const (
	OrderStatusNew        = "new"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusInProgress = "in_progress"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// OrderStatuses lists the accepted order status values.
var OrderStatuses = []string{
	OrderStatusNew, OrderStatusConfirmed, OrderStatusInProgress,
	OrderStatusCompleted, OrderStatusCancelled,
}

// Order sources.
const (
	OrderSourceWeb      = "web"
	OrderSourceTelegram = "telegram"
)

// Color variants.
const (
	ColorTypeSolid    = "solid"
	ColorTypeGradient = "gradient"
	ColorTypeMetallic = "metallic"
)

// ColorTypes lists the accepted color type values.
var ColorTypes = []string{ColorTypeSolid, ColorTypeGradient, ColorTypeMetallic}

// Contact request statuses.
const (
	ContactStatusNew        = "new"
	ContactStatusInProgress = "in_progress"
	ContactStatusResolved   = "resolved"
	ContactStatusClosed     = "closed"
)

// ContactStatuses lists the accepted contact request status values.
var ContactStatuses = []string{
	ContactStatusNew, ContactStatusInProgress,
	ContactStatusResolved, ContactStatusClosed,
}

// User represents a platform user. Admin users operate the dashboard,
// regular users are attached to orders they placed.
type User struct {
	ID           uuid.UUID  `json:"id" gorm:"primaryKey;type:uuid"`
	Username     string     `json:"username" gorm:"uniqueIndex;size:50"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:100"`
	PasswordHash string     `json:"-" gorm:"column:password_hash;size:255"`
	FullName     string     `json:"full_name" gorm:"size:100"`
	IsActive     bool       `json:"is_active" gorm:"default:true"`
	IsAdmin      bool       `json:"is_admin" gorm:"default:false"`
	Role         string     `json:"role" gorm:"size:20;default:user"`
	LastLogin    *time.Time `json:"last_login"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Project is a gallery entry: a previously printed model with images,
// an optional STL file and pricing estimates.
type Project struct {
	ID                     uuid.UUID           `json:"id" gorm:"primaryKey;type:uuid"`
	Title                  string              `json:"title" gorm:"size:200"`
	Description            string              `json:"description" gorm:"type:text"`
	Category               string              `json:"category" gorm:"size:50;index"`
	STLFile                string              `json:"stl_file" gorm:"column:stl_file;size:255"`
	IsFeatured             bool                `json:"is_featured" gorm:"default:false;index"`
	Images                 []string            `json:"images" gorm:"serializer:json"`
	Metadata               map[string]any      `json:"metadata" gorm:"serializer:json"`
	EstimatedPrice         decimal.NullDecimal `json:"estimated_price" gorm:"type:numeric(10,2)"`
	EstimatedDurationHours *int                `json:"estimated_duration_hours"`
	ComplexityLevel        string              `json:"complexity_level" gorm:"size:20;index"`
	PriceRangeMin          decimal.NullDecimal `json:"price_range_min" gorm:"type:numeric(10,2)"`
	PriceRangeMax          decimal.NullDecimal `json:"price_range_max" gorm:"type:numeric(10,2)"`
	CreatedAt              time.Time           `json:"created_at"`
	UpdatedAt              time.Time           `json:"updated_at"`

	ProjectImages []ProjectImage `json:"project_images,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

// ProjectImage is a stored project photo.
type ProjectImage struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	ProjectID uuid.UUID `json:"project_id" gorm:"type:uuid;index"`
	ImagePath string    `json:"image_path" gorm:"size:255"`
	AltText   string    `json:"alt_text" gorm:"size:200"`
	IsPrimary bool      `json:"is_primary" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Service is an offered printing service (FDM print, post-processing, ...).
type Service struct {
	ID          uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Name        string    `json:"name" gorm:"size:100"`
	Description string    `json:"description" gorm:"type:text"`
	IsActive    bool      `json:"is_active" gorm:"default:true;index"`
	Category    string    `json:"category" gorm:"size:50"`
	Features    []string  `json:"features" gorm:"serializer:json"`
	Icon        string    `json:"icon" gorm:"size:50;default:cube"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Order is a customer print order. CustomerID is nil for anonymous orders.
type Order struct {
	ID                 uuid.UUID           `json:"id" gorm:"primaryKey;type:uuid"`
	CustomerName       string              `json:"customer_name" gorm:"size:100"`
	CustomerEmail      string              `json:"customer_email" gorm:"size:200;index"`
	CustomerPhone      string              `json:"customer_phone" gorm:"size:50"`
	CustomerContact    string              `json:"customer_contact" gorm:"size:200"`
	AlternativeContact string              `json:"alternative_contact" gorm:"size:200"`
	ServiceID          uuid.UUID           `json:"service_id" gorm:"type:uuid;index"`
	CustomerID         *uuid.UUID          `json:"customer_id" gorm:"type:uuid;index"`
	Specifications     map[string]any      `json:"specifications" gorm:"serializer:json"`
	Status             string              `json:"status" gorm:"size:20;default:new;index"`
	TotalPrice         decimal.NullDecimal `json:"total_price" gorm:"type:numeric(10,2)"`
	Source             string              `json:"source" gorm:"size:20"`
	Notes              string              `json:"notes" gorm:"type:text"`
	DeliveryNeeded     bool                `json:"delivery_needed"`
	DeliveryDetails    string              `json:"delivery_details" gorm:"type:text"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`

	Service  *Service    `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
	Customer *User       `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Files    []OrderFile `json:"files,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderFile records a model file attached to an order.
type OrderFile struct {
	ID               uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	OrderID          uuid.UUID `json:"order_id" gorm:"type:uuid;index"`
	FilePath         string    `json:"file_path" gorm:"size:255"`
	OriginalFilename string    `json:"original_filename" gorm:"size:255"`
	FileSize         int64     `json:"file_size"`
	FileType         string    `json:"file_type" gorm:"size:50"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Article is a blog post.
type Article struct {
	ID            uuid.UUID  `json:"id" gorm:"primaryKey;type:uuid"`
	Title         string     `json:"title" gorm:"size:200"`
	Content       string     `json:"content" gorm:"type:text"`
	Excerpt       string     `json:"excerpt" gorm:"type:text"`
	FeaturedImage string     `json:"featured_image" gorm:"size:255"`
	Category      string     `json:"category" gorm:"size:50;index"`
	PublishedAt   *time.Time `json:"published_at"`
	IsPublished   bool       `json:"is_published" gorm:"default:false;index"`
	Status        string     `json:"status" gorm:"size:20;default:draft"`
	Slug          string     `json:"slug" gorm:"uniqueIndex;size:255"`
	Tags          []string   `json:"tags" gorm:"serializer:json"`
	Views         int64      `json:"views" gorm:"default:0"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Category groups articles, projects or services.
type Category struct {
	ID          uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Name        string    `json:"name" gorm:"uniqueIndex;size:100"`
	Description string    `json:"description" gorm:"type:text"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;size:100"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	Type        string    `json:"type" gorm:"size:20;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GradientStop is a single stop of a gradient color.
type GradientStop struct {
	Color    string  `json:"color"`
	Position float64 `json:"position"`
}

// Color is a filament color offered for printing. The variant fields
// that apply depend on Type.
type Color struct {
	ID                uuid.UUID      `json:"id" gorm:"primaryKey;type:uuid"`
	Name              string         `json:"name" gorm:"size:100;index"`
	Type              string         `json:"type" gorm:"size:20;default:solid"`
	HexCode           string         `json:"hex_code" gorm:"size:7"`
	GradientColors    []GradientStop `json:"gradient_colors" gorm:"serializer:json"`
	GradientDirection string         `json:"gradient_direction" gorm:"size:20"`
	MetallicBase      string         `json:"metallic_base" gorm:"size:7"`
	MetallicIntensity *float64       `json:"metallic_intensity"`
	IsActive          bool           `json:"is_active" gorm:"default:true"`
	IsNew             bool           `json:"is_new" gorm:"default:false"`
	SortOrder         int            `json:"sort_order" gorm:"default:0"`
	PriceModifier     float64        `json:"price_modifier" gorm:"default:1.0"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// ReviewImage is a customer-submitted photo of a printed result.
type ReviewImage struct {
	URL     string `json:"url"`
	Caption string `json:"caption"`
}

// Review is a customer review. Reviews are hidden until approved.
type Review struct {
	ID            uuid.UUID     `json:"id" gorm:"primaryKey;type:uuid"`
	CustomerName  string        `json:"customer_name" gorm:"size:100"`
	CustomerEmail string        `json:"customer_email" gorm:"size:200"`
	Rating        int           `json:"rating"`
	Title         string        `json:"title" gorm:"size:200"`
	Content       string        `json:"content" gorm:"type:text"`
	Images        []ReviewImage `json:"images" gorm:"serializer:json"`
	IsApproved    bool          `json:"is_approved" gorm:"default:false;index"`
	IsFeatured    bool          `json:"is_featured" gorm:"default:false"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// ContactRequest is a message submitted through the contact form.
type ContactRequest struct {
	ID         uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Name       string    `json:"name" gorm:"size:100"`
	Email      string    `json:"email" gorm:"size:200"`
	Phone      string    `json:"phone" gorm:"size:20"`
	Subject    string    `json:"subject" gorm:"size:200"`
	Message    string    `json:"message" gorm:"type:text"`
	Status     string    `json:"status" gorm:"size:20;default:new;index"`
	AdminNotes string    `json:"admin_notes" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Content is a keyed CMS fragment, e.g. "home.hero.title".
type Content struct {
	ID          uuid.UUID      `json:"id" gorm:"primaryKey;type:uuid"`
	Key         string         `json:"key" gorm:"uniqueIndex;size:255"`
	ContentType string         `json:"content_type" gorm:"size:50;default:text"`
	Content     string         `json:"content" gorm:"type:text"`
	JSONContent map[string]any `json:"json_content" gorm:"serializer:json"`
	Description string         `json:"description" gorm:"size:500"`
	GroupName   string         `json:"group_name" gorm:"size:100;index"`
	IsActive    bool           `json:"is_active" gorm:"default:true"`
	SortOrder   int            `json:"sort_order" gorm:"default:0"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Page is a CMS-managed page with structured JSON content.
type Page struct {
	ID              uuid.UUID      `json:"id" gorm:"primaryKey;type:uuid"`
	Slug            string         `json:"slug" gorm:"uniqueIndex;size:255"`
	Title           string         `json:"title" gorm:"size:255"`
	MetaTitle       string         `json:"meta_title" gorm:"size:255"`
	MetaDescription string         `json:"meta_description" gorm:"type:text"`
	Content         map[string]any `json:"content" gorm:"serializer:json"`
	IsActive        bool           `json:"is_active" gorm:"default:true"`
	PageType        string         `json:"page_type" gorm:"size:50;default:custom"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// SiteSetting is a keyed site-wide setting. Public settings are exposed
// to the frontend without authentication.
type SiteSetting struct {
	ID          uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Key         string    `json:"key" gorm:"uniqueIndex;size:100"`
	Value       string    `json:"value" gorm:"type:text"`
	ValueType   string    `json:"value_type" gorm:"size:20;default:text"`
	Description string    `json:"description" gorm:"type:text"`
	Category    string    `json:"category" gorm:"size:50;default:general"`
	IsPublic    bool      `json:"is_public" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
