// File: internal/property/model.go
package property

import (
	"time"

	"realestate_backend/internal/platform/database"
)

// VerificationStatus is the admin review state of a listing.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// Status is the sale state of a listing.
type Status string

const (
	StatusActive Status = "active"
	StatusSold   Status = "sold"
)

// Property is a listing document. Agent identity fields are snapshotted at
// creation time so listings stay renderable even if the account changes later.
type Property struct {
	ID                 database.ID        `bson:"_id,omitempty" json:"id"`
	Title              string             `bson:"title" json:"title"`
	Slug               string             `bson:"slug,omitempty" json:"slug,omitempty"`
	Location           string             `bson:"location" json:"location"`
	Image              string             `bson:"image,omitempty" json:"image,omitempty"`
	Description        string             `bson:"description,omitempty" json:"description,omitempty"`
	MinPrice           float64            `bson:"minPrice" json:"minPrice"`
	MaxPrice           float64            `bson:"maxPrice" json:"maxPrice"`
	PriceRange         string             `bson:"priceRange,omitempty" json:"priceRange,omitempty"`
	AgentUID           string             `bson:"agentUid" json:"agentUid"`
	AgentName          string             `bson:"agentName" json:"agentName"`
	AgentEmail         string             `bson:"agentEmail" json:"agentEmail"`
	VerificationStatus VerificationStatus `bson:"verificationStatus" json:"verificationStatus"`
	IsAdvertised       bool               `bson:"isAdvertised" json:"isAdvertised"`
	Status             Status             `bson:"status,omitempty" json:"status,omitempty"`
	SoldAt             *time.Time         `bson:"soldAt,omitempty" json:"soldAt,omitempty"`
	SoldTo             string             `bson:"soldTo,omitempty" json:"soldTo,omitempty"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          *time.Time         `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// IsSold reports whether the listing has completed a sale.
func (p *Property) IsSold() bool {
	return p.Status == StatusSold
}

// --- DTOs for API requests/responses ---

// CreatePropertyRequest defines the payload for adding a listing.
type CreatePropertyRequest struct {
	Title       string  `json:"title" binding:"required,max=200"`
	Location    string  `json:"location" binding:"required,max=200"`
	Image       string  `json:"image" binding:"omitempty,max=2048"`
	Description string  `json:"description" binding:"omitempty,max=5000"`
	MinPrice    float64 `json:"minPrice" binding:"omitempty,gte=0"`
	MaxPrice    float64 `json:"maxPrice" binding:"omitempty,gte=0"`
}

// UpdatePropertyRequest defines the mutable listing fields.
type UpdatePropertyRequest struct {
	Title       string  `json:"title" binding:"required,max=200"`
	Location    string  `json:"location" binding:"required,max=200"`
	Image       string  `json:"image" binding:"omitempty,max=2048"`
	Description string  `json:"description" binding:"omitempty,max=5000"`
	MinPrice    float64 `json:"minPrice" binding:"omitempty,gte=0"`
	MaxPrice    float64 `json:"maxPrice" binding:"omitempty,gte=0"`
}

// VerifyPropertyRequest is the admin review decision.
type VerifyPropertyRequest struct {
	Status string `json:"status" binding:"required,oneof=verified rejected"`
}

// AdvertisePropertyRequest toggles a listing's advertisement placement.
type AdvertisePropertyRequest struct {
	IsAdvertised *bool `json:"isAdvertised" binding:"required"`
}

// ListQuery captures the public listing filters.
type ListQuery struct {
	Search string `form:"search"`
	Sort   string `form:"sort" binding:"omitempty,oneof=priceAsc priceDesc"`
}
