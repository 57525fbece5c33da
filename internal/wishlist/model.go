// File: internal/wishlist/model.go
package wishlist

import (
	"time"

	"realestate_backend/internal/platform/database"
	"realestate_backend/internal/property"
)

// Item links a user to a saved property.
type Item struct {
	ID         database.ID `bson:"_id,omitempty" json:"id"`
	UserID     string      `bson:"userId" json:"userId"`
	PropertyID string      `bson:"propertyId" json:"propertyId"`
	AddedAt    time.Time   `bson:"addedAt" json:"addedAt"`
}

// --- DTOs for API requests/responses ---

// AddRequest is the payload for saving a property.
type AddRequest struct {
	PropertyID string `json:"propertyId" binding:"required"`
}

// ItemResponse is a wishlist entry populated with listing details for display.
type ItemResponse struct {
	ID                 database.ID                 `json:"id"`
	UserID             string                      `json:"userId"`
	PropertyID         string                      `json:"propertyId"`
	AddedAt            time.Time                   `json:"addedAt"`
	PropertyDetails    *property.Property          `json:"propertyDetails,omitempty"`
	VerificationStatus property.VerificationStatus `json:"verificationStatus"`
	PropertyTitle      string                      `json:"propertyTitle,omitempty"`
	PropertyLocation   string                      `json:"propertyLocation,omitempty"`
	PriceRange         string                      `json:"priceRange,omitempty"`
	AgentName          string                      `json:"agentName,omitempty"`
	AgentEmail         string                      `json:"agentEmail,omitempty"`
	PropertyImage      string                      `json:"propertyImage,omitempty"`
	IsSold             bool                        `json:"isSold"`
}
