// File: internal/review/model.go
package review

import (
	"time"

	"realestate_backend/internal/platform/database"
)

// Review is a buyer-written review of a property. Listing and reviewer
// details are snapshotted so reviews stay renderable after either changes.
type Review struct {
	ID                database.ID `bson:"_id,omitempty" json:"id"`
	PropertyID        string      `bson:"propertyId" json:"propertyId"`
	PropertyTitle     string      `bson:"propertyTitle" json:"propertyTitle"`
	PropertyImage     string      `bson:"propertyImage,omitempty" json:"propertyImage,omitempty"`
	PropertyAgentUID  string      `bson:"propertyAgentUid" json:"propertyAgentUid"`
	PropertyAgentName string      `bson:"propertyAgentName" json:"propertyAgentName"`
	ReviewerUID       string      `bson:"reviewerUid" json:"reviewerUid"`
	ReviewerName      string      `bson:"reviewerName" json:"reviewerName"`
	ReviewerEmail     string      `bson:"reviewerEmail" json:"reviewerEmail"`
	ReviewerImage     string      `bson:"reviewerImage,omitempty" json:"reviewerImage,omitempty"`
	ReviewText        string      `bson:"reviewText" json:"reviewText"`
	CreatedAt         time.Time   `bson:"createdAt" json:"createdAt"`
}

// --- DTOs for API requests/responses ---

// AddReviewRequest is the payload for writing a review.
type AddReviewRequest struct {
	PropertyID string `json:"propertyId" binding:"required"`
	ReviewText string `json:"reviewText" binding:"required,min=1,max=5000"`
}
