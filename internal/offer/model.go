// File: internal/offer/model.go
package offer

import (
	"time"

	"realestate_backend/internal/platform/database"
)

// Status is the lifecycle state of an offer.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusBought   Status = "bought"
)

// IsTerminal reports whether the status admits no further agent response.
func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusBought
}

// RejectedReasonSold is recorded on pending offers swept aside when the
// property sells to another buyer.
const RejectedReasonSold = "Property has been sold to another buyer"

// Offer is a purchase offer document. Property and party details are
// snapshotted at creation time. PropertyAgentUID is a legacy field kept for
// documents written before agentUid was recorded; agent-scoped queries match
// on either.
type Offer struct {
	ID               database.ID `bson:"_id,omitempty" json:"id"`
	PropertyID       string      `bson:"propertyId" json:"propertyId"`
	PropertyTitle    string      `bson:"propertyTitle,omitempty" json:"propertyTitle,omitempty"`
	PropertyLocation string      `bson:"propertyLocation,omitempty" json:"propertyLocation,omitempty"`
	PropertyImage    string      `bson:"propertyImage,omitempty" json:"propertyImage,omitempty"`
	AgentUID         string      `bson:"agentUid,omitempty" json:"agentUid,omitempty"`
	AgentName        string      `bson:"agentName,omitempty" json:"agentName,omitempty"`
	AgentEmail       string      `bson:"agentEmail,omitempty" json:"agentEmail,omitempty"`
	PropertyAgentUID string      `bson:"propertyAgentUid,omitempty" json:"propertyAgentUid,omitempty"`
	BuyerUID         string      `bson:"buyerUid" json:"buyerUid"`
	BuyerEmail       string      `bson:"buyerEmail,omitempty" json:"buyerEmail,omitempty"`
	BuyerName        string      `bson:"buyerName,omitempty" json:"buyerName,omitempty"`
	OfferedAmount    float64     `bson:"offeredAmount" json:"offeredAmount"`
	BuyingDate       string      `bson:"buyingDate,omitempty" json:"buyingDate,omitempty"`
	Status           Status      `bson:"status" json:"status"`
	TransactionID    string      `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	PaidAt           *time.Time  `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	RejectedReason   string      `bson:"rejectedReason,omitempty" json:"rejectedReason,omitempty"`
	CreatedAt        time.Time   `bson:"createdAt" json:"createdAt"`
}

// --- DTOs for API requests/responses ---

// MakeOfferRequest is the payload for submitting an offer. Snapshot fields
// are optional; anything missing is filled from the listing and the caller's
// identity.
type MakeOfferRequest struct {
	PropertyID       string  `json:"propertyId" binding:"required"`
	OfferedAmount    float64 `json:"offeredAmount" binding:"required,gt=0"`
	BuyingDate       string  `json:"buyingDate" binding:"omitempty,max=50"`
	PropertyTitle    string  `json:"propertyTitle" binding:"omitempty,max=200"`
	PropertyLocation string  `json:"propertyLocation" binding:"omitempty,max=200"`
	PropertyImage    string  `json:"propertyImage" binding:"omitempty,max=2048"`
	AgentName        string  `json:"agentName" binding:"omitempty,max=100"`
	AgentEmail       string  `json:"agentEmail" binding:"omitempty,max=254"`
	BuyerEmail       string  `json:"buyerEmail" binding:"omitempty,max=254"`
	BuyerName        string  `json:"buyerName" binding:"omitempty,max=100"`
}

// MarkBoughtRequest carries an externally supplied transaction id for the
// legacy pay path.
type MarkBoughtRequest struct {
	TransactionID string `json:"transactionId" binding:"required,max=200"`
}

// BoughtSummary is the buyer's purchase dashboard payload.
type BoughtSummary struct {
	Properties     []Offer `json:"properties"`
	TotalPurchases int     `json:"totalPurchases"`
	TotalSpent     float64 `json:"totalSpent"`
}
