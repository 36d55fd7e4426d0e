package model

import "time"

// BidStatus is the lifecycle state of a historical bid record
type BidStatus string

const (
	StatusPending BidStatus = "PENDING"
	StatusWon     BidStatus = "WON"
	StatusLost    BidStatus = "LOST"
)

// IsResolved returns true if the outcome of the bid is known.
// Only resolved records participate in training.
func (s BidStatus) IsResolved() bool {
	return s == StatusWon || s == StatusLost
}

// Bid represents one historical tender record owned by a tenant.
// TechnicalScore and Deadline are nullable upstream; nil means the
// attribute was never extracted and a neutral default applies.
type Bid struct {
	ID             int64      `json:"id"`
	TenantID       string     `json:"tenant_id"`
	ProjectName    string     `json:"project_name,omitempty"`
	ClientName     string     `json:"client_name,omitempty"`
	Industry       string     `json:"industry,omitempty"` // empty means unknown
	Budget         float64    `json:"budget"`
	TechnicalScore *float64   `json:"technical_score,omitempty"` // 0 to 100
	Status         BidStatus  `json:"status"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Label returns the training label: 1 for a won bid, 0 otherwise
func (b *Bid) Label() int {
	if b.Status == StatusWon {
		return 1
	}
	return 0
}
