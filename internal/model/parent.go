package model

import "time"

// ParentKind distinguishes the user-submitted entities that own attachments.
type ParentKind string

const (
	KindReview      ParentKind = "review"
	KindApplication ParentKind = "application"
)

// Namespace is the storage key prefix for attachments owned by this kind.
func (k ParentKind) Namespace() string {
	switch k {
	case KindReview:
		return "reviews"
	case KindApplication:
		return "applications"
	default:
		return string(k)
	}
}

// Status is the lifecycle state of a parent record.
type Status string

const (
	// StatusPending marks a draft that is still receiving uploads. Drafts are invisible to listings.
	StatusPending Status = "pending"
	// StatusActive marks a finalized record.
	StatusActive Status = "active"
)

// ParentRecord is a review or service application owning 0..5 attachments.
// Kind-specific form fields (rating, content, service type, ...) live in Fields.
type ParentRecord struct {
	ID          string            `json:"id"`
	Kind        ParentKind        `json:"kind"`
	OwnerID     string            `json:"owner_id"`
	Status      Status            `json:"status"`
	Fields      map[string]string `json:"fields"`
	Attachments []Attachment      `json:"attachments"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}
