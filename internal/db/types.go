package db

import (
	"time"

	"github.com/google/uuid"
)

// Run represents one plan generation run
type Run struct {
	ID                uuid.UUID  `json:"id"`
	QualificationName string     `json:"qualification_name"`
	QualificationCode string     `json:"qualification_code"`
	DeliveryMode      string     `json:"delivery_mode"`
	Status            string     `json:"status"`
	CreatedAt         time.Time  `json:"created_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
}

// PlanRecord is one stored validated plan
type PlanRecord struct {
	ID        uuid.UUID `json:"id"`
	RunID     uuid.UUID `json:"run_id"`
	Plan      []byte    `json:"-"`
	Attempts  int       `json:"attempts"`
	CreatedAt time.Time `json:"created_at"`
}

// CataloguePage is a cached catalogue page
type CataloguePage struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url"`
	Catalogue string    `json:"catalogue"`
	Text      string    `json:"text"`
	FetchedAt time.Time `json:"fetched_at"`
}

// User represents a user profile
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never serialize to JSON
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
