package entity

import (
	"time"

	"github.com/google/uuid"
)

// Client is one row of the agency's client history.
type Client struct {
	ID             uuid.UUID `json:"id"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email"`
	PassportNumber string    `json:"passport_number"`
	VisaNumber     string    `json:"visa_number"`
	BirthDate      string    `json:"birth_date"`
	DocumentType   string    `json:"document_type"`
	Photo          string    `json:"photo"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
