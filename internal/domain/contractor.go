package domain

import (
	"strings"
	"time"
)

// ContractorID is the fixed key of the single contractor profile.
const ContractorID int64 = 1

// Contractor is the business issuing invoices. There is at most one.
type Contractor struct {
	ID            int64
	Name          string
	Address       string
	Email         string
	Phone         string
	TaxID         string
	PersonalTaxID string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewContractor(name string) *Contractor {
	now := time.Now()
	return &Contractor{
		ID:        ContractorID,
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (c *Contractor) Party() Party {
	return Party{
		Name:          c.Name,
		Address:       c.Address,
		Email:         c.Email,
		Phone:         c.Phone,
		TaxID:         c.TaxID,
		PersonalTaxID: c.PersonalTaxID,
	}
}

func (c *Contractor) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return NewValidationError("name", "contractor name is required")
	}
	if c.Email != "" && !strings.Contains(c.Email, "@") {
		return NewValidationError("email", "email address is malformed")
	}
	return nil
}
