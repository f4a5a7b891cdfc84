package domain

import (
	"strings"
	"time"
)

type Client struct {
	ID        int64
	Name      string
	Address   string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewClient creates a new client with required fields
func NewClient(name string) *Client {
	now := time.Now()
	return &Client{
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Party returns the client as it appears on a rendered document
func (c *Client) Party() Party {
	return Party{
		Name:    c.Name,
		Address: c.Address,
		Email:   c.Email,
		Phone:   c.Phone,
	}
}

// Validate returns an error if the client is invalid
func (c *Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return NewValidationError("name", "client name is required")
	}
	if c.Email != "" && !strings.Contains(c.Email, "@") {
		return NewValidationError("email", "email address is malformed")
	}
	return nil
}
