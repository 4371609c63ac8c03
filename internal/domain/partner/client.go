package partner

import (
	"strings"

	"github.com/microloan/backend/internal/domain/shared"
)

// ClientStatus represents the lifecycle status of a client
type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "ACTIVE"
	ClientStatusInactive ClientStatus = "INACTIVE"
)

// IsValid checks if the client status is valid
func (s ClientStatus) IsValid() bool {
	return s == ClientStatusActive || s == ClientStatusInactive
}

// String returns the string representation of ClientStatus
func (s ClientStatus) String() string {
	return string(s)
}

// Client is a borrower on record. Loans and receipts reference clients by
// ID; a client with payment history is deactivated, never hard-deleted.
type Client struct {
	shared.BaseAggregateRoot
	FirstName      string       `json:"first_name"`
	LastName       string       `json:"last_name"`
	DocumentNumber string       `json:"document_number"`
	Phone          string       `json:"phone"`
	Address        string       `json:"address"`
	Notes          string       `json:"notes"`
	Status         ClientStatus `json:"status"`
}

// NewClient creates a new client record
func NewClient(firstName, lastName, documentNumber, phone, address string) (*Client, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	documentNumber = strings.TrimSpace(documentNumber)

	if firstName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "First name is required")
	}
	if lastName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Last name is required")
	}
	if documentNumber == "" {
		return nil, shared.NewDomainError("INVALID_DOCUMENT", "Document number is required")
	}

	return &Client{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FirstName:         firstName,
		LastName:          lastName,
		DocumentNumber:    documentNumber,
		Phone:             strings.TrimSpace(phone),
		Address:           strings.TrimSpace(address),
		Status:            ClientStatusActive,
	}, nil
}

// FullName returns the client's display name
func (c *Client) FullName() string {
	return c.FirstName + " " + c.LastName
}

// UpdateContact updates the client's contact details
func (c *Client) UpdateContact(phone, address string) {
	c.Phone = strings.TrimSpace(phone)
	c.Address = strings.TrimSpace(address)
	c.IncrementVersion()
}

// UpdateName changes the client's personal names
func (c *Client) UpdateName(firstName, lastName string) error {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return shared.NewDomainError("INVALID_NAME", "First and last name are required")
	}
	c.FirstName = firstName
	c.LastName = lastName
	c.IncrementVersion()
	return nil
}

// Deactivate marks the client inactive. Inactive clients cannot originate
// new loans; existing loans keep collecting.
func (c *Client) Deactivate() error {
	if c.Status == ClientStatusInactive {
		return shared.NewDomainError("INVALID_STATE", "Client is already inactive")
	}
	c.Status = ClientStatusInactive
	c.IncrementVersion()
	return nil
}

// Activate restores an inactive client
func (c *Client) Activate() error {
	if c.Status == ClientStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Client is already active")
	}
	c.Status = ClientStatusActive
	c.IncrementVersion()
	return nil
}

// IsActive returns true when the client can originate new loans
func (c *Client) IsActive() bool {
	return c.Status == ClientStatusActive
}
