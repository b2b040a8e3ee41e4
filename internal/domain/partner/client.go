package partner

import (
	"strings"

	"github.com/apex/backoffice/internal/domain/shared"
)

// Client represents a customer of the advisory firm.
// CPF, phone and email are optional because walk-in clients are often
// registered with a name only and completed later.
type Client struct {
	shared.BaseAggregateRoot
	Name  string `json:"name"`
	CPF   string `json:"cpf,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// NewClient creates a new client
func NewClient(name, cpf, phone, email string) (*Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT_NAME", "Client name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_CLIENT_NAME", "Client name cannot exceed 200 characters")
	}
	if email != "" && !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email address is not valid")
	}

	return &Client{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		CPF:               normalizeDocument(cpf),
		Phone:             strings.TrimSpace(phone),
		Email:             strings.TrimSpace(email),
	}, nil
}

// Update replaces the client contact details
func (c *Client) Update(name, cpf, phone, email string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_CLIENT_NAME", "Client name cannot be empty")
	}
	if email != "" && !strings.Contains(email, "@") {
		return shared.NewDomainError("INVALID_EMAIL", "Email address is not valid")
	}
	c.Name = name
	c.CPF = normalizeDocument(cpf)
	c.Phone = strings.TrimSpace(phone)
	c.Email = strings.TrimSpace(email)
	return nil
}

// SetNotes replaces the free-form notes
func (c *Client) SetNotes(notes string) {
	c.Notes = notes
}

// normalizeDocument strips formatting characters from a CPF
func normalizeDocument(doc string) string {
	var b strings.Builder
	for _, r := range doc {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
