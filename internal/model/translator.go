package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Translator is the supplier whose rate table prices a project.
type Translator struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	Name      string
	Email     string
	Company   string
	ID        int64
	IsActive  bool
}

// Normalize trims the name and lower-cases the email, dropping the email
// entirely when it does not look like an address.
func (t *Translator) Normalize() {
	t.Name = strings.TrimSpace(t.Name)
	t.Email = strings.ToLower(strings.TrimSpace(t.Email))
	if t.Email != "" && !emailPattern.MatchString(t.Email) {
		t.Email = ""
	}
}

// Validate checks required fields.
func (t *Translator) Validate() error {
	if len(strings.TrimSpace(t.Name)) < 2 {
		return fmt.Errorf("translator name must be at least 2 characters")
	}
	return nil
}

// DisplayName returns the name with the company when one is set.
func (t *Translator) DisplayName() string {
	if t.Company != "" {
		return fmt.Sprintf("%s (%s)", t.Name, t.Company)
	}
	return t.Name
}

// Client is a customer a translator may hold override rates for.
type Client struct {
	CreatedAt time.Time
	Name      string
	Contact   string
	ID        int64
	IsActive  bool
}

// Validate checks required fields.
func (c *Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("client name is required")
	}
	return nil
}
