// Package dedup models contacts, duplicate pairs and the comparison and
// merge planning performed while a reviewer resolves a pair.
package dedup

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"contact-dedup/internal/matching"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/google/uuid"
)

// DateLayout is the format used when a birthday is rendered or parsed.
const DateLayout = "2006-01-02"

// Contact is the projection of a CRM contact that duplicate detection
// works on. Optional fields are nil when absent.
type Contact struct {
	ID        uuid.UUID  `json:"id" validate:"required"`
	ScopeID   uuid.UUID  `json:"scope_id"`
	Email     string     `json:"email" validate:"required,notblank"`
	FirstName string     `json:"first_name" validate:"required,notblank"`
	LastName  string     `json:"last_name" validate:"required,notblank"`
	Company   *string    `json:"company,omitempty"`
	Phone     *string    `json:"phone,omitempty"`
	City      *string    `json:"city,omitempty"`
	Country   *string    `json:"country,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
	Tags      []string   `json:"tags,omitempty"`
	Birthday  *time.Time `json:"birthday,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

var validate = NewValidator()

// NewValidator returns a validator with the "notblank" rule registered,
// which rejects strings made only of whitespace.
func NewValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// ValidateContact checks that the fields detection depends on are present
// and not just whitespace.
func ValidateContact(c *Contact) error {
	if c == nil {
		return invalidInput("contact is nil")
	}
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, len(verrs))
			for i, fe := range verrs {
				fields[i] = fe.Field()
			}
			return invalidInput("contact %s missing %s", c.ID, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// Candidate returns the subset of the contact used for classification.
func (c *Contact) Candidate() matching.Candidate {
	return matching.Candidate{
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
	}
}

// FullName joins first and last name.
func (c *Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Clone returns a deep copy of the contact.
func (c *Contact) Clone() *Contact {
	cp := *c
	cp.Company = cloneString(c.Company)
	cp.Phone = cloneString(c.Phone)
	cp.City = cloneString(c.City)
	cp.Country = cloneString(c.Country)
	cp.Notes = cloneString(c.Notes)
	if c.Tags != nil {
		cp.Tags = append([]string(nil), c.Tags...)
	}
	if c.Birthday != nil {
		b := *c.Birthday
		cp.Birthday = &b
	}
	return &cp
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
