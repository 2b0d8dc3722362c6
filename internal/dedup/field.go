package dedup

import (
	"strings"
	"time"
)

// Field names a contact attribute that can be compared and merged.
type Field string

const (
	FieldEmail     Field = "email"
	FieldFirstName Field = "first_name"
	FieldLastName  Field = "last_name"
	FieldCompany   Field = "company"
	FieldPhone     Field = "phone"
	FieldCity      Field = "city"
	FieldCountry   Field = "country"
	FieldNotes     Field = "notes"
	FieldTags      Field = "tags"
	FieldBirthday  Field = "birthday"
)

// AllFields lists every mergeable field in display order.
var AllFields = []Field{
	FieldEmail,
	FieldFirstName,
	FieldLastName,
	FieldCompany,
	FieldPhone,
	FieldCity,
	FieldCountry,
	FieldNotes,
	FieldTags,
	FieldBirthday,
}

// DefaultComparisonFields is the field set shown to reviewers when none is configured.
var DefaultComparisonFields = []Field{
	FieldEmail,
	FieldFirstName,
	FieldLastName,
	FieldCompany,
	FieldPhone,
	FieldCity,
	FieldCountry,
	FieldNotes,
}

// tagSeparator is used when a tag list is rendered as text.
const tagSeparator = ", "

// ParseField validates a field name.
func ParseField(name string) (Field, error) {
	f := Field(strings.TrimSpace(name))
	if !f.Valid() {
		return "", invalidInput("unknown field %q", name)
	}
	return f, nil
}

// ParseFields validates a list of field names, preserving order.
func ParseFields(names []string) ([]Field, error) {
	fields := make([]Field, 0, len(names))
	for _, name := range names {
		f, err := ParseField(name)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// Valid reports whether f is a known field.
func (f Field) Valid() bool {
	for _, known := range AllFields {
		if f == known {
			return true
		}
	}
	return false
}

// Combinable reports whether two values of the field can be combined
// without a reviewer supplying the result.
func (f Field) Combinable() bool {
	return f == FieldTags || f == FieldNotes
}

// Value returns the field as text, or nil when the contact has no value.
// Tags render as a comma separated list and birthdays as YYYY-MM-DD.
func (c *Contact) Value(f Field) (*string, error) {
	switch f {
	case FieldEmail:
		return &c.Email, nil
	case FieldFirstName:
		return &c.FirstName, nil
	case FieldLastName:
		return &c.LastName, nil
	case FieldCompany:
		return c.Company, nil
	case FieldPhone:
		return c.Phone, nil
	case FieldCity:
		return c.City, nil
	case FieldCountry:
		return c.Country, nil
	case FieldNotes:
		return c.Notes, nil
	case FieldTags:
		if c.Tags == nil {
			return nil, nil
		}
		joined := strings.Join(c.Tags, tagSeparator)
		return &joined, nil
	case FieldBirthday:
		if c.Birthday == nil {
			return nil, nil
		}
		formatted := c.Birthday.Format(DateLayout)
		return &formatted, nil
	default:
		return nil, invalidInput("unknown field %q", f)
	}
}

// copyField sets f on dst to the value src holds.
func copyField(dst, src *Contact, f Field) error {
	switch f {
	case FieldEmail:
		dst.Email = src.Email
	case FieldFirstName:
		dst.FirstName = src.FirstName
	case FieldLastName:
		dst.LastName = src.LastName
	case FieldCompany:
		dst.Company = cloneString(src.Company)
	case FieldPhone:
		dst.Phone = cloneString(src.Phone)
	case FieldCity:
		dst.City = cloneString(src.City)
	case FieldCountry:
		dst.Country = cloneString(src.Country)
	case FieldNotes:
		dst.Notes = cloneString(src.Notes)
	case FieldTags:
		if src.Tags == nil {
			dst.Tags = nil
		} else {
			dst.Tags = append([]string(nil), src.Tags...)
		}
	case FieldBirthday:
		if src.Birthday == nil {
			dst.Birthday = nil
		} else {
			b := *src.Birthday
			dst.Birthday = &b
		}
	default:
		return invalidInput("unknown field %q", f)
	}
	return nil
}

// setFromText parses a reviewer supplied value into f. An empty value
// clears optional fields.
func setFromText(dst *Contact, f Field, value string) error {
	var opt *string
	if value != "" {
		opt = &value
	}

	switch f {
	case FieldEmail:
		dst.Email = value
	case FieldFirstName:
		dst.FirstName = value
	case FieldLastName:
		dst.LastName = value
	case FieldCompany:
		dst.Company = opt
	case FieldPhone:
		dst.Phone = opt
	case FieldCity:
		dst.City = opt
	case FieldCountry:
		dst.Country = opt
	case FieldNotes:
		dst.Notes = opt
	case FieldTags:
		dst.Tags = splitTags(value)
	case FieldBirthday:
		if value == "" {
			dst.Birthday = nil
			return nil
		}
		t, err := time.Parse(DateLayout, strings.TrimSpace(value))
		if err != nil {
			return invalidInput("birthday %q is not a %s date", value, DateLayout)
		}
		dst.Birthday = &t
	default:
		return invalidInput("unknown field %q", f)
	}
	return nil
}

func splitTags(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	var tags []string
	for _, part := range strings.Split(value, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return MergeArrays(tags, nil)
}
