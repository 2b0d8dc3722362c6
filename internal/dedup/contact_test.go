package dedup

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateContact(t *testing.T) {
	t.Run("valid contact", func(t *testing.T) {
		assert.NoError(t, ValidateContact(newContact("a@b.com", "Ann", "Lee")))
	})

	t.Run("nil contact", func(t *testing.T) {
		assert.ErrorIs(t, ValidateContact(nil), ErrInvalidInput)
	})

	t.Run("missing email", func(t *testing.T) {
		err := ValidateContact(newContact("", "Ann", "Lee"))
		require.ErrorIs(t, err, ErrInvalidInput)
		assert.Contains(t, err.Error(), "Email")
	})

	t.Run("missing names", func(t *testing.T) {
		err := ValidateContact(newContact("a@b.com", "", ""))
		require.ErrorIs(t, err, ErrInvalidInput)
		assert.Contains(t, err.Error(), "FirstName")
		assert.Contains(t, err.Error(), "LastName")
	})

	t.Run("whitespace-only fields", func(t *testing.T) {
		err := ValidateContact(newContact("   ", "\t", " "))
		require.ErrorIs(t, err, ErrInvalidInput)
		assert.Contains(t, err.Error(), "Email")
		assert.Contains(t, err.Error(), "FirstName")
		assert.Contains(t, err.Error(), "LastName")
	})

	t.Run("missing id", func(t *testing.T) {
		c := newContact("a@b.com", "Ann", "Lee")
		c.ID = uuid.Nil
		assert.ErrorIs(t, ValidateContact(c), ErrInvalidInput)
	})
}

func TestContact_Clone(t *testing.T) {
	c := newContact("a@b.com", "Ann", "Lee")
	c.Company = stringPtr("Acme")
	c.Tags = []string{"vip"}
	c.Birthday = datePtr("1990-01-02")

	cp := c.Clone()
	*cp.Company = "Other"
	cp.Tags[0] = "changed"

	assert.Equal(t, "Acme", *c.Company)
	assert.Equal(t, []string{"vip"}, c.Tags)
	assert.Equal(t, c.Birthday, cp.Birthday)
}

func TestContact_Value(t *testing.T) {
	c := newContact("a@b.com", "Ann", "Lee")
	c.Tags = []string{"vip", "press"}
	c.Birthday = datePtr("1990-01-02")

	v, err := c.Value(FieldTags)
	require.NoError(t, err)
	assert.Equal(t, "vip, press", *v)

	v, err = c.Value(FieldBirthday)
	require.NoError(t, err)
	assert.Equal(t, "1990-01-02", *v)

	v, err = c.Value(FieldCompany)
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = c.Value(Field("favorite_color"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseFields(t *testing.T) {
	fields, err := ParseFields([]string{"email", " city ", "tags"})
	require.NoError(t, err)
	assert.Equal(t, []Field{FieldEmail, FieldCity, FieldTags}, fields)

	_, err = ParseFields([]string{"email", "shoe_size"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
