package dedup

import (
	"time"

	"github.com/google/uuid"
)

func stringPtr(s string) *string {
	return &s
}

func datePtr(s string) *time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func newContact(email, first, last string) *Contact {
	return &Contact{
		ID:        uuid.New(),
		Email:     email,
		FirstName: first,
		LastName:  last,
	}
}
