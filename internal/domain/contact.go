package domain

import "time"

type Contact struct {
	ID             int64
	UserID         int64
	FirstName      string
	LastName       string
	PhoneNumber    string
	Email          string
	Birthdate      time.Time
	AdditionalInfo *string
	CreatedAt      time.Time
}

// ContactUpdate holds every mutable contact field. It replaces the stored
// values wholesale (PUT semantics).
type ContactUpdate struct {
	FirstName      string
	LastName       string
	PhoneNumber    string
	Email          string
	Birthdate      time.Time
	AdditionalInfo *string
}

// Apply copies the update onto c field by field.
func (c *Contact) Apply(u ContactUpdate) {
	c.FirstName = u.FirstName
	c.LastName = u.LastName
	c.PhoneNumber = u.PhoneNumber
	c.Email = u.Email
	c.Birthdate = u.Birthdate
	c.AdditionalInfo = u.AdditionalInfo
}
