package customer

import "time"

type TypeDocument string

const (
	TypeRUC TypeDocument = "RUC"
	TypeDNI TypeDocument = "DNI"
	TypeCE  TypeDocument = "CE"
)

func (t TypeDocument) Valid() bool {
	switch t {
	case TypeRUC, TypeDNI, TypeCE:
		return true
	}
	return false
}

type Address struct {
	Street     string `json:"street"     example:"123 Main St"`
	City       string `json:"city"       example:"Lima"`
	State      string `json:"state"      example:"Lima"`
	PostalCode string `json:"postalCode" example:"15001"`
	Country    string `json:"country"    example:"PE"`
}

type Customer struct {
	ID             string         `json:"id"`
	TypeDocument   TypeDocument   `json:"typeDocument"`
	NumberDocument string         `json:"numberDocument"`
	FirstName      string         `json:"firstName"`
	LastName       string         `json:"lastName"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone,omitempty"`
	Address        *Address       `json:"address,omitempty"`
	IsActive       bool           `json:"isActive"`
	DateOfBirth    *time.Time     `json:"dateOfBirth,omitempty"`
	Preferences    map[string]any `json:"preferences,omitempty"`
	Notes          string         `json:"notes,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// Filter narrows List. Set fields combine with AND.
type Filter struct {
	Active *bool
	// Name matches first or last name, case-insensitive.
	Name   string
	Limit  int
	Offset int
}
