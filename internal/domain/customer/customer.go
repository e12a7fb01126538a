package customer

import (
	"strings"
	"time"
)

// Customer is a directory record owned by the document store; quotes hold a
// reference to it, never an embedded copy.
type Customer struct {
	ID        string    `json:"id,omitempty"`
	Name      string    `json:"nombre"`
	Surname   string    `json:"apellido,omitempty"`
	Phone     string    `json:"telefono,omitempty"`
	Address   string    `json:"direccion,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedBy string    `json:"createdBy,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedBy string    `json:"updatedBy,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

func (c Customer) DisplayName() string {
	return strings.TrimSpace(c.Name + " " + c.Surname)
}
