package entity

import "time"

// Customer un cliente final captado por un broker.
type Customer struct {
	ID        string
	BrokerID  string
	CompanyID string
	FirstName string
	LastName  string
	Email     string
	Status    string // active, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
