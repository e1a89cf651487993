package models

import (
	"encoding/json"

	"gorm.io/gorm"
)

// Station approval states. A station cannot serve bookings until an admin
// moves it to StationAccepted.
const (
	StationPending  = "pending"
	StationAccepted = "accepted"
	StationRejected = "rejected"
)

type Station struct {
	gorm.Model
	OwnerID        uint    `json:"ownerID" gorm:"index"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	AddressLine1   string  `json:"addressLine1"`
	AddressLine2   string  `json:"addressLine2"`
	City           string  `json:"city"`
	State          string  `json:"state"`
	Zip            string  `json:"zip"`
	Country        string  `json:"country"`
	Lat            float32 `json:"lat"`
	Lng            float32 `json:"lng"`
	TotalPorts     int     `json:"totalPorts"`
	PowerKW        float32 `json:"powerKW"`
	PricePerKWh    float32 `json:"pricePerKWh"`
	Currency       string  `json:"currency"`
	ConnectorTypes string  `json:"connectorTypes"` // JSON string array
	Images         string  `json:"images"`         // JSON array of URLs
	IsActive       *bool   `json:"isActive"`

	// Admin moderation fields
	Status      string `json:"status" gorm:"type:varchar(20);default:'pending';index"` // pending, accepted, rejected
	ReviewNotes string `json:"reviewNotes" gorm:"type:text"`
	IsFlagged   bool   `json:"isFlagged" gorm:"default:false;index"`
	FlagReason  string `json:"flagReason" gorm:"type:text"`

	Owner        User          `json:"owner" gorm:"foreignKey:OwnerID;references:ID"`
	Reservations []Reservation `json:"reservations"`
}

// HasPort reports whether portNumber identifies a physical port on this
// station. Ports are numbered 1..TotalPorts and are not stored separately.
func (s *Station) HasPort(portNumber int) bool {
	return portNumber >= 1 && portNumber <= s.TotalPorts
}

// CanServeBookings reports whether reservations on this station may be
// accepted.
func (s *Station) CanServeBookings() bool {
	return s.Status == StationAccepted
}

// Active reports whether the owner has the station switched on. A nil
// IsActive counts as active, matching the column default.
func (s *Station) Active() bool {
	return s.IsActive == nil || *s.IsActive
}

// Custom JSON marshaling to convert ConnectorTypes and Images strings to arrays
func (s *Station) MarshalJSON() ([]byte, error) {
	type Alias Station
	aux := &struct {
		ConnectorTypes []string `json:"connectorTypes"`
		Images         []string `json:"images"`
		Owner          *User    `json:"owner,omitempty"`
		*Alias
	}{
		ConnectorTypes: []string{},
		Images:         []string{},
		Alias:          (*Alias)(s),
	}

	if s.ConnectorTypes != "" {
		var connectors []string
		if err := json.Unmarshal([]byte(s.ConnectorTypes), &connectors); err == nil {
			aux.ConnectorTypes = connectors
		}
	}

	if s.Images != "" {
		var images []string
		if err := json.Unmarshal([]byte(s.Images), &images); err == nil {
			aux.Images = images
		}
	}

	// Only include owner if it is loaded; drop its station list to avoid a
	// circular reference.
	if s.Owner.ID > 0 {
		ownerCopy := s.Owner
		ownerCopy.Stations = nil
		aux.Owner = &ownerCopy
	}

	return json.Marshal(aux)
}
