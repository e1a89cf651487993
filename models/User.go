package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	FirstName           string         `json:"firstName"`
	LastName            string         `json:"lastName"`
	Email               string         `json:"email" gorm:"uniqueIndex"`
	PhoneNumber         string         `json:"phoneNumber"`
	Password            string         `json:"-"`
	AvatarURL           string         `json:"avatarURL"`
	PushTokens          datatypes.JSON `json:"pushTokens"`
	AllowsNotifications *bool          `json:"allowsNotifications"`
	VerificationStatus  string         `json:"verificationStatus" gorm:"type:varchar(20);default:pending;index"` // pending, approved, rejected
	Role                string         `json:"role" gorm:"type:varchar(20);default:user;index"`                  // user, owner, admin, super_admin
	Stations            []Station      `json:"stations" gorm:"foreignKey:OwnerID;references:ID"`
}

// Custom JSON marshaling to expose PushTokens as an array and hide owned
// stations (prevents circular references when a station preloads its owner).
func (u *User) MarshalJSON() ([]byte, error) {
	type Alias User
	aux := &struct {
		PushTokens []string  `json:"pushTokens,omitempty"`
		Stations   []Station `json:"stations,omitempty"`
		*Alias
	}{
		PushTokens: []string{},
		Alias:      (*Alias)(u),
	}

	if u.PushTokens != nil {
		var tokens []string
		if err := json.Unmarshal(u.PushTokens, &tokens); err == nil {
			aux.PushTokens = tokens
		}
	}

	return json.Marshal(aux)
}

// IsAdmin reports whether the user holds an admin role.
func (u *User) IsAdmin() bool {
	return u.Role == "admin" || u.Role == "super_admin"
}
