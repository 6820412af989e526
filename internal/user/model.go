package user

import "time"

// User represents a participant in the system. Username is the unique
// handle; DisplayName, when set, is what balance and share rows show.
type User struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	DisplayName *string   `json:"display_name,omitempty"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
}

// Label returns the name shown next to amounts: the display name when set,
// the username otherwise.
func (u *User) Label() string {
	if u.DisplayName != nil && *u.DisplayName != "" {
		return *u.DisplayName
	}
	return u.Username
}
