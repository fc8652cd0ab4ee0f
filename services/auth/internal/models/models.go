package models

// User is the stored account record. Password is kept verbatim.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Password     string `json:"password,omitempty"`
	RegisteredAt string `json:"registeredAt"`
}

// Public returns a copy without the password.
func (u User) Public() User {
	u.Password = ""
	return u
}

// TimestampLayout renders UTC instants with millisecond precision,
// e.g. 2024-05-01T10:00:00.000Z.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"
