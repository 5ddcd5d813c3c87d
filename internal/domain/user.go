package domain

import "time"

// User is the slice of the account record the trade engine needs. Registration,
// credentials and profile data live with the auth service.
type User struct {
	ID        string
	Username  string
	Email     string
	CreatedAt time.Time
}
