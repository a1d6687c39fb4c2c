package entity

// Credential is the authentication record, distinct from the business User.
// UserID optionally links it to a User; the link is never set by registration.
type Credential struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	UserID       *int64 `json:"userId"`
}
