package domain

// UserRecord is the application's profile row in the users table.
// PasswordHash is a bcrypt hash; the plaintext never leaves the commit step.
type UserRecord struct {
	Username     string `json:"username" db:"username"`
	Email        Email  `json:"user_email" db:"user_email"`
	FirstName    string `json:"user_firstname" db:"user_firstname"`
	LastName     string `json:"user_lastname" db:"user_lastname"`
	PasswordHash string `json:"user_password" db:"user_password"`
}
