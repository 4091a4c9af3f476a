package models

// UserType selects which dashboard a user may access.
type UserType string

const (
	UserTypeAdmin      UserType = "Admin"
	UserTypeFiller     UserType = "Filler"
	UserTypeDispatcher UserType = "Dispatcher"
)

// User represents a staff account in the system.
// It maps to the `users` table in SQLite. PasswordHash is a bcrypt hash
// and is never serialized to clients.
type User struct {
	ID           int64    `db:"id" json:"id"`
	Name         string   `db:"name" json:"name"`
	Email        string   `db:"email" json:"email"`
	PasswordHash string   `db:"password_hash" json:"-"`
	UserType     UserType `db:"user_type" json:"user_type"`
	Age          int      `db:"age" json:"age"`
	CreatedAt    string   `db:"created_at" json:"created_at"`
}
