package model

// Admin represents a row in the `admins` table.  Admins live in their own
// table and never share identity with end users; admin tokens and user
// tokens are verified along separate paths.
type Admin struct {
    ID           uint64 // admins.id
    Email        string // admins.email
    PasswordHash string // admins.password_hash
}
