package model

import "time"

// User represents an end-user record as stored in the `users` table.
// JSON tags are omitted; handlers define separate response types with
// the fields they actually expose.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique display name chosen at registration.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  CreatedAt    – timestamp of registration.
type User struct {
    ID           uint64    // users.id
    Username     string    // users.username
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    CreatedAt    time.Time // users.created_at
}
