package model

import "time"

// Contact represents a row in the `contacts` table.  Submissions are an
// append-only log, independent of the rest of the schema.
type Contact struct {
    ID        uint64    `json:"id"`         // contacts.id
    Name      string    `json:"name"`       // contacts.name
    Email     string    `json:"email"`      // contacts.email
    Subject   string    `json:"subject"`    // contacts.subject
    Message   string    `json:"message"`    // contacts.message
    CreatedAt time.Time `json:"created_at"` // contacts.created_at
}
