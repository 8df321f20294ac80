package repository

import (
    "context"
    "database/sql"

    "shop-backend/internal/model"
)

// ContactRepo persists contact form submissions ('contacts' table).
type ContactRepo struct{ DB *sql.DB }

func NewContactRepo(db *sql.DB) *ContactRepo { return &ContactRepo{DB: db} }

// Create appends a submission and returns its ID.
func (r *ContactRepo) Create(ctx context.Context, name, email, subject, message string) (uint64, error) {
    res, err := r.DB.ExecContext(ctx,
        "INSERT INTO contacts (name, email, subject, message) VALUES (?,?,?,?)",
        name, email, subject, message)
    if err != nil {
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// List returns all submissions, newest first.
func (r *ContactRepo) List(ctx context.Context) ([]model.Contact, error) {
    rows, err := r.DB.QueryContext(ctx,
        "SELECT id,name,email,subject,message,created_at FROM contacts ORDER BY created_at DESC, id DESC")
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    contacts := make([]model.Contact, 0)
    for rows.Next() {
        var ct model.Contact
        if err := rows.Scan(&ct.ID, &ct.Name, &ct.Email, &ct.Subject, &ct.Message, &ct.CreatedAt); err != nil {
            return nil, err
        }
        contacts = append(contacts, ct)
    }
    return contacts, rows.Err()
}

// Delete removes a submission by id.
func (r *ContactRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.DB.ExecContext(ctx, "DELETE FROM contacts WHERE id=?", id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrNotFound
    }
    return nil
}
