package repository

import (
    "context"
    "database/sql"

    "shop-backend/internal/model"
)

// ProductRepo provides catalog CRUD over the 'products' table.  Reads are
// public; mutations are reached only through admin-guarded handlers.
type ProductRepo struct{ DB *sql.DB }

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{DB: db} }

// Create inserts a product and returns its ID.
func (r *ProductRepo) Create(ctx context.Context, name, description string, price float64) (uint64, error) {
    res, err := r.DB.ExecContext(ctx,
        "INSERT INTO products (name, description, price) VALUES (?,?,?)",
        name, description, price)
    if err != nil {
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// Update overwrites all mutable fields of a product.
func (r *ProductRepo) Update(ctx context.Context, id uint64, name, description string, price float64) error {
    res, err := r.DB.ExecContext(ctx,
        "UPDATE products SET name=?, description=?, price=? WHERE id=?",
        name, description, price, id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        // MySQL also reports zero affected rows for a no-op update, so
        // confirm absence before reporting NotFound.
        if exists, err2 := r.Exists(ctx, id); err2 != nil {
            return err2
        } else if exists {
            return nil
        }
        return ErrNotFound
    }
    return nil
}

// Delete removes a product.  Image rows cascade in the database; the
// caller is responsible for first collecting image paths and releasing
// the stored files.
func (r *ProductRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.DB.ExecContext(ctx, "DELETE FROM products WHERE id=?", id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrNotFound
    }
    return nil
}

// GetByID fetches a single product without images.
func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (model.Product, error) {
    var p model.Product
    err := r.DB.QueryRowContext(ctx,
        "SELECT id,name,description,price FROM products WHERE id=? LIMIT 1",
        id).Scan(&p.ID, &p.Name, &p.Description, &p.Price)
    if err == sql.ErrNoRows {
        return model.Product{}, ErrNotFound
    }
    return p, err
}

// List returns all products without images, oldest first.
func (r *ProductRepo) List(ctx context.Context) ([]model.Product, error) {
    rows, err := r.DB.QueryContext(ctx,
        "SELECT id,name,description,price FROM products ORDER BY id")
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    products := make([]model.Product, 0)
    for rows.Next() {
        var p model.Product
        if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price); err != nil {
            return nil, err
        }
        products = append(products, p)
    }
    return products, rows.Err()
}

// Exists reports whether a product row exists.
func (r *ProductRepo) Exists(ctx context.Context, id uint64) (bool, error) {
    var one int
    err := r.DB.QueryRowContext(ctx,
        "SELECT 1 FROM products WHERE id=? LIMIT 1", id).Scan(&one)
    if err == sql.ErrNoRows {
        return false, nil
    }
    if err != nil {
        return false, err
    }
    return true, nil
}

// GetPriceTx reads the current unit price inside a checkout transaction so
// the snapshot written to order_items matches the total being computed.
func (r *ProductRepo) GetPriceTx(ctx context.Context, tx *sql.Tx, id uint64) (float64, error) {
    var price float64
    err := tx.QueryRowContext(ctx,
        "SELECT price FROM products WHERE id=? LIMIT 1", id).Scan(&price)
    if err == sql.ErrNoRows {
        return 0, ErrNotFound
    }
    return price, err
}
