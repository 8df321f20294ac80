package repository

import (
    "context"
    "database/sql"

    "shop-backend/internal/model"
)

// CartRepo persists per-user cart lines ('cart_items' table).  The table
// carries UNIQUE(user_id, product_id); AddOrIncrement leans on that key
// for an atomic upsert, so two concurrent adds for the same pair can
// never produce two rows or lose an increment.
type CartRepo struct{ DB *sql.DB }

func NewCartRepo(db *sql.DB) *CartRepo { return &CartRepo{DB: db} }

// CartDetail is a cart line joined with its product for display.
// Subtotal is computed live from the current product price at read time;
// it is not the snapshot written to order items at checkout.
type CartDetail struct {
    ID       uint64        `json:"id"`
    Product  model.Product `json:"product"`
    Quantity uint32        `json:"quantity"`
    Subtotal float64       `json:"subtotal"`
}

// AddOrIncrement creates a cart line with the given quantity or, when a
// line for (user, product) already exists, atomically increments it.
func (r *CartRepo) AddOrIncrement(ctx context.Context, userID, productID uint64, quantity uint32) error {
    _, err := r.DB.ExecContext(ctx,
        `INSERT INTO cart_items (user_id, product_id, quantity) VALUES (?,?,?)
         ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)`,
        userID, productID, quantity)
    return err
}

// ListByUser returns the user's cart lines with product data and live
// subtotals, in insertion order.
func (r *CartRepo) ListByUser(ctx context.Context, userID uint64) ([]CartDetail, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT c.id, c.quantity, p.id, p.name, p.description, p.price, p.price * c.quantity
           FROM cart_items c
           JOIN products p ON p.id = c.product_id
          WHERE c.user_id = ?
          ORDER BY c.id`,
        userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    items := make([]CartDetail, 0)
    for rows.Next() {
        var d CartDetail
        if err := rows.Scan(&d.ID, &d.Quantity,
            &d.Product.ID, &d.Product.Name, &d.Product.Description, &d.Product.Price,
            &d.Subtotal); err != nil {
            return nil, err
        }
        items = append(items, d)
    }
    return items, rows.Err()
}

// UpdateQuantity overwrites a line's quantity.  Ownership is enforced in
// the WHERE clause; ErrNotFound covers both a missing line and a line
// belonging to another user.
func (r *CartRepo) UpdateQuantity(ctx context.Context, userID, cartID uint64, quantity uint32) error {
    res, err := r.DB.ExecContext(ctx,
        "UPDATE cart_items SET quantity=? WHERE id=? AND user_id=?",
        quantity, cartID, userID)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        // Zero affected rows also happens when the quantity is unchanged,
        // so confirm absence before reporting NotFound.
        var one int
        err := r.DB.QueryRowContext(ctx,
            "SELECT 1 FROM cart_items WHERE id=? AND user_id=? LIMIT 1",
            cartID, userID).Scan(&one)
        if err == sql.ErrNoRows {
            return ErrNotFound
        }
        return err
    }
    return nil
}

// Remove deletes a line under the same ownership rule as UpdateQuantity.
func (r *CartRepo) Remove(ctx context.Context, userID, cartID uint64) error {
    res, err := r.DB.ExecContext(ctx,
        "DELETE FROM cart_items WHERE id=? AND user_id=?", cartID, userID)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrNotFound
    }
    return nil
}

// CartLine is the minimal view of a cart line used by checkout: the
// product reference, the quantity, and the unit price read inside the
// checkout transaction.
type CartLine struct {
    ProductID uint64
    Quantity  uint32
    UnitPrice float64
}

// ListLinesTx reads the user's cart lines with current unit prices inside
// an open transaction.  FOR UPDATE locks the lines so a concurrent cart
// mutation cannot slip between total computation and the cart clear.
func (r *CartRepo) ListLinesTx(ctx context.Context, tx *sql.Tx, userID uint64) ([]CartLine, error) {
    rows, err := tx.QueryContext(ctx,
        `SELECT c.product_id, c.quantity, p.price
           FROM cart_items c
           JOIN products p ON p.id = c.product_id
          WHERE c.user_id = ?
          ORDER BY c.id
            FOR UPDATE`,
        userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    lines := make([]CartLine, 0)
    for rows.Next() {
        var l CartLine
        if err := rows.Scan(&l.ProductID, &l.Quantity, &l.UnitPrice); err != nil {
            return nil, err
        }
        lines = append(lines, l)
    }
    return lines, rows.Err()
}

// ClearUserTx deletes every cart line for the user within the checkout
// transaction.
func (r *CartRepo) ClearUserTx(ctx context.Context, tx *sql.Tx, userID uint64) error {
    _, err := tx.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id=?", userID)
    return err
}
