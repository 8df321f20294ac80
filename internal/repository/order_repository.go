package repository

import (
    "context"
    "database/sql"
    "strings"
    "time"

    "shop-backend/internal/model"
)

// OrderRepo persists orders, their items and their shipping addresses.
// Creation always happens inside a transaction owned by the checkout
// handler; the *Tx methods never commit or roll back themselves.
type OrderRepo struct{ db *sql.DB }

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions.
func (r *OrderRepo) DB() *sql.DB { return r.db }

// CreateAddressTx inserts a shipping address and populates its ID.
func (r *OrderRepo) CreateAddressTx(ctx context.Context, tx *sql.Tx, a *model.Address) error {
    res, err := tx.ExecContext(ctx,
        `INSERT INTO addresses (user_id, full_name, phone, address, city, state, pincode)
         VALUES (?,?,?,?,?,?,?)`,
        a.UserID, a.FullName, a.Phone, a.Address, a.City, a.State, a.Pincode)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    a.ID = uint64(id)
    return nil
}

// CreateOrderTx inserts an order row and populates its ID.
func (r *OrderRepo) CreateOrderTx(ctx context.Context, tx *sql.Tx, o *model.Order) error {
    res, err := tx.ExecContext(ctx,
        "INSERT INTO orders (user_id, address_id, total_price) VALUES (?,?,?)",
        o.UserID, o.AddressID, o.TotalPrice)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    o.ID = uint64(id)
    return nil
}

// CreateItemsBulkTx inserts all order items in a single statement.  Each
// item's Price is the unit-price snapshot taken inside the same
// transaction.  An empty slice is a no-op.
func (r *OrderRepo) CreateItemsBulkTx(ctx context.Context, tx *sql.Tx, items []model.OrderItem) error {
    if len(items) == 0 {
        return nil
    }
    var sb strings.Builder
    sb.WriteString("INSERT INTO order_items (order_id, product_id, quantity, price) VALUES ")
    args := make([]interface{}, 0, len(items)*4)
    for i, it := range items {
        if i > 0 {
            sb.WriteString(",")
        }
        sb.WriteString("(?,?,?,?)")
        args = append(args, it.OrderID, it.ProductID, it.Quantity, it.Price)
    }
    _, err := tx.ExecContext(ctx, sb.String(), args...)
    return err
}

// OrderDetail is an order joined with its user, address and items, shaped
// for listing endpoints.
type OrderDetail struct {
    ID         uint64            `json:"id"`
    UserName   string            `json:"user_name"`
    UserEmail  string            `json:"user_email"`
    Address    *model.Address    `json:"address"`
    TotalPrice float64           `json:"total_price"`
    CreatedAt  time.Time         `json:"created_at"`
    Items      []OrderItemDetail `json:"items"`
}

// OrderItemDetail is an order line with its product name and the price
// snapshot recorded at purchase time.
type OrderItemDetail struct {
    ID          uint64  `json:"id"`
    ProductID   uint64  `json:"product_id"`
    ProductName string  `json:"product_name"`
    Quantity    uint32  `json:"quantity"`
    Price       float64 `json:"price"`
}

// ListByUser returns the user's orders, newest first, with items attached.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64) ([]OrderDetail, error) {
    return r.list(ctx, "WHERE o.user_id = ?", userID)
}

// ListAll returns every order in the store, newest first.  Admin only.
func (r *OrderRepo) ListAll(ctx context.Context) ([]OrderDetail, error) {
    return r.list(ctx, "")
}

func (r *OrderRepo) list(ctx context.Context, where string, args ...interface{}) ([]OrderDetail, error) {
    q := `SELECT o.id, o.total_price, o.created_at,
                 u.username, u.email,
                 a.id, a.full_name, a.phone, a.address, a.city, a.state, a.pincode
            FROM orders o
            JOIN users u ON u.id = o.user_id
            LEFT JOIN addresses a ON a.id = o.address_id `
    q += where + " ORDER BY o.created_at DESC, o.id DESC"
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    orders := make([]OrderDetail, 0)
    ids := make([]uint64, 0)
    for rows.Next() {
        var (
            d       OrderDetail
            addrID  sql.NullInt64
            fname   sql.NullString
            phone   sql.NullString
            addr    sql.NullString
            city    sql.NullString
            state   sql.NullString
            pincode sql.NullString
        )
        if err := rows.Scan(&d.ID, &d.TotalPrice, &d.CreatedAt,
            &d.UserName, &d.UserEmail,
            &addrID, &fname, &phone, &addr, &city, &state, &pincode); err != nil {
            return nil, err
        }
        if addrID.Valid {
            d.Address = &model.Address{
                ID:       uint64(addrID.Int64),
                FullName: fname.String,
                Phone:    phone.String,
                Address:  addr.String,
                City:     city.String,
                State:    state.String,
                Pincode:  pincode.String,
            }
        }
        d.Items = make([]OrderItemDetail, 0)
        orders = append(orders, d)
        ids = append(ids, d.ID)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    if len(orders) == 0 {
        return orders, nil
    }

    items, err := r.itemsForOrders(ctx, ids)
    if err != nil {
        return nil, err
    }
    byID := make(map[uint64]int, len(orders))
    for i := range orders {
        byID[orders[i].ID] = i
    }
    for orderID, its := range items {
        if i, ok := byID[orderID]; ok {
            orders[i].Items = its
        }
    }
    return orders, nil
}

// itemsForOrders loads the items of all listed orders in one query.
func (r *OrderRepo) itemsForOrders(ctx context.Context, orderIDs []uint64) (map[uint64][]OrderItemDetail, error) {
    var sb strings.Builder
    sb.WriteString(`SELECT i.order_id, i.id, i.product_id, p.name, i.quantity, i.price
                      FROM order_items i
                      JOIN products p ON p.id = i.product_id
                     WHERE i.order_id IN (`)
    args := make([]interface{}, 0, len(orderIDs))
    for i, id := range orderIDs {
        if i > 0 {
            sb.WriteString(",")
        }
        sb.WriteString("?")
        args = append(args, id)
    }
    sb.WriteString(") ORDER BY i.id")
    rows, err := r.db.QueryContext(ctx, sb.String(), args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make(map[uint64][]OrderItemDetail)
    for rows.Next() {
        var (
            orderID uint64
            it      OrderItemDetail
        )
        if err := rows.Scan(&orderID, &it.ID, &it.ProductID, &it.ProductName, &it.Quantity, &it.Price); err != nil {
            return nil, err
        }
        out[orderID] = append(out[orderID], it)
    }
    return out, rows.Err()
}

// DeleteOwned hard-deletes an order if it belongs to the user.  Items
// cascade in the database.  ErrNotFound covers both a missing order and
// one owned by someone else.
func (r *OrderRepo) DeleteOwned(ctx context.Context, userID, orderID uint64) error {
    res, err := r.db.ExecContext(ctx,
        "DELETE FROM orders WHERE id=? AND user_id=?", orderID, userID)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrNotFound
    }
    return nil
}
