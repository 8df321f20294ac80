package model

import "time"

// Address represents a row in the `addresses` table.  One address is
// created per order at checkout time; orders reference it with a nullable
// foreign key so order history survives address deletion.
type Address struct {
    ID       uint64 `json:"-"`         // addresses.id
    UserID   uint64 `json:"-"`         // addresses.user_id
    FullName string `json:"full_name"` // addresses.full_name
    Phone    string `json:"phone"`     // addresses.phone
    Address  string `json:"address"`   // addresses.address
    City     string `json:"city"`      // addresses.city
    State    string `json:"state"`     // addresses.state
    Pincode  string `json:"pincode"`   // addresses.pincode
}

// Order represents a row in the `orders` table.  TotalPrice is computed
// once at checkout and frozen thereafter.
type Order struct {
    ID         uint64    // orders.id
    UserID     uint64    // orders.user_id
    AddressID  *uint64   // orders.address_id (nullable)
    TotalPrice float64   // orders.total_price
    CreatedAt  time.Time // orders.created_at
}

// OrderItem represents a row in the `order_items` table.  Price is a
// snapshot of the product's unit price at purchase time, independent of
// later catalog changes.
type OrderItem struct {
    ID        uint64  // order_items.id
    OrderID   uint64  // order_items.order_id
    ProductID uint64  // order_items.product_id
    Quantity  uint32  // order_items.quantity
    Price     float64 // order_items.price (snapshot)
}
