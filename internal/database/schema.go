package database

import (
    "context"
    "database/sql"
)

// schemaStatements creates every table the application needs.  Statements
// are idempotent so EnsureSchema can run on every startup.  The
// UNIQUE KEY on cart_items (user_id, product_id) is load-bearing: the cart
// repository relies on it for its atomic add-or-increment upsert.  Order
// items and product images cascade from their parents; orders keep a
// nullable address reference so deleting an address never destroys order
// history.
var schemaStatements = []string{
    `CREATE TABLE IF NOT EXISTS admins (
        id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
        email         VARCHAR(255) NOT NULL UNIQUE,
        password_hash VARCHAR(255) NOT NULL
    ) ENGINE=InnoDB`,

    `CREATE TABLE IF NOT EXISTS users (
        id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
        username      VARCHAR(150) NOT NULL UNIQUE,
        email         VARCHAR(255) NOT NULL UNIQUE,
        password_hash VARCHAR(255) NOT NULL,
        created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
    ) ENGINE=InnoDB`,

    `CREATE TABLE IF NOT EXISTS refresh_tokens (
        id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
        user_id    BIGINT UNSIGNED NOT NULL,
        token_hash CHAR(64) NOT NULL,
        expires_at DATETIME NOT NULL,
        revoked_at DATETIME NULL,
        created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        KEY idx_refresh_tokens_hash (token_hash),
        CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id)
            REFERENCES users (id) ON DELETE CASCADE
    ) ENGINE=InnoDB`,

    `CREATE TABLE IF NOT EXISTS products (
        id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
        name        VARCHAR(255) NOT NULL,
        description TEXT NOT NULL,
        price       DECIMAL(10,2) NOT NULL,
        CONSTRAINT chk_products_price CHECK (price >= 0)
    ) ENGINE=InnoDB`,

    `CREATE TABLE IF NOT EXISTS product_images (
        id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
        product_id BIGINT UNSIGNED NOT NULL,
        image_path VARCHAR(500) NOT NULL,
        CONSTRAINT fk_product_images_product FOREIGN KEY (product_id)
            REFERENCES products (id) ON DELETE CASCADE
    ) ENGINE=InnoDB`,

    `CREATE TABLE IF NOT EXISTS cart_items (
        id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
        user_id    BIGINT UNSIGNED NOT NULL,
        product_id BIGINT UNSIGNED NOT NULL,
        quantity   INT UNSIGNED NOT NULL DEFAULT 1,
        created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        UNIQUE KEY uq_cart_items_user_product (user_id, product_id),
        CONSTRAINT fk_cart_items_user FOREIGN KEY (user_id)
            REFERENCES users (id) ON DELETE CASCADE,
        CONSTRAINT fk_cart_items_product FOREIGN KEY (product_id)
            REFERENCES products (id) ON DELETE CASCADE
    ) ENGINE=InnoDB`,

    `CREATE TABLE IF NOT EXISTS addresses (
        id        BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
        user_id   BIGINT UNSIGNED NOT NULL,
        full_name VARCHAR(100) NOT NULL,
        phone     VARCHAR(15) NOT NULL,
        address   TEXT NOT NULL,
        city      VARCHAR(50) NOT NULL,
        state     VARCHAR(50) NOT NULL,
        pincode   VARCHAR(10) NOT NULL,
        CONSTRAINT fk_addresses_user FOREIGN KEY (user_id)
            REFERENCES users (id) ON DELETE CASCADE
    ) ENGINE=InnoDB`,

    `CREATE TABLE IF NOT EXISTS orders (
        id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
        user_id     BIGINT UNSIGNED NOT NULL,
        address_id  BIGINT UNSIGNED NULL,
        total_price DECIMAL(10,2) NOT NULL,
        created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        CONSTRAINT fk_orders_user FOREIGN KEY (user_id)
            REFERENCES users (id) ON DELETE CASCADE,
        CONSTRAINT fk_orders_address FOREIGN KEY (address_id)
            REFERENCES addresses (id) ON DELETE SET NULL
    ) ENGINE=InnoDB`,

    `CREATE TABLE IF NOT EXISTS order_items (
        id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
        order_id   BIGINT UNSIGNED NOT NULL,
        product_id BIGINT UNSIGNED NOT NULL,
        quantity   INT UNSIGNED NOT NULL,
        price      DECIMAL(10,2) NOT NULL,
        CONSTRAINT fk_order_items_order FOREIGN KEY (order_id)
            REFERENCES orders (id) ON DELETE CASCADE,
        CONSTRAINT fk_order_items_product FOREIGN KEY (product_id)
            REFERENCES products (id) ON DELETE CASCADE
    ) ENGINE=InnoDB`,

    `CREATE TABLE IF NOT EXISTS contacts (
        id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
        name       VARCHAR(100) NOT NULL,
        email      VARCHAR(255) NOT NULL,
        subject    VARCHAR(255) NOT NULL,
        message    TEXT NOT NULL,
        created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
    ) ENGINE=InnoDB`,
}

// EnsureSchema creates all tables if they do not exist yet.  It is called
// once at startup, before any repository is used.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
    for _, stmt := range schemaStatements {
        if _, err := db.ExecContext(ctx, stmt); err != nil {
            return err
        }
    }
    return nil
}
