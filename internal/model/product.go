package model

// Product represents a row in the `products` table.  Price is stored as
// DECIMAL(10,2) in the database and carried as float64 in Go.
type Product struct {
    ID          uint64  `json:"id"`          // products.id
    Name        string  `json:"name"`        // products.name
    Description string  `json:"description"` // products.description
    Price       float64 `json:"price"`       // products.price
    Images      []ProductImage `json:"images"` // joined from product_images
}

// ProductImage represents a row in the `product_images` table.  ImagePath
// is the relative path returned by the file store; the row is deleted
// together with its product (ON DELETE CASCADE).
type ProductImage struct {
    ID        uint64 `json:"id"`    // product_images.id
    ProductID uint64 `json:"-"`     // product_images.product_id
    ImagePath string `json:"image"` // product_images.image_path
}
