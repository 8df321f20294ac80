package repository

import (
    "context"
    "database/sql"
    "strings"

    "shop-backend/internal/model"
)

// ImageRepo persists product image references ('product_images' table).
// The bytes themselves live in the file store; rows only carry the
// reference returned by storage.Store.
type ImageRepo struct{ DB *sql.DB }

func NewImageRepo(db *sql.DB) *ImageRepo { return &ImageRepo{DB: db} }

// AddBulk inserts one row per stored file for the given product.
func (r *ImageRepo) AddBulk(ctx context.Context, productID uint64, paths []string) error {
    if len(paths) == 0 {
        return nil
    }
    var sb strings.Builder
    sb.WriteString("INSERT INTO product_images (product_id, image_path) VALUES ")
    args := make([]interface{}, 0, len(paths)*2)
    for i, p := range paths {
        if i > 0 {
            sb.WriteString(",")
        }
        sb.WriteString("(?,?)")
        args = append(args, productID, p)
    }
    _, err := r.DB.ExecContext(ctx, sb.String(), args...)
    return err
}

// ListByProduct returns all image rows for one product.
func (r *ImageRepo) ListByProduct(ctx context.Context, productID uint64) ([]model.ProductImage, error) {
    rows, err := r.DB.QueryContext(ctx,
        "SELECT id, product_id, image_path FROM product_images WHERE product_id=? ORDER BY id",
        productID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return scanImages(rows)
}

// ListByProducts returns image rows for a set of products keyed by
// product id.  Used to assemble catalog and cart responses in one query
// instead of one per product.
func (r *ImageRepo) ListByProducts(ctx context.Context, productIDs []uint64) (map[uint64][]model.ProductImage, error) {
    out := make(map[uint64][]model.ProductImage)
    if len(productIDs) == 0 {
        return out, nil
    }
    var sb strings.Builder
    sb.WriteString("SELECT id, product_id, image_path FROM product_images WHERE product_id IN (")
    args := make([]interface{}, 0, len(productIDs))
    for i, id := range productIDs {
        if i > 0 {
            sb.WriteString(",")
        }
        sb.WriteString("?")
        args = append(args, id)
    }
    sb.WriteString(") ORDER BY id")
    rows, err := r.DB.QueryContext(ctx, sb.String(), args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    imgs, err := scanImages(rows)
    if err != nil {
        return nil, err
    }
    for _, img := range imgs {
        out[img.ProductID] = append(out[img.ProductID], img)
    }
    return out, nil
}

// DeleteByProduct removes every image row for a product and returns the
// stored paths so the caller can release the underlying files.
func (r *ImageRepo) DeleteByProduct(ctx context.Context, productID uint64) ([]string, error) {
    imgs, err := r.ListByProduct(ctx, productID)
    if err != nil {
        return nil, err
    }
    if _, err := r.DB.ExecContext(ctx,
        "DELETE FROM product_images WHERE product_id=?", productID); err != nil {
        return nil, err
    }
    paths := make([]string, 0, len(imgs))
    for _, img := range imgs {
        paths = append(paths, img.ImagePath)
    }
    return paths, nil
}

func scanImages(rows *sql.Rows) ([]model.ProductImage, error) {
    imgs := make([]model.ProductImage, 0)
    for rows.Next() {
        var img model.ProductImage
        if err := rows.Scan(&img.ID, &img.ProductID, &img.ImagePath); err != nil {
            return nil, err
        }
        imgs = append(imgs, img)
    }
    return imgs, rows.Err()
}
