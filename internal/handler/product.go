package handler

import (
    "context"
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "shop-backend/internal/model"
    "shop-backend/internal/repository"
    "shop-backend/internal/storage"
)

// imageSubdir is the directory under the media root where product images
// are stored, mirrored into the reference kept on each image row.
const imageSubdir = "product_images"

// ProductHandler implements the public catalog reads and the admin-only
// catalog mutations, including image upload and deletion.  Image bytes go
// through the file store; rows only hold the returned reference.
type ProductHandler struct {
    Products *repository.ProductRepo
    Images   *repository.ImageRepo
    Files    storage.Store
}

func NewProductHandler(p *repository.ProductRepo, i *repository.ImageRepo, files storage.Store) *ProductHandler {
    if p == nil || i == nil || files == nil {
        panic("nil dependency passed to NewProductHandler")
    }
    return &ProductHandler{Products: p, Images: i, Files: files}
}

type productReq struct {
    Name        string  `json:"name"`
    Description string  `json:"description"`
    Price       float64 `json:"price"`
}

func (r productReq) validate() error {
    if r.Name == "" {
        return errors.New("name is required")
    }
    if r.Price < 0 {
        return errors.New("price must be non-negative")
    }
    return nil
}

// List handles GET /product/.  Public; products carry their images.
func (h *ProductHandler) List(c echo.Context) error {
    ctx := c.Request().Context()
    products, err := h.Products.List(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    ids := make([]uint64, 0, len(products))
    for _, p := range products {
        ids = append(ids, p.ID)
    }
    images, err := h.Images.ListByProducts(ctx, ids)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    for i := range products {
        products[i].Images = imagesOrEmpty(images[products[i].ID])
    }
    return c.JSON(http.StatusOK, products)
}

// Get handles GET /product/:id/.  Public.
func (h *ProductHandler) Get(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
    }
    ctx := c.Request().Context()
    p, err := h.Products.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    imgs, err := h.Images.ListByProduct(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    p.Images = imagesOrEmpty(imgs)
    return c.JSON(http.StatusOK, p)
}

// Create handles POST /product/.  Admin only.
func (h *ProductHandler) Create(c echo.Context) error {
    var req productReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if err := req.validate(); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    id, err := h.Products.Create(ctx, req.Name, req.Description, req.Price)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create product failed"})
    }
    return c.JSON(http.StatusCreated, model.Product{
        ID:          id,
        Name:        req.Name,
        Description: req.Description,
        Price:       req.Price,
        Images:      []model.ProductImage{},
    })
}

// Update handles PUT /product/:id/.  Admin only.
func (h *ProductHandler) Update(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
    }
    var req productReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if err := req.validate(); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Products.Update(ctx, id, req.Name, req.Description, req.Price); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update product failed"})
    }
    imgs, err := h.Images.ListByProduct(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, model.Product{
        ID:          id,
        Name:        req.Name,
        Description: req.Description,
        Price:       req.Price,
        Images:      imagesOrEmpty(imgs),
    })
}

// Delete handles DELETE /product/:id/.  Admin only.  Image rows cascade
// with the product; their stored files are released first so no orphan
// files remain.
func (h *ProductHandler) Delete(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    imgs, err := h.Images.ListByProduct(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if err := h.Products.Delete(ctx, id); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete product failed"})
    }
    for _, img := range imgs {
        _ = h.Files.Delete(img.ImagePath) // rows are gone; file cleanup is best-effort
    }
    return c.NoContent(http.StatusNoContent)
}

// UploadImages handles POST /upload-images/.  Admin only.  Accepts a
// multipart form with a product_id field and one or more files under the
// "images" field.
func (h *ProductHandler) UploadImages(c echo.Context) error {
    productID, err := strconv.ParseUint(c.FormValue("product_id"), 10, 64)
    if err != nil || productID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
    defer cancel()

    exists, err := h.Products.Exists(ctx, productID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if !exists {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
    }

    form, err := c.MultipartForm()
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid multipart form"})
    }
    files := form.File["images"]
    if len(files) == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "No images provided"})
    }

    stored := make([]string, 0, len(files))
    for _, fh := range files {
        src, err := fh.Open()
        if err != nil {
            releaseFiles(h.Files, stored)
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "read upload failed"})
        }
        ref, err := h.Files.Save(imageSubdir, fh.Filename, src)
        _ = src.Close()
        if err != nil {
            releaseFiles(h.Files, stored)
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store image failed"})
        }
        stored = append(stored, ref)
    }
    if err := h.Images.AddBulk(ctx, productID, stored); err != nil {
        releaseFiles(h.Files, stored)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save images failed"})
    }

    return c.JSON(http.StatusCreated, echo.Map{"message": "Images uploaded successfully"})
}

// DeleteImages handles DELETE /delete-product-images/:product_id/.  Admin
// only.  Every image row is removed and its stored file released.
func (h *ProductHandler) DeleteImages(c echo.Context) error {
    productID, ok := pathID(c, "product_id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    paths, err := h.Images.DeleteByProduct(ctx, productID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete images failed"})
    }
    releaseFiles(h.Files, paths)

    return c.JSON(http.StatusOK, echo.Map{"message": "Product images deleted successfully."})
}

// releaseFiles deletes stored files, ignoring individual failures.
func releaseFiles(files storage.Store, refs []string) {
    for _, ref := range refs {
        _ = files.Delete(ref)
    }
}

// imagesOrEmpty keeps image arrays serializing as [] instead of null.
func imagesOrEmpty(imgs []model.ProductImage) []model.ProductImage {
    if imgs == nil {
        return []model.ProductImage{}
    }
    return imgs
}
