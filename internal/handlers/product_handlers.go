package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"github.com/vendormart/vendormart-api/internal/middleware"
	"github.com/vendormart/vendormart-api/internal/models"
	"github.com/vendormart/vendormart-api/internal/upload"
)

//
// --- SKU Generation ---
//

type rowQuerier interface {
	QueryRow(query string, args ...interface{}) *sql.Row
}

// skuPrefix derives a short uppercase prefix from the product name,
// e.g. "Widget Pro 3000" -> "WIDGET-P".
func skuPrefix(name string) string {
	s := strings.ToUpper(slug.Make(name))
	if len(s) > 8 {
		s = s[:8]
	}
	if s == "" {
		s = "SKU"
	}
	return s
}

// generateSKU returns a SKU not yet present in product_variants.
// The random suffix makes collisions rare; the loop re-rolls on the
// few that happen and gives up after a bounded number of attempts
// rather than spinning forever.
func generateSKU(q rowQuerier, productName string) (string, error) {
	prefix := skuPrefix(productName)

	for attempt := 0; attempt < 10; attempt++ {
		suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:6]
		sku := fmt.Sprintf("%s-%s", prefix, suffix)

		var exists int
		err := q.QueryRow("SELECT 1 FROM product_variants WHERE sku = ?", sku).Scan(&exists)
		if err == sql.ErrNoRows {
			return sku, nil
		}
		if err != nil {
			return "", err
		}
		// collision, re-roll
	}

	return "", errors.New("could not generate a unique SKU")
}

//
// --- Product Creation ---
//

type VariantCreateInput struct {
	Price            float64         `json:"price"`
	Stock            int             `json:"stock"`
	CustomAttributes json.RawMessage `json:"customAttributes"`
}

// CreateProduct is the handler for POST /api/products/create-product (role: vendor).
//
// Multipart form:
//   - productName, description, price, status (draft|pending, default pending)
//   - categoryId / subcategoryId / subSubcategoryId  OR  customCategory
//   - "variants": JSON array of VariantCreateInput
//   - files: "images" (product images), numeric field names (category
//     required documents, keyed by document ID), "variant_{i}_images"
//     (images of the i-th variant)
//
// Every row is written in one transaction with the final file paths;
// staged files are moved into place only after a successful commit.
func (h *Handlers) CreateProduct(c *gin.Context) {
	vendorID := c.GetInt64(middleware.CtxVendorID)
	if vendorID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No vendor profile for this account; complete onboarding first"})
		return
	}

	name := c.PostForm("productName")
	description := c.PostForm("description")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productName is required"})
		return
	}

	price, err := strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil || price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must be a non-negative number"})
		return
	}

	status := models.StatusPending
	if s := c.PostForm("status"); s != "" {
		if s != string(models.StatusDraft) && s != string(models.StatusPending) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be draft or pending"})
			return
		}
		status = models.Status(s)
	}

	// Category path: known IDs or a custom string, never both.
	categoryID := parseOptionalID(c.PostForm("categoryId"))
	subcategoryID := parseOptionalID(c.PostForm("subcategoryId"))
	subSubcategoryID := parseOptionalID(c.PostForm("subSubcategoryId"))
	var customCategory *string
	if s := c.PostForm("customCategory"); s != "" {
		customCategory = &s
	}
	if customCategory != nil && categoryID != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provide either a category ID or a custom category, not both"})
		return
	}
	if customCategory == nil && categoryID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A category is required"})
		return
	}

	var variants []VariantCreateInput
	if raw := c.PostForm("variants"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &variants); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "variants must be a JSON array"})
			return
		}
	}
	if len(variants) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one variant is required"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return
	}

	// Required-document validation: uploads under numeric field names
	// must match the category's required set.
	requiredDocs := map[int64]bool{}
	if categoryID != nil {
		docRows, err := h.DB.Query(
			"SELECT document_id FROM category_document WHERE category_id = ?", *categoryID)
		if err != nil {
			h.serverError(c, "Database error fetching required documents", err)
			return
		}
		defer docRows.Close()
		for docRows.Next() {
			var id int64
			if err := docRows.Scan(&id); err != nil {
				h.serverError(c, "Failed to scan required document row", err)
				return
			}
			requiredDocs[id] = true
		}
	}

	// Stage everything before the transaction starts.
	type stagedDoc struct {
		documentID int64
		file       upload.StagedFile
	}
	type stagedVariantImage struct {
		variantIndex int
		file         upload.StagedFile
	}
	var (
		stagedImages    []upload.StagedFile
		stagedDocs      []stagedDoc
		stagedVarImages []stagedVariantImage
		allStaged       []upload.StagedFile
	)
	discardStaged := func() { h.Uploads.Discard(allStaged...) }

	stage := func(fh *multipart.FileHeader) (upload.StagedFile, bool) {
		sf, err := h.Uploads.Stage(c, fh)
		if err != nil {
			discardStaged()
			h.serverError(c, "Failed to store uploaded file", err)
			return upload.StagedFile{}, false
		}
		allStaged = append(allStaged, sf)
		return sf, true
	}

	for key, files := range form.File {
		switch {
		case key == "images":
			for _, fh := range files {
				sf, ok := stage(fh)
				if !ok {
					return
				}
				stagedImages = append(stagedImages, sf)
			}

		case strings.HasPrefix(key, "variant_") && strings.HasSuffix(key, "_images"):
			idxStr := strings.TrimSuffix(strings.TrimPrefix(key, "variant_"), "_images")
			idx, err := strconv.Atoi(idxStr)
			if err != nil || idx < 0 || idx >= len(variants) {
				discardStaged()
				c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown variant index in field " + key})
				return
			}
			for _, fh := range files {
				sf, ok := stage(fh)
				if !ok {
					return
				}
				stagedVarImages = append(stagedVarImages, stagedVariantImage{variantIndex: idx, file: sf})
			}

		default:
			docID, err := strconv.ParseInt(key, 10, 64)
			if err != nil {
				discardStaged()
				c.JSON(http.StatusBadRequest, gin.H{"error": "Unexpected file field " + key})
				return
			}
			if !requiredDocs[docID] {
				discardStaged()
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Document %d is not required for this category", docID)})
				return
			}
			for _, fh := range files {
				sf, ok := stage(fh)
				if !ok {
					return
				}
				stagedDocs = append(stagedDocs, stagedDoc{documentID: docID, file: sf})
			}
		}
	}

	tx, err := h.DB.Begin()
	if err != nil {
		discardStaged()
		h.serverError(c, "Failed to start transaction", err)
		return
	}
	defer tx.Rollback()

	now := time.Now()
	res, err := tx.Exec(`
		INSERT INTO products
		(vendor_id, product_name, description, price,
		 category_id, subcategory_id, sub_subcategory_id, custom_category,
		 status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		vendorID, name, description, price,
		categoryID, subcategoryID, subSubcategoryID, customCategory,
		status, now, now,
	)
	if err != nil {
		discardStaged()
		h.serverError(c, "Failed to insert product", err)
		return
	}
	productID, err := res.LastInsertId()
	if err != nil {
		discardStaged()
		h.serverError(c, "Failed to get product ID", err)
		return
	}

	imageDir := h.Uploads.ProductDir(vendorID, productID, "images")
	docDir := h.Uploads.ProductDir(vendorID, productID, "documents")
	variantDir := h.Uploads.ProductDir(vendorID, productID, "variants")

	imageQuery := "INSERT INTO product_images (product_id, file_path, position) VALUES (?, ?, ?)"
	for i, sf := range stagedImages {
		if _, err := tx.Exec(imageQuery, productID, h.Uploads.FinalPath(sf, imageDir), i); err != nil {
			discardStaged()
			h.serverError(c, "Failed to save product image", err)
			return
		}
	}

	docQuery := `
		INSERT INTO product_documents (product_id, document_id, file_path, original_name)
		VALUES (?, ?, ?, ?)`
	for _, d := range stagedDocs {
		if _, err := tx.Exec(docQuery, productID, d.documentID,
			h.Uploads.FinalPath(d.file, docDir), d.file.OriginalName); err != nil {
			discardStaged()
			h.serverError(c, "Failed to save product document", err)
			return
		}
	}

	variantQuery := `
		INSERT INTO product_variants
		(product_id, sku, price, stock_quantity, custom_attributes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	variantIDs := make([]int64, len(variants))
	for i, v := range variants {
		sku, err := generateSKU(tx, name)
		if err != nil {
			discardStaged()
			h.serverError(c, "Failed to generate SKU", err)
			return
		}

		attrs := "{}"
		if len(v.CustomAttributes) > 0 {
			attrs = string(v.CustomAttributes)
		}

		vres, err := tx.Exec(variantQuery, productID, sku, v.Price, v.Stock, attrs, now, now)
		if err != nil {
			discardStaged()
			h.serverError(c, "Failed to insert variant", err)
			return
		}
		variantIDs[i], err = vres.LastInsertId()
		if err != nil {
			discardStaged()
			h.serverError(c, "Failed to get variant ID", err)
			return
		}
	}

	variantImageQuery := "INSERT INTO variant_images (variant_id, file_path) VALUES (?, ?)"
	for _, vi := range stagedVarImages {
		if _, err := tx.Exec(variantImageQuery, variantIDs[vi.variantIndex],
			h.Uploads.FinalPath(vi.file, variantDir)); err != nil {
			discardStaged()
			h.serverError(c, "Failed to save variant image", err)
			return
		}
	}

	if err := tx.Commit(); err != nil {
		discardStaged()
		h.serverError(c, "Failed to commit transaction", err)
		return
	}

	// Commit succeeded; move staged files into the product directories.
	finalize := func(sf upload.StagedFile, dir string) {
		if _, err := h.Uploads.Finalize(sf, dir); err != nil {
			middleware.Logger(c).Warn("failed to finalize product file",
				zap.Int64("product_id", productID), zap.Error(err))
		}
	}
	for _, sf := range stagedImages {
		finalize(sf, imageDir)
	}
	for _, d := range stagedDocs {
		finalize(d.file, docDir)
	}
	for _, vi := range stagedVarImages {
		finalize(vi.file, variantDir)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Product submitted",
		"productId": productID,
		"status":    status,
	})
}

func parseOptionalID(s string) *int64 {
	if s == "" {
		return nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}

//
// --- Product Update ---
//

type UpdateProductInput struct {
	Name           *string  `json:"productName"`
	Description    *string  `json:"description"`
	Price          *float64 `json:"price" binding:"omitempty,gte=0"`
	CategoryID     *int64   `json:"categoryId"`
	SubcategoryID  *int64   `json:"subcategoryId"`
	CustomCategory *string  `json:"customCategory"`
	Status         *string  `json:"status" binding:"omitempty,oneof=draft pending"`
}

// UpdateProduct is the handler for PUT /api/products/update-product/:id (role: vendor).
// Dynamically builds the SET clause from the supplied fields.
func (h *Handlers) UpdateProduct(c *gin.Context) {
	vendorID := c.GetInt64(middleware.CtxVendorID)
	productIDStr := c.Param("id")

	var currentID int64
	err := h.DB.QueryRow(
		"SELECT id FROM products WHERE id = ? AND vendor_id = ?",
		productIDStr, vendorID,
	).Scan(&currentID)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found or you do not have permission to edit it"})
			return
		}
		h.serverError(c, "Database error checking ownership", err)
		return
	}

	var input UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	querySet := "updated_at = ?"
	queryArgs := []interface{}{time.Now()}

	if input.Name != nil {
		querySet += ", product_name = ?"
		queryArgs = append(queryArgs, *input.Name)
	}
	if input.Description != nil {
		querySet += ", description = ?"
		queryArgs = append(queryArgs, *input.Description)
	}
	if input.Price != nil {
		querySet += ", price = ?"
		queryArgs = append(queryArgs, *input.Price)
	}
	if input.CategoryID != nil {
		querySet += ", category_id = ?, custom_category = NULL"
		queryArgs = append(queryArgs, *input.CategoryID)
	}
	if input.SubcategoryID != nil {
		querySet += ", subcategory_id = ?"
		queryArgs = append(queryArgs, *input.SubcategoryID)
	}
	if input.CustomCategory != nil {
		querySet += ", custom_category = ?, category_id = NULL, subcategory_id = NULL, sub_subcategory_id = NULL"
		queryArgs = append(queryArgs, *input.CustomCategory)
	}
	if input.Status != nil {
		querySet += ", status = ?"
		queryArgs = append(queryArgs, *input.Status)
	}

	queryArgs = append(queryArgs, productIDStr)
	query := fmt.Sprintf("UPDATE products SET %s WHERE id = ?", querySet)

	if _, err := h.DB.Exec(query, queryArgs...); err != nil {
		h.serverError(c, "Failed to update product", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated"})
}

//
// --- Product Deletion ---
//

// DeleteProduct is the handler for DELETE /api/products/delete-product/:id (role: vendor).
// The schema has no DB-level cascade, so child rows are removed manually
// in order: variant images, variants, product images, product documents,
// then the product row. A product owned by another vendor is a 404 with
// zero rows touched.
func (h *Handlers) DeleteProduct(c *gin.Context) {
	vendorID := c.GetInt64(middleware.CtxVendorID)
	productIDStr := c.Param("id")

	var productID int64
	err := h.DB.QueryRow(
		"SELECT id FROM products WHERE id = ? AND vendor_id = ?",
		productIDStr, vendorID,
	).Scan(&productID)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found or you do not have permission to delete it"})
			return
		}
		h.serverError(c, "Database error checking ownership", err)
		return
	}

	tx, err := h.DB.Begin()
	if err != nil {
		h.serverError(c, "Failed to start transaction", err)
		return
	}
	defer tx.Rollback()

	deletes := []string{
		"DELETE FROM variant_images WHERE variant_id IN (SELECT id FROM product_variants WHERE product_id = ?)",
		"DELETE FROM product_variants WHERE product_id = ?",
		"DELETE FROM product_images WHERE product_id = ?",
		"DELETE FROM product_documents WHERE product_id = ?",
	}
	for _, q := range deletes {
		if _, err := tx.Exec(q, productID); err != nil {
			h.serverError(c, "Failed to delete product data", err)
			return
		}
	}

	res, err := tx.Exec("DELETE FROM products WHERE id = ? AND vendor_id = ?", productID, vendorID)
	if err != nil {
		h.serverError(c, "Failed to delete product", err)
		return
	}
	affected, err := res.RowsAffected()
	if err != nil {
		h.serverError(c, "Failed to check affected rows", err)
		return
	}
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	if err := tx.Commit(); err != nil {
		h.serverError(c, "Failed to commit transaction", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}
