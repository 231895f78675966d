package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vendormart/vendormart-api/internal/middleware"
	"github.com/vendormart/vendormart-api/internal/models"
)

//
// --- List/Filter Query ---
//

// Columns the client may sort by. Anything else falls back to created_at.
var productSortColumns = map[string]string{
	"product_name": "p.product_name",
	"price":        "p.price",
	"status":       "p.status",
	"created_at":   "p.created_at",
	"updated_at":   "p.updated_at",
}

type productListParams struct {
	search    string
	status    string
	sortBy    string
	sortOrder string
	limit     int
	offset    int
}

func parseProductListParams(c *gin.Context) productListParams {
	p := productListParams{
		search: c.Query("search"),
		status: c.Query("status"),
	}

	// Filtering on a value the column can never hold would return
	// nothing; drop it instead.
	if p.status != "" && !models.IsProductState(p.status) {
		p.status = ""
	}

	sortBy, ok := productSortColumns[c.Query("sortBy")]
	if !ok {
		sortBy = "p.created_at"
	}
	p.sortBy = sortBy

	p.sortOrder = "DESC"
	if strings.EqualFold(c.Query("sortOrder"), "asc") {
		p.sortOrder = "ASC"
	}

	p.limit = 20
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 100 {
		p.limit = v
	}
	p.offset = 0
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v >= 0 {
		p.offset = v
	}

	return p
}

// listProducts runs the shared paginated product query. scopeVendorID
// restricts results to one vendor (nil for manager/admin views).
//
// Images are aggregated per product in SQL as a JSON array string
// (GROUP_CONCAT of JSON_OBJECTs) and parsed back here.
func (h *Handlers) listProducts(c *gin.Context, scopeVendorID *int64) {
	p := parseProductListParams(c)

	where := "WHERE 1=1"
	var args []interface{}

	if scopeVendorID != nil {
		where += " AND p.vendor_id = ?"
		args = append(args, *scopeVendorID)
	}
	if p.status != "" {
		where += " AND p.status = ?"
		args = append(args, p.status)
	}
	if p.search != "" {
		where += " AND LOWER(p.product_name) LIKE ?"
		args = append(args, "%"+strings.ToLower(p.search)+"%")
	}

	var totalItems int
	countQuery := "SELECT COUNT(*) FROM products p " + where
	if err := h.DB.QueryRow(countQuery, args...).Scan(&totalItems); err != nil {
		h.serverError(c, "Database count query failed", err)
		return
	}

	query := `
		SELECT p.id, p.vendor_id, v.company_name, p.product_name, p.description,
		       p.price, p.status, p.rejection_reason, p.created_at, p.updated_at,
		       CONCAT('[', GROUP_CONCAT(JSON_OBJECT(
		           'id', pi.id, 'filePath', pi.file_path, 'position', pi.position)), ']')
		FROM products p
		JOIN vendors v ON v.id = p.vendor_id
		LEFT JOIN product_images pi ON pi.product_id = p.id
		` + where + `
		GROUP BY p.id
		ORDER BY ` + p.sortBy + ` ` + p.sortOrder + `
		LIMIT ? OFFSET ?`

	args = append(args, p.limit, p.offset)

	rows, err := h.DB.Query(query, args...)
	if err != nil {
		h.serverError(c, "Database query failed", err)
		return
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var prod models.Product
		var reason, imagesJSON sql.NullString

		if err := rows.Scan(&prod.ID, &prod.VendorID, &prod.VendorName, &prod.Name,
			&prod.Description, &prod.Price, &prod.Status, &reason,
			&prod.CreatedAt, &prod.UpdatedAt, &imagesJSON); err != nil {
			h.serverError(c, "Failed to scan product row", err)
			return
		}

		prod.RejectionReason = scanNullString(reason)
		prod.Images = []models.ProductImage{}
		if imagesJSON.Valid && imagesJSON.String != "" {
			_ = json.Unmarshal([]byte(imagesJSON.String), &prod.Images)
		}

		products = append(products, prod)
	}
	if err := rows.Err(); err != nil {
		h.serverError(c, "Error iterating product rows", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products":   products,
		"totalItems": totalItems,
		"limit":      p.limit,
		"offset":     p.offset,
	})
}

// GetMyListedProducts is the handler for GET /api/products/my-listed-products (role: vendor).
func (h *Handlers) GetMyListedProducts(c *gin.Context) {
	vendorID := c.GetInt64(middleware.CtxVendorID)
	h.listProducts(c, &vendorID)
}

// ListAllProducts is the handler for GET /api/products/ (manager/admin).
func (h *Handlers) ListAllProducts(c *gin.Context) {
	h.listProducts(c, nil)
}

//
// --- Detail Assembler ---
//

// GetProduct is the handler for GET /api/products/:id.
// One joined query for the product row plus separate queries for
// images, documents, variants and per-variant images. The variant image
// fetch is N+1 by construction; variant counts are small and this is
// not a hot path.
func (h *Handlers) GetProduct(c *gin.Context) {
	productID := c.Param("id")
	role := c.GetString(middleware.CtxUserRole)
	callerVendorID := c.GetInt64(middleware.CtxVendorID)

	var p models.Product
	var reason, customCategory, categoryName, subcategoryName, subSubcategoryName sql.NullString
	var categoryID, subcategoryID, subSubcategoryID sql.NullInt64
	var statusChangedAt sql.NullTime

	err := h.DB.QueryRow(`
		SELECT p.id, p.vendor_id, v.company_name, p.product_name, p.description, p.price,
		       p.category_id, p.subcategory_id, p.sub_subcategory_id, p.custom_category,
		       c.name, sc.name, ssc.name,
		       p.status, p.rejection_reason, p.created_at, p.updated_at, p.status_changed_at
		FROM products p
		JOIN vendors v ON v.id = p.vendor_id
		LEFT JOIN categories c ON c.id = p.category_id
		LEFT JOIN categories sc ON sc.id = p.subcategory_id
		LEFT JOIN categories ssc ON ssc.id = p.sub_subcategory_id
		WHERE p.id = ?`, productID).Scan(
		&p.ID, &p.VendorID, &p.VendorName, &p.Name, &p.Description, &p.Price,
		&categoryID, &subcategoryID, &subSubcategoryID, &customCategory,
		&categoryName, &subcategoryName, &subSubcategoryName,
		&p.Status, &reason, &p.CreatedAt, &p.UpdatedAt, &statusChangedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		h.serverError(c, "Database error fetching product", err)
		return
	}

	if role == models.RoleVendor && p.VendorID != callerVendorID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to view this product"})
		return
	}

	p.CategoryID = scanNullInt64(categoryID)
	p.SubcategoryID = scanNullInt64(subcategoryID)
	p.SubSubcategoryID = scanNullInt64(subSubcategoryID)
	p.CustomCategory = scanNullString(customCategory)
	p.CategoryName = scanNullString(categoryName)
	p.SubcategoryName = scanNullString(subcategoryName)
	p.SubSubcategoryName = scanNullString(subSubcategoryName)
	p.RejectionReason = scanNullString(reason)
	p.StatusChangedAt = scanNullTime(statusChangedAt)

	p.Images = []models.ProductImage{}
	imgRows, err := h.DB.Query(
		"SELECT id, file_path, position FROM product_images WHERE product_id = ? ORDER BY position ASC", p.ID)
	if err != nil {
		h.serverError(c, "Database error fetching images", err)
		return
	}
	defer imgRows.Close()
	for imgRows.Next() {
		var img models.ProductImage
		if err := imgRows.Scan(&img.ID, &img.FilePath, &img.Position); err != nil {
			h.serverError(c, "Failed to scan image row", err)
			return
		}
		p.Images = append(p.Images, img)
	}

	p.Documents = []models.ProductDocument{}
	docRows, err := h.DB.Query(`
		SELECT pd.id, pd.product_id, pd.document_id, d.name, pd.file_path, pd.original_name
		FROM product_documents pd
		JOIN documents d ON d.id = pd.document_id
		WHERE pd.product_id = ?`, p.ID)
	if err != nil {
		h.serverError(c, "Database error fetching documents", err)
		return
	}
	defer docRows.Close()
	for docRows.Next() {
		var d models.ProductDocument
		if err := docRows.Scan(&d.ID, &d.ProductID, &d.DocumentID, &d.DocumentName,
			&d.FilePath, &d.OriginalName); err != nil {
			h.serverError(c, "Failed to scan document row", err)
			return
		}
		p.Documents = append(p.Documents, d)
	}

	p.Variants = []models.ProductVariant{}
	varRows, err := h.DB.Query(`
		SELECT id, product_id, sku, price, stock_quantity, custom_attributes, created_at, updated_at
		FROM product_variants WHERE product_id = ?`, p.ID)
	if err != nil {
		h.serverError(c, "Database error fetching variants", err)
		return
	}
	defer varRows.Close()
	for varRows.Next() {
		var v models.ProductVariant
		if err := varRows.Scan(&v.ID, &v.ProductID, &v.SKU, &v.Price, &v.StockQuantity,
			&v.CustomAttributes, &v.CreatedAt, &v.UpdatedAt); err != nil {
			h.serverError(c, "Failed to scan variant row", err)
			return
		}
		p.Variants = append(p.Variants, v)
	}
	if err := varRows.Err(); err != nil {
		h.serverError(c, "Error iterating variant rows", err)
		return
	}

	for i := range p.Variants {
		v := &p.Variants[i]
		v.Images = []models.VariantImage{}
		viRows, err := h.DB.Query(
			"SELECT id, file_path FROM variant_images WHERE variant_id = ?", v.ID)
		if err != nil {
			h.serverError(c, "Database error fetching variant images", err)
			return
		}
		for viRows.Next() {
			var vi models.VariantImage
			if err := viRows.Scan(&vi.ID, &vi.FilePath); err != nil {
				viRows.Close()
				h.serverError(c, "Failed to scan variant image row", err)
				return
			}
			v.Images = append(v.Images, vi)
		}
		viRows.Close()
	}

	c.JSON(http.StatusOK, gin.H{"product": p})
}

//
// --- Required Documents ---
//

// GetRequiredDocs is the handler for GET /api/products/category/required_docs/:id.
// Returns the document types a category requires at product submission.
func (h *Handlers) GetRequiredDocs(c *gin.Context) {
	categoryID := c.Param("id")

	rows, err := h.DB.Query(`
		SELECT d.id, d.name
		FROM documents d
		JOIN category_document cd ON cd.document_id = d.id
		WHERE cd.category_id = ?
		ORDER BY d.name ASC`, categoryID)
	if err != nil {
		h.serverError(c, "Database query failed", err)
		return
	}
	defer rows.Close()

	docs := []models.DocumentType{}
	for rows.Next() {
		var d models.DocumentType
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			h.serverError(c, "Failed to scan document type row", err)
			return
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		h.serverError(c, "Error iterating document rows", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requiredDocuments": docs})
}
