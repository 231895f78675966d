package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"

	"github.com/vendormart/vendormart-api/internal/models"
)

//
// --- Category Administration (manager/admin) ---
//

// CreateCategory is the handler for POST /api/categories.
func (h *Handlers) CreateCategory(c *gin.Context) {
	var input models.CreateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	catSlug := slug.Make(input.Name)

	res, err := h.DB.Exec(
		"INSERT INTO categories (name, slug, parent_id) VALUES (?, ?, ?)",
		input.Name, catSlug, input.ParentID)
	if err != nil {
		h.serverError(c, "Failed to create category", err)
		return
	}

	id, _ := res.LastInsertId()
	newCat := models.Category{ID: id, Name: input.Name, Slug: catSlug, Children: []models.Category{}}
	if input.ParentID != nil {
		newCat.ParentID = sql.NullInt64{Int64: *input.ParentID, Valid: true}
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Category created", "category": newCat})
}

// GetCategories is the handler for GET /api/categories.
// Returns the category tree (category -> subcategory -> sub-subcategory)
// built from the flat parent_id rows.
func (h *Handlers) GetCategories(c *gin.Context) {
	rows, err := h.DB.Query("SELECT id, name, slug, parent_id FROM categories ORDER BY name ASC")
	if err != nil {
		h.serverError(c, "Database query failed", err)
		return
	}
	defer rows.Close()

	var allCats []models.Category
	for rows.Next() {
		var cat models.Category
		cat.Children = []models.Category{}
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Slug, &cat.ParentID); err != nil {
			h.serverError(c, "Failed to scan category row", err)
			return
		}
		allCats = append(allCats, cat)
	}
	if err := rows.Err(); err != nil {
		h.serverError(c, "Error iterating category rows", err)
		return
	}

	// Index rows by ID and parent, then assemble the tree depth-first so
	// a child row ordered before its grandchildren is never copied stale.
	catMap := make(map[int64]*models.Category, len(allCats))
	for i := range allCats {
		catMap[allCats[i].ID] = &allCats[i]
	}

	childIDs := make(map[int64][]int64)
	var rootIDs []int64
	for i := range allCats {
		cat := &allCats[i]
		if cat.ParentID.Valid {
			if _, ok := catMap[cat.ParentID.Int64]; ok {
				childIDs[cat.ParentID.Int64] = append(childIDs[cat.ParentID.Int64], cat.ID)
				continue
			}
		}
		rootIDs = append(rootIDs, cat.ID)
	}

	var build func(id int64) models.Category
	build = func(id int64) models.Category {
		cat := *catMap[id]
		cat.Children = []models.Category{}
		for _, cid := range childIDs[id] {
			cat.Children = append(cat.Children, build(cid))
		}
		return cat
	}

	roots := []models.Category{}
	for _, id := range rootIDs {
		roots = append(roots, build(id))
	}

	c.JSON(http.StatusOK, gin.H{"categories": roots})
}

//
// --- Document Types ---
//

// CreateDocumentType is the handler for POST /api/documents.
func (h *Handlers) CreateDocumentType(c *gin.Context) {
	var input models.CreateDocumentTypeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.DB.Exec("INSERT INTO documents (name) VALUES (?)", input.Name)
	if err != nil {
		h.serverError(c, "Failed to create document type", err)
		return
	}

	id, _ := res.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Document type created",
		"document": models.DocumentType{ID: id, Name: input.Name},
	})
}

// GetDocumentTypes is the handler for GET /api/documents.
func (h *Handlers) GetDocumentTypes(c *gin.Context) {
	rows, err := h.DB.Query("SELECT id, name FROM documents ORDER BY name ASC")
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

	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

// SetRequiredDocs is the handler for PUT /api/categories/:id/required-docs.
// Replaces the category's required-document set in one transaction.
func (h *Handlers) SetRequiredDocs(c *gin.Context) {
	categoryID := c.Param("id")

	var input models.SetRequiredDocsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var exists int
	err := h.DB.QueryRow("SELECT 1 FROM categories WHERE id = ?", categoryID).Scan(&exists)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		h.serverError(c, "Database error checking category", err)
		return
	}

	tx, err := h.DB.Begin()
	if err != nil {
		h.serverError(c, "Failed to start transaction", err)
		return
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM category_document WHERE category_id = ?", categoryID); err != nil {
		h.serverError(c, "Failed to clear required documents", err)
		return
	}

	insertQuery := "INSERT INTO category_document (category_id, document_id) VALUES (?, ?)"
	for _, docID := range input.DocumentIDs {
		if _, err := tx.Exec(insertQuery, categoryID, docID); err != nil {
			h.serverError(c, "Failed to link required document", err)
			return
		}
	}

	if err := tx.Commit(); err != nil {
		h.serverError(c, "Failed to commit transaction", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Required documents updated"})
}
