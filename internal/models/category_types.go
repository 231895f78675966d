package models

import "database/sql"

// Category is the model for the 'categories' table.
// A three-level tree: category -> subcategory -> sub-subcategory,
// linked through ParentID.
type Category struct {
	ID       int64         `json:"id" db:"id"`
	Name     string        `json:"name" db:"name"`
	Slug     string        `json:"slug" db:"slug"`
	ParentID sql.NullInt64 `json:"parentId" db:"parent_id"`
	Children []Category    `json:"children" db:"-"`
}

// DocumentType is the model for the 'documents' table — the catalog of
// document kinds a category may require (GST certificate, trade license...).
type DocumentType struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type CreateCategoryInput struct {
	Name     string `json:"name" binding:"required"`
	ParentID *int64 `json:"parentId"`
}

type CreateDocumentTypeInput struct {
	Name string `json:"name" binding:"required"`
}

type SetRequiredDocsInput struct {
	DocumentIDs []int64 `json:"documentIds" binding:"required"`
}
