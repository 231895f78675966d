package models

import "time"

// Product is the model for the 'products' table.
// The category path is either the known ID columns or the custom
// free-text columns, never both.
type Product struct {
	ID               int64      `json:"id" db:"id"`
	VendorID         int64      `json:"vendorId" db:"vendor_id"`
	Name             string     `json:"productName" db:"product_name"`
	Description      string     `json:"description" db:"description"`
	Price            float64    `json:"price" db:"price"`
	CategoryID       *int64     `json:"categoryId,omitempty" db:"category_id"`
	SubcategoryID    *int64     `json:"subcategoryId,omitempty" db:"subcategory_id"`
	SubSubcategoryID *int64     `json:"subSubcategoryId,omitempty" db:"sub_subcategory_id"`
	CustomCategory   *string    `json:"customCategory,omitempty" db:"custom_category"`
	Status           Status     `json:"status" db:"status"`
	RejectionReason  *string    `json:"rejectionReason,omitempty" db:"rejection_reason"`
	CreatedAt        time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time  `json:"updatedAt" db:"updated_at"`
	StatusChangedAt  *time.Time `json:"statusChangedAt,omitempty" db:"status_changed_at"`

	// Joins
	VendorName         string            `json:"vendorName,omitempty" db:"-"`
	CategoryName       *string           `json:"categoryName,omitempty" db:"-"`
	SubcategoryName    *string           `json:"subcategoryName,omitempty" db:"-"`
	SubSubcategoryName *string           `json:"subSubcategoryName,omitempty" db:"-"`
	Images             []ProductImage    `json:"images"`
	Documents          []ProductDocument `json:"documents,omitempty" db:"-"`
	Variants           []ProductVariant  `json:"variants,omitempty" db:"-"`
}

// ProductImage is the model for the 'product_images' table.
type ProductImage struct {
	ID        int64  `json:"id" db:"id"`
	ProductID int64  `json:"productId,omitempty" db:"product_id"`
	FilePath  string `json:"filePath" db:"file_path"`
	Position  int    `json:"position" db:"position"`
}

// ProductDocument is the model for the 'product_documents' table.
// DocumentID references the category's required document type.
type ProductDocument struct {
	ID           int64  `json:"id" db:"id"`
	ProductID    int64  `json:"productId" db:"product_id"`
	DocumentID   int64  `json:"documentId" db:"document_id"`
	DocumentName string `json:"documentName,omitempty" db:"-"`
	FilePath     string `json:"filePath" db:"file_path"`
	OriginalName string `json:"originalName" db:"original_name"`
}

// ProductVariant is the model for the 'product_variants' table.
// CustomAttributes is stored as a JSON string in the DB.
type ProductVariant struct {
	ID               int64          `json:"id" db:"id"`
	ProductID        int64          `json:"productId" db:"product_id"`
	SKU              string         `json:"sku" db:"sku"`
	Price            float64        `json:"price" db:"price"`
	StockQuantity    int            `json:"stock" db:"stock_quantity"`
	CustomAttributes string         `json:"customAttributes" db:"custom_attributes"`
	CreatedAt        time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time      `json:"updatedAt" db:"updated_at"`
	Images           []VariantImage `json:"images,omitempty" db:"-"`
}

// VariantImage is the model for the 'variant_images' table.
type VariantImage struct {
	ID        int64  `json:"id" db:"id"`
	VariantID int64  `json:"variantId,omitempty" db:"variant_id"`
	FilePath  string `json:"filePath" db:"file_path"`
}
