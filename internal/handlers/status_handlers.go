package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vendormart/vendormart-api/internal/metrics"
	"github.com/vendormart/vendormart-api/internal/models"
)

//
// --- Status Mutator ---
//
// One parameterized transition shared by the vendor and product review
// paths. Concurrent reviewer updates are last-write-wins; there is no
// row versioning.
//

type StatusUpdateInput struct {
	Status          string  `json:"status" binding:"required"`
	RejectionReason *string `json:"rejectionReason"`
}

// applyStatusUpdate runs the single UPDATE for a transition and maps
// the affected-row count to found/not-found. created_at is never
// touched; status_changed_at records the transition time.
func (h *Handlers) applyStatusUpdate(table string, id string, target models.Status, reason *string) (bool, error) {
	if !target.KeepsReason() {
		reason = nil
	}

	query := fmt.Sprintf(
		"UPDATE %s SET status = ?, rejection_reason = ?, status_changed_at = ? WHERE id = ?",
		table,
	)

	res, err := h.DB.Exec(query, target, reason, time.Now(), id)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// UpdateVendorStatus is the handler for PUT /api/vendor/status/:vendorId.
// Manager/admin only.
func (h *Handlers) UpdateVendorStatus(c *gin.Context) {
	vendorID := c.Param("vendorId")

	var input StatusUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	target, err := models.ParseVendorTarget(input.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	found, err := h.applyStatusUpdate("vendors", vendorID, target, input.RejectionReason)
	if err != nil {
		h.serverError(c, "Failed to update vendor status", err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vendor not found"})
		return
	}

	metrics.StatusTransitionsTotal.WithLabelValues("vendor", string(target)).Inc()
	c.JSON(http.StatusOK, gin.H{
		"message": "Vendor status updated",
		"status":  target,
	})
}

// UpdateProductStatus is the handler for PUT /api/products/status/:productId.
// Manager/admin only. Covers approve, reject and resubmission through
// the same validated mutation.
func (h *Handlers) UpdateProductStatus(c *gin.Context) {
	productID := c.Param("productId")

	var input StatusUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	target, err := models.ParseProductTarget(input.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	found, err := h.applyStatusUpdate("products", productID, target, input.RejectionReason)
	if err != nil {
		h.serverError(c, "Failed to update product status", err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	metrics.StatusTransitionsTotal.WithLabelValues("product", string(target)).Inc()
	c.JSON(http.StatusOK, gin.H{
		"message": "Product status updated",
		"status":  target,
	})
}

// scanNullString converts a nullable text column to a *string.
func scanNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

// scanNullTime converts a nullable datetime column to a *time.Time.
func scanNullTime(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	return &nt.Time
}

// scanNullInt64 converts a nullable integer column to an *int64.
func scanNullInt64(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	return &ni.Int64
}
