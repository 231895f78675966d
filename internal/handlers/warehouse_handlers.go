package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vendormart/vendormart-api/internal/metrics"
	"github.com/vendormart/vendormart-api/internal/middleware"
	"github.com/vendormart/vendormart-api/internal/models"
)

//
// --- Warehouse Stock Movements ---
//

// recordMovement writes the movement row and adjusts the variant's
// stock count in one transaction. Stock-out never takes the count
// below zero.
func (h *Handlers) recordMovement(c *gin.Context, direction string) {
	userID := c.GetInt64(middleware.CtxUserID)

	var input models.StockMovementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := h.DB.Begin()
	if err != nil {
		h.serverError(c, "Failed to start transaction", err)
		return
	}
	defer tx.Rollback()

	var adjustQuery string
	if direction == models.StockIn {
		adjustQuery = `
			UPDATE product_variants
			SET stock_quantity = stock_quantity + ?, updated_at = ?
			WHERE id = ?`
	} else {
		adjustQuery = `
			UPDATE product_variants
			SET stock_quantity = stock_quantity - ?, updated_at = ?
			WHERE id = ? AND stock_quantity >= ?`
	}

	args := []interface{}{input.Quantity, time.Now(), input.VariantID}
	if direction == models.StockOut {
		args = append(args, input.Quantity)
	}

	res, err := tx.Exec(adjustQuery, args...)
	if err != nil {
		h.serverError(c, "Failed to adjust stock", err)
		return
	}
	affected, err := res.RowsAffected()
	if err != nil {
		h.serverError(c, "Failed to check affected rows", err)
		return
	}
	if affected == 0 {
		// Distinguish a missing variant from insufficient stock.
		var exists int
		err := tx.QueryRow("SELECT 1 FROM product_variants WHERE id = ?", input.VariantID).Scan(&exists)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Variant not found"})
			return
		}
		if err != nil {
			h.serverError(c, "Database error checking variant", err)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient stock for this movement"})
		return
	}

	res, err = tx.Exec(`
		INSERT INTO stock_movements (variant_id, direction, quantity, note, recorded_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		input.VariantID, direction, input.Quantity, input.Note, userID, time.Now())
	if err != nil {
		h.serverError(c, "Failed to record movement", err)
		return
	}
	movementID, _ := res.LastInsertId()

	if err := tx.Commit(); err != nil {
		h.serverError(c, "Failed to commit transaction", err)
		return
	}

	metrics.StockMovementsTotal.WithLabelValues(direction).Inc()
	c.JSON(http.StatusCreated, gin.H{
		"message":    "Stock movement recorded",
		"movementId": movementID,
	})
}

// StockIn is the handler for POST /api/warehouse/stock-in (role: warehouse).
func (h *Handlers) StockIn(c *gin.Context) {
	h.recordMovement(c, models.StockIn)
}

// StockOut is the handler for POST /api/warehouse/stock-out (role: warehouse).
func (h *Handlers) StockOut(c *gin.Context) {
	h.recordMovement(c, models.StockOut)
}

// GetMovements is the handler for GET /api/warehouse/movements/:variantId.
// Lists a variant's movements newest-first.
func (h *Handlers) GetMovements(c *gin.Context) {
	variantID := c.Param("variantId")

	rows, err := h.DB.Query(`
		SELECT id, variant_id, direction, quantity, note, recorded_by, created_at
		FROM stock_movements
		WHERE variant_id = ?
		ORDER BY created_at DESC`, variantID)
	if err != nil {
		h.serverError(c, "Database query failed", err)
		return
	}
	defer rows.Close()

	movements := []models.StockMovement{}
	for rows.Next() {
		var m models.StockMovement
		var note sql.NullString
		if err := rows.Scan(&m.ID, &m.VariantID, &m.Direction, &m.Quantity,
			&note, &m.RecordedBy, &m.CreatedAt); err != nil {
			h.serverError(c, "Failed to scan movement row", err)
			return
		}
		m.Note = scanNullString(note)
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		h.serverError(c, "Error iterating movement rows", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"movements": movements})
}
