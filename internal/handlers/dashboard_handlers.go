package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vendormart/vendormart-api/internal/middleware"
)

//
// --- Manager Dashboard ---
//

type ManagerStats struct {
	PendingVendors   int            `json:"pendingVendors"`
	PendingProducts  int            `json:"pendingProducts"`
	ProductsByStatus map[string]int `json:"productsByStatus"`
}

// GetManagerStats returns KPI counts for the review dashboard.
// GET /api/dashboard/manager-stats
func (h *Handlers) GetManagerStats(c *gin.Context) {
	stats := ManagerStats{ProductsByStatus: map[string]int{}}

	err := h.DB.QueryRow("SELECT COUNT(*) FROM vendors WHERE status = 'pending'").Scan(&stats.PendingVendors)
	if err != nil {
		h.serverError(c, "Failed to count pending vendors", err)
		return
	}

	rows, err := h.DB.Query("SELECT status, COUNT(*) FROM products GROUP BY status")
	if err != nil {
		h.serverError(c, "Failed to count products", err)
		return
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			h.serverError(c, "Failed to scan product count row", err)
			return
		}
		stats.ProductsByStatus[status] = count
	}
	stats.PendingProducts = stats.ProductsByStatus["pending"]

	c.JSON(http.StatusOK, stats)
}

//
// --- Vendor Dashboard ---
//

type VendorStats struct {
	ProductsByStatus map[string]int `json:"productsByStatus"`
	TotalStockUnits  int            `json:"totalStockUnits"`
}

// GetVendorStats returns the vendor's own product counts and stock total.
// GET /api/dashboard/vendor-stats
func (h *Handlers) GetVendorStats(c *gin.Context) {
	vendorID := c.GetInt64(middleware.CtxVendorID)

	stats := VendorStats{ProductsByStatus: map[string]int{}}

	rows, err := h.DB.Query(
		"SELECT status, COUNT(*) FROM products WHERE vendor_id = ? GROUP BY status", vendorID)
	if err != nil {
		h.serverError(c, "Failed to count products", err)
		return
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			h.serverError(c, "Failed to scan product count row", err)
			return
		}
		stats.ProductsByStatus[status] = count
	}

	err = h.DB.QueryRow(`
		SELECT COALESCE(SUM(pv.stock_quantity), 0)
		FROM product_variants pv
		JOIN products p ON p.id = pv.product_id
		WHERE p.vendor_id = ?`, vendorID).Scan(&stats.TotalStockUnits)
	if err != nil {
		h.serverError(c, "Failed to sum stock", err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
