package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendormart/vendormart-api/internal/middleware"
)

func TestGetManagerStats(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM vendors WHERE status = 'pending'`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectQuery(`SELECT status, COUNT\(\*\) FROM products GROUP BY status`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("pending", 12).
			AddRow("approved", 30).
			AddRow("rejected", 3))

	c, w := testContext("GET", "/", nil)
	h.GetManagerStats(c)

	require.Equal(t, http.StatusOK, w.Code)

	var stats ManagerStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 4, stats.PendingVendors)
	assert.Equal(t, 12, stats.PendingProducts)
	assert.Equal(t, 30, stats.ProductsByStatus["approved"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetVendorStats(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectQuery(`SELECT status, COUNT\(\*\) FROM products WHERE vendor_id = \? GROUP BY status`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("draft", 2).
			AddRow("approved", 7))
	mock.ExpectQuery(`(?s)COALESCE\(SUM\(pv\.stock_quantity\), 0\)`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(140))

	c, w := testContext("GET", "/", nil)
	c.Set(middleware.CtxVendorID, int64(5))

	h.GetVendorStats(c)

	require.Equal(t, http.StatusOK, w.Code)

	var stats VendorStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.ProductsByStatus["draft"])
	assert.Equal(t, 140, stats.TotalStockUnits)

	assert.NoError(t, mock.ExpectationsWereMet())
}
