package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendormart/vendormart-api/internal/middleware"
	"github.com/vendormart/vendormart-api/internal/models"
)

func TestStockInRecordsMovement(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectBegin()
	mock.ExpectExec(`(?s)UPDATE product_variants\s+SET stock_quantity = stock_quantity \+ \?`).
		WithArgs(25, sqlmock.AnyArg(), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO stock_movements`).
		WithArgs(int64(3), "in", 25, nil, int64(9), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(101, 1))
	mock.ExpectCommit()

	c, w := jsonContext("POST", "/", `{"variantId": 3, "quantity": 25}`)
	c.Set(middleware.CtxUserID, int64(9))

	h.StockIn(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"movementId":101`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStockOutGuardsAgainstNegativeStock(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectBegin()
	// Guarded update matches no row when the count would go negative.
	mock.ExpectExec(`(?s)stock_quantity = stock_quantity - \?.*AND stock_quantity >= \?`).
		WithArgs(50, sqlmock.AnyArg(), int64(3), 50).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT 1 FROM product_variants WHERE id = \?`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectRollback()

	c, w := jsonContext("POST", "/", `{"variantId": 3, "quantity": 50}`)
	c.Set(middleware.CtxUserID, int64(9))

	h.StockOut(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient stock")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStockOutUnknownVariantNotFound(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectBegin()
	mock.ExpectExec(`(?s)stock_quantity = stock_quantity - \?`).
		WithArgs(5, sqlmock.AnyArg(), int64(999), 5).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT 1 FROM product_variants WHERE id = \?`).
		WithArgs(int64(999)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectRollback()

	c, w := jsonContext("POST", "/", `{"variantId": 999, "quantity": 5}`)
	c.Set(middleware.CtxUserID, int64(9))

	h.StockOut(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStockMovementRejectsNonPositiveQuantity(t *testing.T) {
	h, mock := newTestHandlers(t)

	for _, body := range []string{
		`{"variantId": 3, "quantity": 0}`,
		`{"variantId": 3, "quantity": -4}`,
		`{"quantity": 10}`,
	} {
		c, w := jsonContext("POST", "/", body)
		c.Set(middleware.CtxUserID, int64(9))

		h.StockIn(c)

		assert.Equal(t, http.StatusBadRequest, w.Code, "body: %s", body)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMovementsListsNewestFirst(t *testing.T) {
	h, mock := newTestHandlers(t)

	now := time.Now()
	mock.ExpectQuery(`(?s)FROM stock_movements\s+WHERE variant_id = \?\s+ORDER BY created_at DESC`).
		WithArgs("3").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "variant_id", "direction", "quantity", "note", "recorded_by", "created_at",
		}).
			AddRow(7, 3, "out", 5, "damaged units", 9, now).
			AddRow(6, 3, "in", 40, nil, 9, now.Add(-time.Hour)))

	c, w := testContext("GET", "/", nil)
	c.Params = gin.Params{{Key: "variantId", Value: "3"}}

	h.GetMovements(c)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Movements []models.StockMovement `json:"movements"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Movements, 2)
	assert.Equal(t, "out", resp.Movements[0].Direction)
	require.NotNil(t, resp.Movements[0].Note)
	assert.Equal(t, "damaged units", *resp.Movements[0].Note)
	assert.Nil(t, resp.Movements[1].Note)

	assert.NoError(t, mock.ExpectationsWereMet())
}
