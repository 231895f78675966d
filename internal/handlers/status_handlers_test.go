package handlers

import (
	"net/http"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

const (
	vendorStatusQuery  = "UPDATE vendors SET status = ?, rejection_reason = ?, status_changed_at = ? WHERE id = ?"
	productStatusQuery = "UPDATE products SET status = ?, rejection_reason = ?, status_changed_at = ? WHERE id = ?"
)

func TestUpdateVendorStatusInvalidStatus(t *testing.T) {
	h, mock := newTestHandlers(t)

	// The row must not be touched; no DB expectations are registered.
	for _, bad := range []string{"published", "sent_for_approval", "draft", ""} {
		c, w := jsonContext("PUT", "/", `{"status":"`+bad+`"}`)
		c.Params = gin.Params{{Key: "vendorId", Value: "42"}}

		h.UpdateVendorStatus(c)

		assert.Equal(t, http.StatusBadRequest, w.Code, "status %q", bad)
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateVendorStatusApproveClearsReason(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectExec(regexp.QuoteMeta(vendorStatusQuery)).
		WithArgs("approved", nil, sqlmock.AnyArg(), "42").
		WillReturnResult(sqlmock.NewResult(0, 1))

	// A stale reason in the request body must not survive an approve.
	c, w := jsonContext("PUT", "/", `{"status":"approved","rejectionReason":"old reason"}`)
	c.Params = gin.Params{{Key: "vendorId", Value: "42"}}

	h.UpdateVendorStatus(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateVendorStatusRejectKeepsReason(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectExec(regexp.QuoteMeta(vendorStatusQuery)).
		WithArgs("rejected", "missing GST", sqlmock.AnyArg(), "42").
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, w := jsonContext("PUT", "/", `{"status":"rejected","rejectionReason":"missing GST"}`)
	c.Params = gin.Params{{Key: "vendorId", Value: "42"}}

	h.UpdateVendorStatus(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateVendorStatusRejectWithoutReasonAccepted(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectExec(regexp.QuoteMeta(vendorStatusQuery)).
		WithArgs("rejected", nil, sqlmock.AnyArg(), "42").
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, w := jsonContext("PUT", "/", `{"status":"rejected"}`)
	c.Params = gin.Params{{Key: "vendorId", Value: "42"}}

	h.UpdateVendorStatus(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateVendorStatusNotFound(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectExec(regexp.QuoteMeta(vendorStatusQuery)).
		WithArgs("approved", nil, sqlmock.AnyArg(), "999").
		WillReturnResult(sqlmock.NewResult(0, 0))

	c, w := jsonContext("PUT", "/", `{"status":"approved"}`)
	c.Params = gin.Params{{Key: "vendorId", Value: "999"}}

	h.UpdateVendorStatus(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProductStatusResubmission(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectExec(regexp.QuoteMeta(productStatusQuery)).
		WithArgs("resubmission", "photos too blurry", sqlmock.AnyArg(), "7").
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, w := jsonContext("PUT", "/", `{"status":"resubmission","rejectionReason":"photos too blurry"}`)
	c.Params = gin.Params{{Key: "productId", Value: "7"}}

	h.UpdateProductStatus(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProductStatusMissingRowIsNotFound(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectExec(regexp.QuoteMeta(productStatusQuery)).
		WithArgs("approved", nil, sqlmock.AnyArg(), "1234").
		WillReturnResult(sqlmock.NewResult(0, 0))

	c, w := jsonContext("PUT", "/", `{"status":"approved"}`)
	c.Params = gin.Params{{Key: "productId", Value: "1234"}}

	h.UpdateProductStatus(c)

	// Zero affected rows must surface as 404, never silent success.
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProductStatusDraftRejected(t *testing.T) {
	h, mock := newTestHandlers(t)

	c, w := jsonContext("PUT", "/", `{"status":"draft"}`)
	c.Params = gin.Params{{Key: "productId", Value: "7"}}

	h.UpdateProductStatus(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
