package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vendormart/vendormart-api/internal/config"
	"github.com/vendormart/vendormart-api/internal/middleware"
	"github.com/vendormart/vendormart-api/internal/upload"
)

// Handlers holds all dependencies shared by the HTTP handlers.
type Handlers struct {
	DB      *sql.DB
	Cfg     *config.Config
	Uploads *upload.Store
}

// serverError logs the real error and answers with a generic message.
// Raw driver errors never reach the client.
func (h *Handlers) serverError(c *gin.Context, msg string, err error) {
	middleware.Logger(c).Error(msg, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
