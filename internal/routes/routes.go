package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vendormart/vendormart-api/internal/handlers"
	"github.com/vendormart/vendormart-api/internal/middleware"
	"github.com/vendormart/vendormart-api/internal/models"
)

// CORSMiddleware allows the admin frontend origin to call the API.
func CORSMiddleware(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// SetupRouter wires every endpoint with its middleware chain.
func SetupRouter(h *handlers.Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics())
	router.Use(CORSMiddleware(h.Cfg.Server.AllowedOrigin))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.Static("/uploads", h.Cfg.Upload.Root)

	api := router.Group("/api")
	{
		api.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong"})
		})

		// --- Auth (public) ---
		api.POST("/auth/register", h.Register)
		api.POST("/auth/login", h.Login)

		authed := api.Group("/")
		authed.Use(middleware.Authenticate(h.Cfg.JWT.Secret))
		{
			// --- Vendor ---
			vendor := authed.Group("/vendor")
			{
				vendor.POST("/onboard",
					middleware.AuthorizeRoles(models.RoleVendor), h.OnboardVendor)
				vendor.GET("/",
					middleware.AuthorizeRoles(models.RoleAdmin, models.RoleManager, models.RoleVendor), h.ListVendors)
				vendor.GET("/:vendorId",
					middleware.AuthorizeRoles(models.RoleAdmin, models.RoleManager, models.RoleVendor), h.GetVendor)
				vendor.PUT("/status/:vendorId",
					middleware.AuthorizeRoles(models.RoleAdmin, models.RoleManager), h.UpdateVendorStatus)
			}

			// --- Products ---
			products := authed.Group("/products")
			{
				products.POST("/create-product",
					middleware.AuthorizeRoles(models.RoleVendor), h.CreateProduct)
				products.PUT("/update-product/:id",
					middleware.AuthorizeRoles(models.RoleVendor), h.UpdateProduct)
				products.DELETE("/delete-product/:id",
					middleware.AuthorizeRoles(models.RoleVendor), h.DeleteProduct)
				products.GET("/my-listed-products",
					middleware.AuthorizeRoles(models.RoleVendor), h.GetMyListedProducts)
				products.GET("/",
					middleware.AuthorizeRoles(models.RoleAdmin, models.RoleManager), h.ListAllProducts)
				products.PUT("/status/:productId",
					middleware.AuthorizeRoles(models.RoleAdmin, models.RoleManager), h.UpdateProductStatus)
				products.GET("/category/required_docs/:id", h.GetRequiredDocs)
				products.GET("/:id", h.GetProduct)
			}

			// --- Categories & document types (manager/admin) ---
			categories := authed.Group("/categories")
			{
				categories.GET("/", h.GetCategories)
				categories.POST("/",
					middleware.AuthorizeRoles(models.RoleAdmin, models.RoleManager), h.CreateCategory)
				categories.PUT("/:id/required-docs",
					middleware.AuthorizeRoles(models.RoleAdmin, models.RoleManager), h.SetRequiredDocs)
			}
			documents := authed.Group("/documents")
			{
				documents.GET("/", h.GetDocumentTypes)
				documents.POST("/",
					middleware.AuthorizeRoles(models.RoleAdmin, models.RoleManager), h.CreateDocumentType)
			}

			// --- Warehouse ---
			warehouse := authed.Group("/warehouse")
			warehouse.Use(middleware.AuthorizeRoles(models.RoleWarehouse, models.RoleAdmin))
			{
				warehouse.POST("/stock-in", h.StockIn)
				warehouse.POST("/stock-out", h.StockOut)
				warehouse.GET("/movements/:variantId", h.GetMovements)
			}

			// --- Dashboards ---
			dashboard := authed.Group("/dashboard")
			{
				dashboard.GET("/manager-stats",
					middleware.AuthorizeRoles(models.RoleAdmin, models.RoleManager), h.GetManagerStats)
				dashboard.GET("/vendor-stats",
					middleware.AuthorizeRoles(models.RoleVendor), h.GetVendorStats)
			}
		}
	}

	return router
}
