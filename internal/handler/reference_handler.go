package handler

import (
	"net/http"
	"time"

	"kavalife-erp/internal/model"
	"kavalife-erp/pkg/database"
	"kavalife-erp/pkg/logger"
	"kavalife-erp/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AllVendors returns the full vendor list consumed by the bootstrap cache
func AllVendors(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordReferenceFetch("vendor")

	// Track DB operations
	defer prometheus.TrackDBOperation("query")(time.Now())

	var vendors []model.Vendor
	if err := database.GetDB().Order("name").Find(&vendors).Error; err != nil {
		log.Error("Failed to retrieve vendors", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve vendors"})
	}

	log.Info("Vendors retrieved successfully", zap.Int("count", len(vendors)))
	return c.JSON(http.StatusOK, echo.Map{"data": vendors})
}

// AllProducts returns the full product list consumed by the bootstrap cache
func AllProducts(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordReferenceFetch("product")

	defer prometheus.TrackDBOperation("query")(time.Now())

	var products []model.Product
	if err := database.GetDB().Order("name").Find(&products).Error; err != nil {
		log.Error("Failed to retrieve products", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve products"})
	}

	log.Info("Products retrieved successfully", zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, echo.Map{"data": products})
}

// AllUsers returns the user directory consumed by the bootstrap cache.
// Password hashes are excluded by the model's json tags.
func AllUsers(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordReferenceFetch("user")

	defer prometheus.TrackDBOperation("query")(time.Now())

	var users []model.User
	if err := database.GetDB().Order("username").Find(&users).Error; err != nil {
		log.Error("Failed to retrieve users", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve users"})
	}

	log.Info("Users retrieved successfully", zap.Int("count", len(users)))
	return c.JSON(http.StatusOK, echo.Map{"data": users})
}
