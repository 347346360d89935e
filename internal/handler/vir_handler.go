package handler

import (
	"database/sql"
	"net/http"
	"time"

	"kavalife-erp/internal/model"
	"kavalife-erp/internal/workflow"
	"kavalife-erp/pkg/database"
	"kavalife-erp/pkg/logger"
	"kavalife-erp/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// VIRRequest is the payload for creating a vehicle inspection report
type VIRRequest struct {
	Vendor    uint            `json:"vendor" validate:"required"`
	Product   uint            `json:"product" validate:"required"`
	Remarks   string          `json:"remarks"`
	Checklist model.Checklist `json:"checklist" validate:"required"`
	CreatedBy uint            `json:"createdBy"`
	CreatedAt string          `json:"createdAt"`
}

// VerifyVIRRequest is the sign-off payload
type VerifyVIRRequest struct {
	CheckedBy uint   `json:"checkedBy"`
	CheckedAt string `json:"checkedAt"`
}

// enrichVIRs fills the derived status and the vendor/product display names
// from the reference tables
func enrichVIRs(virs []model.VIR) {
	if len(virs) == 0 {
		return
	}

	vendorIDs := make([]uint, 0, len(virs))
	productIDs := make([]uint, 0, len(virs))
	for i := range virs {
		vendorIDs = append(vendorIDs, virs[i].VendorID)
		productIDs = append(productIDs, virs[i].ProductID)
	}

	var vendors []model.Vendor
	database.GetDB().Where("id IN ?", vendorIDs).Find(&vendors)
	vendorByID := make(map[uint]model.Vendor, len(vendors))
	for _, v := range vendors {
		vendorByID[v.ID] = v
	}

	var products []model.Product
	database.GetDB().Where("id IN ?", productIDs).Find(&products)
	productByID := make(map[uint]model.Product, len(products))
	for _, p := range products {
		productByID[p.ID] = p
	}

	for i := range virs {
		if v, ok := vendorByID[virs[i].VendorID]; ok {
			virs[i].VendorName = v.Name
		}
		if p, ok := productByID[virs[i].ProductID]; ok {
			virs[i].ProductName = p.Name
		}
		workflow.ApplyVIRStatus(&virs[i])
	}
}

// ListVIRs returns every inspection report, newest first
func ListVIRs(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("vir", "list")

	// Track DB operations
	defer prometheus.TrackDBOperation("query")(time.Now())

	var virs []model.VIR
	if err := database.GetDB().Order("created_at desc").Find(&virs).Error; err != nil {
		log.Error("Failed to retrieve VIRs", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve VIRs"})
	}

	enrichVIRs(virs)

	log.Info("VIRs retrieved successfully", zap.Int("count", len(virs)))
	return c.JSON(http.StatusOK, echo.Map{"data": virs})
}

// GetVIR returns a single inspection report by its VIR number
func GetVIR(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("vir", "get")

	virNumber := c.Param("virNumber")

	defer prometheus.TrackDBOperation("query")(time.Now())

	var vir model.VIR
	if err := database.GetDB().Where("vir_number = ?", virNumber).First(&vir).Error; err != nil {
		log.Warn("VIR not found", zap.String("vir_number", virNumber))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "VIR not found"})
	}

	virs := []model.VIR{vir}
	enrichVIRs(virs)

	return c.JSON(http.StatusOK, echo.Map{"data": virs[0]})
}

// CreateVIR creates a new inspection report in the in-progress state
func CreateVIR(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("vir", "create")

	var req VIRRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		log.Warn("Missing required VIR fields", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "vendor, product and checklist are required"})
	}

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		log.Error("Failed to get user ID from context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	db := database.GetDB()

	// The vendor and product must exist in the reference tables
	var vendor model.Vendor
	if err := db.First(&vendor, req.Vendor).Error; err != nil {
		log.Warn("Unknown vendor for VIR", zap.Uint("vendor_id", req.Vendor))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown vendor"})
	}
	var product model.Product
	if err := db.First(&product, req.Product).Error; err != nil {
		log.Warn("Unknown product for VIR", zap.Uint("product_id", req.Product))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown product"})
	}

	virNumber, err := nextRecordNumber(db, &model.VIR{}, "VIR")
	if err != nil {
		log.Error("Failed to allocate VIR number", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create VIR"})
	}

	vir := model.VIR{
		VIRNumber: virNumber,
		VendorID:  req.Vendor,
		ProductID: req.Product,
		Checklist: req.Checklist,
		Remarks:   req.Remarks,
		CreatedBy: userID,
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("insert")(time.Now())

	if err := db.Create(&vir).Error; err != nil {
		log.Error("Failed to create VIR", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create VIR"})
	}

	vir.VendorName = vendor.Name
	vir.ProductName = product.Name
	workflow.ApplyVIRStatus(&vir)

	log.Info("VIR created successfully",
		zap.Uint("id", vir.ID),
		zap.String("vir_number", vir.VIRNumber),
		zap.Uint("vendor_id", vir.VendorID),
		zap.Uint("product_id", vir.ProductID))
	return c.JSON(http.StatusCreated, echo.Map{"data": vir})
}

// VerifyVIR signs off an inspection. The transition happens exactly once;
// a completed VIR is read-only.
func VerifyVIR(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("vir", "verify")

	virNumber := c.Param("virNumber")

	var req VerifyVIRRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		log.Error("Failed to get user ID from context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	db := database.GetDB()

	var vir model.VIR
	if err := db.Where("vir_number = ?", virNumber).First(&vir).Error; err != nil {
		log.Warn("VIR not found for verification", zap.String("vir_number", virNumber))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "VIR not found"})
	}

	if err := workflow.CanVerifyVIR(&vir); err != nil {
		log.Warn("VIR already verified",
			zap.String("vir_number", virNumber),
			zap.Uintp("checked_by", vir.CheckedBy))
		prometheus.RecordWorkflowRejection("already_verified")
		return c.JSON(http.StatusConflict, echo.Map{"error": "VIR is already verified"})
	}

	// The verifier identity comes from the session, not the payload
	vir.CheckedBy = &userID
	vir.CheckedAt = sql.NullTime{Time: time.Now(), Valid: true}

	// Track DB operations
	defer prometheus.TrackDBOperation("update")(time.Now())

	if err := db.Save(&vir).Error; err != nil {
		log.Error("Failed to verify VIR", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to verify VIR"})
	}

	log.Info("VIR verified successfully",
		zap.String("vir_number", vir.VIRNumber),
		zap.Uint("checked_by", userID))
	return c.JSON(http.StatusOK, echo.Map{"message": "VIR verified successfully"})
}
