package handler

import (
	"net/http"
	"strconv"
	"time"

	"kavalife-erp/internal/model"
	"kavalife-erp/internal/workflow"
	"kavalife-erp/pkg/database"
	"kavalife-erp/pkg/logger"
	"kavalife-erp/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GRNRequest is the payload for creating a goods received note
type GRNRequest struct {
	VIRNumber       string                `json:"vir_number" validate:"required"`
	ContainerQty    int                   `json:"container_qty" validate:"required"`
	Quantity        float64               `json:"quantity" validate:"required"`
	Invoice         string                `json:"invoice" validate:"required"`
	InvoiceDate     string                `json:"invoice_date" validate:"required"`
	InvoiceImg      string                `json:"invoice_img"`
	PackagingStatus model.PackagingStatus `json:"packaging_status" validate:"required,oneof=packed loose damaged"`
	Remarks         string                `json:"remarks"`
}

// GRNUpdateRequest carries a partial update; nil fields stay untouched
type GRNUpdateRequest struct {
	ContainerQty    *int                   `json:"container_qty"`
	Quantity        *float64               `json:"quantity"`
	Invoice         *string                `json:"invoice"`
	InvoiceDate     *string                `json:"invoice_date"`
	InvoiceImg      *string                `json:"invoice_img"`
	PackagingStatus *model.PackagingStatus `json:"packaging_status"`
	Remarks         *string                `json:"remarks"`
}

// attachQAQCState fills the derived qaqcStatus field from the qaqc table
func attachQAQCState(grns []model.GRN) {
	if len(grns) == 0 {
		return
	}

	refs := make([]string, 0, len(grns))
	for i := range grns {
		refs = append(refs, grns[i].GRNNumber)
	}

	var entries []model.QAQC
	database.GetDB().Where("process_type = ? AND process_ref IN ?", "grn", refs).Find(&entries)
	byRef := make(map[string]model.QAQC, len(entries))
	for _, e := range entries {
		byRef[e.ProcessRef] = e
	}

	for i := range grns {
		if entry, ok := byRef[grns[i].GRNNumber]; ok {
			grns[i].QAQCStatus = workflow.QAQCState(&entry)
		} else {
			grns[i].QAQCStatus = model.QAQCNotCreated
		}
	}
}

// ViewGRNs returns every goods received note, newest first
func ViewGRNs(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("grn", "list")

	// Track DB operations
	defer prometheus.TrackDBOperation("query")(time.Now())

	var grns []model.GRN
	if err := database.GetDB().Order("created_at desc").Find(&grns).Error; err != nil {
		log.Error("Failed to retrieve GRNs", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve GRNs"})
	}

	attachQAQCState(grns)

	log.Info("GRNs retrieved successfully", zap.Int("count", len(grns)))
	return c.JSON(http.StatusOK, echo.Map{"data": grns})
}

// CreateGRN creates a receipt against a completed VIR. The workflow rule
// is enforced here as well as in the client's VIR selector.
func CreateGRN(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("grn", "create")

	var req GRNRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		log.Warn("Missing required GRN fields", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Please fill all required fields"})
	}

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		log.Error("Failed to get user ID from context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	db := database.GetDB()

	var vir model.VIR
	if err := db.Where("vir_number = ?", req.VIRNumber).First(&vir).Error; err != nil {
		log.Warn("VIR not found for GRN", zap.String("vir_number", req.VIRNumber))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown VIR"})
	}

	if err := workflow.CanCreateGRN(&vir); err != nil {
		log.Warn("GRN rejected: VIR not completed", zap.String("vir_number", vir.VIRNumber))
		prometheus.RecordWorkflowRejection("vir_not_completed")
		return c.JSON(http.StatusConflict, echo.Map{"error": "GRN can only be created against a completed VIR"})
	}

	// Denormalize the display names at receipt time
	var vendor model.Vendor
	db.First(&vendor, vir.VendorID)
	var product model.Product
	db.First(&product, vir.ProductID)

	grnNumber, err := nextRecordNumber(db, &model.GRN{}, "GRN")
	if err != nil {
		log.Error("Failed to allocate GRN number", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create GRN"})
	}

	grn := model.GRN{
		GRNNumber:       grnNumber,
		VIRID:           vir.ID,
		VIRNumber:       vir.VIRNumber,
		VendorName:      vendor.Name,
		ProductName:     product.Name,
		ContainerQty:    req.ContainerQty,
		Quantity:        req.Quantity,
		Invoice:         req.Invoice,
		InvoiceDate:     req.InvoiceDate,
		InvoiceImg:      req.InvoiceImg,
		PackagingStatus: req.PackagingStatus,
		Remarks:         req.Remarks,
		CreatedBy:       userID,
		Status:          model.GRNPending,
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("insert")(time.Now())

	if err := db.Create(&grn).Error; err != nil {
		log.Error("Failed to create GRN", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create GRN"})
	}

	grn.QAQCStatus = model.QAQCNotCreated

	log.Info("GRN created successfully",
		zap.Uint("id", grn.ID),
		zap.String("grn_number", grn.GRNNumber),
		zap.String("vir_number", grn.VIRNumber))
	return c.JSON(http.StatusCreated, echo.Map{"data": grn})
}

// UpdateGRN applies a partial update to a receipt that is still open.
// Completed receipts are read-only.
func UpdateGRN(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("grn", "update")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid GRN ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid GRN ID"})
	}

	var req GRNUpdateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	db := database.GetDB()

	var grn model.GRN
	if err := db.First(&grn, id).Error; err != nil {
		log.Warn("GRN not found for update", zap.Uint64("grn_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "GRN not found"})
	}

	if grn.Status == model.GRNCompleted {
		log.Warn("Update rejected: GRN completed", zap.String("grn_number", grn.GRNNumber))
		prometheus.RecordWorkflowRejection("grn_completed")
		return c.JSON(http.StatusConflict, echo.Map{"error": "completed GRN is read-only"})
	}

	if req.ContainerQty != nil {
		grn.ContainerQty = *req.ContainerQty
	}
	if req.Quantity != nil {
		grn.Quantity = *req.Quantity
	}
	if req.Invoice != nil {
		grn.Invoice = *req.Invoice
	}
	if req.InvoiceDate != nil {
		grn.InvoiceDate = *req.InvoiceDate
	}
	if req.InvoiceImg != nil {
		grn.InvoiceImg = *req.InvoiceImg
	}
	if req.PackagingStatus != nil {
		grn.PackagingStatus = *req.PackagingStatus
	}
	if req.Remarks != nil {
		grn.Remarks = *req.Remarks
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("update")(time.Now())

	if err := db.Save(&grn).Error; err != nil {
		log.Error("Failed to update GRN", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update GRN"})
	}

	grns := []model.GRN{grn}
	attachQAQCState(grns)

	log.Info("GRN updated successfully",
		zap.Uint("id", grn.ID),
		zap.String("grn_number", grn.GRNNumber))
	return c.JSON(http.StatusOK, echo.Map{"data": grns[0]})
}

// findGRNByNumber is shared with the QA/QC handlers
func findGRNByNumber(db *gorm.DB, grnNumber string) (*model.GRN, error) {
	var grn model.GRN
	if err := db.Where("grn_number = ?", grnNumber).First(&grn).Error; err != nil {
		return nil, err
	}
	return &grn, nil
}
