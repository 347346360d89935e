package handler

import (
	"errors"
	"net/http"
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

// QAQCRequest is the payload for creating a QA/QC entry. JSON keys match
// the frontend's QAQCData shape.
type QAQCRequest struct {
	ProcessType       string           `json:"processType" validate:"required,oneof=grn"`
	ProcessRef        string           `json:"processRef" validate:"required"`
	ContainersSampled int              `json:"containersSampled" validate:"required"`
	SampledQuantity   float64          `json:"sampledQuantity" validate:"required"`
	SampledBy         string           `json:"sampledBy" validate:"required"`
	SampledOn         string           `json:"sampledOn" validate:"required"`
	ARNumber          string           `json:"arNumber"`
	ReleaseDate       string           `json:"releaseDate"`
	Potency           string           `json:"potency"`
	MoistureContent   string           `json:"moistureContent"`
	YieldPercent      string           `json:"yieldPercent"`
	Status            model.QAQCStatus `json:"status" validate:"omitempty,oneof=approved rejected"`
	AnalystRemark     string           `json:"analystRemark"`
	AnalysedBy        string           `json:"analysedBy"`
	ApprovedBy        string           `json:"approvedBy"`
}

// ViewQAQC returns the QA/QC entry for a process reference, or a JSON
// null when none exists. The frontend uses the null to decide between
// the create and view modals.
func ViewQAQC(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("qaqc", "get")

	processType := c.QueryParam("processType")
	processRef := c.QueryParam("processRef")
	if processType == "" || processRef == "" {
		log.Warn("Missing processType or processRef")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "processType and processRef are required"})
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("query")(time.Now())

	var entry model.QAQC
	err := database.GetDB().
		Where("process_type = ? AND process_ref = ?", processType, processRef).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusOK, nil)
		}
		log.Error("Failed to retrieve QAQC entry", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve QAQC entry"})
	}

	return c.JSON(http.StatusOK, entry)
}

// CreateQAQC records the lab sign-off for a receipt. At most one entry may
// exist per process reference; entries are immutable once created.
func CreateQAQC(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("qaqc", "create")

	var req QAQCRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		log.Warn("Missing required QAQC fields", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Please fill all required fields"})
	}

	db := database.GetDB()

	// The referenced GRN must exist
	grn, err := findGRNByNumber(db, req.ProcessRef)
	if err != nil {
		log.Warn("GRN not found for QAQC", zap.String("process_ref", req.ProcessRef))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown GRN"})
	}

	var existing model.QAQC
	db.Where("process_type = ? AND process_ref = ?", req.ProcessType, req.ProcessRef).First(&existing)
	if err := workflow.CanCreateQAQC(&existing); err != nil {
		log.Warn("QAQC entry already exists", zap.String("process_ref", req.ProcessRef))
		prometheus.RecordWorkflowRejection("qaqc_exists")
		return c.JSON(http.StatusConflict, echo.Map{"error": "QAQC entry already exists for this GRN"})
	}

	entry := model.QAQC{
		ProcessType:       req.ProcessType,
		ProcessRef:        req.ProcessRef,
		ContainersSampled: req.ContainersSampled,
		SampledQuantity:   req.SampledQuantity,
		SampledBy:         req.SampledBy,
		SampledOn:         req.SampledOn,
		ARNumber:          req.ARNumber,
		ReleaseDate:       req.ReleaseDate,
		Potency:           req.Potency,
		MoistureContent:   req.MoistureContent,
		YieldPercent:      req.YieldPercent,
		Status:            req.Status,
		AnalystRemark:     req.AnalystRemark,
		AnalysedBy:        req.AnalysedBy,
		ApprovedBy:        req.ApprovedBy,
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("insert")(time.Now())

	if err := db.Create(&entry).Error; err != nil {
		log.Error("Failed to create QAQC entry", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create QAQC entry"})
	}

	// Advance the receipt as QA/QC progresses
	grn.Status = workflow.GRNStatusWithQAQC(&entry)
	if err := db.Save(grn).Error; err != nil {
		log.Error("Failed to advance GRN status", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update GRN status"})
	}

	log.Info("QAQC entry created successfully",
		zap.Uint("id", entry.ID),
		zap.String("process_ref", entry.ProcessRef),
		zap.String("status", string(entry.Status)),
		zap.String("grn_status", string(grn.Status)))
	return c.JSON(http.StatusCreated, entry)
}
