package handler

import (
	"net/http"
	"strconv"
	"time"

	"kavalife-erp/internal/model"
	"kavalife-erp/pkg/database"
	"kavalife-erp/pkg/logger"
	"kavalife-erp/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ExtractionRequest is the payload for opening an extraction log
type ExtractionRequest struct {
	GRNNumber string             `json:"grn_number" validate:"required"`
	Date      string             `json:"date" validate:"required"`
	Solvent   string             `json:"solvent" validate:"required"`
	Operator  string             `json:"operator" validate:"required"`
	Materials model.MaterialRows `json:"materials"`
	Timings   model.TimingRows   `json:"timings"`
	Recovery  model.RecoveryMap  `json:"recovery"`
}

// StrippingRequest is the payload for opening a stripping log
type StrippingRequest struct {
	ProductName string              `json:"product_name" validate:"required"`
	BatchNo     string              `json:"batch_no" validate:"required"`
	Date        string              `json:"date" validate:"required"`
	Operator    string              `json:"operator" validate:"required"`
	Material    model.Document      `json:"material"`
	Operations  model.OperationRows `json:"operations"`
	OPRP2       model.Document      `json:"oprp2"`
	FinalOutput model.Document      `json:"final_output"`
}

// PurificationRequest is the payload for opening a purification log
type PurificationRequest struct {
	BatchNo      string              `json:"batch_no" validate:"required"`
	Date         string              `json:"date" validate:"required"`
	Material     model.Document      `json:"material"`
	Operations   model.OperationRows `json:"operations"`
	Verification model.Document      `json:"verification"`
}

// sessionUserID pulls the authenticated user out of the echo context
func sessionUserID(c echo.Context) (uint, bool) {
	userID, ok := c.Get("user_id").(uint)
	return userID, ok
}

// pathID parses the numeric id path parameter
func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err
}

// ListExtractions returns every extraction log, newest first
func ListExtractions(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("extraction", "list")

	defer prometheus.TrackDBOperation("query")(time.Now())

	var logs []model.ExtractionLog
	if err := database.GetDB().Order("created_at desc").Find(&logs).Error; err != nil {
		log.Error("Failed to retrieve extraction logs", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve extraction logs"})
	}

	return c.JSON(http.StatusOK, echo.Map{"data": logs})
}

// CreateExtraction opens a new extraction log against a received GRN
func CreateExtraction(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("extraction", "create")

	var req ExtractionRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		log.Warn("Missing required extraction fields", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Please fill all required fields"})
	}

	userID, ok := sessionUserID(c)
	if !ok {
		log.Error("Failed to get user ID from context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	db := database.GetDB()

	// The referenced GRN must exist before material can be charged
	if _, err := findGRNByNumber(db, req.GRNNumber); err != nil {
		log.Warn("GRN not found for extraction", zap.String("grn_number", req.GRNNumber))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown GRN"})
	}

	entry := model.ExtractionLog{
		GRNNumber: req.GRNNumber,
		Date:      req.Date,
		Solvent:   req.Solvent,
		Operator:  req.Operator,
		Materials: req.Materials,
		Timings:   req.Timings,
		Recovery:  req.Recovery,
		Status:    model.ProcessInProgress,
		CreatedBy: userID,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	if err := db.Create(&entry).Error; err != nil {
		log.Error("Failed to create extraction log", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create extraction log"})
	}

	log.Info("Extraction log created successfully",
		zap.Uint("id", entry.ID),
		zap.String("grn_number", entry.GRNNumber))
	return c.JSON(http.StatusCreated, echo.Map{"data": entry})
}

// CompleteExtraction closes an extraction log; completed logs are read-only
func CompleteExtraction(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("extraction", "complete")

	id, err := pathID(c)
	if err != nil {
		log.Error("Invalid extraction log ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid log ID"})
	}

	db := database.GetDB()

	var entry model.ExtractionLog
	if err := db.First(&entry, id).Error; err != nil {
		log.Warn("Extraction log not found", zap.Uint("id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Extraction log not found"})
	}

	if entry.Status == model.ProcessCompleted {
		prometheus.RecordWorkflowRejection("process_completed")
		return c.JSON(http.StatusConflict, echo.Map{"error": "log is already completed"})
	}

	entry.Status = model.ProcessCompleted

	defer prometheus.TrackDBOperation("update")(time.Now())

	if err := db.Save(&entry).Error; err != nil {
		log.Error("Failed to complete extraction log", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to complete extraction log"})
	}

	log.Info("Extraction log completed", zap.Uint("id", entry.ID))
	return c.JSON(http.StatusOK, echo.Map{"data": entry})
}

// ListStrippings returns every stripping log, newest first
func ListStrippings(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("stripping", "list")

	defer prometheus.TrackDBOperation("query")(time.Now())

	var logs []model.StrippingLog
	if err := database.GetDB().Order("created_at desc").Find(&logs).Error; err != nil {
		log.Error("Failed to retrieve stripping logs", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve stripping logs"})
	}

	return c.JSON(http.StatusOK, echo.Map{"data": logs})
}

// CreateStripping opens a new stripping log
func CreateStripping(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("stripping", "create")

	var req StrippingRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		log.Warn("Missing required stripping fields", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Please fill all required fields"})
	}

	userID, ok := sessionUserID(c)
	if !ok {
		log.Error("Failed to get user ID from context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	entry := model.StrippingLog{
		ProductName: req.ProductName,
		BatchNo:     req.BatchNo,
		Date:        req.Date,
		Operator:    req.Operator,
		Material:    req.Material,
		Operations:  req.Operations,
		OPRP2:       req.OPRP2,
		FinalOutput: req.FinalOutput,
		Status:      model.ProcessInProgress,
		CreatedBy:   userID,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	if err := database.GetDB().Create(&entry).Error; err != nil {
		log.Error("Failed to create stripping log", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create stripping log"})
	}

	log.Info("Stripping log created successfully",
		zap.Uint("id", entry.ID),
		zap.String("batch_no", entry.BatchNo))
	return c.JSON(http.StatusCreated, echo.Map{"data": entry})
}

// CompleteStripping closes a stripping log; completed logs are read-only
func CompleteStripping(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("stripping", "complete")

	id, err := pathID(c)
	if err != nil {
		log.Error("Invalid stripping log ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid log ID"})
	}

	db := database.GetDB()

	var entry model.StrippingLog
	if err := db.First(&entry, id).Error; err != nil {
		log.Warn("Stripping log not found", zap.Uint("id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Stripping log not found"})
	}

	if entry.Status == model.ProcessCompleted {
		prometheus.RecordWorkflowRejection("process_completed")
		return c.JSON(http.StatusConflict, echo.Map{"error": "log is already completed"})
	}

	entry.Status = model.ProcessCompleted

	defer prometheus.TrackDBOperation("update")(time.Now())

	if err := db.Save(&entry).Error; err != nil {
		log.Error("Failed to complete stripping log", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to complete stripping log"})
	}

	log.Info("Stripping log completed", zap.Uint("id", entry.ID))
	return c.JSON(http.StatusOK, echo.Map{"data": entry})
}

// ListPurifications returns every purification log, newest first
func ListPurifications(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("purification", "list")

	defer prometheus.TrackDBOperation("query")(time.Now())

	var logs []model.PurificationLog
	if err := database.GetDB().Order("created_at desc").Find(&logs).Error; err != nil {
		log.Error("Failed to retrieve purification logs", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve purification logs"})
	}

	return c.JSON(http.StatusOK, echo.Map{"data": logs})
}

// CreatePurification opens a new purification log
func CreatePurification(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("purification", "create")

	var req PurificationRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		log.Warn("Missing required purification fields", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Please fill all required fields"})
	}

	userID, ok := sessionUserID(c)
	if !ok {
		log.Error("Failed to get user ID from context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	entry := model.PurificationLog{
		BatchNo:      req.BatchNo,
		Date:         req.Date,
		Material:     req.Material,
		Operations:   req.Operations,
		Verification: req.Verification,
		Status:       model.ProcessInProgress,
		CreatedBy:    userID,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	if err := database.GetDB().Create(&entry).Error; err != nil {
		log.Error("Failed to create purification log", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create purification log"})
	}

	log.Info("Purification log created successfully",
		zap.Uint("id", entry.ID),
		zap.String("batch_no", entry.BatchNo))
	return c.JSON(http.StatusCreated, echo.Map{"data": entry})
}

// CompletePurification closes a purification log; completed logs are read-only
func CompletePurification(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("purification", "complete")

	id, err := pathID(c)
	if err != nil {
		log.Error("Invalid purification log ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid log ID"})
	}

	db := database.GetDB()

	var entry model.PurificationLog
	if err := db.First(&entry, id).Error; err != nil {
		log.Warn("Purification log not found", zap.Uint("id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Purification log not found"})
	}

	if entry.Status == model.ProcessCompleted {
		prometheus.RecordWorkflowRejection("process_completed")
		return c.JSON(http.StatusConflict, echo.Map{"error": "log is already completed"})
	}

	entry.Status = model.ProcessCompleted

	defer prometheus.TrackDBOperation("update")(time.Now())

	if err := db.Save(&entry).Error; err != nil {
		log.Error("Failed to complete purification log", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to complete purification log"})
	}

	log.Info("Purification log completed", zap.Uint("id", entry.ID))
	return c.JSON(http.StatusOK, echo.Map{"data": entry})
}
