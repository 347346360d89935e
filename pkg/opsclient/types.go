package opsclient

import "kavalife-erp/internal/model"

// Credentials is the login payload
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// VIRCreate is the payload for creating a vehicle inspection report
type VIRCreate struct {
	Vendor    uint            `json:"vendor" validate:"required"`
	Product   uint            `json:"product" validate:"required"`
	Remarks   string          `json:"remarks"`
	Checklist model.Checklist `json:"checklist" validate:"required"`
	CreatedBy uint            `json:"createdBy"`
	CreatedAt string          `json:"createdAt"`
}

// VIRVerify is the sign-off payload. The server takes the verifier
// identity from the session; the fields here are advisory.
type VIRVerify struct {
	CheckedBy uint   `json:"checkedBy"`
	CheckedAt string `json:"checkedAt"`
}

// GRNCreate is the payload for creating a goods received note
type GRNCreate struct {
	VIRNumber       string                `json:"vir_number" validate:"required"`
	ContainerQty    int                   `json:"container_qty" validate:"required"`
	Quantity        float64               `json:"quantity" validate:"required"`
	Invoice         string                `json:"invoice" validate:"required"`
	InvoiceDate     string                `json:"invoice_date" validate:"required"`
	InvoiceImg      string                `json:"invoice_img"`
	PackagingStatus model.PackagingStatus `json:"packaging_status" validate:"required,oneof=packed loose damaged"`
	Remarks         string                `json:"remarks"`
}

// GRNUpdate carries a partial update; nil fields stay untouched
type GRNUpdate struct {
	ContainerQty    *int                   `json:"container_qty,omitempty"`
	Quantity        *float64               `json:"quantity,omitempty"`
	Invoice         *string                `json:"invoice,omitempty"`
	InvoiceDate     *string                `json:"invoice_date,omitempty"`
	InvoiceImg      *string                `json:"invoice_img,omitempty"`
	PackagingStatus *model.PackagingStatus `json:"packaging_status,omitempty"`
	Remarks         *string                `json:"remarks,omitempty"`
}

// QAQCCreate is the payload for recording a lab sign-off against a GRN
type QAQCCreate struct {
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

// ExtractionCreate opens an extraction log against a received GRN
type ExtractionCreate struct {
	GRNNumber string             `json:"grn_number" validate:"required"`
	Date      string             `json:"date" validate:"required"`
	Solvent   string             `json:"solvent" validate:"required"`
	Operator  string             `json:"operator" validate:"required"`
	Materials model.MaterialRows `json:"materials"`
	Timings   model.TimingRows   `json:"timings"`
	Recovery  model.RecoveryMap  `json:"recovery"`
}

// StrippingCreate opens a stripping log
type StrippingCreate struct {
	ProductName string              `json:"product_name" validate:"required"`
	BatchNo     string              `json:"batch_no" validate:"required"`
	Date        string              `json:"date" validate:"required"`
	Operator    string              `json:"operator" validate:"required"`
	Material    model.Document      `json:"material"`
	Operations  model.OperationRows `json:"operations"`
	OPRP2       model.Document      `json:"oprp2"`
	FinalOutput model.Document      `json:"final_output"`
}

// PurificationCreate opens a purification log
type PurificationCreate struct {
	BatchNo      string              `json:"batch_no" validate:"required"`
	Date         string              `json:"date" validate:"required"`
	Material     model.Document      `json:"material"`
	Operations   model.OperationRows `json:"operations"`
	Verification model.Document      `json:"verification"`
}
