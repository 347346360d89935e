package model

import "time"

// GRNStatus tracks the receipt's progress through packaging and QA.
// The server owns every transition; clients only read it.
type GRNStatus string

const (
	GRNPending    GRNStatus = "pending"
	GRNInProgress GRNStatus = "in-progress"
	GRNCompleted  GRNStatus = "completed"
)

// QAQCState is the GRN-side view of its QA/QC entry, derived from the
// qaqc table on read
type QAQCState string

const (
	QAQCNotCreated  QAQCState = "not_created"
	QAQCCreated     QAQCState = "created"
	QAQCUnderReview QAQCState = "under_review"
	QAQCApproved    QAQCState = "approved"
	QAQCRejected    QAQCState = "rejected"
)

// PackagingStatus describes the condition of the received containers
type PackagingStatus string

const (
	PackagingPacked  PackagingStatus = "packed"
	PackagingLoose   PackagingStatus = "loose"
	PackagingDamaged PackagingStatus = "damaged"
)

// GRN represents a Goods Received Note. A GRN is always raised against a
// completed VIR; the vendor and product names are denormalized at creation
// time so the receipt stays readable even if reference data changes.
type GRN struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	GRNNumber       string          `json:"grn_number" gorm:"type:varchar(20);uniqueIndex;not null"`
	VIRID           uint            `json:"vir_id,omitempty" gorm:"index"`
	VIRNumber       string          `json:"vir_number" gorm:"type:varchar(20);index;not null"`
	VendorName      string          `json:"vendor_name" gorm:"type:varchar(100)"`
	ProductName     string          `json:"product_name" gorm:"type:varchar(255)"`
	ContainerQty    int             `json:"container_qty"`
	Quantity        float64         `json:"quantity"`
	Invoice         string          `json:"invoice" gorm:"type:varchar(50)"`
	InvoiceDate     string          `json:"invoice_date" gorm:"type:varchar(10)"`
	InvoiceImg      string          `json:"invoice_img,omitempty" gorm:"type:text"`
	PackagingStatus PackagingStatus `json:"packaging_status" gorm:"type:varchar(20)"`
	Remarks         string          `json:"remarks,omitempty" gorm:"type:text"`
	CreatedBy       uint            `json:"created_by" gorm:"index"`
	CreatedAt       time.Time       `json:"created_at"`
	Status          GRNStatus       `json:"status" gorm:"type:varchar(20);default:'pending'"`

	// Derived on read, never stored
	QAQCStatus QAQCState `json:"qaqcStatus" gorm:"-"`
}
