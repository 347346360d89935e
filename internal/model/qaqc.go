package model

import "time"

// QAQCStatus is the lab's verdict on a sampled receipt
type QAQCStatus string

const (
	QAQCStatusApproved QAQCStatus = "approved"
	QAQCStatusRejected QAQCStatus = "rejected"
)

// QAQC is the quality sign-off attached to a process record, at most one
// per (process_type, process_ref) pair. Entries are immutable once created.
// JSON keys are camelCase to match the frontend's QAQCData shape.
type QAQC struct {
	ID                uint       `json:"id" gorm:"primaryKey"`
	ProcessType       string     `json:"processType" gorm:"type:varchar(20);uniqueIndex:idx_process_ref;not null"`
	ProcessRef        string     `json:"processRef" gorm:"type:varchar(20);uniqueIndex:idx_process_ref;not null"`
	ContainersSampled int        `json:"containersSampled"`
	SampledQuantity   float64    `json:"sampledQuantity"`
	SampledBy         string     `json:"sampledBy" gorm:"type:varchar(100)"`
	SampledOn         string     `json:"sampledOn" gorm:"type:varchar(10)"`
	ARNumber          string     `json:"arNumber" gorm:"column:ar_number;type:varchar(50)"`
	ReleaseDate       string     `json:"releaseDate" gorm:"type:varchar(10)"`
	Potency           string     `json:"potency" gorm:"type:varchar(50)"`
	MoistureContent   string     `json:"moistureContent" gorm:"type:varchar(50)"`
	YieldPercent      string     `json:"yieldPercent" gorm:"type:varchar(50)"`
	Status            QAQCStatus `json:"status" gorm:"type:varchar(20)"`
	AnalystRemark     string     `json:"analystRemark" gorm:"type:text"`
	AnalysedBy        string     `json:"analysedBy" gorm:"type:varchar(100)"`
	ApprovedBy        string     `json:"approvedBy" gorm:"type:varchar(100)"`
	CreatedAt         time.Time  `json:"created_at"`
}
