package model

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// VIRStatus is derived from the sign-off columns, never set directly
type VIRStatus string

const (
	VIRInProgress VIRStatus = "in-progress"
	VIRCompleted  VIRStatus = "completed"
)

// ChecklistAnswer is the yes/no/na answer to one inspection question
type ChecklistAnswer string

const (
	AnswerYes ChecklistAnswer = "yes"
	AnswerNo  ChecklistAnswer = "no"
	AnswerNA  ChecklistAnswer = "na"
)

// Checklist stores the inspection answers keyed by question text,
// persisted as a single jsonb column
type Checklist map[string]ChecklistAnswer

// Value implements driver.Valuer for jsonb storage
func (c Checklist) Value() (driver.Value, error) {
	if c == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(c)
}

// Scan implements sql.Scanner for jsonb storage
func (c *Checklist) Scan(value interface{}) error {
	return scanJSON(value, c)
}

// VIR represents a Vehicle Inspection Report. The record is created by a
// warehouse operator and signed off exactly once by a verifier; once
// checked_by is set the record is read-only.
type VIR struct {
	ID        uint         `json:"id" gorm:"primaryKey"`
	VIRNumber string       `json:"vir_number" gorm:"type:varchar(20);uniqueIndex;not null"`
	VendorID  uint         `json:"vendor_id" gorm:"index;not null"`
	ProductID uint         `json:"product_id" gorm:"index;not null"`
	Checklist Checklist    `json:"checklist" gorm:"type:jsonb"`
	Remarks   string       `json:"remarks" gorm:"type:text"`
	CreatedBy uint         `json:"created_by" gorm:"index"`
	CreatedAt time.Time    `json:"created_at"`
	CheckedBy *uint        `json:"checked_by,omitempty"`
	CheckedAt sql.NullTime `json:"checked_at,omitempty"`

	// Filled on read from the reference tables, never stored
	VendorName  string    `json:"vendor_name,omitempty" gorm:"-"`
	ProductName string    `json:"product_name,omitempty" gorm:"-"`
	Status      VIRStatus `json:"status" gorm:"-"`
}

// scanJSON decodes a jsonb column coming back as []byte or string
func scanJSON(value interface{}, dst interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", value)
	}
}
