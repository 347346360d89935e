package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// ProcessStatus is shared by the extraction, stripping and purification logs
type ProcessStatus string

const (
	ProcessInProgress ProcessStatus = "in-progress"
	ProcessCompleted  ProcessStatus = "completed"
)

// MaterialRow is one charged-material line of an extraction log
type MaterialRow struct {
	Date          string `json:"date"`
	Product       string `json:"product"`
	Variety       string `json:"variety"`
	BatchNo       string `json:"batchNo"`
	GRN           string `json:"grn"`
	Solvent       string `json:"solvent"`
	EquipmentCode string `json:"equipmentCode"`
	Quantity      string `json:"quantity"`
	FilterCloth   string `json:"filterCloth"`
	CleaningDate  string `json:"cleaningDate"`
}

// MaterialRows persists as a jsonb array
type MaterialRows []MaterialRow

func (r MaterialRows) Value() (driver.Value, error) { return jsonValue(r) }
func (r *MaterialRows) Scan(value interface{}) error { return scanJSON(value, r) }

// TimingRow is one solvent-wash timing line of an extraction log
type TimingRow struct {
	WashNo       string `json:"washNo"`
	SolventQty   string `json:"solventQty"`
	SprayingFrom string `json:"sprayingFrom"`
	SprayingTo   string `json:"sprayingTo"`
	MiscellaQty  string `json:"miscellaQty"`
	CollectedTo  string `json:"collectedTo"`
	Operator     string `json:"operator"`
	Remarks      string `json:"remarks"`
}

// TimingRows persists as a jsonb array
type TimingRows []TimingRow

func (r TimingRows) Value() (driver.Value, error) { return jsonValue(r) }
func (r *TimingRows) Scan(value interface{}) error { return scanJSON(value, r) }

// RecoveryEntry records one solvent-recovery checkpoint (stream timings,
// closing time, sign-off)
type RecoveryEntry struct {
	Timestamp string `json:"timestamp"`
	Operator  string `json:"operator"`
	Remarks   string `json:"remarks"`
}

// RecoveryMap persists the recovery checkpoints keyed by label
type RecoveryMap map[string]RecoveryEntry

func (m RecoveryMap) Value() (driver.Value, error) { return jsonValue(m) }
func (m *RecoveryMap) Scan(value interface{}) error { return scanJSON(value, m) }

// ExtractionLog is the shift log of one extraction run, raised against a GRN
type ExtractionLog struct {
	ID        uint          `json:"id" gorm:"primaryKey"`
	GRNNumber string        `json:"grn_number" gorm:"type:varchar(20);index;not null"`
	Date      string        `json:"date" gorm:"type:varchar(10)"`
	Solvent   string        `json:"solvent" gorm:"type:varchar(50)"`
	Operator  string        `json:"operator" gorm:"type:varchar(100)"`
	Materials MaterialRows  `json:"materials" gorm:"type:jsonb"`
	Timings   TimingRows    `json:"timings" gorm:"type:jsonb"`
	Recovery  RecoveryMap   `json:"recovery" gorm:"type:jsonb"`
	Status    ProcessStatus `json:"status" gorm:"type:varchar(20);default:'in-progress'"`
	CreatedBy uint          `json:"created_by" gorm:"index"`
	CreatedAt time.Time     `json:"created_at"`
}

// OperationRow is one operation line of a stripping or purification log
type OperationRow struct {
	Date            string `json:"date"`
	WashNo          string `json:"washNo,omitempty"`
	EquipmentCode   string `json:"equipmentCode,omitempty"`
	StartingAt      string `json:"startingAt,omitempty"`
	ApplyVacuum     string `json:"applyVacuum,omitempty"`
	DirectSteamStart string `json:"directSteamStart,omitempty"`
	DirectSteamStop string `json:"directSteamStop,omitempty"`
	BottomAirStart  string `json:"bottomAirStart,omitempty"`
	BottomAirStop   string `json:"bottomAirStop,omitempty"`
	StartTime       string `json:"startTime,omitempty"`
	EndTime         string `json:"endTime,omitempty"`
	CollectionTime  string `json:"collectionTime,omitempty"`
	Operator        string `json:"operator"`
	Remarks         string `json:"remarks"`
}

// OperationRows persists as a jsonb array
type OperationRows []OperationRow

func (r OperationRows) Value() (driver.Value, error) { return jsonValue(r) }
func (r *OperationRows) Scan(value interface{}) error { return scanJSON(value, r) }

// Document persists a free-form form section (material details, OPRP-2
// readings, final output, verification) as a jsonb object
type Document map[string]string

func (d Document) Value() (driver.Value, error) { return jsonValue(d) }
func (d *Document) Scan(value interface{}) error { return scanJSON(value, d) }

// StrippingLog is the shift log of one solvent-stripping run
type StrippingLog struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	ProductName string        `json:"product_name" gorm:"type:varchar(255)"`
	BatchNo     string        `json:"batch_no" gorm:"type:varchar(50);index"`
	Date        string        `json:"date" gorm:"type:varchar(10)"`
	Operator    string        `json:"operator" gorm:"type:varchar(100)"`
	Material    Document      `json:"material" gorm:"type:jsonb"`
	Operations  OperationRows `json:"operations" gorm:"type:jsonb"`
	OPRP2       Document      `json:"oprp2" gorm:"column:oprp2;type:jsonb"`
	FinalOutput Document      `json:"final_output" gorm:"type:jsonb"`
	Status      ProcessStatus `json:"status" gorm:"type:varchar(20);default:'in-progress'"`
	CreatedBy   uint          `json:"created_by" gorm:"index"`
	CreatedAt   time.Time     `json:"created_at"`
}

// PurificationLog is the shift log of one purification run
type PurificationLog struct {
	ID           uint          `json:"id" gorm:"primaryKey"`
	BatchNo      string        `json:"batch_no" gorm:"type:varchar(50);index"`
	Date         string        `json:"date" gorm:"type:varchar(10)"`
	Material     Document      `json:"material" gorm:"type:jsonb"`
	Operations   OperationRows `json:"operations" gorm:"type:jsonb"`
	Verification Document      `json:"verification" gorm:"type:jsonb"`
	Status       ProcessStatus `json:"status" gorm:"type:varchar(20);default:'in-progress'"`
	CreatedBy    uint          `json:"created_by" gorm:"index"`
	CreatedAt    time.Time     `json:"created_at"`
}

// jsonValue marshals a jsonb column value
func jsonValue(v interface{}) (driver.Value, error) {
	if v == nil {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}
