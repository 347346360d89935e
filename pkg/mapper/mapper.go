// Package mapper turns wire-format records into display view-models.
// Every transform is a pure function of the record and the reference
// store; nothing here touches the network or mutates its inputs.
package mapper

import (
	"strconv"

	"kavalife-erp/internal/model"
)

// Resolver is the reference-lookup slice of the bootstrap store
type Resolver interface {
	GetVendor(id uint) (model.Vendor, bool)
	GetProduct(id uint) (model.Product, bool)
	GetUser(id uint) (model.User, bool)
}

// Display statuses for VIR cards
const (
	StatusVerified            = "verified"
	StatusPendingVerification = "pending verification"
)

// QA/QC actions offered on a GRN card
const (
	QAQCActionCreate = "create"
	QAQCActionView   = "view"
)

// VendorName resolves a vendor display name. The embedded name wins when
// the backend supplied one; otherwise the reference store; otherwise the
// stringified id, so a cache miss degrades instead of erroring.
func VendorName(r Resolver, embedded string, id uint) string {
	if embedded != "" {
		return embedded
	}
	if v, ok := r.GetVendor(id); ok {
		return v.Name
	}
	return strconv.FormatUint(uint64(id), 10)
}

// ProductName resolves a product display name with the same fallback
// chain as VendorName.
func ProductName(r Resolver, embedded string, id uint) string {
	if embedded != "" {
		return embedded
	}
	if p, ok := r.GetProduct(id); ok {
		return p.Name
	}
	return strconv.FormatUint(uint64(id), 10)
}

// UserName resolves a user display name with the same fallback chain
func UserName(r Resolver, embedded string, id uint) string {
	if embedded != "" {
		return embedded
	}
	if u, ok := r.GetUser(id); ok {
		return u.Username
	}
	return strconv.FormatUint(uint64(id), 10)
}

// CardStatus derives the VIR display status from the sign-off column
// alone: a checker present means verified.
func CardStatus(v *model.VIR) string {
	if v.CheckedBy != nil {
		return StatusVerified
	}
	return StatusPendingVerification
}

// VIRCard is the card-level view of an inspection report
type VIRCard struct {
	VIRNumber   string
	VendorName  string
	ProductName string
	Status      string
	CreatedBy   string
	CreatedAt   string
}

// VIRCardView builds the card view for one inspection report
func VIRCardView(r Resolver, v *model.VIR) VIRCard {
	return VIRCard{
		VIRNumber:   v.VIRNumber,
		VendorName:  VendorName(r, v.VendorName, v.VendorID),
		ProductName: ProductName(r, v.ProductName, v.ProductID),
		Status:      CardStatus(v),
		CreatedBy:   UserName(r, "", v.CreatedBy),
		CreatedAt:   v.CreatedAt.Format("02/01/2006"),
	}
}

// VIRDetails is the full read view of an inspection report, including the
// checklist and both sign-offs
type VIRDetails struct {
	VIRCard
	Checklist model.Checklist
	Remarks   string
	CheckedBy string
	CheckedAt string
	ReadOnly  bool
}

// VIRDetailsView builds the detail view. A verified report is read-only.
func VIRDetailsView(r Resolver, v *model.VIR) VIRDetails {
	d := VIRDetails{
		VIRCard:   VIRCardView(r, v),
		Checklist: v.Checklist,
		Remarks:   v.Remarks,
		ReadOnly:  v.CheckedBy != nil,
	}
	if v.CheckedBy != nil {
		d.CheckedBy = UserName(r, "", *v.CheckedBy)
	}
	if v.CheckedAt.Valid {
		d.CheckedAt = v.CheckedAt.Time.Format("02/01/2006")
	}
	return d
}

// GRNCard is the card-level view of a goods received note
type GRNCard struct {
	GRNNumber   string
	VIRNumber   string
	VendorName  string
	ProductName string
	Status      model.GRNStatus
	QAQCStatus  model.QAQCState
	QAQCAction  string
	CreatedBy   string
	CreatedAt   string
}

// GRNCardView builds the card view for one receipt. The QA/QC action is
// "create" only while no entry exists; afterwards the entry is view-only.
func GRNCardView(r Resolver, g *model.GRN) GRNCard {
	action := QAQCActionView
	if g.QAQCStatus == model.QAQCNotCreated {
		action = QAQCActionCreate
	}
	return GRNCard{
		GRNNumber:   g.GRNNumber,
		VIRNumber:   g.VIRNumber,
		VendorName:  g.VendorName,
		ProductName: g.ProductName,
		Status:      g.Status,
		QAQCStatus:  g.QAQCStatus,
		QAQCAction:  action,
		CreatedBy:   UserName(r, "", g.CreatedBy),
		CreatedAt:   g.CreatedAt.Format("02/01/2006"),
	}
}
