// Package workflow centralizes the record-status lifecycle shared by the
// goods-receipt flow: VIR verification, GRN progress and QA/QC gating.
// Handlers and clients derive every status through these functions instead
// of recomputing them inline.
package workflow

import (
	"errors"

	"kavalife-erp/internal/model"
)

var (
	// ErrVIRAlreadyVerified is returned when a second sign-off is attempted
	ErrVIRAlreadyVerified = errors.New("vir is already verified")

	// ErrVIRNotCompleted is returned when a GRN is raised against an
	// unverified inspection
	ErrVIRNotCompleted = errors.New("vir is not completed")

	// ErrQAQCExists is returned when a second QA/QC entry is attempted
	// for the same process reference
	ErrQAQCExists = errors.New("qaqc entry already exists")
)

// VIRStatus derives the inspection status from the sign-off column.
// The status is a pure function of checked_by and is never stored.
func VIRStatus(v *model.VIR) model.VIRStatus {
	if v.CheckedBy != nil {
		return model.VIRCompleted
	}
	return model.VIRInProgress
}

// ApplyVIRStatus fills the derived status field before the record is
// returned to a client
func ApplyVIRStatus(v *model.VIR) {
	v.Status = VIRStatus(v)
}

// CanVerifyVIR reports whether the inspection can still be signed off.
// A completed VIR is terminal and read-only.
func CanVerifyVIR(v *model.VIR) error {
	if VIRStatus(v) == model.VIRCompleted {
		return ErrVIRAlreadyVerified
	}
	return nil
}

// CompletedVIRs filters the inspections eligible for GRN creation
func CompletedVIRs(virs []model.VIR) []model.VIR {
	completed := make([]model.VIR, 0, len(virs))
	for i := range virs {
		if VIRStatus(&virs[i]) == model.VIRCompleted {
			completed = append(completed, virs[i])
		}
	}
	return completed
}

// CanCreateGRN enforces that a receipt only references a fully verified
// inspection
func CanCreateGRN(vir *model.VIR) error {
	if VIRStatus(vir) != model.VIRCompleted {
		return ErrVIRNotCompleted
	}
	return nil
}

// QAQCState derives the GRN-side QA/QC status from the entry itself:
// no entry means not_created, an entry without a verdict is under review,
// otherwise the verdict carries through.
func QAQCState(entry *model.QAQC) model.QAQCState {
	if entry == nil || entry.ID == 0 {
		return model.QAQCNotCreated
	}
	switch entry.Status {
	case model.QAQCStatusApproved:
		return model.QAQCApproved
	case model.QAQCStatusRejected:
		return model.QAQCRejected
	default:
		return model.QAQCUnderReview
	}
}

// CanCreateQAQC permits creation only when no entry exists yet for the
// GRN; entries are immutable once created.
func CanCreateQAQC(existing *model.QAQC) error {
	if QAQCState(existing) != model.QAQCNotCreated {
		return ErrQAQCExists
	}
	return nil
}

// GRNStatusWithQAQC advances the receipt as its QA/QC entry progresses:
// pending until sampling starts, in-progress while under review or
// rejected, completed once the lab approves.
func GRNStatusWithQAQC(entry *model.QAQC) model.GRNStatus {
	switch QAQCState(entry) {
	case model.QAQCNotCreated:
		return model.GRNPending
	case model.QAQCApproved:
		return model.GRNCompleted
	default:
		return model.GRNInProgress
	}
}
