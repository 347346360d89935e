package workflow

import (
	"errors"
	"testing"

	"kavalife-erp/internal/model"
)

func TestVIRStatusDerivation(t *testing.T) {
	checker := uint(3)

	tests := []struct {
		name      string
		checkedBy *uint
		want      model.VIRStatus
	}{
		{"unchecked is in progress", nil, model.VIRInProgress},
		{"checked is completed", &checker, model.VIRCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := model.VIR{CheckedBy: tt.checkedBy}
			if got := VIRStatus(&v); got != tt.want {
				t.Fatalf("VIRStatus = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVerifyIsTerminal(t *testing.T) {
	v := model.VIR{VIRNumber: "VIR-072025-001"}
	if err := CanVerifyVIR(&v); err != nil {
		t.Fatalf("fresh VIR not verifiable: %v", err)
	}

	checker := uint(3)
	v.CheckedBy = &checker
	if err := CanVerifyVIR(&v); !errors.Is(err, ErrVIRAlreadyVerified) {
		t.Fatalf("second verify allowed: %v", err)
	}
}

func TestCompletedVIRsFilter(t *testing.T) {
	checker := uint(3)
	virs := []model.VIR{
		{VIRNumber: "V0"},
		{VIRNumber: "V1", CheckedBy: &checker},
		{VIRNumber: "V2"},
	}

	completed := CompletedVIRs(virs)
	if len(completed) != 1 || completed[0].VIRNumber != "V1" {
		t.Fatalf("completed set = %+v, want exactly [V1]", completed)
	}
}

func TestGRNRequiresCompletedVIR(t *testing.T) {
	v := model.VIR{VIRNumber: "VIR-072025-001"}
	if err := CanCreateGRN(&v); !errors.Is(err, ErrVIRNotCompleted) {
		t.Fatalf("GRN allowed against in-progress VIR: %v", err)
	}

	checker := uint(3)
	v.CheckedBy = &checker
	if err := CanCreateGRN(&v); err != nil {
		t.Fatalf("GRN rejected against completed VIR: %v", err)
	}
}

func TestQAQCStateDerivation(t *testing.T) {
	tests := []struct {
		name  string
		entry *model.QAQC
		want  model.QAQCState
	}{
		{"nil entry", nil, model.QAQCNotCreated},
		{"zero entry", &model.QAQC{}, model.QAQCNotCreated},
		{"no verdict yet", &model.QAQC{ID: 1}, model.QAQCUnderReview},
		{"approved", &model.QAQC{ID: 1, Status: model.QAQCStatusApproved}, model.QAQCApproved},
		{"rejected", &model.QAQC{ID: 1, Status: model.QAQCStatusRejected}, model.QAQCRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := QAQCState(tt.entry); got != tt.want {
				t.Fatalf("QAQCState = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestQAQCCreatedAtMostOnce(t *testing.T) {
	if err := CanCreateQAQC(nil); err != nil {
		t.Fatalf("first creation rejected: %v", err)
	}
	if err := CanCreateQAQC(&model.QAQC{}); err != nil {
		t.Fatalf("creation rejected with empty lookup result: %v", err)
	}
	if err := CanCreateQAQC(&model.QAQC{ID: 9}); !errors.Is(err, ErrQAQCExists) {
		t.Fatalf("duplicate creation allowed: %v", err)
	}
}

func TestGRNStatusFollowsQAQCProgress(t *testing.T) {
	tests := []struct {
		name  string
		entry *model.QAQC
		want  model.GRNStatus
	}{
		{"no entry keeps pending", nil, model.GRNPending},
		{"sampling starts progress", &model.QAQC{ID: 1}, model.GRNInProgress},
		{"rejection stays in progress", &model.QAQC{ID: 1, Status: model.QAQCStatusRejected}, model.GRNInProgress},
		{"approval completes", &model.QAQC{ID: 1, Status: model.QAQCStatusApproved}, model.GRNCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GRNStatusWithQAQC(tt.entry); got != tt.want {
				t.Fatalf("GRNStatusWithQAQC = %q, want %q", got, tt.want)
			}
		})
	}
}
