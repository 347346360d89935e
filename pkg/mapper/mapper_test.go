package mapper

import (
	"database/sql"
	"testing"
	"time"

	"kavalife-erp/internal/model"
)

// fixedResolver is an in-memory stand-in for the bootstrap store
type fixedResolver struct {
	vendors  map[uint]model.Vendor
	products map[uint]model.Product
	users    map[uint]model.User
}

func (r *fixedResolver) GetVendor(id uint) (model.Vendor, bool) {
	v, ok := r.vendors[id]
	return v, ok
}

func (r *fixedResolver) GetProduct(id uint) (model.Product, bool) {
	p, ok := r.products[id]
	return p, ok
}

func (r *fixedResolver) GetUser(id uint) (model.User, bool) {
	u, ok := r.users[id]
	return u, ok
}

func testResolver() *fixedResolver {
	return &fixedResolver{
		vendors:  map[uint]model.Vendor{1: {ID: 1, Name: "ABC Ltd."}},
		products: map[uint]model.Product{10: {ID: 10, Name: "Kava Extract"}},
		users:    map[uint]model.User{5: {ID: 5, Username: "warehouse1"}},
	}
}

func TestNameResolutionFallbackChain(t *testing.T) {
	r := testResolver()

	tests := []struct {
		name     string
		embedded string
		id       uint
		want     string
	}{
		{"embedded name wins", "Inline Co.", 1, "Inline Co."},
		{"cache hit", "", 1, "ABC Ltd."},
		{"cache miss falls back to id", "", 99, "99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VendorName(r, tt.embedded, tt.id); got != tt.want {
				t.Fatalf("VendorName(%q, %d) = %q, want %q", tt.embedded, tt.id, got, tt.want)
			}
		})
	}

	if got := ProductName(r, "", 10); got != "Kava Extract" {
		t.Fatalf("ProductName cache hit = %q", got)
	}
	if got := ProductName(r, "", 404); got != "404" {
		t.Fatalf("ProductName cache miss = %q, want stringified id", got)
	}
	if got := UserName(r, "", 5); got != "warehouse1" {
		t.Fatalf("UserName cache hit = %q", got)
	}
}

func TestCardStatusDerivesFromCheckedBy(t *testing.T) {
	checker := uint(7)

	tests := []struct {
		name      string
		checkedBy *uint
		want      string
	}{
		{"unchecked is pending", nil, StatusPendingVerification},
		{"checked is verified", &checker, StatusVerified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := model.VIR{VIRNumber: "VIR-072025-001", CheckedBy: tt.checkedBy}
			if got := CardStatus(&v); got != tt.want {
				t.Fatalf("CardStatus = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVIRCardViewResolvesNames(t *testing.T) {
	r := testResolver()

	v := model.VIR{
		VIRNumber: "VIR-072025-001",
		VendorID:  1,
		ProductID: 10,
		CreatedBy: 5,
		CreatedAt: time.Date(2025, 7, 14, 9, 30, 0, 0, time.UTC),
	}

	card := VIRCardView(r, &v)
	if card.VendorName != "ABC Ltd." {
		t.Fatalf("vendor name = %q", card.VendorName)
	}
	if card.ProductName != "Kava Extract" {
		t.Fatalf("product name = %q", card.ProductName)
	}
	if card.CreatedBy != "warehouse1" {
		t.Fatalf("created by = %q", card.CreatedBy)
	}
	if card.Status != StatusPendingVerification {
		t.Fatalf("status = %q", card.Status)
	}
	if card.CreatedAt != "14/07/2025" {
		t.Fatalf("created at = %q", card.CreatedAt)
	}

	// Unknown ids degrade to the stringified id, never an error
	v2 := model.VIR{VIRNumber: "VIR-072025-002", VendorID: 99, ProductID: 77, CreatedBy: 42}
	card2 := VIRCardView(r, &v2)
	if card2.VendorName != "99" || card2.ProductName != "77" || card2.CreatedBy != "42" {
		t.Fatalf("cache misses not stringified: %+v", card2)
	}
}

func TestVIRDetailsViewMarksVerifiedReadOnly(t *testing.T) {
	r := testResolver()
	checker := uint(5)

	v := model.VIR{
		VIRNumber: "VIR-072025-003",
		VendorID:  1,
		ProductID: 10,
		Checklist: model.Checklist{"Vehicle clean": model.AnswerYes},
		CheckedBy: &checker,
		CheckedAt: sql.NullTime{Time: time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC), Valid: true},
	}

	d := VIRDetailsView(r, &v)
	if !d.ReadOnly {
		t.Fatal("verified report not marked read-only")
	}
	if d.Status != StatusVerified {
		t.Fatalf("status = %q", d.Status)
	}
	if d.CheckedBy != "warehouse1" {
		t.Fatalf("checked by = %q", d.CheckedBy)
	}
	if d.CheckedAt != "15/07/2025" {
		t.Fatalf("checked at = %q", d.CheckedAt)
	}
}

func TestGRNCardViewOffersCreateOnlyBeforeQAQC(t *testing.T) {
	r := testResolver()

	tests := []struct {
		name   string
		state  model.QAQCState
		action string
	}{
		{"no entry offers create", model.QAQCNotCreated, QAQCActionCreate},
		{"under review offers view", model.QAQCUnderReview, QAQCActionView},
		{"approved offers view", model.QAQCApproved, QAQCActionView},
		{"rejected offers view", model.QAQCRejected, QAQCActionView},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := model.GRN{
				GRNNumber:   "GRN-072025-001",
				VIRNumber:   "VIR-072025-001",
				VendorName:  "ABC Ltd.",
				ProductName: "Kava Extract",
				Status:      model.GRNInProgress,
				QAQCStatus:  tt.state,
			}
			card := GRNCardView(r, &g)
			if card.QAQCAction != tt.action {
				t.Fatalf("action = %q, want %q", card.QAQCAction, tt.action)
			}
		})
	}
}
