package bootstrap

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"kavalife-erp/internal/model"
)

// fakeFetcher counts calls per reference list and can fail or block on demand
type fakeFetcher struct {
	mu           sync.Mutex
	vendorCalls  int
	productCalls int
	userCalls    int

	vendors  []model.Vendor
	products []model.Product
	users    []model.User

	failProducts bool
	release      chan struct{}
}

func (f *fakeFetcher) FetchAllVendors(ctx context.Context) ([]model.Vendor, error) {
	f.mu.Lock()
	f.vendorCalls++
	f.mu.Unlock()
	if f.release != nil {
		<-f.release
	}
	return f.vendors, nil
}

func (f *fakeFetcher) FetchAllProducts(ctx context.Context) ([]model.Product, error) {
	f.mu.Lock()
	f.productCalls++
	fail := f.failProducts
	f.mu.Unlock()
	if f.release != nil {
		<-f.release
	}
	if fail {
		return nil, errors.New("products fetch failed")
	}
	return f.products, nil
}

func (f *fakeFetcher) FetchAllUsers(ctx context.Context) ([]model.User, error) {
	f.mu.Lock()
	f.userCalls++
	f.mu.Unlock()
	if f.release != nil {
		<-f.release
	}
	return f.users, nil
}

func (f *fakeFetcher) calls() (int, int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.vendorCalls, f.productCalls, f.userCalls
}

func refData() *fakeFetcher {
	return &fakeFetcher{
		vendors: []model.Vendor{
			{ID: 1, Name: "ABC Ltd.", Status: model.VendorActive, Type: model.VendorSeller},
			{ID: 2, Name: "XYZ Traders", Status: model.VendorActive, Type: model.VendorBuyer},
		},
		products: []model.Product{
			{ID: 10, Name: "Kava Extract", Quantity: 120},
		},
		users: []model.User{
			{ID: 5, Username: "warehouse1", Role: model.RoleUser},
		},
	}
}

func TestGettersNeverFailOnUnknownIDs(t *testing.T) {
	f := refData()
	s := NewStore(f)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if _, ok := s.GetVendor(999); ok {
		t.Fatalf("GetVendor(999) reported ok for an unknown id")
	}
	if _, ok := s.GetProduct(999); ok {
		t.Fatalf("GetProduct(999) reported ok for an unknown id")
	}
	if _, ok := s.GetUser(999); ok {
		t.Fatalf("GetUser(999) reported ok for an unknown id")
	}

	v, ok := s.GetVendor(1)
	if !ok || v.Name != "ABC Ltd." {
		t.Fatalf("GetVendor(1) = %+v, ok=%v, want ABC Ltd.", v, ok)
	}
}

func TestLoadIsIdempotentAfterSuccess(t *testing.T) {
	f := refData()
	s := NewStore(f)
	ctx := context.Background()

	if err := s.Load(ctx); err != nil {
		t.Fatalf("first Load: %v", err)
	}
	if err := s.Load(ctx); err != nil {
		t.Fatalf("second Load: %v", err)
	}

	vc, pc, uc := f.calls()
	if vc != 1 || pc != 1 || uc != 1 {
		t.Fatalf("expected one fetch set, got vendors=%d products=%d users=%d", vc, pc, uc)
	}
}

func TestLoadWhileLoadingIsANoOp(t *testing.T) {
	f := refData()
	f.release = make(chan struct{})
	s := NewStore(f)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- s.Load(ctx) }()

	// Wait until the in-flight load has started its fetches
	deadline := time.After(2 * time.Second)
	for {
		vc, _, _ := f.calls()
		if vc > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("first Load never started fetching")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	// A second Load during the in-flight one must return without fetching
	if err := s.Load(ctx); err != nil {
		t.Fatalf("concurrent Load: %v", err)
	}

	close(f.release)
	if err := <-done; err != nil {
		t.Fatalf("first Load: %v", err)
	}

	vc, pc, uc := f.calls()
	if vc != 1 || pc != 1 || uc != 1 {
		t.Fatalf("expected one fetch set, got vendors=%d products=%d users=%d", vc, pc, uc)
	}
}

func TestPartialFailureLeavesStoreUnchanged(t *testing.T) {
	f := refData()
	f.failProducts = true
	s := NewStore(f)
	ctx := context.Background()

	if err := s.Load(ctx); err == nil {
		t.Fatal("Load succeeded despite a failing fetch")
	}

	if s.Loaded() {
		t.Fatal("store reports loaded after a failed fetch join")
	}
	if len(s.Vendors()) != 0 || len(s.Products()) != 0 || len(s.Users()) != 0 {
		t.Fatalf("store partially populated: %d vendors, %d products, %d users",
			len(s.Vendors()), len(s.Products()), len(s.Users()))
	}
	if _, ok := s.GetVendor(1); ok {
		t.Fatal("lookup map populated after a failed fetch join")
	}
	if s.Err() == "" {
		t.Fatal("error message not recorded")
	}

	// The failed load must not block a retry
	f.failProducts = false
	if err := s.Load(ctx); err != nil {
		t.Fatalf("retry Load: %v", err)
	}
	if !s.Loaded() {
		t.Fatal("store not loaded after successful retry")
	}
	if s.Err() != "" {
		t.Fatalf("stale error message after successful retry: %q", s.Err())
	}
}

func TestRefreshAlwaysRefetchesAndReplaces(t *testing.T) {
	f := refData()
	s := NewStore(f)
	ctx := context.Background()

	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Change the backend data; Refresh must pick it up despite loaded=true
	f.mu.Lock()
	f.vendors = []model.Vendor{{ID: 3, Name: "New Vendor Co."}}
	f.mu.Unlock()

	if err := s.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	vc, _, _ := f.calls()
	if vc != 2 {
		t.Fatalf("expected 2 vendor fetches after refresh, got %d", vc)
	}

	if _, ok := s.GetVendor(1); ok {
		t.Fatal("old vendor still present after refresh")
	}
	v, ok := s.GetVendor(3)
	if !ok || v.Name != "New Vendor Co." {
		t.Fatalf("refreshed vendor missing: %+v ok=%v", v, ok)
	}
	if len(s.Vendors()) != 1 {
		t.Fatalf("vendor list and map out of sync: %d entries", len(s.Vendors()))
	}
}

func TestClearResetsEverything(t *testing.T) {
	f := refData()
	s := NewStore(f)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	s.Clear()

	if s.Loaded() {
		t.Fatal("store reports loaded after Clear")
	}
	if len(s.Vendors()) != 0 {
		t.Fatal("vendor list survived Clear")
	}
	if _, ok := s.GetUser(5); ok {
		t.Fatal("user map survived Clear")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), SnapshotFileName)

	f := refData()
	s := NewStore(f, WithSnapshot(path))
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	// A fresh store restores from the snapshot without any fetch
	f2 := refData()
	s2 := NewStore(f2, WithSnapshot(path))
	if !s2.Loaded() {
		t.Fatal("store did not restore from snapshot")
	}
	vc, pc, uc := f2.calls()
	if vc+pc+uc != 0 {
		t.Fatalf("restore performed network fetches: %d/%d/%d", vc, pc, uc)
	}
	v, ok := s2.GetVendor(1)
	if !ok || v.Name != "ABC Ltd." {
		t.Fatalf("restored vendor wrong: %+v ok=%v", v, ok)
	}

	// Clear drops the snapshot file
	s2.Clear()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("snapshot file still present after Clear: %v", err)
	}
}

func TestSnapshotVersionMismatchIsDiscarded(t *testing.T) {
	path := filepath.Join(t.TempDir(), SnapshotFileName)

	stale := `{"version":999,"vendors":[{"id":1,"name":"Old Co."}],"products":[],"users":[]}`
	if err := os.WriteFile(path, []byte(stale), 0o644); err != nil {
		t.Fatalf("write stale snapshot: %v", err)
	}

	s := NewStore(refData(), WithSnapshot(path))
	if s.Loaded() {
		t.Fatal("store restored a snapshot with a mismatched schema version")
	}
	if _, ok := s.GetVendor(1); ok {
		t.Fatal("stale vendor visible after version mismatch")
	}
}

func TestSnapshotGarbageIsDiscarded(t *testing.T) {
	path := filepath.Join(t.TempDir(), SnapshotFileName)
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatalf("write garbage snapshot: %v", err)
	}

	s := NewStore(refData(), WithSnapshot(path))
	if s.Loaded() {
		t.Fatal("store restored an unreadable snapshot")
	}
}
