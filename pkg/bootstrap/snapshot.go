package bootstrap

import (
	"encoding/json"
	"os"

	"kavalife-erp/internal/model"

	"go.uber.org/zap"
)

// SnapshotFileName is the default file name for the persisted snapshot
const SnapshotFileName = "bootstrap-cache.json"

// snapshotVersion invalidates persisted snapshots when the reference
// schema changes. Bump it when any reference model gains or loses fields.
const snapshotVersion = 1

// snapshot is the on-disk form of the store. The lookup maps are not
// persisted; they are rebuilt from the lists on restore, which keeps the
// list-and-map invariant true by construction.
type snapshot struct {
	Version  int             `json:"version"`
	Vendors  []model.Vendor  `json:"vendors"`
	Products []model.Product `json:"products"`
	Users    []model.User    `json:"users"`
}

// saveSnapshot writes the current lists to the snapshot file
func (s *Store) saveSnapshot() error {
	s.mu.RLock()
	snap := snapshot{
		Version:  snapshotVersion,
		Vendors:  s.vendors,
		Products: s.products,
		Users:    s.users,
	}
	s.mu.RUnlock()

	buf, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return os.WriteFile(s.snapshotPath, buf, 0o644)
}

// restoreSnapshot loads the persisted lists if the file exists and its
// version matches. Any failure leaves the store empty; the next Load
// fetches fresh data.
func (s *Store) restoreSnapshot() {
	buf, err := os.ReadFile(s.snapshotPath)
	if err != nil {
		return
	}

	var snap snapshot
	if err := json.Unmarshal(buf, &snap); err != nil {
		s.log.Warn("Discarding unreadable reference snapshot", zap.Error(err))
		return
	}
	if snap.Version != snapshotVersion {
		s.log.Info("Discarding reference snapshot with stale schema",
			zap.Int("found", snap.Version),
			zap.Int("want", snapshotVersion))
		return
	}

	s.mu.Lock()
	s.vendors = snap.Vendors
	s.products = snap.Products
	s.users = snap.Users
	s.vendorByID = keyVendors(snap.Vendors)
	s.productByID = keyProducts(snap.Products)
	s.userByID = keyUsers(snap.Users)
	s.loaded = true
	s.mu.Unlock()

	s.log.Info("Reference snapshot restored",
		zap.Int("vendors", len(snap.Vendors)),
		zap.Int("products", len(snap.Products)),
		zap.Int("users", len(snap.Users)))
}

// removeSnapshot deletes the snapshot file; a missing file is fine
func (s *Store) removeSnapshot() {
	if err := os.Remove(s.snapshotPath); err != nil && !os.IsNotExist(err) {
		s.log.Warn("Failed to remove reference snapshot", zap.Error(err))
	}
}
