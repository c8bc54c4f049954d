package model

// Sync is the replication state shared by every persisted entity.
type Sync struct {
	RemoteID int64 `json:"remoteId,omitempty"`
	Pending  bool  `json:"pending,omitempty"`
	Version  int64 `json:"version,omitempty"`
}

// Touch marks a local mutation that the remote has not confirmed yet.
func (s *Sync) Touch() {
	s.Pending = true
	s.Version++
}

func (s Sync) Synced() bool {
	return s.RemoteID != 0 && !s.Pending
}
