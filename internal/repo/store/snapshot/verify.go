package snapshot

import (
	"github.com/keshon/lvc/internal/util"
)

// Status indicates the state of a snapshot record on disk.
type Status int

const (
	OK Status = iota
	Missing
	Damaged
)

func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case Missing:
		return "missing"
	default:
		return "damaged"
	}
}

// Check is the verification result of one snapshot.
type Check struct {
	Hash   string
	Status Status
}

// VerifySnapshot re-reads the record stored under hash and recomputes its
// digest. A record whose name, content or stored hash no longer agree is
// Damaged.
func (sc *SnapshotContext) VerifySnapshot(hash string) (Status, error) {
	if !sc.Has(hash) {
		return Missing, nil
	}
	var s Snapshot
	if err := util.ReadJSON(sc.FS, sc.path(hash), &s); err != nil {
		return Damaged, err
	}
	actual, err := sc.HashOf(s.Name, s.Content)
	if err != nil {
		return Damaged, err
	}
	if actual != hash || s.Hash != hash {
		return Damaged, nil
	}
	return OK, nil
}

// Verify checks a set of snapshot hashes concurrently. Read errors are folded
// into the reported status.
func (sc *SnapshotContext) Verify(hashes map[string]struct{}, workers int) <-chan Check {
	out := make(chan Check, 128)
	go func() {
		defer close(out)
		if workers <= 0 {
			workers = util.WorkerCount()
		}
		_ = util.Parallel(util.SortedKeys(hashes), workers, func(h string) error {
			status, _ := sc.VerifySnapshot(h)
			out <- Check{Hash: h, Status: status}
			return nil
		})
	}()
	return out
}
