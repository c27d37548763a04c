package repo

import (
	"sort"

	"go.uber.org/zap"

	"github.com/keshon/lvc/internal/repo/meta"
	"github.com/keshon/lvc/internal/repo/store/snapshot"
	"github.com/keshon/lvc/internal/util"
)

// Problem is a snapshot that failed verification.
type Problem struct {
	Hash   string
	Status snapshot.Status
	Files  []string
}

// VerifyReport summarizes a verification run.
type VerifyReport struct {
	Commits  int
	Checked  int
	Problems []Problem
}

func (v *VerifyReport) OK() bool { return len(v.Problems) == 0 }

// Verify re-reads and re-hashes the snapshots referenced by the head commit,
// or by every commit when allHistory is set.
func (r *Repository) Verify(allHistory bool) (*VerifyReport, error) {
	return r.VerifyWithProgress(allHistory, nil)
}

// VerifyWithProgress is Verify calling onCheck after every snapshot.
func (r *Repository) VerifyWithProgress(allHistory bool, onCheck func(done, total int)) (*VerifyReport, error) {
	var commits []*meta.Commit
	if allHistory {
		all, err := r.Meta.AllCommits()
		if err != nil {
			return nil, err
		}
		commits = all
	} else {
		head, err := r.HeadCommit()
		if err != nil {
			return nil, err
		}
		commits = []*meta.Commit{head}
	}

	files := map[string]map[string]struct{}{}
	hashes := map[string]struct{}{}
	for _, c := range commits {
		for name, hash := range c.Snapshots {
			hashes[hash] = struct{}{}
			if files[hash] == nil {
				files[hash] = map[string]struct{}{}
			}
			files[hash][name] = struct{}{}
		}
	}

	report := &VerifyReport{Commits: len(commits)}
	for check := range r.Snapshots.Verify(hashes, util.WorkerCount()) {
		report.Checked++
		if onCheck != nil {
			onCheck(report.Checked, len(hashes))
		}
		if check.Status != snapshot.OK {
			report.Problems = append(report.Problems, Problem{
				Hash:   check.Hash,
				Status: check.Status,
				Files:  util.SortedKeys(files[check.Hash]),
			})
		}
	}
	sort.Slice(report.Problems, func(i, j int) bool { return report.Problems[i].Hash < report.Problems[j].Hash })

	r.Log.Debug("verification finished",
		zap.Bool("all", allHistory),
		zap.Int("commits", report.Commits),
		zap.Int("checked", report.Checked),
		zap.Int("problems", len(report.Problems)))
	return report, nil
}
