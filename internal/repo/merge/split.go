package merge

import (
	"fmt"

	"github.com/keshon/lvc/internal/repo/meta"
)

// Strategy selects how the split point of two branches is found.
type Strategy string

const (
	// FirstParent matches the other branch's first-parent chain (and the
	// merge parents along it) against the current branch's first-parent chain.
	FirstParent Strategy = "first-parent"
	// Nearest picks the common ancestor closest to both tips over all edges.
	Nearest Strategy = "nearest"
)

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case FirstParent, "":
		return FirstParent, nil
	case Nearest:
		return Nearest, nil
	}
	return "", fmt.Errorf("unknown split strategy %q", s)
}

// SplitPoint returns the common ancestor the merge is computed against.
func (mc *MergeContext) SplitPoint(head, other *meta.Commit) (*meta.Commit, error) {
	if mc.Strategy == Nearest {
		return mc.nearestSplit(head, other)
	}
	return mc.firstParentSplit(head, other)
}

func (mc *MergeContext) firstParentSplit(head, other *meta.Commit) (*meta.Commit, error) {
	chain := map[string]bool{}
	for c, err := range mc.Meta.Ancestors(head) {
		if err != nil {
			return nil, err
		}
		chain[c.Hash] = true
	}

	var last *meta.Commit
	for c, err := range mc.Meta.Ancestors(other) {
		if err != nil {
			return nil, err
		}
		if chain[c.Hash] {
			return c, nil
		}
		if c.IsMerge() && chain[c.MergedParent] {
			return mc.Meta.GetCommit(c.MergedParent)
		}
		last = c
	}
	return last, nil
}

// distances runs a breadth-first search over parent and merge-parent edges.
func (mc *MergeContext) distances(start *meta.Commit, cache map[string]*meta.Commit) (map[string]int, error) {
	dist := map[string]int{start.Hash: 0}
	cache[start.Hash] = start
	queue := []*meta.Commit{start}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, p := range []string{c.Parent, c.MergedParent} {
			if p == "" {
				continue
			}
			if _, seen := dist[p]; seen {
				continue
			}
			pc, ok := cache[p]
			if !ok {
				var err error
				if pc, err = mc.Meta.GetCommit(p); err != nil {
					return nil, fmt.Errorf("failed to read ancestor %s: %v", p, err)
				}
				cache[p] = pc
			}
			dist[p] = dist[c.Hash] + 1
			queue = append(queue, pc)
		}
	}
	return dist, nil
}

func (mc *MergeContext) nearestSplit(head, other *meta.Commit) (*meta.Commit, error) {
	cache := map[string]*meta.Commit{}
	fromHead, err := mc.distances(head, cache)
	if err != nil {
		return nil, err
	}
	fromOther, err := mc.distances(other, cache)
	if err != nil {
		return nil, err
	}

	var best *meta.Commit
	bestDist := -1
	for id, dh := range fromHead {
		do, common := fromOther[id]
		if !common {
			continue
		}
		c := cache[id]
		total := dh + do
		switch {
		case best == nil, total < bestDist:
		case total > bestDist:
			continue
		case c.Timestamp.After(best.Timestamp):
		case c.Timestamp.Equal(best.Timestamp) && c.Hash < best.Hash:
		default:
			continue
		}
		best, bestDist = c, total
	}
	if best == nil {
		return nil, fmt.Errorf("no common ancestor between %s and %s", head.Hash, other.Hash)
	}
	return best, nil
}
