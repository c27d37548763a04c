package repo

import (
	"bytes"
	"sort"
)

// Change kinds reported for modifications not staged for commit.
const (
	Modified = "modified"
	Deleted  = "deleted"
)

// Modification is a working-tree difference the staging area does not hold.
type Modification struct {
	Name string
	Kind string
}

// Status summarizes branches, staged changes and the working tree.
type Status struct {
	Branches      []string
	CurrentBranch string
	Staged        []string
	Removed       []string
	Modifications []Modification
	Untracked     []string
}

// Status inspects the repository without changing it.
func (r *Repository) Status() (*Status, error) {
	branches, cur, err := r.Branches()
	if err != nil {
		return nil, err
	}
	head, err := r.HeadCommit()
	if err != nil {
		return nil, err
	}
	files, err := r.Tree.List()
	if err != nil {
		return nil, err
	}

	st := &Status{
		Branches:      branches,
		CurrentBranch: cur,
		Staged:        r.Staging.Additions(),
		Removed:       r.Staging.Removals(),
	}

	present := make(map[string]bool, len(files))
	for _, name := range files {
		present[name] = true

		if staged, ok := r.Staging.Addition(name); ok {
			content, err := r.Tree.Read(name)
			if err != nil {
				return nil, err
			}
			if !bytes.Equal(content, staged) {
				st.Modifications = append(st.Modifications, Modification{Name: name, Kind: Modified})
			}
			continue
		}

		tracked, ok := head.SnapshotOf(name)
		if !ok || r.Staging.IsStagedForRemoval(name) {
			st.Untracked = append(st.Untracked, name)
			continue
		}
		content, err := r.Tree.Read(name)
		if err != nil {
			return nil, err
		}
		hash, err := r.Snapshots.HashOf(name, content)
		if err != nil {
			return nil, err
		}
		if hash != tracked {
			st.Modifications = append(st.Modifications, Modification{Name: name, Kind: Modified})
		}
	}

	for _, name := range st.Staged {
		if !present[name] {
			st.Modifications = append(st.Modifications, Modification{Name: name, Kind: Deleted})
		}
	}
	for name := range head.Snapshots {
		if !present[name] && !r.Staging.IsStaged(name) {
			st.Modifications = append(st.Modifications, Modification{Name: name, Kind: Deleted})
		}
	}
	sort.Slice(st.Modifications, func(i, j int) bool {
		return st.Modifications[i].Name < st.Modifications[j].Name
	})
	return st, nil
}
