// Package grouper turns hashed candidates into ranked duplicate sets.
//
// # Overview
//
// The grouper is the last pipeline stage. Hashed files are sub-grouped by
// digest within their size bucket; every (size, digest) combination with
// two or more members becomes a DuplicateSet with its potential savings
// derived as size * (count - 1). Grouping by size first bounds digest
// comparisons to files that already share a size, which is the main
// performance lever of the whole pipeline.
//
// # Ranking
//
// Sets are ordered by potential savings, descending. The tie-break is
// insertion order: sets keep the order in which their (size, digest) key
// was first seen, which itself follows scan discovery order. This makes
// repeated runs over an unchanged tree reproducible.
package grouper

import (
	"simpletools/internal/types"
)

// key identifies one potential duplicate set.
type key struct {
	size   int64
	digest string
}

// Run groups hashed files by (size, digest) and returns confirmed
// duplicate sets ranked by potential savings, descending. Files must
// arrive in scan discovery order; member order within each set and the
// ranking tie-break both derive from it.
func Run(files []types.FileDescriptor) []types.DuplicateSet {
	byKey := make(map[key][]types.FileDescriptor)
	var keyOrder []key // First-seen order is the documented tie-break
	for _, f := range files {
		k := key{size: f.Size, digest: f.Digest}
		if _, seen := byKey[k]; !seen {
			keyOrder = append(keyOrder, k)
		}
		byKey[k] = append(byKey[k], f)
	}

	var sets []types.DuplicateSet
	for _, k := range keyOrder {
		members := byKey[k]
		if len(members) < 2 {
			continue
		}
		paths := make([]string, len(members))
		for i, m := range members {
			paths[i] = m.Path
		}
		sets = append(sets, types.NewDuplicateSet(k.digest, k.size, paths))
	}

	ranked := types.NewRanked(sets, func(s types.DuplicateSet) int64 {
		return s.PotentialSavings
	})
	return ranked.Items()
}
