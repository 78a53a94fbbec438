package search

import (
	"sort"

	"github.com/quotelane/salesagent/internal/catalog"
)

// DefaultRRFConstant is the standard reciprocal rank fusion constant.
const DefaultRRFConstant = 60

// Fuse merges a lexical and a vector result list with reciprocal rank fusion.
// Each document scores 1/(k+rank) per list it appears in, ranks are 1-based,
// and documents resolving to the same identity across lists are one entity
// (the most recently seen payload wins, scores summed). The output is ordered
// by fused score descending; ties break by lexical rank, then vector rank,
// then first-seen order. A rank in a list the document is absent from compares
// as infinitely large, so single-list entries sort after dual-list entries at
// equal score.
//
// If either input list is empty there is nothing to fuse and the other list is
// returned as-is, backend scores intact.
func Fuse(lexical, vector []catalog.Document, k int) []catalog.Document {
	if k <= 0 {
		k = DefaultRRFConstant
	}
	if len(lexical) == 0 {
		return vector
	}
	if len(vector) == 0 {
		return lexical
	}

	type entry struct {
		doc     catalog.Document
		score   float64
		lexRank int // 0 = absent
		vecRank int // 0 = absent
		seen    int
	}

	entries := make(map[string]*entry, len(lexical)+len(vector))
	order := 0
	upsert := func(d catalog.Document) *entry {
		id := d.Identity()
		e, ok := entries[id]
		if !ok {
			e = &entry{seen: order}
			order++
			entries[id] = e
		}
		e.doc = d
		return e
	}

	for i, d := range lexical {
		rank := i + 1
		e := upsert(d)
		e.lexRank = rank
		e.score += 1.0 / float64(k+rank)
	}
	for i, d := range vector {
		rank := i + 1
		e := upsert(d)
		e.vecRank = rank
		e.score += 1.0 / float64(k+rank)
	}

	fused := make([]*entry, 0, len(entries))
	for _, e := range entries {
		fused = append(fused, e)
	}

	sort.SliceStable(fused, func(i, j int) bool {
		a, b := fused[i], fused[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if ra, rb := absentLast(a.lexRank), absentLast(b.lexRank); ra != rb {
			return ra < rb
		}
		if ra, rb := absentLast(a.vecRank), absentLast(b.vecRank); ra != rb {
			return ra < rb
		}
		return a.seen < b.seen
	})

	out := make([]catalog.Document, len(fused))
	for i, e := range fused {
		doc := e.doc
		doc.Score = e.score
		out[i] = doc
	}
	return out
}

func absentLast(rank int) int {
	if rank == 0 {
		return int(^uint(0) >> 1)
	}
	return rank
}
