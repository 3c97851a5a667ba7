// Package libdiff computes edit scripts between ordered sequences of
// stable node identifiers using Myers' O(ND) difference algorithm
// ("An O(ND) Difference Algorithm and Its Variations", Myers 1986),
// with move detection on top.
//
// Hot reload diffs have tiny edit distances almost always, which is
// exactly where Myers wins: O((n+m)*d) is effectively linear for
// small d. The trace kept for backtracking costs O(d*(n+m)) space.
package libdiff

import (
	"sort"

	"github.com/tola-format/vdom/id"
)

type EditOp int

const (
	KeepOp EditOp = iota
	InsertOp
	DeleteOp
	MoveOp
)

func (op EditOp) String() string {
	switch op {
	case KeepOp:
		return "keep"
	case InsertOp:
		return "insert"
	case DeleteOp:
		return "delete"
	case MoveOp:
		return "move"
	}
	return "<unknown op>"
}

// Edit classifies one sequence position. Keep and Move carry both
// indices, Insert only NewIdx, Delete only OldIdx (the unused index
// is -1).
type Edit struct {
	Op     EditOp
	OldIdx int
	NewIdx int
}

type Stats struct {
	Kept     int
	Inserted int
	Deleted  int
	Moved    int
}

func (s Stats) EditCount() int { return s.Inserted + s.Deleted + s.Moved }

// Result of a sequence diff. When Aborted is set the edit distance
// exceeded MaxEditDistance before the search finished; Edits is empty
// and the caller must treat the sequences as too different to patch,
// the same as exceeding its own op/depth thresholds.
type Result struct {
	Edits   []Edit
	Stats   Stats
	Aborted bool
}

// DiffSequences computes the edit script from old to new.
//
// The returned edits are sorted by destination: keeps and inserts
// ascending by new index, deletes by old index. The tree diff relies
// on this order to keep insert anchors valid as it emits ops.
func DiffSequences(old, new []id.StableID) Result {
	if len(old) == 0 && len(new) == 0 {
		return Result{}
	}
	if len(old) == 0 {
		res := Result{Stats: Stats{Inserted: len(new)}}
		for i := range new {
			res.Edits = append(res.Edits, Edit{Op: InsertOp, OldIdx: -1, NewIdx: i})
		}
		return res
	}
	if len(new) == 0 {
		res := Result{Stats: Stats{Deleted: len(old)}}
		for i := range old {
			res.Edits = append(res.Edits, Edit{Op: DeleteOp, OldIdx: i, NewIdx: -1})
		}
		return res
	}

	lcs, ok := myersLCS(old, new)
	if !ok {
		return Result{Aborted: true}
	}
	return extractEdits(old, new, lcs)
}

// myersLCS strips the common prefix and suffix, then runs the core
// algorithm on the middle. Pure appends and prepends never reach the
// general machinery.
func myersLCS(old, new []id.StableID) ([][2]int, bool) {
	n, m := len(old), len(new)

	prefix := 0
	for prefix < n && prefix < m && old[prefix] == new[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < n-prefix && suffix < m-prefix && old[n-1-suffix] == new[m-1-suffix] {
		suffix++
	}

	lcs := make([][2]int, 0, prefix+suffix)
	for i := 0; i < prefix; i++ {
		lcs = append(lcs, [2]int{i, i})
	}

	oldMid := old[prefix : n-suffix]
	newMid := new[prefix : m-suffix]
	if len(oldMid) != 0 && len(newMid) != 0 {
		mid, ok := myersCore(oldMid, newMid)
		if !ok {
			return nil, false
		}
		for _, p := range mid {
			lcs = append(lcs, [2]int{p[0] + prefix, p[1] + prefix})
		}
	}

	for i := 0; i < suffix; i++ {
		lcs = append(lcs, [2]int{n - suffix + i, m - suffix + i})
	}
	return lcs, true
}

// myersCore explores the edit graph by edit distance d, tracking the
// furthest-reaching x on each diagonal k = x - y and extending snakes
// greedily. The per-d V arrays are recorded so the matched pairs can
// be recovered by backtracking. Returns ok=false once d exceeds
// MaxEditDistance.
func myersCore(old, new []id.StableID) ([][2]int, bool) {
	n, m := len(old), len(new)
	if n == 0 || m == 0 {
		return nil, true
	}

	if n <= smallSeqMax && m <= smallSeqMax {
		return smallLCS(old, new), true
	}

	maxD := n + m
	offset := maxD
	v := make([]int, 2*maxD+1)
	trace := make([][]int, 0, min(maxD, MaxEditDistance)+1)

	done := false
	for d := 0; d <= maxD && !done; d++ {
		if d > MaxEditDistance {
			return nil, false
		}
		trace = append(trace, append([]int(nil), v...))

		for k := -d; k <= d; k += 2 {
			kk := k + offset
			var x int
			// At k=-d the path must come from k+1 (down, an
			// insert); at k=d from k-1 (right, a delete);
			// otherwise whichever reaches further.
			if k == -d || (k != d && v[kk-1] < v[kk+1]) {
				x = v[kk+1]
			} else {
				x = v[kk-1] + 1
			}
			y := x - k
			for x < n && y < m && old[x] == new[y] {
				x++
				y++
			}
			v[kk] = x
			if x >= n && y >= m {
				done = true
				break
			}
		}
	}

	return backtrack(trace, old, new, n, m, offset), true
}

// backtrack walks the recorded traces from the terminal corner back
// to the origin, collecting matched pairs along the snakes.
func backtrack(trace [][]int, old, new []id.StableID, n, m, offset int) [][2]int {
	x, y := n, m
	var lcs [][2]int

	for d := len(trace) - 1; d >= 0; d-- {
		v := trace[d]
		k := x - y
		kk := k + offset

		var prevK int
		switch {
		case d == 0:
			prevK = 0
		case k == -d || (k != d && v[kk-1] < v[kk+1]):
			prevK = k + 1
		default:
			prevK = k - 1
		}
		prevX := 0
		if d != 0 {
			prevX = v[prevK+offset]
		}
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			x--
			y--
			if old[x] == new[y] {
				lcs = append(lcs, [2]int{x, y})
			}
		}

		if d > 0 {
			if prevK < k {
				x = prevX
			} else {
				y = prevY
			}
		}
		if x == 0 && y == 0 {
			break
		}
	}

	for i, j := 0, len(lcs)-1; i < j; i, j = i+1, j-1 {
		lcs[i], lcs[j] = lcs[j], lcs[i]
	}
	return lcs
}

// smallLCS is direct O(n*m) DP for sequences up to smallSeqMax on
// each side. The table lives on the stack; no diagonal bookkeeping.
func smallLCS(old, new []id.StableID) [][2]int {
	n, m := len(old), len(new)
	var dp [smallSeqMax + 1][smallSeqMax + 1]uint8

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			if old[i-1] == new[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else {
				dp[i][j] = max(dp[i-1][j], dp[i][j-1])
			}
		}
	}

	lcs := make([][2]int, 0, dp[n][m])
	i, j := n, m
	for i > 0 && j > 0 {
		switch {
		case old[i-1] == new[j-1]:
			lcs = append(lcs, [2]int{i - 1, j - 1})
			i--
			j--
		case dp[i-1][j] > dp[i][j-1]:
			i--
		default:
			j--
		}
	}
	for a, b := 0, len(lcs)-1; a < b; a, b = a+1, b-1 {
		lcs[a], lcs[b] = lcs[b], lcs[a]
	}
	return lcs
}

// extractEdits turns matched pairs into the full classification with
// move detection: an unmatched old index whose id still exists in new
// outside the matched set moved there; unmatched ids vanished or
// appeared.
func extractEdits(old, new []id.StableID, lcs [][2]int) Result {
	oldMap := make(map[id.StableID]int, len(old))
	for i, v := range old {
		oldMap[v] = i
	}
	newMap := make(map[id.StableID]int, len(new))
	for i, v := range new {
		newMap[v] = i
	}

	matchedOld := make(map[int]bool, len(lcs))
	matchedNew := make(map[int]bool, len(lcs))
	for _, p := range lcs {
		matchedOld[p[0]] = true
		matchedNew[p[1]] = true
	}

	var res Result
	for _, p := range lcs {
		res.Edits = append(res.Edits, Edit{Op: KeepOp, OldIdx: p[0], NewIdx: p[1]})
		res.Stats.Kept++
	}

	for oldIdx, v := range old {
		if matchedOld[oldIdx] {
			continue
		}
		if newIdx, ok := newMap[v]; ok && !matchedNew[newIdx] {
			res.Edits = append(res.Edits, Edit{Op: MoveOp, OldIdx: oldIdx, NewIdx: newIdx})
			res.Stats.Moved++
		} else {
			res.Edits = append(res.Edits, Edit{Op: DeleteOp, OldIdx: oldIdx, NewIdx: -1})
			res.Stats.Deleted++
		}
	}

	for newIdx, v := range new {
		if matchedNew[newIdx] {
			continue
		}
		if _, ok := oldMap[v]; !ok {
			res.Edits = append(res.Edits, Edit{Op: InsertOp, OldIdx: -1, NewIdx: newIdx})
			res.Stats.Inserted++
		}
	}

	sort.SliceStable(res.Edits, func(i, j int) bool {
		pi, si := sortKey(res.Edits[i])
		pj, sj := sortKey(res.Edits[j])
		if pi != pj {
			return pi < pj
		}
		return si < sj
	})
	return res
}

// sortKey orders keeps and inserts by destination, deletes by origin.
// The tree diff depends on this to emit inserts whose anchors (a
// possibly just-inserted sibling) are already in place.
func sortKey(e Edit) (int, int) {
	switch e.Op {
	case KeepOp:
		return e.NewIdx, 0
	case InsertOp:
		return e.NewIdx, 1
	case DeleteOp:
		return e.OldIdx, 2
	default: // MoveOp
		return e.NewIdx, 3
	}
}
