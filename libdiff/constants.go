package libdiff

// MaxEditDistance bounds the Myers search. Past this many edits a
// full reload beats computing (and applying) the diff, so the engine
// aborts and reports an empty match set. Tuned heuristic, not a
// correctness guarantee.
const MaxEditDistance = 512

// smallSeqMax is the cutoff below which plain O(n*m) DP beats Myers:
// no trace allocation and cache-friendly access.
const smallSeqMax = 8
