package internal

import (
	"sort"

	"github.com/dustin/go-humanize"
)

// DuplicateGroup is every photo sharing one content hash. After indexing,
// Photos is ordered largest first and Photos[0] is the original.
type DuplicateGroup struct {
	Hash   string
	Photos []*Photo
}

func (g DuplicateGroup) Original() *Photo { return g.Photos[0] }

func (g DuplicateGroup) Duplicates() []*Photo { return g.Photos[1:] }

// WastedBytes sums the sizes of every member except the original.
func (g DuplicateGroup) WastedBytes() int64 {
	var n int64
	for _, p := range g.Duplicates() {
		n += p.Size
	}
	return n
}

type DuplicateStats struct {
	Groups      int
	Duplicates  int
	WastedBytes int64
}

// DuplicateIndex partitions a working set by content hash.
type DuplicateIndex struct {
	order  []string
	byHash map[string][]*Photo
}

func NewDuplicateIndex(photos []*Photo) *DuplicateIndex {
	x := &DuplicateIndex{byHash: make(map[string][]*Photo)}
	for _, p := range photos {
		x.Add(p)
	}
	return x
}

// Add puts p into the group for its hash, keeping the group ordered by
// descending size. Equal sizes keep insertion order.
func (x *DuplicateIndex) Add(p *Photo) {
	group, ok := x.byHash[p.Hash]
	if !ok {
		x.order = append(x.order, p.Hash)
	}
	group = append(group, p)
	sort.SliceStable(group, func(i, j int) bool { return group[i].Size > group[j].Size })
	x.byHash[p.Hash] = group
}

// Groups returns only the groups with more than one member, in the order
// their hashes were first seen.
func (x *DuplicateIndex) Groups() []DuplicateGroup {
	var groups []DuplicateGroup
	for _, hash := range x.order {
		if photos := x.byHash[hash]; len(photos) > 1 {
			groups = append(groups, DuplicateGroup{Hash: hash, Photos: photos})
		}
	}
	return groups
}

// Survivors returns one photo per hash: the original of each group.
func (x *DuplicateIndex) Survivors() []*Photo {
	photos := make([]*Photo, 0, len(x.order))
	for _, hash := range x.order {
		photos = append(photos, x.byHash[hash][0])
	}
	return photos
}

func (x *DuplicateIndex) Stats() DuplicateStats {
	var st DuplicateStats
	for _, g := range x.Groups() {
		st.Groups++
		st.Duplicates += len(g.Duplicates())
		st.WastedBytes += g.WastedBytes()
	}
	return st
}

// DedupResult is the outcome of resolving an index against a trash.
type DedupResult struct {
	Survivors []*Photo
	Stats     DuplicateStats
	Trashed   []Move
	Failures  []*ProcessError
	// Skipped is set when the trash was unavailable and nothing was removed.
	Skipped bool
}

// Resolve keeps the original of every group and sends the other members to
// trash. An unavailable trash skips removal entirely; a failure for one file
// is recorded and the rest continue. Survivors never include duplicates,
// whether or not their files could be removed.
func (x *DuplicateIndex) Resolve(trash Trash, sink Sink) DedupResult {
	res := DedupResult{
		Survivors: x.Survivors(),
		Stats:     x.Stats(),
	}
	groups := x.Groups()

	emitf(sink, "duplicate groups found: %d", len(groups))
	if len(groups) == 0 {
		return res
	}

	if trash == nil || !trash.Available() {
		errorf(sink, "%v", ErrTrashUnavailable)
		emitf(sink, "duplicates will not be removed")
		res.Skipped = true
		return res
	}

	for _, g := range groups {
		emitf(sink, "duplicate group (%d files):", len(g.Photos))
		for i, p := range g.Photos {
			mark := "[duplicate]"
			if i == 0 {
				mark = "[original]"
			}
			emitf(sink, "  %s %s (%d bytes)", mark, p.Name(), p.Size)
		}

		for _, p := range g.Duplicates() {
			dst, err := trash.MoveToTrash(p.Path)
			if err != nil {
				errorf(sink, "failed to move to trash: %s: %v", p.Name(), err)
				res.Failures = append(res.Failures, CategorizeError(StageDedup, p.Path, err))
				continue
			}
			res.Trashed = append(res.Trashed, Move{From: p.Path, To: dst, Hash: p.Hash, Size: p.Size})
			emitf(sink, "moved to trash: %s", p.Name())
		}
	}

	emitf(sink, "total duplicates moved to trash: %d", len(res.Trashed))
	return res
}

// Lines renders duplicate statistics for a Sink.
func (st DuplicateStats) Lines() []string {
	return []string{
		"duplicate statistics:",
		"  duplicate groups: " + humanize.Comma(int64(st.Groups)),
		"  total duplicates: " + humanize.Comma(int64(st.Duplicates)),
		"  wasted space: " + humanize.IBytes(uint64(st.WastedBytes)),
	}
}
