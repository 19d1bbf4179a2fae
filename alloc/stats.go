package alloc

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Stats holds allocator counters. Snapshots are returned by value.
type Stats struct {
	AllocCalls       int64 // total Alloc() calls that took the fast or slow path
	FreeCalls        int64 // total Free() calls (NilRef no-ops excluded)
	GrowCalls        int64 // heap extensions
	GrowBytes        int64 // total bytes added to the heap, headers included
	SplitCount       int64 // blocks split during allocation
	CoalesceForward  int64 // merges with the following neighbour
	CoalesceBackward int64 // merges with the preceding neighbour
	BytesAllocated   int64 // payload bytes handed out, cumulative
	BytesFreed       int64 // payload bytes returned, cumulative
}

// add folds another snapshot into this one.
func (st *Stats) add(other Stats) {
	st.AllocCalls += other.AllocCalls
	st.FreeCalls += other.FreeCalls
	st.GrowCalls += other.GrowCalls
	st.GrowBytes += other.GrowBytes
	st.SplitCount += other.SplitCount
	st.CoalesceForward += other.CoalesceForward
	st.CoalesceBackward += other.CoalesceBackward
	st.BytesAllocated += other.BytesAllocated
	st.BytesFreed += other.BytesFreed
}

func (st Stats) String() string {
	return fmt.Sprintf(
		"allocs:%v frees:%v grows:%v grown:%v splits:%v fwd:%v bwd:%v out:%v in:%v",
		humanize.Comma(st.AllocCalls), humanize.Comma(st.FreeCalls),
		humanize.Comma(st.GrowCalls), humanize.IBytes(uint64(st.GrowBytes)),
		humanize.Comma(st.SplitCount),
		humanize.Comma(st.CoalesceForward), humanize.Comma(st.CoalesceBackward),
		humanize.IBytes(uint64(st.BytesAllocated)), humanize.IBytes(uint64(st.BytesFreed)),
	)
}
