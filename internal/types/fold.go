package types

import "sort"

// ToolCallFolder accumulates ToolCallDelta events into completed
// ToolCalls. Fragments are grouped by provider-assigned index, not by
// call_id, because several providers emit the id only on the first
// fragment.
type ToolCallFolder struct {
	order []int
	byIdx map[int]*foldingCall
}

type foldingCall struct {
	id   string
	name string
	args string
}

// NewToolCallFolder returns an empty folder.
func NewToolCallFolder() *ToolCallFolder {
	return &ToolCallFolder{byIdx: make(map[int]*foldingCall)}
}

// Add merges one ToolCallDelta fragment into the folder.
func (f *ToolCallFolder) Add(index int, callID, name, argsDelta string) {
	c, ok := f.byIdx[index]
	if !ok {
		c = &foldingCall{}
		f.byIdx[index] = c
		f.order = append(f.order, index)
	}
	if callID != "" {
		c.id = callID
	}
	if name != "" {
		c.name = name
	}
	c.args += argsDelta
}

// ToolCalls returns the completed calls in ascending index order.
func (f *ToolCallFolder) ToolCalls() []ToolCall {
	idxs := append([]int(nil), f.order...)
	sort.Ints(idxs)
	out := make([]ToolCall, 0, len(idxs))
	seen := make(map[int]bool, len(idxs))
	for _, idx := range idxs {
		if seen[idx] {
			continue
		}
		seen[idx] = true
		c := f.byIdx[idx]
		out = append(out, ToolCall{ID: c.id, Name: c.name, Arguments: c.args})
	}
	return out
}
