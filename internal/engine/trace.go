package engine

import (
	"time"

	"github.com/piwi3910/PentoTrace/internal/model"
)

// EventKind labels a trace event.
type EventKind string

const (
	EventEnter EventKind = "enter"
	EventExit  EventKind = "exit"
)

// Event marks entry into or exit from a materialized search node. Enter and
// exit events are strictly well nested.
type Event struct {
	Kind   EventKind `json:"kind"`
	NodeID int       `json:"node_id"`
}

// Node is one materialized state of the search tree. Only a display-bounded
// subset of visited states becomes a Node; the search itself still explores
// every branch.
type Node struct {
	ID       int `json:"id"`
	ParentID int `json:"parent_id"` // -1 for the root
	Depth    int `json:"depth"`

	// Board is the occupancy snapshot at entry, including the placement
	// that created this node.
	Board map[model.Cell]model.PieceName `json:"-"`

	// Pruned marks a terminal node rejected by the feasibility check.
	Pruned bool `json:"pruned"`
	// Counterfactual marks a grafted node: a subtree the pruned search
	// never visited, copied in from an unpruned run of the same problem.
	Counterfactual bool `json:"counterfactual"`
	// Highlighted marks membership in the chain that leads to the first
	// solution, which is displayed deeper than ordinary branches.
	Highlighted bool `json:"highlighted"`

	StepAtEnter    int           `json:"step_at_enter"`
	ElapsedAtEnter time.Duration `json:"elapsed_at_enter"`

	Children []int `json:"children"`

	// Elapsed and Explored cover the node's whole subtree and are filled
	// in at exit.
	Elapsed  time.Duration `json:"elapsed"`
	Explored int           `json:"explored"`
}

// Trace is the recorded output of one display-bounded search.
type Trace struct {
	Nodes  map[int]*Node `json:"nodes"`
	Events []Event       `json:"events"`

	TotalSteps   int           `json:"total_steps"`
	TotalElapsed time.Duration `json:"total_elapsed"`
	Solutions    int           `json:"solutions"`
	Aborted      bool          `json:"aborted"`

	// StepElapsed[i] is the wall time at which step i+1 started.
	StepElapsed []time.Duration `json:"-"`
}

// TraceOptions bounds what the recorder materializes. The search itself is
// exhaustive up to NodeBudget steps regardless of the display bounds.
type TraceOptions struct {
	Pruning bool `json:"pruning"`

	// MaxDisplayDepth caps materialized depth for ordinary branches.
	MaxDisplayDepth int `json:"max_display_depth"`
	// MaxDisplayChildren caps materialized siblings per node. When a node
	// has more candidates, the first two and the solution-chain candidate
	// are kept.
	MaxDisplayChildren int `json:"max_display_children"`
	// HighlightDepth caps materialized depth along the solution chain,
	// deeper than ordinary branches.
	HighlightDepth int `json:"highlight_depth"`
	// NodeBudget caps recursive steps; 0 means unlimited.
	NodeBudget int `json:"node_budget"`
}

// DefaultTraceOptions mirrors the bounds used by the bundled visualizations.
func DefaultTraceOptions() TraceOptions {
	return TraceOptions{
		Pruning:            true,
		MaxDisplayDepth:    3,
		MaxDisplayChildren: 3,
		HighlightDepth:     12,
		NodeBudget:         1_500_000,
	}
}

// BuildTrace runs an exhaustive search over the problem and records a
// display-bounded trace of it. The root node is the empty board; children
// of the root and of chain nodes follow the display rules in TraceOptions.
func BuildTrace(p model.Problem, opts TraceOptions) *Trace {
	t := &tracer{
		board:  model.NewBoard(p),
		pieces: p.Pieces,
		opts:   opts,
		nodes:  make(map[int]*Node),
		start:  time.Now(),
	}
	root := &Node{
		ID:       t.nextID,
		ParentID: -1,
		Board:    t.board.Snapshot(),
	}
	t.nextID++
	t.nodes[root.ID] = root
	t.events = append(t.events, Event{Kind: EventEnter, NodeID: root.ID})

	aborted := t.dfs(root.ID)

	root.Elapsed = time.Since(t.start)
	root.Explored = t.steps
	t.events = append(t.events, Event{Kind: EventExit, NodeID: root.ID})

	return &Trace{
		Nodes:        t.nodes,
		Events:       t.events,
		TotalSteps:   t.steps,
		TotalElapsed: time.Since(t.start),
		Solutions:    t.solutions,
		Aborted:      aborted,
		StepElapsed:  t.stepElapsed,
	}
}

type tracer struct {
	board  *model.Board
	pieces []model.PieceName
	opts   TraceOptions

	nodes       map[int]*Node
	events      []Event
	nextID      int
	steps       int
	solutions   int
	start       time.Time
	stepElapsed []time.Duration
}

// attempt is one candidate placement at the current anchor, classified by
// the feasibility check.
type attempt struct {
	piece  model.PieceName
	cells  []model.Cell
	pruned bool
}

// dfs explores the full space below the current board state. displayID is
// the materialized node for this state, or -1 when the state fell outside
// the display bounds. Returns true when the step budget aborts the search.
func (t *tracer) dfs(displayID int) bool {
	t.steps++
	t.stepElapsed = append(t.stepElapsed, time.Since(t.start))
	if t.opts.NodeBudget > 0 && t.steps > t.opts.NodeBudget {
		return true
	}

	anchor, ok := t.board.FirstEmpty()
	if !ok {
		t.solutions++
		return false
	}
	attempts := t.collectAttempts(anchor)

	var node *Node
	display := make(map[int]bool)
	chainIdx := -1
	if displayID >= 0 {
		node = t.nodes[displayID]
		depthCap := t.opts.MaxDisplayDepth
		if node.Highlighted {
			depthCap = t.opts.HighlightDepth
		}
		if node.Depth < depthCap && len(attempts) > 0 {
			chainIdx = t.chainIndex(attempts)
			switch {
			case node.Highlighted:
				display[chainIdx] = true
			case len(attempts) <= t.opts.MaxDisplayChildren:
				for i := range attempts {
					display[i] = true
				}
			default:
				display[0] = true
				display[1] = true
				display[chainIdx] = true
			}
		}
	}

	for idx, a := range attempts {
		onChain := display[idx] && (node.Depth == 0 || node.Highlighted) && idx == chainIdx
		if a.pruned {
			if display[idx] {
				t.board.Place(a.piece, a.cells)
				child := t.newChild(node, true, onChain)
				t.events = append(t.events, Event{Kind: EventEnter, NodeID: child.ID})
				t.events = append(t.events, Event{Kind: EventExit, NodeID: child.ID})
				t.board.Remove(a.piece, a.cells)
			}
			continue
		}
		t.board.Place(a.piece, a.cells)
		childID := -1
		var child *Node
		if display[idx] {
			child = t.newChild(node, false, onChain)
			t.events = append(t.events, Event{Kind: EventEnter, NodeID: child.ID})
			childID = child.ID
		}
		aborted := t.dfs(childID)
		if child != nil {
			child.Elapsed = time.Since(t.start) - child.ElapsedAtEnter
			child.Explored = t.steps - child.StepAtEnter
			t.events = append(t.events, Event{Kind: EventExit, NodeID: child.ID})
		}
		t.board.Remove(a.piece, a.cells)
		if aborted {
			return true
		}
	}
	return false
}

// collectAttempts enumerates every candidate placement covering the anchor
// in deterministic order and classifies each against the feasibility check.
func (t *tracer) collectAttempts(anchor model.Cell) []attempt {
	var out []attempt
	for _, name := range t.pieces {
		if t.board.Used(name) {
			continue
		}
		for _, orient := range model.Orientations(name) {
			for _, target := range orient {
				cells := shiftToAnchor(orient, target, anchor)
				if !t.board.CanPlace(cells) {
					continue
				}
				pruned := false
				if t.opts.Pruning {
					t.board.Place(name, cells)
					pruned = !FeasibleRegions(t.board)
					t.board.Remove(name, cells)
				}
				out = append(out, attempt{piece: name, cells: cells, pruned: pruned})
			}
		}
	}
	return out
}

// chainIndex finds the attempt that continues toward the first reachable
// solution. Falls back to the last unpruned attempt, then the last attempt,
// when no solution exists below this state.
func (t *tracer) chainIndex(attempts []attempt) int {
	if move, ok := t.nextSolutionMove(); ok {
		want := placementKey(move.Piece, move.Cells)
		for i, a := range attempts {
			if placementKey(a.piece, a.cells) == want {
				return i
			}
		}
	}
	for i := len(attempts) - 1; i >= 0; i-- {
		if !attempts[i].pruned {
			return i
		}
	}
	return len(attempts) - 1
}

// nextSolutionMove solves from the current board state and reports the
// first placement of the solution found. The board is restored before
// returning.
func (t *tracer) nextSolutionMove() (model.Placement, bool) {
	var first model.Placement
	haveFirst := false

	var rec func(topLevel bool) bool
	rec = func(topLevel bool) bool {
		anchor, ok := t.board.FirstEmpty()
		if !ok {
			return true
		}
		for _, name := range t.pieces {
			if t.board.Used(name) {
				continue
			}
			for _, orient := range model.Orientations(name) {
				for _, target := range orient {
					cells := shiftToAnchor(orient, target, anchor)
					if !t.board.CanPlace(cells) {
						continue
					}
					t.board.Place(name, cells)
					feasible := !t.opts.Pruning || FeasibleRegions(t.board)
					if feasible {
						if topLevel {
							first = model.Placement{Piece: name, Cells: cells}
							haveFirst = true
						}
						if rec(false) {
							t.board.Remove(name, cells)
							return true
						}
					}
					t.board.Remove(name, cells)
				}
			}
		}
		return false
	}

	if rec(true) && haveFirst {
		return first, true
	}
	return model.Placement{}, false
}

func (t *tracer) newChild(parent *Node, pruned, highlighted bool) *Node {
	child := &Node{
		ID:             t.nextID,
		ParentID:       parent.ID,
		Depth:          parent.Depth + 1,
		Board:          t.board.Snapshot(),
		Pruned:         pruned,
		Highlighted:    highlighted,
		StepAtEnter:    t.steps,
		ElapsedAtEnter: time.Since(t.start),
	}
	t.nextID++
	t.nodes[child.ID] = child
	parent.Children = append(parent.Children, child.ID)
	return child
}

func placementKey(piece model.PieceName, cells []model.Cell) string {
	sorted := make([]model.Cell, len(cells))
	copy(sorted, cells)
	model.SortCells(sorted)
	occ := make(map[model.Cell]model.PieceName, len(sorted))
	for _, c := range sorted {
		occ[c] = piece
	}
	return model.BoardSignature(occ)
}

// GraftCounterfactuals copies, under each pruned terminal of the primary
// trace, the subtree an unpruned run of the same problem explored from the
// matching board state. Grafted nodes get fresh IDs past the primary's
// maximum, are flagged Counterfactual, and obey maxDepth and maxChildren.
// Step and elapsed metadata are re-monotonized over the merged event order.
func GraftCounterfactuals(primary, unpruned *Trace, maxDepth, maxChildren int) *Trace {
	bySignature := make(map[string]int)
	for _, ev := range unpruned.Events {
		if ev.Kind != EventEnter {
			continue
		}
		n := unpruned.Nodes[ev.NodeID]
		sig := model.BoardSignature(n.Board)
		if _, seen := bySignature[sig]; !seen {
			bySignature[sig] = n.ID
		}
	}

	out := &Trace{
		Nodes:        make(map[int]*Node, len(primary.Nodes)),
		TotalSteps:   primary.TotalSteps,
		TotalElapsed: primary.TotalElapsed,
		Solutions:    primary.Solutions,
		Aborted:      primary.Aborted,
		StepElapsed:  primary.StepElapsed,
	}
	nextID := 0
	for id, n := range primary.Nodes {
		out.Nodes[id] = cloneNode(n)
		if id >= nextID {
			nextID = id + 1
		}
	}

	var graft func(unID, parentID int)
	graft = func(unID, parentID int) {
		parent := out.Nodes[parentID]
		if parent.Depth >= maxDepth {
			return
		}
		for _, childID := range unpruned.Nodes[unID].Children {
			if len(parent.Children) >= maxChildren {
				return
			}
			src := unpruned.Nodes[childID]
			node := cloneNode(src)
			node.ID = nextID
			nextID++
			node.ParentID = parentID
			node.Depth = parent.Depth + 1
			node.Counterfactual = true
			node.Highlighted = false
			node.Children = nil
			out.Nodes[node.ID] = node
			parent.Children = append(parent.Children, node.ID)
			out.Events = append(out.Events, Event{Kind: EventEnter, NodeID: node.ID})
			graft(childID, node.ID)
			out.Events = append(out.Events, Event{Kind: EventExit, NodeID: node.ID})
		}
	}

	for _, ev := range primary.Events {
		out.Events = append(out.Events, ev)
		if ev.Kind != EventEnter {
			continue
		}
		n := out.Nodes[ev.NodeID]
		if !n.Pruned {
			continue
		}
		if unID, ok := bySignature[model.BoardSignature(n.Board)]; ok {
			graft(unID, n.ID)
		}
	}

	normalizeProgress(out)
	return out
}

// BuildTraceWithCounterfactuals builds a pruned trace, a matching unpruned
// trace, and grafts the unpruned subtrees under the pruned terminals.
// Returns the grafted trace and the unpruned reference trace.
func BuildTraceWithCounterfactuals(p model.Problem, opts TraceOptions) (*Trace, *Trace) {
	pruned := opts
	pruned.Pruning = true
	vanilla := opts
	vanilla.Pruning = false

	primary := BuildTrace(p, pruned)
	reference := BuildTrace(p, vanilla)
	grafted := GraftCounterfactuals(primary, reference, opts.MaxDisplayDepth, opts.MaxDisplayChildren)
	return grafted, reference
}

func cloneNode(n *Node) *Node {
	out := *n
	out.Board = make(map[model.Cell]model.PieceName, len(n.Board))
	for c, name := range n.Board {
		out.Board[c] = name
	}
	out.Children = append([]int(nil), n.Children...)
	return &out
}

// normalizeProgress clamps per-node step and elapsed metadata so that, read
// in event order, the values never decrease. Grafted nodes carry values
// from an independent run and would otherwise jump backwards.
func normalizeProgress(t *Trace) {
	step := 0
	var elapsed time.Duration
	for _, ev := range t.Events {
		if ev.Kind != EventEnter {
			continue
		}
		n := t.Nodes[ev.NodeID]
		if n.StepAtEnter < step {
			n.StepAtEnter = step
		}
		if n.StepAtEnter > t.TotalSteps && t.TotalSteps > 0 {
			n.StepAtEnter = t.TotalSteps
		}
		if n.ElapsedAtEnter < elapsed {
			n.ElapsedAtEnter = elapsed
		}
		step = n.StepAtEnter
		elapsed = n.ElapsedAtEnter
	}
}
