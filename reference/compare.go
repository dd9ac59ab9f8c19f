package reference

import (
	"context"
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/exp/slices"

	"qbbperft/qbb"
)

// Diff is a root move both sides generate but count differently.
type Diff struct {
	Move   string `json:"move"`
	Ours   uint64 `json:"ours"`
	Theirs uint64 `json:"theirs"`
}

// Report is the outcome of comparing two divide tables. All lists are sorted.
type Report struct {
	Missing []string `json:"missing,omitempty"` // generated by the oracle only
	Extra   []string `json:"extra,omitempty"`   // generated by us only
	Differ  []Diff   `json:"differ,omitempty"`
	Ours    uint64   `json:"ours_total"`
	Theirs  uint64   `json:"theirs_total"`
}

// OK reports whether the two tables are identical.
func (r Report) OK() bool {
	return len(r.Missing) == 0 && len(r.Extra) == 0 && len(r.Differ) == 0
}

// MoveListsDiffer reports whether the root move lists themselves disagree.
func (r Report) MoveListsDiffer() bool {
	return len(r.Missing) > 0 || len(r.Extra) > 0
}

func (r Report) String() string {
	if r.OK() {
		return fmt.Sprintf("ok (%d nodes)", r.Ours)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "ours %d, theirs %d", r.Ours, r.Theirs)
	if len(r.Missing) > 0 {
		fmt.Fprintf(&sb, "; missing %s", strings.Join(r.Missing, " "))
	}
	if len(r.Extra) > 0 {
		fmt.Fprintf(&sb, "; extra %s", strings.Join(r.Extra, " "))
	}
	for _, d := range r.Differ {
		fmt.Fprintf(&sb, "; %s %d/%d", d.Move, d.Ours, d.Theirs)
	}
	return sb.String()
}

// Compare diffs our divide table against an oracle's.
func Compare(ours, theirs map[string]uint64) Report {
	oursSet := mapset.NewThreadUnsafeSet[string]()
	theirsSet := mapset.NewThreadUnsafeSet[string]()
	var rep Report
	for m, n := range ours {
		oursSet.Add(m)
		rep.Ours += n
	}
	for m, n := range theirs {
		theirsSet.Add(m)
		rep.Theirs += n
	}

	rep.Missing = theirsSet.Difference(oursSet).ToSlice()
	rep.Extra = oursSet.Difference(theirsSet).ToSlice()
	slices.Sort(rep.Missing)
	slices.Sort(rep.Extra)

	for m := range oursSet.Intersect(theirsSet).Iter() {
		if ours[m] != theirs[m] {
			rep.Differ = append(rep.Differ, Diff{Move: m, Ours: ours[m], Theirs: theirs[m]})
		}
	}
	slices.SortFunc(rep.Differ, func(a, b Diff) int { return strings.Compare(a.Move, b.Move) })
	return rep
}

// Verify runs both sides at the given depth and compares them.
func Verify(b *qbb.Board, depth int, o Oracle) (Report, error) {
	theirs, err := o.Divide(b.ToFEN(), depth)
	if err != nil {
		return Report{}, err
	}
	return Compare(Ours(b, depth), theirs), nil
}

// Discrepancy locates the smallest subtree on which the two generators
// disagree.
type Discrepancy struct {
	Found  bool     `json:"found"`
	FEN    string   `json:"fen,omitempty"`  // position where the search stopped
	Path   []string `json:"path,omitempty"` // moves from the starting position to FEN
	Depth  int      `json:"depth"`          // remaining depth at FEN
	Report Report   `json:"report"`
}

// Localize descends through the first differing root move, one ply at a
// time, until the move lists themselves differ or depth 1 is reached. The
// oracle must support every depth from depth down to 1.
func Localize(ctx context.Context, b *qbb.Board, depth int, o Oracle) (Discrepancy, error) {
	pos := *b
	var path []string
	for d := depth; d >= 1; d-- {
		if err := ctx.Err(); err != nil {
			return Discrepancy{}, err
		}
		rep, err := Verify(&pos, d, o)
		if err != nil {
			return Discrepancy{}, fmt.Errorf("%s at %s: %w", o.Name(), pos.ToFEN(), err)
		}
		if rep.OK() {
			if len(path) == 0 {
				return Discrepancy{Depth: d, Report: rep}, nil
			}
			// The parent disagreed on this subtree but its children agree.
			return Discrepancy{Found: true, FEN: pos.ToFEN(), Path: path, Depth: d, Report: rep}, nil
		}
		if rep.MoveListsDiffer() || d == 1 || len(rep.Differ) == 0 {
			return Discrepancy{Found: true, FEN: pos.ToFEN(), Path: path, Depth: d, Report: rep}, nil
		}
		next := rep.Differ[0].Move
		if err := pos.ApplyMoves(next); err != nil {
			return Discrepancy{}, err
		}
		path = append(path, next)
	}
	return Discrepancy{Depth: depth}, nil
}
