// Package diff renders the difference between an original sentence and its
// correction as display fragments.
package diff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op is the edit operation of a fragment.
type Op string

const (
	OpEqual  Op = "EQUAL"
	OpInsert Op = "INSERT"
	OpDelete Op = "DELETE"
)

func (o Op) String() string { return string(o) }

// Fragment is a run of text with a single edit operation.
type Fragment struct {
	Text string `json:"text"`
	Op   Op     `json:"op"`
}

// Render computes a character-level diff from original to corrected and
// applies semantic cleanup, so a re-typed word shows as one deletion plus one
// insertion instead of scattered single characters.
//
// The diff runs without a deadline, so the output depends only on the input.
func Render(original, corrected string) []Fragment {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0

	diffs := dmp.DiffMain(original, corrected, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	out := make([]Fragment, 0, len(diffs))
	for _, d := range diffs {
		if d.Text == "" {
			continue
		}
		out = append(out, Fragment{Text: d.Text, Op: toOp(d.Type)})
	}
	return out
}

func toOp(t diffmatchpatch.Operation) Op {
	switch t {
	case diffmatchpatch.DiffInsert:
		return OpInsert
	case diffmatchpatch.DiffDelete:
		return OpDelete
	default:
		return OpEqual
	}
}

// Original rebuilds the left-hand text from EQUAL and DELETE fragments.
func Original(fragments []Fragment) string {
	return join(fragments, OpDelete)
}

// Corrected rebuilds the right-hand text from EQUAL and INSERT fragments.
func Corrected(fragments []Fragment) string {
	return join(fragments, OpInsert)
}

func join(fragments []Fragment, keep Op) string {
	var b strings.Builder
	for _, f := range fragments {
		if f.Op == OpEqual || f.Op == keep {
			b.WriteString(f.Text)
		}
	}
	return b.String()
}

// Changed reports whether any fragment is an edit.
func Changed(fragments []Fragment) bool {
	for _, f := range fragments {
		if f.Op != OpEqual {
			return true
		}
	}
	return false
}
