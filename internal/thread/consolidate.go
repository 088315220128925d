package thread

import (
	"fmt"
	"sort"
)

type listRunKey struct {
	depth    int
	minIndex int
	maxIndex int
}

// listRun returns the maximal run of unsigned list items around i that share
// its parent, depth and orderedness and follow each other directly in the
// markup. Indices are in ascending array order.
func (t tree) listRun(i int) []int {
	target := t.replies[i]
	eligible := func(k int) bool {
		r := t.replies[k]
		return r.isListItem && !r.endsWithSig && r.isListItemOrdered == target.isListItemOrdered
	}

	siblings := t.siblingIndices(i)
	pos := 0
	for p, k := range siblings {
		if k == i {
			pos = p
			break
		}
	}

	lo, hi := pos, pos
	for hi+1 < len(siblings) && eligible(siblings[hi+1]) && t.adjacent(siblings[hi+1], siblings[hi]) {
		hi++
	}
	for lo > 0 && eligible(siblings[lo-1]) && t.adjacent(siblings[lo], siblings[lo-1]) {
		lo--
	}
	return siblings[lo : hi+1]
}

// adjacent reports whether later directly follows earlier among its DOM
// siblings, with nothing but earlier's own descendants in between.
func (t tree) adjacent(earlier int, later int) bool {
	if t.replies[later].childIndex != t.replies[earlier].childIndex+1 {
		return false
	}
	return len(t.descendantIndices(earlier)) >= earlier-later-1
}

// consolidateLists folds runs of unsigned list items into single replies
// holding a literal list. Deeper runs are folded first so that an outer item
// already carries its nested list when its own run is wrapped.
func consolidateLists(replies []*reply) ([]*reply, error) {
	t := newTree(replies)

	runs := make(map[listRunKey][]int)
	for i, r := range replies {
		if !r.isListItem || r.endsWithSig {
			continue
		}
		members := t.listRun(i)
		runs[listRunKey{
			depth:    r.depth,
			minIndex: members[0],
			maxIndex: members[len(members)-1],
		}] = members
	}

	keys := make([]listRunKey, 0, len(runs))
	for k := range runs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		if keys[a].depth != keys[b].depth {
			return keys[a].depth > keys[b].depth
		}
		return keys[a].minIndex < keys[b].minIndex
	})

	removed := make([]bool, len(replies))
	for _, key := range keys {
		if key.minIndex > key.maxIndex {
			return nil, &ThreadError{
				Message:   fmt.Sprintf("run at depth %d spans %d..%d", key.depth, key.minIndex, key.maxIndex),
				Retryable: false,
				Cause:     ErrCauseInconsistentRun,
			}
		}

		members := runs[key]
		inDocumentOrder := make([]*reply, 0, len(members))
		for m := len(members) - 1; m >= 0; m-- {
			inDocumentOrder = append(inDocumentOrder, replies[members[m]])
		}

		holder := replies[key.maxIndex]
		holder.html = wrapList(inDocumentOrder, holder.isListItemOrdered)
		for _, m := range members {
			if m != key.maxIndex {
				removed[m] = true
			}
		}

		next := key.maxIndex + 1
		if next < len(replies) && !removed[next] && t.parentIndex(key.maxIndex) == next && replies[next].shouldCombineWith(holder) {
			replies[next].combineWith(holder)
			removed[key.maxIndex] = true
		}
	}

	return withoutRemoved(replies, removed), nil
}

// chainReplies folds every unsigned fragment onto the reply that follows it
// in the document, so a run of fragments ends up on its signed successor.
func chainReplies(replies []*reply) []*reply {
	removed := make([]bool, len(replies))
	for i := range replies {
		if i+1 < len(replies) && !replies[i+1].endsWithSig {
			replies[i+1].combineWith(replies[i])
			removed[i] = true
		}
	}
	return withoutRemoved(replies, removed)
}

func withoutRemoved(replies []*reply, removed []bool) []*reply {
	kept := make([]*reply, 0, len(replies))
	for i, r := range replies {
		if !removed[i] {
			kept = append(kept, r)
		}
	}
	return kept
}
