package thread

// tree answers relationship queries over replies held in reverse document
// order. A reply's parent is the nearest reply earlier in the document
// (higher index) that is shallower than it.
type tree struct {
	replies []*reply
	parents []int
}

const noParent = -1

func newTree(replies []*reply) tree {
	parents := make([]int, len(replies))
	var stack []int
	for i := len(replies) - 1; i >= 0; i-- {
		for len(stack) > 0 && replies[stack[len(stack)-1]].depth >= replies[i].depth {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			parents[i] = noParent
		} else {
			parents[i] = stack[len(stack)-1]
		}
		stack = append(stack, i)
	}
	return tree{replies: replies, parents: parents}
}

func (t tree) parentIndex(i int) int {
	return t.parents[i]
}

// childIndices lists the replies whose parent is i, in array order.
// Passing noParent lists the top-level replies.
func (t tree) childIndices(i int) []int {
	var out []int
	for k, p := range t.parents {
		if p == i {
			out = append(out, k)
		}
	}
	return out
}

// siblingIndices lists the replies sharing i's parent and depth, i included.
func (t tree) siblingIndices(i int) []int {
	var out []int
	for _, k := range t.childIndices(t.parents[i]) {
		if t.replies[k].depth == t.replies[i].depth {
			out = append(out, k)
		}
	}
	return out
}

// descendantIndices lists the replies nested under i. They follow i in the
// document, so they sit directly below it in the array.
func (t tree) descendantIndices(i int) []int {
	var out []int
	for k := i - 1; k >= 0 && t.replies[k].depth > t.replies[i].depth; k-- {
		out = append(out, k)
	}
	return out
}
