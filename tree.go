package vp8bool

import "fmt"

// Tree is a binary decision tree in the flat layout used by RFC 6386.
//
// Nodes holds pairs of entries. A positive entry at position i names the
// position of the next pair; a non-positive entry is a leaf whose symbol is
// the negated entry. The pair starting at position i is decided with
// probability Probs[i>>1].
//
// Trees are read-only after construction and may be shared by any number
// of decoders.
type Tree struct {
	Nodes []int8
	Probs []uint8
}

// Read decodes one symbol from d, starting at position start.
func (t Tree) Read(d Decoder, start int) int8 {
	return d.ReadWithTree(t.Nodes, t.Probs, start)
}

// Validate checks that tree and probs describe a tree every walk from
// position 0 terminates in. The returned error wraps ErrBitStream.
func Validate(tree []int8, probs []uint8) error {
	if len(tree) == 0 || len(tree)%2 != 0 {
		return fmt.Errorf("%w: tree length %d is not a positive even number", ErrBitStream, len(tree))
	}
	if len(tree) > 256 {
		return fmt.Errorf("%w: tree length %d exceeds 256", ErrBitStream, len(tree))
	}
	if len(probs) < len(tree)/2 {
		return fmt.Errorf("%w: %d probabilities for %d pairs", ErrBitStream, len(probs), len(tree)/2)
	}
	for i, e := range tree {
		switch {
		case e == -128:
			return fmt.Errorf("%w: leaf at %d has no positive symbol", ErrBitStream, i)
		case e <= 0:
			continue
		case e%2 != 0:
			return fmt.Errorf("%w: entry at %d points inside pair %d", ErrBitStream, i, e)
		case int(e) >= len(tree):
			return fmt.Errorf("%w: entry at %d points past the end (%d)", ErrBitStream, i, e)
		case int(e) <= i&^1:
			// Forward-only links keep every walk finite.
			return fmt.Errorf("%w: entry at %d points back to %d", ErrBitStream, i, e)
		}
	}
	return nil
}

// TreeNode is one decision pair of a prepared tree.
//
// Left and Right are either the index of the next node, or 0x80 ORed with
// the leaf symbol. Index is the node's own position in the slice.
type TreeNode struct {
	Left  uint8
	Right uint8
	Prob  uint8
	Index uint8
}

// leafFlag marks a prepared branch as a leaf.
const leafFlag = 0x80

// Prepare validates tree and converts it into one TreeNode per pair, with
// each node's probability stored alongside its branches.
func Prepare(tree []int8, probs []uint8) ([]TreeNode, error) {
	if err := Validate(tree, probs); err != nil {
		return nil, err
	}
	nodes := make([]TreeNode, len(tree)/2)
	for i := range nodes {
		nodes[i] = TreeNode{
			Left:  prepareBranch(tree[2*i]),
			Right: prepareBranch(tree[2*i+1]),
			Prob:  probs[i],
			Index: uint8(i),
		}
	}
	return nodes, nil
}

func prepareBranch(t int8) uint8 {
	if t > 0 {
		return uint8(t) / 2
	}
	return leafFlag | uint8(-t)
}

// ReadTree decodes one symbol by walking prepared nodes from node index
// start (a pair position divided by two). It returns the same symbol as
// ReadWithTree on the tree the nodes were prepared from.
func ReadTree(d Decoder, nodes []TreeNode, start int) int8 {
	n := &nodes[start]
	for {
		next := n.Left
		if d.ReadBool(n.Prob) {
			next = n.Right
		}
		if next&leafFlag != 0 {
			return int8(next &^ leafFlag)
		}
		n = &nodes[next]
	}
}
