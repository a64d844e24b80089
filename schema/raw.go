// Package schema builds the two schema trees a parquet file's flat,
// Thrift-encoded SchemaElement list is turned into: a raw tree that mirrors
// the flat list's group/child structure one-to-one, and a logical tree that
// folds OPTIONAL/REPEATED/LIST/MAP shapes into the nested types callers
// actually want to see. It is grounded on the retrieval pack's schema
// plumbing (dot-joined flat names, recursive level propagation) layered
// over the sum-type-shaped node walk the reference implementation uses.
package schema

import (
	"strings"

	"github.com/hexbee-net/parquet4go/format"
	"github.com/hexbee-net/parquet4go/internal/errs"
)

// RawNode is one entry of the flat SchemaElement list, restored to tree
// shape. Leaves (Children == nil) carry a ColumnIndex assigned in the
// preorder encounter order used by column chunk ordering in the row group.
type RawNode struct {
	Info        *format.SchemaElement
	Children    []*RawNode
	Path        []string
	ColumnIndex int // -1 for group nodes
	DefLevel    int
	RepLevel    int
}

// RawSchema is a parsed flat schema: its tree shape plus a leaf index for
// fast column-order iteration.
type RawSchema struct {
	Root   *RawNode
	Leaves []*RawNode
}

// FlatToRaw restores the tree shape of a flat SchemaElement list as written
// in a file's FileMetaData.Schema, assigns column indices to leaves in
// encounter order, computes each node's definition/repetition level, and
// computes each node's dot-joined name path.
func FlatToRaw(elements []*format.SchemaElement) (*RawSchema, error) {
	if len(elements) == 0 {
		return nil, errs.Corrupted("schema: empty flat schema")
	}

	pos := 0
	next := func() (*format.SchemaElement, error) {
		if pos >= len(elements) {
			return nil, errs.Corrupted("schema: flat schema truncated: expected more elements")
		}
		e := elements[pos]
		pos++
		return e, nil
	}

	root, err := next()
	if err != nil {
		return nil, err
	}

	rawRoot := &RawNode{Info: root, ColumnIndex: -1}

	var build func(*RawNode) error
	build = func(n *RawNode) error {
		if !n.Info.IsSetNumChildren {
			n.ColumnIndex = -1
			return nil
		}
		if n.Info.NumChildren < 0 {
			return errs.Corrupted("schema: negative num_children on node %q", n.Info.Name)
		}
		n.Children = make([]*RawNode, n.Info.NumChildren)
		for i := range n.Children {
			e, err := next()
			if err != nil {
				return err
			}
			child := &RawNode{Info: e, ColumnIndex: -1}
			n.Children[i] = child
			if err := build(child); err != nil {
				return err
			}
		}
		return nil
	}
	if err := build(rawRoot); err != nil {
		return nil, err
	}
	if pos != len(elements) {
		return nil, errs.Corrupted("schema: flat schema has %d trailing elements", len(elements)-pos)
	}

	raw := &RawSchema{Root: rawRoot}
	assignLeaves(rawRoot, &raw.Leaves)
	computeLevels(rawRoot, 0, 0)
	computePaths(rawRoot, nil)

	return raw, nil
}

// assignLeaves walks n's children in preorder, numbering primitive
// (childless) nodes as it finds them and collecting them into *leaves.
func assignLeaves(n *RawNode, leaves *[]*RawNode) {
	if n.Children == nil {
		if n != nil && n.Info != nil {
			n.ColumnIndex = len(*leaves)
			*leaves = append(*leaves, n)
		}
		return
	}
	for _, c := range n.Children {
		assignLeaves(c, leaves)
	}
}

// computeLevels accumulates definition/repetition levels top-down: a
// REPEATED node raises both, an OPTIONAL node raises only the definition
// level. The synthetic root itself carries level 0.
func computeLevels(n *RawNode, def, rep int) {
	if n.Info.IsSetRepetition {
		switch n.Info.RepetitionType {
		case format.FieldRepetitionType_REPEATED:
			def++
			rep++
		case format.FieldRepetitionType_OPTIONAL:
			def++
		}
	}
	n.DefLevel = def
	n.RepLevel = rep
	for _, c := range n.Children {
		computeLevels(c, def, rep)
	}
}

// computePaths assigns dot-joined name paths to every node below the root;
// the root itself (the synthetic "schema" message) never appears in a path.
func computePaths(n *RawNode, prefix []string) {
	for _, c := range n.Children {
		path := append(append([]string{}, prefix...), c.Info.Name)
		c.Path = path
		computePaths(c, path)
	}
}

// FlatName returns the dot-joined path of n, e.g. "my_list.list.element".
func (n *RawNode) FlatName() string { return strings.Join(n.Path, ".") }
