package schema

import (
	"github.com/hexbee-net/parquet4go/format"
	"github.com/hexbee-net/parquet4go/internal/errs"
	"github.com/hexbee-net/parquet4go/logicaltype"
)

// Kind discriminates the shape a logical schema Node was built as. Go has
// no tagged union, so Node carries every shape's fields flatly and Kind
// says which subset is live -- the same closed-alternative idiom the
// format package uses for LogicalType and ConvertedType.
type Kind int

const (
	KindPrimitive Kind = iota
	KindOptional
	KindList
	KindMap
	KindStruct
)

// Node is one member of a logical schema tree: the nested shape produced by
// folding OPTIONAL/REPEATED wrappers and LIST/MAP converted types out of a
// raw schema tree.
type Node struct {
	Kind     Kind
	Name     string
	DefLevel int
	RepLevel int

	// KindPrimitive
	LogicalType logicaltype.LogicalType
	ColumnIndex int
	TypeLength  int32 // only meaningful when PhysicalType(LogicalType) == FIXED_LEN_BYTE_ARRAY

	// KindOptional, KindList (element)
	Child *Node

	// KindMap
	Key, Value *Node

	// KindStruct
	Fields []*Node
}

// Schema is a logical schema tree: the top-level fields of the root
// message, plus every primitive node reachable from them in encounter
// order (matching the raw schema's column ordering).
type Schema struct {
	Fields []*Node
	Leaves []*Node
}

// RawToLogical folds a raw schema tree into nested logical shapes.
func RawToLogical(raw *RawSchema) (*Schema, error) {
	s := &Schema{}
	for _, c := range raw.Root.Children {
		n, err := buildLogicalNode(c)
		if err != nil {
			return nil, err
		}
		s.Fields = append(s.Fields, n)
	}
	for _, f := range s.Fields {
		collectLeaves(f, &s.Leaves)
	}
	return s, nil
}

func collectLeaves(n *Node, out *[]*Node) {
	switch n.Kind {
	case KindPrimitive:
		*out = append(*out, n)
	case KindOptional:
		collectLeaves(n.Child, out)
	case KindList:
		collectLeaves(n.Child, out)
	case KindMap:
		collectLeaves(n.Key, out)
		collectLeaves(n.Value, out)
	case KindStruct:
		for _, f := range n.Fields {
			collectLeaves(f, out)
		}
	}
}

// buildLogicalNode implements the wrap-then-dispatch rule: OPTIONAL wraps
// the node built without the wrapper at {def-1, rep}; REPEATED wraps it as
// a list at {def-1, rep-1}; anything else dispatches on shape.
func buildLogicalNode(r *RawNode) (*Node, error) {
	switch r.Info.RepetitionType {
	case format.FieldRepetitionType_OPTIONAL:
		child, err := buildUnwrappedNode(r)
		if err != nil {
			return nil, err
		}
		child.DefLevel = r.DefLevel - 1
		child.RepLevel = r.RepLevel
		return &Node{Kind: KindOptional, Name: r.Info.Name, DefLevel: r.DefLevel - 1, RepLevel: r.RepLevel, Child: child}, nil

	case format.FieldRepetitionType_REPEATED:
		child, err := buildUnwrappedNode(r)
		if err != nil {
			return nil, err
		}
		child.DefLevel = r.DefLevel - 1
		child.RepLevel = r.RepLevel - 1
		return &Node{Kind: KindList, Name: r.Info.Name, DefLevel: r.DefLevel - 1, RepLevel: r.RepLevel - 1, Child: child}, nil

	default:
		n, err := buildUnwrappedNode(r)
		if err != nil {
			return nil, err
		}
		return n, nil
	}
}

// buildUnwrappedNode dispatches a REQUIRED-shaped node (one that is not
// itself being wrapped as optional/repeated by its caller) by its shape:
// map, list, primitive leaf, or struct.
func buildUnwrappedNode(r *RawNode) (*Node, error) {
	switch determineShape(r) {
	case shapeMap:
		return buildMapNode(r)
	case shapeList:
		return buildListNode(r)
	case shapePrimitive:
		return buildPrimitiveNode(r)
	default:
		return buildStructNode(r)
	}
}

type shape int

const (
	shapePrimitive shape = iota
	shapeMap
	shapeList
	shapeStruct
)

func determineShape(r *RawNode) shape {
	if r.Children == nil {
		return shapePrimitive
	}
	if r.Info.IsSetConverted {
		switch r.Info.ConvertedType {
		case format.ConvertedType_MAP, format.ConvertedType_MAP_KEY_VALUE:
			return shapeMap
		case format.ConvertedType_LIST:
			return shapeList
		}
	}
	return shapeStruct
}

func buildPrimitiveNode(r *RawNode) (*Node, error) {
	lt, err := logicaltype.Read(r.Info)
	if err != nil {
		return nil, errs.CorruptedWrap(err, "schema: node %q", r.FlatName())
	}
	return &Node{
		Kind:        KindPrimitive,
		Name:        r.Info.Name,
		DefLevel:    r.DefLevel,
		RepLevel:    r.RepLevel,
		LogicalType: lt,
		ColumnIndex: r.ColumnIndex,
		TypeLength:  r.Info.TypeLength,
	}, nil
}

func buildStructNode(r *RawNode) (*Node, error) {
	n := &Node{Kind: KindStruct, Name: r.Info.Name, DefLevel: r.DefLevel, RepLevel: r.RepLevel}
	for _, c := range r.Children {
		field, err := buildLogicalNode(c)
		if err != nil {
			return nil, err
		}
		n.Fields = append(n.Fields, field)
	}
	return n, nil
}

func buildMapNode(r *RawNode) (*Node, error) {
	if len(r.Children) != 1 {
		return nil, errs.Corrupted("schema: invalid map node %q: expected exactly one child", r.FlatName())
	}
	kv := r.Children[0]
	if kv.Info.RepetitionType != format.FieldRepetitionType_REPEATED || len(kv.Children) != 2 {
		return nil, errs.Corrupted("schema: invalid map node %q: key_value child must be REPEATED with two children", r.FlatName())
	}
	keyRaw, valueRaw := kv.Children[0], kv.Children[1]
	if keyRaw.Children != nil {
		return nil, errs.Corrupted("schema: invalid map node %q: key must be a primitive", r.FlatName())
	}

	key, err := buildLogicalNode(keyRaw)
	if err != nil {
		return nil, err
	}
	value, err := buildLogicalNode(valueRaw)
	if err != nil {
		return nil, err
	}
	return &Node{Kind: KindMap, Name: r.Info.Name, DefLevel: r.DefLevel, RepLevel: r.RepLevel, Key: key, Value: value}, nil
}

// buildListNode implements the LIST converted-type shape rule: 3-level
// shape is the modern default (group->repeated group "list"->element), but
// a repeated child with a single, oddly-named child ("array", or the
// parent's name plus "_tuple") signals a legacy producer that skipped the
// middle group, and any repeated child that doesn't have exactly one child
// can't be unwrapped as a 3-level "list" group at all -- both cases fold
// back to treating the repeated node itself as the element (2-level shape).
func buildListNode(r *RawNode) (*Node, error) {
	if len(r.Children) != 1 || r.Info.RepetitionType == format.FieldRepetitionType_REPEATED {
		return nil, errs.Corrupted("schema: invalid list node %q", r.FlatName())
	}
	repeated := r.Children[0]
	if repeated.Info.RepetitionType != format.FieldRepetitionType_REPEATED {
		return nil, errs.Corrupted("schema: invalid list element node %q", repeated.FlatName())
	}

	legacy := len(repeated.Children) != 1 ||
		repeated.Info.Name == "array" ||
		repeated.Info.Name == r.Info.Name+"_tuple"

	var elem *Node
	var err error
	if legacy {
		// The repeated node IS the element: its own REPEATED marker is what
		// produced this list in the first place, so it is not wrapped a
		// second time the way a plain repeated field would be.
		elem, err = buildUnwrappedNode(repeated)
	} else {
		elem, err = buildLogicalNode(repeated.Children[0])
	}
	if err != nil {
		return nil, err
	}

	return &Node{Kind: KindList, Name: r.Info.Name, DefLevel: r.DefLevel, RepLevel: r.RepLevel, Child: elem}, nil
}
