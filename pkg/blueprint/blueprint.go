package blueprint

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/shadowtree/internal/errors"
	"github.com/vango-dev/shadowtree/pkg/component"
	"github.com/vango-dev/shadowtree/pkg/props"
	"github.com/vango-dev/shadowtree/pkg/shadow"
)

// DefaultRootTag is used when neither the blueprint nor the caller names
// a root tag.
const DefaultRootTag shadow.Tag = 1

// Blueprint describes one tree.
type Blueprint struct {
	RootTag int32    `yaml:"rootTag,omitempty"`
	Root    NodeSpec `yaml:"root"`
}

// NodeSpec describes one node and its subtree.
type NodeSpec struct {
	Component   string                 `yaml:"component"`
	Tag         int32                  `yaml:"tag,omitempty"`
	Props       map[string]any         `yaml:"props,omitempty"`
	Text        string                 `yaml:"text,omitempty"`
	Source      string                 `yaml:"source,omitempty"`
	Measurement *component.Measurement `yaml:"measurement,omitempty"`
	Children    []NodeSpec             `yaml:"children,omitempty"`
}

// Parse decodes a blueprint. Unknown fields are rejected.
func Parse(data []byte) (*Blueprint, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var bp Blueprint
	if err := dec.Decode(&bp); err != nil {
		return nil, errors.New(errors.CodeBlueprintParse).WithOp("blueprint.Parse").Wrap(err)
	}
	if bp.Root.Component == "" {
		bp.Root.Component = component.RootKind.Name()
	}
	return &bp, nil
}

// Load reads and parses the blueprint at path.
func Load(path string) (*Blueprint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.CodeBlueprintParse).
			WithOp("blueprint.Load").
			WithDetailf("reading %s", path).
			Wrap(err)
	}
	bp, err := Parse(data)
	if err != nil {
		if te, ok := errors.AsTreeError(err); ok {
			te.WithDetailf("parsing %s", path)
		}
		return nil, err
	}
	return bp, nil
}

// Build constructs the tree with the default component registry.
// A zero rootTag uses the blueprint's own, or DefaultRootTag.
func (bp *Blueprint) Build(rootTag shadow.Tag) (*shadow.Node, error) {
	return bp.BuildWith(component.Default(), rootTag)
}

// BuildWith constructs the tree resolving components through reg.
// The returned tree is not sealed.
func (bp *Blueprint) BuildWith(reg *component.Registry, rootTag shadow.Tag) (*shadow.Node, error) {
	if rootTag == 0 {
		rootTag = shadow.Tag(bp.RootTag)
	}
	if rootTag == 0 {
		rootTag = DefaultRootTag
	}
	if rootTag < 0 {
		return nil, invalidTag("rootTag", int32(rootTag), "root tag must be positive")
	}

	b := &build{
		reg:      reg,
		builder:  component.NewBuilder(rootTag),
		rootTag:  rootTag,
		explicit: make(map[shadow.Tag]string),
		next:     rootTag,
	}
	if err := b.reserve(&bp.Root, "root", true); err != nil {
		return nil, err
	}
	tags := make(map[*NodeSpec]shadow.Tag)
	b.assign(&bp.Root, tags, true)
	return b.node(&bp.Root, "root", tags)
}

type build struct {
	reg      *component.Registry
	builder  *component.Builder
	rootTag  shadow.Tag
	explicit map[shadow.Tag]string // tag -> path of the node using it
	next     shadow.Tag
}

// reserve validates explicit tags and records them.
func (b *build) reserve(spec *NodeSpec, path string, isRoot bool) error {
	tag := shadow.Tag(spec.Tag)
	switch {
	case spec.Tag < 0:
		return invalidTag(path, spec.Tag, "tags must be positive")
	case isRoot && spec.Tag != 0 && tag != b.rootTag:
		return invalidTag(path, spec.Tag, fmt.Sprintf("root node must use root tag %d", b.rootTag))
	case isRoot:
		b.explicit[b.rootTag] = path
	case spec.Tag != 0:
		if other, dup := b.explicit[tag]; dup {
			return errors.New(errors.CodeDuplicateTag).
				WithOp("blueprint.Build").
				WithTag(spec.Tag).
				WithDetailf("%s and %s both use tag %d", other, path, spec.Tag)
		}
		b.explicit[tag] = path
	}
	for i := range spec.Children {
		if err := b.reserve(&spec.Children[i], childPath(path, i), false); err != nil {
			return err
		}
	}
	return nil
}

// assign gives every node a tag, in document order.
func (b *build) assign(spec *NodeSpec, tags map[*NodeSpec]shadow.Tag, isRoot bool) {
	switch {
	case isRoot:
		tags[spec] = b.rootTag
	case spec.Tag != 0:
		tags[spec] = shadow.Tag(spec.Tag)
	default:
		for {
			b.next++
			if _, used := b.explicit[b.next]; !used {
				break
			}
		}
		tags[spec] = b.next
	}
	for i := range spec.Children {
		b.assign(&spec.Children[i], tags, false)
	}
}

func (b *build) node(spec *NodeSpec, path string, tags map[*NodeSpec]shadow.Tag) (*shadow.Node, error) {
	kind, ok := b.reg.Lookup(spec.Component)
	if !ok {
		return nil, errors.New(errors.CodeUnknownComponent).
			WithOp("blueprint.Build").
			WithDetailf("%s: component %q is not registered", path, spec.Component).
			WithSuggestion(fmt.Sprintf("Registered components: %v", b.reg.Names()))
	}

	args := make([]any, 0, len(spec.Props)+len(spec.Children)+4)
	args = append(args, tags[spec])

	keys := make([]string, 0, len(spec.Props))
	for k := range spec.Props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, props.Attr{Key: k, Value: spec.Props[k]})
	}
	if spec.Text != "" {
		args = append(args, props.Text(spec.Text))
	}
	if spec.Source != "" {
		args = append(args, props.Source(spec.Source))
	}
	if spec.Measurement != nil {
		args = append(args, *spec.Measurement)
	}

	for i := range spec.Children {
		child, err := b.node(&spec.Children[i], childPath(path, i), tags)
		if err != nil {
			return nil, err
		}
		args = append(args, child)
	}

	return b.builder.Create(kind, args...), nil
}

func childPath(parent string, i int) string {
	return fmt.Sprintf("%s.children[%d]", parent, i)
}

func invalidTag(path string, tag int32, detail string) error {
	return errors.New(errors.CodeInvalidTag).
		WithOp("blueprint.Build").
		WithTag(tag).
		WithDetailf("%s: %s", path, detail)
}
