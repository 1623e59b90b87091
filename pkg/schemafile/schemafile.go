// Package schemafile loads codec schemas from YAML documents, so a
// wire protocol can live next to the code that speaks it instead of
// inside it. A document declares named types in order; later types
// reference earlier ones by name:
//
//	types:
//	  status:
//	    enum:
//	      members: {idle: 0x00, active: 0x01}
//	  header:
//	    record:
//	      - name: barker
//	        type: {uint: {width: 4, default: 0xcafebeef}}
//	      - name: status
//	        type: {ref: status}
//
// Load compiles every declared type once; the resulting coders are
// the same immutable schema objects the builder API produces.
package schemafile

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rawbytedev/copperwire"
)

// Schema holds the compiled types of one document, in declaration
// order.
type Schema struct {
	types map[string]copperwire.Coder
	names []string
}

// LoadFile reads and compiles the schema document at path.
func LoadFile(path string) (*Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Load reads and compiles a schema document from r.
func Load(r io.Reader) (*Schema, error) {
	var doc struct {
		Types yaml.Node `yaml:"types"`
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("schemafile: %w", err)
	}
	if doc.Types.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("schemafile: document needs a types mapping")
	}

	s := &Schema{types: make(map[string]copperwire.Coder)}
	// A mapping node stores keys and values interleaved; walking it
	// directly keeps declaration order, which a map would lose.
	for i := 0; i+1 < len(doc.Types.Content); i += 2 {
		name := doc.Types.Content[i].Value
		if _, dup := s.types[name]; dup {
			return nil, fmt.Errorf("schemafile: type %s declared twice", name)
		}
		var node typeNode
		if err := doc.Types.Content[i+1].Decode(&node); err != nil {
			return nil, fmt.Errorf("schemafile: type %s: %w", name, err)
		}
		coder, err := s.compile(&node)
		if err != nil {
			return nil, fmt.Errorf("schemafile: type %s: %w", name, err)
		}
		s.types[name] = coder
		s.names = append(s.names, name)
	}
	return s, nil
}

// Type returns the compiled coder declared under name.
func (s *Schema) Type(name string) (copperwire.Coder, bool) {
	c, ok := s.types[name]
	return c, ok
}

// Types returns the declared type names in document order.
func (s *Schema) Types() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// typeNode is one schema node: exactly one of its fields is set.
type typeNode struct {
	Ref      string        `yaml:"ref"`
	UInt     *uintNode     `yaml:"uint"`
	Int      *intNode      `yaml:"int"`
	Bool     *boolNode     `yaml:"bool"`
	Enum     *enumNode     `yaml:"enum"`
	String   *stringNode   `yaml:"string"`
	Sequence *sequenceNode `yaml:"sequence"`
	Array    *arrayNode    `yaml:"array"`
	Record   []memberNode  `yaml:"record"`
	Choice   *choiceNode   `yaml:"choice"`
}

type uintNode struct {
	Width     int     `yaml:"width"`
	Default   uint64  `yaml:"default"`
	Min       *uint64 `yaml:"min"`
	Max       *uint64 `yaml:"max"`
	ByteOrder string  `yaml:"byte_order"`
}

type intNode struct {
	Width     int    `yaml:"width"`
	Default   int64  `yaml:"default"`
	Min       *int64 `yaml:"min"`
	Max       *int64 `yaml:"max"`
	ByteOrder string `yaml:"byte_order"`
}

type boolNode struct {
	Default bool `yaml:"default"`
}

type enumNode struct {
	Width     int               `yaml:"width"`
	Members   map[string]uint64 `yaml:"members"`
	Default   string            `yaml:"default"`
	ByteOrder string            `yaml:"byte_order"`
}

type stringNode struct {
	MinLength     uint64  `yaml:"min_length"`
	MaxLength     *uint64 `yaml:"max_length"`
	IncludeLength bool    `yaml:"include_length"`
	LengthWidth   int     `yaml:"length_width"`
}

type sequenceNode struct {
	Of            typeNode `yaml:"of"`
	MinLength     uint64   `yaml:"min_length"`
	MaxLength     *uint64  `yaml:"max_length"`
	IncludeLength bool     `yaml:"include_length"`
	LengthWidth   int      `yaml:"length_width"`
}

type arrayNode struct {
	Of   typeNode `yaml:"of"`
	Size uint64   `yaml:"size"`
}

type memberNode struct {
	Name string   `yaml:"name"`
	Type typeNode `yaml:"type"`
}

type choiceNode struct {
	TagWidth  int                 `yaml:"tag_width"`
	ByteOrder string              `yaml:"byte_order"`
	Variants  map[uint64]typeNode `yaml:"variants"`
}

func (s *Schema) compile(node *typeNode) (copperwire.Coder, error) {
	kinds := 0
	if node.Ref != "" {
		kinds++
	}
	for _, set := range []bool{
		node.UInt != nil, node.Int != nil, node.Bool != nil,
		node.Enum != nil, node.String != nil, node.Sequence != nil,
		node.Array != nil, node.Record != nil, node.Choice != nil,
	} {
		if set {
			kinds++
		}
	}
	if kinds != 1 {
		return nil, fmt.Errorf("a type needs exactly one kind, got %d", kinds)
	}

	switch {
	case node.Ref != "":
		c, ok := s.types[node.Ref]
		if !ok {
			return nil, fmt.Errorf("ref %s is not declared above this type", node.Ref)
		}
		return c, nil

	case node.UInt != nil:
		order, err := byteOrder(node.UInt.ByteOrder)
		if err != nil {
			return nil, err
		}
		return copperwire.NewUnsignedInteger(copperwire.UintConfig{
			Width:     node.UInt.Width,
			Default:   node.UInt.Default,
			MinValue:  node.UInt.Min,
			MaxValue:  node.UInt.Max,
			ByteOrder: order,
		})

	case node.Int != nil:
		order, err := byteOrder(node.Int.ByteOrder)
		if err != nil {
			return nil, err
		}
		return copperwire.NewSignedInteger(copperwire.IntConfig{
			Width:     node.Int.Width,
			Default:   node.Int.Default,
			MinValue:  node.Int.Min,
			MaxValue:  node.Int.Max,
			ByteOrder: order,
		})

	case node.Bool != nil:
		return copperwire.NewBoolean(node.Bool.Default), nil

	case node.Enum != nil:
		order, err := byteOrder(node.Enum.ByteOrder)
		if err != nil {
			return nil, err
		}
		cfg := copperwire.EnumConfig{Width: node.Enum.Width, ByteOrder: order}
		if node.Enum.Default != "" {
			value, ok := node.Enum.Members[node.Enum.Default]
			if !ok {
				return nil, fmt.Errorf("enum default %s is not a member", node.Enum.Default)
			}
			cfg.Default = &value
		}
		return copperwire.NewEnum(node.Enum.Members, cfg)

	case node.String != nil:
		return copperwire.NewString(copperwire.SequenceConfig{
			MinLength:     node.String.MinLength,
			MaxLength:     node.String.MaxLength,
			IncludeLength: node.String.IncludeLength,
			LengthWidth:   node.String.LengthWidth,
		})

	case node.Sequence != nil:
		elem, err := s.compile(&node.Sequence.Of)
		if err != nil {
			return nil, fmt.Errorf("sequence element: %w", err)
		}
		return copperwire.NewSequence(elem, copperwire.SequenceConfig{
			MinLength:     node.Sequence.MinLength,
			MaxLength:     node.Sequence.MaxLength,
			IncludeLength: node.Sequence.IncludeLength,
			LengthWidth:   node.Sequence.LengthWidth,
		})

	case node.Array != nil:
		elem, err := s.compile(&node.Array.Of)
		if err != nil {
			return nil, fmt.Errorf("array element: %w", err)
		}
		return copperwire.NewArray(elem, node.Array.Size)

	case node.Record != nil:
		members := make([]copperwire.Member, 0, len(node.Record))
		for i := range node.Record {
			m := &node.Record[i]
			coder, err := s.compile(&m.Type)
			if err != nil {
				return nil, fmt.Errorf("member %s: %w", m.Name, err)
			}
			members = append(members, copperwire.Member{Name: m.Name, Coder: coder})
		}
		return copperwire.NewRecord(members...)

	default: // node.Choice != nil
		order, err := byteOrder(node.Choice.ByteOrder)
		if err != nil {
			return nil, err
		}
		variants := make(map[uint64]copperwire.Coder, len(node.Choice.Variants))
		for tag := range node.Choice.Variants {
			variantNode := node.Choice.Variants[tag]
			coder, err := s.compile(&variantNode)
			if err != nil {
				return nil, fmt.Errorf("variant %#x: %w", tag, err)
			}
			variants[tag] = coder
		}
		return copperwire.NewChoice(variants, copperwire.ChoiceConfig{
			TagWidth:  node.Choice.TagWidth,
			ByteOrder: order,
		})
	}
}

func byteOrder(name string) (copperwire.ByteOrder, error) {
	switch name {
	case "", "msb":
		return copperwire.MSBFirst, nil
	case "lsb":
		return copperwire.LSBFirst, nil
	default:
		return 0, fmt.Errorf("unknown byte order %q, use msb or lsb", name)
	}
}
