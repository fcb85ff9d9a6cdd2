package byml

import (
	"encoding/base64"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/switchtools/bgpak/bgerr"
)

// MarshalYAML converts a Byml tree to a yaml.Node using the canonical tag
// mapping: I64 gets !l, U32/U64 get !u/!ul in 0x-prefixed hex, Double gets
// !f64, Binary gets !!binary base64, and strings are quoted only when their
// bare form would otherwise resolve to a different scalar kind.
func MarshalYAML(node Byml) (*yaml.Node, error) {
	switch v := node.(type) {
	case Null:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case String:
		return stringNode(string(v)), nil
	case Bool:
		val := "false"
		if bool(v) {
			val = "true"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: val}, nil
	case I32:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(int64(v), 10)}, nil
	case *I64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!l", Value: strconv.FormatInt(v.Value, 10)}, nil
	case U32:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!u", Value: fmt.Sprintf("0x%x", uint32(v))}, nil
	case *U64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!ul", Value: fmt.Sprintf("0x%x", v.Value)}, nil
	case Float:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: formatFloat32(float32(v))}, nil
	case *Double:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!f64", Value: formatFloat64(v.Value)}, nil
	case *BinaryData:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!binary", Value: base64.StdEncoding.EncodeToString(v.Bytes)}, nil
	case *Array:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.Items {
			child, err := MarshalYAML(item)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, child)
		}
		return n, nil
	case *Hash:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		keys := make([]string, 0, len(v.Entries))
		for k := range v.Entries {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			valNode, err := MarshalYAML(v.Entries[k])
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, stringNode(k), valNode)
		}
		return n, nil
	default:
		return nil, bgerr.NewInvalidData("cannot marshal byml node of type %T to YAML", node)
	}
}

func stringNode(s string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	if needsQuoting(s) {
		n.Style = yaml.DoubleQuotedStyle
	}
	return n
}

func needsQuoting(s string) bool {
	if strings.HasPrefix(s, "!") {
		return true
	}
	switch strings.ToLower(s) {
	case "null", "~", "true", "false", "yes", "no", ".nan", ".inf", "-.inf":
		return true
	}
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return true
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return true
	}
	return false
}

func formatFloat32(f float32) string {
	switch {
	case math.IsNaN(float64(f)):
		return ".nan"
	case math.IsInf(float64(f), 1):
		return ".inf"
	case math.IsInf(float64(f), -1):
		return "-.inf"
	default:
		return strconv.FormatFloat(float64(f), 'g', -1, 32)
	}
}

func formatFloat64(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}

// UnmarshalYAML converts a yaml.Node back to a Byml tree using the inverse
// of MarshalYAML's tag mapping.
func UnmarshalYAML(node *yaml.Node) (Byml, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return unmarshalScalar(node)
	case yaml.SequenceNode:
		items := make([]Byml, len(node.Content))
		for i, c := range node.Content {
			v, err := UnmarshalYAML(c)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return &Array{Items: items}, nil
	case yaml.MappingNode:
		h := NewHash()
		for i := 0; i+1 < len(node.Content); i += 2 {
			v, err := UnmarshalYAML(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			h.Entries[node.Content[i].Value] = v
		}
		return h, nil
	default:
		return nil, bgerr.NewInvalidData("unsupported YAML node kind %v", node.Kind)
	}
}

func unmarshalScalar(node *yaml.Node) (Byml, error) {
	switch node.Tag {
	case "!l":
		v, err := strconv.ParseInt(node.Value, 10, 64)
		if err != nil {
			return nil, bgerr.NewInvalidData("invalid !l scalar %q: %v", node.Value, err)
		}
		return NewI64(v), nil
	case "!u":
		v, err := strconv.ParseUint(strings.TrimPrefix(node.Value, "0x"), 16, 32)
		if err != nil {
			return nil, bgerr.NewInvalidData("invalid !u scalar %q: %v", node.Value, err)
		}
		return U32(v), nil
	case "!ul":
		v, err := strconv.ParseUint(strings.TrimPrefix(node.Value, "0x"), 16, 64)
		if err != nil {
			return nil, bgerr.NewInvalidData("invalid !ul scalar %q: %v", node.Value, err)
		}
		return NewU64(v), nil
	case "!f64":
		f, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return nil, bgerr.NewInvalidData("invalid !f64 scalar %q: %v", node.Value, err)
		}
		return NewDouble(f), nil
	case "!!binary":
		b, err := base64.StdEncoding.DecodeString(node.Value)
		if err != nil {
			return nil, bgerr.NewInvalidData("invalid !!binary scalar: %v", err)
		}
		return NewBinaryData(b), nil
	case "!!null":
		return Null{}, nil
	case "!!bool":
		return Bool(node.Value == "true"), nil
	case "!!int":
		v, err := strconv.ParseInt(node.Value, 10, 64)
		if err != nil {
			return nil, bgerr.NewInvalidData("invalid integer scalar %q: %v", node.Value, err)
		}
		return I32(int32(v)), nil
	case "!!float":
		f, err := parseSpecialFloat32(node.Value)
		if err != nil {
			return nil, err
		}
		return NewFloat(f), nil
	case "!!str", "":
		return String(node.Value), nil
	default:
		return nil, bgerr.NewInvalidData("unrecognized YAML tag %q", node.Tag)
	}
}

func parseSpecialFloat32(s string) (float32, error) {
	switch s {
	case ".inf":
		return float32(math.Inf(1)), nil
	case "-.inf":
		return float32(math.Inf(-1)), nil
	case ".nan":
		return float32(math.NaN()), nil
	}
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, bgerr.NewInvalidData("invalid float scalar %q: %v", s, err)
	}
	return float32(f), nil
}
