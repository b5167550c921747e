package document

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/PolarWolf314/vault-nacl/internal/value"
)

func decodeYAML(data []byte) (value.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode yaml: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return value.Scalar{}, nil
	}
	c := nodeConverter{seen: make(map[*yaml.Node]value.Value)}
	return c.from(doc.Content[0])
}

// nodeConverter maps yaml nodes to values. Anchored nodes convert once, so
// aliases share the same container.
type nodeConverter struct {
	seen map[*yaml.Node]value.Value
}

func (c nodeConverter) from(n *yaml.Node) (value.Value, error) {
	if v, ok := c.seen[n]; ok {
		return v, nil
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.Scalar{}, nil
		}
		return c.from(n.Content[0])
	case yaml.AliasNode:
		return c.from(n.Alias)
	case yaml.MappingNode:
		m := value.NewMapping()
		c.seen[n] = m
		for i := 0; i+1 < len(n.Content); i += 2 {
			child, err := c.from(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m.Set(n.Content[i].Value, child)
		}
		return m, nil
	case yaml.SequenceNode:
		seq := value.NewSequence()
		c.seen[n] = seq
		for _, item := range n.Content {
			child, err := c.from(item)
			if err != nil {
				return nil, err
			}
			seq.Items = append(seq.Items, child)
		}
		return seq, nil
	default:
		if n.ShortTag() == "!!str" {
			return value.Text(n.Value), nil
		}
		var x any
		if err := n.Decode(&x); err != nil {
			return nil, fmt.Errorf("failed to decode yaml scalar at line %d: %w", n.Line, err)
		}
		return value.Scalar{V: x}, nil
	}
}

func encodeYAML(v value.Value) ([]byte, error) {
	n, err := toNode(v, cycleGuard{})
	if err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

func toNode(v value.Value, guard cycleGuard) (*yaml.Node, error) {
	switch t := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case value.Text:
		n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(t)}
		// Line wrapped spans read best as literal blocks.
		if strings.Contains(string(t), "\n") {
			n.Style = yaml.LiteralStyle
		}
		return n, nil
	case value.Scalar:
		n := &yaml.Node{}
		if err := n.Encode(t.V); err != nil {
			return nil, err
		}
		return n, nil
	case *value.Sequence:
		if err := guard.enter(t); err != nil {
			return nil, err
		}
		defer guard.leave(t)
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range t.Items {
			child, err := toNode(item, guard)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, child)
		}
		return n, nil
	case *value.Mapping:
		if err := guard.enter(t); err != nil {
			return nil, err
		}
		defer guard.leave(t)
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range t.Keys() {
			child, _ := t.Get(k)
			cn, err := toNode(child, guard)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				cn,
			)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("unsupported value %T", v)
	}
}
