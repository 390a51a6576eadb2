package resolve

import (
	"fmt"

	"github.com/artpar/judegen/core/catalog"
	"github.com/artpar/judegen/core/convention"
	"github.com/artpar/judegen/core/loader"
	"github.com/artpar/judegen/core/schema"
	"gopkg.in/yaml.v3"
)

// maxBit is the highest bit a bitmask may use.
const maxBit = 63

// resolveEnum reads an enum body: label -> int or label -> {value, description}.
func resolveEnum(def loader.Def) (*Enum, error) {
	values, err := labelledValues(def, "value")
	if err != nil {
		return nil, err
	}
	return &Enum{Name: def.Name, Origin: def.Origin, Document: def.Document, Values: values}, nil
}

// resolveBitmask reads a bitmask body: label -> bit or label -> {bit, description}.
// "value" is accepted in place of "bit".
func resolveBitmask(def loader.Def) (*Bitmask, error) {
	values, err := labelledValues(def, "bit", "value")
	if err != nil {
		return nil, err
	}

	var highest int64
	seen := make(map[int64]string, len(values))
	for _, v := range values {
		loc := def.Location()
		loc.Member = v.Label
		if v.Value < 0 || v.Value > maxBit {
			return nil, schema.Syntaxf(loc, "bit %d is outside 0..%d", v.Value, maxBit)
		}
		if other, dup := seen[v.Value]; dup {
			return nil, schema.Syntaxf(loc, "bit %d already used by %q", v.Value, other)
		}
		seen[v.Value] = v.Label
		if v.Value > highest {
			highest = v.Value
		}
	}

	return &Bitmask{
		Name:        def.Name,
		Origin:      def.Origin,
		Document:    def.Document,
		Values:      values,
		StorageSize: catalog.BitmaskSize(int(highest)),
	}, nil
}

func labelledValues(def loader.Def, valueKeys ...string) ([]EnumValue, error) {
	pairs, ok := schema.Pairs(def.Body)
	if !ok {
		return nil, schema.Syntaxf(def.Location(), "body should be a mapping of labels to values")
	}

	values := make([]EnumValue, 0, len(pairs))
	for _, p := range pairs {
		loc := def.Location()
		loc.Line = p.Key.Line
		loc.Member = p.Key.Value

		v := EnumValue{Label: p.Key.Value, Symbol: convention.Symbol(p.Key.Value)}
		if err := decodeValue(p.Value, valueKeys, &v); err != nil {
			return nil, &schema.DefinitionSyntaxError{Location: loc, Reason: err.Error()}
		}
		values = append(values, v)
	}
	return values, nil
}

func decodeValue(node *yaml.Node, valueKeys []string, v *EnumValue) error {
	switch node.Kind {
	case yaml.ScalarNode:
		n, err := intScalar(node)
		if err != nil {
			return err
		}
		v.Value = n
		return nil

	case yaml.MappingNode:
		pairs, _ := schema.Pairs(node)
		found := false
		for _, p := range pairs {
			switch key := p.Key.Value; {
			case key == "description":
				if p.Value.Kind != yaml.ScalarNode {
					return fmt.Errorf("description should be text")
				}
				v.Description = p.Value.Value
			case contains(valueKeys, key):
				n, err := intScalar(p.Value)
				if err != nil {
					return err
				}
				v.Value = n
				found = true
			default:
				return fmt.Errorf("unknown attribute %q", key)
			}
		}
		if !found {
			return fmt.Errorf("defined as a mapping but no %q given", valueKeys[0])
		}
		return nil

	default:
		return fmt.Errorf("should be an integer or a mapping with %q", valueKeys[0])
	}
}

func intScalar(node *yaml.Node) (int64, error) {
	if node.Kind != yaml.ScalarNode || node.ShortTag() != "!!int" {
		return 0, fmt.Errorf("value %q is not an integer", node.Value)
	}
	var n int64
	if err := node.Decode(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
