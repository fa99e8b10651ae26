package annotation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads an annotation store from a YAML or JSON file.
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open annotation file: %w", err)
	}
	defer f.Close()

	store, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return store, nil
}

// Load decodes a document of the form
//
//	ClassName:
//	  methodName:
//	    ApiRoute: [{name: /users}]
//
// keeping classes and methods in document order. JSON input is accepted as
// it is a subset of YAML.
func Load(r io.Reader) (*Store, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &Store{}, nil
		}
		return nil, fmt.Errorf("failed to parse annotations: %w", err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return &Store{}, nil
		}
		root = root.Content[0]
	}
	if isNull(root) {
		return &Store{}, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, nodeError(root, "expected a mapping of classes")
	}

	store := &Store{}
	for i := 0; i+1 < len(root.Content); i += 2 {
		class, err := decodeClass(root.Content[i], root.Content[i+1])
		if err != nil {
			return nil, err
		}
		store.Classes = append(store.Classes, class)
	}
	return store, nil
}

func decodeClass(key, value *yaml.Node) (Class, error) {
	class := Class{Name: key.Value}
	if isNull(value) {
		return class, nil
	}
	if value.Kind != yaml.MappingNode {
		return class, nodeError(value, "class %q: expected a mapping of methods", class.Name)
	}

	for i := 0; i+1 < len(value.Content); i += 2 {
		name := value.Content[i].Value
		bag, err := decodeBag(value.Content[i+1])
		if err != nil {
			return class, fmt.Errorf("class %q, method %q: %w", class.Name, name, err)
		}
		class.Methods = append(class.Methods, Method{Name: name, Bag: bag})
	}
	return class, nil
}

func decodeBag(node *yaml.Node) (Bag, error) {
	bag := Bag{}
	if isNull(node) {
		return bag, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, nodeError(node, "expected a mapping of annotation kinds")
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		kind := node.Content[i].Value
		instances, err := decodeInstances(node.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		bag[kind] = instances
	}
	return bag, nil
}

func decodeInstances(node *yaml.Node) ([]Annotation, error) {
	switch {
	case isNull(node):
		return []Annotation{}, nil
	case node.Kind == yaml.MappingNode:
		// a single instance written without the surrounding list
		a, err := decodeAnnotation(node)
		if err != nil {
			return nil, err
		}
		return []Annotation{a}, nil
	case node.Kind == yaml.SequenceNode:
		instances := make([]Annotation, 0, len(node.Content))
		for _, item := range node.Content {
			a, err := decodeAnnotation(item)
			if err != nil {
				return nil, err
			}
			instances = append(instances, a)
		}
		return instances, nil
	default:
		return nil, nodeError(node, "expected a list of annotation instances")
	}
}

func decodeAnnotation(node *yaml.Node) (Annotation, error) {
	if node.Kind != yaml.MappingNode {
		return nil, nodeError(node, "expected an annotation instance mapping")
	}

	a := Annotation{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		field := node.Content[i].Value
		value := node.Content[i+1]
		if isNull(value) {
			continue
		}
		text, err := scalarText(value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", field, err)
		}
		a[field] = text
	}
	return a, nil
}

// scalarText returns the literal text of a field value. Booleans follow the
// nullable convention of "1" and "0"; nested structures become JSON text so
// samples may be written inline without reordering keys.
func scalarText(node *yaml.Node) (string, error) {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	if node.Kind == yaml.ScalarNode {
		if node.Tag == "!!bool" {
			var b bool
			if err := node.Decode(&b); err != nil {
				return "", nodeError(node, "invalid boolean %q", node.Value)
			}
			return NormalizeBool(b), nil
		}
		return node.Value, nil
	}

	var b strings.Builder
	if err := writeJSON(&b, node); err != nil {
		return "", err
	}
	return b.String(), nil
}

// writeJSON prints a nested value as compact JSON in document order.
// Numbers keep their literal text.
func writeJSON(b *strings.Builder, node *yaml.Node) error {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}

	switch node.Kind {
	case yaml.MappingNode:
		b.WriteByte('{')
		for i := 0; i+1 < len(node.Content); i += 2 {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(quoteJSON(node.Content[i].Value))
			b.WriteByte(':')
			if err := writeJSON(b, node.Content[i+1]); err != nil {
				return err
			}
		}
		b.WriteByte('}')
	case yaml.SequenceNode:
		b.WriteByte('[')
		for i, item := range node.Content {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := writeJSON(b, item); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	case yaml.ScalarNode:
		switch {
		case isNull(node):
			b.WriteString("null")
		case node.Tag == "!!bool":
			var v bool
			if err := node.Decode(&v); err != nil {
				return nodeError(node, "invalid boolean %q", node.Value)
			}
			b.WriteString(strconv.FormatBool(v))
		case (node.Tag == "!!int" || node.Tag == "!!float") && json.Valid([]byte(node.Value)):
			b.WriteString(node.Value)
		default:
			b.WriteString(quoteJSON(node.Value))
		}
	default:
		return nodeError(node, "unsupported value")
	}
	return nil
}

func quoteJSON(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}

// NormalizeBool renders a boolean the way annotation flags are stored.
func NormalizeBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func isNull(node *yaml.Node) bool {
	return node == nil || (node.Kind == yaml.ScalarNode && node.Tag == "!!null")
}

func nodeError(node *yaml.Node, format string, args ...interface{}) error {
	return fmt.Errorf("line %d: %s", node.Line, fmt.Sprintf(format, args...))
}
