package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Document is one parsed schema file: its top-level entries in document order.
type Document struct {
	Path    string
	Entries []Entry
}

// Entry is one top-level "<Keyword> <Name>" key with its raw body.
type Entry struct {
	Keyword Keyword
	Name    string
	Body    *yaml.Node
	Line    int
}

// Location returns the location of the entry inside doc.
func (e Entry) Location(doc string) Location {
	return Location{Document: doc, Line: e.Line, Entity: string(e.Keyword) + " " + e.Name}
}

// Imports returns the import paths the document names, in declaration order.
func (d Document) Imports() ([]string, error) {
	var paths []string
	for _, e := range d.Entries {
		if e.Keyword != KeywordImport {
			continue
		}
		refs, err := e.ImportRefs(d.Path)
		if err != nil {
			return nil, err
		}
		paths = append(paths, refs...)
	}
	return paths, nil
}

// ImportRefs returns the paths named by an Import entry: a single path or a
// list of paths.
func (e Entry) ImportRefs(doc string) ([]string, error) {
	body := resolveAlias(e.Body)
	switch {
	case body == nil || isNull(body):
		return nil, Syntaxf(e.Location(doc), "import without a path")
	case body.Kind == yaml.ScalarNode:
		return []string{body.Value}, nil
	case body.Kind == yaml.SequenceNode:
		refs := make([]string, 0, len(body.Content))
		for _, item := range body.Content {
			item = resolveAlias(item)
			if item.Kind != yaml.ScalarNode || item.Value == "" {
				return nil, Syntaxf(e.Location(doc), "import list entries must be paths")
			}
			refs = append(refs, item.Value)
		}
		return refs, nil
	default:
		return nil, Syntaxf(e.Location(doc), "import should be a path or a list of paths")
	}
}

// Parse parses a schema document. An empty document has no entries.
func Parse(path string, data []byte) (Document, error) {
	doc := Document{Path: path}

	var root yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return doc, nil
		}
		return Document{}, &DefinitionSyntaxError{
			Location: Location{Document: path},
			Reason:   fmt.Sprintf("parse yaml: %v", err),
		}
	}

	top := &root
	if top.Kind == yaml.DocumentNode {
		if len(top.Content) == 0 {
			return doc, nil
		}
		top = top.Content[0]
	}
	if top.Kind == 0 || isNull(top) {
		return doc, nil
	}

	pairs, ok := Pairs(top)
	if !ok {
		return Document{}, Syntaxf(Location{Document: path, Line: top.Line}, "top level should be a mapping")
	}

	seen := make(map[string]int, len(pairs))
	for _, p := range pairs {
		loc := Location{Document: path, Line: p.Key.Line}
		kw, name, err := ParseKey(p.Key.Value)
		if err != nil {
			return Document{}, &DefinitionSyntaxError{Location: loc, Reason: err.Error()}
		}
		if kw != KeywordImport {
			id := string(kw) + " " + name
			if line, dup := seen[id]; dup {
				return Document{}, Syntaxf(loc, "%s %s already defined on line %d", kw, name, line)
			}
			seen[id] = p.Key.Line
		}
		doc.Entries = append(doc.Entries, Entry{
			Keyword: kw,
			Name:    name,
			Body:    p.Value,
			Line:    p.Key.Line,
		})
	}

	return doc, nil
}

// Pair is one key/value of a YAML mapping.
type Pair struct {
	Key   *yaml.Node
	Value *yaml.Node
}

// Pairs returns the entries of a mapping node in document order.
// A null node is an empty mapping. ok is false for any other kind.
func Pairs(node *yaml.Node) (pairs []Pair, ok bool) {
	node = resolveAlias(node)
	if node == nil || isNull(node) {
		return nil, true
	}
	if node.Kind != yaml.MappingNode {
		return nil, false
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		pairs = append(pairs, Pair{
			Key:   resolveAlias(node.Content[i]),
			Value: resolveAlias(node.Content[i+1]),
		})
	}
	return pairs, true
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}
