// Package loader reads schema documents and their imports into namespaces.
//
// Every document gets its own Namespace with two scopes: Local holds what the
// document declares itself and External holds everything reachable through its
// imports. Lookups consult Local first. A Loader memoises documents, so a file
// imported from several places is read and parsed once per session.
package loader

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/artpar/judegen/core/schema"
	"github.com/artpar/judegen/ports"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Namespace is the merged view of one document.
type Namespace struct {
	// Path is the canonical document path.
	Path string

	// Name is the schema name: the document base name without extension.
	Name string

	// Imports lists the import references as written, without duplicates.
	Imports []string

	Local    *Scope
	External *Scope
}

// Lookup finds a definition, local scope first.
func (n *Namespace) Lookup(kind schema.Keyword, name string) (Def, bool) {
	if d, ok := n.Local.Get(kind, name); ok {
		return d, true
	}
	return n.External.Get(kind, name)
}

// Program is the result of loading a root document.
type Program struct {
	// Root is the namespace of the document that was loaded.
	Root *Namespace

	// Namespaces holds every loaded namespace, imports before importers.
	Namespaces []*Namespace

	byPath map[string]*Namespace
}

// Namespace returns the namespace loaded from path.
func (p *Program) Namespace(path string) (*Namespace, bool) {
	n, ok := p.byPath[path]
	return n, ok
}

// Loader loads documents from a source. It is not safe for concurrent use;
// create one per session.
type Loader struct {
	src    ports.DocumentSource
	logger zerolog.Logger

	loaded  map[string]*Namespace
	order   []*Namespace
	loading []string
	tried   []string
}

// New creates a loader reading from src.
func New(src ports.DocumentSource, logger zerolog.Logger) *Loader {
	return &Loader{
		src:    src,
		logger: logger,
		loaded: make(map[string]*Namespace),
	}
}

// Load loads the document at root and everything it imports.
func (l *Loader) Load(ctx context.Context, root string) (*Program, error) {
	ns, err := l.load(ctx, root)
	if err != nil {
		return nil, err
	}

	byPath := make(map[string]*Namespace, len(l.loaded))
	for p, n := range l.loaded {
		byPath[p] = n
	}
	return &Program{
		Root:       ns,
		Namespaces: append([]*Namespace(nil), l.order...),
		byPath:     byPath,
	}, nil
}

// Tried returns the path of every document the loader attempted to read, in
// the order it got to them. After a failed Load it names the documents
// involved, including the one that failed.
func (l *Loader) Tried() []string {
	return append([]string(nil), l.tried...)
}

func (l *Loader) load(ctx context.Context, p string) (*Namespace, error) {
	if ns, ok := l.loaded[p]; ok {
		return ns, nil
	}
	for i, inProgress := range l.loading {
		if inProgress == p {
			chain := append(append([]string(nil), l.loading[i:]...), p)
			return nil, &schema.ImportCycleError{Chain: chain}
		}
	}

	l.tried = append(l.tried, p)
	l.loading = append(l.loading, p)
	defer func() { l.loading = l.loading[:len(l.loading)-1] }()

	data, err := l.src.Read(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", p, err)
	}
	doc, err := schema.Parse(p, data)
	if err != nil {
		return nil, err
	}

	ns := &Namespace{
		Path:     p,
		Name:     SchemaName(p),
		Local:    newScope(),
		External: newScope(),
	}

	seenImports := make(map[string]bool)
	for _, e := range doc.Entries {
		if e.Keyword == schema.KeywordImport {
			if err := l.importInto(ctx, ns, doc, e, seenImports); err != nil {
				return nil, err
			}
			continue
		}

		if err := checkBodyShape(doc.Path, e); err != nil {
			return nil, err
		}
		ns.Local.Set(Def{
			Kind:     e.Keyword,
			Name:     e.Name,
			Body:     e.Body,
			Document: p,
			Origin:   ns.Name,
			Line:     e.Line,
		})
	}

	for _, kind := range schema.Keywords {
		for _, name := range ns.Local.Names(kind) {
			if ext, ok := ns.External.Get(kind, name); ok {
				l.logger.Debug().
					Str("document", p).
					Str("kind", string(kind)).
					Str("name", name).
					Str("shadows", ext.Document).
					Msg("local definition shadows import")
			}
		}
	}

	l.loaded[p] = ns
	l.order = append(l.order, ns)
	l.logger.Debug().
		Str("document", p).
		Int("objects", ns.Local.Len(schema.KeywordObject)).
		Int("imports", len(ns.Imports)).
		Msg("document loaded")
	return ns, nil
}

func (l *Loader) importInto(ctx context.Context, ns *Namespace, doc schema.Document, e schema.Entry, seen map[string]bool) error {
	refs, err := e.ImportRefs(doc.Path)
	if err != nil {
		return err
	}

	for _, ref := range refs {
		if seen[ref] {
			continue
		}
		seen[ref] = true
		ns.Imports = append(ns.Imports, ref)

		imported, err := l.load(ctx, l.src.Resolve(ns.Path, ref))
		if err != nil {
			return fmt.Errorf("%s: import %q: %w", doc.Path, ref, err)
		}
		// The imported document's own view wins over what it imports.
		ns.External.update(imported.External)
		ns.External.update(imported.Local)
	}
	return nil
}

func checkBodyShape(doc string, e schema.Entry) error {
	loc := e.Location(doc)
	switch e.Keyword {
	case schema.KeywordConstant:
		if e.Body == nil || e.Body.Kind != yaml.ScalarNode || e.Body.ShortTag() == "!!null" || e.Body.Value == "" {
			return schema.Syntaxf(loc, "constant should be a scalar value")
		}
	default:
		if _, ok := schema.Pairs(e.Body); !ok {
			return schema.Syntaxf(loc, "definition body should be a mapping")
		}
	}
	return nil
}

// SchemaName returns the base name of p without its extension.
func SchemaName(p string) string {
	base := path.Base(strings.ReplaceAll(p, "\\", "/"))
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}
