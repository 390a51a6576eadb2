// Package order sorts objects so that every object comes after the objects
// it embeds.
package order

import (
	"sort"

	"github.com/artpar/judegen/core/resolve"
	"github.com/artpar/judegen/core/schema"
)

// Node is one vertex of the dependency graph.
type Node struct {
	// Key identifies the node; Deps refer to other keys.
	Key  string
	Name string
	Deps []string
}

// Sort returns nodes in dependency order. It works in rounds: every round
// emits, sorted by name, all nodes whose dependencies have been emitted.
// Self references and dependencies on keys that are not nodes (enums,
// bitmasks) never block a node. A graph that stops shrinking is a cycle.
func Sort(nodes []Node) ([]Node, error) {
	byKey := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		byKey[n.Key] = n
	}

	pending := make(map[string]map[string]bool, len(nodes))
	for _, n := range nodes {
		deps := make(map[string]bool)
		for _, d := range n.Deps {
			if _, isNode := byKey[d]; isNode && d != n.Key {
				deps[d] = true
			}
		}
		pending[n.Key] = deps
	}

	out := make([]Node, 0, len(nodes))
	for len(pending) > 0 {
		var ready []Node
		for key, deps := range pending {
			if len(deps) == 0 {
				ready = append(ready, byKey[key])
			}
		}
		if len(ready) == 0 {
			names := make([]string, 0, len(pending))
			for key := range pending {
				names = append(names, byKey[key].Name)
			}
			return nil, schema.NewCyclicDependencyError(names)
		}

		sort.Slice(ready, func(i, j int) bool {
			if ready[i].Name != ready[j].Name {
				return ready[i].Name < ready[j].Name
			}
			return ready[i].Key < ready[j].Key
		})
		for _, n := range ready {
			delete(pending, n.Key)
		}
		for _, deps := range pending {
			for _, n := range ready {
				delete(deps, n.Key)
			}
		}
		out = append(out, ready...)
	}
	return out, nil
}

// Objects returns objs in dependency order.
func Objects(objs []*resolve.Object) ([]*resolve.Object, error) {
	nodes := make([]Node, len(objs))
	byKey := make(map[string]*resolve.Object, len(objs))
	for i, o := range objs {
		nodes[i] = Node{Key: o.Key(), Name: o.Name, Deps: o.Dependencies()}
		byKey[o.Key()] = o
	}

	sorted, err := Sort(nodes)
	if err != nil {
		return nil, err
	}
	out := make([]*resolve.Object, len(sorted))
	for i, n := range sorted {
		out[i] = byKey[n.Key]
	}
	return out, nil
}
