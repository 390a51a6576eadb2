package order

import (
	"errors"
	"testing"

	"github.com/artpar/judegen/core/schema"
)

func keys(nodes []Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Key
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSort(t *testing.T) {
	tests := []struct {
		name  string
		nodes []Node
		want  []string
	}{
		{
			name: "empty",
			want: []string{},
		},
		{
			name: "independent nodes sorted by name",
			nodes: []Node{
				{Key: "c", Name: "c"},
				{Key: "a", Name: "a"},
				{Key: "b", Name: "b"},
			},
			want: []string{"a", "b", "c"},
		},
		{
			name: "dependencies first",
			nodes: []Node{
				{Key: "Person", Name: "Person", Deps: []string{"Address"}},
				{Key: "Address", Name: "Address"},
			},
			want: []string{"Address", "Person"},
		},
		{
			name: "rounds sort within a round",
			nodes: []Node{
				{Key: "Z", Name: "Z"},
				{Key: "B", Name: "B", Deps: []string{"Z"}},
				{Key: "A", Name: "A", Deps: []string{"Z"}},
				{Key: "Y", Name: "Y"},
				{Key: "Top", Name: "Top", Deps: []string{"A", "B"}},
			},
			want: []string{"Y", "Z", "A", "B", "Top"},
		},
		{
			name: "self reference ignored",
			nodes: []Node{
				{Key: "Tree", Name: "Tree", Deps: []string{"Tree"}},
			},
			want: []string{"Tree"},
		},
		{
			name: "enum dependencies are leaves",
			nodes: []Node{
				{Key: "A", Name: "A", Deps: []string{"root.Status", "root.Flags"}},
			},
			want: []string{"A"},
		},
		{
			name: "same name from two documents",
			nodes: []Node{
				{Key: "b.Item", Name: "Item"},
				{Key: "a.Item", Name: "Item"},
			},
			want: []string{"a.Item", "b.Item"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sort(tt.nodes)
			if err != nil {
				t.Fatalf("Sort failed: %v", err)
			}
			if !equal(keys(got), tt.want) {
				t.Errorf("Sort = %v, want %v", keys(got), tt.want)
			}
		})
	}
}

func TestSort_Cycle(t *testing.T) {
	_, err := Sort([]Node{
		{Key: "root.B", Name: "B", Deps: []string{"root.A"}},
		{Key: "root.A", Name: "A", Deps: []string{"root.B"}},
		{Key: "root.C", Name: "C"},
		{Key: "root.D", Name: "D", Deps: []string{"root.A"}},
	})

	var cyc *schema.CyclicDependencyError
	if !errors.As(err, &cyc) {
		t.Fatalf("expected CyclicDependencyError, got %v", err)
	}
	// D is stuck behind the cycle and stays in the residual graph.
	if !equal(cyc.Names, []string{"A", "B", "D"}) {
		t.Errorf("Names = %v", cyc.Names)
	}
}

func TestSort_Deterministic(t *testing.T) {
	nodes := []Node{
		{Key: "e", Name: "e", Deps: []string{"a"}},
		{Key: "d", Name: "d", Deps: []string{"a", "b"}},
		{Key: "c", Name: "c"},
		{Key: "b", Name: "b"},
		{Key: "a", Name: "a"},
	}
	first, _ := Sort(nodes)
	for i := 0; i < 20; i++ {
		again, _ := Sort(nodes)
		if !equal(keys(first), keys(again)) {
			t.Fatalf("run %d = %v, want %v", i, keys(again), keys(first))
		}
	}
}
