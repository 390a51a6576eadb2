package order_test

import (
	"context"
	"errors"
	"testing"

	"github.com/artpar/judegen/adapters/source"
	"github.com/artpar/judegen/core/loader"
	"github.com/artpar/judegen/core/order"
	"github.com/artpar/judegen/core/resolve"
	"github.com/artpar/judegen/core/schema"
	"github.com/rs/zerolog"
)

func resolved(t *testing.T, src string) []*resolve.Object {
	t.Helper()
	prog, err := loader.New(source.NewMemory(map[string]string{"root.yaml": src}), zerolog.Nop()).
		Load(context.Background(), "root.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	m, err := resolve.Resolve(prog, resolve.Options{Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	return m.Objects
}

func TestObjects_Topological(t *testing.T) {
	objs := resolved(t, `
Enum Status: {on: 1}
Object Person:
  home: Address
  status: Status
Object Address:
  city: City
Object City:
  name: string:16
`)

	sorted, err := order.Objects(objs)
	if err != nil {
		t.Fatalf("Objects failed: %v", err)
	}
	pos := make(map[string]int)
	for i, o := range sorted {
		pos[o.Name] = i
	}
	if !(pos["City"] < pos["Address"] && pos["Address"] < pos["Person"]) {
		t.Errorf("order = %v", pos)
	}
}

func TestObjects_Cycle(t *testing.T) {
	objs := resolved(t, `
Object A:
  b: B
Object B:
  a: A
`)

	_, err := order.Objects(objs)
	var cyc *schema.CyclicDependencyError
	if !errors.As(err, &cyc) {
		t.Fatalf("expected CyclicDependencyError, got %v", err)
	}
	if len(cyc.Names) != 2 || cyc.Names[0] != "A" || cyc.Names[1] != "B" {
		t.Errorf("Names = %v, want [A B]", cyc.Names)
	}
}
