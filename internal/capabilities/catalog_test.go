package capabilities

import (
	"encoding/json"
	"testing"

	"github.com/haxaco/payos-sub010/internal/cache"
)

func TestFilterByCategory(t *testing.T) {
	r := New(cache.New())
	ops := r.Filter("ap2", "")
	if len(ops) == 0 {
		t.Fatal("expected at least one ap2 operation")
	}
	for _, op := range ops {
		if op.Category != "ap2" {
			t.Errorf("expected only ap2 operations, got %s", op.Category)
		}
	}
}

func TestFilterByName(t *testing.T) {
	r := New(cache.New())
	ops := r.Filter("", "execute_simulation")
	if len(ops) != 1 {
		t.Fatalf("expected exactly one match, got %d", len(ops))
	}
	if !ops[0].SupportsIdempotency {
		t.Error("expected execute_simulation to support idempotency")
	}
}

func TestToolSchemasCarryNameAndParameters(t *testing.T) {
	r := New(cache.New())
	schemas := r.ToolSchemas()
	if len(schemas) != len(r.catalog.Operations) {
		t.Fatalf("expected one schema per operation, got %d vs %d", len(schemas), len(r.catalog.Operations))
	}
	for _, s := range schemas {
		if s.Name == "" || s.Parameters == nil {
			t.Errorf("expected every tool schema to carry a name and parameters, got %+v", s)
		}
	}
}

func TestGetCachesRenderedBody(t *testing.T) {
	r := New(cache.New())
	render := func(c Catalog) []byte {
		b, _ := json.Marshal(c)
		return b
	}

	body1, hit1 := r.Get("tenant1", render)
	if hit1 {
		t.Fatal("expected a cache miss on first call")
	}
	body2, hit2 := r.Get("tenant1", render)
	if !hit2 {
		t.Fatal("expected a cache hit on second call")
	}
	if string(body1) != string(body2) {
		t.Error("expected the cached body to match the originally rendered body")
	}
}
