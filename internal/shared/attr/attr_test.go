package attr

import "testing"

func TestValueKinds(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		kind Kind
		emit string
	}{
		{"string", StringValue("checkout"), KindString, "checkout"},
		{"int", IntValue(42), KindInt, "42"},
		{"float", FloatValue(19.99), KindFloat, "19.99"},
		{"zero", Value{}, KindString, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.v.Kind() != tt.kind {
				t.Errorf("Kind() = %v, want %v", tt.v.Kind(), tt.kind)
			}
			if tt.v.Emit() != tt.emit {
				t.Errorf("Emit() = %q, want %q", tt.v.Emit(), tt.emit)
			}
		})
	}
}

func TestAccessors(t *testing.T) {
	s := StringValue("laptop")
	if s.AsString() != "laptop" {
		t.Errorf("AsString() = %q, want %q", s.AsString(), "laptop")
	}

	i := IntValue(3)
	if i.AsInt() != 3 {
		t.Errorf("AsInt() = %d, want 3", i.AsInt())
	}

	f := FloatValue(1.5)
	if f.AsFloat() != 1.5 {
		t.Errorf("AsFloat() = %f, want 1.5", f.AsFloat())
	}

	// Accessing the wrong kind returns the zero value
	if i.AsString() != "" {
		t.Error("AsString() on int value should return empty string")
	}
	if s.AsInt() != 0 {
		t.Error("AsInt() on string value should return 0")
	}
}

func TestAny(t *testing.T) {
	if v, ok := IntValue(7).Any().(int64); !ok || v != 7 {
		t.Errorf("Any() on int = %v, want int64(7)", IntValue(7).Any())
	}
	if v, ok := FloatValue(2.5).Any().(float64); !ok || v != 2.5 {
		t.Errorf("Any() on float = %v, want float64(2.5)", FloatValue(2.5).Any())
	}
	if v, ok := StringValue("x").Any().(string); !ok || v != "x" {
		t.Errorf("Any() on string = %v, want \"x\"", StringValue("x").Any())
	}
}

func TestKeyValueEmit(t *testing.T) {
	kv := Int("cart.size", 2)
	if kv.Emit() != "cart.size=2" {
		t.Errorf("Emit() = %q, want %q", kv.Emit(), "cart.size=2")
	}
}

func TestMap(t *testing.T) {
	m := Map([]KeyValue{
		String("user.id", "u1"),
		Int("quantity", 4),
		Int("quantity", 5), // duplicate key, last wins
	})

	if len(m) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(m))
	}
	if m["quantity"] != int64(5) {
		t.Errorf("quantity = %v, want 5", m["quantity"])
	}

	if Map(nil) != nil {
		t.Error("Map(nil) should return nil")
	}
}

func TestMerge(t *testing.T) {
	kvs := Merge(nil, String("a", "1"), String("b", "2"))
	kvs = Merge(kvs, String("a", "3"), String("c", "4"))

	if len(kvs) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(kvs))
	}

	// First-insertion order preserved, value updated in place
	if kvs[0].Key != "a" || kvs[0].Value.AsString() != "3" {
		t.Errorf("kvs[0] = %s, want a=3", kvs[0].Emit())
	}
	if kvs[1].Key != "b" {
		t.Errorf("kvs[1].Key = %q, want b", kvs[1].Key)
	}
	if kvs[2].Key != "c" {
		t.Errorf("kvs[2].Key = %q, want c", kvs[2].Key)
	}
}
