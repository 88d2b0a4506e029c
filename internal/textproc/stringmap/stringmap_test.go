package stringmap

import (
	"fmt"
	"testing"
)

func TestSetGet(t *testing.T) {
	m := New[int]()
	m.Set([]byte("роман"), 1)
	m.Set([]byte("поэзия"), 2)

	if v, ok := m.Get([]byte("роман")); !ok || v != 1 {
		t.Fatalf("got (%v, %v), want (1, true)", v, ok)
	}
	if v, ok := m.Get([]byte("поэзия")); !ok || v != 2 {
		t.Fatalf("got (%v, %v), want (2, true)", v, ok)
	}
	if _, ok := m.Get([]byte("missing")); ok {
		t.Fatalf("expected miss for absent key")
	}
}

func TestSetOverwrites(t *testing.T) {
	m := New[int]()
	m.Set([]byte("a"), 1)
	m.Set([]byte("a"), 2)
	if v, _ := m.Get([]byte("a")); v != 2 {
		t.Fatalf("got %d, want 2", v)
	}
	if m.Len() != 1 {
		t.Fatalf("got len %d, want 1", m.Len())
	}
}

func TestGetOrCreate(t *testing.T) {
	m := New[int]()
	p := m.GetOrCreate([]byte("x"))
	*p = 41
	*m.GetOrCreate([]byte("x"))++
	if v, _ := m.Get([]byte("x")); v != 42 {
		t.Fatalf("got %d, want 42", v)
	}
}

func TestGrowthPreservesEntries(t *testing.T) {
	m := NewWithCapacity[int](8)
	want := map[string]int{}
	for i := 0; i < 5000; i++ {
		key := fmt.Sprintf("term-%d", i)
		m.Set([]byte(key), i)
		want[key] = i
	}
	if m.Len() != len(want) {
		t.Fatalf("got len %d, want %d", m.Len(), len(want))
	}
	for key, val := range want {
		got, ok := m.Get([]byte(key))
		if !ok || got != val {
			t.Fatalf("key %s: got (%v, %v), want (%v, true)", key, got, ok, val)
		}
	}
}

func TestForEachVisitsAllLiveEntries(t *testing.T) {
	m := New[int]()
	m.Set([]byte("a"), 1)
	m.Set([]byte("b"), 2)
	m.Set([]byte("c"), 3)

	seen := map[string]int{}
	m.ForEach(func(key []byte, value int) {
		seen[string(key)] = value
	})
	if len(seen) != 3 || seen["a"] != 1 || seen["b"] != 2 || seen["c"] != 3 {
		t.Fatalf("got %v", seen)
	}
}

func TestHash2NeverZero(t *testing.T) {
	for cap := uint64(2); cap < 200; cap++ {
		for i := 0; i < 500; i++ {
			key := []byte(fmt.Sprintf("probe-key-%d", i))
			if hash2(key, cap) == 0 {
				t.Fatalf("hash2 returned 0 for cap=%d key=%s", cap, key)
			}
		}
	}
}
