package cmap

import (
	"fmt"
	"sync"
	"testing"
)

func TestNewWithShards(t *testing.T) {
	tests := []struct {
		input    int
		expected int
	}{
		{0, DefaultShardCount},  // invalid → default
		{-1, DefaultShardCount}, // invalid → default
		{3, DefaultShardCount},  // not power of 2 → default
		{1, 1},
		{2, 2},
		{8, 8},
		{64, 64},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("shards=%d", tt.input), func(t *testing.T) {
			m := NewWithShards[string, int](tt.input)
			if len(m.shards) != tt.expected {
				t.Errorf("NewWithShards(%d) shard count = %d, want %d",
					tt.input, len(m.shards), tt.expected)
			}
		})
	}
}

func TestSetGetDelete(t *testing.T) {
	m := New[string, int]()

	m.Set("key1", 100)
	m.Set("key2", 200)
	m.Set("key1", 101)

	if v, ok := m.Get("key1"); !ok || v != 101 {
		t.Errorf("Get(key1) = (%d, %v), want (101, true)", v, ok)
	}
	if _, ok := m.Get("key2"); !ok {
		t.Error("Get(key2) missed, want hit")
	}
	if m.Count() != 2 {
		t.Errorf("Count() = %d, want 2", m.Count())
	}

	m.Delete("key1")
	m.Delete("never-set")

	if _, ok := m.Get("key1"); ok {
		t.Error("Get(key1) after Delete should miss")
	}
	if m.Count() != 1 {
		t.Errorf("Count() = %d, want 1", m.Count())
	}
}

type connID string

func TestNamedStringKey(t *testing.T) {
	m := New[connID, bool]()
	m.Set(connID("01J"), true)

	if v, ok := m.Get("01J"); !ok || !v {
		t.Errorf("Get(01J) = (%v, %v), want (true, true)", v, ok)
	}
}

func TestKeySpread(t *testing.T) {
	m := NewWithShards[string, int](8)
	for i := 0; i < 1000; i++ {
		m.Set(fmt.Sprintf("conn-%d", i), i)
	}

	for i, s := range m.shards {
		if len(s.items) == 0 {
			t.Errorf("shard %d is empty after 1000 keys", i)
		}
	}
}

func TestRange(t *testing.T) {
	m := New[string, int]()
	for i := 0; i < 10; i++ {
		m.Set(fmt.Sprintf("k%d", i), i)
	}

	sum := 0
	m.Range(func(_ string, v int) bool {
		sum += v
		return true
	})
	if sum != 45 {
		t.Errorf("sum over Range = %d, want 45", sum)
	}

	visited := 0
	m.Range(func(string, int) bool {
		visited++
		return visited < 3
	})
	if visited != 3 {
		t.Errorf("Range visited %d after stop, want 3", visited)
	}
}

func TestConcurrentAccess(t *testing.T) {
	m := New[string, int]()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := fmt.Sprintf("g%d-%d", g, i)
				m.Set(key, i)
				m.Get(key)
				if i%2 == 0 {
					m.Delete(key)
				}
			}
		}(g)
	}
	wg.Wait()

	if m.Count() != 8*250 {
		t.Errorf("Count() = %d, want %d", m.Count(), 8*250)
	}
}
