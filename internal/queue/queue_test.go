package queue

import (
	"sync"
	"testing"
)

func TestPushAndDrain(t *testing.T) {
	q := New[int]()

	q.Push(1, 2)
	q.Push(3)

	if q.Len() != 3 {
		t.Fatalf("expected 3 items, got %d", q.Len())
	}

	items := q.Drain()
	if len(items) != 3 || items[0] != 1 || items[1] != 2 || items[2] != 3 {
		t.Errorf("unexpected drain result: %v", items)
	}
	if !q.Empty() {
		t.Error("queue should be empty after drain")
	}
}

func TestDrainEmpty(t *testing.T) {
	q := New[string]()
	if items := q.Drain(); len(items) != 0 {
		t.Errorf("expected no items, got %v", items)
	}
}

func TestClear(t *testing.T) {
	q := New[int]()
	q.Push(1, 2, 3)
	q.Clear()
	if !q.Empty() {
		t.Error("queue should be empty after clear")
	}
}

func TestConcurrentPush(t *testing.T) {
	q := New[int]()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				q.Push(n)
			}
		}(i)
	}
	wg.Wait()

	if q.Len() != 1000 {
		t.Errorf("expected 1000 items, got %d", q.Len())
	}
}
