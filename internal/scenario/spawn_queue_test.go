package scenario

import (
	"container/heap"
	"testing"
)

func TestSpawnQueue(t *testing.T) {
	pq := make(spawnQueue, 0)
	heap.Init(&pq)

	heap.Push(&pq, &spawnItem{Tick: 10, Seq: 0, Wave: 0})
	heap.Push(&pq, &spawnItem{Tick: 5, Seq: 1, Wave: 1})
	heap.Push(&pq, &spawnItem{Tick: 5, Seq: 2, Wave: 2})
	heap.Push(&pq, &spawnItem{Tick: 20, Seq: 3, Wave: 3})

	if pq.Len() != 4 {
		t.Errorf("Expected length 4, got %d", pq.Len())
	}

	// Ничего не должно выйти раньше 5-го тика
	if due := pq.popDue(4); len(due) != 0 {
		t.Fatalf("Expected nothing due at tick 4, got %d", len(due))
	}

	// При равном тике первым идет тот, кто раньше встал в очередь
	due := pq.popDue(10)
	if len(due) != 3 {
		t.Fatalf("Expected 3 due at tick 10, got %d", len(due))
	}
	for i, want := range []int{1, 2, 0} {
		if due[i].Wave != want {
			t.Errorf("Pop %d: expected wave %d, got %d", i, want, due[i].Wave)
		}
		if due[i].Index != -1 {
			t.Errorf("Pop %d: index not reset", i)
		}
	}

	last := pq.Peek()
	if last == nil || last.Tick != 20 {
		t.Fatalf("Expected tick 20 on top, got %+v", last)
	}
}
