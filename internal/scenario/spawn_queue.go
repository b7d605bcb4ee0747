package scenario

import "container/heap"

// spawnItem - один запланированный юнит волны.
type spawnItem struct {
	Tick  uint64 // Тик, к которому юнит должен появиться
	Seq   int    // Порядок постановки в очередь. При равном Tick раньше тот, кто раньше встал
	Wave  int    // Индекс волны в Scenario.Waves
	Index int    // Индекс в куче
}

// spawnQueue реализует heap.Interface и хранит spawnItems.
type spawnQueue []*spawnItem

func (pq spawnQueue) Len() int { return len(pq) }

func (pq spawnQueue) Less(i, j int) bool {
	// MinHeap по (Tick, Seq)
	if pq[i].Tick != pq[j].Tick {
		return pq[i].Tick < pq[j].Tick
	}
	return pq[i].Seq < pq[j].Seq
}

func (pq spawnQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].Index = i
	pq[j].Index = j
}

func (pq *spawnQueue) Push(x any) {
	n := len(*pq)
	item := x.(*spawnItem)
	item.Index = n
	*pq = append(*pq, item)
}

func (pq *spawnQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // избегаем утечки памяти
	item.Index = -1 // для безопасности
	*pq = old[0 : n-1]
	return item
}

// Peek возвращает ближайший элемент без извлечения.
func (pq spawnQueue) Peek() *spawnItem {
	if len(pq) == 0 {
		return nil
	}
	return pq[0]
}

// popDue извлекает все элементы с Tick <= tick в порядке (Tick, Seq).
func (pq *spawnQueue) popDue(tick uint64) []*spawnItem {
	var due []*spawnItem
	for {
		next := pq.Peek()
		if next == nil || next.Tick > tick {
			return due
		}
		due = append(due, heap.Pop(pq).(*spawnItem))
	}
}
