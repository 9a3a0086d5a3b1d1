package engine

import (
	"container/heap"
)

// TurnItem обертка для элемента очереди приоритетов
type TurnItem struct {
	Value  Actor  // Сам актор (ссылка, временем жизни не владеем)
	Energy int    // Накопленная энергия. Чем больше, тем раньше ход.
	Seq    uint64 // Порядок регистрации, разрешает ничьи
	Index  int    // Индекс в куче (нужен для update)
}

// TurnQueue реализует heap.Interface и хранит TurnItems
type TurnQueue []*TurnItem

func (pq TurnQueue) Len() int { return len(pq) }

func (pq TurnQueue) Less(i, j int) bool {
	// MaxHeap по энергии; при равенстве раньше ходит тот, кто раньше зарегистрирован
	if pq[i].Energy != pq[j].Energy {
		return pq[i].Energy > pq[j].Energy
	}
	return pq[i].Seq < pq[j].Seq
}

func (pq TurnQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].Index = i
	pq[j].Index = j
}

func (pq *TurnQueue) Push(x interface{}) {
	n := len(*pq)
	item := x.(*TurnItem)
	item.Index = n
	*pq = append(*pq, item)
}

func (pq *TurnQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // избегаем утечки памяти
	item.Index = -1 // для безопасности
	*pq = old[0 : n-1]
	return item
}

// Update изменяет энергию элемента и восстанавливает кучу
func (pq *TurnQueue) Update(item *TurnItem, energy int) {
	item.Energy = energy
	heap.Fix(pq, item.Index)
}
