package devserver

import (
	"sort"
)

// table is an auto-increment id keyed collection. Callers hold the store lock.
type table[T any] struct {
	lastID int
	rows   map[int]T
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: map[int]T{}}
}

func (t *table[T]) insert(build func(id int) T) T {
	t.lastID++
	row := build(t.lastID)
	t.rows[t.lastID] = row
	return row
}

func (t *table[T]) get(id int) (T, bool) {
	row, ok := t.rows[id]
	return row, ok
}

func (t *table[T]) put(id int, row T) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	t.rows[id] = row
	return true
}

func (t *table[T]) delete(id int) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	return true
}

// ids returns the ids of the rows matching keep, ascending.
func (t *table[T]) ids(keep func(T) bool) []int {
	ids := make([]int, 0, len(t.rows))
	for id, row := range t.rows {
		if keep == nil || keep(row) {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

func (t *table[T]) list(keep func(T) bool) []T {
	ids := t.ids(keep)
	rows := make([]T, len(ids))
	for i, id := range ids {
		rows[i] = t.rows[id]
	}
	return rows
}
