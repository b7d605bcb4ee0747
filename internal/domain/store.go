package domain

import "sort"

// anyStore - нетипизированный доступ к хранилищу для Registry и запросов.
type anyStore interface {
	Has(id EntityID) bool
	Remove(id EntityID)
	Len() int
	IDs() []EntityID
	getAny(id EntityID) (Component, bool)
}

// Store - разреженное хранилище компонента одного типа.
// ids держится отсортированным, поэтому обход всегда идёт по возрастанию ID.
type Store[T Component] struct {
	components map[EntityID]*T
	ids        []EntityID
}

// NewStore создает пустое хранилище.
func NewStore[T Component]() *Store[T] {
	return &Store[T]{
		components: make(map[EntityID]*T),
		ids:        make([]EntityID, 0, 64),
	}
}

// Set добавляет или заменяет компонент.
func (s *Store[T]) Set(id EntityID, val T) {
	if ptr, ok := s.components[id]; ok {
		*ptr = val
		return
	}

	v := val
	s.components[id] = &v

	// ID выдаются монотонно, так что обычно это просто append
	i := sort.Search(len(s.ids), func(i int) bool { return s.ids[i] >= id })
	s.ids = append(s.ids, NilEntityID)
	copy(s.ids[i+1:], s.ids[i:])
	s.ids[i] = id
}

// Get возвращает копию компонента.
func (s *Store[T]) Get(id EntityID) (T, bool) {
	if ptr, ok := s.components[id]; ok {
		return *ptr, true
	}
	var zero T
	return zero, false
}

// Ref возвращает указатель на компонент для изменения на месте (nil, если нет).
func (s *Store[T]) Ref(id EntityID) *T {
	return s.components[id]
}

// Has проверяет наличие компонента.
func (s *Store[T]) Has(id EntityID) bool {
	_, ok := s.components[id]
	return ok
}

// Remove удаляет компонент, сохраняя порядок ids.
func (s *Store[T]) Remove(id EntityID) {
	if _, ok := s.components[id]; !ok {
		return
	}
	delete(s.components, id)

	i := sort.Search(len(s.ids), func(i int) bool { return s.ids[i] >= id })
	if i < len(s.ids) && s.ids[i] == id {
		s.ids = append(s.ids[:i], s.ids[i+1:]...)
	}
}

// Len - количество сущностей с этим компонентом.
func (s *Store[T]) Len() int {
	return len(s.ids)
}

// IDs возвращает копию отсортированного списка сущностей.
func (s *Store[T]) IDs() []EntityID {
	out := make([]EntityID, len(s.ids))
	copy(out, s.ids)
	return out
}

func (s *Store[T]) getAny(id EntityID) (Component, bool) {
	if ptr, ok := s.components[id]; ok {
		return *ptr, true
	}
	return nil, false
}
