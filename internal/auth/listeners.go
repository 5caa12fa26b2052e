package auth

import "sync"

type listenersOf[T any] struct {
	mutex  sync.Mutex
	nextID int
	fns    map[int]func(T)
}

type listeners = listenersOf[*Session]

func (l *listenersOf[T]) add(fn func(T)) func() {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if l.fns == nil {
		l.fns = make(map[int]func(T))
	}
	id := l.nextID
	l.nextID++
	l.fns[id] = fn

	return func() {
		l.mutex.Lock()
		defer l.mutex.Unlock()
		delete(l.fns, id)
	}
}

func (l *listenersOf[T]) notify(v T) {
	l.mutex.Lock()
	fns := make([]func(T), 0, len(l.fns))
	for _, fn := range l.fns {
		fns = append(fns, fn)
	}
	l.mutex.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}
