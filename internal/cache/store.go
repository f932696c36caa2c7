package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

type store[K comparable, V any] interface {
	get(key K) (entry[V], bool)
	put(key K, e entry[V])
	remove(key K)
	purge()
	len() int
}

type mapStore[K comparable, V any] struct {
	m map[K]entry[V]
}

func newMapStore[K comparable, V any]() *mapStore[K, V] {
	return &mapStore[K, V]{m: make(map[K]entry[V])}
}

func (s *mapStore[K, V]) get(key K) (entry[V], bool) {
	e, ok := s.m[key]
	return e, ok
}

func (s *mapStore[K, V]) put(key K, e entry[V]) { s.m[key] = e }
func (s *mapStore[K, V]) remove(key K)          { delete(s.m, key) }
func (s *mapStore[K, V]) purge()                { clear(s.m) }
func (s *mapStore[K, V]) len() int              { return len(s.m) }

// lruStore relies on TimedCache's mutex; the lru package locks internally as well.
type lruStore[K comparable, V any] struct {
	lru *lru.Cache[K, entry[V]]
}

func newLRUStore[K comparable, V any](size int) (*lruStore[K, V], error) {
	c, err := lru.New[K, entry[V]](size)
	if err != nil {
		return nil, err
	}
	return &lruStore[K, V]{lru: c}, nil
}

func (s *lruStore[K, V]) get(key K) (entry[V], bool) { return s.lru.Get(key) }
func (s *lruStore[K, V]) put(key K, e entry[V])      { s.lru.Add(key, e) }
func (s *lruStore[K, V]) remove(key K)               { s.lru.Remove(key) }
func (s *lruStore[K, V]) purge()                     { s.lru.Purge() }
func (s *lruStore[K, V]) len() int                   { return s.lru.Len() }
