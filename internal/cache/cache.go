// Package cache declares the read cache sitting in front of the bbolt stores.
package cache

type Cache interface {
	Get(key interface{}) (interface{}, bool)
	Add(key, value interface{})
	Delete(key interface{})
}
