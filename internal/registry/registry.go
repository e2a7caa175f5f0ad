package registry

import "github.com/alphadose/haxmap"

// Registry is a concurrency safe, string keyed collection. The engine
// keeps its dispatch roots in one, the resource manager its loaders.
type Registry[T any] interface {
	Get(name string) (T, bool)
	Add(name string, value T)
	Del(name string)
	ForEach(fn func(name string, value T) bool)
	Len() int
}

func New[T any]() Registry[T] {
	return &registry[T]{
		values: haxmap.New[string, T](),
	}
}

type registry[T any] struct {
	values *haxmap.Map[string, T]
}

func (r *registry[T]) Get(name string) (T, bool) {
	return r.values.Get(name)
}

func (r *registry[T]) Add(name string, value T) {
	r.values.Set(name, value)
}

func (r *registry[T]) Del(name string) {
	r.values.Del(name)
}

func (r *registry[T]) ForEach(fn func(name string, value T) bool) {
	r.values.ForEach(fn)
}

func (r *registry[T]) Len() int {
	return int(r.values.Len())
}
