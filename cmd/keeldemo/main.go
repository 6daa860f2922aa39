// Command keeldemo wires a small order pipeline with every lifecycle and prints
// which instances are shared. Logging is configured from the environment, see
// keel.OptionsFromEnv.
package main

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/xraph/keel"
)

type Clock interface {
	Now() int64
}

type tickClock struct {
	ticks atomic.Int64
}

func NewTickClock() *tickClock {
	return &tickClock{}
}

func (c *tickClock) Now() int64 {
	return c.ticks.Add(1)
}

type Store interface {
	Save(order string) int64
}

type memoryStore struct {
	clock  Clock
	orders map[int64]string
}

func NewMemoryStore(clock Clock) *memoryStore {
	return &memoryStore{clock: clock, orders: make(map[int64]string)}
}

func (s *memoryStore) Save(order string) int64 {
	id := s.clock.Now()
	s.orders[id] = order

	return id
}

type Handler struct {
	store Store
	id    int
}

var handlers atomic.Int64

func NewHandler(store Store) *Handler {
	return &Handler{store: store, id: int(handlers.Add(1))}
}

func main() {
	opts, err := keel.OptionsFromEnv()
	if err != nil {
		log.Fatal(err)
	}

	b := keel.NewBuilder(opts...)

	err = b.Apply(
		keel.Bind[Clock](NewTickClock, keel.Singleton),
		keel.Bind[Store](NewMemoryStore, keel.LazySingleton),
		keel.Bind[*Handler](NewHandler, keel.Transient),
	)
	if err != nil {
		log.Fatal(err)
	}

	c, err := b.Build()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	if err := c.Start(ctx); err != nil {
		log.Fatal(err)
	}

	defer func() {
		if err := c.Stop(ctx); err != nil {
			log.Print(err)
		}
	}()

	for _, order := range []string{"coffee", "tea"} {
		h := keel.MustLocate[*Handler](c)
		fmt.Printf("handler %d saved %s as #%d\n", h.id, order, h.store.Save(order))
	}

	fmt.Printf("store shared: %v\n", keel.MustLocate[Store](c) == keel.MustLocate[*Handler](c).store)
}
