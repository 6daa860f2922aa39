package keel

import (
	"context"
	"errors"
	"reflect"
	"sync/atomic"
)

var seq atomic.Int64

// node gives every fixture a distinct, non-zero-sized identity.
type node struct {
	id int64
}

func newNode() node {
	return node{id: seq.Add(1)}
}

func (n node) ID() int64 {
	return n.id
}

type Alpha interface{ ID() int64 }

type Beta interface {
	ID() int64
	Alpha() Alpha
}

type Gamma interface {
	ID() int64
	Alpha() Alpha
	Beta() Beta
}

type Omega interface{ ID() int64 }

type alphaImpl struct{ node }

func NewAlpha() *alphaImpl {
	return &alphaImpl{node: newNode()}
}

type betaImpl struct {
	node
	alpha Alpha
}

func NewBeta(alpha Alpha) *betaImpl {
	return &betaImpl{node: newNode(), alpha: alpha}
}

func (b *betaImpl) Alpha() Alpha { return b.alpha }

type gammaImpl struct {
	node
	alpha Alpha
	beta  Beta
}

func NewGamma(alpha Alpha, beta Beta) *gammaImpl {
	return &gammaImpl{node: newNode(), alpha: alpha, beta: beta}
}

func (g *gammaImpl) Alpha() Alpha { return g.alpha }
func (g *gammaImpl) Beta() Beta   { return g.beta }

type omegaImpl struct{ node }

func NewOmega() *omegaImpl {
	return &omegaImpl{node: newNode()}
}

// betaOnOmega is a Beta whose dependency sorts after it.
type betaOnOmega struct {
	node
	omega Omega
}

func NewBetaOnOmega(omega Omega) *betaOnOmega {
	return &betaOnOmega{node: newNode(), omega: omega}
}

func (b *betaOnOmega) Alpha() Alpha { return b.omega }

// Cycle fixtures.

type Selfish interface{ ID() int64 }

type selfishImpl struct {
	node
	self Selfish
}

func NewSelfish(self Selfish) *selfishImpl {
	return &selfishImpl{node: newNode(), self: self}
}

type CycleA interface{ ID() int64 }
type CycleB interface{ ID() int64 }

func NewCycleA(b CycleB) *alphaImpl { return NewAlpha() }
func NewCycleB(a CycleA) *alphaImpl { return NewAlpha() }

type Ring1 interface{ ID() int64 }
type Ring2 interface{ ID() int64 }
type Ring3 interface{ ID() int64 }

func NewRing1(r Ring2) *alphaImpl { return NewAlpha() }
func NewRing2(r Ring3) *alphaImpl { return NewAlpha() }
func NewRing3(r Ring1) *alphaImpl { return NewAlpha() }

// Default parameter fixtures.

type Prefix struct {
	value string
}

type Greeter struct {
	node
	alpha  Alpha
	prefix string
}

type GreeterParams struct {
	In

	Alpha  Alpha
	Prefix *Prefix `optional:"true"`
}

func NewGreeter(p GreeterParams) *Greeter {
	prefix := "hello"
	if p.Prefix != nil {
		prefix = p.Prefix.value
	}

	return &Greeter{node: newNode(), alpha: p.Alpha, prefix: prefix}
}

type Tagged struct {
	node
	alpha Alpha
	tags  []string
}

func NewTagged(alpha Alpha, tags ...string) *Tagged {
	if len(tags) == 0 {
		tags = []string{"default"}
	}

	return &Tagged{node: newNode(), alpha: alpha, tags: tags}
}

type hiddenParams struct {
	In

	alpha Alpha
}

type Hidden struct{ node }

func NewHidden(p hiddenParams) *Hidden {
	return &Hidden{node: newNode()}
}

// Lifecycle hook fixtures.

type mockService struct {
	node
	name      string
	started   bool
	stopped   bool
	healthy   bool
	startErr  error
	stopErr   error
	healthErr error
	onStart   func()
	onStop    func()
}

func (m *mockService) Name() string {
	return m.name
}

func (m *mockService) Start(ctx context.Context) error {
	if m.onStart != nil {
		m.onStart()
	}

	if m.startErr != nil {
		return m.startErr
	}

	m.started = true

	return nil
}

func (m *mockService) Stop(ctx context.Context) error {
	if m.onStop != nil {
		m.onStop()
	}

	if m.stopErr != nil {
		return m.stopErr
	}

	m.stopped = true

	return nil
}

func (m *mockService) Health(ctx context.Context) error {
	if m.healthErr != nil {
		return m.healthErr
	}

	if !m.healthy {
		return errors.New("unhealthy")
	}

	return nil
}

func reflectValue(v any) reflect.Value {
	return reflect.ValueOf(v)
}

func reflectType(v any) reflect.Type {
	return reflect.TypeOf(v)
}
