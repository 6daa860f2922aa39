package keel

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewBuilder(t *testing.T) {
	b := NewBuilder()

	c, err := b.Build()
	require.NoError(t, err)
	assert.Empty(t, c.Services())
}

func TestRegister_NilService(t *testing.T) {
	b := NewBuilder()

	assert.ErrorIs(t, b.Register(nil, NewAlpha, Transient), ErrInvalidService)
	assert.ErrorIs(t, b.RegisterInstance(nil, NewAlpha(), Singleton), ErrInvalidService)
}

func TestRegister_UnknownLifecycle(t *testing.T) {
	b := NewBuilder()

	err := b.Register(TypeOf[Alpha](), NewAlpha, Lifecycle(7))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown lifecycle")
}

func TestRegisterInstance_TransientNotAllowed(t *testing.T) {
	b := NewBuilder()

	err := b.RegisterInstance(TypeOf[Alpha](), NewAlpha(), Transient)
	assert.ErrorIs(t, err, ErrInstanceNotAllowedSentinel)

	c, err := b.Build()
	require.NoError(t, err)
	assert.False(t, Has[Alpha](c))
}

func TestRegisterInstance_TypeMismatch(t *testing.T) {
	b := NewBuilder()

	assert.ErrorIs(t, b.RegisterInstance(TypeOf[Beta](), NewAlpha(), Singleton), ErrTypeMismatchSentinel)
	assert.ErrorIs(t, b.RegisterInstance(TypeOf[Alpha](), nil, LazySingleton), ErrTypeMismatchSentinel)
}

func TestRegisterInstance_ReturnedAsIs(t *testing.T) {
	alpha := NewAlpha()

	for _, lc := range []Lifecycle{LazySingleton, Singleton} {
		t.Run(lc.String(), func(t *testing.T) {
			b := NewBuilder()
			require.NoError(t, b.RegisterInstance(TypeOf[Alpha](), alpha, lc))
			require.NoError(t, RegisterTransient[Beta](b, NewBeta))

			c, err := b.Build()
			require.NoError(t, err)

			assert.Same(t, alpha, MustLocate[Alpha](c))
			assert.Same(t, alpha, MustLocate[Beta](c).Alpha())

			info := Inspect[Alpha](c)
			assert.True(t, info.Instance)
			assert.True(t, info.Instantiated)
			assert.Equal(t, reflect.TypeOf(alpha), info.Implementation)
		})
	}
}

func TestRegister_LastWriteWins(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	b := NewBuilder(WithLogger(zap.New(core)))
	require.NoError(t, RegisterSingleton[Alpha](b, NewAlpha))
	require.NoError(t, RegisterTransient[Alpha](b, NewAlpha))

	c, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, Transient, Inspect[Alpha](c).Lifecycle)
	assert.NotSame(t, MustLocate[Alpha](c), MustLocate[Alpha](c))

	require.Equal(t, 1, logs.FilterMessage("binding overwritten").Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "keel.Alpha", fields["service"])
	assert.Equal(t, "singleton", fields["previous"])
	assert.Equal(t, "transient", fields["lifecycle"])
}

func TestRegister_OverwriteRepairsGraph(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, RegisterSingleton[CycleA](b, NewCycleA))
	require.NoError(t, RegisterSingleton[CycleB](b, NewCycleB))

	_, err := b.Build()
	require.ErrorIs(t, err, ErrCircularDependencySentinel)

	require.NoError(t, RegisterSingleton[CycleB](b, NewAlpha))

	c, err := b.Build()
	require.NoError(t, err)
	assert.True(t, Has[CycleA](c))
}

func TestBuild_RevalidatesCurrentBindings(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, RegisterTransient[Beta](b, NewBeta))

	_, err := b.Build()
	require.ErrorIs(t, err, ErrDependencyNotRegisteredSentinel)

	_, err = b.Build()
	require.ErrorIs(t, err, ErrDependencyNotRegisteredSentinel)

	require.NoError(t, RegisterLazySingleton[Alpha](b, NewAlpha))

	c, err := b.Build()
	require.NoError(t, err)
	assert.NotNil(t, MustLocate[Beta](c))
}

func TestBuild_NothingConstructedOnValidationFailure(t *testing.T) {
	constructed := false

	b := NewBuilder()
	require.NoError(t, RegisterSingleton[Alpha](b, func() *alphaImpl {
		constructed = true

		return NewAlpha()
	}))
	require.NoError(t, RegisterSingleton[Selfish](b, NewSelfish))

	_, err := b.Build()
	require.ErrorIs(t, err, ErrCircularDependencySentinel)
	assert.False(t, constructed)
}

func TestBuild_ContainersAreIndependent(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, RegisterSingleton[Alpha](b, NewAlpha))
	require.NoError(t, RegisterLazySingleton[Omega](b, NewOmega))

	c1, err := b.Build()
	require.NoError(t, err)

	require.NoError(t, RegisterTransient[Beta](b, NewBeta))

	c2, err := b.Build()
	require.NoError(t, err)

	assert.NotSame(t, MustLocate[Alpha](c1), MustLocate[Alpha](c2))
	assert.NotSame(t, MustLocate[Omega](c1), MustLocate[Omega](c2))

	// Bindings added after a build do not leak into it.
	assert.False(t, Has[Beta](c1))
	assert.True(t, Has[Beta](c2))
}

func TestBuild_LogsValidation(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	b := NewBuilder(WithLogger(zap.New(core)))
	require.NoError(t, RegisterSingleton[Alpha](b, NewAlpha))

	_, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage("binding registered").Len())
	assert.Equal(t, 1, logs.FilterMessage("validation passed").Len())
	assert.Equal(t, 1, logs.FilterMessage("singleton constructed").Len())
}

func TestApply(t *testing.T) {
	alpha := NewAlpha()

	b := NewBuilder()
	err := b.Apply(
		BindInstance[Alpha](alpha, Singleton),
		Bind[Beta](NewBeta, LazySingleton),
		Bind[Gamma](NewGamma, Transient),
	)
	require.NoError(t, err)

	c, err := b.Build()
	require.NoError(t, err)

	g := MustLocate[Gamma](c)
	assert.Same(t, alpha, g.Alpha())
	assert.Same(t, MustLocate[Beta](c), g.Beta())
}

func TestApply_StopsAtFirstError(t *testing.T) {
	b := NewBuilder()

	err := b.Apply(
		Bind[Alpha](NewAlpha, Singleton),
		BindInstance[Omega](NewOmega(), Transient),
		Bind[Beta](NewBeta, Transient),
	)
	require.ErrorIs(t, err, ErrInstanceNotAllowedSentinel)
	assert.Contains(t, err.Error(), "binding 1 (keel.Omega)")

	c, err := b.Build()
	require.NoError(t, err)
	assert.True(t, Has[Alpha](c))
	assert.False(t, Has[Beta](c))
}
