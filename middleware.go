package keel

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// Middleware provides hooks around [Container.Locate].
// Middleware can be used for logging, metrics, access control, testing, etc.
type Middleware interface {
	// BeforeLocate is called before locating a service.
	// Return error to abort the locate.
	BeforeLocate(service reflect.Type) error

	// AfterLocate is called after locating a service.
	// Called even if the locate failed.
	AfterLocate(service reflect.Type, instance any, err error) error
}

// middlewareChain manages multiple middleware.
type middlewareChain struct {
	middleware []Middleware
}

func newMiddlewareChain() *middlewareChain {
	return &middlewareChain{
		middleware: make([]Middleware, 0),
	}
}

func (m *middlewareChain) add(middleware Middleware) {
	m.middleware = append(m.middleware, middleware)
}

func (m *middlewareChain) beforeLocate(service reflect.Type) error {
	for _, mw := range m.middleware {
		if err := mw.BeforeLocate(service); err != nil {
			return err
		}
	}
	return nil
}

func (m *middlewareChain) afterLocate(service reflect.Type, instance any, err error) error {
	for _, mw := range m.middleware {
		if mwErr := mw.AfterLocate(service, instance, err); mwErr != nil {
			return mwErr
		}
	}
	return nil
}

// FuncMiddleware wraps functions as Middleware.
type FuncMiddleware struct {
	BeforeLocateFunc func(service reflect.Type) error
	AfterLocateFunc  func(service reflect.Type, instance any, err error) error
}

// BeforeLocate implements Middleware.
func (f *FuncMiddleware) BeforeLocate(service reflect.Type) error {
	if f.BeforeLocateFunc != nil {
		return f.BeforeLocateFunc(service)
	}
	return nil
}

// AfterLocate implements Middleware.
func (f *FuncMiddleware) AfterLocate(service reflect.Type, instance any, err error) error {
	if f.AfterLocateFunc != nil {
		return f.AfterLocateFunc(service, instance, err)
	}
	return nil
}

// LoggingMiddleware logs every locate: failures at warn level, successes at debug.
func LoggingMiddleware(logger *zap.Logger) Middleware {
	return &FuncMiddleware{
		AfterLocateFunc: func(service reflect.Type, instance any, err error) error {
			if err != nil {
				logger.Warn("locate failed", zap.Stringer("service", service), zap.Error(err))

				return nil
			}

			logger.Debug("located",
				zap.Stringer("service", service),
				zap.String("type", fmt.Sprintf("%T", instance)),
			)

			return nil
		},
	}
}
