package keel

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/xraph/go-utils/errs"
)

// =============================================================================
// ERROR CODES
// =============================================================================

const (
	// CodeDependencyNotRegistered indicates a required service has no binding
	CodeDependencyNotRegistered = "DEPENDENCY_NOT_REGISTERED"

	// CodePrimaryConstructorNotFound indicates a binding has no usable constructor
	CodePrimaryConstructorNotFound = "PRIMARY_CONSTRUCTOR_NOT_FOUND"

	// CodeConstructorNotAccessible indicates the constructor cannot be invoked by the container
	CodeConstructorNotAccessible = "CONSTRUCTOR_NOT_ACCESSIBLE"

	// CodeCircularDependency indicates a circular dependency was detected
	CodeCircularDependency = "CIRCULAR_DEPENDENCY"

	// CodeNotInitialized indicates an eager singleton was located before initialization
	CodeNotInitialized = "NOT_INITIALIZED"

	// CodeInstanceNotAllowed indicates a pre-built instance was bound to a lifecycle that rebuilds
	CodeInstanceNotAllowed = "INSTANCE_NOT_ALLOWED"

	// CodeTypeMismatch indicates a value is not assignable to the service type
	CodeTypeMismatch = "TYPE_MISMATCH"

	// CodeInvalidService indicates a registration without a usable service identity
	CodeInvalidService = "INVALID_SERVICE"

	// CodeServiceError indicates an error occurred during service operation
	CodeServiceError = "SERVICE_ERROR"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

// ErrDependencyNotRegisteredSentinel matches any DependencyNotRegistered error.
var ErrDependencyNotRegisteredSentinel = errs.NewError(CodeDependencyNotRegistered, "dependency not registered", nil)

// ErrPrimaryConstructorNotFoundSentinel matches any PrimaryConstructorNotFound error.
var ErrPrimaryConstructorNotFoundSentinel = errs.NewError(CodePrimaryConstructorNotFound, "primary constructor not found", nil)

// ErrConstructorNotAccessibleSentinel matches any ConstructorNotAccessible error.
var ErrConstructorNotAccessibleSentinel = errs.NewError(CodeConstructorNotAccessible, "constructor not accessible", nil)

// ErrCircularDependencySentinel matches any CircularDependency error.
var ErrCircularDependencySentinel = errs.NewError(CodeCircularDependency, "circular dependency", nil)

// ErrNotInitializedSentinel matches any NotInitialized error.
var ErrNotInitializedSentinel = errs.NewError(CodeNotInitialized, "singleton locator not initialized", nil)

// ErrInstanceNotAllowedSentinel matches any InstanceNotAllowed error.
var ErrInstanceNotAllowedSentinel = errs.NewError(CodeInstanceNotAllowed, "instance not allowed", nil)

// ErrTypeMismatchSentinel matches any TypeMismatch error.
var ErrTypeMismatchSentinel = errs.NewError(CodeTypeMismatch, "type mismatch", nil)

// ErrInvalidService is returned when a registration carries a nil service type.
var ErrInvalidService = errs.NewError(CodeInvalidService, "service type cannot be nil", nil)

// ErrServiceErrorSentinel matches any ServiceError.
var ErrServiceErrorSentinel = errs.NewError(CodeServiceError, "service error", nil)

// =============================================================================
// ERROR CONSTRUCTORS
// =============================================================================

// ErrDependencyNotRegistered creates an error for a service without a binding.
func ErrDependencyNotRegistered(service reflect.Type) *errs.Error {
	name := typeName(service)

	return errs.NewError(
		CodeDependencyNotRegistered,
		fmt.Sprintf("no registered service for %s", name),
		nil,
	).WithContext("service", name).(*errs.Error)
}

// ErrPrimaryConstructorNotFound creates an error for a binding without a usable constructor.
func ErrPrimaryConstructorNotFound(service reflect.Type, reason string) *errs.Error {
	name := typeName(service)

	return errs.NewError(
		CodePrimaryConstructorNotFound,
		fmt.Sprintf("could not locate primary constructor for %s: %s", name, reason),
		nil,
	).WithContext("service", name).
		WithContext("reason", reason).(*errs.Error)
}

// ErrConstructorNotAccessible creates an error for a constructor the container cannot invoke.
func ErrConstructorNotAccessible(service reflect.Type, reason string) *errs.Error {
	name := typeName(service)

	return errs.NewError(
		CodeConstructorNotAccessible,
		fmt.Sprintf("constructor for %s is not accessible: %s", name, reason),
		nil,
	).WithContext("service", name).
		WithContext("reason", reason).(*errs.Error)
}

// ErrCircularDependency creates an error for circular dependency detection.
func ErrCircularDependency(cycle []string) *errs.Error {
	return errs.NewError(
		CodeCircularDependency,
		fmt.Sprintf("circular dependency detected: %s", strings.Join(cycle, " -> ")),
		nil,
	).WithContext("cycle", cycle).(*errs.Error)
}

// ErrNotInitialized creates an error for locating an eager singleton before initialization.
func ErrNotInitialized(service reflect.Type) *errs.Error {
	name := typeName(service)

	return errs.NewError(
		CodeNotInitialized,
		fmt.Sprintf("cannot locate %s: singleton locator is not initialized", name),
		nil,
	).WithContext("service", name).(*errs.Error)
}

// ErrInstanceNotAllowed creates an error for binding an instance under a lifecycle that rebuilds.
func ErrInstanceNotAllowed(service reflect.Type, lifecycle Lifecycle) *errs.Error {
	name := typeName(service)

	return errs.NewError(
		CodeInstanceNotAllowed,
		fmt.Sprintf("cannot bind an instance of %s as %s", name, lifecycle),
		nil,
	).WithContext("service", name).
		WithContext("lifecycle", lifecycle.String()).(*errs.Error)
}

// ErrTypeMismatch creates an error for a value that does not satisfy the service type.
func ErrTypeMismatch(service reflect.Type, actual any) *errs.Error {
	name := typeName(service)
	actualName := fmt.Sprintf("%T", actual)

	if t, ok := actual.(reflect.Type); ok {
		actualName = typeName(t)
	}

	return errs.NewError(
		CodeTypeMismatch,
		fmt.Sprintf("service %s type mismatch: got %s", name, actualName),
		nil,
	).WithContext("service", name).
		WithContext("actual_type", actualName).(*errs.Error)
}

// NewServiceError creates an error for service operations.
func NewServiceError(service reflect.Type, operation string, cause error) *errs.Error {
	name := typeName(service)

	return errs.NewError(
		CodeServiceError,
		fmt.Sprintf("service %s error during %s", name, operation),
		cause,
	).WithContext("service", name).
		WithContext("operation", operation).(*errs.Error)
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	return t.String()
}
