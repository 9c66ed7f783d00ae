// Package errors provides the error kinds shared by the sync engine, the
// transport clients and the document renderer.
//
// Every typed error matches one sentinel through Is, so callers can branch
// with errors.Is without caring about the concrete type.
package errors

import (
	"errors"
	"fmt"
)

// Aliases of the standard library helpers for packages importing this one
// under the default name.
var (
	New = errors.New
	Is  = errors.Is
	As  = errors.As
)

var (
	// ErrNotAttached indicates a client was used before a transport was attached.
	ErrNotAttached = errors.New("client not attached")

	// ErrUnsupportedDirection indicates an action targeted a side the sync cannot write.
	ErrUnsupportedDirection = errors.New("unsupported sync direction")

	// ErrUnsupportedNodeKind indicates a node payload that cannot be rendered.
	ErrUnsupportedNodeKind = errors.New("unsupported node kind")

	// ErrChildrenUnsupported indicates children were read from or attached to a leaf node.
	ErrChildrenUnsupported = errors.New("node kind does not support children")

	// ErrSchemaMismatch indicates the destination database lacks a required field.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrCycle indicates a parent chain that loops back onto itself.
	ErrCycle = errors.New("cycle detected")
)

// NotAttachedError is returned by a client call made without a transport.
type NotAttachedError struct {
	Client string
}

func (e *NotAttachedError) Error() string {
	return fmt.Sprintf("%s client is not attached to a transport", e.Client)
}

// Is implements errors.Is support
func (e *NotAttachedError) Is(target error) bool {
	return target == ErrNotAttached
}

// NewNotAttachedError creates a new NotAttachedError
func NewNotAttachedError(client string) *NotAttachedError {
	return &NotAttachedError{Client: client}
}

// UnsupportedDirectionError is returned when the engine dispatches an action to
// a side the sync has no executor for.
type UnsupportedDirectionError struct {
	Sync   string
	Target string
	Action string
	Key    string
}

func (e *UnsupportedDirectionError) Error() string {
	return fmt.Sprintf("sync %s cannot execute %s on side %s (key %s)", e.Sync, e.Action, e.Target, e.Key)
}

// Is implements errors.Is support
func (e *UnsupportedDirectionError) Is(target error) bool {
	return target == ErrUnsupportedDirection
}

// UnsupportedNodeKindError names a node kind the renderer or decoder cannot handle.
type UnsupportedNodeKindError struct {
	Kind string
}

func (e *UnsupportedNodeKindError) Error() string {
	return fmt.Sprintf("unsupported node kind %q", e.Kind)
}

// Is implements errors.Is support
func (e *UnsupportedNodeKindError) Is(target error) bool {
	return target == ErrUnsupportedNodeKind
}

// ChildrenUnsupportedError names the leaf kind children were requested from.
type ChildrenUnsupportedError struct {
	Kind string
}

func (e *ChildrenUnsupportedError) Error() string {
	return fmt.Sprintf("node kind %q does not support children", e.Kind)
}

// Is implements errors.Is support
func (e *ChildrenUnsupportedError) Is(target error) bool {
	return target == ErrChildrenUnsupported
}

// SchemaMismatchError describes one required field the destination cannot provide.
type SchemaMismatchError struct {
	Database string
	Field    string
	Want     string
	// Got is empty when the field is missing entirely.
	Got string
}

func (e *SchemaMismatchError) Error() string {
	if e.Got == "" {
		return fmt.Sprintf("database %s is missing required field %q (%s)", e.Database, e.Field, e.Want)
	}
	return fmt.Sprintf("database %s field %q has type %s, expected %s", e.Database, e.Field, e.Got, e.Want)
}

// Is implements errors.Is support
func (e *SchemaMismatchError) Is(target error) bool {
	return target == ErrSchemaMismatch
}

// CycleError reports the key at which a parent chain was found to loop.
type CycleError struct {
	Key string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected at key %s", e.Key)
}

// Is implements errors.Is support
func (e *CycleError) Is(target error) bool {
	return target == ErrCycle
}
