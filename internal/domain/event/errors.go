package event

import (
	"errors"
	"fmt"
)

var (
	// ErrContractViolation matches every *ContractViolation via errors.Is.
	ErrContractViolation = errors.New("event contract violation")
	// ErrNotValidated is returned when dispatching a record that never passed validation.
	ErrNotValidated = errors.New("event has not been validated")
	// ErrAlreadyTriggered is returned when a record is dispatched a second time.
	ErrAlreadyTriggered = errors.New("event can be triggered only once")
	// ErrUnknownEvent is returned by the registry for names it has no factory for.
	ErrUnknownEvent = errors.New("unknown event name")
)

// ViolationKind tags the variant of a ContractViolation.
type ViolationKind int

const (
	// ViolationMissingField means a required value was not set.
	ViolationMissingField ViolationKind = iota + 1
	// ViolationInvalidContext means the record was raised in the wrong context level.
	ViolationInvalidContext
	// ViolationInvalidValue means a base field holds a value outside its domain.
	ViolationInvalidValue
)

func (k ViolationKind) String() string {
	switch k {
	case ViolationMissingField:
		return "missing_field"
	case ViolationInvalidContext:
		return "invalid_context"
	case ViolationInvalidValue:
		return "invalid_value"
	default:
		return "unknown"
	}
}

// ContractViolation is raised while validating a record. It is a programming
// error on the caller side and is never retried.
type ContractViolation struct {
	Kind  ViolationKind
	Field string
	// Level is the offending context level for ViolationInvalidContext.
	Level ContextLevel
	msg   string
}

// MissingField reports an unset required value.
func MissingField(field string, inOther bool) *ContractViolation {
	msg := fmt.Sprintf("the '%s' value must be set", field)
	if inOther {
		msg += " in other"
	}
	return &ContractViolation{Kind: ViolationMissingField, Field: field, msg: msg}
}

// InvalidContext reports a record raised at the wrong context level.
func InvalidContext(got, want ContextLevel) *ContractViolation {
	return &ContractViolation{
		Kind:  ViolationInvalidContext,
		Field: "contextlevel",
		Level: got,
		msg:   fmt.Sprintf("context level must be %s, got %s", want, got),
	}
}

// UnresolvedContext reports a module context that names no course module or context row.
func UnresolvedContext(field string) *ContractViolation {
	return &ContractViolation{
		Kind:  ViolationInvalidContext,
		Field: field,
		Level: ContextModule,
		msg:   fmt.Sprintf("the module context has no '%s'", field),
	}
}

// InvalidValue reports a base field outside its allowed values.
func InvalidValue(field string, value any) *ContractViolation {
	return &ContractViolation{
		Kind:  ViolationInvalidValue,
		Field: field,
		msg:   fmt.Sprintf("invalid value %v for '%s'", value, field),
	}
}

func (e *ContractViolation) Error() string {
	return "event contract violation: " + e.msg
}

// Is lets errors.Is match ErrContractViolation.
func (e *ContractViolation) Is(target error) bool {
	return target == ErrContractViolation
}

// AsContractViolation unwraps err into a *ContractViolation.
func AsContractViolation(err error) (*ContractViolation, bool) {
	var cv *ContractViolation
	if errors.As(err, &cv) {
		return cv, true
	}
	return nil, false
}
