package core

import (
	"errors"
	"fmt"
)

// MethodNotAllowedError is returned when a method is registered with a verb
// other than GET, POST, PUT or DELETE.
type MethodNotAllowedError struct {
	Verb string
}

func (e *MethodNotAllowedError) Error() string {
	return fmt.Sprintf("method not allowed: %q. Use GET, POST, PUT or DELETE", e.Verb)
}

// PathNotSpecifiedError is returned when a method is registered without a path.
type PathNotSpecifiedError struct {
	Name string
}

func (e *PathNotSpecifiedError) Error() string {
	return fmt.Sprintf("path is not specified for method %q", e.Name)
}

// MethodExistsError is returned when a method name is registered twice.
type MethodExistsError struct {
	Name string
}

func (e *MethodExistsError) Error() string {
	return fmt.Sprintf("method already exists: %s", e.Name)
}

// MethodNotFoundError is returned when calling a name that was never registered.
type MethodNotFoundError struct {
	Name string
}

func (e *MethodNotFoundError) Error() string {
	return fmt.Sprintf("method %q not found", e.Name)
}

// MissingTemplateParamError is returned when a path still contains a {placeholder}
// after template substitution. No request is sent.
type MissingTemplateParamError struct {
	Path string
}

func (e *MissingTemplateParamError) Error() string {
	return fmt.Sprintf("template parameter is missing: %s", e.Path)
}

// DecodeError is returned when the first response chunk looks like a JSON object
// but cannot be decoded.
type DecodeError struct {
	URL  string
	Body string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response from %s: %v, response body: %s", e.URL, e.Err, e.Body)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func IsMethodNotAllowedErr(err error) bool {
	var target *MethodNotAllowedError
	return errors.As(err, &target)
}

func IsPathNotSpecifiedErr(err error) bool {
	var target *PathNotSpecifiedError
	return errors.As(err, &target)
}

func IsMethodExistsErr(err error) bool {
	var target *MethodExistsError
	return errors.As(err, &target)
}

func IsMethodNotFoundErr(err error) bool {
	var target *MethodNotFoundError
	return errors.As(err, &target)
}

func IsMissingTemplateParamErr(err error) bool {
	var target *MissingTemplateParamError
	return errors.As(err, &target)
}

func IsDecodeErr(err error) bool {
	var target *DecodeError
	return errors.As(err, &target)
}
