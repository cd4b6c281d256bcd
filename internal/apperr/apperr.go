package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeInvalidArgument     Code = "INVALID_ARGUMENT"
	CodeNotFound            Code = "NOT_FOUND"
	CodeConflict            Code = "CONFLICT" // 在庫なしなど
	CodeAlreadyBorrowed     Code = "ALREADY_BORROWED"
	CodeUpstreamUnavailable Code = "UPSTREAM_UNAVAILABLE"
	CodeBadQuery            Code = "BAD_QUERY"
	CodeUnauthorized        Code = "UNAUTHORIZED"
	CodeInternal            Code = "INTERNAL"
)

type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

func ErrInvalid(msg string) *Error      { return &Error{Code: CodeInvalidArgument, Message: msg} }
func ErrNotFound(msg string) *Error     { return &Error{Code: CodeNotFound, Message: msg} }
func ErrConflict(msg string) *Error     { return &Error{Code: CodeConflict, Message: msg} }
func ErrUnauthorized(msg string) *Error { return &Error{Code: CodeUnauthorized, Message: msg} }
func ErrInternal(msg string) *Error     { return &Error{Code: CodeInternal, Message: msg} }

func ErrAlreadyBorrowed() *Error {
	return &Error{Code: CodeAlreadyBorrowed, Message: "user has already borrowed this book and not returned it"}
}

func ErrUpstreamUnavailable(msg string) *Error {
	return &Error{Code: CodeUpstreamUnavailable, Message: msg}
}

func ErrBadQuery(msg string) *Error { return &Error{Code: CodeBadQuery, Message: msg} }

// CodeOf: apperr.Error なら Code、それ以外は INTERNAL 扱い
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

func HTTPStatus(err error) int {
	var e *Error
	if errors.As(err, &e) {
		switch e.Code {
		case CodeInvalidArgument, CodeBadQuery:
			return http.StatusBadRequest
		case CodeUnauthorized:
			return http.StatusUnauthorized
		case CodeNotFound:
			return http.StatusNotFound
		case CodeConflict, CodeAlreadyBorrowed:
			return http.StatusConflict
		case CodeUpstreamUnavailable:
			return http.StatusServiceUnavailable
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}
