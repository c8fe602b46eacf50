// Package apperr defines the typed errors returned by services and rendered
// by the HTTP error handler as {"error": {"code", "message", "details"}}.
package apperr

import (
	"errors"
	"net/http"
)

type Error struct {
	Status  int
	Code    string
	Message string
	Details any
}

func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

// Is matches on Status and Code so copies made by WithMessage/WithDetails
// still satisfy errors.Is against the package sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Status == e.Status && t.Code == e.Code
}

func (e *Error) WithMessage(message string) *Error {
	cp := *e
	cp.Message = message
	return &cp
}

func (e *Error) WithDetails(details any) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

// From extracts an *Error from err's chain.
func From(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

var (
	ErrValidation      = New(http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request")
	ErrInvalidID       = New(http.StatusBadRequest, "INVALID_ID", "Invalid id")
	ErrInvalidLimit    = New(http.StatusBadRequest, "INVALID_LIMIT", "Invalid limit")
	ErrInvalidCursor   = New(http.StatusBadRequest, "INVALID_CURSOR", "Invalid cursor")
	ErrInvalidDatetime = New(http.StatusBadRequest, "INVALID_DATETIME", "Invalid datetime")

	ErrUnauthorized       = New(http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	ErrInvalidToken       = New(http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
	ErrInvalidCredentials = New(http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")

	ErrForbidden       = New(http.StatusForbidden, "FORBIDDEN", "Forbidden")
	ErrNotParticipant  = New(http.StatusForbidden, "NOT_PARTICIPANT", "You are not registered for this activity")
	ErrAccountInactive = New(http.StatusForbidden, "ACCOUNT_INACTIVE", "Account is not active")

	ErrNotFound         = New(http.StatusNotFound, "NOT_FOUND", "Resource not found")
	ErrUserNotFound     = New(http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	ErrGroupNotFound    = New(http.StatusNotFound, "GROUP_NOT_FOUND", "Group not found")
	ErrActivityNotFound = New(http.StatusNotFound, "ACTIVITY_NOT_FOUND", "Activity not found")
	ErrSportNotFound    = New(http.StatusNotFound, "SPORT_NOT_FOUND", "Sport not found")
	ErrMessageNotFound  = New(http.StatusNotFound, "MESSAGE_NOT_FOUND", "Message not found")
	ErrReportNotFound   = New(http.StatusNotFound, "REPORT_NOT_FOUND", "Report not found")

	ErrDuplicate     = New(http.StatusConflict, "DUPLICATE", "Email or pseudo already in use")
	ErrReportExists  = New(http.StatusConflict, "REPORT_ALREADY_EXISTS", "You already reported this message")
	ErrNotOpen       = New(http.StatusBadRequest, "NOT_OPEN", "Activity is not open for enrollment")
	ErrActivityFull  = New(http.StatusBadRequest, "ACTIVITY_FULL", "Activity is full")
	ErrGroupFull     = New(http.StatusBadRequest, "GROUP_FULL", "Group is full")
	ErrEmptyMessage  = New(http.StatusBadRequest, "EMPTY_MESSAGE", "Message content is empty")
	ErrTokenExpired  = New(http.StatusBadRequest, "TOKEN_EXPIRED", "Reset token has expired")
	ErrResetToken    = New(http.StatusBadRequest, "INVALID_TOKEN", "Invalid reset token")
	ErrWrongPassword = New(http.StatusBadRequest, "INVALID_OLD_PASSWORD", "Old password is incorrect")

	ErrRateLimited    = New(http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests")
	ErrNotImplemented = New(http.StatusNotImplemented, "NOT_IMPLEMENTED", "Not implemented")
	ErrInternal       = New(http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
)

func (e *Error) HTTPStatus() int {
	return e.Status
}
