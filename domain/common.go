package domain

import (
	"errors"
)

var (
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageUnauthorized         = "unauthorized"
	MessageServiceNotReady      = "service not ready"
	MessageRouteNotFound        = "route not found"

	ErrParseUUID       = errors.New("failed to parse UUID")
	ErrStoreNotReady   = errors.New("service not ready")
	ErrInvalidPassword = errors.New("invalid username or password")

	ErrAuthNotConfigured = errors.New("basic auth credentials are not configured")
)
