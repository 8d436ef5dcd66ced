package models

import "errors"

var (
	ErrRedisConnection = errors.New("redis connection error")
	ErrRedisGet        = errors.New("redis get error")
	ErrRedisSet        = errors.New("redis set error")
	ErrRedisDelete     = errors.New("redis delete error")
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionInvalid  = errors.New("session invalid")
	ErrSessionSaving   = errors.New("error saving session")
	ErrSessionDeleting = errors.New("error deleting session")
)

var (
	ErrDatabaseConnection = errors.New("database connection error")
	ErrDatabaseQuery      = errors.New("database query error")
	ErrDatabaseInsert     = errors.New("database insert error")
	ErrDatabaseUpdate     = errors.New("database update error")
	ErrDatabaseDelete     = errors.New("database delete error")
	ErrRecordNotFound     = errors.New("record not found")
	ErrDuplicateRecord    = errors.New("duplicate record")
)

var (
	ErrQueueConnection = errors.New("queue connection error")
	ErrQueuePublish    = errors.New("queue publish error")
)

var (
	ErrRateLimited     = errors.New("rate limited")
	ErrCounterStore    = errors.New("rate limit counter store error")
	ErrMalformedBody   = errors.New("malformed request body")
	ErrBodyTooLarge    = errors.New("request body too large")
	ErrRouteNotFound   = errors.New("route not found")
	ErrUnauthorized    = errors.New("authentication required")
	ErrForbidden       = errors.New("access forbidden")
	ErrInvalidParams   = errors.New("invalid parameters")
	ErrInternalFailure = errors.New("internal server error")
)

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidRole        = errors.New("invalid employee role")
)

var (
	ErrReviewNotFound = errors.New("review not found")
	ErrSelfReview     = errors.New("employees cannot review themselves")
)
