package constants

import "time"

// Context keys shared by middleware and handlers
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUserEmail = "user_email"
	ContextKeyRequestID = "request_id"
)

const RequestIDHeader = "X-Request-ID"

// User role tiers
const (
	RoleAdmin   = 1
	RoleRegular = 2
)

const (
	DefaultTokenTTL = 10 * time.Minute

	// MinSearchQueryLength is the shortest prefix accepted by the user search
	MinSearchQueryLength = 2
	// SearchResultLimit caps each prefix query of the user search
	SearchResultLimit = 10

	DefaultMemberLookupConcurrency = 8
)
