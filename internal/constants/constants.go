package constants

import "time"

// Context keys shared between middleware and handlers.
const (
	ContextKeyUserID    = "user_id"
	ContextKeyPrincipal = "principal"
)

// SessionCookieName names the session cookie.
const SessionCookieName = "ticket_session"

// Pagination. Page size is fixed; clients select pages, not sizes.
const (
	FirstPage      = 1
	TicketPageSize = 10
)

// Authentication.
const (
	MinPasswordLength = 6
	TokenTTL          = 7 * 24 * time.Hour
)
