package query

import (
	"net/url"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// TicketQuery is the parsed filter/order plan for a ticket listing. Filters
// are applied first, then ordering, then pagination (handled by the caller).
type TicketQuery struct {
	AssignedTo    *uint64
	CreatedBy     *uint64
	TicketID      *uint64
	TitleContains string

	// order is a validated "<column> <direction>" clause. Empty means the
	// baseline ordering applies.
	order string
}

// sortableColumns is the allow-list for order_by fields.
var sortableColumns = map[string]string{
	"id":         "id",
	"title":      "title",
	"status":     "status",
	"priority":   "priority",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// baselineOrder is applied when no order_by parameter overrides it:
// most recently created tickets first.
const baselineOrder = "id DESC"

// ParseTicketQuery builds a TicketQuery from untyped request parameters.
// Parsing is deliberately lenient: an id value that is not a valid integer
// skips that filter, and an order_by token that does not name a sortable
// field with a literal asc/desc direction leaves the ordering unchanged.
func ParseTicketQuery(values url.Values) TicketQuery {
	q := TicketQuery{}

	q.AssignedTo = parseID(values.Get("assigned"))
	q.CreatedBy = parseID(values.Get("creator"))
	q.TicketID = parseID(values.Get("ticket_id"))
	q.TitleContains = values.Get("ticket_title")
	q.order = parseOrder(values.Get("order_by"))

	return q
}

// AssignedToView restricts the query to tickets assigned to the given user,
// bypassing the generic filters.
func AssignedToView(userID uint64) TicketQuery {
	return TicketQuery{AssignedTo: &userID}
}

// CreatedByView restricts the query to tickets created by the given user,
// bypassing the generic filters.
func CreatedByView(userID uint64) TicketQuery {
	return TicketQuery{CreatedBy: &userID}
}

// Scope applies the filters to a GORM query.
func (q TicketQuery) Scope() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if q.AssignedTo != nil {
			db = db.Where("tickets.assigned_to_id = ?", *q.AssignedTo)
		}
		if q.CreatedBy != nil {
			db = db.Where("tickets.created_by_id = ?", *q.CreatedBy)
		}
		if q.TicketID != nil {
			db = db.Where("tickets.id = ?", *q.TicketID)
		}
		if q.TitleContains != "" {
			db = db.Where("LOWER(tickets.title) LIKE ?", "%"+strings.ToLower(q.TitleContains)+"%")
		}
		return db
	}
}

// Order returns the ORDER BY clause for the query. A valid order_by
// parameter replaces the baseline ordering rather than adding to it.
func (q TicketQuery) Order() string {
	if q.order != "" {
		return q.order
	}
	return baselineOrder
}

func parseID(raw string) *uint64 {
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		// Malformed id filters are skipped, not rejected.
		return nil
	}
	return &id
}

func parseOrder(raw string) string {
	if raw == "" {
		return ""
	}

	field, direction, found := strings.Cut(raw, "-")
	if !found {
		return ""
	}

	column, ok := sortableColumns[field]
	if !ok {
		return ""
	}

	switch direction {
	case "asc":
		return column + " ASC"
	case "desc":
		return column + " DESC"
	}
	return ""
}
