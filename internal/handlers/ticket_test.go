package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kmazurek/ticket-system-api/internal/constants"
	"github.com/kmazurek/ticket-system-api/internal/database"
	"github.com/kmazurek/ticket-system-api/internal/models"
	"github.com/kmazurek/ticket-system-api/internal/permissions"
	"github.com/kmazurek/ticket-system-api/internal/repository"
	"github.com/kmazurek/ticket-system-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TicketHandlerTestSuite defines the test suite for TicketHandler
type TicketHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *TicketHandler
}

// SetupTest runs before each test
func (suite *TicketHandlerTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	// Run migrations
	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Ticket{},
		&models.Comment{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	ticketRepo := repository.NewTicketRepository(suite.db)
	userRepo := repository.NewUserRepository(suite.db)
	suite.handler = NewTicketHandler(services.NewTicketService(ticketRepo, userRepo))

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *TicketHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper function to create test data
func (suite *TicketHandlerTestSuite) createTestUser(email string) *models.User {
	user := &models.User{
		Email:        email,
		Name:         "User",
		Surname:      "Testowsky",
		PasswordHash: "hashedpassword",
		IsActive:     true,
	}
	suite.db.Create(user)
	return user
}

func (suite *TicketHandlerTestSuite) createTestTicket(title string, createdBy, assignedTo uint64, extra func(*models.Ticket)) *models.Ticket {
	ticket := &models.Ticket{
		Title:        title,
		Description:  "Everything should work as expected",
		Status:       models.TicketStatusOpen,
		Priority:     models.TicketPriorityLow,
		CreatedByID:  createdBy,
		AssignedToID: assignedTo,
	}
	if extra != nil {
		extra(ticket)
	}
	suite.db.Create(ticket)
	return ticket
}

func (suite *TicketHandlerTestSuite) createTestComment(authorID *uint64, ticketID uint64) *models.Comment {
	comment := &models.Comment{
		AuthorID: authorID,
		TicketID: ticketID,
		Text:     "Example comment text.",
	}
	suite.db.Create(comment)
	return comment
}

// Helper function to create a request context carrying a principal
func (suite *TicketHandlerTestSuite) createContext(method, url string, body []byte, p permissions.Principal) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	if p.Authenticated() {
		c.Set(constants.ContextKeyPrincipal, p)
		c.Set(constants.ContextKeyUserID, p.ID)
	}

	return c, w
}

func (suite *TicketHandlerTestSuite) principalFor(user *models.User) permissions.Principal {
	return permissions.NewPrincipal(user.ID, user.IsSuperuser, user.IsStaff)
}

func (suite *TicketHandlerTestSuite) listResults(w *httptest.ResponseRecorder) []map[string]interface{} {
	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	suite.Require().NoError(err)
	suite.Require().Contains(response, "results")

	raw := response["results"].([]interface{})
	results := make([]map[string]interface{}, len(raw))
	for i, r := range raw {
		results[i] = r.(map[string]interface{})
	}
	return results
}

// TestListTickets_BaselineOrder checks that without parameters the newest
// tickets come first.
func (suite *TicketHandlerTestSuite) TestListTickets_BaselineOrder() {
	user := suite.createTestUser("user@example.com")
	user2 := suite.createTestUser("user2@example.com")
	first := suite.createTestTicket("first", user.ID, user2.ID, nil)
	second := suite.createTestTicket("second", user2.ID, user.ID, nil)

	c, w := suite.createContext("GET", "/api/tickets", nil, permissions.Anonymous)

	suite.handler.ListTickets(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	results := suite.listResults(w)
	suite.Require().Len(results, 2)
	assert.Equal(suite.T(), float64(second.ID), results[0]["id"])
	assert.Equal(suite.T(), float64(first.ID), results[1]["id"])
}

func (suite *TicketHandlerTestSuite) TestListTickets_FilterCommutative() {
	user := suite.createTestUser("user@example.com")
	user2 := suite.createTestUser("user2@example.com")
	match := suite.createTestTicket("match", user.ID, user2.ID, nil)
	suite.createTestTicket("wrong creator", user2.ID, user2.ID, nil)
	suite.createTestTicket("wrong assignee", user.ID, user.ID, nil)

	for _, rawQuery := range []string{
		"assigned=" + itoa(user2.ID) + "&creator=" + itoa(user.ID),
		"creator=" + itoa(user.ID) + "&assigned=" + itoa(user2.ID),
	} {
		c, w := suite.createContext("GET", "/api/tickets?"+rawQuery, nil, permissions.Anonymous)

		suite.handler.ListTickets(c)

		assert.Equal(suite.T(), http.StatusOK, w.Code)
		results := suite.listResults(w)
		suite.Require().Len(results, 1)
		assert.Equal(suite.T(), float64(match.ID), results[0]["id"])
	}
}

func (suite *TicketHandlerTestSuite) TestListTickets_TitleSubstring() {
	user := suite.createTestUser("user@example.com")
	match := suite.createTestTicket("Printer Is Broken", user.ID, user.ID, nil)
	suite.createTestTicket("Unrelated", user.ID, user.ID, nil)

	c, w := suite.createContext("GET", "/api/tickets?ticket_title=printer", nil, permissions.Anonymous)

	suite.handler.ListTickets(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	results := suite.listResults(w)
	suite.Require().Len(results, 1)
	assert.Equal(suite.T(), float64(match.ID), results[0]["id"])
}

// TestListTickets_MalformedFilterSkipped checks the lenient failure policy:
// an id filter that does not parse is dropped, not an error.
func (suite *TicketHandlerTestSuite) TestListTickets_MalformedFilterSkipped() {
	user := suite.createTestUser("user@example.com")
	suite.createTestTicket("one", user.ID, user.ID, nil)
	suite.createTestTicket("two", user.ID, user.ID, nil)

	c, w := suite.createContext("GET", "/api/tickets?assigned=not-a-number", nil, permissions.Anonymous)

	suite.handler.ListTickets(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	results := suite.listResults(w)
	assert.Len(suite.T(), results, 2)
}

func (suite *TicketHandlerTestSuite) TestListTickets_OrderByPriorityAsc() {
	user := suite.createTestUser("user@example.com")
	moderate := suite.createTestTicket("moderate", user.ID, user.ID, func(t *models.Ticket) {
		t.Priority = models.TicketPriorityModerate
	})
	low := suite.createTestTicket("low", user.ID, user.ID, nil)
	urgent := suite.createTestTicket("urgent", user.ID, user.ID, func(t *models.Ticket) {
		t.Priority = models.TicketPriorityUrgent
	})

	c, w := suite.createContext("GET", "/api/tickets?order_by=priority-asc", nil, permissions.Anonymous)

	suite.handler.ListTickets(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	results := suite.listResults(w)
	suite.Require().Len(results, 3)
	assert.Equal(suite.T(), float64(low.ID), results[0]["id"])
	assert.Equal(suite.T(), float64(moderate.ID), results[1]["id"])
	assert.Equal(suite.T(), float64(urgent.ID), results[2]["id"])
}

// TestListTickets_MalformedOrderKeepsBaseline checks that an unknown
// direction token leaves the baseline ordering in place.
func (suite *TicketHandlerTestSuite) TestListTickets_MalformedOrderKeepsBaseline() {
	user := suite.createTestUser("user@example.com")
	first := suite.createTestTicket("first", user.ID, user.ID, func(t *models.Ticket) {
		t.Priority = models.TicketPriorityUrgent
	})
	second := suite.createTestTicket("second", user.ID, user.ID, nil)

	c, w := suite.createContext("GET", "/api/tickets?order_by=priority-sideways", nil, permissions.Anonymous)

	suite.handler.ListTickets(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	results := suite.listResults(w)
	suite.Require().Len(results, 2)
	assert.Equal(suite.T(), float64(second.ID), results[0]["id"])
	assert.Equal(suite.T(), float64(first.ID), results[1]["id"])
}

// TestListTickets_PageBeyondEndFallsBack checks that requesting a page past
// the end returns the full unpaginated sequence instead of erroring.
func (suite *TicketHandlerTestSuite) TestListTickets_PageBeyondEndFallsBack() {
	user := suite.createTestUser("user@example.com")
	suite.createTestTicket("only", user.ID, user.ID, nil)

	c, w := suite.createContext("GET", "/api/tickets?page=2", nil, permissions.Anonymous)

	suite.handler.ListTickets(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response []map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	suite.Require().NoError(err)
	assert.Len(suite.T(), response, 1)
}

func (suite *TicketHandlerTestSuite) TestListTickets_PaginationMarkers() {
	user := suite.createTestUser("user@example.com")
	for i := 0; i < constants.TicketPageSize+1; i++ {
		suite.createTestTicket("bulk", user.ID, user.ID, nil)
	}

	c, w := suite.createContext("GET", "/api/tickets", nil, permissions.Anonymous)

	suite.handler.ListTickets(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), float64(constants.TicketPageSize+1), response["count"])
	assert.Equal(suite.T(), float64(2), response["next"])
	assert.Nil(suite.T(), response["previous"])
}

func (suite *TicketHandlerTestSuite) TestAssignedToMe() {
	user := suite.createTestUser("user@example.com")
	user2 := suite.createTestUser("user2@example.com")
	mine := suite.createTestTicket("mine", user2.ID, user.ID, nil)
	suite.createTestTicket("not mine", user.ID, user2.ID, nil)

	c, w := suite.createContext("GET", "/api/tickets/assigned-to-me", nil, suite.principalFor(user))

	suite.handler.AssignedToMe(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	results := suite.listResults(w)
	suite.Require().Len(results, 1)
	assert.Equal(suite.T(), float64(mine.ID), results[0]["id"])
}

func (suite *TicketHandlerTestSuite) TestCreatedByMe() {
	user := suite.createTestUser("user@example.com")
	user2 := suite.createTestUser("user2@example.com")
	mine := suite.createTestTicket("mine", user.ID, user2.ID, nil)
	suite.createTestTicket("not mine", user2.ID, user.ID, nil)

	c, w := suite.createContext("GET", "/api/tickets/created-by-me", nil, suite.principalFor(user))

	suite.handler.CreatedByMe(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	results := suite.listResults(w)
	suite.Require().Len(results, 1)
	assert.Equal(suite.T(), float64(mine.ID), results[0]["id"])
}

// TestCreateTicket_CreatorFromPrincipal checks that authorship comes from
// the request principal, never from the payload.
func (suite *TicketHandlerTestSuite) TestCreateTicket_CreatorFromPrincipal() {
	user := suite.createTestUser("user@example.com")
	user2 := suite.createTestUser("user2@example.com")

	body, _ := json.Marshal(map[string]interface{}{
		"title":          "Test case",
		"description":    "Everything should work as expected",
		"assigned_to_id": user2.ID,
		"created_by_id":  user2.ID, // ignored
		"priority":       "URGENT",
	})

	c, w := suite.createContext("POST", "/api/tickets", body, suite.principalFor(user))

	suite.handler.CreateTicket(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), float64(user.ID), response["created_by_id"])
	assert.Equal(suite.T(), float64(user2.ID), response["assigned_to_id"])
	assert.Equal(suite.T(), "URGENT", response["priority"])
	assert.Equal(suite.T(), "OPEN", response["status"])
}

func (suite *TicketHandlerTestSuite) TestCreateTicket_AnonymousUnauthorized() {
	user := suite.createTestUser("user@example.com")

	body, _ := json.Marshal(map[string]interface{}{
		"title":          "Test case",
		"description":    "Everything should work as expected",
		"assigned_to_id": user.ID,
	})

	c, w := suite.createContext("POST", "/api/tickets", body, permissions.Anonymous)

	suite.handler.CreateTicket(c)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)

	var count int64
	suite.db.Model(&models.Ticket{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

func (suite *TicketHandlerTestSuite) TestCreateTicket_UnknownAssignee() {
	user := suite.createTestUser("user@example.com")

	body, _ := json.Marshal(map[string]interface{}{
		"title":          "Test case",
		"description":    "Everything should work as expected",
		"assigned_to_id": 9999,
	})

	c, w := suite.createContext("POST", "/api/tickets", body, suite.principalFor(user))

	suite.handler.CreateTicket(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *TicketHandlerTestSuite) TestCreateTicket_MissingTitle() {
	user := suite.createTestUser("user@example.com")

	body, _ := json.Marshal(map[string]interface{}{
		"description":    "Everything should work as expected",
		"assigned_to_id": user.ID,
	})

	c, w := suite.createContext("POST", "/api/tickets", body, suite.principalFor(user))

	suite.handler.CreateTicket(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "VALIDATION_FAILED", response["code"])
	details := response["details"].(map[string]interface{})
	assert.Contains(suite.T(), details, "title")
}

func (suite *TicketHandlerTestSuite) TestUpdateTicket_PartialUpdate() {
	user := suite.createTestUser("user@example.com")
	user2 := suite.createTestUser("user2@example.com")
	ticket := suite.createTestTicket("original", user.ID, user2.ID, nil)

	body, _ := json.Marshal(map[string]interface{}{
		"status": "CLOSED",
	})

	c, w := suite.createContext("PATCH", "/api/tickets/1", body, suite.principalFor(user))
	c.Params = gin.Params{{Key: "id", Value: itoa(ticket.ID)}}

	suite.handler.UpdateTicket(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var updated models.Ticket
	suite.db.First(&updated, ticket.ID)
	assert.Equal(suite.T(), models.TicketStatusClosed, updated.Status)
	assert.Equal(suite.T(), "original", updated.Title)
	assert.Equal(suite.T(), user.ID, updated.CreatedByID)
}

func (suite *TicketHandlerTestSuite) TestUpdateTicket_NonOwnerForbidden() {
	user := suite.createTestUser("user@example.com")
	user2 := suite.createTestUser("user2@example.com")
	ticket := suite.createTestTicket("ticket", user.ID, user2.ID, nil)

	body, _ := json.Marshal(map[string]interface{}{"status": "CLOSED"})

	c, w := suite.createContext("PATCH", "/api/tickets/1", body, suite.principalFor(user2))
	c.Params = gin.Params{{Key: "id", Value: itoa(ticket.ID)}}

	suite.handler.UpdateTicket(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *TicketHandlerTestSuite) TestUpdateTicket_InvalidStatus() {
	user := suite.createTestUser("user@example.com")
	ticket := suite.createTestTicket("ticket", user.ID, user.ID, nil)

	body, _ := json.Marshal(map[string]interface{}{"status": "RESOLVED"})

	c, w := suite.createContext("PATCH", "/api/tickets/1", body, suite.principalFor(user))
	c.Params = gin.Params{{Key: "id", Value: itoa(ticket.ID)}}

	suite.handler.UpdateTicket(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestDeleteTicket covers the ownership scenario: the assignee may not
// delete, the creator may, and comments cascade with the ticket.
func (suite *TicketHandlerTestSuite) TestDeleteTicket() {
	user := suite.createTestUser("user@example.com")
	user2 := suite.createTestUser("user2@example.com")
	ticket := suite.createTestTicket("ticket", user.ID, user2.ID, nil)
	suite.createTestComment(&user2.ID, ticket.ID)

	// Assignee is not the owner
	c, w := suite.createContext("DELETE", "/api/tickets/1", nil, suite.principalFor(user2))
	c.Params = gin.Params{{Key: "id", Value: itoa(ticket.ID)}}

	suite.handler.DeleteTicket(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	// Creator may delete
	c, w = suite.createContext("DELETE", "/api/tickets/1", nil, suite.principalFor(user))
	c.Params = gin.Params{{Key: "id", Value: itoa(ticket.ID)}}

	suite.handler.DeleteTicket(c)

	assert.Equal(suite.T(), http.StatusNoContent, w.Code)
	assert.Empty(suite.T(), w.Body.Bytes())

	var ticketCount, commentCount int64
	suite.db.Model(&models.Ticket{}).Count(&ticketCount)
	suite.db.Model(&models.Comment{}).Count(&commentCount)
	assert.Equal(suite.T(), int64(0), ticketCount)
	assert.Equal(suite.T(), int64(0), commentCount)
}

func (suite *TicketHandlerTestSuite) TestDeleteTicket_SuperuserOverride() {
	user := suite.createTestUser("user@example.com")
	admin := suite.createTestUser("admin@example.com")
	suite.db.Model(admin).Update("is_superuser", true)
	ticket := suite.createTestTicket("ticket", user.ID, user.ID, nil)

	c, w := suite.createContext("DELETE", "/api/tickets/1", nil, permissions.NewPrincipal(admin.ID, true, false))
	c.Params = gin.Params{{Key: "id", Value: itoa(ticket.ID)}}

	suite.handler.DeleteTicket(c)

	assert.Equal(suite.T(), http.StatusNoContent, w.Code)
}

func (suite *TicketHandlerTestSuite) TestGetTicket_NotFound() {
	c, w := suite.createContext("GET", "/api/tickets/999", nil, permissions.Anonymous)
	c.Params = gin.Params{{Key: "id", Value: "999"}}

	suite.handler.GetTicket(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *TicketHandlerTestSuite) TestStats() {
	user := suite.createTestUser("user@example.com")
	suite.createTestTicket("open", user.ID, user.ID, nil)
	suite.createTestTicket("in progress", user.ID, user.ID, func(t *models.Ticket) {
		t.Status = models.TicketStatusInProgress
	})

	c, w := suite.createContext("GET", "/api/tickets/stats", nil, permissions.Anonymous)

	suite.handler.Stats(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), float64(2), response["total"])
	assert.Equal(suite.T(), float64(1), response["open_count"])
	assert.Equal(suite.T(), float64(1), response["in_progress_count"])
	assert.Equal(suite.T(), float64(0), response["closed_count"])
	assert.Equal(suite.T(), float64(0), response["avg_closing_minutes"])
}

// TestTicketHandlerTestSuite runs the test suite
func TestTicketHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TicketHandlerTestSuite))
}
