package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"todoapi/internal/core/model/response"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"
)

type TodoHandlerSuite struct {
	suite.Suite
	Router *gin.Engine
	Token  string
}

func (s *TodoHandlerSuite) SetupTest() {
	s.Router = newTestRouter()
	s.Token = s.register("todos@test.com")
}

func TestTodoHandlerSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(TodoHandlerSuite))
}

func (s *TodoHandlerSuite) register(email string) string {
	rr := performJSON(s.Router, "POST", "/api/v1/auth/register", `{"email": "`+email+`", "password": "12345678"}`, "")

	s.Require().Equal(http.StatusCreated, rr.Code)

	var data response.AuthResponse
	json.Unmarshal(rr.Body.Bytes(), &data)

	return data.AccessToken
}

func (s *TodoHandlerSuite) createTodo(token, body string) response.TodoResponse {
	rr := performJSON(s.Router, "POST", "/api/v1/todos", body, token)

	s.Require().Equal(http.StatusCreated, rr.Code)

	var data response.TodoResponse
	json.Unmarshal(rr.Body.Bytes(), &data)

	return data
}

func (s *TodoHandlerSuite) TestCreateTodoSuccess() {
	todo := s.createTodo(s.Token, `{"title": "Write handler tests", "description": "cover the routes", "tags": ["work", "work", "urgent"]}`)

	Expect(todo.ID).To(BeNumerically(">", 0))
	Expect(todo.Title).To(Equal("Write handler tests"))
	Expect(todo.Completed).To(BeFalse())
	Expect(todo.Tags).To(HaveLen(2))
}

func (s *TodoHandlerSuite) TestCreateTodoValidationError() {
	rr := performJSON(s.Router, "POST", "/api/v1/todos", `{"title": "ab"}`, s.Token)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))

	var data response.ErrorResponse
	json.Unmarshal(rr.Body.Bytes(), &data)

	Expect(data.Error.Code).To(Equal("VALIDATION_ERROR"))
}

func (s *TodoHandlerSuite) TestTodosRequireToken() {
	rr := performJSON(s.Router, "GET", "/api/v1/todos", "", "")

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
}

func (s *TodoHandlerSuite) TestListTodosEnvelope() {
	for i := 0; i < 3; i++ {
		s.createTodo(s.Token, fmt.Sprintf(`{"title": "Task number %d"}`, i))
	}

	rr := performJSON(s.Router, "GET", "/api/v1/todos?limit=2&offset=0", "", s.Token)

	Expect(rr.Code).To(Equal(http.StatusOK))

	var page response.TodoPage
	json.Unmarshal(rr.Body.Bytes(), &page)

	Expect(page.Items).To(HaveLen(2))
	Expect(page.Total).To(Equal(3))
	Expect(page.Limit).To(Equal(2))
	Expect(page.Offset).To(Equal(0))
}

func (s *TodoHandlerSuite) TestListTodosClampsLimit() {
	s.createTodo(s.Token, `{"title": "Single task"}`)

	rr := performJSON(s.Router, "GET", "/api/v1/todos?limit=500", "", s.Token)

	Expect(rr.Code).To(Equal(http.StatusOK))

	var page response.TodoPage
	json.Unmarshal(rr.Body.Bytes(), &page)

	Expect(page.Limit).To(Equal(100))
}

func (s *TodoHandlerSuite) TestListTodosBadCompletedFlag() {
	rr := performJSON(s.Router, "GET", "/api/v1/todos?completed=banana", "", s.Token)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
}

func (s *TodoHandlerSuite) TestGetForeignTodoIsNotFound() {
	todo := s.createTodo(s.Token, `{"title": "Mine alone"}`)

	otherToken := s.register("intruder@test.com")

	rr := performJSON(s.Router, "GET", fmt.Sprintf("/api/v1/todos/%d", todo.ID), "", otherToken)

	Expect(rr.Code).To(Equal(http.StatusNotFound))
}

func (s *TodoHandlerSuite) TestPatchTodoPartial() {
	todo := s.createTodo(s.Token, `{"title": "Patch me", "description": "original"}`)

	rr := performJSON(s.Router, "PATCH", fmt.Sprintf("/api/v1/todos/%d", todo.ID), `{"completed": true}`, s.Token)

	Expect(rr.Code).To(Equal(http.StatusOK))

	var updated response.TodoResponse
	json.Unmarshal(rr.Body.Bytes(), &updated)

	Expect(updated.Completed).To(BeTrue())
	Expect(updated.Title).To(Equal("Patch me"))
	Expect(updated.Description).To(Equal("original"))
}

func (s *TodoHandlerSuite) TestPatchTodoClearsDescription() {
	todo := s.createTodo(s.Token, `{"title": "Patch me", "description": "to be removed"}`)

	rr := performJSON(s.Router, "PATCH", fmt.Sprintf("/api/v1/todos/%d", todo.ID), `{"description": null}`, s.Token)

	Expect(rr.Code).To(Equal(http.StatusOK))

	var updated response.TodoResponse
	json.Unmarshal(rr.Body.Bytes(), &updated)

	Expect(updated.Description).To(BeEmpty())
}

func (s *TodoHandlerSuite) TestPatchTodoNullTitleRejected() {
	todo := s.createTodo(s.Token, `{"title": "Title stays"}`)

	rr := performJSON(s.Router, "PATCH", fmt.Sprintf("/api/v1/todos/%d", todo.ID), `{"title": null}`, s.Token)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
}

func (s *TodoHandlerSuite) TestPatchTodoReplacesTags() {
	todo := s.createTodo(s.Token, `{"title": "Retag me", "tags": ["old"]}`)

	rr := performJSON(s.Router, "PATCH", fmt.Sprintf("/api/v1/todos/%d", todo.ID), `{"tags": []}`, s.Token)

	Expect(rr.Code).To(Equal(http.StatusOK))

	var updated response.TodoResponse
	json.Unmarshal(rr.Body.Bytes(), &updated)

	Expect(updated.Tags).To(BeEmpty())
}

func (s *TodoHandlerSuite) TestDeleteTodo() {
	todo := s.createTodo(s.Token, `{"title": "Delete me"}`)

	rr := performJSON(s.Router, "DELETE", fmt.Sprintf("/api/v1/todos/%d", todo.ID), "", s.Token)

	Expect(rr.Code).To(Equal(http.StatusOK))

	rr = performJSON(s.Router, "DELETE", fmt.Sprintf("/api/v1/todos/%d", todo.ID), "", s.Token)

	Expect(rr.Code).To(Equal(http.StatusNotFound))
}

func (s *TodoHandlerSuite) TestCompleteTodo() {
	todo := s.createTodo(s.Token, `{"title": "Finish me"}`)

	rr := performJSON(s.Router, "POST", fmt.Sprintf("/api/v1/todos/%d/complete", todo.ID), "", s.Token)

	Expect(rr.Code).To(Equal(http.StatusOK))

	var completed response.TodoResponse
	json.Unmarshal(rr.Body.Bytes(), &completed)

	Expect(completed.Completed).To(BeTrue())
}

func (s *TodoHandlerSuite) TestOverdueAndTodayWindows() {
	past := time.Now().UTC().Add(-48 * time.Hour).Format(time.RFC3339)
	today := time.Now().UTC().Format(time.RFC3339)

	s.createTodo(s.Token, fmt.Sprintf(`{"title": "Long overdue", "due_date": %q}`, past))
	s.createTodo(s.Token, fmt.Sprintf(`{"title": "Due right now", "due_date": %q}`, today))

	rr := performJSON(s.Router, "GET", "/api/v1/todos/overdue", "", s.Token)

	Expect(rr.Code).To(Equal(http.StatusOK))

	var overdue response.TodoPage
	json.Unmarshal(rr.Body.Bytes(), &overdue)

	Expect(overdue.Total).To(Equal(2))
	Expect(overdue.Items[0].Title).To(Equal("Long overdue"))

	rr = performJSON(s.Router, "GET", "/api/v1/todos/today", "", s.Token)

	Expect(rr.Code).To(Equal(http.StatusOK))

	var due response.TodoPage
	json.Unmarshal(rr.Body.Bytes(), &due)

	Expect(due.Total).To(Equal(1))
	Expect(due.Items[0].Title).To(Equal("Due right now"))
}

func (s *TodoHandlerSuite) TestBadTodoID() {
	rr := performJSON(s.Router, "GET", "/api/v1/todos/abc", "", s.Token)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
}
