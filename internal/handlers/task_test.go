package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/academic-task-api/internal/dto"
	"github.com/yukikurage/academic-task-api/internal/models"
	"github.com/yukikurage/academic-task-api/internal/services"
	"github.com/yukikurage/academic-task-api/internal/testutil"
)

func (s *HandlerTestSuite) createTasks(user *models.User, body gin.H) []dto.TaskDTO {
	w := s.as(user, http.MethodPost, "/api/tasks", body)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Tasks []dto.TaskDTO `json:"tasks"`
	}
	s.decode(w, &created)
	return created.Tasks
}

func (s *HandlerTestSuite) TestCreateTask() {
	tasks := s.createTasks(s.staff, gin.H{
		"title":          "Write report",
		"assigned_to_id": s.student.ID,
		"priority":       "high",
		"sprint":         "Sprint 1",
	})
	s.Require().Len(tasks, 1)
	s.Equal(models.TaskStatusTodo, tasks[0].Status)
	s.Equal(models.TaskPriorityHigh, tasks[0].Priority)
	s.Equal(s.staff.ID, tasks[0].AssignedByID)
	s.Require().NotNil(tasks[0].AssignedTo)
	s.Equal(s.student.Username, tasks[0].AssignedTo.Username)

	team := testutil.CreateTeam(s.T(), s.db, s.staff, s.student)
	tasks = s.createTasks(s.staff, gin.H{"title": "Team task", "team_id": team.ID})
	s.Len(tasks, 2)

	w := s.as(s.staff, http.MethodPost, "/api/tasks", gin.H{"title": "Nobody"})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.as(s.staff, http.MethodPost, "/api/tasks", gin.H{"title": "Hidden", "assigned_to_id": s.outsider.ID})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.as(s.staff, http.MethodPost, "/api/tasks", gin.H{
		"title":          "Bad status",
		"assigned_to_id": s.student.ID,
		"status":         "blocked",
	})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(w.Body.String(), "status")

	s.Equal(http.StatusForbidden, s.as(s.student, http.MethodPost, "/api/tasks", gin.H{"title": "x"}).Code)
}

func (s *HandlerTestSuite) TestListTasks() {
	for i := 0; i < 3; i++ {
		testutil.CreateTask(s.T(), s.db, s.staff, s.student, testutil.InSprint("Sprint 2"))
	}
	testutil.CreateTask(s.T(), s.db, s.staff, s.staff, testutil.WithStatus(models.TaskStatusInProgress))

	w := s.as(s.student, http.MethodGet, "/api/tasks?limit=2", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var page dto.TaskListResponse
	s.decode(w, &page)
	s.Len(page.Tasks, 2)
	s.Equal(int64(3), page.TotalCount)
	s.Equal(2, page.TotalPages)

	w = s.as(s.staff, http.MethodGet, "/api/tasks?status=in_progress", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &page)
	s.Equal(int64(1), page.TotalCount)

	w = s.as(s.staff, http.MethodGet, "/api/tasks?assigned_to_me=true", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &page)
	s.Equal(int64(1), page.TotalCount)

	s.Equal(http.StatusBadRequest, s.as(s.staff, http.MethodGet, "/api/tasks?status=later", nil).Code)
	s.Equal(http.StatusBadRequest, s.as(s.staff, http.MethodGet, "/api/tasks?assigned_to_me=maybe", nil).Code)
	s.Equal(http.StatusNotFound, s.as(s.staff, http.MethodGet, "/api/tasks?project=99999", nil).Code)

	w = s.as(s.staff, http.MethodGet, "/api/tasks/board", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var board struct {
		Columns []dto.BoardColumnDTO `json:"columns"`
	}
	s.decode(w, &board)
	s.Require().Len(board.Columns, 4)
	s.Equal(models.TaskStatusTodo, board.Columns[0].Status)
	s.Len(board.Columns[0].Tasks, 3)
	s.Len(board.Columns[1].Tasks, 1)

	w = s.as(s.student, http.MethodGet, "/api/tasks/sprints", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var sprints struct {
		Sprints []string `json:"sprints"`
	}
	s.decode(w, &sprints)
	s.Equal([]string{"Sprint 2"}, sprints.Sprints)
}

func (s *HandlerTestSuite) TestTaskLifecycle() {
	task := testutil.CreateTask(s.T(), s.db, s.staff, s.student)
	taskURL := urlf("/api/tasks/%d", task.ID)

	s.Equal(http.StatusNotFound, s.as(s.outsider, http.MethodGet, taskURL, nil).Code)

	w := s.as(s.student, http.MethodGet, taskURL, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var detail struct {
		Task     dto.TaskDTO      `json:"task"`
		SubTasks []dto.SubTaskDTO `json:"subtasks"`
	}
	s.decode(w, &detail)
	s.Equal(task.Title, detail.Task.Title)
	s.Empty(detail.SubTasks)

	s.Equal(http.StatusForbidden, s.as(s.student, http.MethodPatch, taskURL, gin.H{"title": "Mine now"}).Code)

	var updated dto.TaskDTO
	w = s.as(s.student, http.MethodPost, taskURL+"/timer/start", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &updated)
	s.Equal(models.TaskStatusInProgress, updated.Status)
	s.True(updated.IsRunning)

	w = s.as(s.student, http.MethodPost, taskURL+"/timer/stop", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &updated)
	s.Equal(models.TaskStatusInReview, updated.Status)
	s.False(updated.IsRunning)

	s.Equal(http.StatusForbidden, s.as(s.student, http.MethodPost, taskURL+"/review", nil).Code)

	w = s.as(s.staff, http.MethodPost, taskURL+"/review", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &updated)
	s.Equal(models.TaskStatusDone, updated.Status)

	w = s.as(s.student, http.MethodPost, taskURL+"/status", gin.H{"status": "in_progress"})
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &updated)
	s.True(updated.IsRunning)
	s.Equal(http.StatusBadRequest, s.as(s.student, http.MethodPost, taskURL+"/status", gin.H{"status": "paused"}).Code)

	w = s.as(s.staff, http.MethodPatch, taskURL, gin.H{
		"title":    "Revised",
		"priority": "low",
		"sprint":   "Sprint 3",
	})
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &updated)
	s.Equal("Revised", updated.Title)
	s.Equal(models.TaskPriorityLow, updated.Priority)
	s.Equal("Sprint 3", updated.Sprint)

	s.Equal(http.StatusForbidden, s.as(s.student, http.MethodDelete, taskURL, nil).Code)
	s.Equal(http.StatusOK, s.as(s.staff, http.MethodDelete, taskURL, nil).Code)
	s.Equal(http.StatusNotFound, s.as(s.staff, http.MethodGet, taskURL, nil).Code)
}

func (s *HandlerTestSuite) TestSubTasksAndComments() {
	task := testutil.CreateTask(s.T(), s.db, s.staff, s.student)
	taskURL := urlf("/api/tasks/%d", task.ID)

	w := s.as(s.staff, http.MethodPost, taskURL+"/subtasks", gin.H{
		"title":          "Collect sources",
		"assigned_to_id": s.student.ID,
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var subtask dto.SubTaskDTO
	s.decode(w, &subtask)
	s.Equal(models.TaskStatusTodo, subtask.Status)
	subURL := urlf("/api/subtasks/%d", subtask.ID)

	s.Equal(http.StatusBadRequest, s.as(s.staff, http.MethodPost, taskURL+"/subtasks", gin.H{}).Code)

	w = s.as(s.student, http.MethodPost, subURL+"/timer/start", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &subtask)
	s.True(subtask.IsRunning)

	w = s.as(s.student, http.MethodPost, subURL+"/timer/stop", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &subtask)
	s.Equal(models.TaskStatusInReview, subtask.Status)
	spent := subtask.TimeSpentSeconds

	w = s.as(s.student, http.MethodPost, subURL+"/time", gin.H{"seconds": 90})
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &subtask)
	s.Equal(spent+90, subtask.TimeSpentSeconds)
	s.Equal(http.StatusBadRequest, s.as(s.student, http.MethodPost, subURL+"/time", gin.H{"seconds": -5}).Code)

	w = s.as(s.student, http.MethodPatch, subURL, gin.H{"is_completed": true})
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &subtask)
	s.True(subtask.IsCompleted)
	s.Equal(models.TaskStatusDone, subtask.Status)

	s.Equal(http.StatusNotFound, s.as(s.outsider, http.MethodPatch, subURL, gin.H{"is_completed": false}).Code)

	w = s.as(s.student, http.MethodGet, taskURL+"/subtasks", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var subtasks struct {
		SubTasks []dto.SubTaskDTO `json:"subtasks"`
	}
	s.decode(w, &subtasks)
	s.Len(subtasks.SubTasks, 1)

	w = s.as(s.student, http.MethodPost, taskURL+"/comments", gin.H{"text": "Started on this"})
	s.Require().Equal(http.StatusCreated, w.Code)
	s.Equal(http.StatusBadRequest, s.as(s.student, http.MethodPost, taskURL+"/comments", gin.H{"text": "  "}).Code)

	w = s.as(s.staff, http.MethodGet, taskURL+"/comments", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var comments struct {
		Comments []dto.CommentDTO `json:"comments"`
	}
	s.decode(w, &comments)
	s.Require().Len(comments.Comments, 1)
	s.Equal("Started on this", comments.Comments[0].Text)
}

func (s *HandlerTestSuite) TestWorkLogs() {
	task := testutil.CreateTask(s.T(), s.db, s.staff, s.student)
	taskURL := urlf("/api/tasks/%d", task.ID)

	s.Equal(http.StatusForbidden, s.as(s.staff, http.MethodPost, taskURL+"/worklogs", nil).Code)

	w := s.as(s.student, http.MethodPost, taskURL+"/worklogs", nil)
	s.Require().Equal(http.StatusCreated, w.Code)
	var log dto.WorkLogDTO
	s.decode(w, &log)
	s.Nil(log.EndTime)

	s.Equal(http.StatusNotFound, s.as(s.staff, http.MethodPost, urlf("/api/worklogs/%d/stop", log.ID), nil).Code)

	w = s.as(s.student, http.MethodPost, urlf("/api/worklogs/%d/stop", log.ID), nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &log)
	s.NotNil(log.EndTime)
	s.GreaterOrEqual(log.DurationSeconds, int64(0))

	s.Equal(http.StatusOK, s.as(s.student, http.MethodPost, urlf("/api/worklogs/%d/stop", log.ID), nil).Code)
}

func (s *HandlerTestSuite) TestSuggestSubTasks() {
	task := testutil.CreateTask(s.T(), s.db, s.staff, s.student)
	suggestURL := urlf("/api/tasks/%d/subtasks/suggest", task.ID)

	s.suggester.suggestions = []services.SuggestedSubTask{
		{Title: "Outline", Description: "Sketch the sections"},
		{Title: "   "},
		{Title: "Draft"},
	}
	w := s.as(s.staff, http.MethodPost, suggestURL, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var suggested struct {
		SubTasks []dto.SuggestedSubTaskDTO `json:"subtasks"`
	}
	s.decode(w, &suggested)
	s.Require().Len(suggested.SubTasks, 2)
	s.Equal("Outline", suggested.SubTasks[0].Title)

	s.suggester.suggestions = nil
	s.suggester.err = errors.New("upstream timeout")
	s.Equal(http.StatusInternalServerError, s.as(s.staff, http.MethodPost, suggestURL, nil).Code)

	unconfigured := s.newRouter(nil)
	w = s.serve(unconfigured, http.MethodPost, suggestURL, nil, s.sessionFor(s.staff))
	s.Equal(http.StatusServiceUnavailable, w.Code)
}
