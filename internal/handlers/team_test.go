package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/academic-task-api/internal/dto"
	"github.com/yukikurage/academic-task-api/internal/testutil"
)

func (s *HandlerTestSuite) TestTeams() {
	w := s.as(s.staff, http.MethodPost, "/api/teams", gin.H{
		"name":       "Robotics",
		"lead_id":    s.staff.ID,
		"member_ids": []uint64{s.student.ID, s.staff.ID, s.student.ID},
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var team dto.TeamDTO
	s.decode(w, &team)
	s.Require().NotNil(team.Lead)
	s.Equal(s.staff.ID, team.Lead.ID)
	s.Require().Len(team.Members, 1)
	s.Equal(s.student.ID, team.Members[0].ID)

	w = s.as(s.staff, http.MethodPost, "/api/teams", gin.H{
		"name":       "Hidden",
		"lead_id":    s.staff.ID,
		"member_ids": []uint64{s.outsider.ID},
	})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(http.StatusForbidden, s.as(s.student, http.MethodPost, "/api/teams", gin.H{"name": "x", "lead_id": s.student.ID}).Code)

	teamURL := urlf("/api/teams/%d", team.ID)
	s.Equal(http.StatusOK, s.as(s.student, http.MethodGet, teamURL, nil).Code)
	s.Equal(http.StatusNotFound, s.as(s.outsider, http.MethodGet, teamURL, nil).Code)

	w = s.as(s.student, http.MethodGet, teamURL+"/members", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var members struct {
		Lead    *dto.UserRefDTO  `json:"lead"`
		Members []dto.UserRefDTO `json:"members"`
	}
	s.decode(w, &members)
	s.Require().NotNil(members.Lead)
	s.Len(members.Members, 1)

	w = s.as(s.student, http.MethodGet, "/api/teams", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var listed struct {
		Teams []dto.TeamDTO `json:"teams"`
	}
	s.decode(w, &listed)
	s.Len(listed.Teams, 1)

	s.Equal(http.StatusForbidden, s.as(s.student, http.MethodPut, teamURL, gin.H{"name": "Mine", "lead_id": s.student.ID}).Code)

	w = s.as(s.hod, http.MethodPut, teamURL, gin.H{
		"name":       "Robotics Club",
		"lead_id":    s.student.ID,
		"member_ids": []uint64{s.staff.ID},
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.decode(w, &team)
	s.Equal("Robotics Club", team.Name)
	s.Equal(s.student.ID, team.LeadID)
	s.Require().Len(team.Members, 1)
	s.Equal(s.staff.ID, team.Members[0].ID)

	s.Equal(http.StatusOK, s.as(s.student, http.MethodDelete, teamURL, nil).Code)
	s.Equal(http.StatusNotFound, s.as(s.hod, http.MethodGet, teamURL, nil).Code)
}

func (s *HandlerTestSuite) TestEvents() {
	team := testutil.CreateTeam(s.T(), s.db, s.staff, s.student)

	w := s.as(s.staff, http.MethodPost, "/api/events", gin.H{
		"name":       "Hackathon",
		"start_date": "2026-03-01T09:00:00Z",
		"end_date":   "2026-02-28T09:00:00Z",
		"team_ids":   []uint64{team.ID},
	})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.as(s.staff, http.MethodPost, "/api/events", gin.H{
		"name":       "Hackathon",
		"start_date": "2026-03-01T09:00:00Z",
		"end_date":   "2026-03-02T18:00:00Z",
		"team_ids":   []uint64{team.ID, 99999},
	})
	s.Equal(http.StatusNotFound, w.Code)

	w = s.as(s.staff, http.MethodPost, "/api/events", gin.H{
		"name":       "Hackathon",
		"start_date": "2026-03-01T09:00:00Z",
		"end_date":   "2026-03-02T18:00:00Z",
		"team_ids":   []uint64{team.ID},
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var event dto.EventDTO
	s.decode(w, &event)
	s.Require().Len(event.Teams, 1)
	s.Equal(team.ID, event.Teams[0].ID)

	s.Equal(http.StatusForbidden, s.as(s.student, http.MethodPost, "/api/events", gin.H{"name": "x"}).Code)

	var listed struct {
		Events []dto.EventDTO `json:"events"`
	}
	w = s.as(s.student, http.MethodGet, "/api/events", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &listed)
	s.Len(listed.Events, 1)

	w = s.as(s.outsider, http.MethodGet, "/api/events", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &listed)
	s.Empty(listed.Events)
}
