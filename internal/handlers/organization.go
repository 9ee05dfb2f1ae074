package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/academic-task-api/internal/dto"
	"github.com/yukikurage/academic-task-api/internal/services"
)

// OrganizationHandler serves the campus, school and department hierarchy.
type OrganizationHandler struct {
	orgService *services.OrganizationService
}

func NewOrganizationHandler(orgService *services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService}
}

type campusRequest struct {
	Name string `json:"name" binding:"required,notblank,max=255"`
}

type schoolRequest struct {
	Name     string `json:"name" binding:"required,notblank,max=255"`
	CampusID uint64 `json:"campus_id" binding:"required"`
}

type departmentRequest struct {
	Name     string  `json:"name" binding:"required,notblank,max=255"`
	SchoolID uint64  `json:"school_id" binding:"required"`
	CampusID *uint64 `json:"campus_id"`
}

func (h *OrganizationHandler) ListCampuses(c *gin.Context) {
	campuses, err := h.orgService.ListCampuses()
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]dto.CampusDTO, len(campuses))
	for i, campus := range campuses {
		items[i] = dto.ToCampusDTO(campus)
	}
	c.JSON(http.StatusOK, gin.H{"campuses": items})
}

func (h *OrganizationHandler) GetCampus(c *gin.Context) {
	id, ok := paramID(c, "id", "campus")
	if !ok {
		return
	}

	campus, err := h.orgService.GetCampus(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCampusDTO(*campus))
}

func (h *OrganizationHandler) CreateCampus(c *gin.Context) {
	var req campusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	campus, err := h.orgService.CreateCampus(req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToCampusDTO(*campus))
}

func (h *OrganizationHandler) UpdateCampus(c *gin.Context) {
	id, ok := paramID(c, "id", "campus")
	if !ok {
		return
	}

	var req campusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	campus, err := h.orgService.RenameCampus(id, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCampusDTO(*campus))
}

// DeleteCampus deletes a campus along with its schools and departments.
func (h *OrganizationHandler) DeleteCampus(c *gin.Context) {
	id, ok := paramID(c, "id", "campus")
	if !ok {
		return
	}

	if err := h.orgService.DeleteCampus(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Campus deleted successfully"})
}

// ListSchools lists schools, optionally for one campus (?campus_id=).
func (h *OrganizationHandler) ListSchools(c *gin.Context) {
	campusID, ok := queryID(c, "campus_id")
	if !ok {
		return
	}

	schools, err := h.orgService.ListSchools(campusID)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]dto.SchoolDTO, len(schools))
	for i, school := range schools {
		items[i] = dto.ToSchoolDTO(school)
	}
	c.JSON(http.StatusOK, gin.H{"schools": items})
}

func (h *OrganizationHandler) GetSchool(c *gin.Context) {
	id, ok := paramID(c, "id", "school")
	if !ok {
		return
	}

	school, err := h.orgService.GetSchool(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToSchoolDTO(*school))
}

func (h *OrganizationHandler) CreateSchool(c *gin.Context) {
	var req schoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	school, err := h.orgService.CreateSchool(services.SchoolInput{Name: req.Name, CampusID: req.CampusID})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToSchoolDTO(*school))
}

func (h *OrganizationHandler) UpdateSchool(c *gin.Context) {
	id, ok := paramID(c, "id", "school")
	if !ok {
		return
	}

	var req schoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	school, err := h.orgService.UpdateSchool(id, services.SchoolInput{Name: req.Name, CampusID: req.CampusID})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToSchoolDTO(*school))
}

func (h *OrganizationHandler) DeleteSchool(c *gin.Context) {
	id, ok := paramID(c, "id", "school")
	if !ok {
		return
	}

	if err := h.orgService.DeleteSchool(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "School deleted successfully"})
}

// ListDepartments lists departments, optionally for one school (?school_id=).
func (h *OrganizationHandler) ListDepartments(c *gin.Context) {
	schoolID, ok := queryID(c, "school_id")
	if !ok {
		return
	}

	departments, err := h.orgService.ListDepartments(schoolID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"departments": dto.ToDepartmentDTOs(departments)})
}

func (h *OrganizationHandler) GetDepartment(c *gin.Context) {
	id, ok := paramID(c, "id", "department")
	if !ok {
		return
	}

	dept, err := h.orgService.GetDepartment(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDepartmentDTO(*dept))
}

func (h *OrganizationHandler) CreateDepartment(c *gin.Context) {
	var req departmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	dept, err := h.orgService.CreateDepartment(services.DepartmentInput{
		Name:     req.Name,
		SchoolID: req.SchoolID,
		CampusID: req.CampusID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToDepartmentDTO(*dept))
}

func (h *OrganizationHandler) UpdateDepartment(c *gin.Context) {
	id, ok := paramID(c, "id", "department")
	if !ok {
		return
	}

	var req departmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	dept, err := h.orgService.UpdateDepartment(id, services.DepartmentInput{
		Name:     req.Name,
		SchoolID: req.SchoolID,
		CampusID: req.CampusID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDepartmentDTO(*dept))
}

func (h *OrganizationHandler) DeleteDepartment(c *gin.Context) {
	id, ok := paramID(c, "id", "department")
	if !ok {
		return
	}

	if err := h.orgService.DeleteDepartment(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Department deleted successfully"})
}
