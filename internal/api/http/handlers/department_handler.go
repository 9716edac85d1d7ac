package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/student-management/internal/api/dto"
	"github.com/spec-kit/student-management/internal/domain"
	"github.com/spec-kit/student-management/internal/service"
)

// DepartmentHandler exposes department endpoints.
type DepartmentHandler struct {
	departments *service.DepartmentService
}

// NewDepartmentHandler constructs handler.
func NewDepartmentHandler(departments *service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{departments: departments}
}

// Create handles POST /api/v1/departments.
func (h *DepartmentHandler) Create(c *fiber.Ctx) error {
	var req dto.DepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	dept, err := h.departments.Create(c.UserContext(), service.DepartmentInput{
		Name:     req.Name,
		Location: req.Location,
		Phone:    req.Phone,
		Head:     req.Head,
	})
	if err != nil {
		return err
	}
	c.Location("/api/v1/departments/" + dept.ID)
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": departmentResponse(dept)})
}

// Get handles GET /api/v1/departments/:id.
func (h *DepartmentHandler) Get(c *fiber.Ctx) error {
	dept, err := h.departments.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": departmentResponse(dept)})
}

func departmentResponse(dept *domain.Department) dto.DepartmentResponse {
	return dto.DepartmentResponse{
		ID:       dept.ID,
		Name:     dept.Name,
		Location: dept.Location,
		Phone:    dept.Phone,
		Head:     dept.Head,
	}
}
