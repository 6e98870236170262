package controllers

import (
	"epp-app/models"
	"errors"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type EmployeeController struct {
	DB *gorm.DB
}

func NewEmployeeController(DB *gorm.DB) *EmployeeController {
	return &EmployeeController{DB: DB}
}

func (c *EmployeeController) CreateEmployee(ctx *fiber.Ctx) error {

	var employeeInput struct {
		EmployeeCode string `json:"employee_code" validate:"required,min=3"`
		Name         string `json:"name" validate:"required,min=3"`
		Position     string `json:"position"`
	}

	// Parse Body
	if err := ctx.BodyParser(&employeeInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	// Validasi input menggunakan validator
	validate := validator.New()
	if err := validate.Struct(employeeInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	employee := models.Employee{
		SiteID:       siteFromCtx(ctx),
		EmployeeCode: employeeInput.EmployeeCode,
		Name:         employeeInput.Name,
		Position:     employeeInput.Position,
		IsActive:     true,
		CreatedBy:    actorFromCtx(ctx),
	}

	if err := c.DB.Create(&employee).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Employee created successfully", "data": employee})
}

func (c *EmployeeController) GetEmployees(ctx *fiber.Ctx) error {
	var employees []models.Employee
	if err := c.DB.Where("site_id = ?", siteFromCtx(ctx)).Order("employee_code ASC").Find(&employees).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": fiber.Map{"employees": employees}})
}

func (c *EmployeeController) DeactivateEmployee(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var employee models.Employee
	if err := c.DB.First(&employee, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Employee not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if err := c.DB.Model(&employee).Updates(map[string]interface{}{
		"is_active":  false,
		"updated_by": actorFromCtx(ctx),
	}).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Employee deactivated"})
}
