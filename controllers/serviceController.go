package controllers

import (
	"fmt"

	"docchain-backend/middlewares"
	"docchain-backend/models"
	"docchain-backend/utils"

	"github.com/gofiber/fiber/v2"
)

type serviceInput struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
}

// CreateServices batch-creates catalog entries.
func CreateServices(c *fiber.Ctx) error {
	var inputs []serviceInput
	if err := c.BodyParser(&inputs); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid request body",
			"error":   err.Error(),
		})
	}

	tx := middlewares.RequestDB(c)
	var created []models.Service

	for i := range inputs {
		if err := middlewares.ValidateStruct(&inputs[i]); err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"message": fmt.Sprintf("invalid service at index %d", i),
				"error":   err.Error(),
			})
		}
		utils.NormalizeDTO(&inputs[i])

		service := models.Service{
			Name:        inputs[i].Name,
			Description: inputs[i].Description,
			Unit:        inputs[i].Unit,
			UnitPrice:   inputs[i].UnitPrice,
			Active:      true,
		}
		if err := tx.Create(&service).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": fmt.Sprintf("could not create service at index %d", i),
				"error":   err.Error(),
			})
		}
		created = append(created, service)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func GetServices(c *fiber.Ctx) error {
	var services []models.Service
	middlewares.RequestDB(c).Where("active = ?", true).Find(&services)
	return c.JSON(fiber.Map{
		"services": services,
		"message":  "success",
	})
}

type serviceUpdateInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Unit        *string  `json:"unit"`
	UnitPrice   *float64 `json:"unit_price"`
	Active      *bool    `json:"active"`
}

func UpdateService(c *fiber.Ctx) error {
	var input serviceUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if input.UnitPrice != nil && *input.UnitPrice < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "unit price must not be negative"})
	}
	utils.NormalizePtrDTO(&input)

	updates := utils.UpdatesFromPtrDTO(&input, nil)
	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "no fields to update"})
	}

	tx := middlewares.RequestDB(c)
	res := tx.Model(&models.Service{}).Where("id = ?", c.Params("id")).Updates(updates)
	if res.Error != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "could not update service",
			"error":   res.Error.Error(),
		})
	}
	if res.RowsAffected == 0 {
		return fiber.ErrNotFound
	}

	var service models.Service
	tx.First(&service, "id = ?", c.Params("id"))
	return c.JSON(service)
}
