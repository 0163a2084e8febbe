package controllers

import (
	"docchain-backend/middlewares"
	"docchain-backend/models"
	"docchain-backend/utils"

	"github.com/gofiber/fiber/v2"
)

type customerInput struct {
	Name         string `json:"name" validate:"required"`
	CompanyName  string `json:"company_name"`
	Address      string `json:"address" validate:"required"`
	City         string `json:"city"`
	Country      string `json:"country"`
	Zip          string `json:"zip"`
	TaxID        string `json:"tax_id"`
	Email        string `json:"email" validate:"required,email"`
	PhoneNumber  string `json:"phone_number"`
	MobileNumber string `json:"mobile_number"`
	Notes        string `json:"notes"`
}

func CreateCustomer(c *fiber.Ctx) error {
	var input customerInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizeDTO(&input)

	customer := models.Customer{
		Name:         input.Name,
		CompanyName:  input.CompanyName,
		Address:      input.Address,
		City:         input.City,
		Country:      input.Country,
		Zip:          input.Zip,
		TaxID:        input.TaxID,
		Email:        input.Email,
		PhoneNumber:  input.PhoneNumber,
		MobileNumber: input.MobileNumber,
		Notes:        input.Notes,
		Active:       true,
	}

	tx := middlewares.RequestDB(c)
	if err := tx.Create(&customer).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "could not create customer",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(customer)
}

func GetCustomers(c *fiber.Ctx) error {
	limit := utils.ParseIntDefault(c.Query("limit"), 50)
	offset := utils.ParseIntDefault(c.Query("offset"), 0)

	var customers []models.Customer
	middlewares.RequestDB(c).
		Where("active = ?", true).
		Limit(limit).Offset(offset).
		Find(&customers)
	return c.JSON(fiber.Map{
		"customers": customers,
		"message":   "success",
	})
}

func GetCustomer(c *fiber.Ctx) error {
	var customer models.Customer
	if err := middlewares.RequestDB(c).First(&customer, "id = ?", c.Params("id")).Error; err != nil {
		return err
	}
	return c.JSON(customer)
}

type customerUpdateInput struct {
	Name         *string `json:"name"`
	CompanyName  *string `json:"company_name"`
	Address      *string `json:"address"`
	City         *string `json:"city"`
	Country      *string `json:"country"`
	Zip          *string `json:"zip"`
	TaxID        *string `json:"tax_id"`
	Email        *string `json:"email"`
	PhoneNumber  *string `json:"phone_number"`
	MobileNumber *string `json:"mobile_number"`
	Notes        *string `json:"notes"`
}

func UpdateCustomer(c *fiber.Ctx) error {
	var input customerUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	utils.NormalizePtrDTO(&input)

	updates := utils.UpdatesFromPtrDTO(&input, nil)
	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "no fields to update"})
	}

	tx := middlewares.RequestDB(c)
	res := tx.Model(&models.Customer{}).Where("id = ?", c.Params("id")).Updates(updates)
	if res.Error != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "could not update customer",
			"error":   res.Error.Error(),
		})
	}
	if res.RowsAffected == 0 {
		return fiber.ErrNotFound
	}

	var customer models.Customer
	tx.First(&customer, "id = ?", c.Params("id"))
	return c.JSON(customer)
}

// DeleteCustomer deactivates rather than removes: issued documents keep
// their customer snapshot either way.
func DeleteCustomer(c *fiber.Ctx) error {
	tx := middlewares.RequestDB(c)
	res := tx.Model(&models.Customer{}).Where("id = ?", c.Params("id")).Update("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.ErrNotFound
	}
	return c.JSON(fiber.Map{"message": "success"})
}
