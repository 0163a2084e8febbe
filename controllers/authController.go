package controllers

import (
	"net/mail"
	"time"

	"docchain-backend/database"
	"docchain-backend/middlewares"
	"docchain-backend/models"
	"docchain-backend/utils"

	"github.com/gofiber/fiber/v2"
)

type registerInput struct {
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
	BusinessName    string `json:"business_name"`
	TaxID           string `json:"tax_id"`
}

// Register creates the freelancer account. The account doubles as the
// business profile printed on generated documents.
func Register(c *fiber.Ctx) error {
	var input registerInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizeDTO(&input)

	if input.Password != input.PasswordConfirm {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "passwords do not match",
		})
	}

	tx := middlewares.RequestDB(c)

	var mailExist models.Freelancer
	tx.Where("email = ?", input.Email).First(&mailExist)
	if mailExist.Email != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "email already exists",
		})
	}

	freelancer := models.Freelancer{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		BusinessName: input.BusinessName,
		TaxID:        input.TaxID,
	}
	freelancer.SetPassword(input.Password)
	if err := tx.Create(&freelancer).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "could not create account",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(freelancer)
}

func Login(c *fiber.Ctx) error {
	var data map[string]string
	if err := c.BodyParser(&data); err != nil {
		return err
	}

	if _, err := mail.ParseAddress(data["email"]); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid email format",
		})
	}

	var freelancer models.Freelancer
	database.DB.Where("email = ?", data["email"]).First(&freelancer)
	if freelancer.Id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid credentials",
		})
	}

	if err := freelancer.ComparePassword(data["password"]); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid credentials",
		})
	}

	token, err := middlewares.GenerateJWT(freelancer.Id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "could not issue token",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":    freelancer.Id,
			"name":  freelancer.FirstName + " " + freelancer.LastName,
			"email": freelancer.Email,
		},
	})
}

func Logout(c *fiber.Ctx) error {
	cookie := fiber.Cookie{
		Name:     "jwt",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	}
	c.Cookie(&cookie)
	return c.JSON(fiber.Map{
		"message": "success",
	})
}

// GetProfile returns the authenticated freelancer's business profile.
func GetProfile(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)

	var freelancer models.Freelancer
	if err := database.DB.First(&freelancer, "id = ?", userID).Error; err != nil {
		return err
	}
	return c.JSON(freelancer)
}

type profileUpdateInput struct {
	FirstName         *string `json:"first_name"`
	LastName          *string `json:"last_name"`
	BusinessName      *string `json:"business_name"`
	Address           *string `json:"address"`
	City              *string `json:"city"`
	Country           *string `json:"country"`
	Zip               *string `json:"zip"`
	TaxID             *string `json:"tax_id"`
	PhoneNumber       *string `json:"phone_number"`
	BankName          *string `json:"bank_name"`
	BankAccountName   *string `json:"bank_account_name"`
	BankAccountNumber *string `json:"bank_account_number"`
	LogoPath          *string `json:"logo_path"`
	SignaturePath     *string `json:"signature_path"`
}

// UpdateProfile patches the business profile; only provided fields change.
func UpdateProfile(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)

	var input profileUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	utils.NormalizePtrDTO(&input)

	updates := utils.UpdatesFromPtrDTO(&input, nil)
	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "no fields to update"})
	}

	tx := middlewares.RequestDB(c)
	if err := tx.Model(&models.Freelancer{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "could not update profile",
			"error":   err.Error(),
		})
	}

	var freelancer models.Freelancer
	tx.First(&freelancer, "id = ?", userID)
	return c.JSON(freelancer)
}
