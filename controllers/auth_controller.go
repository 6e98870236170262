package controllers

import (
	"epp-app/config"
	"epp-app/models"
	"errors"
	"time"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(DB *gorm.DB) *AuthController {
	return &AuthController{DB: DB}
}

func (c *AuthController) Login(ctx *fiber.Ctx) error {

	var loginInput struct {
		Username string `json:"username" validate:"required,min=3"`
		Password string `json:"password" validate:"required,min=3"`
	}

	// Parse Body
	if err := ctx.BodyParser(&loginInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	// Validasi input menggunakan validator
	validate := validator.New()
	if err := validate.Struct(loginInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var mUser models.User
	if err := c.DB.Where("username = ?", loginInput.Username).First(&mUser).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.loginFailed(ctx, loginInput.Username, "user not found")
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(mUser.Password), []byte(loginInput.Password)); err != nil {
		return c.loginFailed(ctx, loginInput.Username, "wrong password")
	}

	now := time.Now()
	uid := uint64(mUser.ID)
	loginLog := models.LoginLog{
		UserID:      &uid,
		Username:    mUser.Username,
		IPAddress:   ctx.IP(),
		UserAgent:   ctx.Get("User-Agent"),
		LoginAt:     &now,
		LoginStatus: "SUCCESS",
	}
	c.DB.Create(&loginLog)

	// Buat access token JWT
	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": mUser.ID,
		"site_id": mUser.SiteID,
		"role":    mUser.Role,
		"exp":     time.Now().Add(time.Duration(config.JWTExpiration) * time.Second).Unix(),
	})

	accessTokenString, err := accessToken.SignedString([]byte(config.JWTSecret))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to generate token",
		})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"access_token": accessTokenString,
			"user": fiber.Map{
				"username": mUser.Username,
				"name":     mUser.Name,
				"role":     mUser.Role,
				"site_id":  mUser.SiteID,
			},
		},
	})
}

func (c *AuthController) loginFailed(ctx *fiber.Ctx, username, reason string) error {
	now := time.Now()
	loginLog := models.LoginLog{
		Username:      username,
		IPAddress:     ctx.IP(),
		UserAgent:     ctx.Get("User-Agent"),
		LoginAt:       &now,
		LoginStatus:   "FAILED",
		FailureReason: &reason,
	}
	c.DB.Create(&loginLog)

	return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": "Invalid username or password",
	})
}

func (c *AuthController) IsLoggedIn(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"user_id": ctx.Locals("userID"),
			"site_id": ctx.Locals("siteID"),
			"role":    ctx.Locals("role"),
		},
	})
}
