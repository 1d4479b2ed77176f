package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	service "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.ApiService/implementation/auth"
	jwt "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.ApiService/implementation/jwt"
	api_models "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Models/api"
)

// AuthController handles operator authentication and device token issuance
type AuthController struct {
	authService *service.AuthService
	jwtService  *jwt.Service
	deviceID    string
}

// NewAuthController creates a new auth controller
func NewAuthController(authService *service.AuthService, jwtService *jwt.Service, deviceID string) *AuthController {
	return &AuthController{
		authService: authService,
		jwtService:  jwtService,
		deviceID:    deviceID,
	}
}

// RegisterRoutes registers the auth routes with Gin
func (h *AuthController) RegisterRoutes(router *gin.Engine) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}

	// Legacy: token issuance is unauthenticated, devices fetch their
	// long-lived uploader credential here at provisioning time.
	router.GET("/api/generate-token", h.GenerateDeviceToken)
}

// Register handles operator registration
func (h *AuthController) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid request body"})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"status": "error", "message": publicMessage(err)})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "user created successfully",
		"username": user.Username,
	})
}

// Login handles operator login
func (h *AuthController) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid request body"})
		return
	}

	response, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"status": "error", "message": publicMessage(err)})
		return
	}

	c.JSON(http.StatusOK, response)
}

// GenerateDeviceToken mints a long-lived uploader token for a field device
func (h *AuthController) GenerateDeviceToken(c *gin.Context) {
	token, err := h.jwtService.GenerateToken(h.deviceID, api_models.RoleUploader)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
