package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	logger "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Logger"
	fldmodels "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Models"
	interfaces "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Repository/Interfaces"
)

// MachineController handles machine binding management requests
type MachineController struct {
	machineRepo interfaces.MachineRepository
	logger      *logger.Logger
}

// NewMachineController creates a new machine controller
func NewMachineController(machineRepo interfaces.MachineRepository, logger *logger.Logger) *MachineController {
	return &MachineController{
		machineRepo: machineRepo,
		logger:      logger.WithComponent("machines"),
	}
}

// RegisterRoutes registers the machine routes with Gin
func (c *MachineController) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.GET("/machines", c.List)
		api.POST("/register-machine", c.Register)
		api.PUT("/update-machine", c.Update)
		api.DELETE("/delete-machine/:id", c.Delete)
	}
}

// RegisterMachineRequest binds a machine to an operator
type RegisterMachineRequest struct {
	MachineID string `json:"machine_id"`
	Username  string `json:"username"`
}

// UpdateMachineRequest renames a binding, keeping or changing the operator
type UpdateMachineRequest struct {
	OldMachineID string `json:"old_machine_id"`
	NewMachineID string `json:"new_machine_id"`
	Username     string `json:"username"`
}

func (c *MachineController) List(ctx *gin.Context) {
	bindings, err := c.machineRepo.List(ctx.Request.Context())
	if err != nil {
		c.logger.ErrorWithError(err, "Failed to list machines")
		ctx.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "internal error"})
		return
	}

	ctx.JSON(http.StatusOK, bindings)
}

func (c *MachineController) Register(ctx *gin.Context) {
	var req RegisterMachineRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid request body"})
		return
	}

	if req.MachineID == "" || req.Username == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "machine_id and username are required"})
		return
	}

	binding := fldmodels.MachineBinding{MachineID: req.MachineID, Username: req.Username}
	if err := c.machineRepo.Upsert(ctx.Request.Context(), binding); err != nil {
		c.logger.ErrorWithError(err, "Failed to upsert machine binding")
		ctx.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "internal error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "success", "message": "machine registered"})
}

func (c *MachineController) Update(ctx *gin.Context) {
	var req UpdateMachineRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid request body"})
		return
	}

	if req.OldMachineID == "" || req.NewMachineID == "" || req.Username == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "old_machine_id, new_machine_id and username are required"})
		return
	}

	if err := c.machineRepo.Rename(ctx.Request.Context(), req.OldMachineID, req.NewMachineID, req.Username); err != nil {
		c.logger.ErrorWithError(err, "Failed to rename machine binding")
		ctx.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "internal error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "success", "message": "machine updated"})
}

func (c *MachineController) Delete(ctx *gin.Context) {
	machineID := ctx.Param("id")

	if err := c.machineRepo.Delete(ctx.Request.Context(), machineID); err != nil {
		c.logger.ErrorWithError(err, "Failed to delete machine binding")
		ctx.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "internal error"})
		return
	}

	// Deleting an absent binding is a no-op, not an error
	ctx.JSON(http.StatusOK, gin.H{"status": "success", "message": "machine deleted"})
}
