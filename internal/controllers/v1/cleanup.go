package v1

import (
	"net/http"

	"github.com/crystalbudget/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// @Summary		Delete everything
// @Description	Permanently deletes all resources
// @Tags			v1
// @Success		204
// @Failure		400		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			confirm	query		string	false	"Confirmation to delete all resources. Must have the value 'yes-please-delete-everything'"
// @Router			/v1 [delete]
func Cleanup(c *gin.Context) {
	var params struct {
		Confirm string `form:"confirm"`
	}

	err := c.Bind(&params)
	if err != nil || params.Confirm != "yes-please-delete-everything" {
		c.JSON(http.StatusBadRequest, httpError{
			Error: errCleanupConfirmation.Error(),
		})
		return
	}

	// Use a transaction so that we can roll back if errors happen
	tx := models.DB.Begin()

	// Foreign keys are checked during cleanup, so models
	// are deleted in reverse order of migration
	for i := len(models.Registry) - 1; i >= 0; i-- {
		model := models.Registry[i]
		err := tx.Where("true").Delete(&model).Error
		if err != nil {
			c.JSON(status(err), httpError{
				Error: err.Error(),
			})
			tx.Rollback()
			return
		}
	}

	err = tx.Commit().Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
