package v1

import (
	"net/http"

	"github.com/crystalbudget/backend/internal/httputil"
	"github.com/crystalbudget/backend/internal/models"
	"github.com/gin-gonic/gin"
)

func RegisterTemplateRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsTemplateList)
	r.GET("", GetTemplates)
}

type TemplateListResponse struct {
	Data []models.Template `json:"data"` // List of category templates
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Templates
// @Success		204
// @Router			/v1/templates [options]
func OptionsTemplateList(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get templates
// @Description	Returns the category templates that can be applied to users
// @Tags			Templates
// @Produce		json
// @Success		200	{object}	TemplateListResponse
// @Router			/v1/templates [get]
func GetTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, TemplateListResponse{Data: models.Templates})
}
