package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/crystalbudget/backend/internal/httputil"
	"github.com/crystalbudget/backend/internal/models"
	"github.com/crystalbudget/backend/internal/telegram"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers the login routes. If verifier is nil,
// telegram login answers with an error.
func RegisterAuthRoutes(r *gin.RouterGroup, verifier *telegram.LoginVerifier) {
	r.OPTIONS("/telegram", OptionsTelegramLogin)
	r.POST("/telegram", TelegramLogin(verifier))
}

type TelegramLoginData struct {
	User    User `json:"user"`                   // The user linked to the telegram account
	Created bool `json:"created" example:"true"` // Was the user created by this login?
}

type TelegramLoginResponse struct {
	Data  *TelegramLoginData `json:"data"`                                            // The logged in user
	Error *string            `json:"error" example:"invalid telegram authentication"` // The error, if any occurred
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Auth
// @Success		204
// @Router			/v1/auth/telegram [options]
func OptionsTelegramLogin(c *gin.Context) {
	httputil.OptionsPost(c)
}

// TelegramLogin returns the handler for telegram login widget payloads.
//
//	@Summary		Telegram login
//	@Description	Verifies the payload of the telegram login widget and returns the user linked to the account. A user is created if the account is not linked yet.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Success		200		{object}	TelegramLoginResponse
//	@Success		201		{object}	TelegramLoginResponse
//	@Failure		400		{object}	TelegramLoginResponse
//	@Failure		401		{object}	TelegramLoginResponse
//	@Failure		500		{object}	TelegramLoginResponse
//	@Failure		501		{object}	TelegramLoginResponse
//	@Param			payload	body		object	true	"Fields sent by the telegram login widget"
//	@Router			/v1/auth/telegram [post]
func TelegramLogin(verifier *telegram.LoginVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil || verifier.Token == "" {
			s := errTelegramNotConfigured.Error()
			c.JSON(http.StatusNotImplemented, TelegramLoginResponse{
				Error: &s,
			})
			return
		}

		payload, err := c.GetRawData()
		if err != nil || len(payload) == 0 {
			s := httputil.ErrRequestBodyEmpty.Error()
			c.JSON(http.StatusBadRequest, TelegramLoginResponse{
				Error: &s,
			})
			return
		}

		login, err := verifier.Verify(payload, time.Now())
		if err != nil {
			s := err.Error()
			code := http.StatusUnauthorized
			if !errors.Is(err, telegram.ErrLoginInvalid) && !errors.Is(err, telegram.ErrLoginExpired) {
				code = status(err)
			}
			c.JSON(code, TelegramLoginResponse{
				Error: &s,
			})
			return
		}

		user, created, err := models.TelegramLogin(models.DB, login.ID, login.Name(), login.Username)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), TelegramLoginResponse{
				Error: &s,
			})
			return
		}

		code := http.StatusOK
		if created {
			code = http.StatusCreated
		}

		c.JSON(code, TelegramLoginResponse{
			Data: &TelegramLoginData{
				User:    newUser(c, user),
				Created: created,
			},
		})
	}
}
