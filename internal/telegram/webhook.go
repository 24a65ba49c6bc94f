package telegram

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// SecretHeader carries the secret token configured with setWebhook
const SecretHeader = "X-Telegram-Bot-Api-Secret-Token"

type webhookResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Webhook returns the handler that receives updates from telegram.
//
// If secret is not empty, requests must carry it in the secret token header.
func (b *Bot) Webhook(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret != "" && subtle.ConstantTimeCompare([]byte(c.GetHeader(SecretHeader)), []byte(secret)) != 1 {
			c.JSON(http.StatusForbidden, webhookResponse{Error: ErrSecretMismatch.Error()})
			return
		}

		var update Update
		if err := c.ShouldBindJSON(&update); err != nil {
			c.JSON(http.StatusBadRequest, webhookResponse{Error: err.Error()})
			return
		}

		if err := b.HandleUpdate(c.Request.Context(), update); err != nil {
			log.Error().Str("request-id", requestid.Get(c)).Int64("update", update.UpdateID).Msgf("%T: %v", err, err.Error())
			c.JSON(http.StatusInternalServerError, webhookResponse{Error: err.Error()})
			return
		}

		c.JSON(http.StatusOK, webhookResponse{OK: true})
	}
}
