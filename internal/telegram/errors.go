package telegram

import "errors"

var (
	ErrLoginInvalid    = errors.New("invalid telegram authentication")
	ErrLoginExpired    = errors.New("the telegram authentication has expired")
	ErrAPI             = errors.New("telegram bot api error")
	ErrAmountInvalid   = errors.New("the amount must be a positive number")
	ErrSecretMismatch  = errors.New("the webhook secret token does not match")
	ErrTokenNotDefined = errors.New("the telegram bot token is not configured")
)
