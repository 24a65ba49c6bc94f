package models

import (
	"errors"
)

var (
	ErrGeneral           = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound  = errors.New("there is no")
	ErrReferenceNotFound = errors.New("a resource referenced in your request does not exist")
)

// User errors
var (
	ErrTelegramAlreadyLinked = errors.New("this telegram account is already linked to another user")
	ErrLinkCodeInvalid       = errors.New("the link code is invalid or has already been used")
	ErrCurrencyInvalid       = errors.New("the currency must be a valid ISO 4217 code")
)

// Category errors
var (
	ErrIncomeCategoryNameNotUnique  = errors.New("the income category name must be unique for the user")
	ErrExpenseCategoryNameNotUnique = errors.New("the expense category name must be unique for the user")
)

// Income errors
var (
	ErrIncomeAmountNegative        = errors.New("income amounts must not be negative")
	ErrIncomeCategoryUserMismatch  = errors.New("the income category must belong to the same user as the income")
	ErrIncomeCategoryNotSpecified  = errors.New("the income category ID must be set")
	ErrExpenseCategoryNotSpecified = errors.New("the expense category ID must be set")
)

// Allocation errors
var (
	ErrAllocationTypeInvalid   = errors.New("the allocation type must be one of 'percentage' or 'fixed'")
	ErrAllocationValueNegative = errors.New("allocation values must not be negative")
	ErrAllocationUserMismatch  = errors.New("income and expense category of an allocation must belong to the same user")
)

// Template errors
var (
	ErrTemplateNotFound = errors.New("there is no category template with this ID")
)
