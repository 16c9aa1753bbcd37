package model

import "errors"

// Validation errors returned by the Validate methods.
var (
	ErrInvalidType     = errors.New("type must be income or expense")
	ErrInvalidCategory = errors.New("invalid category")
	ErrMissingCategory = errors.New("category is required")
	ErrCategoryType    = errors.New("category type does not match transaction type")
	ErrInvalidAmount   = errors.New("amount must be greater than zero")
	ErrMissingID       = errors.New("id is required")
	ErrMissingDate     = errors.New("date is required")
	ErrMissingName     = errors.New("name is required")
	ErrInvalidTarget   = errors.New("target amount must be greater than zero")
	ErrInvalidPeriod   = errors.New("period must be weekly, monthly or yearly")
	ErrInvalidWindow   = errors.New("start date must not be after end date")
	ErrInvalidDate     = errors.New("unrecognized date format")
)
