package wallet

import "errors"

var (
	ErrAccountNotFound = errors.New("wallet account not found")
	ErrInvalidAmount   = errors.New("amount must be greater than zero")
)
