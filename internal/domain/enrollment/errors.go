package enrollment

import "errors"

var (
	ErrAlreadyEnrolled   = errors.New("user already owns this item")
	ErrItemNotFound      = errors.New("item not found")
	ErrAccountNotFound   = errors.New("account not found")
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
	ErrInvalidAmount     = errors.New("invalid amount")
)
