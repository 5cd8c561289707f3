package payment

import "errors"

var (
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrAlreadyProcessed = errors.New("payment already processed")
	ErrUnknownStatus    = errors.New("unknown payment status")
)
