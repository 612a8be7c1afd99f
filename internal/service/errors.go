package service

import "errors"

var (
	ErrUnknownColumn   = errors.New("unknown column")
	ErrInvalidValue    = errors.New("invalid value for column")
	ErrNoValueProvided = errors.New("no value provided")
)
