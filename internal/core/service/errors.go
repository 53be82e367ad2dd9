package service

import "errors"

var (
	ErrInvalidItem        = errors.New("invalid item")
	ErrInvalidTransaction = errors.New("invalid transaction")
)
