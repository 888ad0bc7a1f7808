package darray

import "errors"

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrAllocation      = errors.New("landing allocation failed")
	ErrDestroyed       = errors.New("the array has been destroyed and can not be used")
	ErrBudgetExceeded  = errors.New("the landing would exceed the slot budget")
)
