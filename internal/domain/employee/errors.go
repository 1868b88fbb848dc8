package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrEmployeeIDExists = errors.New("employee id already exists")
	ErrInvalidRate      = errors.New("rate must be a number greater than 0")
)
