package attendance

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found for attendance record")
	ErrValueOutOfRange  = errors.New("attendance value out of range")
)
