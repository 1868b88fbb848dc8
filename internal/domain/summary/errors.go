package summary

import "errors"

var (
	ErrExportFailed      = errors.New("export failed")
	ErrUnsupportedFormat = errors.New("unsupported export format")
)
