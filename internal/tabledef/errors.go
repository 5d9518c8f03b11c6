package tabledef

import "fmt"

// Load error codes. Stable strings surfaced in CLI output.
const (
	ErrCodeNotFound = "DEF_NOT_FOUND" // file missing or unreadable
	ErrCodeFormat   = "DEF_FORMAT"    // unsupported file extension
	ErrCodeParse    = "DEF_PARSE"     // YAML/CUE syntax or decode failure
	ErrCodeCompile  = "DEF_COMPILE"   // name resolution failure during table build
)

// LoadError is a structured error from loading or compiling a definition.
type LoadError struct {
	Code    string
	Message string
	File    string // definition file path if known
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %s: %s", e.File, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func loadErrorf(code, file, format string, args ...any) *LoadError {
	return &LoadError{Code: code, File: file, Message: fmt.Sprintf(format, args...)}
}
