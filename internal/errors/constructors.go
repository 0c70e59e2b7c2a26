package errors

import "fmt"

// Input errors

func MissingInput(path string) *MiteError {
	return New(CategoryInput, SeverityFatal, "required input file missing").
		WithContext("path", path)
}

func ConfigInvalid(path string, cause error) *MiteError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration invalid").
		WithContext("path", path)
}

func ReadFailed(path string, cause error) *MiteError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "reading input failed").
		WithContext("path", path)
}

func WriteFailed(path string, cause error) *MiteError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "writing output failed").
		WithContext("path", path)
}

// Build pipeline errors

func CompileFailed(path string, cause error) *MiteError {
	return Wrap(cause, CategoryCompile, SeverityFatal, "compiling source failed").
		WithContext("path", path)
}

func TemplateNotFound(name string) *MiteError {
	return New(CategoryTemplate, SeverityFatal, fmt.Sprintf("template %q not found", name))
}

func ExecuteFailed(cause error) *MiteError {
	return Wrap(cause, CategoryExecute, SeverityFatal, "running site program failed")
}

func MissingFrontMatter(path string) *MiteError {
	return New(CategoryInput, SeverityFatal, "page has no front matter").
		WithContext("path", path)
}

func InternalError(message string, cause error) *MiteError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
