package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *PostIndexError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *PostIndexError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// InvalidArgument rejects a malformed argument at a package boundary
// (nil index, empty identifier) before it reaches filtering code.
func InvalidArgument(name, reason string) *PostIndexError {
	return New(CategoryValidation, SeverityError, "invalid argument").
		WithContext("argument", name).
		WithContext("reason", reason)
}

func NotFound(kind, id string) *PostIndexError {
	return New(CategoryNotFound, SeverityError, kind+" not found").
		WithContext("id", id)
}

// Content loading errors

// ContentLoadError reports that a content source could not be read or that a
// record in it is malformed.
func ContentLoadError(source string, cause error) *PostIndexError {
	return Wrap(cause, CategoryContent, SeverityFatal, "content load failed").
		WithContext("source", source)
}

// MissingField reports a record lacking one of the required post fields.
func MissingField(key, field string) *PostIndexError {
	return New(CategoryContent, SeverityFatal, "required field missing").
		WithContext("record", key).
		WithContext("field", field)
}

func DuplicatePostID(id string) *PostIndexError {
	return New(CategoryContent, SeverityFatal, "duplicate post id").
		WithContext("id", id)
}

func FileSystemError(operation string, cause error) *PostIndexError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "filesystem operation failed").
		WithContext("operation", operation)
}

func StorageError(operation string, cause error) *PostIndexError {
	return Wrap(cause, CategoryStorage, SeverityFatal, "storage operation failed").
		WithContext("operation", operation)
}

func GitError(repo string, cause error) *PostIndexError {
	return Wrap(cause, CategoryGit, SeverityFatal, "git operation failed").
		WithContext("repository", repo)
}

func GitNetworkError(repo string, cause error) *PostIndexError {
	return WrapRetryable(cause, CategoryGit, SeverityWarning, "git network error").
		WithContext("repository", repo)
}

// Internal errors

func InternalError(message string, cause error) *PostIndexError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
