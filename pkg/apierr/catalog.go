package apierr

import "net/http"

// --- Common ---

func InvalidRequestBody() *Error {
	return New(CodeInvalidRequestBody, http.StatusBadRequest, "Invalid request body")
}

func InternalError(cause error) *Error {
	return Wrap(CodeInternalError, http.StatusInternalServerError, "Internal server error", cause)
}

func NotImplemented(feature string) *Error {
	return New(CodeNotImplemented, http.StatusNotImplemented, feature+" is not implemented yet")
}

// --- Parsing (spec §7) ---

// ParseError wraps a single file's adapter failure. Non-fatal: callers log
// it and omit the file from the graph rather than aborting the build.
func ParseError(filePath string, cause error) *Error {
	return Wrap(CodeParseError, http.StatusUnprocessableEntity, "Failed to parse "+filePath, cause)
}

func InvalidFormat(detail string) *Error {
	return New(CodeInvalidFormat, http.StatusBadRequest, "Invalid format: "+detail)
}

// --- Resolution ---

func UnresolvedReference(from, target string) *Error {
	return New(CodeUnresolvedReference, http.StatusUnprocessableEntity, "Could not resolve reference from "+from+" to "+target)
}

func UnknownSymbol(id string) *Error {
	return New(CodeUnknownSymbol, http.StatusNotFound, "Unknown symbol: "+id)
}

// --- Project / build ---

func ProjectNotFound(id string) *Error {
	return New(CodeProjectNotFound, http.StatusNotFound, "Project not found: "+id)
}

func BuildNotFound(id string) *Error {
	return New(CodeBuildNotFound, http.StatusNotFound, "Build not found: "+id)
}

func BuildFailed(cause error) *Error {
	return Wrap(CodeBuildFailed, http.StatusInternalServerError, "Graph build failed", cause)
}

func NoSources() *Error {
	return New(CodeNoSources, http.StatusBadRequest, "Project has no source files to index")
}

func IngestionFailed(cause error) *Error {
	return Wrap(CodeIngestionFailed, http.StatusInternalServerError, "Failed to ingest source archive", cause)
}

// --- I/O ---

func IOError(path string, cause error) *Error {
	return Wrap(CodeIOError, http.StatusInternalServerError, "I/O error reading "+path, cause)
}

// --- Auth ---

func MissingAuthToken() *Error {
	return New(CodeMissingAuthToken, http.StatusUnauthorized, "Missing or malformed Authorization header")
}

func InvalidAuthToken() *Error {
	return New(CodeInvalidAuthToken, http.StatusUnauthorized, "Invalid or expired token")
}

// --- Health ---

func DependencyNotReady(name string) *Error {
	return New(CodeDependencyNotReady, http.StatusServiceUnavailable, name+" not ready")
}
