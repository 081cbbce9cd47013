package errors

func BadRequest(format string, args ...any) *Error {
	return New(400, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return New(404, format, args...)
}

func RequestTimeout(format string, args ...any) *Error {
	return New(408, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return New(409, format, args...)
}

func FailedDependency(format string, args ...any) *Error {
	return New(424, format, args...)
}

func Internal(format string, args ...any) *Error {
	return New(500, format, args...)
}

func LoopDetected(format string, args ...any) *Error {
	return New(508, format, args...)
}

func ServiceUnavailable(format string, args ...any) *Error {
	return New(503, format, args...)
}
