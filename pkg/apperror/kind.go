package apperror

type Kind string

const (
	InvalidInput   Kind = "invalid_input"
	AlreadyExists  Kind = "already_exist"
	NotFound       Kind = "not_found"
	Conflict       Kind = "conflict"
	Forbidden      Kind = "forbidden"
	RequestTimeout Kind = "request_timeout"
	Unavailable    Kind = "unavailable"
	RateLimited    Kind = "rate_limited"
	Internal       Kind = "internal"
	Dependency     Kind = "dependency_failure"
	DatabaseErr    Kind = "database_error"
)
