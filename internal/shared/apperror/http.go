package apperror

import "net/http"

// HTTPError is the flattened shape handlers write into the response envelope.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details any
}

// ToHTTP maps any service error to something a handler can render.
// Non-AppError values are hidden behind a generic 500 so internals never
// leak into a response body.
func ToHTTP(err error) HTTPError {
	if app := As(err); app != nil {
		status := app.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		return HTTPError{
			Status:  status,
			Code:    app.Code,
			Message: app.Message,
		}
	}

	return HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternalError,
		Message: "An unexpected error occurred",
	}
}
