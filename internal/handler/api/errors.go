package api

import (
	"errors"

	"MaturityPlanner/internal/domain/models"
	xhttp "MaturityPlanner/pkg/http"
)

const (
	CodeDataFetch       = "ERR_DATA_FETCH"
	CodeValidation      = "ERR_VALIDATION"
	CodeOutOfRange      = "ERR_OUT_OF_RANGE"
	CodeSessionNotFound = "ERR_SESSION_NOT_FOUND"
	CodeDraftNotFound   = "ERR_DRAFT_NOT_FOUND"
	CodePoolNotFound    = "ERR_POOL_NOT_FOUND"
	CodeNotExpiring     = "ERR_NOT_EXPIRING"
)

// toAppError maps domain errors to API errors.
func toAppError(err error) *xhttp.AppError {
	var (
		ve *models.ValidationError
		fe *models.FetchError
	)
	switch {
	case errors.As(err, &ve):
		return xhttp.BadRequestError(CodeValidation, ve.Field, ve.Message).WithError(err)
	case errors.Is(err, models.ErrValidation):
		return xhttp.BadRequestError(CodeValidation, "", err.Error()).WithError(err)
	case errors.Is(err, models.ErrDataFetch):
		appErr := xhttp.BadGatewayError(CodeDataFetch, "Failed to load market data").WithError(err)
		if errors.As(err, &fe) && fe.StatusCode != 0 {
			appErr.WithParam("upstream_status", fe.StatusCode)
		}
		return appErr
	case errors.Is(err, models.ErrOutOfRange):
		return xhttp.NotFoundError(CodeOutOfRange, "index", "No simulated pool at this index").WithError(err)
	case errors.Is(err, models.ErrSessionNotFound):
		return xhttp.NotFoundError(CodeSessionNotFound, "session_id", "Session not found or expired").WithError(err)
	case errors.Is(err, models.ErrDraftNotFound):
		return xhttp.NotFoundError(CodeDraftNotFound, "address", "No relaunch draft for this pool").WithError(err)
	case errors.Is(err, models.ErrPoolNotFound):
		return xhttp.NotFoundError(CodePoolNotFound, "address", "Pool not found").WithError(err)
	case errors.Is(err, models.ErrNotExpiring):
		return xhttp.ConflictError(CodeNotExpiring, "address", "Pool is not expiring within the relaunch window").WithError(err)
	default:
		return xhttp.InternalError("Something went wrong").WithError(err)
	}
}
