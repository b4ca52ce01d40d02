package responses

import (
	"context"
	"encoding/json"
	"net/http"

	pkgerrors "github.com/tharanics/kiranakart-backend/pkg/errors"
	"github.com/tharanics/kiranakart-backend/pkg/logger"
	"github.com/tharanics/kiranakart-backend/pkg/types"
)

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, types.SuccessEnvelope{Data: data})
}

// WriteError maps a domain error onto the wire envelope. Client-facing codes
// surface the error's own message; internal failures stay behind the public one.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	domainErr := pkgerrors.As(err)
	if domainErr == nil {
		domainErr = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	code := domainErr.Code()
	meta := pkgerrors.MetadataFor(code)

	message := meta.PublicMessage
	switch code {
	case pkgerrors.CodeValidation,
		pkgerrors.CodeUnauthorized,
		pkgerrors.CodeForbidden,
		pkgerrors.CodeNotFound,
		pkgerrors.CodeConflict,
		pkgerrors.CodeStateConflict:
		if domainErr.Message() != "" {
			message = domainErr.Message()
		}
	}

	body := types.ErrorEnvelope{
		Error: types.APIError{
			Code:    string(code),
			Message: message,
		},
	}
	if meta.DetailsAllowed {
		body.Error.Details = domainErr.Details()
	}

	if logg != nil {
		dump := pkgerrors.Dump(err)
		logCtx := logg.WithFields(ctx, map[string]any{
			"error_code":  string(dump.Code),
			"http_status": meta.HTTPStatus,
			"error_chain": dump.Chain,
		})
		if meta.HTTPStatus >= http.StatusInternalServerError {
			logg.Error(logCtx, "request.failed", err)
		} else {
			logg.Warn(logCtx, "request.rejected")
		}
	}

	writeJSON(w, meta.HTTPStatus, body)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
