package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/takuma-ones/ec-app/pkg/errors"
)

// ParseURLParamID reads a chi route parameter and requires a positive integer.
func ParseURLParamID(r *http.Request, key string) (int, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	if raw == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "path parameter is required").WithDetails(map[string]any{"field": key})
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "path parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "path parameter must be positive").WithDetails(map[string]any{"field": key})
	}
	return value, nil
}

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}
