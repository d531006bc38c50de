package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/api/response"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/validation"
)

type monthParamsKey struct{}

// MonthParams is a validated {year}/{month} path pair.
type MonthParams struct {
	Year  int
	Month int
}

// ValidateBsMonthParams validates the {year} and {month} URL parameters as a
// BS month and stores them for MonthParamsFrom.
// Returns 400 Bad Request listing the invalid fields.
//
// Example usage in router:
//
//	r.Route("/bs/{year}/{month}", func(r chi.Router) {
//	    r.Use(middleware.ValidateBsMonthParams)
//	    r.Get("/", handler.BsMonth)
//	})
func ValidateBsMonthParams(next http.Handler) http.Handler {
	return monthParams(validation.ParseBsMonth, next)
}

// ValidateAdMonthParams is ValidateBsMonthParams for AD months.
func ValidateAdMonthParams(next http.Handler) http.Handler {
	return monthParams(validation.ParseAdMonth, next)
}

// MonthParamsFrom returns the parameters stored by the validation middleware.
func MonthParamsFrom(ctx context.Context) (MonthParams, bool) {
	p, ok := ctx.Value(monthParamsKey{}).(MonthParams)
	return p, ok
}

// WithMonthParams stores p in ctx, for handlers invoked without the router.
func WithMonthParams(ctx context.Context, p MonthParams) context.Context {
	return context.WithValue(ctx, monthParamsKey{}, p)
}

func monthParams(parse func(year, month string) (int, int, error), next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		year, month, err := parse(chi.URLParam(r, "year"), chi.URLParam(r, "month"))
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid year or month", validationDetails(err))
			return
		}

		ctx := WithMonthParams(r.Context(), MonthParams{Year: year, Month: month})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func validationDetails(err error) interface{} {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return err.Error()
}
