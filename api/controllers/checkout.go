package controllers

import (
	"net/http"

	"github.com/codecuphq/codecup-backend/api/middleware"
	"github.com/codecuphq/codecup-backend/api/responses"
	checkoutsvc "github.com/codecuphq/codecup-backend/internal/checkout"
	pkgerrors "github.com/codecuphq/codecup-backend/pkg/errors"
	"github.com/codecuphq/codecup-backend/pkg/logger"
)

// CheckoutExecute converts the caller's cart into orders and loyalty credit.
func CheckoutExecute(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		email := middleware.UserEmailFromContext(r.Context())
		receipt, err := svc.Execute(r.Context(), email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, receipt)
	}
}
