package controllers

import (
	"net/http"

	"github.com/codecuphq/codecup-backend/api/middleware"
	"github.com/codecuphq/codecup-backend/api/responses"
	"github.com/codecuphq/codecup-backend/api/validators"
	"github.com/codecuphq/codecup-backend/internal/loyalty"
	pkgerrors "github.com/codecuphq/codecup-backend/pkg/errors"
	"github.com/codecuphq/codecup-backend/pkg/logger"
)

type updateProfileRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Address  string `json:"address" validate:"required"`
}

// AccountGet returns the caller's loyalty account.
func AccountGet(svc loyalty.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "loyalty service unavailable"))
			return
		}

		email := middleware.UserEmailFromContext(r.Context())
		account, err := svc.Account(r.Context(), email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, account)
	}
}

// AccountUpdate edits the caller's profile fields.
func AccountUpdate(svc loyalty.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "loyalty service unavailable"))
			return
		}

		var body updateProfileRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		email := middleware.UserEmailFromContext(r.Context())
		account, err := svc.UpdateProfile(r.Context(), email, body.FullName, body.Phone, body.Address)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, account)
	}
}

// AccountRedeemCard cashes in a full stamp card.
func AccountRedeemCard(svc loyalty.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "loyalty service unavailable"))
			return
		}

		email := middleware.UserEmailFromContext(r.Context())
		account, err := svc.RedeemFullCard(r.Context(), email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, account)
	}
}
