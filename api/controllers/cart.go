package controllers

import (
	"net/http"

	"github.com/codecuphq/codecup-backend/api/middleware"
	"github.com/codecuphq/codecup-backend/api/responses"
	"github.com/codecuphq/codecup-backend/api/validators"
	cartsvc "github.com/codecuphq/codecup-backend/internal/cart"
	"github.com/codecuphq/codecup-backend/pkg/enums"
	pkgerrors "github.com/codecuphq/codecup-backend/pkg/errors"
	"github.com/codecuphq/codecup-backend/pkg/logger"
)

type addCartItemRequest struct {
	CoffeeID  int    `json:"coffee_id" validate:"required,gt=0"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	ShotType  string `json:"shot_type" validate:"required,oneof=Single Double"`
	DrinkType string `json:"drink_type" validate:"required,oneof=Hot Cold"`
	Size      string `json:"size" validate:"required,oneof=Small Medium Large"`
	IceLevel  int    `json:"ice_level" validate:"min=0,max=2"`
}

func (p addCartItemRequest) toInput(email string) (cartsvc.AddInput, error) {
	shot, err := enums.ParseShotType(p.ShotType)
	if err != nil {
		return cartsvc.AddInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shot type")
	}
	drink, err := enums.ParseDrinkType(p.DrinkType)
	if err != nil {
		return cartsvc.AddInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid drink type")
	}
	size, err := enums.ParseCupSize(p.Size)
	if err != nil {
		return cartsvc.AddInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cup size")
	}
	ice, err := enums.ParseIceLevel(p.IceLevel)
	if err != nil {
		return cartsvc.AddInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid ice level")
	}

	return cartsvc.AddInput{
		UserEmail: email,
		CoffeeID:  p.CoffeeID,
		Quantity:  p.Quantity,
		ShotType:  shot,
		DrinkType: drink,
		Size:      size,
		IceLevel:  ice,
	}, nil
}

// CartAdd merges a drink into the caller's cart.
func CartAdd(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		email := middleware.UserEmailFromContext(r.Context())
		input, err := payload.toInput(email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Add(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// CartList returns the caller's cart priced against the live catalog.
func CartList(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		email := middleware.UserEmailFromContext(r.Context())
		summary, err := svc.List(r.Context(), email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}

// CartRemove deletes one cart line.
func CartRemove(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		itemID, err := pathInt(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		email := middleware.UserEmailFromContext(r.Context())
		if err := svc.Remove(r.Context(), email, itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}

// CartClear empties the caller's cart.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		email := middleware.UserEmailFromContext(r.Context())
		if err := svc.Clear(r.Context(), email); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}
