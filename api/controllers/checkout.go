package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	"github.com/angelmondragon/storefront-backend/internal/checkout"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// CheckoutStart creates a hosted checkout from the session cart. Browsers
// (redirect=true or an HTML Accept header) get a 303 to the checkout URL,
// API clients get the URL as JSON.
func CheckoutStart(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		redirect, err := validators.ParseQueryBool(r, "redirect", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		redirect = redirect || wantsHTML(r)

		session, err := sessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Start(r.Context(), session)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if redirect {
			responses.WriteRedirect(w, r, result.CheckoutURL)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(strings.ToLower(r.Header.Get("Accept")), "text/html")
}
