package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/buyzaar/storefront/api/responses"
	"github.com/buyzaar/storefront/api/validators"
	"github.com/buyzaar/storefront/internal/cart"
	"github.com/buyzaar/storefront/internal/profile"
	"github.com/buyzaar/storefront/pkg/enums"
	pkgerrors "github.com/buyzaar/storefront/pkg/errors"
	"github.com/buyzaar/storefront/pkg/logger"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type stylePreferenceRequest struct {
	Style string `json:"style" validate:"required"`
}

type sizePreferencesRequest struct {
	Sizes map[string]string `json:"sizes" validate:"required"`
}

type setThemeRequest struct {
	Theme string `json:"theme" validate:"required,oneof=light dark"`
}

// AuthLogin signs the demo account in.
func AuthLogin(svc *profile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeServer, "profile unavailable"))
			return
		}

		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Login(r.Context(), payload.Email, payload.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, user)
	}
}

// AuthRegister creates and signs in a demo account.
func AuthRegister(svc *profile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeServer, "profile unavailable"))
			return
		}

		var payload profile.RegisterInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Register(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, user)
	}
}

// AuthLogout clears the signed-in account.
func AuthLogout(svc *profile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeServer, "profile unavailable"))
			return
		}

		if err := svc.Logout(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"authenticated": false})
	}
}

// AuthStatus reports whether a user is signed in.
func AuthStatus(svc *profile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeServer, "profile unavailable"))
			return
		}

		responses.WriteSuccess(w, map[string]bool{"authenticated": svc.CheckAuthStatus()})
	}
}

// ProfileFetch returns the signed-in account with its preferences, try-on
// history and session orders.
func ProfileFetch(svc *profile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeServer, "profile unavailable"))
			return
		}

		user, ok := svc.User()
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session"))
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"user":         user,
			"preferences":  svc.Preferences(),
			"tryOnHistory": svc.TryOnHistory(),
			"orders":       svc.Orders(),
		})
	}
}

// ProfileUpdate merges the patch into the signed-in account.
func ProfileUpdate(svc *profile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeServer, "profile unavailable"))
			return
		}

		var payload profile.ProfilePatch
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.UpdateProfile(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, user)
	}
}

// StylePreferenceAdd appends a style tag.
func StylePreferenceAdd(svc *profile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeServer, "profile unavailable"))
			return
		}

		var payload stylePreferenceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.AddStylePreference(r.Context(), payload.Style); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, svc.Preferences())
	}
}

// StylePreferenceRemove drops a style tag.
func StylePreferenceRemove(svc *profile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeServer, "profile unavailable"))
			return
		}

		var payload stylePreferenceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RemoveStylePreference(r.Context(), payload.Style); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, svc.Preferences())
	}
}

// SizePreferencesUpdate merges per-category size choices.
func SizePreferencesUpdate(svc *profile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeServer, "profile unavailable"))
			return
		}

		var payload sizePreferencesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.UpdateSizePreferences(r.Context(), payload.Sizes); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, svc.Preferences())
	}
}

// TryOnHistoryList returns try-on sessions, newest first.
func TryOnHistoryList(svc *profile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeServer, "profile unavailable"))
			return
		}

		responses.WriteSuccess(w, svc.TryOnHistory())
	}
}

// TryOnHistoryAdd records a try-on session.
func TryOnHistoryAdd(svc *profile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeServer, "profile unavailable"))
			return
		}

		var payload struct {
			ProductID   string `json:"productId" validate:"required"`
			ProductName string `json:"productName"`
		}
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session := profile.TryOnSession{
			ID:          "tryon-" + uuid.NewString(),
			ProductID:   payload.ProductID,
			ProductName: payload.ProductName,
			CapturedAt:  time.Now().UTC(),
		}
		if err := svc.AddTryOn(r.Context(), session); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, session)
	}
}

// ThemeFetch returns the active theme.
func ThemeFetch(svc *profile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeServer, "profile unavailable"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"theme": svc.Theme().String()})
	}
}

// ThemeSet stores the theme choice.
func ThemeSet(svc *profile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeServer, "profile unavailable"))
			return
		}

		var payload setThemeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		theme, err := enums.ParseTheme(payload.Theme)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid theme"))
			return
		}

		if err := svc.SetTheme(r.Context(), theme); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"theme": theme.String()})
	}
}

// ThemeToggle flips between light and dark.
func ThemeToggle(svc *profile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeServer, "profile unavailable"))
			return
		}

		theme, err := svc.ToggleTheme(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"theme": theme.String()})
	}
}

// Checkout turns the current cart into an order and empties the cart.
func Checkout(svc *profile.Service, ledger *cart.Ledger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || ledger == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeServer, "checkout unavailable"))
			return
		}

		items := ledger.Items()
		if len(items) == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty"))
			return
		}

		order := profile.Order{
			ID:       "order-" + uuid.NewString(),
			Items:    items,
			Totals:   ledger.Totals(),
			PlacedAt: time.Now().UTC(),
		}
		svc.AddOrder(order)

		if err := ledger.Clear(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
