package middleware

import (
	"net/http"
	"time"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/pkg/auth"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// Session resolves the shopper session from the signed cookie. A missing,
// expired or tampered cookie starts a fresh session and sets a new cookie.
func Session(cfg config.SessionConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return sessionWithClock(cfg, logg, time.Now)
}

func sessionWithClock(cfg config.SessionConfig, logg *logger.Logger, now func() time.Time) func(http.Handler) http.Handler {
	cookieName := cfg.CookieName
	if cookieName == "" {
		cookieName = "sf_session"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			sessionID := ""
			if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
				claims, parseErr := auth.ParseSessionToken(cfg, cookie.Value)
				if parseErr == nil {
					sessionID = claims.SessionID
				} else if logg != nil {
					logg.Debug(logg.WithField(ctx, "reason", parseErr.Error()), "session.cookie_rejected")
				}
			}

			if sessionID == "" {
				sessionID = auth.NewSessionID()
				token, err := auth.MintSessionToken(cfg, now(), sessionID)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session"))
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    token,
					Path:     "/",
					MaxAge:   int(cfg.TTL / time.Second),
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
				if logg != nil {
					logg.Debug(logg.WithSessionID(ctx, sessionID), "session.started")
				}
			}

			ctx = WithSessionID(ctx, sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
