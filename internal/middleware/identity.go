package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/optivue/cart-service-go/internal/engine"
)

const (
	HeaderUserID    = "X-User-Id"
	CartTokenCookie = "cart_token"
)

// Identity resolves who the cart belongs to. The gateway authenticates users
// and forwards their id in X-User-Id; everyone else is a guest identified by
// the cart_token cookie, minted here on first contact so a guest cart exists
// from the first page load onward.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := engine.Identity{UserID: r.Header.Get(HeaderUserID)}

		if cookie, err := r.Cookie(CartTokenCookie); err == nil {
			id.CartToken = cookie.Value
		}
		if !id.Authenticated() && id.CartToken == "" {
			id.CartToken = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     CartTokenCookie,
				Value:    id.CartToken,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), ctxIdentity, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetIdentity(ctx context.Context) engine.Identity {
	if v := ctx.Value(ctxIdentity); v != nil {
		if id, ok := v.(engine.Identity); ok {
			return id
		}
	}
	return engine.Identity{}
}
