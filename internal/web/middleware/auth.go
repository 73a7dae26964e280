package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/config"
)

// Roles carried in the token's role claim.
const (
	RoleAdmin  = "admin"
	RoleStaff  = "staff"
	RoleViewer = "viewer"
)

var (
	errAuthRequired  = errors.New("authentication required")
	errInvalidToken  = errors.New("invalid token")
	errAdminRequired = errors.New("admin access required")
)

// User is the authenticated caller.
type User struct {
	ID       string
	Username string
	Role     string
}

// Claims are the JWT claims the server accepts.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"id,omitempty"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role"`
}

type userKey struct{}

// WithUser returns a copy of ctx carrying u.
func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFromContext returns the user stored by Authenticate.
func UserFromContext(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(userKey{}).(User)
	return u, ok
}

// userSlot lets Logger see the user that Authenticate resolved further down
// the chain.
type userSlot struct{ user User }

type slotKey struct{}

func withUserSlot(ctx context.Context, s *userSlot) context.Context {
	return context.WithValue(ctx, slotKey{}, s)
}

// TokenVerifier checks HS256 bearer tokens.
type TokenVerifier struct {
	secret []byte
	issuer string
	roles  map[string]bool
}

// NewTokenVerifier builds a verifier from the auth settings. Tokens must carry
// one of the built-in roles or the configured admin role.
func NewTokenVerifier(cfg config.AuthConfig) *TokenVerifier {
	return &TokenVerifier{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.JWTIssuer,
		roles: map[string]bool{
			RoleAdmin:     true,
			RoleStaff:     true,
			RoleViewer:    true,
			cfg.AdminRole: cfg.AdminRole != "",
		},
	}
}

// Verify parses token and returns the user it names.
func (v *TokenVerifier) Verify(token string) (User, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	}, opts...)
	if err != nil {
		return User{}, fmt.Errorf("parse token: %w", err)
	}
	if !parsed.Valid {
		return User{}, errInvalidToken
	}

	if !v.roles[claims.Role] {
		return User{}, fmt.Errorf("unknown role %q", claims.Role)
	}

	id := claims.UserID
	if id == "" {
		id = claims.Subject
	}
	return User{ID: id, Username: claims.Username, Role: claims.Role}, nil
}

// Authenticate rejects requests without a valid bearer token and stores the
// caller in the request context.
func Authenticate(v *TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeAuthError(w, r, http.StatusUnauthorized, errAuthRequired)
				return
			}

			user, err := v.Verify(token)
			if err != nil {
				slog.Warn("auth: rejected token",
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
					"error", err,
				)
				writeAuthError(w, r, http.StatusUnauthorized, errInvalidToken)
				return
			}

			if slot, ok := r.Context().Value(slotKey{}).(*userSlot); ok {
				slot.user = user
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireRole allows only callers whose role is one of roles. It must run
// after Authenticate.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				writeAuthError(w, r, http.StatusUnauthorized, errAuthRequired)
				return
			}
			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeAuthError(w, r, http.StatusForbidden, errAdminRequired)
		})
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if len(auth) < 7 || !strings.EqualFold(auth[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(auth[7:])
}

func writeAuthError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="s4g"`)
	}
	WriteError(w, r, status, err)
}
