package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"tourguide/errs"
	"tourguide/globals"
	"tourguide/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

// JWT claims
type Claims struct {
	Username string `json:"username"`
	UserID   string `json:"userId"`
	jwt.RegisteredClaims
}

// JWTVerifier validates HS256 bearer credentials and yields the user id.
type JWTVerifier struct {
	Secret []byte
}

func NewJWTVerifier(secret []byte) *JWTVerifier {
	return &JWTVerifier{Secret: secret}
}

// Verify returns the userId carried by a valid token.
func (v *JWTVerifier) Verify(token string) (string, error) {
	claims, err := v.Parse(token)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

func (v *JWTVerifier) Parse(token string) (*Claims, error) {
	if token == "" {
		return nil, errs.E(errs.ErrUnauthenticated, "No token provided")
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.Secret, nil
	})
	if err != nil || !parsed.Valid || claims.UserID == "" {
		return nil, errs.E(errs.ErrUnauthenticated, "Invalid token")
	}
	return claims, nil
}

// Issue signs a token for the given user, valid for ttl.
func (v *JWTVerifier) Issue(userID, username string, ttl time.Duration) (string, error) {
	claims := &Claims{
		Username: username,
		UserID:   userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.Secret)
}

func withClaims(r *http.Request, claims *Claims) *http.Request {
	ctx := context.WithValue(r.Context(), globals.UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, globals.UsernameKey, claims.Username)
	return r.WithContext(ctx)
}

// Authenticate rejects requests without a valid bearer token and stores the
// user id in the request context.
func (v *JWTVerifier) Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, err := v.Parse(utils.BearerToken(r))
		if err != nil {
			utils.RespondWithAppError(w, err, "Unauthorized")
			return
		}
		next(w, withClaims(r, claims), ps)
	}
}

// OptionalAuth adds the user id to the context when a valid token is present
// and proceeds regardless.
func (v *JWTVerifier) OptionalAuth(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if claims, err := v.Parse(utils.BearerToken(r)); err == nil {
			r = withClaims(r, claims)
		}
		next(w, r, ps)
	}
}
