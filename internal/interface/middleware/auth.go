package middleware

import (
	"context"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/jsonplaceholder-api/internal/domain/entity"
	"github.com/oksasatya/jsonplaceholder-api/pkg/apperror"
	"github.com/oksasatya/jsonplaceholder-api/pkg/helpers"
)

const (
	CtxCredential = "credential"
	CtxUserID     = "userID"

	msgMissingToken = "Missing or malformed bearer token"
	msgInvalidToken = "Invalid or expired token"
	msgUnknownUser  = "User not found or token invalid"
)

// PublicFunc reports whether the route method+pattern skips authentication.
type PublicFunc func(method, fullPath string) bool

type TokenVerifier interface {
	Verify(token string) (*helpers.Claims, error)
}

type IdentityResolver interface {
	ValidateIdentity(ctx context.Context, id int64) (*entity.Credential, bool)
}

// Gate protects every route of the group unless isPublic marks it public.
// On success the resolved credential is stored under CtxCredential and its
// id under CtxUserID.
func Gate(isPublic PublicFunc, verifier TokenVerifier, identities IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isPublic != nil && isPublic(c.Request.Method, c.FullPath()) {
			c.Next()
			return
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			reject(c, msgMissingToken)
			return
		}
		claims, err := verifier.Verify(token)
		if err != nil {
			reject(c, msgInvalidToken)
			return
		}
		id, err := claims.SubjectID()
		if err != nil {
			reject(c, msgInvalidToken)
			return
		}
		cred, ok := identities.ValidateIdentity(c.Request.Context(), id)
		if !ok {
			reject(c, msgUnknownUser)
			return
		}

		c.Set(CtxCredential, cred)
		c.Set(CtxUserID, strconv.FormatInt(cred.ID, 10))
		c.Next()
	}
}

// CurrentCredential returns the credential attached by Gate.
func CurrentCredential(c *gin.Context) (*entity.Credential, bool) {
	v, ok := c.Get(CtxCredential)
	if !ok {
		return nil, false
	}
	cred, ok := v.(*entity.Credential)
	return cred, ok && cred != nil
}

// bearerToken parses "Bearer <token>"; the scheme is case-insensitive.
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func reject(c *gin.Context, message string) {
	_ = c.Error(apperror.Unauthorized(message))
	c.Abort()
}
