package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salonhub/internal/shared/config"
	"salonhub/internal/shared/utils/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSecret = "test-signing-secret"

func testConfig() *config.Config {
	return &config.Config{JWT: config.JWTConfig{Secret: testSecret}}
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func accessClaims(role string) jwt.MapClaims {
	return jwt.MapClaims{
		"user_id": uuid.New().String(),
		"email":   "ama.mensah@example.com",
		"role":    role,
		"type":    "access",
		"exp":     time.Now().Add(15 * time.Minute).Unix(),
	}
}

// run invokes a middleware against a fresh test context and returns
// the recorder and context for inspection.
func run(t *testing.T, handler gin.HandlerFunc, prepare func(c *gin.Context)) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/bookings", nil)
	if prepare != nil {
		prepare(c)
	}

	handler(c)
	return w, c
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.StandardApiResponse {
	t.Helper()
	var body response.StandardApiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestJWTAuth(t *testing.T) {
	handler := JWTAuthWithConfig(testConfig())

	t.Run("missing header", func(t *testing.T) {
		w, c := run(t, handler, nil)

		assert.True(t, c.IsAborted())
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Authorization header is required", decodeEnvelope(t, w).Message)
	})

	t.Run("malformed header", func(t *testing.T) {
		w, c := run(t, handler, func(c *gin.Context) {
			c.Request.Header.Set("Authorization", "Token abc123")
		})

		assert.True(t, c.IsAborted())
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, decodeEnvelope(t, w).Message, "Bearer")
	})

	t.Run("garbage token", func(t *testing.T) {
		w, c := run(t, handler, func(c *gin.Context) {
			c.Request.Header.Set("Authorization", "Bearer not.a.jwt")
		})

		assert.True(t, c.IsAborted())
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		token := signToken(t, "some-other-secret", accessClaims("CUSTOMER"))

		w, c := run(t, handler, func(c *gin.Context) {
			c.Request.Header.Set("Authorization", "Bearer "+token)
		})

		assert.True(t, c.IsAborted())
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "invalid or expired token", decodeEnvelope(t, w).Message)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := accessClaims("CUSTOMER")
		claims["exp"] = time.Now().Add(-time.Minute).Unix()
		token := signToken(t, testSecret, claims)

		w, c := run(t, handler, func(c *gin.Context) {
			c.Request.Header.Set("Authorization", "Bearer "+token)
		})

		assert.True(t, c.IsAborted())
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unsigned token rejected", func(t *testing.T) {
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, accessClaims("CUSTOMER")).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		w, c := run(t, handler, func(c *gin.Context) {
			c.Request.Header.Set("Authorization", "Bearer "+unsigned)
		})

		// Only HMAC signatures are accepted, regardless of the alg header
		assert.True(t, c.IsAborted())
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("refresh token rejected on access routes", func(t *testing.T) {
		claims := accessClaims("CUSTOMER")
		claims["type"] = "refresh"
		token := signToken(t, testSecret, claims)

		w, c := run(t, handler, func(c *gin.Context) {
			c.Request.Header.Set("Authorization", "Bearer "+token)
		})

		assert.True(t, c.IsAborted())
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "invalid token type", decodeEnvelope(t, w).Message)
	})

	t.Run("valid access token populates the context", func(t *testing.T) {
		claims := accessClaims("VENDOR")
		token := signToken(t, testSecret, claims)

		w, c := run(t, handler, func(c *gin.Context) {
			c.Request.Header.Set("Authorization", "Bearer "+token)
		})

		assert.False(t, c.IsAborted())
		assert.Equal(t, http.StatusOK, w.Code)

		userID, _ := c.Get("user_id")
		assert.Equal(t, claims["user_id"], userID)
		email, _ := c.Get("user_email")
		assert.Equal(t, "ama.mensah@example.com", email)
		role, _ := c.Get("user_role")
		assert.Equal(t, "VENDOR", role)
	})
}

func TestRequireRole(t *testing.T) {
	t.Run("missing role in context", func(t *testing.T) {
		w, c := run(t, RequireRole("ADMIN"), nil)

		assert.True(t, c.IsAborted())
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("role mismatch", func(t *testing.T) {
		w, c := run(t, RequireRole("ADMIN"), func(c *gin.Context) {
			c.Set("user_role", "CUSTOMER")
		})

		assert.True(t, c.IsAborted())
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "Insufficient permissions", decodeEnvelope(t, w).Message)
	})

	t.Run("role match", func(t *testing.T) {
		w, c := run(t, RequireRole("ADMIN"), func(c *gin.Context) {
			c.Set("user_role", "ADMIN")
		})

		assert.False(t, c.IsAborted())
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRoleGuards(t *testing.T) {
	guards := map[string]gin.HandlerFunc{
		"CUSTOMER": RequireCustomer(),
		"VENDOR":   RequireVendor(),
		"ADMIN":    RequireAdmin(),
	}
	roles := []string{"CUSTOMER", "VENDOR", "ADMIN"}

	for guardRole, guard := range guards {
		for _, role := range roles {
			t.Run(guardRole+" guard with "+role, func(t *testing.T) {
				w, c := run(t, guard, func(c *gin.Context) {
					c.Set("user_role", role)
				})

				if role == guardRole {
					assert.False(t, c.IsAborted())
					assert.Equal(t, http.StatusOK, w.Code)
				} else {
					assert.True(t, c.IsAborted())
					assert.Equal(t, http.StatusForbidden, w.Code)
				}
			})
		}
	}
}

func TestRequireRoles(t *testing.T) {
	handler := RequireRoles("VENDOR", "ADMIN")

	t.Run("any listed role passes", func(t *testing.T) {
		for _, role := range []string{"VENDOR", "ADMIN"} {
			w, c := run(t, handler, func(c *gin.Context) {
				c.Set("user_role", role)
			})

			assert.False(t, c.IsAborted())
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})

	t.Run("unlisted role is forbidden", func(t *testing.T) {
		w, c := run(t, handler, func(c *gin.Context) {
			c.Set("user_role", "CUSTOMER")
		})

		assert.True(t, c.IsAborted())
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing role is unauthorized", func(t *testing.T) {
		w, c := run(t, handler, nil)

		assert.True(t, c.IsAborted())
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestOptionalAuth(t *testing.T) {
	handler := OptionalAuthWithConfig(testConfig())

	t.Run("no header passes through anonymously", func(t *testing.T) {
		w, c := run(t, handler, nil)

		assert.False(t, c.IsAborted())
		assert.Equal(t, http.StatusOK, w.Code)
		_, exists := c.Get("user_id")
		assert.False(t, exists)
	})

	t.Run("invalid token passes through anonymously", func(t *testing.T) {
		w, c := run(t, handler, func(c *gin.Context) {
			c.Request.Header.Set("Authorization", "Bearer not.a.jwt")
		})

		assert.False(t, c.IsAborted())
		assert.Equal(t, http.StatusOK, w.Code)
		_, exists := c.Get("user_id")
		assert.False(t, exists)
	})

	t.Run("valid token populates the context", func(t *testing.T) {
		claims := accessClaims("CUSTOMER")
		token := signToken(t, testSecret, claims)

		_, c := run(t, handler, func(c *gin.Context) {
			c.Request.Header.Set("Authorization", "Bearer "+token)
		})

		assert.False(t, c.IsAborted())
		userID, exists := c.Get("user_id")
		require.True(t, exists)
		assert.Equal(t, claims["user_id"], userID)
	})
}
