package server

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authTestRouter(cfg *Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", AuthRequired(cfg), func(ctx *gin.Context) {
		userID, _ := requestUserID(ctx)
		ctx.JSON(http.StatusOK, gin.H{"userID": userID})
	})
	return router
}

func TestAuthRequired(t *testing.T) {
	cfg := &Config{JWTSecret: testSecret, TokenTTL: time.Hour}

	validToken, err := IssueToken(testSecret, time.Hour, "user123")
	require.NoError(t, err)

	expiredToken, err := IssueToken(testSecret, -time.Hour, "user123")
	require.NoError(t, err)

	foreignToken, err := IssueToken("othersecret", time.Hour, "user123")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   struct {
			statusCode int
			body       string
		}
	}{
		{
			name:   "missing header",
			header: "",
			want: struct {
				statusCode int
				body       string
			}{
				statusCode: http.StatusUnauthorized,
				body:       "токен авторизации отсутствует",
			},
		},
		{
			name:   "malformed header without scheme",
			header: "sometoken",
			want: struct {
				statusCode int
				body       string
			}{
				statusCode: http.StatusUnauthorized,
				body:       "токен авторизации отсутствует",
			},
		},
		{
			name:   "wrong scheme",
			header: "Basic dXNlcjpwYXNz",
			want: struct {
				statusCode int
				body       string
			}{
				statusCode: http.StatusUnauthorized,
				body:       "токен авторизации отсутствует",
			},
		},
		{
			name:   "invalid token",
			header: "Bearer garbage",
			want: struct {
				statusCode int
				body       string
			}{
				statusCode: http.StatusForbidden,
				body:       "недействительный или просроченный токен",
			},
		},
		{
			name:   "expired token",
			header: "Bearer " + expiredToken,
			want: struct {
				statusCode int
				body       string
			}{
				statusCode: http.StatusForbidden,
				body:       "недействительный или просроченный токен",
			},
		},
		{
			name:   "token signed with different secret",
			header: "Bearer " + foreignToken,
			want: struct {
				statusCode int
				body       string
			}{
				statusCode: http.StatusForbidden,
				body:       "недействительный или просроченный токен",
			},
		},
		{
			name:   "valid token",
			header: "Bearer " + validToken,
			want: struct {
				statusCode int
				body       string
			}{
				statusCode: http.StatusOK,
				body:       "user123",
			},
		},
	}

	router := authTestRouter(cfg)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest("GET", "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want.statusCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.want.body)
		})
	}
}

func TestAuthRequiredCaseInsensitiveScheme(t *testing.T) {
	cfg := &Config{JWTSecret: testSecret, TokenTTL: time.Hour}
	token, err := IssueToken(testSecret, time.Hour, "user123")
	require.NoError(t, err)

	router := authTestRouter(cfg)

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "bearer "+token)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGzipRequestDecompress(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(GzipRequestDecompress())
	router.POST("/test", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"body": string(body)})
	})

	tests := []struct {
		name            string
		content         string
		compress        bool
		contentEncoding string
		want            struct {
			statusCode int
			body       string
		}
	}{
		{
			name:            "uncompressed request",
			content:         "Hello, World!",
			compress:        false,
			contentEncoding: "",
			want: struct {
				statusCode int
				body       string
			}{
				statusCode: http.StatusOK,
				body:       "Hello, World!",
			},
		},
		{
			name:            "gzip compressed request",
			content:         "Hello, World!",
			compress:        true,
			contentEncoding: "gzip",
			want: struct {
				statusCode int
				body       string
			}{
				statusCode: http.StatusOK,
				body:       "Hello, World!",
			},
		},
		{
			name:            "declared gzip but plain body",
			content:         "Invalid gzip data",
			compress:        false,
			contentEncoding: "gzip",
			want: struct {
				statusCode int
				body       string
			}{
				statusCode: http.StatusBadRequest,
				body:       "некорректное gzip-тело запроса",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.compress {
				var buf bytes.Buffer
				gw := gzip.NewWriter(&buf)
				_, err := gw.Write([]byte(tt.content))
				require.NoError(t, err)
				require.NoError(t, gw.Close())
				body = &buf
			} else {
				body = strings.NewReader(tt.content)
			}

			req, _ := http.NewRequest("POST", "/test", body)
			if tt.contentEncoding != "" {
				req.Header.Set("Content-Encoding", tt.contentEncoding)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want.statusCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.want.body)
		})
	}
}

func TestGzipResponseCompress(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(GzipResponseCompress())
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": strings.Repeat("data", 100)})
	})

	t.Run("client accepts gzip", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/test", nil)
		req.Header.Set("Accept-Encoding", "gzip")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))

		gr, err := gzip.NewReader(w.Body)
		require.NoError(t, err)
		defer func() { _ = gr.Close() }()

		decoded, err := io.ReadAll(gr)
		require.NoError(t, err)
		assert.Contains(t, string(decoded), strings.Repeat("data", 100))
	})

	t.Run("client does not accept gzip", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/test", nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Content-Encoding"))
		assert.Contains(t, w.Body.String(), "data")
	})
}
