package server

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taskboard/internal/domain/errors"
)

const userIDKey = "userID"

// AuthRequired проверяет заголовок Authorization: Bearer <token> и кладёт
// идентификатор пользователя в контекст запроса. Отсутствующий или
// некорректный заголовок — 401, невалидный или просроченный токен — 403.
func AuthRequired(cfg *Config) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errors.ErrTokenMissing.Error()})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errors.ErrTokenMissing.Error()})
			return
		}

		userID, err := VerifyToken(cfg.JWTSecret, parts[1])
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": errors.ErrInvalidToken.Error()})
			return
		}

		ctx.Set(userIDKey, userID)
		ctx.Next()
	}
}

// requestUserID возвращает идентификатор пользователя, положенный AuthRequired.
func requestUserID(ctx *gin.Context) (string, bool) {
	v, exists := ctx.Get(userIDKey)
	if !exists {
		return "", false
	}
	userID, ok := v.(string)
	return userID, ok && userID != ""
}

type gzipBody struct {
	io.Reader
	gzipReader io.Closer
	bodyCloser io.Closer
}

func (b *gzipBody) Close() error {
	var err1, err2 error
	if b.gzipReader != nil {
		err1 = b.gzipReader.Close()
	}
	if b.bodyCloser != nil {
		err2 = b.bodyCloser.Close()
	}
	if err1 != nil {
		return err1
	}
	return err2
}

// GzipRequestDecompress разжимает тело запроса с Content-Encoding: gzip.
func GzipRequestDecompress() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		encoding := strings.ToLower(ctx.GetHeader("Content-Encoding"))
		if strings.Contains(encoding, "gzip") {
			gr, err := gzip.NewReader(ctx.Request.Body)
			if err != nil {
				ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": errors.ErrInvalidGzipRequest.Error()})
				return
			}

			ctx.Request.Body = &gzipBody{
				Reader:     gr,
				gzipReader: gr,
				bodyCloser: ctx.Request.Body,
			}

			ctx.Request.Header.Del("Content-Encoding")
			ctx.Request.Header.Del("Content-Length")
		}
		ctx.Next()
	}
}

type gzipWriter struct {
	gin.ResponseWriter
	gw *gzip.Writer
}

func (w *gzipWriter) Write(data []byte) (int, error) {
	return w.gw.Write(data)
}

func (w *gzipWriter) WriteString(s string) (int, error) {
	return w.gw.Write([]byte(s))
}

func (w *gzipWriter) Flush() {
	_ = w.gw.Flush()
	w.ResponseWriter.Flush()
}

// GzipResponseCompress сжимает ответ, если клиент прислал Accept-Encoding: gzip.
func GzipResponseCompress() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.Request.Method == http.MethodHead {
			ctx.Next()
			return
		}

		acceptEnc := strings.ToLower(ctx.GetHeader("Accept-Encoding"))
		if !strings.Contains(acceptEnc, "gzip") {
			ctx.Next()
			return
		}

		ctx.Header("Content-Encoding", "gzip")
		ctx.Header("Vary", "Accept-Encoding")

		gw := gzip.NewWriter(ctx.Writer)
		wrapped := &gzipWriter{ResponseWriter: ctx.Writer, gw: gw}
		ctx.Writer = wrapped

		defer func() {
			if err := gw.Close(); err != nil {
				_ = ctx.Error(errors.ErrGzipCompressionFailed)
			}
		}()

		ctx.Next()
	}
}
