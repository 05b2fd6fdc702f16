package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/d60-Lab/nousrire-site/internal/apperr"
	"github.com/d60-Lab/nousrire-site/pkg/logger"
	"github.com/d60-Lab/nousrire-site/pkg/response"
)

const claimsKey = "auth.claims"

// Claims 身份服务签发的管理员令牌
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AdminAuth 校验 Bearer 令牌：缺失或无效返回 401，角色不符返回 403
func AdminAuth(secret, issuer, role string) gin.HandlerFunc {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	parser := jwt.NewParser(opts...)
	key := []byte(secret)

	return func(c *gin.Context) {
		if len(key) == 0 {
			// 未配置密钥时管理端整体关闭
			response.Unauthorized(c, "admin access is not configured")
			c.Abort()
			return
		}
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Unauthorized(c, "missing bearer token")
			c.Abort()
			return
		}

		var claims Claims
		if _, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) { return key, nil }); err != nil {
			logger.Debug("admin token rejected", zap.Error(err))
			msg := "invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "token expired"
			}
			response.Unauthorized(c, msg)
			c.Abort()
			return
		}
		if claims.Role != role {
			logger.Info("admin token with insufficient role",
				zap.String("subject", claims.Subject),
				zap.String("role", claims.Role),
			)
			response.Error(c, apperr.Permission(errors.New("role "+claims.Role+" is not "+role)))
			c.Abort()
			return
		}
		c.Set(claimsKey, &claims)
		c.Next()
	}
}

// ClaimsFrom 取出已通过校验的令牌声明
func ClaimsFrom(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}

func bearerToken(header string) (string, bool) {
	scheme, tok, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	return tok, tok != ""
}
