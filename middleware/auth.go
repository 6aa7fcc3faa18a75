package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"trainer-backend/models"
	"trainer-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const (
	ctxUserIDKey = "auth.userID"
	ctxRoleKey   = "auth.role"
)

func jwtSecret() []byte {
	return []byte(utils.EnvOrDefault("JWT_SECRET", "dev-secret-change-me"))
}

// SignToken ออก JWT ให้ user (sub = user id, role claim)
func SignToken(user *models.User, ttlHours int) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(user.ID), 10),
		"role": string(user.Role),
		"exp":  now.Add(time.Duration(ttlHours) * time.Hour).Unix(),
		"iat":  now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// AuthRequired ตรวจ Bearer token แล้ว resolve user จาก DB
// (role เอาจาก DB row ไม่ใช่จาก claim - กัน token เก่าหลัง role เปลี่ยน)
func AuthRequired(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return jwtSecret(), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token claims"})
			return
		}
		sub, _ := claims["sub"].(string)
		userID, convErr := strconv.ParseUint(sub, 10, 64)
		if convErr != nil || userID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token subject"})
			return
		}

		var user models.User
		if err := db.First(&user, uint(userID)).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}
		if !user.IsActive() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "inactive user"})
			return
		}

		c.Set(ctxUserIDKey, user.ID)
		c.Set(ctxRoleKey, user.Role)
		c.Next()
	}
}

// RequireAnyRole ผ่านถ้า role ของผู้ใช้ตรงอย่างน้อย 1 ค่า
func RequireAnyRole(roles ...models.Role) gin.HandlerFunc {
	need := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		need[r] = struct{}{}
	}
	return func(c *gin.Context) {
		role, ok := CurrentRole(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		if _, allowed := need[role]; !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// CurrentUserID อ่าน id ที่ AuthRequired ตั้งไว้
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ctxUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

func CurrentRole(c *gin.Context) (models.Role, bool) {
	v, ok := c.Get(ctxRoleKey)
	if !ok {
		return "", false
	}
	role, ok := v.(models.Role)
	return role, ok
}
