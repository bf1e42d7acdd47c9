// Package jwt implements RFC 7519 JSON Web Tokens signed with HMAC-SHA256.
//
//	service, err := jwt.NewFromString("your-secret-key")
//
//	type AccessClaims struct {
//		jwt.StandardClaims
//		UserID string `json:"user_id"`
//		Role   string `json:"role"`
//	}
//
//	token, err := service.Generate(AccessClaims{
//		StandardClaims: jwt.StandardClaims{
//			Subject:   "user123",
//			ExpiresAt: time.Now().Add(time.Hour).Unix(),
//			IssuedAt:  time.Now().Unix(),
//		},
//		UserID: "user123",
//		Role:   "admin",
//	})
//
//	var claims AccessClaims
//	err = service.Parse(token, &claims)
//
// Signature verification uses constant-time comparison, and exp/nbf claims
// are validated during Parse.
package jwt
