package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"quizapp/internal/ports"
)

// JWTService assina o cookie de sessão. O token carrega o usuário (sub)
// e o identificador da sessão no store (sid).
type JWTService struct {
	secretKey []byte
	issuer    string
	ttl       time.Duration
	now       func() time.Time
}

// NewJWTService cria uma nova instância de JWTService.
func NewJWTService(secret string, ttl time.Duration) *JWTService {
	return &JWTService{
		secretKey: []byte(secret),
		issuer:    "quizapp",
		ttl:       ttl,
		now:       time.Now,
	}
}

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// GenerateToken gera o token da sessão e retorna a validade em segundos.
func (s *JWTService) GenerateToken(userID, sessionID string) (string, int64, error) {
	now := s.now()
	claims := sessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", 0, err
	}

	return signedToken, int64(s.ttl / time.Second), nil
}

// ValidateToken valida assinatura, emissor e expiração.
func (s *JWTService) ValidateToken(tokenString string) (*ports.SessionClaims, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		// Valida o método de assinatura
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("método de assinatura inválido")
		}
		return s.secretKey, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token inválido")
	}

	if claims.Subject == "" {
		return nil, errors.New("token sem ID de usuário (sub)")
	}
	if claims.SessionID == "" {
		return nil, errors.New("token sem ID de sessão (sid)")
	}

	return &ports.SessionClaims{UserID: claims.Subject, SessionID: claims.SessionID}, nil
}
