package jwt

import (
	"crypto/rsa"
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	UserID   uint   `json:"userID"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type Manager struct {
	method    jwt.SigningMethod
	signKey   any
	verifyKey any
	ttl       time.Duration
}

func NewRSAManager(privateKey *rsa.PrivateKey, ttl time.Duration) *Manager {
	return &Manager{
		method:    jwt.SigningMethodRS256,
		signKey:   privateKey,
		verifyKey: &privateKey.PublicKey,
		ttl:       ttl,
	}
}

func NewHMACManager(secret []byte, ttl time.Duration) *Manager {
	return &Manager{
		method:    jwt.SigningMethodHS256,
		signKey:   secret,
		verifyKey: secret,
		ttl:       ttl,
	}
}

// 從PEM檔讀取RSA金鑰
func NewManagerFromFiles(privateKeyPath, publicKeyPath string, ttl time.Duration) (*Manager, error) {
	privateKey, err := loadPrivateKey(privateKeyPath)
	if err != nil {
		return nil, err
	}
	publicKey, err := loadPublicKey(publicKeyPath)
	if err != nil {
		return nil, err
	}

	manager := NewRSAManager(privateKey, ttl)
	manager.verifyKey = publicKey
	return manager, nil
}

// 讀取私鑰
func loadPrivateKey(path string) (*rsa.PrivateKey, error) {
	keyBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return jwt.ParseRSAPrivateKeyFromPEM(keyBytes)
}

// 讀取公鑰
func loadPublicKey(path string) (*rsa.PublicKey, error) {
	keyBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return jwt.ParseRSAPublicKeyFromPEM(keyBytes)
}

// 生成JWT Token，回傳Token、Token ID與到期時間
func (m *Manager) GenerateToken(userID uint, username string) (string, string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(m.ttl)
	tokenID := uuid.NewString()

	claims := Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	tokenString, err := jwt.NewWithClaims(m.method, claims).SignedString(m.signKey)
	if err != nil {
		return "", "", time.Time{}, err
	}

	return tokenString, tokenID, expiresAt, nil
}

// 驗證JWT Token並回傳Claims
func (m *Manager) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.verifyKey, nil
	}, jwt.WithValidMethods([]string{m.method.Alg()}))
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	if !token.Valid || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
