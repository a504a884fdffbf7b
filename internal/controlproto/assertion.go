package controlproto

import (
	"crypto/sha256"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

// assertionClaims are the claims carried by the signed registration
// assertion (SPEC_FULL.md §4.I domain-stack addition).
type assertionClaims struct {
	MachineID   string `json:"machineId"`
	LicenseUUID string `json:"licenseUuid"`
	jwt.RegisteredClaims
}

// SignAssertion builds a compact HS256 JWT over {machineId, licenseUuid,
// iat, exp}, signed with a secret derived from licenseUuid via HKDF. A
// control server that validates the assertion gets cryptographic
// confidence that the registration really came from the licensed agent,
// without needing per-connection mutual TLS.
func SignAssertion(machineID, licenseUUID string) (string, error) {
	if licenseUUID == "" {
		return "", fmt.Errorf("controlproto: cannot sign assertion without a licenseUuid")
	}

	secret, err := deriveAssertionSecret(licenseUUID)
	if err != nil {
		return "", fmt.Errorf("controlproto: derive assertion secret: %w", err)
	}

	now := time.Now()
	claims := assertionClaims{
		MachineID:   machineID,
		LicenseUUID: licenseUUID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(5 * time.Minute)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// VerifyAssertion checks a compact JWT produced by SignAssertion and
// returns its claims. Used by test doubles of a control server, and
// available to any control-server implementation written in Go.
func VerifyAssertion(tokenString, licenseUUID string) (*assertionClaims, error) {
	secret, err := deriveAssertionSecret(licenseUUID)
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(tokenString, &assertionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*assertionClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("controlproto: invalid assertion token")
	}
	return claims, nil
}

// deriveAssertionSecret derives a 32-byte HMAC key from the license uuid
// via HKDF-SHA256, so the signing secret is never the license uuid itself.
func deriveAssertionSecret(licenseUUID string) ([]byte, error) {
	reader := hkdf.New(sha256.New, []byte(licenseUUID), []byte("screenctl-registration-assertion"), nil)
	secret := make([]byte, 32)
	if _, err := io.ReadFull(reader, secret); err != nil {
		return nil, err
	}
	return secret, nil
}
