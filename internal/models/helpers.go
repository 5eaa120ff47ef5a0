package models

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GenerateSessionTokenID returns a 128-bit random token, hex encoded.
func GenerateSessionTokenID() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate session token: %v", err)
	}
	return hex.EncodeToString(bytes), nil
}

func GenerateAnomalyID() string {
	return fmt.Sprintf("anomaly_%s_%d",
		time.Now().Format("20060102"),
		uuid.New().ID())
}
