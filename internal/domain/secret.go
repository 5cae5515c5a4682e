package domain

import "encoding/base64"

// EncodeSecret applies the reversible transform used to hide clue strings in
// case metadata.
func EncodeSecret(plaintext string) string {
	return base64.StdEncoding.EncodeToString([]byte(plaintext))
}

// DecodeSecret reverses EncodeSecret. Decoding must reproduce the original
// plaintext exactly.
func DecodeSecret(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
