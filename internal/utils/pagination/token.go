package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// EncodeOffsetToken creates a base64 encoded token from a list offset and a
// fingerprint of the query that produced the list.
func EncodeOffsetToken(offset int, fingerprint string) string {
	return EncodeMultiFieldToken(strconv.Itoa(offset), fingerprint)
}

// DecodeOffsetToken parses a token produced by EncodeOffsetToken. A token
// issued for a different query is rejected.
func DecodeOffsetToken(token string, fingerprint string) (int, error) {
	parts, err := DecodeMultiFieldToken(token)
	if err != nil {
		return 0, err
	}
	if len(parts) < 2 {
		return 0, fmt.Errorf("invalid pagination token format (split)")
	}
	offset, err := strconv.Atoi(parts[0])
	if err != nil || offset < 0 {
		return 0, fmt.Errorf("invalid pagination token format (offset parse)")
	}
	if strings.Join(parts[1:], "|") != fingerprint {
		return 0, fmt.Errorf("pagination token does not match the query")
	}
	return offset, nil
}

// Fingerprint joins the query fields that must stay fixed across pages.
func Fingerprint(fields ...string) string {
	return strings.Join(fields, "|")
}

// EncodeMultiFieldToken creates a token with any number of string fields
func EncodeMultiFieldToken(fields ...string) string {
	tokenStr := strings.Join(fields, "|")
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeMultiFieldToken decodes a token into its component fields
func DecodeMultiFieldToken(token string) ([]string, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	return strings.Split(string(decodedBytes), "|"), nil
}
