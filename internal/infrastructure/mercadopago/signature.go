package mercadopago

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// ValidateSignature checks the x-signature header of an inbound webhook
// notification against the shared secret configured with the provider.
//
// The header carries comma-separated key=value pairs, e.g.
// "ts=1704908010,v1=618c85...". Pair order is not guaranteed and
// unknown keys are ignored. The signed manifest is
//
//	id:{dataID};request-id:{requestID};ts:{ts};
//
// where dataID is lower-cased only when it is purely alphanumeric
// (numeric ids pass through unchanged; this mirrors the provider's own
// manifest construction and must not be "fixed"). The ts value is used
// verbatim: no freshness window is enforced, so a captured signature
// stays valid indefinitely. Known gap, kept for provider compatibility.
func ValidateSignature(secret, dataID, requestID, signature string) bool {
	if secret == "" || strings.TrimSpace(signature) == "" {
		return false
	}

	var ts, receivedHash string
	for _, part := range strings.Split(signature, ",") {
		key, value, found := strings.Cut(part, "=")
		if !found {
			continue
		}
		switch strings.TrimSpace(key) {
		case "ts":
			ts = strings.TrimSpace(value)
		case "v1":
			receivedHash = strings.TrimSpace(value)
		}
	}
	if ts == "" || receivedHash == "" {
		return false
	}

	idForManifest := dataID
	if isAlphanumeric(idForManifest) {
		idForManifest = strings.ToLower(idForManifest)
	}

	manifest := "id:" + idForManifest + ";request-id:" + requestID + ";ts:" + ts + ";"

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(manifest))
	computed := hex.EncodeToString(mac.Sum(nil))

	received := strings.ToLower(receivedHash)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(received)) == 1
}

func isAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return true
}
