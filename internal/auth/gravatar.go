package auth

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"strings"
)

// AvatarURL derives a Gravatar image URL from an email address: 200px,
// rated PG, falling back to the "mystery man" silhouette. The URL is
// protocol-relative so it works under http and https.
func AvatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))

	q := url.Values{}
	q.Set("s", "200")
	q.Set("r", "pg")
	q.Set("d", "mm")

	return "//www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?" + q.Encode()
}
