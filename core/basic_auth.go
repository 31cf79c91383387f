package core

import "encoding/base64"

const basicAuthPrefix = "Basic "

// EncodeBasic returns the HTTP Basic authorization header value for the given
// client identifier and secret. Inputs are not escaped.
func EncodeBasic(user, pass string) string {
	return basicAuthPrefix + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}
