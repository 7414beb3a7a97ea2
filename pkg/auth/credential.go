// Package auth provides request credentials for the document database client.
package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// HTTPDateLayout is the RFC 7231 date format the service expects in the
// x-ms-date header and in the signed canonical payload.
const HTTPDateLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

// Credential produces the authorization header value for a single request.
// Implementations must be safe for concurrent use.
type Credential interface {
	// AuthorizationHeader signs the canonical request identity. The verb is
	// the HTTP method, resourceType the path discriminator (dbs, colls,
	// docs, ...), resourceLink the parent-relative resource address, and
	// date the value sent in the x-ms-date header.
	AuthorizationHeader(ctx context.Context, verb, resourceType, resourceLink string, date time.Time) (string, error)
}

// MasterKeyCredential signs requests with the account master key using
// HMAC-SHA256 over the canonical payload defined by the service REST API.
type MasterKeyCredential struct {
	key []byte
}

// Cosa fa: decodifica la master key base64 e prepara il firmatario HMAC.
// Cosa NON fa: non contatta il servizio e non valida che la chiave sia attiva.
// Esempio minimo: cred, err := auth.NewMasterKeyCredential(accountKey)
func NewMasterKeyCredential(base64Key string) (*MasterKeyCredential, error) {
	if strings.TrimSpace(base64Key) == "" {
		return nil, fmt.Errorf("master key is required")
	}
	key, err := base64.StdEncoding.DecodeString(base64Key)
	if err != nil {
		return nil, fmt.Errorf("failed to decode master key: %w", err)
	}
	return &MasterKeyCredential{key: key}, nil
}

// AuthorizationHeader implements Credential.
//
// The canonical payload is
//
//	{verb}\n{resourceType}\n{resourceLink}\n{date}\n\n
//
// with verb, resource type, and date lowercased; the signature is the
// base64-encoded HMAC-SHA256 digest and the header value is URL-encoded.
func (c *MasterKeyCredential) AuthorizationHeader(_ context.Context, verb, resourceType, resourceLink string, date time.Time) (string, error) {
	payload := strings.ToLower(verb) + "\n" +
		strings.ToLower(resourceType) + "\n" +
		resourceLink + "\n" +
		strings.ToLower(date.UTC().Format(HTTPDateLayout)) + "\n" +
		"\n"

	mac := hmac.New(sha256.New, c.key)
	mac.Write([]byte(payload))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return url.QueryEscape("type=master&ver=1.0&sig=" + signature), nil
}
