package awsauth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// V4Algorithm identifies the derived-key scheme on the wire.
	V4Algorithm = "AWS4-HMAC-SHA256"

	v4KeyPrefix  = "AWS4"
	v4Terminator = "aws4_request"

	legacySignatureVersion = "2"
	legacySignatureMethod  = "HmacSHA256"
)

// Authorization is the output of a signing strategy, ready to be attached
// to the outgoing request by the dispatcher.
type Authorization struct {
	// Header is the Authorization header value; set by the derived-key
	// scheme.
	Header string

	// Params are query parameters carrying the signature and signing
	// identity; set by the legacy scheme.
	Params url.Values

	// Headers are headers that became part of the signature and therefore
	// must travel with the request (the timestamp header).
	Headers http.Header

	// SignedHeaders is the semicolon-joined signed header name list.
	SignedHeaders string
}

// Signer turns a signable request into an Authorization. One strategy is
// selected per service family at client construction. Implementations are
// pure: the same request and timestamp always produce the same signature.
type Signer interface {
	Sign(req *SignableRequest, t time.Time) (*Authorization, error)
}

// V4Signer implements the derived-key scheme: the canonical request is
// hashed, and the hash is signed with a key chained through four
// HMAC-SHA256 operations bounding it to one date, region and service.
type V4Signer struct {
	creds    Credentials
	endpoint Endpoint
	log      logrus.FieldLogger
}

// NewV4Signer fails on an empty secret key: that is a configuration error
// and there is no point issuing requests that the provider will reject.
func NewV4Signer(creds Credentials, endpoint Endpoint, logger logrus.FieldLogger) (*V4Signer, error) {
	if creds.SecretKey == "" {
		return nil, errors.New("cannot derive a signing key from an empty secret key")
	}
	return &V4Signer{creds: creds, endpoint: endpoint, log: logger}, nil
}

func (s *V4Signer) Sign(req *SignableRequest, t time.Time) (*Authorization, error) {
	amzDate := t.UTC().Format(TimeFormat)
	shortDate := t.UTC().Format(ShortTimeFormat)

	hdr := cloneHeader(req.Headers)
	hdr.Set("X-Amz-Date", amzDate)

	block, signedNames, err := CanonicalHeaders(hdr, req.Endpoint.Host, req.Required)
	if err != nil {
		return nil, err
	}

	payloadHash := req.PayloadHash
	if payloadHash == "" {
		payloadHash = EmptyPayloadHash
	}

	canonical := strings.Join([]string{
		req.Verb,
		req.ResourcePath,
		CanonicalQuery(req.Query, QueryForSigning),
		block + "\n",
		signedNames,
		payloadHash,
	}, "\n")

	scope := strings.Join([]string{shortDate, s.endpoint.Region, s.endpoint.Service, v4Terminator}, "/")

	digest := sha256.Sum256([]byte(canonical))
	stringToSign := strings.Join([]string{
		V4Algorithm,
		amzDate,
		scope,
		hex.EncodeToString(digest[:]),
	}, "\n")

	key := deriveKey(s.creds.SecretKey, shortDate, s.endpoint.Region, s.endpoint.Service)
	signature := hex.EncodeToString(hmacSHA256(key, stringToSign))

	if s.log != nil {
		s.log.WithFields(logrus.Fields{
			"canonicalRequest": canonical,
			"stringToSign":     stringToSign,
		}).Debug("derived-key signing")
	}

	extra := make(http.Header)
	extra.Set("X-Amz-Date", amzDate)

	return &Authorization{
		Header: V4Algorithm +
			" Credential=" + s.creds.AccessKey + "/" + scope +
			", SignedHeaders=" + signedNames +
			", Signature=" + signature,
		Headers:       extra,
		SignedHeaders: signedNames,
	}, nil
}

// LegacySigner implements the single-stage HMAC scheme used by the queue
// and attribute-store families. The signature travels as a query parameter
// together with the signing identity parameters.
type LegacySigner struct {
	creds Credentials
	log   logrus.FieldLogger
}

func NewLegacySigner(creds Credentials, logger logrus.FieldLogger) (*LegacySigner, error) {
	if creds.SecretKey == "" {
		return nil, errors.New("cannot sign requests with an empty secret key")
	}
	return &LegacySigner{creds: creds, log: logger}, nil
}

func (s *LegacySigner) Sign(req *SignableRequest, t time.Time) (*Authorization, error) {
	params := url.Values{}
	params.Set("AWSAccessKeyId", s.creds.AccessKey)
	params.Set("SignatureMethod", legacySignatureMethod)
	params.Set("SignatureVersion", legacySignatureVersion)
	params.Set("Timestamp", t.UTC().Format(LegacyTimeFormat))

	// the signed query covers both the caller's parameters and the signing
	// identity parameters added above
	signedQuery := cloneValues(req.Query)
	for name, values := range params {
		signedQuery[name] = values
	}

	block, _, err := CanonicalHeaders(req.Headers, req.Endpoint.Host, req.Required)
	if err != nil {
		return nil, err
	}

	stringToSign := legacyStringToSign(req.Verb, block,
		CanonicalQuery(signedQuery, QueryForSigning), req.ResourcePath)
	signature := base64.StdEncoding.EncodeToString(
		hmacSHA256([]byte(s.creds.SecretKey), stringToSign))

	if s.log != nil {
		s.log.WithField("stringToSign", stringToSign).Debug("legacy signing")
	}

	params.Set("Signature", signature)
	return &Authorization{Params: params}, nil
}

func legacyStringToSign(verb, headerBlock, query, resource string) string {
	return strings.Join([]string{verb, headerBlock, query, resource}, "\n")
}

// deriveKey chains four HMAC operations so the resulting signing key is
// only valid for one date, region and service.
func deriveKey(secret, date, region, service string) []byte {
	k := hmacSHA256([]byte(v4KeyPrefix+secret), date)
	k = hmacSHA256(k, region)
	k = hmacSHA256(k, service)
	return hmacSHA256(k, v4Terminator)
}

func hmacSHA256(key []byte, data string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(data))
	return mac.Sum(nil)
}
