package awsauth

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

const (
	// AmzHeaderPrefix marks provider-specific headers, which are always
	// part of the signed set.
	AmzHeaderPrefix = "x-amz-"

	HdrHost          = "host"
	HdrContentType   = "content-type"
	HdrContentMD5    = "content-md5"
	HdrAmzDate       = "x-amz-date"
	HdrAmzContentSHA = "x-amz-content-sha256"
	HdrAmzRequestID  = "x-amz-request-id"

	// TimeFormat is the timestamp layout of the derived-key scheme;
	// ShortTimeFormat is its date-only form used in the credential scope.
	TimeFormat      = "20060102T150405Z"
	ShortTimeFormat = "20060102"

	// LegacyTimeFormat is the timestamp layout of the legacy scheme.
	LegacyTimeFormat = "2006-01-02T15:04:05Z"

	// EmptyPayloadHash is the SHA256 of the empty string, used whenever a
	// request carries no body.
	EmptyPayloadHash = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
)

// QueryMode selects between the two canonical query serializations.
type QueryMode int

const (
	// QueryForTransmission is the form that travels on the wire. Repeated
	// parameter names stay separate.
	QueryForTransmission QueryMode = iota

	// QueryForSigning is the strictly ordered form fed to the signing
	// strategies. Repeated parameter names collapse into one comma-joined
	// value.
	QueryForSigning
)

// CanonicalHeaders serializes the signed header set: the union of the
// caller-supplied required names, every header carrying the provider prefix,
// and content-type/content-md5 when present. Names are lower-cased, the
// union is sorted ascending, and duplicate names collapse into one entry.
//
// The first return value is the "name:value" block joined by newlines; the
// second is the semicolon-joined signed header name list. A required header
// that is absent from the request is a caller bug and returns an error.
func CanonicalHeaders(hdr http.Header, host string, required []string) (block, signedNames string, err error) {
	canon := make(map[string]string)

	add := func(name string, values []string) {
		vals := make([]string, len(values))
		for i, v := range values {
			// runs of whitespace inside a value collapse to one space,
			// leading and trailing whitespace is dropped
			vals[i] = strings.Join(strings.Fields(v), " ")
		}
		canon[name] = strings.Join(vals, ",")
	}

	for name, values := range hdr {
		lower := strings.ToLower(name)
		if strings.HasPrefix(lower, AmzHeaderPrefix) || lower == HdrContentType || lower == HdrContentMD5 {
			add(lower, values)
		}
	}

	for _, name := range required {
		lower := strings.ToLower(name)
		if _, ok := canon[lower]; ok {
			continue
		}
		if lower == HdrHost {
			canon[HdrHost] = host
			continue
		}
		values := hdr.Values(name)
		if len(values) == 0 {
			return "", "", errors.Errorf("missing required header %q", lower)
		}
		add(lower, values)
	}

	names := make([]string, 0, len(canon))
	for name := range canon {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, len(names))
	for i, name := range names {
		lines[i] = name + ":" + canon[name]
	}
	return strings.Join(lines, "\n"), strings.Join(names, ";"), nil
}

// CanonicalQuery serializes query parameters in the requested mode. Every
// parameter is emitted with an explicit "=", even when its value is empty.
// Zero parameters yield an empty string.
func CanonicalQuery(params url.Values, mode QueryMode) string {
	if len(params) == 0 {
		return ""
	}

	if mode == QueryForTransmission {
		// Encode already sorts by name and keeps repeated names separate;
		// spaces must travel as %20, not "+"
		return strings.ReplaceAll(params.Encode(), "+", "%20")
	}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, len(names))
	for i, name := range names {
		pairs[i] = escape(name) + "=" + escape(strings.Join(params[name], ","))
	}
	return strings.Join(pairs, "&")
}

// escape percent-encodes everything outside the RFC 3986 unreserved set.
func escape(s string) string {
	var buf strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' ||
			c == '-' || c == '_' || c == '.' || c == '~' {
			buf.WriteByte(c)
			continue
		}
		fmt.Fprintf(&buf, "%%%02X", c)
	}
	return buf.String()
}

// EscapePath percent-encodes a URI path, leaving segment separators intact.
// The same encoded form is used both in the canonical request and on the
// wire; encoding them differently is indistinguishable from bad credentials.
func EscapePath(path string) string {
	var buf strings.Builder
	for i := 0; i < len(path); i++ {
		c := path[i]
		if c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' ||
			c == '-' || c == '_' || c == '.' || c == '~' || c == '/' {
			buf.WriteByte(c)
			continue
		}
		fmt.Fprintf(&buf, "%%%02X", c)
	}
	return buf.String()
}
