package awsauth

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/url"
	"strings"
)

// SignableRequest is the per-request value threaded from builder to signer
// to dispatcher. It is constructed once and never shared between requests,
// so the layers read it instead of mutating a common header list in place.
type SignableRequest struct {
	Verb     string
	Endpoint Endpoint

	// Path is the percent-encoded path as transmitted; ResourcePath is the
	// path as signed, which additionally carries the virtual-host resource
	// prefix when the resource identifier lives in the host name.
	Path         string
	ResourcePath string

	Headers     http.Header
	Query       url.Values
	Body        []byte
	PayloadHash string

	// Required is the signed-header floor for this service family. It is
	// computed once per builder and shared read-only.
	Required []string
}

// URL returns the transmission target without query parameters; the
// dispatcher appends those in their transmission form.
func (r *SignableRequest) URL() string {
	return r.Endpoint.Protocol + "://" + r.Endpoint.Host + r.Path
}

// Builder assembles signable requests for one endpoint. A builder holds no
// mutable state after construction and is safe for concurrent use.
type Builder struct {
	endpoint       Endpoint
	required       []string
	resourcePrefix string
	hashHeader     bool
}

type BuilderOption func(*Builder)

// WithPayloadHashHeader makes the builder attach the payload digest as a
// header, which the storage family requires for derived-key signing.
func WithPayloadHashHeader() BuilderOption {
	return func(b *Builder) { b.hashHeader = true }
}

// WithResourcePrefix sets the signed-resource prefix for virtual-host style
// addressing, where the resource identifier is part of the host name but
// still belongs in the signed resource path.
func WithResourcePrefix(prefix string) BuilderOption {
	return func(b *Builder) { b.resourcePrefix = prefix }
}

func NewBuilder(endpoint Endpoint, required []string, opts ...BuilderOption) *Builder {
	b := &Builder{
		endpoint: endpoint,
		required: append([]string(nil), required...),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build assembles everything the signing strategies need for one request.
// The resource path is computed here, once, so the signed string and the
// transmitted string can never disagree.
func (b *Builder) Build(verb, path string, headers http.Header, query url.Values, body []byte) (*SignableRequest, error) {
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	escaped := EscapePath(path)

	sum := EmptyPayloadHash
	if len(body) > 0 {
		digest := sha256.Sum256(body)
		sum = hex.EncodeToString(digest[:])
	}

	hdr := cloneHeader(headers)
	if b.hashHeader {
		hdr.Set("X-Amz-Content-Sha256", sum)
	}

	return &SignableRequest{
		Verb:         strings.ToUpper(verb),
		Endpoint:     b.endpoint,
		Path:         escaped,
		ResourcePath: b.resourcePrefix + escaped,
		Headers:      hdr,
		Query:        cloneValues(query),
		Body:         body,
		PayloadHash:  sum,
		Required:     b.required,
	}, nil
}

func cloneHeader(hdr http.Header) http.Header {
	out := make(http.Header, len(hdr))
	for name, values := range hdr {
		out[name] = append([]string(nil), values...)
	}
	return out
}

func cloneValues(params url.Values) url.Values {
	out := make(url.Values, len(params))
	for name, values := range params {
		out[name] = append([]string(nil), values...)
	}
	return out
}
