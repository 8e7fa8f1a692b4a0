package awsrest

import (
	"bytes"
	"io"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mateusvicente100/amazon-storage-service/pkg/awsauth"
)

// ParamEncoding selects how a request's parameters travel when there is no
// entity body.
type ParamEncoding int

const (
	// ParamsInURL keeps query parameters on the URL. The storage family
	// always uses this.
	ParamsInURL ParamEncoding = iota

	// ParamsAsForm moves the parameters of a bodiless request into a
	// form-urlencoded POST body. The legacy queue and table families use
	// this for their large parameter sets.
	ParamsAsForm
)

// Dispatcher signs, sends and classifies. It performs exactly one HTTP
// exchange per call: there is no internal retry, and a network-level
// failure surfaces as an error with no outcome to classify. A dispatcher
// holds no per-request state and is safe for concurrent use.
type Dispatcher struct {
	signer   awsauth.Signer
	encoding ParamEncoding
	client   *http.Client
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewDispatcher(signer awsauth.Signer, encoding ParamEncoding, logger logrus.FieldLogger) *Dispatcher {
	return &Dispatcher{
		signer:   signer,
		encoding: encoding,
		client:   &http.Client{},
		log:      logger,
		now:      time.Now,
	}
}

// Dispatch signs the request, performs the exchange and classifies the
// response. The error parser runs on every outcome, success included,
// because some services embed a request-tracing identifier in normal
// responses. A transport failure (no response obtained) returns a nil
// outcome and an error, which callers must not confuse with a
// provider-reported error.
func (d *Dispatcher) Dispatch(req *awsauth.SignableRequest) (*ResponseOutcome, error) {
	auth, err := d.signer.Sign(req, d.now())
	if err != nil {
		return nil, err
	}

	query := cloneValues(req.Query)
	for name, values := range auth.Params {
		query[name] = values
	}

	verb := req.Verb
	target := req.URL()
	var body io.Reader

	switch {
	case len(req.Body) > 0:
		// an entity body always travels as-is, parameters stay on the URL
		body = bytes.NewReader(req.Body)
		if encoded := awsauth.CanonicalQuery(query, awsauth.QueryForTransmission); encoded != "" {
			target += "?" + encoded
		}
	case d.encoding == ParamsAsForm:
		verb = http.MethodPost
		body = strings.NewReader(awsauth.CanonicalQuery(query, awsauth.QueryForTransmission))
	default:
		if encoded := awsauth.CanonicalQuery(query, awsauth.QueryForTransmission); encoded != "" {
			target += "?" + encoded
		}
	}

	httpReq, err := http.NewRequest(verb, target, body)
	if err != nil {
		return nil, errors.Wrap(err, "building HTTP request")
	}
	for name, values := range req.Headers {
		for _, v := range values {
			httpReq.Header.Add(name, v)
		}
	}
	for name, values := range auth.Headers {
		if len(values) > 0 {
			httpReq.Header.Set(name, values[0])
		}
	}
	if len(req.Body) == 0 && d.encoding == ParamsAsForm {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if auth.Header != "" {
		httpReq.Header.Set("Authorization", auth.Header)
	}
	httpReq.Host = req.Endpoint.Host

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "transport failure")
	}
	defer resp.Body.Close()

	raw, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading response body")
	}

	outcome := &ResponseOutcome{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       raw,
	}

	detail, isProviderError := ClassifyError(raw)
	switch {
	case outcome.OK():
		outcome.Class = Success
		outcome.RequestID = resp.Header.Get(awsauth.HdrAmzRequestID)
		if outcome.RequestID == "" {
			outcome.RequestID = ExtractRequestID(raw)
		}
	case isProviderError:
		outcome.Class = ProviderError
		outcome.Error = detail
		outcome.RequestID = detail.RequestID
	default:
		outcome.Class = MalformedBody
	}

	if d.log != nil {
		d.log.WithFields(logrus.Fields{
			"verb":      verb,
			"status":    resp.StatusCode,
			"requestId": outcome.RequestID,
		}).Debug("dispatched request")
	}
	return outcome, nil
}

func cloneValues(params map[string][]string) map[string][]string {
	out := make(map[string][]string, len(params))
	for name, values := range params {
		out[name] = append([]string(nil), values...)
	}
	return out
}
