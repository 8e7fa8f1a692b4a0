// Client for the object storage service family. Requests use derived-key
// signing with the payload hash carried as a header, and parameters always
// travel on the URL.
package storage

import (
	"encoding/xml"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mateusvicente100/amazon-storage-service/pkg/awsauth"
	"github.com/mateusvicente100/amazon-storage-service/pkg/awsrest"
)

type Client struct {
	log        logrus.FieldLogger
	endpoint   awsauth.Endpoint
	builder    *awsauth.Builder
	dispatcher *awsrest.Dispatcher
}

func NewClient(logger logrus.FieldLogger, creds awsauth.Credentials, endpoint awsauth.Endpoint) (*Client, error) {
	signer, err := awsauth.NewV4Signer(creds, endpoint, logger)
	if err != nil {
		return nil, errors.Wrap(err, "configuring storage signer")
	}

	builder := awsauth.NewBuilder(endpoint,
		[]string{awsauth.HdrHost, awsauth.HdrAmzDate, awsauth.HdrAmzContentSHA},
		awsauth.WithPayloadHashHeader())

	return &Client{
		log:        logger,
		endpoint:   endpoint,
		builder:    builder,
		dispatcher: awsrest.NewDispatcher(signer, awsrest.ParamsInURL, logger),
	}, nil
}

// call runs one request through the pipeline and decodes the XML result
// when the caller wants one. Provider errors come back via outcome.Err().
func (self *Client) call(verb, path string, query url.Values, body []byte, result interface{}) (*awsrest.ResponseOutcome, error) {
	req, err := self.builder.Build(verb, path, nil, query, body)
	if err != nil {
		return nil, err
	}
	outcome, err := self.dispatcher.Dispatch(req)
	if err != nil {
		return nil, err
	}
	if !outcome.OK() {
		return outcome, outcome.Err()
	}
	if result != nil {
		if err := xml.Unmarshal(outcome.Body, result); err != nil {
			return outcome, errors.Wrap(err, "decoding response")
		}
	}
	return outcome, nil
}

func (self *Client) ListBuckets() ([]Bucket, error) {
	var result ListAllMyBucketsResult
	if _, err := self.call(http.MethodGet, "/", nil, nil, &result); err != nil {
		return nil, err
	}
	return result.Buckets, nil
}

func (self *Client) CreateBucket(name string) error {
	_, err := self.call(http.MethodPut, "/"+name, nil, nil, nil)
	return err
}

func (self *Client) DeleteBucket(name string) error {
	_, err := self.call(http.MethodDelete, "/"+name, nil, nil, nil)
	return err
}

// PutObject stores data under bucket/key and returns the entity tag the
// provider assigned to the stored object.
func (self *Client) PutObject(bucket, key string, data []byte) (string, error) {
	outcome, err := self.call(http.MethodPut, objectPath(bucket, key), nil, data, nil)
	if err != nil {
		return "", err
	}
	return outcome.Header.Get("ETag"), nil
}

func (self *Client) GetObject(bucket, key string) ([]byte, error) {
	outcome, err := self.call(http.MethodGet, objectPath(bucket, key), nil, nil, nil)
	if err != nil {
		return nil, err
	}
	return outcome.Body, nil
}

func (self *Client) DeleteObject(bucket, key string) error {
	_, err := self.call(http.MethodDelete, objectPath(bucket, key), nil, nil, nil)
	return err
}

// ObjectPage is one page of a bucket listing. Next is empty when the
// listing is exhausted.
type ObjectPage struct {
	Objects []Object
	Next    awsrest.Cursor
}

// ListObjects fetches one page. Pass an empty cursor to start from the
// beginning and the returned Next cursor, verbatim, to continue. The
// provider's ordering is authoritative; nothing is reordered or
// deduplicated here.
func (self *Client) ListObjects(bucket, prefix string, cursor awsrest.Cursor) (*ObjectPage, error) {
	query := url.Values{"list-type": {"2"}}
	if prefix != "" {
		query.Set("prefix", prefix)
	}
	if !cursor.IsZero() {
		query.Set("continuation-token", cursor.String())
	}

	var result ListBucketResult
	if _, err := self.call(http.MethodGet, "/"+bucket, query, nil, &result); err != nil {
		return nil, err
	}
	return &ObjectPage{
		Objects: result.Contents,
		Next:    awsrest.Cursor(result.NextContinuationToken),
	}, nil
}

func objectPath(bucket, key string) string {
	return "/" + bucket + "/" + key
}
