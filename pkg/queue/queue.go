// Client for the message queue service family. Operations are expressed as
// Action parameters, signed with the legacy scheme and transmitted as a
// form-urlencoded POST body.
package queue

import (
	"encoding/xml"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mateusvicente100/amazon-storage-service/pkg/awsauth"
	"github.com/mateusvicente100/amazon-storage-service/pkg/awsrest"
)

const apiVersion = "2012-11-05"

type Client struct {
	log        logrus.FieldLogger
	endpoint   awsauth.Endpoint
	builder    *awsauth.Builder
	dispatcher *awsrest.Dispatcher
}

func NewClient(logger logrus.FieldLogger, creds awsauth.Credentials, endpoint awsauth.Endpoint) (*Client, error) {
	signer, err := awsauth.NewLegacySigner(creds, logger)
	if err != nil {
		return nil, errors.Wrap(err, "configuring queue signer")
	}

	return &Client{
		log:        logger,
		endpoint:   endpoint,
		builder:    awsauth.NewBuilder(endpoint, []string{awsauth.HdrHost}),
		dispatcher: awsrest.NewDispatcher(signer, awsrest.ParamsAsForm, logger),
	}, nil
}

func (self *Client) call(action string, params url.Values, result interface{}) error {
	query := url.Values{
		"Action":  {action},
		"Version": {apiVersion},
	}
	for name, values := range params {
		query[name] = values
	}

	req, err := self.builder.Build(http.MethodPost, "/", nil, query, nil)
	if err != nil {
		return err
	}
	outcome, err := self.dispatcher.Dispatch(req)
	if err != nil {
		return err
	}
	if !outcome.OK() {
		return outcome.Err()
	}
	if result != nil {
		if err := xml.Unmarshal(outcome.Body, result); err != nil {
			return errors.Wrap(err, "decoding "+action+" response")
		}
	}
	return nil
}

// QueuePage is one page of queue URLs; Next is empty on the last page.
type QueuePage struct {
	QueueURLs []string
	Next      awsrest.Cursor
}

// ListQueues fetches one page of queue URLs, optionally filtered by name
// prefix. Thread the returned cursor through repeated calls to walk the
// full listing.
func (self *Client) ListQueues(prefix string, cursor awsrest.Cursor) (*QueuePage, error) {
	params := url.Values{}
	if prefix != "" {
		params.Set("QueueNamePrefix", prefix)
	}
	if !cursor.IsZero() {
		params.Set("NextToken", cursor.String())
	}

	var result listQueuesResponse
	if err := self.call("ListQueues", params, &result); err != nil {
		return nil, err
	}
	return &QueuePage{
		QueueURLs: result.QueueURLs,
		Next:      awsrest.Cursor(result.NextToken),
	}, nil
}

// CreateQueue returns the URL of the created (or already existing) queue.
func (self *Client) CreateQueue(name string) (string, error) {
	var result createQueueResponse
	if err := self.call("CreateQueue", url.Values{"QueueName": {name}}, &result); err != nil {
		return "", err
	}
	return result.QueueURL, nil
}

func (self *Client) DeleteQueue(queueURL string) error {
	return self.call("DeleteQueue", url.Values{"QueueUrl": {queueURL}}, nil)
}

// SendMessage returns the provider-assigned message identifier.
func (self *Client) SendMessage(queueURL, body string) (string, error) {
	params := url.Values{
		"QueueUrl":    {queueURL},
		"MessageBody": {body},
	}
	var result sendMessageResponse
	if err := self.call("SendMessage", params, &result); err != nil {
		return "", err
	}
	return result.MessageID, nil
}

// Message is one received queue message. The receipt handle, not the
// message id, is what DeleteMessage needs.
type Message struct {
	MessageID     string `xml:"MessageId"`
	ReceiptHandle string `xml:"ReceiptHandle"`
	Body          string `xml:"Body"`
	MD5OfBody     string `xml:"MD5OfBody"`
}

func (self *Client) ReceiveMessage(queueURL string, max int) ([]Message, error) {
	params := url.Values{"QueueUrl": {queueURL}}
	if max > 0 {
		params.Set("MaxNumberOfMessages", strconv.Itoa(max))
	}
	var result receiveMessageResponse
	if err := self.call("ReceiveMessage", params, &result); err != nil {
		return nil, err
	}
	return result.Messages, nil
}

func (self *Client) DeleteMessage(queueURL, receiptHandle string) error {
	params := url.Values{
		"QueueUrl":      {queueURL},
		"ReceiptHandle": {receiptHandle},
	}
	return self.call("DeleteMessage", params, nil)
}

type (
	listQueuesResponse struct {
		XMLName   xml.Name `xml:"ListQueuesResponse"`
		QueueURLs []string `xml:"ListQueuesResult>QueueUrl"`
		NextToken string   `xml:"ListQueuesResult>NextToken"`
	}

	createQueueResponse struct {
		XMLName  xml.Name `xml:"CreateQueueResponse"`
		QueueURL string   `xml:"CreateQueueResult>QueueUrl"`
	}

	sendMessageResponse struct {
		XMLName   xml.Name `xml:"SendMessageResponse"`
		MessageID string   `xml:"SendMessageResult>MessageId"`
		MD5OfBody string   `xml:"SendMessageResult>MD5OfMessageBody"`
	}

	receiveMessageResponse struct {
		XMLName  xml.Name  `xml:"ReceiveMessageResponse"`
		Messages []Message `xml:"ReceiveMessageResult>Message"`
	}
)
