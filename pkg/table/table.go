// Client for the attribute store service family: named domains holding
// items, each item a bag of name/value attributes, queried with a SQL-like
// select expression. Signing and transport follow the legacy query
// protocol, like the queue family.
package table

import (
	"encoding/xml"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mateusvicente100/amazon-storage-service/pkg/awsauth"
	"github.com/mateusvicente100/amazon-storage-service/pkg/awsrest"
)

const apiVersion = "2009-04-15"

type Client struct {
	log        logrus.FieldLogger
	endpoint   awsauth.Endpoint
	builder    *awsauth.Builder
	dispatcher *awsrest.Dispatcher
}

func NewClient(logger logrus.FieldLogger, creds awsauth.Credentials, endpoint awsauth.Endpoint) (*Client, error) {
	signer, err := awsauth.NewLegacySigner(creds, logger)
	if err != nil {
		return nil, errors.Wrap(err, "configuring table signer")
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

func (self *Client) CreateDomain(name string) error {
	return self.call("CreateDomain", url.Values{"DomainName": {name}}, nil)
}

func (self *Client) DeleteDomain(name string) error {
	return self.call("DeleteDomain", url.Values{"DomainName": {name}}, nil)
}

// PutAttributes writes the given attributes on one item. Attribute names
// are numbered deterministically (sorted) so the same input always yields
// the same parameter set, and with it the same signature.
func (self *Client) PutAttributes(domain, item string, attrs map[string]string) error {
	params := url.Values{
		"DomainName": {domain},
		"ItemName":   {item},
	}

	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		prefix := "Attribute." + strconv.Itoa(i+1) + "."
		params.Set(prefix+"Name", name)
		params.Set(prefix+"Value", attrs[name])
		params.Set(prefix+"Replace", "true")
	}
	return self.call("PutAttributes", params, nil)
}

// Attribute is one name/value pair on an item.
type Attribute struct {
	Name  string `xml:"Name"`
	Value string `xml:"Value"`
}

// Item is one named item with its attributes.
type Item struct {
	Name       string      `xml:"Name"`
	Attributes []Attribute `xml:"Attribute"`
}

func (self *Client) GetAttributes(domain, item string) ([]Attribute, error) {
	params := url.Values{
		"DomainName": {domain},
		"ItemName":   {item},
	}
	var result getAttributesResponse
	if err := self.call("GetAttributes", params, &result); err != nil {
		return nil, err
	}
	return result.Attributes, nil
}

// ItemPage is one page of select results; Next is empty on the last page.
type ItemPage struct {
	Items []Item
	Next  awsrest.Cursor
}

// Select runs a select expression and returns one page of items. Thread
// the returned cursor through repeated calls to walk the full result.
func (self *Client) Select(expression string, cursor awsrest.Cursor) (*ItemPage, error) {
	params := url.Values{"SelectExpression": {expression}}
	if !cursor.IsZero() {
		params.Set("NextToken", cursor.String())
	}

	var result selectResponse
	if err := self.call("Select", params, &result); err != nil {
		return nil, err
	}
	return &ItemPage{
		Items: result.Items,
		Next:  awsrest.Cursor(result.NextToken),
	}, nil
}

type (
	selectResponse struct {
		XMLName   xml.Name `xml:"SelectResponse"`
		Items     []Item   `xml:"SelectResult>Item"`
		NextToken string   `xml:"SelectResult>NextToken"`
	}

	getAttributesResponse struct {
		XMLName    xml.Name    `xml:"GetAttributesResponse"`
		Attributes []Attribute `xml:"GetAttributesResult>Attribute"`
	}
)
