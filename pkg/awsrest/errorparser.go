package awsrest

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// The provider family uses two error envelope shapes. The storage family
// answers with a bare element:
//
//	<Error>
//	  <Code>NoSuchKey</Code>
//	  <Message>The resource you requested does not exist</Message>
//	  <Resource>/mybucket/myfoto.jpg</Resource>
//	  <RequestId>4442587FB7D0A2F9</RequestId>
//	</Error>
//
// while the query-protocol families wrap it:
//
//	<ErrorResponse>
//	  <Error><Code>...</Code><Message>...</Message></Error>
//	  <RequestId>...</RequestId>
//	</ErrorResponse>
type restError struct {
	XMLName   xml.Name `xml:"Error"`
	Code      string   `xml:"Code"`
	Message   string   `xml:"Message"`
	Resource  string   `xml:"Resource"`
	RequestID string   `xml:"RequestId"`
}

type queryError struct {
	XMLName xml.Name `xml:"ErrorResponse"`
	Error   struct {
		Type    string `xml:"Type"`
		Code    string `xml:"Code"`
		Message string `xml:"Message"`
	} `xml:"Error"`
	RequestID string `xml:"RequestId"`
}

// ClassifyError decides by structural sniffing, not by status code, whether
// a body is a provider error envelope, and extracts its diagnostics if so.
// Anything unparseable, including non-XML garbage, simply reports false.
func ClassifyError(body []byte) (ErrorDetail, bool) {
	if len(bytes.TrimSpace(body)) == 0 {
		return ErrorDetail{}, false
	}

	var re restError
	if err := xml.Unmarshal(body, &re); err == nil && re.Code != "" {
		return ErrorDetail{Code: re.Code, Message: re.Message, RequestID: re.RequestID}, true
	}

	var qe queryError
	if err := xml.Unmarshal(body, &qe); err == nil && qe.Error.Code != "" {
		return ErrorDetail{Code: qe.Error.Code, Message: qe.Error.Message, RequestID: qe.RequestID}, true
	}

	return ErrorDetail{}, false
}

// ExtractRequestID scans any XML body for a request-tracing identifier.
// Several services embed one in normal responses (usually inside a
// ResponseMetadata element), so this runs on successes as well. A body
// that is not XML yields an empty string, never an error.
func ExtractRequestID(body []byte) string {
	dec := xml.NewDecoder(bytes.NewReader(body))
	inRequestID := false
	for {
		tok, err := dec.Token()
		if err != nil {
			return ""
		}
		switch t := tok.(type) {
		case xml.StartElement:
			local := t.Name.Local
			inRequestID = local == "RequestId" || local == "RequestID"
		case xml.CharData:
			if inRequestID {
				if id := strings.TrimSpace(string(t)); id != "" {
					return id
				}
			}
		case xml.EndElement:
			inRequestID = false
		}
	}
}
