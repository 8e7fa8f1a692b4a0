package awsrest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mateusvicente100/amazon-storage-service/pkg/awsrest"
)

func TestClassifyRestEnvelope(t *testing.T) {
	body := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<Error>
  <Code>NoSuchKey</Code>
  <Message>The specified key does not exist.</Message>
  <RequestId>4442587FB7D0A2F9</RequestId>
</Error>`)

	detail, ok := awsrest.ClassifyError(body)
	assert.True(t, ok)
	assert.Equal(t, "NoSuchKey", detail.Code)
	assert.Equal(t, "The specified key does not exist.", detail.Message)
	assert.Equal(t, "4442587FB7D0A2F9", detail.RequestID)
}

func TestClassifyQueryEnvelope(t *testing.T) {
	body := []byte(`<?xml version="1.0"?>
<ErrorResponse>
  <Error>
    <Type>Sender</Type>
    <Code>SignatureDoesNotMatch</Code>
    <Message>The request signature we calculated does not match.</Message>
  </Error>
  <RequestId>42d59b56-7407-4c4a-be0f-4c88daeea257</RequestId>
</ErrorResponse>`)

	detail, ok := awsrest.ClassifyError(body)
	assert.True(t, ok)
	assert.Equal(t, "SignatureDoesNotMatch", detail.Code)
	assert.Equal(t, "42d59b56-7407-4c4a-be0f-4c88daeea257", detail.RequestID)
}

func TestClassifyGarbage(t *testing.T) {
	for _, body := range [][]byte{
		nil,
		[]byte(""),
		[]byte("boom"),
		[]byte("<html><body>502 Bad Gateway</body></html>"),
		[]byte("<Error><Code></Code></Error>"),
		[]byte("{\"not\": \"xml\"}"),
	} {
		_, ok := awsrest.ClassifyError(body)
		assert.False(t, ok, "body %q should not classify as a provider error", body)
	}
}

func TestExtractRequestID(t *testing.T) {
	body := []byte(`<?xml version="1.0"?>
<ListQueuesResponse>
  <ListQueuesResult/>
  <ResponseMetadata>
    <RequestId>725275ae-0b9b-4762-b238-436d7c65a1ac</RequestId>
  </ResponseMetadata>
</ListQueuesResponse>`)

	assert.Equal(t, "725275ae-0b9b-4762-b238-436d7c65a1ac", awsrest.ExtractRequestID(body))
	assert.Equal(t, "", awsrest.ExtractRequestID([]byte("not xml at all")))
}

func TestOutcomeErr(t *testing.T) {
	ok := &awsrest.ResponseOutcome{StatusCode: 200, Class: awsrest.Success}
	assert.True(t, ok.OK())
	assert.Nil(t, ok.Err())

	failed := &awsrest.ResponseOutcome{
		StatusCode: 404,
		Class:      awsrest.ProviderError,
		Error: awsrest.ErrorDetail{
			Code:      "NoSuchKey",
			Message:   "The specified key does not exist.",
			RequestID: "4442587FB7D0A2F9",
		},
	}
	assert.False(t, failed.OK())
	err := failed.Err()
	if assert.NotNil(t, err) {
		assert.Contains(t, err.Error(), "NoSuchKey")
	}

	opaque := &awsrest.ResponseOutcome{StatusCode: 500, Class: awsrest.MalformedBody}
	err = opaque.Err()
	if assert.NotNil(t, err) {
		assert.Contains(t, err.Error(), "500")
	}
}
