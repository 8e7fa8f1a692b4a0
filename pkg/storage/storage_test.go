package storage_test

import (
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/mateusvicente100/amazon-storage-service/pkg/awsauth"
	"github.com/mateusvicente100/amazon-storage-service/pkg/awsrest"
	"github.com/mateusvicente100/amazon-storage-service/pkg/storage"
)

func newTestClient(t *testing.T, server *httptest.Server) *storage.Client {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	endpoint := awsauth.Endpoint{
		Protocol: "http",
		Host:     strings.TrimPrefix(server.URL, "http://"),
		Region:   "us-east-1",
		Service:  "s3",
	}
	client, err := storage.NewClient(logger,
		awsauth.Credentials{AccessKey: "AKID", SecretKey: "SECRET"}, endpoint)
	if err != nil {
		t.Fatalf("building client: %v", err)
	}
	return client
}

func TestListObjectsPagination(t *testing.T) {
	// three pages; each page names the cursor it expects to receive
	pages := []struct {
		expectToken string
		nextToken   string
		keys        []string
	}{
		{"", "tok-1", []string{"a", "b"}},
		{"tok-1", "tok-2", []string{"c"}},
		{"tok-2", "", []string{"d"}},
	}

	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls >= len(pages) {
			t.Errorf("unexpected extra call %d", calls)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		page := pages[calls]
		calls++

		assert.Equal(t, "2", r.URL.Query().Get("list-type"))
		assert.Equal(t, page.expectToken, r.URL.Query().Get("continuation-token"))

		var contents strings.Builder
		for _, key := range page.keys {
			fmt.Fprintf(&contents, "<Contents><Key>%s</Key><Size>1</Size></Contents>", key)
		}
		truncated := page.nextToken != ""
		fmt.Fprintf(w, `<ListBucketResult><Name>b</Name><IsTruncated>%t</IsTruncated>`+
			`<NextContinuationToken>%s</NextContinuationToken>%s</ListBucketResult>`,
			truncated, page.nextToken, contents.String())
	}))
	defer server.Close()

	client := newTestClient(t, server)

	var keys []string
	var cursor awsrest.Cursor
	for {
		page, err := client.ListObjects("b", "", cursor)
		if err != nil {
			t.Fatalf("listing: %v", err)
		}
		for _, obj := range page.Objects {
			keys = append(keys, obj.Key)
		}
		if page.Next.IsZero() {
			break
		}
		cursor = page.Next
	}

	assert.Equal(t, 3, calls)
	assert.Equal(t, []string{"a", "b", "c", "d"}, keys)
}

func TestPutGetDeleteObject(t *testing.T) {
	stored := map[string][]byte{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			data, _ := ioutil.ReadAll(r.Body)
			stored[r.URL.Path] = data
			w.Header().Set("ETag", `"abc123"`)
		case http.MethodGet:
			data, ok := stored[r.URL.Path]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				fmt.Fprint(w, `<Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`)
				return
			}
			w.Write(data)
		case http.MethodDelete:
			delete(stored, r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server)

	etag, err := client.PutObject("b", "k", []byte("hello"))
	assert.Nil(t, err)
	assert.Equal(t, `"abc123"`, etag)

	data, err := client.GetObject("b", "k")
	assert.Nil(t, err)
	assert.Equal(t, []byte("hello"), data)

	assert.Nil(t, client.DeleteObject("b", "k"))

	_, err = client.GetObject("b", "k")
	if assert.NotNil(t, err) {
		assert.Contains(t, err.Error(), "NoSuchKey")
	}
}

func TestListBuckets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/", r.URL.Path)
		fmt.Fprint(w, `<ListAllMyBucketsResult><Owner><ID>me</ID></Owner>`+
			`<Buckets><Bucket><Name>one</Name></Bucket><Bucket><Name>two</Name></Bucket></Buckets>`+
			`</ListAllMyBucketsResult>`)
	}))
	defer server.Close()

	buckets, err := newTestClient(t, server).ListBuckets()
	assert.Nil(t, err)
	if assert.Len(t, buckets, 2) {
		assert.Equal(t, "one", buckets[0].Name)
		assert.Equal(t, "two", buckets[1].Name)
	}
}
