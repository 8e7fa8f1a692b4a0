package awsauth

import (
	"net/http"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws/credentials"
	sdkv4 "github.com/aws/aws-sdk-go/aws/signer/v4"
)

// Sign the same request with the vendor SDK and compare the full
// Authorization header byte for byte. The SDK signs every header it sees,
// so the request only carries headers our canonical set also covers.
func TestV4SignerMatchesSDK(t *testing.T) {
	const (
		accessKey = "AKID"
		secretKey = "SECRET"
		region    = "us-west-2"
		service   = "table"
		host      = "table.us-west-2.amazonaws.com"
	)
	when := time.Date(2021, 10, 20, 12, 42, 0, 0, time.UTC)

	endpoint := Endpoint{Protocol: "https", Host: host, Region: region, Service: service}
	builder := NewBuilder(endpoint, []string{HdrHost, HdrAmzDate})

	hdr := http.Header{}
	hdr.Set("Content-Type", "application/x-amz-json-1.0")
	hdr.Set("X-Amz-Target", "TableService.Scan")

	req, err := builder.Build("POST", "/", hdr, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	signer, err := NewV4Signer(Credentials{AccessKey: accessKey, SecretKey: secretKey}, endpoint, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	auth, err := signer.Sign(req, when)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sdkReq, err := http.NewRequest("POST", "https://"+host+"/", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sdkReq.Header.Set("Content-Type", "application/x-amz-json-1.0")
	sdkReq.Header.Set("X-Amz-Target", "TableService.Scan")

	sdkSigner := sdkv4.NewSigner(credentials.NewStaticCredentials(accessKey, secretKey, ""))
	if _, err := sdkSigner.Sign(sdkReq, nil, service, region, when); err != nil {
		t.Fatalf("sdk signing failed: %v", err)
	}

	if sdk := sdkReq.Header.Get("Authorization"); auth.Header != sdk {
		t.Errorf("authorization headers disagree:\nours: %s\nsdk:  %s", auth.Header, sdk)
	}
	if sdk := sdkReq.Header.Get("X-Amz-Date"); auth.Headers.Get("X-Amz-Date") != sdk {
		t.Errorf("timestamp headers disagree: ours %q, sdk %q",
			auth.Headers.Get("X-Amz-Date"), sdk)
	}
}
