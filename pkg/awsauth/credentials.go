package awsauth

import "fmt"

// Credentials is the access key pair a client instance signs with. The
// secret key is only ever fed into HMAC key derivation; it is never
// transmitted and must never be logged.
type Credentials struct {
	AccessKey string
	SecretKey string
}

func (c Credentials) Valid() bool {
	return c.AccessKey != "" && c.SecretKey != ""
}

// String deliberately hides the secret so that credentials caught in a log
// statement stay harmless.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{AccessKey: %s, SecretKey: <hidden>}", c.AccessKey)
}

// Endpoint pins one service family deployment: the HTTP target plus the
// region/service pair that scopes derived signing keys.
type Endpoint struct {
	Protocol string // "http" or "https"
	Host     string
	Region   string
	Service  string // signing name, e.g. "s3", "sqs", "sdb"
}

// NewEndpoint derives the conventional host name for a region/service pair.
// Callers talking to a non-standard deployment can overwrite Host afterwards.
func NewEndpoint(protocol, region, service string) Endpoint {
	return Endpoint{
		Protocol: protocol,
		Host:     service + "." + region + ".amazonaws.com",
		Region:   region,
		Service:  service,
	}
}
