/*
Package awsauth implements request canonicalization and the two signing
schemes used by the storage, queue and attribute-store service families.

Every request is reduced to a deterministic canonical form before signing:
header names are lower-cased, deduplicated and sorted, query parameters are
percent-encoded and strictly ordered, and the payload is represented by its
SHA256 digest. The provider recomputes the same canonical form on its side,
so any byte of divergence produces an authentication error rather than a
parse error.

Two signing strategies share that canonical form:

  - the legacy scheme signs verb, canonical headers, canonical query and
    resource path with a single HMAC-SHA256 over the secret key, emitting a
    base64 signature as a Signature query parameter;

  - the derived-key scheme hashes the full canonical request, signs an
    algorithm/timestamp/scope/hash string with a key chained through four
    HMAC-SHA256 operations (date, region, service, terminator), and emits a
    hex signature inside the Authorization header.

Both strategies are pure: the same request and timestamp always produce the
same signature, which is what makes them testable against fixed vectors.
*/
package awsauth
