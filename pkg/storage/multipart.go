package storage

import (
	"encoding/xml"
	"io"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strconv"

	"github.com/pkg/errors"
)

const (
	MinPartNumber = 1
	MaxPartNumber = 10000

	defaultPartSize = 8 << 20
)

// Part is one uploaded chunk of a multipart upload. The entity tag is
// issued by the provider and required again at completion time.
type Part struct {
	Number int
	ETag   string
	Size   int64
}

// Upload sequences one multipart upload: Initiate, then any number of
// UploadPart calls, then exactly one Complete or Abort. Part numbers are
// caller-assigned and need not be contiguous; resubmitting a number
// replaces the earlier part. An upload left neither completed nor aborted
// leaves orphaned storage on the provider side.
//
// The part bookkeeping is plain mutable state. Callers uploading parts
// from several goroutines must bring their own synchronization; the
// provider itself accepts concurrent uploads of different part numbers.
type Upload struct {
	Bucket string
	Key    string
	ID     string

	client *Client
	parts  map[int]Part
}

// InitiateUpload allocates a provider-side upload identifier for the key.
func (self *Client) InitiateUpload(bucket, key string) (*Upload, error) {
	query := url.Values{"uploads": {""}}

	var result InitiateMultipartUploadResult
	if _, err := self.call(http.MethodPost, objectPath(bucket, key), query, nil, &result); err != nil {
		return nil, err
	}
	if result.UploadID == "" {
		return nil, errors.New("provider did not return an upload id")
	}

	return &Upload{
		Bucket: bucket,
		Key:    key,
		ID:     result.UploadID,
		client: self,
		parts:  make(map[int]Part),
	}, nil
}

// UploadPart transmits one part. Each call is independent and idempotent
// per part number. An upload already completed or aborted fails with the
// provider's "no such upload" error, not a local check.
func (self *Upload) UploadPart(number int, data []byte) (Part, error) {
	if number < MinPartNumber || number > MaxPartNumber {
		return Part{}, errors.Errorf("part number %d outside [%d, %d]",
			number, MinPartNumber, MaxPartNumber)
	}

	query := url.Values{
		"partNumber": {strconv.Itoa(number)},
		"uploadId":   {self.ID},
	}
	outcome, err := self.client.call(http.MethodPut, objectPath(self.Bucket, self.Key), query, data, nil)
	if err != nil {
		return Part{}, err
	}

	part := Part{
		Number: number,
		ETag:   outcome.Header.Get("ETag"),
		Size:   int64(len(data)),
	}
	self.parts[number] = part
	return part, nil
}

// Complete stitches the listed part numbers, in ascending order, into the
// final object and returns its entity tag. Referencing a number that was
// never uploaded is rejected locally. Parts uploaded but omitted from the
// list are discarded by the provider.
func (self *Upload) Complete(numbers []int) (string, error) {
	if len(numbers) == 0 {
		return "", errors.New("completing an upload requires at least one part")
	}

	sorted := append([]int(nil), numbers...)
	sort.Ints(sorted)

	var payload CompleteMultipartUpload
	for _, n := range sorted {
		part, ok := self.parts[n]
		if !ok {
			return "", errors.Errorf("part %d was never uploaded", n)
		}
		payload.Parts = append(payload.Parts, completedPart{PartNumber: n, ETag: part.ETag})
	}

	body, err := xml.Marshal(&payload)
	if err != nil {
		return "", errors.Wrap(err, "encoding completion request")
	}

	query := url.Values{"uploadId": {self.ID}}
	var result CompleteMultipartUploadResult
	if _, err := self.client.call(http.MethodPost, objectPath(self.Bucket, self.Key), query, body, &result); err != nil {
		return "", err
	}
	return result.ETag, nil
}

// Abort discards the upload and releases provider-side storage for all
// parts uploaded so far. It does not cancel an UploadPart still in flight;
// if one lands afterwards, issue Abort again.
func (self *Upload) Abort() error {
	query := url.Values{"uploadId": {self.ID}}
	_, err := self.client.call(http.MethodDelete, objectPath(self.Bucket, self.Key), query, nil, nil)
	return err
}

// Parts returns the parts uploaded so far, ascending by number.
func (self *Upload) Parts() []Part {
	out := make([]Part, 0, len(self.parts))
	for _, part := range self.parts {
		out = append(out, part)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// UploadFile is the "upload this file" convenience: it splits the file
// into partSize chunks, drives one multipart upload to completion, and
// aborts on any failure so no orphaned parts are left behind.
func (self *Client) UploadFile(bucket, key, path string, partSize int64) (string, error) {
	if partSize <= 0 {
		partSize = defaultPartSize
	}

	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "opening "+path)
	}
	defer f.Close()

	upload, err := self.InitiateUpload(bucket, key)
	if err != nil {
		return "", err
	}

	abort := func(cause error) (string, error) {
		if aerr := upload.Abort(); aerr != nil {
			self.log.WithError(aerr).Warn("abort after failed upload")
		}
		return "", cause
	}

	var numbers []int
	buf := make([]byte, partSize)
	for number := MinPartNumber; ; number++ {
		n, rerr := io.ReadFull(f, buf)
		if n > 0 {
			data := append([]byte(nil), buf[:n]...)
			if _, uerr := upload.UploadPart(number, data); uerr != nil {
				return abort(uerr)
			}
			numbers = append(numbers, number)
		}
		if rerr == io.EOF || rerr == io.ErrUnexpectedEOF {
			break
		}
		if rerr != nil {
			return abort(errors.Wrap(rerr, "reading "+path))
		}
	}

	if len(numbers) == 0 {
		// zero-byte file: completion still needs one part
		if _, uerr := upload.UploadPart(MinPartNumber, nil); uerr != nil {
			return abort(uerr)
		}
		numbers = []int{MinPartNumber}
	}

	return upload.Complete(numbers)
}
