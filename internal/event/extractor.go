// Package event turns storage notifications into the ordered records the
// batch pipeline processes.
package event

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/aws/aws-lambda-go/events"

	"github.com/yokitheyo/webpoptimizer/internal/domain"
)

// notification mirrors the fields of events.S3Event the pipeline reads.
// events.S3Object rejects keys with bad escapes while unmarshalling, which
// would turn one odd key into a fatal batch.
type notification struct {
	Records []struct {
		S3 struct {
			Bucket struct {
				Name string `json:"name"`
			} `json:"bucket"`
			Object struct {
				Key string `json:"key"`
			} `json:"object"`
		} `json:"s3"`
	} `json:"Records"`
}

// Extract decodes an S3-format notification document. Any structural problem
// fails the whole batch with domain.ErrMalformedRecord.
func Extract(payload []byte) ([]domain.Record, error) {
	var n notification
	if err := json.Unmarshal(payload, &n); err != nil {
		return nil, fmt.Errorf("%w: decode notification: %v", domain.ErrMalformedRecord, err)
	}

	records := make([]domain.Record, 0, len(n.Records))
	for i, r := range n.Records {
		rec, err := newRecord(i, r.S3.Bucket.Name, objectKey("", r.S3.Object.Key))
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func FromS3Event(evt events.S3Event) ([]domain.Record, error) {
	records := make([]domain.Record, 0, len(evt.Records))
	for i, r := range evt.Records {
		obj := r.S3.Object
		rec, err := newRecord(i, r.S3.Bucket.Name, objectKey(obj.URLDecodedKey, obj.Key))
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func newRecord(i int, container, key string) (domain.Record, error) {
	if container == "" {
		return domain.Record{}, fmt.Errorf("%w: record %d: bucket name is missing", domain.ErrMalformedRecord, i)
	}
	if key == "" {
		return domain.Record{}, fmt.Errorf("%w: record %d: object key is missing", domain.ErrMalformedRecord, i)
	}
	return domain.Record{Container: container, SourceKey: key}, nil
}

// Notification keys arrive form-encoded ("my+photo.png"). A key that does not
// unescape is used as is.
func objectKey(decoded, raw string) string {
	if decoded != "" {
		return decoded
	}
	key, err := url.QueryUnescape(raw)
	if err != nil {
		return raw
	}
	return key
}
