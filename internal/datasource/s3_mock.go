package datasource

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// NewS3MockForTests returns an *S3Source backed by a fake HTTP transport
// serving the supplied objects. Only GetObject is implemented.
func NewS3MockForTests(bucket, key string, objects map[string][]byte) *S3Source {
	rt := &mockRoundTripper{bucket: bucket, objects: objects}
	cfg, _ := config.LoadDefaultConfig(context.Background(),
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
	)
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: rt}
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String("https://mock.s3.local")
	})
	return &S3Source{client: client, bucket: bucket, key: key}
}

type mockRoundTripper struct {
	bucket  string
	objects map[string][]byte
}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	key := strings.TrimPrefix(req.URL.Path, "/"+m.bucket+"/")
	if req.Method == http.MethodGet {
		if body, ok := m.objects[key]; ok {
			return &http.Response{
				StatusCode:    http.StatusOK,
				Body:          io.NopCloser(bytes.NewReader(body)),
				ContentLength: int64(len(body)),
				Header:        http.Header{"Content-Type": []string{"text/csv"}},
				Request:       req,
			}, nil
		}
		notFound := `<?xml version="1.0"?><Error><Code>NoSuchKey</Code><Message>` + key + `</Message></Error>`
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Body:       io.NopCloser(strings.NewReader(notFound)),
			Header:     http.Header{"Content-Type": []string{"application/xml"}},
			Request:    req,
		}, nil
	}
	return nil, fmt.Errorf("mock s3: unsupported method %s", req.Method)
}
