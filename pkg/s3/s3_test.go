package s3

import (
	"strings"
	"testing"
)

func TestExtractKeyFromS3Url(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://bucket.s3.us-east-1.amazonaws.com/snapshots/01H.jpg", "snapshots/01H.jpg"},
		{"snapshots/01H.jpg", "snapshots/01H.jpg"},
	}

	for _, tt := range tests {
		if got := extractKeyFromS3Url(tt.in); got != tt.want {
			t.Errorf("extractKeyFromS3Url(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(Config{Region: "us-east-1"}); err == nil {
		t.Fatal("New without bucket should fail")
	}
}

func TestPresignUrl(t *testing.T) {
	client, err := New(Config{
		Region:          "us-east-1",
		BucketName:      "faces",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got, err := client.PresignUrl("https://faces.s3.amazonaws.com/snapshots/a.jpg")
	if err != nil {
		t.Fatalf("PresignUrl() error = %v", err)
	}
	if want := "snapshots/a.jpg"; !strings.Contains(got, want) {
		t.Errorf("presigned url %q does not reference %q", got, want)
	}
}

