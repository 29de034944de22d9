package fsxs3

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func newTestFS(prefix string) *S3FileSystem {
	client := s3.New(s3.Options{Region: "us-east-1", Credentials: aws.AnonymousCredentials{}})
	return NewS3FileSystem(client, "bucket", prefix)
}

func TestKeyHonorsPrefix(t *testing.T) {
	cases := []struct {
		prefix, path, want string
	}{
		{"", "images/0_1.png", "images/0_1.png"},
		{"scans/", "images/0_1.png", "scans/images/0_1.png"},
		{"/scans/2024", "/0_0.xlsx", "scans/2024/0_0.xlsx"},
		{"scans", "../0_0.xlsx", "scans/0_0.xlsx"},
	}
	for _, tc := range cases {
		if got := newTestFS(tc.prefix).key(tc.path); got != tc.want {
			t.Errorf("key(%q, %q) = %q, want %q", tc.prefix, tc.path, got, tc.want)
		}
	}
}
