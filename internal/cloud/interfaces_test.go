package cloud

import (
	"strings"
	"testing"
)

func TestParseLocator(t *testing.T) {
	tests := []struct {
		name       string
		locator    string
		wantScheme string
		wantHost   string
		wantErr    string
	}{
		{"https", "https://nihcc.box.com/shared/static/x.gz", "https", "nihcc.box.com", ""},
		{"uppercase scheme", "HTTPS://nihcc.box.com/x.gz", "https", "nihcc.box.com", ""},
		{"no scheme", "nihcc.box.com/x.gz", "https", "nihcc.box.com", ""},
		{"s3", "s3://bucket/key/file.csv.gz", "s3", "bucket", ""},
		{"azure", "az://account/container/blob.zip", "az", "account", ""},
		{"empty", "", "", "", "empty locator"},
		{"missing host", "s3:///key", "", "", "missing host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := ParseLocator(tt.locator)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if u.Scheme != tt.wantScheme {
				t.Errorf("scheme: got %q, want %q", u.Scheme, tt.wantScheme)
			}
			if u.Host != tt.wantHost {
				t.Errorf("host: got %q, want %q", u.Host, tt.wantHost)
			}
		})
	}
}

func TestSplitBucketPath(t *testing.T) {
	u, err := ParseLocator("az://account/container/dir/blob.zip")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	host, parts := SplitBucketPath(u)
	if host != "account" {
		t.Errorf("expected host account, got %q", host)
	}
	if strings.Join(parts, "|") != "container|dir|blob.zip" {
		t.Errorf("unexpected parts %v", parts)
	}

	u, _ = ParseLocator("s3://bucket")
	if _, parts := SplitBucketPath(u); parts != nil {
		t.Errorf("expected no parts for bare bucket, got %v", parts)
	}
}
