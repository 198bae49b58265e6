package azure

import (
	"context"
	"errors"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
)

func TestBuildServiceURL(t *testing.T) {
	tests := []struct {
		name     string
		account  string
		endpoint string
		sas      string
		want     string
	}{
		{"public", "aimistanforddatasets01", "", "", "https://aimistanforddatasets01.blob.core.windows.net/"},
		{"with sas", "myaccount", "", "sv=2021-06-08&ss=b&sig=abc", "https://myaccount.blob.core.windows.net/?sv=2021-06-08&ss=b&sig=abc"},
		{"sas with leading question mark", "myaccount", "", "?sv=2021&sig=x", "https://myaccount.blob.core.windows.net/?sv=2021&sig=x"},
		{"endpoint override", "ignored", "http://127.0.0.1:10000/devstoreaccount1", "", "http://127.0.0.1:10000/devstoreaccount1/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildServiceURL(tt.account, tt.endpoint, tt.sas); got != tt.want {
				t.Errorf("buildServiceURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseLocator(t *testing.T) {
	account, container, blobName, err := ParseLocator("az://aimistanforddatasets01/chexpertchestxrays-u20210408/CheXpert-v1.0-small.zip")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account != "aimistanforddatasets01" || container != "chexpertchestxrays-u20210408" || blobName != "CheXpert-v1.0-small.zip" {
		t.Errorf("unexpected parts %q %q %q", account, container, blobName)
	}

	_, _, blobName, err = ParseLocator("az://account/container/dir/sub/blob.bin")
	if err != nil || blobName != "dir/sub/blob.bin" {
		t.Errorf("nested blob: got %q, err %v", blobName, err)
	}

	for _, bad := range []string{"az://account", "az://account/container", "az://account/container/", "s3://bucket/key"} {
		if _, _, _, err := ParseLocator(bad); err == nil {
			t.Errorf("expected error for %s", bad)
		}
	}
}

func TestOpen(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		if r.URL.Path != "/container/blob.zip" {
			w.Header().Set("x-ms-error-code", "BlobNotFound")
			w.WriteHeader(nethttp.StatusNotFound)
			return
		}
		w.Header().Set("Content-Length", "11")
		w.Header().Set("x-ms-blob-type", "BlockBlob")
		io.WriteString(w, "hello-world")
	}))
	defer server.Close()

	src := NewSource(Options{Endpoint: server.URL, SASToken: "sig=abc", HTTPClient: server.Client()})

	obj, err := src.Open(context.Background(), "az://account/container/blob.zip")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer obj.Body.Close()

	if gotPath != "/container/blob.zip" {
		t.Errorf("unexpected request path %s", gotPath)
	}
	if !strings.Contains(gotQuery, "sig=abc") {
		t.Errorf("expected SAS token in query, got %q", gotQuery)
	}
	if obj.Size != 11 {
		t.Errorf("expected size 11, got %d", obj.Size)
	}
	body, _ := io.ReadAll(obj.Body)
	if string(body) != "hello-world" {
		t.Errorf("unexpected body %q", body)
	}

	_, err = src.Open(context.Background(), "az://account/container/missing.zip")
	var respErr *azcore.ResponseError
	if !errors.As(err, &respErr) {
		t.Fatalf("expected *azcore.ResponseError, got %v", err)
	}
	if respErr.StatusCode != nethttp.StatusNotFound {
		t.Errorf("expected 404, got %d", respErr.StatusCode)
	}
}
