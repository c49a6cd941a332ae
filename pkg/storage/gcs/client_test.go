package gcs

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"
)

type roundTripFunc func(*http.Request) *http.Response

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

func staticTokenSource() *tokenSource {
	return &tokenSource{fetch: func(context.Context) (string, time.Time, error) {
		return "token", time.Now().Add(time.Hour), nil
	}}
}

func mustGenerateKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key: %v", err)
	}
	return key
}

func TestSignedURLVerifies(t *testing.T) {
	t.Parallel()

	key := mustGenerateKey(t)
	client := &Client{
		defaultBucket: "bucket",
		signerEmail:   "signer@example.com",
		signerKey:     key,
	}

	object := "personalization/piece/field/file.png"
	urlStr, err := client.SignedURL("bucket", object, "", 5*time.Minute)
	if err != nil {
		t.Fatalf("SignedURL returned error: %v", err)
	}

	parsed, err := url.Parse(urlStr)
	if err != nil {
		t.Fatalf("parse signed url: %v", err)
	}
	if !strings.EqualFold(parsed.Host, "storage.googleapis.com") {
		t.Fatalf("unexpected host %s", parsed.Host)
	}

	values := parsed.Query()
	if got := values.Get("GoogleAccessId"); got != "signer@example.com" {
		t.Fatalf("unexpected GoogleAccessId %q", got)
	}

	expireParam := values.Get("Expires")
	if expireParam == "" {
		t.Fatal("Expires missing")
	}
	if _, err := strconv.ParseInt(expireParam, 10, 64); err != nil {
		t.Fatalf("parse expires: %v", err)
	}

	signature := values.Get("Signature")
	if signature == "" {
		t.Fatal("signature missing")
	}
	rawSig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		t.Fatalf("decode signature: %v", err)
	}

	data := []byte("GET\n\n\n" + expireParam + "\n/bucket/" + object)
	hash := sha256.Sum256(data)
	if err := rsa.VerifyPKCS1v15(&key.PublicKey, crypto.SHA256, hash[:], rawSig); err != nil {
		t.Fatalf("verify signature: %v", err)
	}
}

func TestSignedURLRequiresCredentials(t *testing.T) {
	t.Parallel()

	client := &Client{defaultBucket: "bucket"}
	if _, err := client.SignedURL("bucket", "object", "", time.Minute); err == nil {
		t.Fatal("expected error without service account")
	}
}

func TestObjectURLPrefersPublicBase(t *testing.T) {
	t.Parallel()

	client := &Client{
		defaultBucket: "bucket",
		publicBaseURL: "https://cdn.madebuy.dev",
	}
	got, err := client.ObjectURL("", "personalization/p/f/file.png", time.Minute)
	if err != nil {
		t.Fatalf("ObjectURL: %v", err)
	}
	if got != "https://cdn.madebuy.dev/personalization/p/f/file.png" {
		t.Fatalf("unexpected url %q", got)
	}
}

func TestUploadSendsMediaRequest(t *testing.T) {
	t.Parallel()

	client := &Client{
		defaultBucket: "bucket",
		tokenSource:   staticTokenSource(),
		httpClient: &http.Client{Transport: roundTripFunc(func(req *http.Request) *http.Response {
			if req.Method != http.MethodPost {
				t.Fatalf("expected POST, got %s", req.Method)
			}
			if req.Header.Get("Authorization") != "Bearer token" {
				t.Fatalf("unexpected auth %s", req.Header.Get("Authorization"))
			}
			if req.Header.Get("Content-Type") != "image/png" {
				t.Fatalf("unexpected content type %s", req.Header.Get("Content-Type"))
			}
			if !strings.Contains(req.URL.String(), "uploadType=media") {
				t.Fatalf("expected media upload url, got %s", req.URL.String())
			}
			body, _ := io.ReadAll(req.Body)
			if string(body) != "payload" {
				t.Fatalf("unexpected body %q", string(body))
			}
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader("{}")),
				Header:     http.Header{},
			}
		})},
	}

	err := client.Upload(context.Background(), "", "personalization/file.png", "image/png", strings.NewReader("payload"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
}

func TestDeleteMissingObjectSucceeds(t *testing.T) {
	t.Parallel()

	client := &Client{
		defaultBucket: "bucket",
		tokenSource:   staticTokenSource(),
		httpClient: &http.Client{Transport: roundTripFunc(func(req *http.Request) *http.Response {
			if req.Method != http.MethodDelete {
				t.Fatalf("expected DELETE, got %s", req.Method)
			}
			return &http.Response{
				StatusCode: http.StatusNotFound,
				Body:       io.NopCloser(strings.NewReader("")),
				Header:     http.Header{},
			}
		})},
	}

	if err := client.Delete(context.Background(), "bucket", "personalization/file.png"); err != nil {
		t.Fatalf("Delete not found should succeed: %v", err)
	}
}
