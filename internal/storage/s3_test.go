package storage

import (
	"strings"
	"testing"
)

func TestNewReturnsNilWithoutCredentials(t *testing.T) {
	s, err := New("", "eu-central-1", "", "", "pub", "priv", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s != nil {
		t.Fatal("expected nil store when endpoint and credentials are empty")
	}
}

func TestNewKey(t *testing.T) {
	key := NewKey(KindImage, "Screenshot 2024.PNG")
	if !strings.HasPrefix(key, "images/") {
		t.Errorf("key %q missing images/ prefix", key)
	}
	if !strings.HasSuffix(key, ".png") {
		t.Errorf("key %q should keep a lowercased extension", key)
	}

	other := NewKey(KindImage, "Screenshot 2024.PNG")
	if key == other {
		t.Error("two keys for the same filename should differ")
	}

	if key := NewKey(KindCV, "resume.pdf"); !strings.HasPrefix(key, "cv/") {
		t.Errorf("key %q missing cv/ prefix", key)
	}
}

func TestPublicURLAndKeyFromURL(t *testing.T) {
	s, err := New("https://s3.example.com/", "eu-central-1", "ak", "sk", "pub", "priv", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	url := s.PublicURL("images/a.webp")
	if url != "https://s3.example.com/pub/images/a.webp" {
		t.Fatalf("PublicURL = %q", url)
	}

	key, ok := s.KeyFromURL(url)
	if !ok || key != "images/a.webp" {
		t.Fatalf("KeyFromURL = %q, %v", key, ok)
	}

	if _, ok := s.KeyFromURL("https://elsewhere.example.com/x.png"); ok {
		t.Fatal("foreign URL should not resolve to a key")
	}
}

func TestKeyFromURLWithCDN(t *testing.T) {
	s, err := New("https://s3.example.com", "eu-central-1", "ak", "sk", "pub", "priv", "https://cdn.example.com")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	url := s.PublicURL("cv/r.pdf")
	if url != "https://cdn.example.com/cv/r.pdf" {
		t.Fatalf("PublicURL = %q", url)
	}

	key, ok := s.KeyFromURL(url)
	if !ok || key != "cv/r.pdf" {
		t.Fatalf("KeyFromURL = %q, %v", key, ok)
	}
}
