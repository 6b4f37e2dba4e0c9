package blobstore_test

import (
	"testing"

	"fileconverser/internal/blobstore"
)

func TestRegistryLifecycle(t *testing.T) {
	reg := blobstore.NewRegistry(nil)

	a := reg.Put([]byte("abc"), "text/plain")
	b := reg.Put([]byte("12345"), " image/png ")
	if a == "" || a == b {
		t.Fatalf("expected distinct handles, got %q and %q", a, b)
	}

	blob, ok := reg.Get(b)
	if !ok || blob.MediaType != "image/png" || blob.Size() != 5 {
		t.Fatalf("unexpected blob: %+v ok=%v", blob, ok)
	}
	if count, bytes := reg.Stats(); count != 2 || bytes != 8 {
		t.Fatalf("unexpected stats: %d %d", count, bytes)
	}

	if freed := reg.Release(a, "", "missing", a); freed != 1 {
		t.Fatalf("expected one freed blob, got %d", freed)
	}
	if _, ok := reg.Get(a); ok {
		t.Fatal("released handle should not resolve")
	}
	if count, bytes := reg.Stats(); count != 1 || bytes != 5 {
		t.Fatalf("unexpected stats after release: %d %d", count, bytes)
	}
}
