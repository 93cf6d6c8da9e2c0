package driver

import (
	"crypto/sha256"
	"path/filepath"
	"testing"

	"quanta/internal/codegen"
)

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "c"))
	if err != nil {
		t.Fatal(err)
	}
	key := Digest(sha256.Sum256([]byte("workspace")))

	var got Payload
	if ok, err := cache.Get(key, &got); ok || err != nil {
		t.Fatalf("empty cache Get = %v, %v", ok, err)
	}
	if err := cache.Put(key, &Payload{Source: "a.xml", Output: "NOOP\n"}); err != nil {
		t.Fatal(err)
	}
	ok, err := cache.Get(key, &got)
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	if got.Output != "NOOP\n" || got.Source != "a.xml" || got.Schema != diskCacheSchemaVersion {
		t.Errorf("payload = %+v", got)
	}

	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	if n, err := cache.Entries(); err != nil || n != 0 {
		t.Errorf("after DropAll: %d entries, %v", n, err)
	}
	if err := cache.Put(key, &Payload{Output: "x"}); err != nil {
		t.Errorf("Put after DropAll: %v", err)
	}
}

func TestNilDiskCache(t *testing.T) {
	var c *DiskCache
	if err := c.Put(Digest{}, &Payload{}); err != nil {
		t.Error(err)
	}
	if ok, err := c.Get(Digest{}, &Payload{}); ok || err != nil {
		t.Errorf("Get = %v, %v", ok, err)
	}
	if c.Dir() != "" {
		t.Error("nil cache has a dir")
	}
}

func TestCacheKey(t *testing.T) {
	content := Digest(sha256.Sum256([]byte("ws")))
	base := cacheKey(content, codegen.DefaultOptions())
	if cacheKey(content, codegen.Options{}) != base {
		t.Error("zero options should key like the defaults")
	}
	variants := []codegen.Options{
		{OneBasedIndex: true},
		{CommentWrap: 40},
		{Indent: "\t"},
		{MnemonicCase: codegen.CaseLower},
	}
	for _, o := range variants {
		if cacheKey(content, o) == base {
			t.Errorf("options %+v share the default key", o)
		}
	}
	if cacheKey(Digest(sha256.Sum256([]byte("other"))), codegen.DefaultOptions()) == base {
		t.Error("different content shares a key")
	}
}
