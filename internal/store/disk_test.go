package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiskPutResolvesURLAndWritesFile(t *testing.T) {
	root := t.TempDir()
	d := NewDisk(root, "/public")

	url, err := d.Put(context.Background(), "payment_proofs/1_proof.png", strings.NewReader("img"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if url != "/public/payment_proofs/1_proof.png" {
		t.Fatalf("unexpected url: %s", url)
	}

	data, err := os.ReadFile(filepath.Join(root, "payment_proofs", "1_proof.png"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "img" {
		t.Fatalf("unexpected content: %s", data)
	}
}

func TestDiskPutNeutralizesEscapingNames(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "public")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatal(err)
	}
	d := NewDisk(root, "/public")

	if _, err := d.Put(context.Background(), "../escape.png", strings.NewReader("img")); err != nil {
		t.Fatalf("put: %v", err)
	}

	if _, err := os.Stat(filepath.Join(parent, "escape.png")); !os.IsNotExist(err) {
		t.Fatal("object escaped the root directory")
	}
	if _, err := os.Stat(filepath.Join(root, "escape.png")); err != nil {
		t.Fatalf("object not stored under the root: %v", err)
	}
}

func TestDiskPutRejectsEmptyName(t *testing.T) {
	d := NewDisk(t.TempDir(), "/public")
	if _, err := d.Put(context.Background(), "", strings.NewReader("img")); err == nil {
		t.Fatal("expected an error for an empty name")
	}
}

func TestDiskRemoveAcceptsResolvedURL(t *testing.T) {
	root := t.TempDir()
	d := NewDisk(root, "/public")

	url, err := d.Put(context.Background(), "payment_proofs/1_proof.png", strings.NewReader("img"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	if err := d.Remove(context.Background(), url); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "payment_proofs", "1_proof.png")); !os.IsNotExist(err) {
		t.Fatal("file still present after remove")
	}
}

func TestDiskRemoveToleratesMissing(t *testing.T) {
	d := NewDisk(t.TempDir(), "/public")
	if err := d.Remove(context.Background(), "/public/never_uploaded.png"); err != nil {
		t.Fatalf("remove missing: %v", err)
	}
	if err := d.Remove(context.Background(), ""); err != nil {
		t.Fatalf("remove empty: %v", err)
	}
}
