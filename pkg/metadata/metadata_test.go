package metadata

import (
	"errors"
	"strings"
	"testing"
)

const sampleDoc = `# Heuristic Evaluation

Source: https://www.nngroup.com/articles/heuristic-evaluation/

Body text goes here.`

func TestSign_AppendsBlock(t *testing.T) {
	signed := Sign(sampleDoc, true)

	if !strings.Contains(signed, TagStart) {
		t.Error("Expected signed content to contain metadata start tag")
	}

	if !strings.Contains(signed, TagEnd) {
		t.Error("Expected signed content to contain metadata end tag")
	}

	if !strings.Contains(signed, "LINTED: TRUE") {
		t.Error("Expected LINTED: TRUE in metadata block")
	}

	if !strings.HasPrefix(signed, "# Heuristic Evaluation") {
		t.Error("Expected content to precede the metadata block")
	}
}

func TestSign_NotLinted(t *testing.T) {
	signed := Sign(sampleDoc, false)

	if !strings.Contains(signed, "LINTED: FALSE") {
		t.Error("Expected LINTED: FALSE in metadata block")
	}
}

func TestSign_Idempotent(t *testing.T) {
	once := Sign(sampleDoc, true)
	twice := Sign(once, true)

	_, cleanOnce := Extract(once)
	_, cleanTwice := Extract(twice)

	if cleanOnce != cleanTwice {
		t.Error("Re-signing changed the clean content")
	}

	if strings.Count(twice, TagStart) != 1 {
		t.Errorf("Expected exactly 1 metadata block after re-signing, got %d", strings.Count(twice, TagStart))
	}
}

func TestVerify_Valid(t *testing.T) {
	signed := Sign(sampleDoc, true)

	ok, err := Verify(signed)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if !ok {
		t.Error("Expected verification to pass for freshly signed content")
	}
}

func TestVerify_NoBlock(t *testing.T) {
	ok, err := Verify(sampleDoc)
	if ok {
		t.Error("Expected verification to fail without metadata block")
	}

	if !errors.Is(err, ErrNoMetadataBlock) {
		t.Errorf("Expected ErrNoMetadataBlock, got %v", err)
	}
}

func TestVerify_Tampered(t *testing.T) {
	signed := Sign(sampleDoc, true)
	tampered := strings.Replace(signed, "Body text", "Edited text", 1)

	ok, err := Verify(tampered)
	if ok {
		t.Error("Expected verification to fail for tampered content")
	}

	if !errors.Is(err, ErrHashMismatch) {
		t.Errorf("Expected ErrHashMismatch, got %v", err)
	}
}

func TestVerify_MissingHash(t *testing.T) {
	content := sampleDoc + "\n\n" + TagStart + "\nLINTED: TRUE\n" + TagEnd

	ok, err := Verify(content)
	if ok {
		t.Error("Expected verification to fail without hash")
	}

	if !errors.Is(err, ErrNoHashFound) {
		t.Errorf("Expected ErrNoHashFound, got %v", err)
	}
}

func TestExtract_RoundTrip(t *testing.T) {
	signed := Sign(sampleDoc, true)

	meta, clean := Extract(signed)
	if meta == nil {
		t.Fatal("Expected metadata, got nil")
	}

	if !meta.Linted {
		t.Error("Expected Linted to be true")
	}

	if meta.Hash == "" {
		t.Error("Expected non-empty hash")
	}

	if meta.LastModify.IsZero() {
		t.Error("Expected LastModify to be set")
	}

	if clean != sampleDoc {
		t.Errorf("Expected clean content to match original, got %q", clean)
	}
}

func TestExtract_NoBlock(t *testing.T) {
	meta, clean := Extract(sampleDoc)
	if meta != nil {
		t.Errorf("Expected nil metadata, got %+v", meta)
	}

	if clean != sampleDoc {
		t.Error("Expected content unchanged when no block present")
	}
}

func TestCalculateHash_IgnoresMetadata(t *testing.T) {
	plain := CalculateHash(sampleDoc)
	signed := CalculateHash(Sign(sampleDoc, true))

	if plain != signed {
		t.Error("Expected hash to be independent of the metadata block")
	}
}
