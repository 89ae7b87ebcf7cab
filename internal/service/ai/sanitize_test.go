package ai

import "testing"

func TestSanitizeNoMarkers(t *testing.T) {
	if got := Sanitize("  hola Mijin  "); got != "hola Mijin" {
		t.Fatalf("expected trimmed passthrough, got %q", got)
	}
}

func TestSanitizeSinglePair(t *testing.T) {
	if got := Sanitize("A<think>hidden</think>B"); got != "AB" {
		t.Fatalf("expected AB, got %q", got)
	}
}

func TestSanitizeMultiplePairs(t *testing.T) {
	raw := "<think>uno</think>hola<think>dos</think> Mijin<think>tres</think>"
	if got := Sanitize(raw); got != "hola Mijin" {
		t.Fatalf("expected %q, got %q", "hola Mijin", got)
	}
}

func TestSanitizeMultiline(t *testing.T) {
	raw := "respuesta\n<think>línea uno\nlínea dos\n</think>final"
	if got := Sanitize(raw); got != "respuesta\nfinal" {
		t.Fatalf("expected reasoning span removed across lines, got %q", got)
	}
}

func TestSanitizeUnbalancedMarkersLeftAsIs(t *testing.T) {
	raw := "hola <think>sin cierre"
	if got := Sanitize(raw); got != raw {
		t.Fatalf("unbalanced marker should be left untouched, got %q", got)
	}

	raw = "sin apertura</think> hola"
	if got := Sanitize(raw); got != raw {
		t.Fatalf("unbalanced marker should be left untouched, got %q", got)
	}
}

func TestSanitizeEmpty(t *testing.T) {
	if got := Sanitize("<think>todo era razonamiento</think>"); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}
