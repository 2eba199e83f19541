package logic

import (
	"strings"
	"testing"
)

func TestStripSpeakerTag_RoundTrip(t *testing.T) {
	name, cleaned := StripSpeakerTag("[Jim Halpert] Hello there")

	if name != "Jim Halpert" {
		t.Errorf("expected 'Jim Halpert', got '%s'", name)
	}
	if cleaned != "Hello there" {
		t.Errorf("expected 'Hello there', got '%s'", cleaned)
	}
}

func TestStripSpeakerTag_NoTag(t *testing.T) {
	name, cleaned := StripSpeakerTag("Just some prose")

	if name != "" {
		t.Errorf("expected no speaker, got '%s'", name)
	}
	if cleaned != "Just some prose" {
		t.Errorf("content changed: '%s'", cleaned)
	}
}

func TestExtractSVG_Bare(t *testing.T) {
	svg := ExtractSVG(`Here you go: <svg viewBox="0 0 48 48"><circle r="10"/></svg> done`)

	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>") {
		t.Errorf("unexpected svg: %q", svg)
	}
}

func TestExtractSVG_Fenced(t *testing.T) {
	content := "```svg\n<svg><rect/></svg>\n```"
	svg := ExtractSVG(content)

	if svg != "<svg><rect/></svg>" {
		t.Errorf("unexpected svg: %q", svg)
	}
}

func TestExtractSVG_None(t *testing.T) {
	if svg := ExtractSVG("no markup here"); svg != "" {
		t.Errorf("expected empty, got %q", svg)
	}
}

const twoOptionResponse = `Option 1: A minimal circle mark
<svg viewBox="0 0 48 48" xmlns="http://www.w3.org/2000/svg"><circle cx="24" cy="24" r="20" fill="#3B4CCA"/></svg>

Option 2: A bold square mark
<svg viewBox="0 0 48 48" xmlns="http://www.w3.org/2000/svg"><rect x="8" y="8" width="32" height="32" fill="#FF4554"/></svg>

Which option would you like me to implement?`

func TestExtractGeneratedOptions(t *testing.T) {
	options := ExtractGeneratedOptions(twoOptionResponse)

	if len(options) != 2 {
		t.Fatalf("expected 2 options, got %d", len(options))
	}
	if options[0].Description != "A minimal circle mark" {
		t.Errorf("unexpected description: %q", options[0].Description)
	}
	if !strings.Contains(options[0].SVG, "circle") {
		t.Errorf("unexpected svg: %q", options[0].SVG)
	}
	if !strings.Contains(options[1].SVG, "rect") {
		t.Errorf("unexpected svg: %q", options[1].SVG)
	}
}

func TestExtractGeneratedOptions_TrailingIncomplete(t *testing.T) {
	// The last option is still streaming and has no SVG yet
	partial := `Option 1: Circle mark
<svg><circle/></svg>

Option 2: Square mark, coming right`

	options := ExtractGeneratedOptions(partial)

	if len(options) != 1 {
		t.Fatalf("expected 1 complete option, got %d", len(options))
	}
}

func TestExtractGeneratedOptions_PlainProse(t *testing.T) {
	options := ExtractGeneratedOptions("I cannot design a logo today.")

	if options != nil {
		t.Errorf("expected nil for plain prose, got %v", options)
	}
}
