package logic

import (
	"regexp"
	"strings"
)

// optionMarkerRegex matches the literal "Option N:" delimiter that the logo
// generation prompt instructs the model to emit
var optionMarkerRegex = regexp.MustCompile(`(?m)^Option\s+(\d+):`)

// svgRegex pulls SVG markup out of a response, fenced or bare
var svgRegex = regexp.MustCompile("(?s)```svg\\s*(.*?)\\s*```|'''svg\\s*(.*?)\\s*'''|<svg[\\s\\S]*?</svg>")

// GeneratedOption pairs a design description with its SVG payload
type GeneratedOption struct {
	Description string `json:"description"`
	SVG         string `json:"svg"`
}

// StripSpeakerTag removes a leading [Name] tag from a response.
// Returns the speaker name (empty when absent) and the cleaned text.
func StripSpeakerTag(response string) (string, string) {
	return ExtractSpeakerTag(response)
}

// ExtractSVG returns the first SVG markup found in content, or ""
func ExtractSVG(content string) string {
	match := svgRegex.FindStringSubmatch(content)
	if match == nil {
		return ""
	}
	for _, group := range match[1:] {
		if group != "" {
			return strings.TrimSpace(group)
		}
	}
	return strings.TrimSpace(match[0])
}

// ExtractGeneratedOptions splits a response on "Option N:" markers and pairs
// each description block with the SVG payload that follows it. A trailing
// option without SVG yet (still streaming) is simply omitted; a response
// with no markers yields no options and should be treated as plain prose.
func ExtractGeneratedOptions(response string) []GeneratedOption {
	markers := optionMarkerRegex.FindAllStringIndex(response, -1)
	if len(markers) == 0 {
		return nil
	}

	var options []GeneratedOption
	for i, marker := range markers {
		end := len(response)
		if i+1 < len(markers) {
			end = markers[i+1][0]
		}
		block := response[marker[1]:end]

		svg := ExtractSVG(block)
		if svg == "" {
			continue
		}

		desc := block
		if loc := svgRegex.FindStringIndex(block); loc != nil {
			desc = block[:loc[0]]
		}
		options = append(options, GeneratedOption{
			Description: strings.TrimSpace(desc),
			SVG:         svg,
		})
	}

	return options
}
