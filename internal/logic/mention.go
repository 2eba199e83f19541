package logic

import (
	"regexp"
	"sort"
	"strings"
)

// mentionRegex matches @character-id tokens: an @ followed by a run of
// word or hyphen characters
var mentionRegex = regexp.MustCompile(`@([\w-]+)`)

// speakerTagRegex matches a leading [Character Name] bracket prefix
var speakerTagRegex = regexp.MustCompile(`^\[([\w\s-]+)\]\s*`)

// ExtractMentions extracts mention ids from message content in
// left-to-right order of appearance. Duplicates are preserved.
func ExtractMentions(content string) []string {
	matches := mentionRegex.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return []string{}
	}

	mentions := make([]string, 0, len(matches))
	for _, match := range matches {
		mentions = append(mentions, match[1])
	}
	return mentions
}

// RemoveMentions removes all @mentions and collapses leftover whitespace
func RemoveMentions(content string) string {
	result := mentionRegex.ReplaceAllString(content, "")
	result = strings.TrimSpace(result)
	spaceRegex := regexp.MustCompile(`[ \t]+`)
	return spaceRegex.ReplaceAllString(result, " ")
}

// ExtractSpeakerTag recognizes a leading [Name] prefix on a message.
// Returns the speaker name and the remaining content; when no tag is
// present the name is empty and the content is returned unchanged.
func ExtractSpeakerTag(content string) (string, string) {
	match := speakerTagRegex.FindStringSubmatch(content)
	if match == nil {
		return "", content
	}
	name := strings.TrimSpace(match[1])
	return name, content[len(match[0]):]
}

// RewriteNameMentions rewrites free-text character names to canonical @id
// form so the model always sees consistent addressing. nameToID maps
// display names to character ids. Longer names are replaced first so that
// "Jon Snow" is not clobbered by a shorter "Jon".
func RewriteNameMentions(content string, nameToID map[string]string) string {
	if len(nameToID) == 0 {
		return content
	}

	names := make([]string, 0, len(nameToID))
	for name := range nameToID {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return len(names[i]) > len(names[j])
	})

	for _, name := range names {
		id := nameToID[name]
		re := regexp.MustCompile(`(?i)@?\b` + regexp.QuoteMeta(name) + `\b`)
		content = re.ReplaceAllStringFunc(content, func(m string) string {
			// Ids already in canonical form are left alone
			if strings.HasPrefix(m, "@") {
				return m
			}
			return "@" + id
		})
	}
	return content
}
