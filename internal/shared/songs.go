package shared

import "strings"

// UnknownArtist is the artist assigned to extracted entries that carry no
// "Artist - Title" separator.
const UnknownArtist = "Unknown Artist"

// songSeparator splits an extracted entry into artist and title. Only the
// first occurrence counts; the remainder stays in the title.
const songSeparator = " - "

// DedupeStrings removes exact duplicates from raw, preserving first-seen order.
//
// Deduplication is byte-exact: entries differing only by case or whitespace
// are kept as distinct.
func DedupeStrings(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))

	for _, s := range raw {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	return out
}

// SplitSongString splits a raw "Artist - Title" string on the first " - "
// occurrence, trimming both sides.
//
// A string with no separator becomes a title-only entry credited to
// [UnknownArtist].
func SplitSongString(raw string) (artist, title string) {
	left, right, found := strings.Cut(raw, songSeparator)
	if !found {
		return UnknownArtist, strings.TrimSpace(raw)
	}
	return strings.TrimSpace(left), strings.TrimSpace(right)
}
