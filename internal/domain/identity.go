package domain

import "strings"

const fingerprintRunes = 50

// ItemID derives the stable item id from the source id and the provider-side
// record id. A second fetch of the same upstream record yields the same id.
func ItemID(sourceID, providerID string) string {
	return sourceID + "-" + providerID
}

// TitleFingerprint is the dedup key for the ranked stream: the first 50
// characters of the lowercased title. Counted in runes so multi-byte titles
// do not split a character.
func TitleFingerprint(title string) string {
	lower := strings.ToLower(strings.TrimSpace(title))
	runes := []rune(lower)
	if len(runes) > fingerprintRunes {
		runes = runes[:fingerprintRunes]
	}
	return string(runes)
}
