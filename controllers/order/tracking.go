package orderControllers

import (
	"strconv"
	"strings"
)

const trackingCodeWidth = 12

// TrackingCode builds the per-item tracking code: product code, then the
// size truncated to four characters, then the item id zero-padded to a
// fixed total width of twelve. The size shrinks further if needed to keep
// at least one character for the id, and an over-width id keeps its
// least-significant digits. Deterministic for a given
// (product code, size, item id). Size is free text, so it is measured and
// cut in runes, never splitting a multibyte character.
func TrackingCode(productCode, size string, itemID uint) string {
	sizeRunes := []rune(size)
	if len(sizeRunes) > 4 {
		sizeRunes = sizeRunes[:4]
	}

	idWidth := trackingCodeWidth - len(productCode) - len(sizeRunes)
	if idWidth < 1 {
		maxSize := trackingCodeWidth - len(productCode) - 1
		if maxSize < 0 {
			maxSize = 0
		}
		sizeRunes = sizeRunes[:maxSize]
		idWidth = trackingCodeWidth - len(productCode) - len(sizeRunes)
	}

	id := strconv.FormatUint(uint64(itemID), 10)
	if len(id) > idWidth {
		id = id[len(id)-idWidth:]
	}
	return productCode + string(sizeRunes) + strings.Repeat("0", idWidth-len(id)) + id
}
