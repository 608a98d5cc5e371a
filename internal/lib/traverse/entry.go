package traverse

import (
	"fmt"
	"strings"
)

// EntryCorner selects the polygon corner at which the generated path begins
type EntryCorner int

const (
	TopLeft EntryCorner = iota
	TopRight
	BottomLeft
	BottomRight
)

var entryCornerNames = [...]string{
	TopLeft:     "top-left",
	TopRight:    "top-right",
	BottomLeft:  "bottom-left",
	BottomRight: "bottom-right",
}

func (e EntryCorner) String() string {
	if e < TopLeft || e > BottomRight {
		return fmt.Sprintf("EntryCorner(%d)", int(e))
	}
	return entryCornerNames[e]
}

// Valid reports whether e is one of the four corners
func (e EntryCorner) Valid() bool {
	return e >= TopLeft && e <= BottomRight
}

// reversesPoints reports whether each transect runs from its far end
func (e EntryCorner) reversesPoints() bool {
	return e == BottomLeft || e == BottomRight
}

// reversesOrder reports whether transects are flown last to first
func (e EntryCorner) reversesOrder() bool {
	return e == TopRight || e == BottomRight
}

// ParseEntryCorner accepts names such as "top-left", "TopLeft" or "top_left"
func ParseEntryCorner(s string) (EntryCorner, error) {
	normalized := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(s))
	for i, name := range entryCornerNames {
		if strings.ReplaceAll(name, "-", "") == normalized {
			return EntryCorner(i), nil
		}
	}
	return TopLeft, fmt.Errorf("unknown entry corner %q", s)
}

// MarshalText encodes the corner by name
func (e EntryCorner) MarshalText() ([]byte, error) {
	if !e.Valid() {
		return nil, fmt.Errorf("invalid entry corner %d", int(e))
	}
	return []byte(e.String()), nil
}

// UnmarshalText decodes a corner name
func (e *EntryCorner) UnmarshalText(text []byte) error {
	v, err := ParseEntryCorner(string(text))
	if err != nil {
		return err
	}
	*e = v
	return nil
}
