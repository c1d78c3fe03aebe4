package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Item is one selectable entry of the catalog.
type Item struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Year        int    `json:"year,omitempty"`
	// Duration in minutes.
	Duration int    `json:"duration,omitempty"`
	CoverURL string `json:"coverUrl,omitempty"`
	VideoURL string `json:"videoUrl,omitempty"`
}

// Label is the display name, "title (year)" when the year is known.
func (i Item) Label() string {
	if i.Year > 0 {
		return fmt.Sprintf("%s (%d)", i.Title, i.Year)
	}
	return i.Title
}

// UnmarshalJSON accepts numeric identifiers.
func (i *Item) UnmarshalJSON(data []byte) error {
	type plain Item
	var raw struct {
		plain
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, err := decodeID(raw.ID)
	if err != nil {
		return err
	}

	*i = Item(raw.plain)
	i.ID = id
	return nil
}

func decodeID(data json.RawMessage) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return "", fmt.Errorf("%w: item without id", ErrMalformed)
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if s = strings.TrimSpace(s); s == "" {
			return "", fmt.Errorf("%w: empty id", ErrMalformed)
		}
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return n.String(), nil
}
