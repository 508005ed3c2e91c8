package sink

import (
	"encoding/json"

	"github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/grouped"
)

// RenderJSON encodes the layout as indented JSON.
func RenderJSON(e grouped.Export) ([]byte, error) {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode layout")
	}
	return append(data, '\n'), nil
}

// ParseJSON decodes a layout written by RenderJSON and checks that every
// frame has a positive size and known flags.
func ParseJSON(data []byte) (grouped.Export, error) {
	var e grouped.Export
	if err := json.Unmarshal(data, &e); err != nil {
		return grouped.Export{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout")
	}
	for _, f := range e.Frames {
		if f.Rect().IsEmpty() {
			return grouped.Export{}, errors.New(errors.ErrCodeInvalidFormat, "frame %q has no area", f.ID)
		}
		if _, err := grouped.ParseFlags(f.Flags); err != nil {
			return grouped.Export{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "frame %q", f.ID)
		}
	}
	return e, nil
}
