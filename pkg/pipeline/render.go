package pipeline

import (
	"encoding/json"

	"github.com/matzehuels/gitgraph/pkg/errors"
	"github.com/matzehuels/gitgraph/pkg/render/flow"
	"github.com/matzehuels/gitgraph/pkg/render/nodelink"
)

// Render generates output artifacts for a scene in the requested formats.
// JSON carries every record with its hidden flag; the graphical formats
// draw only the visible subset.
func Render(s flow.Scene, formats []string, detailed bool) (map[string][]byte, error) {
	if err := ValidateFormats(formats); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(formats))
	var dot string
	for _, format := range formats {
		if format != FormatJSON && dot == "" {
			dot = nodelink.ToDOT(s, nodelink.Options{Detailed: detailed})
		}

		var data []byte
		var err error
		switch format {
		case FormatJSON:
			data, err = json.MarshalIndent(s, "", "  ")
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = nodelink.RenderSVG(dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(dot, DefaultPNGScale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(dot)
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
