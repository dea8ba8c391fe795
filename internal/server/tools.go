package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// viewportProperties are shared by fractal_render and fractal_viewport.
func viewportProperties() map[string]interface{} {
	return map[string]interface{}{
		"center_real": map[string]interface{}{
			"type":        "number",
			"description": "Real part of the image center. Default 0",
		},
		"center_imag": map[string]interface{}{
			"type":        "number",
			"description": "Imaginary part of the image center. Default 0",
		},
		"zoom": map[string]interface{}{
			"type":        "number",
			"description": "Magnification, must be > 0. At zoom 1 the plane spans one unit across the mean image dimension. Default 1, or the landmark's zoom",
		},
		"width": map[string]interface{}{
			"type":        "integer",
			"description": "Output width in pixels. Ignored when resolution is set",
		},
		"height": map[string]interface{}{
			"type":        "integer",
			"description": "Output height in pixels. Ignored when resolution is set",
		},
		"resolution": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"HD", "FHD", "QHD", "UHD", "FUHD", "UW_FHD", "UW_QHD", "UW_UHD", "UW_FUHD"},
			"description": "Named output size. Default HD when width and height are not given",
		},
		"landmark": map[string]interface{}{
			"type":        "string",
			"description": "Named region (see fractal_presets). Sets the center, and the zoom unless zoom is given",
		},
		"msaa": map[string]interface{}{
			"type":        "integer",
			"enum":        []int{1, 4, 9, 16, 25},
			"description": "Samples per output pixel, a perfect square. Default 1",
			"default":     1,
		},
	}
}

// renderProperty names the image an inspection tool works on.
func renderProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "render_id returned by fractal_render, the output path it saved to, or the path of any PNG, JPEG or GIF file",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	renderProps := viewportProperties()
	for k, v := range map[string]interface{}{
		"max_iterations": map[string]interface{}{
			"type":        "integer",
			"description": "Iteration limit per point. Default 500",
			"default":     500,
		},
		"color_scheme": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"grayscale", "hsv", "hcl"},
			"description": "Color mapping. Default grayscale",
			"default":     "grayscale",
		},
		"continuous": map[string]interface{}{
			"type":        "boolean",
			"description": "Use smooth escape values instead of integer escape counts. Default false",
			"default":     false,
		},
		"escape_radius": map[string]interface{}{
			"type":        "number",
			"description": "Bailout radius for continuous mode. Default 2000",
			"default":     2000,
		},
		"hue_exponent": map[string]interface{}{
			"type":        "number",
			"description": "Exponent applied to the hue angle by hsv and hcl. Default 1.25",
			"default":     1.25,
		},
		"in_set_color": map[string]interface{}{
			"type":        "string",
			"description": "Hex color for points inside the set, e.g. #000000. Default white for continuous grayscale, black otherwise",
		},
		"sentinel": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"max", "max-1"},
			"description": "Value recorded for points that never escape in discrete mode. Default max",
			"default":     "max",
		},
		"chroma": map[string]interface{}{
			"type":        "number",
			"description": "HCL chroma. Default 60",
			"default":     60,
		},
		"luminance": map[string]interface{}{
			"type":        "number",
			"description": "HCL luminance. Default 65",
			"default":     65,
		},
		"output": map[string]interface{}{
			"type":        "string",
			"description": "File to save the image to. The extension picks the format (.png, .jpg, .gif, .tif, .bmp). Omit to keep the render in memory only",
		},
		"inline": map[string]interface{}{
			"type":        "boolean",
			"description": "Include the image in the result as base64 PNG. Default false",
			"default":     false,
		},
	} {
		renderProps[k] = v
	}

	return []Tool{
		// Rendering
		{
			Name:        "fractal_render",
			Description: "Render the Mandelbrot set for a viewport and color scheme. Returns a render_id usable with the inspection tools, the plane bounds, and stage timings.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": renderProps,
			},
		},
		{
			Name:        "fractal_viewport",
			Description: "Compute the plane rectangle and pixel size a viewport covers without rendering it.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": viewportProperties(),
			},
		},
		{
			Name:        "fractal_escape",
			Description: "Iterate a single point of the complex plane and report whether it escapes, its escape index and its smooth escape value.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"real": map[string]interface{}{
						"type":        "number",
						"description": "Real part of the point",
					},
					"imag": map[string]interface{}{
						"type":        "number",
						"description": "Imaginary part of the point",
					},
					"max_iterations": map[string]interface{}{
						"type":        "integer",
						"description": "Iteration limit. Default 500",
						"default":     500,
					},
					"escape_radius": map[string]interface{}{
						"type":        "number",
						"description": "Bailout radius for the smooth value. Default 2000",
						"default":     2000,
					},
					"sentinel": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"max", "max-1"},
						"description": "Index reported for points that never escape. Default max",
						"default":     "max",
					},
				},
				"required": []string{"real", "imag"},
			},
		},
		{
			Name:        "fractal_presets",
			Description: "List named resolutions, landmark regions, color schemes, sentinel policies, MSAA levels and request defaults.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},

		// Inspection
		{
			Name:        "fractal_sample_color",
			Description: "Get the color at one or more pixels of a render. For cached renders each sample also reports the plane coordinate of the pixel.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"render": renderProperty(),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left). Used when points is empty",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top). Used when points is empty",
					},
					"points": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x":     map[string]interface{}{"type": "integer"},
								"y":     map[string]interface{}{"type": "integer"},
								"label": map[string]interface{}{"type": "string"},
							},
							"required": []string{"x", "y"},
						},
						"description": "Points to sample, returned in the same order",
					},
				},
				"required": []string{"render"},
			},
		},
		{
			Name:        "fractal_dominant_colors",
			Description: "Extract the most common colors of a render, most frequent first.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"render": renderProperty(),
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of colors to return. Default 5",
						"default":     5,
					},
				},
				"required": []string{"render"},
			},
		},
		{
			Name:        "fractal_crop",
			Description: "Crop a rectangular region of a render and return it as base64 PNG, together with the plane rectangle it covers.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"render": renderProperty(),
					"x1": map[string]interface{}{
						"type":        "integer",
						"description": "Left edge X coordinate (0-based)",
					},
					"y1": map[string]interface{}{
						"type":        "integer",
						"description": "Top edge Y coordinate (0-based)",
					},
					"x2": map[string]interface{}{
						"type":        "integer",
						"description": "Right edge X coordinate (exclusive)",
					},
					"y2": map[string]interface{}{
						"type":        "integer",
						"description": "Bottom edge Y coordinate (exclusive)",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"render", "x1", "y1", "x2", "y2"},
			},
		},
		{
			Name:        "fractal_grid_overlay",
			Description: "Draw a labelled coordinate grid over a render to help pick the next center to zoom into.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"render": renderProperty(),
					"grid_spacing": map[string]interface{}{
						"type":        "integer",
						"description": "Pixels between grid lines. Default 50",
						"default":     50,
					},
					"labels": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"none", "pixel", "plane"},
						"description": "Label intersections with pixel or plane coordinates. Plane labels need a cached render. Default pixel",
						"default":     "pixel",
					},
					"grid_color": map[string]interface{}{
						"type":        "string",
						"description": "Grid color as #RRGGBB or #RRGGBBAA. Default #FF000080",
						"default":     "#FF000080",
					},
				},
				"required": []string{"render"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
