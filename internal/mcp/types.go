package mcp

// WindowState is one tracked window as reported by the tools.
type WindowState struct {
	Label      string `json:"label"`
	Width      uint32 `json:"width"`
	Height     uint32 `json:"height"`
	X          int32  `json:"x"`
	Y          int32  `json:"y"`
	Maximized  bool   `json:"maximized"`
	Visible    bool   `json:"visible"`
	Decorated  bool   `json:"decorated"`
	Fullscreen bool   `json:"fullscreen"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct{}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	StatePath string        `json:"state_path"`
	Windows   []WindowState `json:"windows"`
}

// GetWindowInput is the input for the get_window tool.
type GetWindowInput struct {
	Label string `json:"label" jsonschema:"required,The window label to look up"`
}

// GetWindowOutput is the output for the get_window tool.
type GetWindowOutput struct {
	Window WindowState `json:"window"`
}

// ForgetWindowInput is the input for the forget_window tool.
type ForgetWindowInput struct {
	Label string `json:"label" jsonschema:"required,The window label whose cached state should be discarded"`
}

// ForgetWindowOutput is the output for the forget_window tool.
type ForgetWindowOutput struct {
	Removed bool `json:"removed"`
}

// ClearStateInput is the input for the clear_state tool.
type ClearStateInput struct{}

// ClearStateOutput is the output for the clear_state tool.
type ClearStateOutput struct {
	Removed int `json:"removed"`
}

// StatePathInput is the input for the state_path tool.
type StatePathInput struct{}

// StatePathOutput is the output for the state_path tool.
type StatePathOutput struct {
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
}
