package api

// ServerConfig holds runtime settings for the conversion API server.
type ServerConfig struct {
	Bind    string
	Port    int
	APIKey  string
	WorkDir string
}

// APIResponse is the standard JSON envelope for non-binary responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// TableInfo describes one table of an inspected CDB file.
type TableInfo struct {
	Name    string `json:"name"`
	ID      uint32 `json:"id"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
}
