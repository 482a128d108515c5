package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string            `json:"type"`
	ProtocolVersion string            `json:"protocol_version"`
	ViewerName      string            `json:"viewer_name"`
	WorldPreference string            `json:"world_preference,omitempty"`
	Capabilities    HelloCapabilities `json:"capabilities"`
}

type HelloCapabilities struct {
	MaxQueue int `json:"max_queue,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string         `json:"type"`
	ProtocolVersion string         `json:"protocol_version"`
	ViewerID        string         `json:"viewer_id"`
	WorldID         string         `json:"world_id"`
	WorldParams     WorldParams    `json:"world_params"`
	WorldManifest   []string       `json:"world_manifest,omitempty"`
	Commands        []string       `json:"commands,omitempty"`
	Catalogs        CatalogDigests `json:"catalogs"`
}

// CatalogDigests lets a client check it renders against the same block set.
type CatalogDigests struct {
	BlockPalette DigestRef `json:"block_palette"`
	BlockDefs    DigestRef `json:"block_defs"`
}

type DigestRef struct {
	Digest string `json:"digest"`
	Count  int    `json:"count"`
}

type WorldParams struct {
	ChunkSize      int    `json:"chunk_size"`
	MinY           int    `json:"min_y"`
	MaxY           int    `json:"max_y"`
	Seed           int64  `json:"seed"`
	TickIntervalMs int    `json:"tick_interval_ms"`
	Marker         string `json:"marker"`
}

// POS (client -> server): the viewer's current position.
type PosMsg struct {
	Type            string     `json:"type"`
	ProtocolVersion string     `json:"protocol_version"`
	Pos             [3]float64 `json:"pos"`
}

// CMD (client -> server)
type CmdMsg struct {
	Type            string   `json:"type"`
	ProtocolVersion string   `json:"protocol_version"`
	ID              string   `json:"id,omitempty"`
	Name            string   `json:"name"`
	Args            []string `json:"args,omitempty"`
}

// CMD_RESULT (server -> client)
type CmdResultMsg struct {
	Type            string   `json:"type"`
	ProtocolVersion string   `json:"protocol_version"`
	ID              string   `json:"id,omitempty"`
	Name            string   `json:"name"`
	OK              bool     `json:"ok"`
	Code            string   `json:"code,omitempty"`
	Lines           []string `json:"lines,omitempty"`
	Enabled         bool     `json:"enabled"`
	Mode            string   `json:"mode,omitempty"`
	Color           string   `json:"color,omitempty"`
}

// DRAW (server -> client): one debug shape.
type DrawMsg struct {
	Type            string     `json:"type"`
	ProtocolVersion string     `json:"protocol_version"`
	Shape           string     `json:"shape"`
	Center          [3]float64 `json:"center"`
	Scale           [3]float64 `json:"scale"`
	Color           [3]float32 `json:"color"`
	LineWidth       float32    `json:"line_width"`
	Persist         bool       `json:"persist"`
}

// CLEAR (server -> client): drop every shape previously drawn.
type ClearMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
}
