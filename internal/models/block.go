package models

// BlockInfo describes one code block found on a page
type BlockInfo struct {
	Index int `json:"index"`
	// Control is the copy button number of the block, -1 when it has none
	Control  int    `json:"control"`
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
	Lines    int    `json:"lines"`
	Preview  string `json:"preview"`
}

// PageScan lists the code blocks of a page
type PageScan struct {
	Path      string      `json:"path"`
	Blocks    []BlockInfo `json:"blocks"`
	Decorated int         `json:"decorated"`
}
