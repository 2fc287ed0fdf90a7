package engine

// Tool identifies the active annotation tool.
type Tool string

const (
	ToolNone        Tool = ""
	ToolHighlighter Tool = "highlighter"
	ToolPen         Tool = "pen"
	ToolNote        Tool = "note"
	ToolEraser      Tool = "eraser"
)

// ReadingMode selects the viewer color theme.
type ReadingMode string

const (
	ModeLight ReadingMode = "light"
	ModeDark  ReadingMode = "dark"
	ModeNight ReadingMode = "night"
)

// ViewState is the explicit, serializable UI state of one viewer session.
// It is passed down to the capture controllers and the render surface
// instead of living in ad hoc component state.
type ViewState struct {
	Tool          Tool        `json:"tool" yaml:"tool"`
	Color         string      `json:"color" yaml:"color"`
	Mode          ReadingMode `json:"mode" yaml:"mode"`
	Page          int         `json:"page" yaml:"page"`
	TotalPages    int         `json:"totalPages" yaml:"total_pages"`
	Scale         float64     `json:"scale" yaml:"scale"`
	FitToWidth    bool        `json:"fitToWidth" yaml:"fit_to_width"`
	FitPercentage int         `json:"fitPercentage" yaml:"fit_percentage"`
}

// Config carries the annotation engine tunables the viewer shell reads from
// its configuration file.
type Config struct {
	DefaultColor       string
	DefaultLineWidth   float64
	DrawingEraseRadius float64 // display pixels
	NoteEraseRadius    float64 // display pixels
	BookmarkLabel      string  // fmt template receiving the page number
	MinScale           float64
	MaxScale           float64
	FitPercentage      int
}

// DefaultConfig returns the tunables used when the shell provides none.
func DefaultConfig() Config {
	return Config{
		DefaultColor:       "#ffff00",
		DefaultLineWidth:   2,
		DrawingEraseRadius: 20,
		NoteEraseRadius:    30,
		BookmarkLabel:      "Bookmark on page %d",
		MinScale:           0.5,
		MaxScale:           2.5,
		FitPercentage:      90,
	}
}
