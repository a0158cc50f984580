package sim

// BufferSize is the number of slots a production line can fill with purchased configurations.
const BufferSize = 10

// RenderMode selects the per-step visualization hook.
type RenderMode string

const (
	// RenderNone disables rendering (zero overhead).
	RenderNone RenderMode = ""
	// RenderHuman calls Options.Renderer after reset and after every step.
	RenderHuman RenderMode = "human"
)

// validRenderModes maps accepted render mode strings.
var validRenderModes = map[RenderMode]bool{
	RenderNone:  true,
	RenderHuman: true,
}

// IsValidRenderMode returns true if the given mode string is a recognized render mode.
func IsValidRenderMode(mode string) bool {
	return validRenderModes[RenderMode(mode)]
}

// Options groups environment construction options.
type Options struct {
	ScaleCosts bool       // divide incurring/recurring costs by their catalog maxima
	Stochastic bool       // enable market and production uncertainty after every step
	RenderMode RenderMode // "" (default) or "human"
	Renderer   Renderer   // required when RenderMode is "human"
}

// Renderer receives a Frame after reset and after every step.
type Renderer interface {
	Render(frame Frame)
}

// Frame is what a Renderer sees. Action is -1 for the frame emitted by Reset.
type Frame struct {
	Step        int
	Action      int
	Reward      float64
	TotalReward float64
	Observation Observation
}
