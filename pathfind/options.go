package pathfind

// Options tunes a search. The zero value searches without limits.
type Options struct {
	// MaxCost stops expansion past this accumulated cost when LimitCost is
	// set. Cells at exactly MaxCost are kept, so a cutoff of 0 keeps only the
	// starting cells.
	MaxCost   float64
	LimitCost bool

	// MaxExpansions caps the number of cells taken off the frontier. Zero or
	// negative means unlimited.
	MaxExpansions int

	// CostFloor is the cheapest movement cost on the map. The A* heuristic is
	// scaled by it so it never overestimates. Defaults to 1.
	CostFloor float64

	// Stats, when set, receives the search counters on return.
	Stats *Stats
}

// Stats counts the work done by one search.
type Stats struct {
	Expanded int // cells taken off the frontier and closed
	Pushed   int // frontier insertions, including superseded ones
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithMaxCost bounds the accumulated cost a search may reach.
func WithMaxCost(maxCost float64) Option {
	return func(options *Options) {
		options.MaxCost = maxCost
		options.LimitCost = true
	}
}

// WithMaxExpansions bounds the number of cells a search may close.
func WithMaxExpansions(n int) Option {
	return func(options *Options) { options.MaxExpansions = n }
}

// WithCostFloor declares the cheapest movement cost on the map so the A*
// heuristic stays admissible when some cells cost less than 1.
func WithCostFloor(floor float64) Option {
	return func(options *Options) { options.CostFloor = floor }
}

// WithStats makes the search report its counters into stats.
func WithStats(stats *Stats) Option {
	return func(options *Options) { options.Stats = stats }
}

func buildOptions(opts []Option) Options {
	options := Options{CostFloor: 1}
	for _, option := range opts {
		option(&options)
	}
	if options.CostFloor <= 0 {
		options.CostFloor = 1
	}
	return options
}

func (o Options) costAllowed(cost float64) bool {
	return !o.LimitCost || cost <= o.MaxCost
}

func (o Options) expansionsLeft(expanded int) bool {
	return o.MaxExpansions <= 0 || expanded < o.MaxExpansions
}
