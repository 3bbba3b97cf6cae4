package cli

import "time"

// Selection holds the word selection flags
type Selection struct {
	Words       []string
	WordsFile   string
	SampleSize  int
	Seed        int64
	SeedSet     bool // --seed was given; otherwise a time based seed is used
	AllDefaults bool
}

// WordsFlags configures the words command
type WordsFlags struct {
	Sets         bool
	Translations bool
}

// OpenImagesFlags configures the openimages command
type OpenImagesFlags struct {
	Selection
	Limit      int // Images per word
	MaxSamples int
	Output     string
	Split      string
	CacheDir   string
}

// QuickDrawFlags configures the quickdraw command
type QuickDrawFlags struct {
	Categories     []string
	Limit          int // Categories from the default list
	ExtractSamples int
	Output         string
	ImageSize      int
}

// GenerateFlags configures the generate command
type GenerateFlags struct {
	Selection
	Style         string
	StylePrompt   string
	Output        string // Empty writes each style to its own directory
	Provider      string
	Model         string
	Size          string
	Quality       string
	ImageStyle    string // dall-e-3 "vivid" or "natural"
	MaxConcurrent int
	Limit         int // Images across all styles
	Delay         time.Duration
}

// Flags holds all command-line flag values
type Flags struct {
	// Global flags
	CfgFile    string
	Verbose    bool
	DryRun     bool
	Yes        bool
	LedgerPath string
	Source     string // Swift file with the word sets, empty for the built-in sets

	// Extra label overrides from the config file
	LabelOverrides map[string]string

	Words      WordsFlags
	OpenImages OpenImagesFlags
	QuickDraw  QuickDrawFlags
	Generate   GenerateFlags

	HistoryLimit int
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		LedgerPath: DefaultLedgerPath(),
		OpenImages: OpenImagesFlags{
			Selection:  Selection{SampleSize: 3},
			Limit:      5,
			MaxSamples: 1000,
			Output:     "dev/output/openimages_photos",
			Split:      "validation",
		},
		QuickDraw: QuickDrawFlags{
			Output:    "quickdraw_images",
			ImageSize: 512,
		},
		Generate: GenerateFlags{
			Style:         "all",
			Provider:      "openai",
			Size:          "1024x1024",
			ImageStyle:    "natural",
			MaxConcurrent: 5,
		},
		HistoryLimit: 20,
	}
}
