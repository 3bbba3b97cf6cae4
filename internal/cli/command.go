package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"codeberg.org/snonux/babycards/internal"
	"codeberg.org/snonux/babycards/internal/prompt"
)

// RunFunc runs one subcommand
type RunFunc func(cmd *cobra.Command, args []string) error

// Handlers are the run functions of the subcommands, wired by main
type Handlers struct {
	Words      RunFunc
	OpenImages RunFunc
	QuickDraw  RunFunc
	Generate   RunFunc
	ListModels RunFunc
	Archive    RunFunc
	History    RunFunc
}

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags, h Handlers) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "babycards",
		Short: "Flashcard image library builder",
		Long: `babycards builds the flashcard image library of the baby vocabulary app.

It downloads photos from Open Images and sketches from Google Quick Draw,
or generates illustrations with OpenAI or Gemini image models, for the
words of the app's RandomWordSet lists.

Examples:
  babycards words --sets                     # Show the built-in word sets
  babycards openimages --words dog cat -y    # Download photos for two words
  babycards quickdraw --limit 5 --extract-samples 3
  babycards generate --style crayon --sample-size 10 --dry-run`,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ApplyConfig(flags)
			if f := cmd.Flags().Lookup("seed"); f != nil && f.Changed {
				flags.OpenImages.SeedSet = true
				flags.Generate.SeedSet = true
			}
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.babycards.yaml)")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "Verbose logging")
	pf.BoolVar(&flags.DryRun, "dry-run", false, "Print the plan without downloading or generating")
	pf.BoolVarP(&flags.Yes, "yes", "y", false, "Skip the confirmation prompt")
	pf.StringVar(&flags.LedgerPath, "ledger", flags.LedgerPath, "SQLite run ledger")
	pf.StringVar(&flags.Source, "source", "", "Swift file with RandomWordSet declarations (default: built-in sets)")
	bindFlags(pf, map[string]string{
		"ledger.path":  "ledger",
		"words.source": "source",
	})

	rootCmd.AddCommand(
		newWordsCommand(flags, h.Words),
		newOpenImagesCommand(flags, h.OpenImages),
		newQuickDrawCommand(flags, h.QuickDraw),
		newGenerateCommand(flags, h.Generate),
		&cobra.Command{
			Use:   "list-models",
			Short: "List image models available to the configured API keys",
			Args:  cobra.NoArgs,
			RunE:  h.ListModels,
		},
		&cobra.Command{
			Use:   "archive <dir>",
			Short: "Move an output directory to archive/<name>-<timestamp>",
			Args:  cobra.ExactArgs(1),
			RunE:  h.Archive,
		},
		newHistoryCommand(flags, h.History),
	)

	return rootCmd
}

// bindFlags binds config keys to the named flags of fs
func bindFlags(fs *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		viper.BindPFlag(key, fs.Lookup(name))
	}
}

func setupSelectionFlags(fs *pflag.FlagSet, sel *Selection, sampleHelp string) {
	fs.StringSliceVar(&sel.Words, "words", nil, "Words to process (comma separated or repeated)")
	fs.StringVar(&sel.WordsFile, "words-file", "", "File with one word per line")
	fs.IntVar(&sel.SampleSize, "sample-size", sel.SampleSize, sampleHelp)
	fs.Int64Var(&sel.Seed, "seed", 0, "Random seed for sampling default words")
	fs.BoolVar(&sel.AllDefaults, "all-defaults", false, "Use every default word (ignores --sample-size)")
}

func newWordsCommand(flags *Flags, run RunFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "words",
		Short: "Print the unique words of the word sets",
		Args:  cobra.NoArgs,
		RunE:  run,
	}
	cmd.Flags().BoolVar(&flags.Words.Sets, "sets", false, "Print the name and size of each set")
	cmd.Flags().BoolVar(&flags.Words.Translations, "translations", false, "Print 'word = translation' lines")
	return cmd
}

func newOpenImagesCommand(flags *Flags, run RunFunc) *cobra.Command {
	f := &flags.OpenImages
	cmd := &cobra.Command{
		Use:   "openimages",
		Short: "Download Open Images photos grouped by word",
		Args:  cobra.NoArgs,
		RunE:  run,
	}
	setupSelectionFlags(cmd.Flags(), &f.Selection, "Randomly sample this many mappable default words when none are given")
	cmd.Flags().IntVar(&f.Limit, "limit", f.Limit, "Images to download per word")
	cmd.Flags().IntVar(&f.MaxSamples, "max-samples", f.MaxSamples, "Upper bound on samples taken from the dataset")
	cmd.Flags().StringVarP(&f.Output, "output", "o", f.Output, "Output directory")
	cmd.Flags().StringVar(&f.Split, "split", f.Split, "Dataset split: train, validation or test")
	cmd.Flags().StringVar(&f.CacheDir, "cache-dir", "", "Keep downloaded annotation files here")

	bindFlags(cmd.Flags(), map[string]string{
		"openimages.output":      "output",
		"openimages.split":       "split",
		"openimages.cache_dir":   "cache-dir",
		"openimages.limit":       "limit",
		"openimages.max_samples": "max-samples",
	})
	return cmd
}

func newQuickDrawCommand(flags *Flags, run RunFunc) *cobra.Command {
	f := &flags.QuickDraw
	cmd := &cobra.Command{
		Use:   "quickdraw",
		Short: "Download Google Quick Draw categories and render sample sketches",
		Args:  cobra.NoArgs,
		RunE:  run,
	}
	cmd.Flags().StringSliceVar(&f.Categories, "categories", nil, "Categories to download (default: baby-friendly list)")
	cmd.Flags().IntVar(&f.Limit, "limit", 0, "Limit the number of default categories")
	cmd.Flags().IntVar(&f.ExtractSamples, "extract-samples", 0, "Render N sample images per category")
	cmd.Flags().StringVarP(&f.Output, "output", "o", f.Output, "Output directory")
	cmd.Flags().IntVar(&f.ImageSize, "image-size", f.ImageSize, "Width and height of rendered samples")

	bindFlags(cmd.Flags(), map[string]string{
		"quickdraw.output":     "output",
		"quickdraw.image_size": "image-size",
	})
	return cmd
}

func newGenerateCommand(flags *Flags, run RunFunc) *cobra.Command {
	f := &flags.Generate
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate flashcard illustrations with an image model",
		Args:  cobra.NoArgs,
		RunE:  run,
	}
	setupSelectionFlags(cmd.Flags(), &f.Selection, "Randomly sample this many default words when none are given (0 = all words)")

	styleHelp := fmt.Sprintf("Style preset or comma separated list: %s, or 'all'", strings.Join(prompt.StyleKeys(), ", "))
	cmd.Flags().StringVar(&f.Style, "style", f.Style, styleHelp)
	cmd.Flags().StringVar(&f.StylePrompt, "style-prompt", "", "Custom style description replacing the preset text")
	cmd.Flags().StringVarP(&f.Output, "output", "o", "", "Output directory (default: one directory per style)")
	cmd.Flags().StringVar(&f.Provider, "provider", f.Provider, "Image provider: openai or gemini")
	cmd.Flags().StringVar(&f.Model, "model", "", "Image model (default: dall-e-3 or gemini-2.5-flash-image)")
	cmd.Flags().StringVar(&f.Size, "size", f.Size, "Image size, e.g. 1024x1024")
	cmd.Flags().StringVar(&f.Quality, "quality", "", "Image quality: standard or hd (dall-e-3), low, medium or high (gpt-image-1)")
	cmd.Flags().StringVar(&f.ImageStyle, "image-style", f.ImageStyle, "Image style: natural or vivid (dall-e-3 only)")
	cmd.Flags().IntVar(&f.MaxConcurrent, "max-concurrent", f.MaxConcurrent, "Concurrent generation requests")
	cmd.Flags().IntVar(&f.Limit, "limit", 0, "Limit the total number of images across all styles")
	cmd.Flags().DurationVar(&f.Delay, "delay", 0, "Generate one image at a time, waiting this long between calls")

	bindFlags(cmd.Flags(), map[string]string{
		"image.provider":       "provider",
		"image.model":          "model",
		"image.size":           "size",
		"image.quality":        "quality",
		"image.openai_style":   "image-style",
		"image.max_concurrent": "max-concurrent",
		"generate.style":       "style",
		"generate.output":      "output",
	})
	return cmd
}

func newHistoryCommand(flags *Flags, run RunFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded runs and their spend",
		Args:  cobra.NoArgs,
		RunE:  run,
	}
	cmd.Flags().IntVarP(&flags.HistoryLimit, "limit", "n", flags.HistoryLimit, "Number of runs to show (0 = all)")
	return cmd
}
