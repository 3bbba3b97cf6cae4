package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DefaultLedgerPath is the run database under the user's state directory
func DefaultLedgerPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "babycards.db"
	}
	return filepath.Join(home, ".local", "state", "babycards", "ledger.db")
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".babycards" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".babycards")
	}

	// Environment variables, BABYCARDS_IMAGE_PROVIDER for image.provider
	viper.SetEnvPrefix("BABYCARDS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// ApplyConfig copies viper values of bound keys into flags. A flag given
// on the command line wins over the config file, which wins over the
// flag default.
func ApplyConfig(flags *Flags) {
	setString := func(key string, dst *string) {
		if viper.IsSet(key) {
			*dst = viper.GetString(key)
		}
	}
	setInt := func(key string, dst *int) {
		if viper.IsSet(key) {
			*dst = viper.GetInt(key)
		}
	}

	setString("ledger.path", &flags.LedgerPath)
	setString("words.source", &flags.Source)

	setString("openimages.output", &flags.OpenImages.Output)
	setString("openimages.split", &flags.OpenImages.Split)
	setString("openimages.cache_dir", &flags.OpenImages.CacheDir)
	setInt("openimages.limit", &flags.OpenImages.Limit)
	setInt("openimages.max_samples", &flags.OpenImages.MaxSamples)

	setString("quickdraw.output", &flags.QuickDraw.Output)
	setInt("quickdraw.image_size", &flags.QuickDraw.ImageSize)

	setString("image.provider", &flags.Generate.Provider)
	setString("image.model", &flags.Generate.Model)
	setString("image.size", &flags.Generate.Size)
	setString("image.quality", &flags.Generate.Quality)
	setString("image.openai_style", &flags.Generate.ImageStyle)
	setInt("image.max_concurrent", &flags.Generate.MaxConcurrent)
	setString("generate.style", &flags.Generate.Style)
	setString("generate.output", &flags.Generate.Output)

	if viper.IsSet("labels.overrides") {
		flags.LabelOverrides = viper.GetStringMapString("labels.overrides")
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("image.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	for _, env := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if key := os.Getenv(env); key != "" {
			return key
		}
	}
	return viper.GetString("image.gemini_key")
}
