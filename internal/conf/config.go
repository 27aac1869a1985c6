// Package conf provides the application configuration, loaded from a YAML
// config file, environment variables and command line flags through viper.
package conf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

// Settings holds the complete application configuration
type Settings struct {
	Debug bool // print debug messages

	Main struct {
		FieldsDir string // root directory that holds all fields
		Log       LogConfig
	}

	Detector struct {
		ModelPath     string  // path to the YOLO ONNX model
		ClassesPath   string  // path to the class label file
		InputSize     int     // square network input size in pixels
		Confidence    float64 // minimum detection confidence
		NMSThreshold  float64 // non-maximum suppression IoU threshold
		TrackIoUMatch float64 // minimum IoU to continue an existing track
		TrackMaxAge   int     // frames a lost track survives before retirement
	}

	Processing struct {
		BatchSize      int    // frames per detector batch
		TopInfected    int    // infected frame stills exported per run
		VideoCodec     string // fourcc for the annotated output video
		FlightDuration string // duration string recorded with every log row
	}

	Input struct {
		Path  string // video file to process
		Field string // field name the run belongs to
	}
}

// LogConfig defines the log file settings
type LogConfig struct {
	Enabled bool   // true to enable file logging
	Path    string // path to the log file
}

var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file and environment variables into Settings.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// Setting returns the current settings instance, loading it if needed.
func Setting() *Settings {
	settingsMutex.RLock()
	if settingsInstance != nil {
		defer settingsMutex.RUnlock()
		return settingsInstance
	}
	settingsMutex.RUnlock()

	settings, err := Load()
	if err != nil {
		return &Settings{}
	}
	return settings
}

// initViper initializes viper with default values and reads the configuration file.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	viper.SetEnvPrefix("droneui")
	viper.AutomaticEnv()

	setDefaultConfig()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// missing config file is fine, defaults apply
			return nil
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// GetDefaultConfigPaths returns the list of directories searched for config.yaml.
func GetDefaultConfigPaths() ([]string, error) {
	paths := []string{"."}
	homeDir, err := os.UserHomeDir()
	if err == nil {
		paths = append(paths, filepath.Join(homeDir, ".config", "droneui"))
	}
	return paths, nil
}

// RunsDir returns the runs directory of the given field.
func (s *Settings) RunsDir(field string) string {
	return filepath.Join(s.Main.FieldsDir, field, "runs")
}

// FieldDir returns the root directory of the given field.
func (s *Settings) FieldDir(field string) string {
	return filepath.Join(s.Main.FieldsDir, field)
}
