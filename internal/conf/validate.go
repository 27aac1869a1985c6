package conf

import "fmt"

// ValidateSettings checks the loaded settings for values the pipeline
// cannot work with.
func ValidateSettings(settings *Settings) error {
	if settings.Processing.BatchSize < 1 {
		return fmt.Errorf("processing.batchsize must be at least 1, got %d", settings.Processing.BatchSize)
	}
	if settings.Processing.TopInfected < 0 {
		return fmt.Errorf("processing.topinfected must not be negative, got %d", settings.Processing.TopInfected)
	}
	if len(settings.Processing.VideoCodec) != 4 {
		return fmt.Errorf("processing.videocodec must be a four character code, got %q", settings.Processing.VideoCodec)
	}
	if settings.Detector.Confidence < 0 || settings.Detector.Confidence > 1 {
		return fmt.Errorf("detector.confidence must be within [0,1], got %f", settings.Detector.Confidence)
	}
	if settings.Detector.InputSize < 32 {
		return fmt.Errorf("detector.inputsize must be at least 32, got %d", settings.Detector.InputSize)
	}
	return nil
}
