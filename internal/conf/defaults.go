package conf

import "github.com/spf13/viper"

// setDefaultConfig sets the default values for each configuration parameter.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.fieldsdir", "fields")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "logs/droneui.log")

	viper.SetDefault("detector.modelpath", "models/plantnet.onnx")
	viper.SetDefault("detector.classespath", "models/classes.txt")
	viper.SetDefault("detector.inputsize", 640)
	viper.SetDefault("detector.confidence", 0.25)
	viper.SetDefault("detector.nmsthreshold", 0.45)
	viper.SetDefault("detector.trackioumatch", 0.3)
	viper.SetDefault("detector.trackmaxage", 15)

	viper.SetDefault("processing.batchsize", 32)
	viper.SetDefault("processing.topinfected", 5)
	viper.SetDefault("processing.videocodec", "mp4v")
	viper.SetDefault("processing.flightduration", "Unknown")
}
