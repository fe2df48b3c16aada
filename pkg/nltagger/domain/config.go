package domain

// A list of config keys supported by the captioning core (settings of concrete backends live next to them).

const (
	// ConfigKeyLogPath file path where to save the logs
	ConfigKeyLogPath = "logPath"
	// ConfigKeyCaptionPrompt the question asked about every picture
	ConfigKeyCaptionPrompt = "captionPrompt"
	// ConfigKeyCaptionTopK the top-k sampling parameter passed to the captioner
	ConfigKeyCaptionTopK = "captionTopK"
	// ConfigKeyCaptionTopP the nucleus sampling parameter passed to the captioner
	ConfigKeyCaptionTopP = "captionTopP"
)

const (
	// DefaultCaptionPrompt the prompt used when none is configured.
	DefaultCaptionPrompt = "Describe this picture"
	// DefaultTemperature the temperature preselected in the front-ends.
	DefaultTemperature = 0.7
	// MinTemperature and MaxTemperature bound the temperature a user can pick in the front-ends.
	MinTemperature = 0.1
	MaxTemperature = 1.0
)
