package config

// LoggingConfig holds logging configuration. The CLI logs plain lines; the
// level filters entries and the output picks the stream they go to.
type LoggingConfig struct {
	// Log level: debug, info, warn, error
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`

	// Output stream: stdout, stderr
	Output string `mapstructure:"output" validate:"required,oneof=stdout stderr"`
}
