package config

const (
	defaultDataDir           = "~/.local/share/whorl"
	defaultLogDir            = "~/.local/share/whorl/logs"
	defaultProvider          = "sim"
	defaultDeviceIndex       = 0
	defaultMaxTemplateSize   = 2048
	defaultIdentifyThreshold = 60
	defaultBatchSize         = 10
	defaultPasses            = 1
	defaultDecodePolicy      = "reject"
	defaultUSBVendorID       = "1b55"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultLogRetentionDays  = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Engine: Engine{
			Provider:          defaultProvider,
			DeviceIndex:       defaultDeviceIndex,
			MaxTemplateSize:   defaultMaxTemplateSize,
			IdentifyThreshold: defaultIdentifyThreshold,
		},
		Ingest: Ingest{
			BatchSize:    defaultBatchSize,
			Passes:       defaultPasses,
			DecodePolicy: defaultDecodePolicy,
		},
		Reader: Reader{
			USBVendorID: defaultUSBVendorID,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
