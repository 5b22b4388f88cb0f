package config

// applyEnvironmentDefaults fills in values that only make sense for local
// development, without overriding anything that was configured explicitly.
func applyEnvironmentDefaults(cfg *Config, environment string) {
	if environment != "development" {
		return
	}

	if cfg.RootPath == "" {
		cfg.RootPath = "./tmp/files"
	}
	if cfg.ServerHost == "0.0.0.0" {
		cfg.ServerHost = "127.0.0.1"
	}
}
