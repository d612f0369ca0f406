package config

// File represents the structure of the warden.yaml configuration file.
// All fields are optional; unset fields keep their defaults.
type File struct {
	Worker WorkerDTO `yaml:"worker"`
	Retry  RetryDTO  `yaml:"retry"`
	Cache  CacheDTO  `yaml:"cache"`
}

// WorkerDTO configures the supervised worker process and its endpoint.
type WorkerDTO struct {
	Enabled *bool    `yaml:"enabled"`
	Host    string   `yaml:"host"`
	Port    int      `yaml:"port"`
	Command []string `yaml:"command"`

	StartupTimeout         string `yaml:"startupTimeout"`
	ShutdownTimeout        string `yaml:"shutdownTimeout"`
	RequestTimeout         string `yaml:"requestTimeout"`
	ProbeTimeout           string `yaml:"probeTimeout"`
	HealthCheckInterval    string `yaml:"healthCheckInterval"`
	MaxConsecutiveFailures int    `yaml:"maxConsecutiveFailures"`
	MaxConcurrent          int    `yaml:"maxConcurrentValidations"`
}

// RetryDTO configures the correction retry loop.
type RetryDTO struct {
	MaxRetries *int     `yaml:"maxRetries"`
	FixCommand []string `yaml:"fixCommand"`
}

// CacheDTO configures the validation result cache.
type CacheDTO struct {
	Size int    `yaml:"size"`
	TTL  string `yaml:"ttl"`
}
