package config

// StorageConfig contains S3-compatible object storage settings for gallery
// image binaries.
type StorageConfig struct {
	Endpoint  string `env:"ENDPOINT"   envDefault:"localhost:9000"`
	AccessKey string `env:"ACCESS_KEY" envDefault:"academy"`
	SecretKey string `env:"SECRET_KEY" envDefault:"academy-secret"`
	Bucket    string `env:"BUCKET"     envDefault:"academy-gallery"`
	UseSSL    bool   `env:"USE_SSL"    envDefault:"false"`
	// EnsureBucketOnStart creates the bucket during startup when missing.
	EnsureBucketOnStart bool `env:"ENSURE_BUCKET_ON_START" envDefault:"true"`
}
