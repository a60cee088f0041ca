package config

// ApplyDefaults fills unset fields with default values.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "sqlite3"
	}
	if cfg.Storage.DSN == "" && cfg.Storage.Driver == "sqlite3" {
		cfg.Storage.DSN = "/usr/local/var/rawi/data/rawi.db"
	}
	if cfg.Storage.NameIndexPath == "" {
		cfg.Storage.NameIndexPath = "/usr/local/var/rawi/data/indices/names"
	}
	if cfg.Directory.MaxRetries == 0 {
		cfg.Directory.MaxRetries = 3
	}
	if cfg.Directory.RetryBackoffMS == 0 {
		cfg.Directory.RetryBackoffMS = 200
	}
	if cfg.Similarity.Threshold == 0 {
		cfg.Similarity.Threshold = 0.7
	}
	if cfg.Similarity.Limit == 0 {
		cfg.Similarity.Limit = 10
	}
	if cfg.Similarity.CorpusLimit == 0 {
		cfg.Similarity.CorpusLimit = 1000
	}
	if cfg.Bulk.ThrottleMS == 0 {
		cfg.Bulk.ThrottleMS = 150
	}
	if cfg.Bulk.PreviewLength == 0 {
		cfg.Bulk.PreviewLength = 50
	}
	if cfg.Import.Extensions == nil {
		cfg.Import.Extensions = []string{".txt", ".md", ".pdf", ".docx", ".xlsx"}
	}
}
