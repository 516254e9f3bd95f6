package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/songsync/internal/flagx"
	"github.com/dmitrijs2005/songsync/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the sync timeout either as a string like
// "5m" or as integer nanoseconds.
type JsonConfig struct {
	DatabasePath   string         `json:"database_path"`
	S3Region       string         `json:"s3_region"`
	S3Bucket       string         `json:"s3_bucket"`
	S3Endpoint     string         `json:"s3_endpoint"`
	S3AccessKey    string         `json:"s3_access_key"`
	S3SecretKey    string         `json:"s3_secret_key"`
	RootFolderName string         `json:"root_folder_name"`
	ChunkSize      int            `json:"chunk_size"`
	SyncTimeout    timex.Duration `json:"sync_timeout"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// the -c or -config flag. Missing flag means no JSON is loaded. Only fields
// present in the file override the current values; read or unmarshal errors
// panic, matching the fail-fast startup contract.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.S3Region != "" {
		cfg.S3Region = jc.S3Region
	}
	if jc.S3Bucket != "" {
		cfg.S3Bucket = jc.S3Bucket
	}
	if jc.S3Endpoint != "" {
		cfg.S3Endpoint = jc.S3Endpoint
	}
	if jc.S3AccessKey != "" {
		cfg.S3AccessKey = jc.S3AccessKey
	}
	if jc.S3SecretKey != "" {
		cfg.S3SecretKey = jc.S3SecretKey
	}
	if jc.RootFolderName != "" {
		cfg.RootFolderName = jc.RootFolderName
	}
	if jc.ChunkSize > 0 {
		cfg.ChunkSize = jc.ChunkSize
	}
	if jc.SyncTimeout.Duration > 0 {
		cfg.SyncTimeout = jc.SyncTimeout.Duration
	}
}
