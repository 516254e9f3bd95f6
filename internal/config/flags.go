package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/songsync/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-d string   local database path
//	-r string   S3 region
//	-b string   S3 bucket
//	-e string   S3 endpoint (MinIO or other S3-compatible store)
//	-f string   remote root folder name
//	-n int      transfer chunk size
//	-t int      sync timeout in seconds
//
// The function filters os.Args to only the flags it knows about, using
// flagx.FilterArgs, so subcommands and other packages' flags are untouched.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-r", "-b", "-e", "-f", "-n", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	fs.StringVar(&cfg.S3Region, "r", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3Endpoint, "e", cfg.S3Endpoint, "S3 endpoint (optional, for S3-compatible stores)")
	fs.StringVar(&cfg.RootFolderName, "f", cfg.RootFolderName, "remote root folder name")
	fs.IntVar(&cfg.ChunkSize, "n", cfg.ChunkSize, "transfer chunk size")
	syncTimeout := fs.Int("t", int(cfg.SyncTimeout.Seconds()), "sync timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.SyncTimeout = time.Duration(*syncTimeout) * time.Second
}
