package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	appconfig "github.com/sandeepkandula/sitesync/internal/config"
	"github.com/sandeepkandula/sitesync/internal/logger"
	"github.com/sandeepkandula/sitesync/sync"
)

func main() {
	cfgFile := flag.String("config", "", "YAML config file")
	bucket := flag.String("bucket", "", "S3 destination bucket (required)")
	src := flag.String("src", "", "source directory")
	pattern := flag.String("pattern", "", "glob of files to upload, relative to src (default \"**\")")
	prefix := flag.String("prefix", "", "key prefix within the bucket")
	region := flag.String("region", "", "AWS region")
	storageClass := flag.String("storage-class", "", "S3 storage class (default STANDARD)")
	concurrency := flag.Int("concurrency", 0, "max concurrent stats and uploads (default 25)")
	dryRun := flag.Bool("dry-run", false, "print actions without making changes")
	sniff := flag.Bool("sniff", false, "detect content type from file content when the extension is unknown")
	logLevel := flag.String("log-level", "", "debug, info, warn or error")
	flag.Parse()

	cfg := appconfig.Default()
	if *cfgFile != "" {
		var err error
		if cfg, err = appconfig.Load(*cfgFile); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	// Flags given on the command line win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "bucket":
			cfg.Bucket = *bucket
		case "src":
			cfg.Source = *src
		case "pattern":
			cfg.Pattern = *pattern
		case "prefix":
			cfg.Prefix = *prefix
		case "region":
			cfg.Region = *region
		case "storage-class":
			cfg.StorageClass = *storageClass
		case "concurrency":
			cfg.Concurrency = *concurrency
		case "dry-run":
			cfg.DryRun = *dryRun
		case "sniff":
			cfg.SniffContentType = *sniff
		case "log-level":
			cfg.Log.Level = *logLevel
		}
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n\nusage: sitesync -bucket <bucket> [-src <dir>] [options]\n", err)
		flag.PrintDefaults()
		os.Exit(1)
	}

	log, closer, err := logger.Setup(cfg.Log.Level, cfg.Log.Format, cfg.Log.File)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closer.Close()

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("sync failed", "err", err)
		closer.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *appconfig.Config, log *slog.Logger) error {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return fmt.Errorf("load AWS config: %w", err)
	}

	dst := sync.NewS3Destination(
		s3.NewFromConfig(awsCfg),
		cfg.Bucket,
		cfg.Prefix,
		types.StorageClass(cfg.StorageClass),
	)

	return sync.Sync(ctx, sync.Options{
		Src:              cfg.Source,
		Pattern:          cfg.Pattern,
		Dst:              dst,
		Concurrency:      cfg.Concurrency,
		DryRun:           cfg.DryRun,
		SniffContentType: cfg.SniffContentType,
		Logger:           log,
	})
}
