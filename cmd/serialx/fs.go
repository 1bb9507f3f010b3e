package main

import (
	"context"
	"strings"

	"github.com/Conversia-AI/craftable-serialx/errx"
	"github.com/Conversia-AI/craftable-serialx/eventx"
	"github.com/Conversia-AI/craftable-serialx/eventx/providers/eventxsqs"
	"github.com/Conversia-AI/craftable-serialx/fsx"
	"github.com/Conversia-AI/craftable-serialx/fsx/providers/fsxlocal"
	"github.com/Conversia-AI/craftable-serialx/fsx/providers/fsxs3"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// openFS resolves the --fs setting
func openFS(ctx context.Context, target string) (fsx.FileSystem, error) {
	switch {
	case target == "" || target == "local":
		return fsxlocal.NewLocalFS(""), nil
	case strings.HasPrefix(target, "local:"):
		return fsxlocal.NewLocalFS(strings.TrimPrefix(target, "local:")), nil
	case strings.HasPrefix(target, "s3://"):
		bucket, prefix, err := fsxs3.ParseURI(target)
		if err != nil {
			return nil, err
		}
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, errx.Wrap(err, "Failed to load AWS configuration", errx.TypeExternal)
		}
		return fsxs3.NewS3FileSystem(s3.NewFromConfig(cfg), bucket, prefix), nil
	}
	return nil, errx.New("Unsupported file system, expected local, local:<dir> or s3://bucket/prefix", errx.TypeBadRequest).
		WithDetail("fs", target)
}

// openPublisher sends check events to an SQS queue URL. FIFO queues get the
// "serialx" message group.
func openPublisher(ctx context.Context, queueURL string) (eventx.Publisher, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errx.Wrap(err, "Failed to load AWS configuration", errx.TypeExternal)
	}

	var opts []eventxsqs.Option
	if strings.HasSuffix(queueURL, ".fifo") {
		opts = append(opts, eventxsqs.WithMessageGroupID("serialx"))
	}
	return eventxsqs.New(sqs.NewFromConfig(cfg), queueURL, opts...), nil
}
