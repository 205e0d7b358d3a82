package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/fatih/color"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"

	"github.com/dryadget/dryadget/pkg/cli/config"
	"github.com/dryadget/dryadget/pkg/infra/dryad"
	"github.com/dryadget/dryadget/pkg/usecase"
)

func cmdGet() *cli.Command {
	var (
		dryadCfg  config.Dryad
		fileID    string
		outputDir string
	)

	flags := append(dryadCfg.Flags(),
		&cli.StringFlag{
			Name:        "file-id",
			Aliases:     []string{"f"},
			Usage:       "Dryad file ID or full download URL",
			Required:    true,
			Destination: &fileID,
			Sources:     cli.EnvVars("DRYADGET_FILE_ID"),
		},
		&cli.StringFlag{
			Name:        "output-dir",
			Aliases:     []string{"o"},
			Usage:       "Directory the file is saved into (created if missing)",
			Required:    true,
			Destination: &outputDir,
			Sources:     cli.EnvVars("DRYADGET_OUTPUT_DIR"),
		},
	)

	return &cli.Command{
		Name:    "get",
		Aliases: []string{"g"},
		Usage:   "Download one file, save it under its original name, verify its checksum",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting dryadget",
				slog.String("file_id", fileID),
				slog.String("output_dir", outputDir),
				slog.String("base_url", dryadCfg.BaseURL),
			)

			client, err := dryad.New(dryad.Config{
				BaseURL:        dryadCfg.BaseURL,
				ConnectTimeout: dryadCfg.ConnectTimeout,
				ReadTimeout:    dryadCfg.ReadTimeout,
			})
			if err != nil {
				return goerr.Wrap(err, "failed to create Dryad client")
			}

			fetchUC := usecase.NewFetch(client, afero.NewOsFs())

			result, err := fetchUC.Fetch(ctx, fileID, outputDir)
			if err != nil {
				if errors.Is(err, usecase.ErrDigestMismatch) {
					color.Red("ERROR: checksum mismatch! %v", err)
					return err
				}
				return goerr.Wrap(err, "fetch failed")
			}

			color.Green("OK - checksums match.")
			logger.Info("file saved",
				slog.String("path", result.Path),
				slog.String("digest", result.Digest),
				slog.Int64("size_bytes", result.Size),
			)
			return nil
		},
	}
}
