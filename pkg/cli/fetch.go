package cli

import (
	"context"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"

	"github.com/EngrShabir135/koboimg/pkg/cli/config"
	"github.com/EngrShabir135/koboimg/pkg/domain/interfaces"
	"github.com/EngrShabir135/koboimg/pkg/domain/model"
	"github.com/EngrShabir135/koboimg/pkg/infra/kobo"
	"github.com/EngrShabir135/koboimg/pkg/usecase"
)

const (
	archiveFileName = "images.zip"
	reportFileName  = "failed_links.csv"
)

func cmdFetch() *cli.Command {
	var (
		fetcherCfg config.Fetcher
		outputCfg  config.Output
		input      string
		username   string
		password   string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "Spreadsheet file (.csv or .xlsx) with image URLs",
			Required:    true,
			Destination: &input,
			Sources:     cli.EnvVars("KOBOIMG_INPUT"),
		},
		&cli.StringFlag{
			Name:        "username",
			Usage:       "Kobo username",
			Required:    true,
			Destination: &username,
			Sources:     cli.EnvVars("KOBOIMG_USERNAME"),
		},
		&cli.StringFlag{
			Name:        "password",
			Usage:       "Kobo password",
			Required:    true,
			Destination: &password,
			Sources:     cli.EnvVars("KOBOIMG_PASSWORD"),
		},
		&cli.IntFlag{
			Name:  "start-index",
			Usage: "First sequence number for image filenames",
			Value: 1,
		},
	}
	flags = append(flags, fetcherCfg.Flags()...)
	flags = append(flags, outputCfg.Flags()...)

	return &cli.Command{
		Name:  "fetch",
		Usage: "Download all images referenced by a spreadsheet into a local ZIP",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			creds := model.Credentials{Username: username, Password: password}
			pipelineUC := usecase.NewPipeline(kobo.NewClient(kobo.WithTimeout(fetcherCfg.Timeout)))

			return runFetch(ctx, afero.NewOsFs(), pipelineUC, input, creds, &outputCfg, int(c.Int("start-index")))
		},
	}
}

func runFetch(
	ctx context.Context,
	fs afero.Fs,
	pipelineUC interfaces.PipelineUseCase,
	input string,
	creds model.Credentials,
	outputCfg *config.Output,
	startIndex int,
) error {
	logger := ctxlog.From(ctx)

	data, err := afero.ReadFile(fs, input)
	if err != nil {
		return goerr.Wrap(err, "failed to read input file", goerr.V("path", input))
	}

	result, err := pipelineUC.Execute(ctx, &model.RunInput{
		Filename:    filepath.Base(input),
		Data:        data,
		Credentials: creds,
		Prefix:      outputCfg.Prefix,
		StartIndex:  startIndex,
		OnProgress: func(done, total int) {
			logger.Info("Progress", "done", done, "total", total)
		},
	})
	if err != nil {
		return err
	}

	if err := fs.MkdirAll(outputCfg.Dir, 0755); err != nil {
		return goerr.Wrap(err, "failed to create output directory", goerr.V("dir", outputCfg.Dir))
	}

	archivePath := filepath.Join(outputCfg.Dir, archiveFileName)
	if err := afero.WriteFile(fs, archivePath, result.Archive, 0644); err != nil {
		return goerr.Wrap(err, "failed to write archive", goerr.V("path", archivePath))
	}
	logger.Info("Wrote archive", "path", archivePath, "images", result.Summary.Succeeded)

	if result.Summary.Failed > 0 {
		reportPath := filepath.Join(outputCfg.Dir, reportFileName)
		if err := afero.WriteFile(fs, reportPath, result.FailureCSV, 0644); err != nil {
			return goerr.Wrap(err, "failed to write failure report", goerr.V("path", reportPath))
		}
		logger.Warn("Some downloads failed", "path", reportPath, "failed", result.Summary.Failed)
	}

	logger.Info("Run completed",
		"succeeded", result.Summary.Succeeded,
		"failed", result.Summary.Failed,
		"skipped_rows", result.Summary.SkippedRows,
		"duplicates", result.Summary.Duplicates,
	)

	return nil
}
