package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/therealmvp/cache"
	"github.com/therealmvp/downloader"
	"github.com/therealmvp/export"
	"github.com/therealmvp/models"
	"golang.org/x/term"
)

var (
	flagFormat string
	flagOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the derived chart tuples to a JSON or XLSX file",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&flagFormat, "format", export.FormatJSON, "output format: json or xlsx")
	exportCmd.Flags().StringVarP(&flagOut, "out", "o", "", "output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	store, err := cache.New(appConfig.Cache.Store())
	if err != nil {
		return errors.Wrap(err, "failed to open cache")
	}
	if store != nil {
		defer store.Close()
	}

	records, err := downloader.NewLoader(appConfig.Source, downloader.WithCache(store)).Load(cmd.Context())
	if err != nil {
		slog.Error("failed to load dataset", slog.String("error", err.Error()))
		return err
	}
	series := models.Transform(records)

	var w io.Writer = cmd.OutOrStdout()
	indent := false
	if flagOut != "" {
		f, err := os.Create(flagOut)
		if err != nil {
			return errors.Wrapf(err, "failed to create %s", flagOut)
		}
		defer f.Close()
		w = f
	} else if f, ok := w.(*os.File); ok {
		if flagFormat == export.FormatXLSX && term.IsTerminal(int(f.Fd())) {
			return errors.New("refusing to write a workbook to a terminal, use --out")
		}
		indent = term.IsTerminal(int(f.Fd()))
	}

	if err := export.Write(w, flagFormat, series, indent); err != nil {
		return err
	}
	slog.Info("exported tuples", slog.String("format", flagFormat), slog.Int("records", series.Len()))
	return nil
}
