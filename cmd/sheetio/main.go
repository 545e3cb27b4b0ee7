// Package main provides the sheetio command, which scaffolds importers and
// exporters for applications built on sheetio.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nao1215/sheetio/internal/scaffold"
)

// Environment variables providing flag defaults. They may be set in .env.
const (
	envProjectRoot = "SHEETIO_PROJECT_ROOT"
	envImportDir   = "SHEETIO_IMPORT_DIR"
	envExportDir   = "SHEETIO_EXPORT_DIR"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}

	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

// options holds the flags shared by every subcommand
type options struct {
	cfg     scaffold.Config
	verbose bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "sheetio",
		Short: "Scaffold spreadsheet importers and exporters",
		Long: `sheetio generates Go source files for importers (spreadsheet rows to
your records) and exporters (your records to sheets) built on the sheetio library.`,
		SilenceErrors: true,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	def := scaffold.DefaultConfig()
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.cfg.ProjectRoot, "root", envOr(envProjectRoot, def.ProjectRoot), "Project root directory")
	flags.StringVar(&opts.cfg.ImportDir, "import-dir", envOr(envImportDir, def.ImportDir), "Importer directory, relative to the project root")
	flags.StringVar(&opts.cfg.ExportDir, "export-dir", envOr(envExportDir, def.ExportDir), "Exporter directory, relative to the project root")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newCreateImporterCmd(opts), newCreateExporterCmd(opts))
	return rootCmd
}

func newCreateImporterCmd(opts *options) *cobra.Command {
	var entity string

	cmd := &cobra.Command{
		Use:     "create:importer ImporterName",
		Short:   "Create an importer",
		Example: "  sheetio create:importer users --entity=User",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			res, err := opts.generator(cmd.ErrOrStderr()).CreateImporter(args[0], entity)
			if err != nil {
				return report(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Importer created: %s\n", res.Path)
			return nil
		},
	}
	cmd.Flags().StringVar(&entity, "entity", "", "Record type produced by the importer (default "+scaffold.DefaultEntity+")")
	return cmd
}

func newCreateExporterCmd(opts *options) *cobra.Command {
	var (
		entity string
		multi  bool
	)

	cmd := &cobra.Command{
		Use:     "create:exporter ExporterName",
		Short:   "Create an exporter",
		Example: "  sheetio create:exporter invoices --entity=Invoice --multi",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			res, err := opts.generator(cmd.ErrOrStderr()).CreateExporter(args[0], entity, multi)
			if err != nil {
				return report(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exporter created: %s\n", res.Path)
			return nil
		},
	}
	cmd.Flags().StringVar(&entity, "entity", "", "Record type exported (default "+scaffold.DefaultEntity+")")
	cmd.Flags().BoolVarP(&multi, "multi", "m", false, "Generate a multi-sheet exporter")
	return cmd
}

func (o *options) generator(w io.Writer) *scaffold.Generator {
	level := zerolog.InfoLevel
	if o.verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: w}).Level(level).With().Timestamp().Logger()
	return scaffold.NewGenerator(o.cfg, logger)
}

// report prints err on the command's error stream and returns it so the
// process exits non-zero
func report(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err)
	return err
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
