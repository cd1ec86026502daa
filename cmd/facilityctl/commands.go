package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/facilitydesk/internal/core"
	"github.com/JonMunkholm/facilitydesk/internal/database"
)

func newImportCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <kind> <file>",
		Short: "Upload a .csv or .xlsx file into a kind",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, path := args[0], args[1]
			if _, err := core.FormatFromFileName(path); err != nil {
				return err
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			slog.Info("importing", "kind", kind, "file", path, "bytes", len(data))
			res, err := g.client().Import(cmd.Context(), kind, filepath.Base(path), data)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "imported %d of %d rows into %s (import %s)\n", res.Inserted, res.Parsed, res.Kind, res.ImportID)
			for _, r := range res.Rejected {
				fmt.Fprintf(out, "  line %d: %s\n", r.Line, r.Reason)
			}
			return nil
		},
	}
}

func newExportCmd(g *globalFlags) *cobra.Command {
	var (
		format       string
		category     string
		facility     string
		facilityMode string
		query        string
		output       string
	)

	cmd := &cobra.Command{
		Use:   "export <kind>",
		Short: "Download the filtered records of a kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := args[0]
			f, err := core.ParseFormat(format)
			if err != nil {
				return err
			}

			// Default the facility mode to what the kind's dashboard uses
			fallback := core.FacilityByID
			if def, ok := core.Get(kind); ok {
				fallback = def.FacilityMode
			}
			p := core.Predicates{
				Category:     category,
				Facility:     facility,
				FacilityMode: core.ParseFacilityMode(facilityMode, fallback),
				Query:        query,
			}

			name, data, err := g.client().Export(cmd.Context(), kind, f, p)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, name, data)
		},
	}

	cmd.Flags().StringVar(&format, "format", string(core.FormatCSV), "file format (csv, xlsx)")
	cmd.Flags().StringVar(&category, "category", "", "category contains")
	cmd.Flags().StringVar(&facility, "facility", "", "facility id or name")
	cmd.Flags().StringVar(&facilityMode, "facility-mode", "", "match facility by id or name (default: kind's mode)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "name contains")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default: server file name, - for stdout)")
	return cmd
}

func newTemplateCmd(g *globalFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "template <kind>",
		Short: "Download the header-only CSV for a kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, data, err := g.client().Template(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, name, data)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default: server file name, - for stdout)")
	return cmd
}

func newFacilitiesCmd(g *globalFlags) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "facilities",
		Short: "List facilities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := g.client()
			fetch := c.Facilities
			if refresh {
				fetch = c.RefreshFacilities
			}
			facilities, err := fetch(cmd.Context())
			if err != nil {
				return err
			}
			for _, f := range facilities {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", f.ID, f.Name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "drop the server's cached lookup first")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Long:  `Connects with DATABASE_URL and applies the embedded migrations.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dbURL := envOr("DATABASE_URL", os.Getenv("DB_URL"))
			if dbURL == "" {
				return fmt.Errorf("DATABASE_URL is not set")
			}

			ctx := cmd.Context()
			pool, err := pgxpool.New(ctx, dbURL)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer pool.Close()

			if err := database.Migrate(ctx, pool); err != nil {
				return fmt.Errorf("migrate database: %w", err)
			}

			version, err := database.Version(ctx, pool)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "database at version %d\n", version)
			return nil
		},
	}
}

// writeOutput writes data to path, falling back to the server's file name.
func writeOutput(cmd *cobra.Command, path, serverName string, data []byte) error {
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if path == "" {
		path = filepath.Base(serverName)
		if serverName == "" {
			return fmt.Errorf("server sent no file name; pass --output")
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes)\n", path, len(data))
	return nil
}
