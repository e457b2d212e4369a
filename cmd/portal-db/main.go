// portal-db is the interactive command-line manager for the relational
// backend. Database settings come from the environment (DB_HOST, DB_PORT,
// DB_USER, DB_PASSWORD, DB_NAME, TIMEOUT); flags select the driver.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/avetra/committee-portal/cli"
	"github.com/avetra/committee-portal/config"
	"github.com/avetra/committee-portal/log"
	"github.com/avetra/committee-portal/service"
	"github.com/avetra/committee-portal/store/sqlstore"
)

var flags struct {
	driver     string
	sqlitePath string
	exportDir  string
	debug      bool
}

func openService() (*service.Service, func(), error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, nil, err
	}
	if flags.driver != "" {
		cfg.DB.Driver = flags.driver
	}
	if flags.sqlitePath != "" {
		cfg.DB.SQLitePath = flags.sqlitePath
	}
	if flags.debug {
		log.SetLevel(log.DebugLevel)
	}
	if err := cfg.CheckDB(); err != nil {
		return nil, nil, err
	}

	st, err := sqlstore.Open(cfg.DB)
	if err != nil {
		return nil, nil, err
	}
	return service.New(st), func() { st.Close() }, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "portal-db",
		Short: "Manage committee registrations stored in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeStore, err := openService()
			if err != nil {
				return err
			}
			defer closeStore()

			cli.New(svc, os.Stdin, os.Stdout).Run(cmd.Context())
			return nil
		},
	}
	rootCmd.PersistentFlags().
		StringVar(&flags.driver, "db-driver", "", "database driver: mysql or sqlite3 (default from DB_DRIVER)")
	rootCmd.PersistentFlags().
		StringVar(&flags.sqlitePath, "sqlite-path", "", "path to SQLite3 DB file (sqlite3 driver only)")
	rootCmd.PersistentFlags().
		BoolVar(&flags.debug, "debug", false, "log at DEBUG level")

	exportPhotosCmd := &cobra.Command{
		Use:   "export-photos",
		Short: "Write all stored photos to local image files",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeStore, err := openService()
			if err != nil {
				return err
			}
			defer closeStore()

			n, err := svc.ExportPhotos(cmd.Context(), flags.exportDir)
			if err != nil {
				return err
			}
			cmd.Printf("Exported %d photo(s) to %s\n", n, flags.exportDir)
			return nil
		},
	}
	exportPhotosCmd.Flags().
		StringVar(&flags.exportDir, "dir", "exported_images", "directory to write image files into")
	rootCmd.AddCommand(exportPhotosCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal("portal-db:", err)
	}
}
