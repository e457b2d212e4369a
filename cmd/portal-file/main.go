// portal-file is the interactive command-line manager for the flat-file
// backend. It needs no database: records live in a local JSON document.
//
// The file store is not safe for concurrent multi-process access; run one
// portal-file at a time against a given data file.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/avetra/committee-portal/cli"
	"github.com/avetra/committee-portal/config"
	"github.com/avetra/committee-portal/log"
	"github.com/avetra/committee-portal/service"
	"github.com/avetra/committee-portal/store/filestore"
)

func main() {
	var dataFile string
	var debug bool

	rootCmd := &cobra.Command{
		Use:   "portal-file",
		Short: "Manage committee registrations stored in a local JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if debug {
				log.SetLevel(log.DebugLevel)
			}

			if !cmd.Flags().Changed("file") {
				if cfg, err := config.FromEnv(); err == nil && cfg.DataFile != "" {
					dataFile = cfg.DataFile
				}
			}

			st := filestore.New(dataFile)
			defer st.Close()

			cli.New(service.New(st), os.Stdin, os.Stdout).Run(cmd.Context())
			return nil
		},
	}
	rootCmd.Flags().
		StringVar(&dataFile, "file", "registrations.json", "path to the JSON data file")
	rootCmd.Flags().
		BoolVar(&debug, "debug", false, "log at DEBUG level")

	if err := rootCmd.Execute(); err != nil {
		log.Fatal("portal-file:", err)
	}
}
