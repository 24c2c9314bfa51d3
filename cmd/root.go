package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adfharrison1/go-catalog/pkg/catalog"
	"github.com/adfharrison1/go-catalog/pkg/config"
	"github.com/adfharrison1/go-catalog/pkg/store"
)

// rootOptions are the flags shared by every command
type rootOptions struct {
	configFile string
	storeURLs  []string
}

func newRootCmd() *cobra.Command {
	return buildRootCmd(&rootOptions{})
}

func buildRootCmd(opts *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:   "go-catalog",
		Short: "Multi-tenant book catalog over Elasticsearch",
		Long: `go-catalog serves an HTTP API for owners, their genres and the books in them.
Each owner's genre is a separate Elasticsearch index named <owner>.<genre>.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "YAML config file")
	root.PersistentFlags().StringSliceVar(&opts.storeURLs, "store-url", nil, "Elasticsearch URL (repeatable)")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newSnapshotCmd(opts))
	return root
}

// loadConfig reads the layered config and applies explicitly set flags last.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("store-url") {
		cfg.StoreURLs = o.storeURLs
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	es, err := store.NewElasticStore(store.Config{
		Addresses: cfg.StoreURLs,
		Username:  cfg.StoreUsername,
		Password:  cfg.StorePassword,
	})
	if err != nil {
		return nil, fmt.Errorf("connect store: %w", err)
	}
	return catalog.NewCatalog(es, catalog.WithMaxPageSize(cfg.MaxPageSize)), nil
}
