// Package cli builds the cosmos administrative command line: account
// inspection, database and container management, and ad-hoc queries
// against a configured account.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/devjourney/cosmos/pkg/config"
	"github.com/devjourney/cosmos/pkg/cosmos"
	"github.com/devjourney/cosmos/pkg/observability/logger"
	"github.com/devjourney/cosmos/pkg/version"
)

const defaultEnvPrefix = "COSMOS"

// Options customizes the root command.
type Options struct {
	// Name is the binary name shown in help output.
	Name string
	// ConfigPath is the default --config-file value.
	ConfigPath string
	// EnvPrefix overrides the environment variable prefix.
	EnvPrefix string
}

// NewRootCommand assembles the command tree.
func NewRootCommand(opts Options) *cobra.Command {
	if opts.Name == "" {
		opts.Name = "cosmos"
	}
	if opts.EnvPrefix == "" {
		opts.EnvPrefix = defaultEnvPrefix
	}

	var cfgPath string

	rootCmd := &cobra.Command{
		Use:           opts.Name,
		Short:         "Administer a document database account",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config-file", "c", opts.ConfigPath, "config file path")
	// Accept config_file as well; env-style names show up in scripts.
	rootCmd.PersistentFlags().SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	env := environment{envPrefix: opts.EnvPrefix, configPath: &cfgPath}

	rootCmd.AddCommand(
		newVersionCommand(),
		newAccountCommand(env),
		newDatabaseCommand(env),
		newQueryCommand(env),
	)

	return rootCmd
}

// Execute runs the root command with signal-aware cancellation and exits
// non-zero on error.
func Execute(opts Options) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand(opts).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// environment carries the flag state commands need to build a client.
type environment struct {
	envPrefix  string
	configPath *string
}

// connect loads configuration and opens a client. The caller owns Close.
func (e environment) connect() (*cosmos.Client, logger.Logger, error) {
	loader := config.NewViperLoader(*e.configPath, e.envPrefix)
	cfg, err := loader.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	level, err := logger.ParseLogLevel(cfg.Logging.Level)
	if err != nil {
		return nil, nil, err
	}
	format, err := logger.ParseLogFormat(cfg.Logging.Format)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.NewZapLogger(logger.Config{Level: level, Format: format})
	if err != nil {
		return nil, nil, err
	}

	client, err := cosmos.NewClient(*cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return client, log, nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version.Current("cosmos").String())
		},
	}
}

func newAccountCommand(env environment) *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Inspect the database account",
	}

	accountCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Read the account properties",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := env.connect()
			if err != nil {
				return err
			}
			defer client.Close()

			resp, err := client.ReadAccount(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, resp.Properties)
		},
	})

	accountCmd.AddCommand(&cobra.Command{
		Use:   "ping",
		Short: "Check account reachability",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := env.connect()
			if err != nil {
				return err
			}
			defer client.Close()

			start := time.Now()
			if err := client.HealthCheck(cmd.Context()); err != nil {
				return err
			}
			cmd.Printf("OK %s (%s)\n", client.Endpoint(), time.Since(start).Round(time.Millisecond))
			return nil
		},
	})

	return accountCmd
}

func newDatabaseCommand(env environment) *cobra.Command {
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Manage databases and containers",
	}

	dbCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List databases in the account",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := env.connect()
			if err != nil {
				return err
			}
			defer client.Close()

			dbs, err := client.Databases().ReadAll(nil).All(cmd.Context())
			if err != nil {
				return err
			}
			for _, db := range dbs {
				cmd.Println(db.ID)
			}
			return nil
		},
	})

	dbCmd.AddCommand(&cobra.Command{
		Use:   "create <id>",
		Short: "Create a database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, log, err := env.connect()
			if err != nil {
				return err
			}
			defer client.Close()

			resp, err := client.Databases().Create(cmd.Context(), cosmos.DatabaseDefinition{ID: args[0]})
			if err != nil {
				return err
			}
			log.Info("database created", "id", args[0], "request_charge", resp.RequestCharge)
			return nil
		},
	})

	dbCmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a database and everything under it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, log, err := env.connect()
			if err != nil {
				return err
			}
			defer client.Close()

			if _, err := client.Database(args[0]).Delete(cmd.Context()); err != nil {
				return err
			}
			log.Info("database deleted", "id", args[0])
			return nil
		},
	})

	dbCmd.AddCommand(&cobra.Command{
		Use:   "containers <database-id>",
		Short: "List containers in a database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := env.connect()
			if err != nil {
				return err
			}
			defer client.Close()

			colls, err := client.Database(args[0]).Containers().ReadAll(nil).All(cmd.Context())
			if err != nil {
				return err
			}
			for _, coll := range colls {
				cmd.Println(coll.ID)
			}
			return nil
		},
	})

	return dbCmd
}

func newQueryCommand(env environment) *cobra.Command {
	var (
		maxItems       int
		crossPartition bool
		partitionKey   string
	)

	queryCmd := &cobra.Command{
		Use:   "query <database-id> <container-id> <sql>",
		Short: "Run a query against a container and print matching items",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := env.connect()
			if err != nil {
				return err
			}
			defer client.Close()

			opts := &cosmos.QueryOptions{
				MaxItemCount:         maxItems,
				EnableCrossPartition: crossPartition,
			}
			if partitionKey != "" {
				opts.PartitionKey = cosmos.NewPartitionKeyString(partitionKey)
			}

			iter := client.Database(args[0]).Container(args[1]).Items().Query(cosmos.NewQuery(args[2]), opts)
			for iter.HasMoreResults() {
				page, err := iter.Next(cmd.Context())
				if err != nil {
					return err
				}
				for _, item := range page.Resources {
					if err := printJSON(cmd, item); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}

	queryCmd.Flags().IntVar(&maxItems, "max-items", 0, "maximum items per page (0 = service default)")
	queryCmd.Flags().BoolVar(&crossPartition, "cross-partition", false, "allow the query to fan out across partitions")
	queryCmd.Flags().StringVar(&partitionKey, "partition-key", "", "scope the query to one partition key value")

	return queryCmd
}

func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(out))
	return nil
}
