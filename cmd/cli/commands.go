package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/portledger/internal/adapter/csvfile"
	"github.com/iho/portledger/internal/domain"
	"github.com/iho/portledger/internal/infrastructure/postgres"
	"github.com/iho/portledger/internal/usecase"
)

func (c *cli) migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the ledger schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := postgres.RunMigrations(c.cfg.DatabaseURL, c.log); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
				return nil
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back every migration, dropping all ledger data",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := postgres.RunMigrationsDown(c.cfg.DatabaseURL, c.log); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "schema rolled back")
				return nil
			},
		},
	)

	return cmd
}

func (c *cli) importCmd() *cobra.Command {
	var delim string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a delimited file of transactions as one batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if delim == "" {
				delim = c.cfg.ImportDelimiter
			}
			d, err := csvfile.ParseDelimiter(delim)
			if err != nil {
				return err
			}

			a, err := c.services(cmd.Context())
			if err != nil {
				return err
			}

			summary, err := a.Imports.ImportFile(cmd.Context(), args[0], d)
			if err != nil {
				return err
			}

			return c.printSummary(cmd.OutOrStdout(), summary)
		},
	}

	cmd.Flags().StringVarP(&delim, "delim", "d", "", `Column delimiter, e.g. ";" or "tab" (default IMPORT_DELIMITER)`)

	return cmd
}

func (c *cli) addCmd() *cobra.Command {
	var entry usecase.ManualEntry

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record one transaction as its own batch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if entry.TimeStamp == "" {
				entry.TimeStamp = time.Now().UTC().Format(time.DateTime)
			}

			a, err := c.services(cmd.Context())
			if err != nil {
				return err
			}

			summary, err := a.Imports.ImportManual(cmd.Context(), entry)
			if err != nil {
				return err
			}

			return c.printSummary(cmd.OutOrStdout(), summary)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&entry.PortfolioName, "portfolio", "p", "", "Portfolio name")
	f.StringVarP(&entry.TimeStamp, "time", "t", "", "Timestamp, e.g. 2024-05-31 15:30:00 (default now, UTC)")
	f.StringVar(&entry.TxnType, "type", "", "buy, sell, dividend, contribution, withdrawal or interest")
	f.StringVarP(&entry.AssetID, "asset", "a", "", "Asset id, required for buy, sell and dividend")
	f.StringVarP(&entry.Qty, "qty", "q", "", "Quantity")
	f.StringVar(&entry.Price, "price", "", "Price per unit")
	f.StringVarP(&entry.Ccy, "ccy", "c", "", "Three letter currency code")
	f.StringVar(&entry.CashAmt, "cash", "", "Cash amount")
	f.StringVar(&entry.FeeAmt, "fee", "", "Fee amount")
	_ = cmd.MarkFlagRequired("portfolio")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("ccy")

	return cmd
}

func (c *cli) portfolioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "portfolio",
		Aliases: []string{"portfolios"},
		Short:   "Manage portfolios",
	}

	var baseCcy string
	createCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a portfolio, or set the base currency of an existing one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.services(cmd.Context())
			if err != nil {
				return err
			}

			p, created, err := a.Portfolios.CreatePortfolio(cmd.Context(), usecase.CreatePortfolioInput{
				Name:    args[0],
				BaseCcy: baseCcy,
			})
			if err != nil {
				return err
			}

			if c.asJSON {
				return printJSON(cmd.OutOrStdout(), p)
			}
			verb := "updated"
			if created {
				verb = "created"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "portfolio %q %s (id %d, base %s)\n", p.Name, verb, p.ID, p.BaseCcy)
			return nil
		},
	}
	createCmd.Flags().StringVar(&baseCcy, "base-ccy", "", "Base currency (default DEFAULT_BASE_CCY)")

	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List portfolios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.services(cmd.Context())
			if err != nil {
				return err
			}

			portfolios, err := a.Portfolios.ListPortfolios(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if c.asJSON {
				return printJSON(cmd.OutOrStdout(), portfolios)
			}
			return printPortfolios(cmd.OutOrStdout(), portfolios)
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of portfolios")

	getCmd := &cobra.Command{
		Use:   "get <name|id>",
		Short: "Show one portfolio by name, or by id when the argument is numeric and no such name exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.services(cmd.Context())
			if err != nil {
				return err
			}

			p, err := a.Portfolios.GetPortfolio(cmd.Context(), args[0])
			if err != nil && isNotFound(err) {
				if id, convErr := strconv.ParseInt(args[0], 10, 64); convErr == nil {
					p, err = a.Portfolios.GetPortfolioByID(cmd.Context(), id)
				}
			}
			if err != nil {
				return err
			}

			if c.asJSON {
				return printJSON(cmd.OutOrStdout(), p)
			}
			return printPortfolios(cmd.OutOrStdout(), []*domain.Portfolio{p})
		},
	}

	positionsCmd := &cobra.Command{
		Use:   "positions <name>",
		Short: "Show the net quantity held of each asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.services(cmd.Context())
			if err != nil {
				return err
			}

			positions, err := a.Portfolios.ListPositions(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if c.asJSON {
				return printJSON(cmd.OutOrStdout(), positions)
			}
			return printPositions(cmd.OutOrStdout(), positions)
		},
	}

	cmd.AddCommand(createCmd, listCmd, getCmd, positionsCmd)

	return cmd
}

func (c *cli) txnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "txn",
		Aliases: []string{"txns"},
		Short:   "Inspect recorded transactions",
	}

	var input usecase.ListTxnsInput
	var day string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if day != "" {
				d, err := time.Parse(time.DateOnly, day)
				if err != nil {
					return fmt.Errorf("invalid --day %q: %w", day, err)
				}
				input.Day = &d
			}

			a, err := c.services(cmd.Context())
			if err != nil {
				return err
			}

			txns, err := a.Txns.ListTransactions(cmd.Context(), input)
			if err != nil {
				return err
			}

			if c.asJSON {
				return printJSON(cmd.OutOrStdout(), txns)
			}
			return printTxns(cmd.OutOrStdout(), txns)
		},
	}

	f := listCmd.Flags()
	f.StringVarP(&input.PortfolioName, "portfolio", "p", "", "Only transactions of this portfolio")
	f.StringVar(&input.Type, "type", "", "Only transactions of this type")
	f.StringVarP(&input.AssetID, "asset", "a", "", "Only transactions of this asset")
	f.StringVar(&day, "day", "", "Only transactions on this UTC day (YYYY-MM-DD)")
	f.IntVar(&input.Limit, "limit", 50, "Maximum number of transactions")

	cmd.AddCommand(listCmd)

	return cmd
}

func (c *cli) batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "batch",
		Aliases: []string{"batches"},
		Short:   "Inspect the import batch registry",
	}

	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List import batches, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.services(cmd.Context())
			if err != nil {
				return err
			}

			batches, err := a.Imports.ListBatches(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if c.asJSON {
				return printJSON(cmd.OutOrStdout(), batches)
			}
			return printBatches(cmd.OutOrStdout(), batches)
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of batches")

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one import batch and how many transactions it committed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid batch id %q", args[0])
			}

			a, err := c.services(cmd.Context())
			if err != nil {
				return err
			}

			batch, err := a.Imports.GetBatch(cmd.Context(), id)
			if err != nil {
				return err
			}
			count, err := a.Imports.CountBatchTxns(cmd.Context(), id)
			if err != nil {
				return err
			}

			if c.asJSON {
				return printJSON(cmd.OutOrStdout(), struct {
					*domain.ImportBatch
					TxnCount int64
				}{batch, count})
			}
			if err := printBatches(cmd.OutOrStdout(), []*domain.ImportBatch{batch}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d transaction(s)\n", count)
			return nil
		},
	}

	cmd.AddCommand(listCmd, getCmd)

	return cmd
}
