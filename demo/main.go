package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dpwgc/staffdb"
	"github.com/dpwgc/staffdb/config"
	"github.com/dpwgc/staffdb/logging"
)

var (
	configPath string
	cfg        *config.Config
	logger     zerolog.Logger
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "staffdb",
		Short:         "Sort and search employee records",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			logging.Setup(cfg.Log.Level, cmd.ErrOrStderr())
			logger = logging.Get()
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./staffdb.yaml)")
	root.AddCommand(importCmd(), exportCmd(), sortCmd(), searchCmd(), queryCmd(), rateCmd(), payslipCmd())
	return root
}

func withDB(fn func(db *staffdb.DB) error) error {
	db, err := staffdb.Open(cfg.DB.Path, staffdb.WithLogger(logger))
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn().Err(err).Msg("close db")
		}
	}()
	return fn(db)
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Load records from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			rows, err := staffdb.ReadCSV(f)
			if err != nil {
				logger.Warn().Err(err).Str("file", args[0]).Msg("skipped malformed lines")
			}
			return withDB(func(db *staffdb.DB) error {
				bulk := db.Bulk(cfg.DB.Table)
				for _, r := range rows {
					bulk.Add(r)
				}
				ids, err := bulk.Exec()
				if err != nil {
					return err
				}
				logger.Info().Int("records", len(ids)).Str("table", cfg.DB.Table).Msg("imported")
				return nil
			})
		},
	}
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.csv>",
		Short: "Write all records to a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(db *staffdb.DB) error {
				rows, err := db.All(cfg.DB.Table)
				if err != nil {
					return err
				}
				f, err := os.Create(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				if err := staffdb.WriteCSV(f, rows); err != nil {
					return err
				}
				logger.Info().Int("records", len(rows)).Str("file", args[0]).Msg("exported")
				return nil
			})
		},
	}
}

func sortCmd() *cobra.Command {
	var by, order, algo string
	cmd := &cobra.Command{
		Use:   "sort",
		Short: "Sort all records and report the algorithm metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			criterion, err := staffdb.ParseCriterion(by)
			if err != nil {
				return err
			}
			o, err := staffdb.ParseOrder(order)
			if err != nil {
				return err
			}
			if algo == "" {
				algo = cfg.Sort.Algorithm
			}
			return withDB(func(db *staffdb.DB) error {
				rows, err := db.All(cfg.DB.Table)
				if err != nil {
					return err
				}
				m := db.Engine().SortWithMetrics(rows, criterion, o, algo)
				printRecords(cmd.OutOrStdout(), db.Engine(), rows)
				fmt.Fprintln(cmd.OutOrStdout(), m)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&by, "by", "id", "criterion: id, name, department, salary, rating, total, type")
	cmd.Flags().StringVar(&order, "order", "asc", "asc or desc")
	cmd.Flags().StringVar(&algo, "algo", "", "quicksort, mergesort, heapsort or insertionsort")
	return cmd
}

func searchCmd() *cobra.Command {
	var by, term, mode string
	var distance int
	var lo, hi float64
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search records with one strategy",
		RunE: func(cmd *cobra.Command, args []string) error {
			criterion, err := staffdb.ParseCriterion(by)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("distance") {
				distance = cfg.Search.FuzzyDistance
			}
			return withDB(func(db *staffdb.DB) error {
				e := db.Engine()
				switch strings.ToLower(mode) {
				case "binary":
					r, ok, err := db.Find(cfg.DB.Table, criterion, term)
					if err != nil {
						return err
					}
					if !ok {
						fmt.Fprintln(cmd.OutOrStdout(), "no match")
						return nil
					}
					printRecords(cmd.OutOrStdout(), e, []staffdb.Record{r})
					return nil
				case "linear", "hybrid", "fuzzy", "range":
				default:
					return fmt.Errorf("unknown search mode %q", mode)
				}
				rows, err := db.All(cfg.DB.Table)
				if err != nil {
					return err
				}
				switch strings.ToLower(mode) {
				case "linear":
					rows = e.LinearSearch(rows, term, criterion)
				case "hybrid":
					rows = e.HybridSearch(rows, term, criterion)
				case "fuzzy":
					rows = e.FuzzySearch(rows, term, distance)
				case "range":
					if !criterion.IsNumeric() {
						return fmt.Errorf("range search needs a numeric criterion, got %s", criterion)
					}
					rows = e.RangeSearch(rows, criterion, lo, hi)
				}
				printRecords(cmd.OutOrStdout(), e, rows)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&by, "by", "name", "criterion")
	cmd.Flags().StringVar(&term, "term", "", "search term")
	cmd.Flags().StringVar(&mode, "mode", "linear", "linear, binary, hybrid, fuzzy or range")
	cmd.Flags().IntVar(&distance, "distance", 0, "maximum edit distance for fuzzy search")
	cmd.Flags().Float64Var(&lo, "min", 0, "lower bound for range search")
	cmd.Flags().Float64Var(&hi, "max", 0, "upper bound for range search")
	return cmd
}

func queryCmd() *cobra.Command {
	var where, sortBy string
	var likes []string
	var desc bool
	var size int
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run a filtered, sorted query",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(db *staffdb.DB) error {
				q := db.Query(cfg.DB.Table).Where(where).Using(cfg.Sort.Algorithm)
				for _, l := range likes {
					field, value, ok := strings.Cut(l, "=")
					if !ok {
						return fmt.Errorf("--like wants criterion=value, got %q", l)
					}
					criterion, err := staffdb.ParseCriterion(field)
					if err != nil {
						return err
					}
					q.Like(criterion, value)
				}
				if sortBy != "" {
					criterion, err := staffdb.ParseCriterion(sortBy)
					if err != nil {
						return err
					}
					if desc {
						q.Desc(criterion)
					} else {
						q.Asc(criterion)
					}
				}
				if size > 0 {
					q.Limit(size)
				}
				res, err := q.Run()
				if err != nil {
					return err
				}
				printRecords(cmd.OutOrStdout(), db.Engine(), res.Records)
				if res.Metrics != nil {
					fmt.Fprintln(cmd.OutOrStdout(), *res.Metrics)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&where, "where", "", `expression, e.g. salary > 50000 && subtype == "Manager"`)
	cmd.Flags().StringArrayVar(&likes, "like", nil, "criterion=substring, repeatable")
	cmd.Flags().StringVar(&sortBy, "sort", "", "sort criterion")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
	cmd.Flags().IntVar(&size, "limit", 0, "maximum number of records")
	return cmd
}

func rateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rate <id> <rating>",
		Short: "Set the performance rating of a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var rating int
			if _, err := fmt.Sscan(args[1], &rating); err != nil {
				return fmt.Errorf("rating %q: %w", args[1], err)
			}
			return withDB(func(db *staffdb.DB) error {
				if err := db.SetRating(cfg.DB.Table, args[0], rating); err != nil {
					return err
				}
				r, _, err := db.Get(cfg.DB.Table, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), staffdb.Letter(r))
				return nil
			})
		},
	}
}

func payslipCmd() *cobra.Command {
	var fine float64
	cmd := &cobra.Command{
		Use:   "payslip <id>",
		Short: "Show base, bonus and total compensation of a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(db *staffdb.DB) error {
				r, ok, err := db.Get(cfg.DB.Table, args[0])
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("%w: %s", staffdb.ErrNotFound, args[0])
				}
				slip, err := db.Engine().Payslip(r, fine)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s): %s\n", r.Name, r.ID, slip)
				return nil
			})
		},
	}
	cmd.Flags().Float64Var(&fine, "fine", 0, "amount deducted from the total")
	return cmd
}

func printRecords(w io.Writer, e *staffdb.Engine, rows []staffdb.Record) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tID\tNAME\tDEPARTMENT\tSALARY\tRATING\tTOTAL")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			r.Subtype, r.ID, r.Name, r.Department,
			e.Project(r, staffdb.ByBaseCompensation), r.PerformanceRating,
			e.Project(r, staffdb.ByTotalCompensation))
	}
	_ = tw.Flush()
}
