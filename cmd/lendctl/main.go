// lendctl is the single-librarian front end: the same lending core as the
// API server, run against a local SQLite file.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"booklend/internal/lending"
	"booklend/internal/platform/dateenc"
	"booklend/internal/store"
)

var dbPath string

func main() {
	root := &cobra.Command{
		Use:           "lendctl",
		Short:         "Track which student holds which book, due dates and fines",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dbPath, "db", "library.db", "path to the library database file")

	root.AddCommand(
		titlesCmd(),
		borrowCmd(),
		returnCmd(),
		listCmd(),
		fineCmd(),
		seedCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// withService opens the database for the duration of one command.
func withService(fn func(ctx context.Context, svc *lending.Service, st *store.SQLite) error) error {
	st, err := store.OpenSQLite(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	return fn(context.Background(), lending.NewService(st, time.Now), st)
}

func titlesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "titles",
		Short: "List book titles with copies available to borrow",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(ctx context.Context, svc *lending.Service, _ *store.SQLite) error {
				titles, err := svc.ListAvailableTitles(ctx)
				if err != nil {
					return err
				}
				if len(titles) == 0 {
					fmt.Println("No titles available.")
					return nil
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tTITLE\tAVAILABLE")
				for _, t := range titles {
					fmt.Fprintf(tw, "%d\t%s\t%d\n", t.ID, t.Title, t.Quantity)
				}
				return tw.Flush()
			})
		},
	}
}

func borrowCmd() *cobra.Command {
	var (
		student    string
		bookID     int64
		borrowDate string
		returnDate string
	)

	cmd := &cobra.Command{
		Use:   "borrow",
		Short: "Record a new loan and take one copy off the shelf",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			borrowD, err := dateenc.Parse(borrowDate)
			if err != nil {
				return fmt.Errorf("--borrow-date: %w", err)
			}
			returnD, err := dateenc.Parse(returnDate)
			if err != nil {
				return fmt.Errorf("--return-date: %w", err)
			}

			return withService(func(ctx context.Context, svc *lending.Service, _ *store.SQLite) error {
				rec, err := svc.Borrow(ctx, lending.BorrowInput{
					StudentName: student,
					BookID:      bookID,
					BorrowDate:  borrowD,
					ReturnDate:  returnD,
				})
				if err != nil {
					return err
				}
				fmt.Printf("Borrow record %d created", rec.ID)
				if rec.Fine > 0 {
					fmt.Printf(" (already overdue, fine R%.2f)", rec.Fine)
				}
				fmt.Println()
				return nil
			})
		},
	}

	today := dateenc.Format(time.Now())
	cmd.Flags().StringVar(&student, "student", "", "student name")
	cmd.Flags().Int64Var(&bookID, "book", 0, "book title id (see 'lendctl titles')")
	cmd.Flags().StringVar(&borrowDate, "borrow-date", today, "borrow date, MM/DD/YY")
	cmd.Flags().StringVar(&returnDate, "return-date", today, "due date, MM/DD/YY")
	return cmd
}

func returnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "return <record-id>",
		Short: "Close a loan and put the copy back on the shelf",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("record id must be a number: %q", args[0])
			}
			return withService(func(ctx context.Context, svc *lending.Service, _ *store.SQLite) error {
				if err := svc.Cancel(ctx, id); err != nil {
					if errors.Is(err, lending.ErrNotFound) {
						return fmt.Errorf("no borrow record with id %d", id)
					}
					return err
				}
				fmt.Printf("Borrow record %d deleted, book returned to inventory\n", id)
				return nil
			})
		},
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [query]",
		Short: "List borrow records, optionally filtered by student or title",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := ""
			if len(args) == 1 {
				filter = args[0]
			}
			return withService(func(ctx context.Context, svc *lending.Service, _ *store.SQLite) error {
				views, err := svc.Search(ctx, filter)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tSTUDENT\tBOOK\tBORROWED\tDUE\tFINE")
				for _, v := range views {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\tR%.2f\n",
						v.ID, v.StudentName, v.Title,
						dateenc.Format(v.BorrowDate), dateenc.Format(v.ReturnDate), v.Fine)
				}
				if err := tw.Flush(); err != nil {
					return err
				}
				fmt.Printf("Total borrowed books: %d\n", len(views))
				return nil
			})
		},
	}
}

func fineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fine <return-date>",
		Short: "Show the fine a due date would carry as of today",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			returnD, err := dateenc.Parse(args[0])
			if err != nil {
				return err
			}
			return withService(func(ctx context.Context, svc *lending.Service, _ *store.SQLite) error {
				fmt.Printf("R%.2f\n", svc.PreviewFine(returnD))
				return nil
			})
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the sample catalog into an empty database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(ctx context.Context, _ *lending.Service, st *store.SQLite) error {
				if err := st.SeedSampleData(ctx); err != nil {
					return err
				}
				fmt.Println("Sample data loaded")
				return nil
			})
		},
	}
}
