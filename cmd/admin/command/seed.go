package command

import (
	"fmt"

	"yamdb/database"
	"yamdb/internal/seed"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var seedOpts seed.Options

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo categories, genres, titles, reviews and comments",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, logger, err := connect()
		if err != nil {
			return err
		}
		defer database.Close(db)

		logger.Debug("seeding", "options", seedOpts)
		sum, err := seed.Run(cmd.Context(), db, seedOpts)
		if err != nil {
			return fmt.Errorf("seed failed: %w", err)
		}

		color.Green("✓ Demo data loaded")
		fmt.Printf("Users: %d | Titles: %d | Reviews: %d | Comments: %d\n",
			sum.Users, sum.Titles, sum.Reviews, sum.Comments)
		return nil
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedOpts.Users, "users", 10, "number of demo users")
	seedCmd.Flags().IntVar(&seedOpts.Titles, "titles", 20, "number of demo titles")
	seedCmd.Flags().IntVar(&seedOpts.ReviewsPerTitle, "reviews", 3, "reviews per title (at most one per user)")
	seedCmd.Flags().IntVar(&seedOpts.CommentsPerRev, "comments", 1, "comments per review")
	seedCmd.Flags().Int64Var(&seedOpts.Seed, "seed", 0, "random seed for reproducible data (0 = random)")
}
