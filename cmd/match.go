package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/matching"
)

type matchOptions struct {
	resume string
	job    string
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score a résumé against a job description",
	Run: func(cmd *cobra.Command, _ []string) {
		a := bootstrap()
		opts := matchOptions{
			resume: cmd.Flag("resume").Value.String(),
			job:    cmd.Flag("job").Value.String(),
		}
		if err := runMatch(cmd.Context(), a, opts); err != nil {
			a.logger.Fatal("matching failed", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("resume", "r", "", "résumé text file, - for stdin")
	matchCmd.Flags().StringP("job", "b", "", "job description text file")
	matchCmd.Flags().Float64("tfidf-weight", matching.DefaultWeights().TFIDF, "weight of the lexical signal")
	matchCmd.Flags().Float64("embedding-weight", matching.DefaultWeights().Embedding, "weight of the semantic signal")

	matchCmd.MarkFlagRequired("resume")
	matchCmd.MarkFlagRequired("job")

	viper.BindPFlag("matching.tfidf-weight", matchCmd.Flags().Lookup("tfidf-weight"))
	viper.BindPFlag("matching.embedding-weight", matchCmd.Flags().Lookup("embedding-weight"))
}

func runMatch(ctx context.Context, a *application, opts matchOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	resume, err := readText(opts.resume)
	if err != nil {
		return err
	}
	job, err := readText(opts.job)
	if err != nil {
		return err
	}

	score, err := a.matcher.Score(ctx, resume, job, a.config.Matching)
	if err != nil {
		return err
	}

	a.logger.Info("match scored",
		zap.Float64("combined_score", score.CombinedScore),
		zap.Bool("tfidf_signal", score.TFIDFSimilarity != nil),
	)
	return a.print(score)
}
