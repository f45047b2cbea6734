package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/classifier"
	"github.com/spigell/skillmatch/internal/profile"
)

type profileOptions struct {
	file string
	top  int
}

// ProfileOutput is the profile plus, on request, the classifier's ranked labels.
type ProfileOutput struct {
	*profile.Profile
	TopLabels []classifier.LabelScore `json:"top_labels,omitempty"`
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Extract contacts, skills and a summary from a résumé",
	Run: func(cmd *cobra.Command, _ []string) {
		a := bootstrap()
		top, _ := cmd.Flags().GetInt("top")
		opts := profileOptions{
			file: cmd.Flag("file").Value.String(),
			top:  top,
		}
		if err := runProfile(cmd.Context(), a, opts); err != nil {
			a.logger.Fatal("building profile failed", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)

	profileCmd.Flags().StringP("file", "f", "", "résumé text file, - for stdin")
	profileCmd.Flags().Int("top", 0, "also print the N most probable classifier labels")
	profileCmd.Flags().Int("summary-limit", 2000, "summary length in characters")

	profileCmd.MarkFlagRequired("file")

	viper.BindPFlag("profile.summary-limit", profileCmd.Flags().Lookup("summary-limit"))
}

func runProfile(ctx context.Context, a *application, opts profileOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	text, err := readText(opts.file)
	if err != nil {
		return err
	}

	out := ProfileOutput{Profile: a.profiles.Build(ctx, text)}

	if opts.top > 0 {
		loaded := a.classifier.Load()
		if predictor, ok := loaded.Get(); ok {
			out.TopLabels = predictor.PredictTop(text, opts.top)
		} else {
			a.logger.Warn("classifier artifacts are absent, top labels skipped",
				zap.Strings("paths", a.classifier.Paths().All()),
				zap.Error(loaded.Reason()),
			)
		}
	}

	a.logger.Info("profile built",
		zap.Int("skills", out.Skills.Len()),
		zap.String("skill_source", out.SkillSource),
	)
	return a.print(out)
}
