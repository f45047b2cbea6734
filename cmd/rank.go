package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/documents"
	"github.com/spigell/skillmatch/internal/filtering"
	"github.com/spigell/skillmatch/internal/lexical"
	"github.com/spigell/skillmatch/internal/ranking"
)

const (
	PromptExit                = "Exit"
	PromptBack                = "back"
	PromptShowRanking         = "Show ranking"
	PromptManualExclude       = "Exclude candidates in manual mode"
	PromptAppendToExcludeFile = "Append all ranked candidates to exclude file"
	PromptRankingToFile       = "Dump ranked candidates to file"

	signalEmbedding = "embedding"
	signalTFIDF     = "tfidf"
)

var errExit = errors.New("exit requested")

type rankOptions struct {
	query          string
	candidates     string
	candidatesJSON string
	signal         string
	interactive    bool
	noDedupe       bool
}

// RankedDocument is one line of the ranking output.
type RankedDocument struct {
	Rank  int     `json:"rank"`
	ID    string  `json:"id"`
	Title string  `json:"title,omitempty"`
	Path  string  `json:"path,omitempty"`
	Score float64 `json:"score"`
}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank candidate documents by similarity to a query document",
	Run: func(cmd *cobra.Command, _ []string) {
		a := bootstrap()
		interactive, _ := cmd.Flags().GetBool("interactive")
		noDedupe, _ := cmd.Flags().GetBool("no-dedupe")
		opts := rankOptions{
			query:          cmd.Flag("query").Value.String(),
			candidates:     cmd.Flag("candidates").Value.String(),
			candidatesJSON: cmd.Flag("candidates-json").Value.String(),
			signal:         cmd.Flag("signal").Value.String(),
			interactive:    interactive,
			noDedupe:       noDedupe,
		}
		if err := runRank(cmd.Context(), a, opts); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			a.logger.Fatal("ranking failed", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().StringP("query", "q", "", "query document (résumé or job), - for stdin")
	rankCmd.Flags().StringP("candidates", "c", "", "doublestar pattern of candidate text files, e.g. 'jobs/**/*.txt'")
	rankCmd.Flags().String("candidates-json", "", "JSON file with an array of candidate records")
	rankCmd.Flags().String("signal", signalEmbedding, "vectors to rank with: embedding or tfidf")
	rankCmd.Flags().IntP("top-k", "k", 10, "number of candidates to return")
	rankCmd.Flags().Float64("min-score", 0, "drop candidates scoring below this value")
	rankCmd.Flags().StringP("exclude-file", "e", "", "special file with candidates to exclude. Default is unset.")
	rankCmd.Flags().BoolP("interactive", "i", false, "review the ranking interactively")
	rankCmd.Flags().Bool("no-dedupe", false, "keep candidates whose text repeats an earlier one")

	rankCmd.MarkFlagRequired("query")

	viper.BindPFlag("ranking.top-k", rankCmd.Flags().Lookup("top-k"))
	viper.BindPFlag("ranking.min-score", rankCmd.Flags().Lookup("min-score"))
	viper.BindPFlag("ranking.exclude-file", rankCmd.Flags().Lookup("exclude-file"))
}

func runRank(ctx context.Context, a *application, opts rankOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	query, err := readText(opts.query)
	if err != nil {
		return err
	}

	docs, err := loadCandidates(opts)
	if err != nil {
		return err
	}
	a.logger.Info("candidates loaded", zap.Int("count", docs.Len()))

	docs, err = prepareFilters(a, opts).RunFilters(ctx, docs)
	if err != nil {
		return fmt.Errorf("filtering failed: %w", err)
	}
	if docs.Len() == 0 {
		a.logger.Info("exiting", zap.String("reason", "no candidates left after filters"))
		return a.print([]RankedDocument{})
	}

	ranked, err := rankDocuments(ctx, a, query, docs, opts.signal)
	if err != nil {
		return err
	}

	if !opts.interactive {
		return a.print(ranked)
	}
	return reviewRanking(a, docs, ranked)
}

func loadCandidates(opts rankOptions) (*documents.Documents, error) {
	switch {
	case opts.candidates != "" && opts.candidatesJSON != "":
		return nil, errors.New("use either --candidates or --candidates-json")
	case opts.candidates != "":
		return documents.LoadGlob(opts.candidates)
	case opts.candidatesJSON != "":
		return documents.LoadJSON(opts.candidatesJSON)
	default:
		return nil, errors.New("candidates are required: set --candidates or --candidates-json")
	}
}

func prepareFilters(a *application, opts rankOptions) *filtering.Filtering {
	cfg := a.config.Ranking
	steps := []filtering.Filter{
		filtering.NewEmptyText(cfg.MinWords, a.logger),
		filtering.NewDuplicates(a.logger),
		filtering.NewExcludedIDs(cfg.ExcludeIDs, a.logger),
		filtering.NewExcludeFile(cfg.ExcludeFile, a.logger),
	}
	f := filtering.New(steps, a.logger)

	if opts.noDedupe {
		f.DisableByName(filtering.DuplicatesName, "disabled by --no-dedupe")
	}

	for _, status := range f.Describe() {
		a.logger.Debug("filter configured",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}
	return f
}

func rankDocuments(ctx context.Context, a *application, query string, docs *documents.Documents, signal string) ([]RankedDocument, error) {
	var (
		queryVec []float32
		vectors  [][]float32
	)

	switch strings.ToLower(strings.TrimSpace(signal)) {
	case "", signalEmbedding:
		embedded, err := a.embedder.EmbedBatch(ctx, append([]string{query}, docs.Texts()...))
		if err != nil {
			return nil, fmt.Errorf("embedding candidates: %w", err)
		}
		queryVec, vectors = embedded[0], embedded[1:]
	case signalTFIDF:
		loaded := a.lexical.Load()
		vectorizer, ok := loaded.Get()
		if !ok {
			return nil, fmt.Errorf("tfidf ranking needs a trained vectorizer at %s: %w", a.lexical.Path(), loaded.Reason())
		}
		queryVec = lexical.Represent(vectorizer, query)
		for _, text := range docs.Texts() {
			vectors = append(vectors, lexical.Represent(vectorizer, text))
		}
	default:
		return nil, fmt.Errorf("unknown ranking signal %q", signal)
	}

	cfg := a.config.Ranking
	candidates := ranking.MinScore(ranking.Rank(queryVec, vectors, docs.Items, cfg.TopK), cfg.MinScore)

	out := make([]RankedDocument, 0, len(candidates))
	for i, c := range candidates {
		out = append(out, RankedDocument{
			Rank:  i + 1,
			ID:    c.Payload.ID,
			Title: c.Payload.Title,
			Path:  c.Payload.Path,
			Score: c.Score,
		})
	}
	return out, nil
}

// reviewRanking offers the ranked candidates in a prompt loop.
func reviewRanking(a *application, docs *documents.Documents, ranked []RankedDocument) error {
	excludeFile := a.config.Ranking.ExcludeFile

	for {
		items := []string{PromptShowRanking, PromptManualExclude, PromptRankingToFile}
		if excludeFile != "" && len(ranked) != 0 {
			items = append(items, PromptAppendToExcludeFile)
		}
		items = append(items, PromptExit)

		prompt := promptui.Select{
			Label: fmt.Sprintf("%d candidates ranked. Next?", len(ranked)),
			Items: items,
		}
		_, action, err := prompt.Run()
		if err != nil {
			return err
		}

		if err := handleAction(a, action, docs, &ranked); err != nil {
			return err
		}
	}
}

func handleAction(a *application, action string, docs *documents.Documents, ranked *[]RankedDocument) error {
	excludeFile := a.config.Ranking.ExcludeFile

	switch action {
	case PromptExit:
		a.logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	case PromptShowRanking:
		return a.print(*ranked)
	case PromptRankingToFile:
		filename, err := rankedDocuments(docs, *ranked).DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		a.logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptAppendToExcludeFile:
		if err := appendToExcludeFile(excludeFile, rankedDocuments(docs, *ranked)); err != nil {
			return err
		}
		a.logger.Info("appended to exclude file", zap.String("filename", excludeFile))
		*ranked = (*ranked)[:0]
		return nil
	case PromptManualExclude:
		return manualExclude(a, docs, ranked)
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func manualExclude(a *application, docs *documents.Documents, ranked *[]RankedDocument) error {
	excludeFile := a.config.Ranking.ExcludeFile
	if excludeFile == "" {
		return errors.New("exclude file is not configured: set --exclude-file or ranking.exclude-file")
	}

	for {
		byLabel := make(map[string]string, len(*ranked))
		items := make([]string, 0, len(*ranked)+1)
		for _, r := range *ranked {
			label := fmt.Sprintf("%d. %.3f %s", r.Rank, r.Score, docs.FindByID(r.ID).Label())
			byLabel[label] = r.ID
			items = append(items, label)
		}

		candidatePrompt := promptui.Select{
			Label: "Choose a candidate to exclude and press ENTER",
			Items: append(items, PromptBack),
		}

		_, selected, err := candidatePrompt.Run()
		if err != nil {
			return err
		}
		if selected == PromptBack {
			return nil
		}

		id := byLabel[selected]
		picked := &documents.Documents{Items: []*documents.Document{docs.FindByID(id)}}
		if err := appendToExcludeFile(excludeFile, picked); err != nil {
			return err
		}
		a.logger.Info("excluded candidate", zap.String("id", id), zap.String("filename", excludeFile))

		kept := (*ranked)[:0]
		for _, r := range *ranked {
			if r.ID != id {
				kept = append(kept, r)
			}
		}
		*ranked = kept
	}
}

func appendToExcludeFile(path string, docs *documents.Documents) error {
	excluded, err := documents.ReadExcludedFile(path)
	if err != nil {
		return err
	}
	excluded.Append(docs.ToExcluded("excluded after ranking review"))
	return excluded.ToFile(path)
}

// rankedDocuments returns the ranked subset of docs in rank order.
func rankedDocuments(docs *documents.Documents, ranked []RankedDocument) *documents.Documents {
	out := &documents.Documents{}
	for _, r := range ranked {
		if doc := docs.FindByID(r.ID); doc != nil {
			out.Items = append(out.Items, doc)
		}
	}
	return out
}
