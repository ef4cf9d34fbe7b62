package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pable/go-fight-careers/internal/career"
	"github.com/pable/go-fight-careers/internal/model"
	"github.com/pable/go-fight-careers/internal/title"
)

const analyzeSystemPrompt = `You are a combat sports analyst. You are given structured data derived
from a bout dataset and a question from the user.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific bouts (date and opponent) when making a claim.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise.

Glossary:
- Career rows are seen from the subject fighter's side. Plain column names are
  the fighter's values; opponent_* columns are the opponent's.
- *_diff columns are fighter minus opponent (age_diff > 0: fighter older).
- null means the value is missing from the dataset.
- Contested title bouts have an incumbent champion; vacant bouts do not.
- Reigns count title bouts entered as champion, split by the champion's result.`

var (
	analyzeModel  string
	analyzeAPIKey string
	analyzeLast   int
	analyzeRaw    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "AI-powered grounded analysis (requires ANTHROPIC_API_KEY)",
}

var analyzeFighterCmd = &cobra.Command{
	Use:   "fighter <fighter> <question>",
	Short: "Analyze a fighter's career with AI",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnalyzeFighter,
}

var analyzeTitlesCmd = &cobra.Command{
	Use:   "titles <question>",
	Short: "Analyze the title bout tables with AI",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyzeTitles,
}

func init() {
	analyzeCmd.PersistentFlags().StringVar(&analyzeModel, "model", "", "Anthropic model to use (default from config)")
	analyzeCmd.PersistentFlags().StringVar(&analyzeAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")
	analyzeCmd.PersistentFlags().BoolVar(&analyzeRaw, "raw", false, "stream plain text instead of rendered markdown")
	analyzeFighterCmd.Flags().IntVar(&analyzeLast, "last", 0, "only use the N most recent bouts")

	analyzeCmd.AddCommand(analyzeFighterCmd)
	analyzeCmd.AddCommand(analyzeTitlesCmd)
}

func runAnalyzeFighter(cmd *cobra.Command, args []string) error {
	name, question := args[0], args[1]
	return withBouts(func(b *bouts) error {
		sum, err := career.Summarize(b.table, b.schema, name, cfg.Career)
		if err != nil {
			return fmt.Errorf("summarize: %w", err)
		}
		if sum.Fights == 0 {
			_, err := career.Build(b.table, b.schema, name, cfg.Career)
			return fighterError(err)
		}
		cols, err := careerView(sum.Career, nil, false)
		if err != nil {
			return err
		}
		contextJSON, err := buildFighterContext(sum, cols, analyzeLast)
		if err != nil {
			return fmt.Errorf("build context: %w", err)
		}
		return callAnthropic(cmd.Context(), contextJSON, question)
	})
}

func runAnalyzeTitles(cmd *cobra.Command, args []string) error {
	return withBouts(func(b *bouts) error {
		tb, err := title.Classify(b.table, b.schema, cfg.Titles)
		if err != nil {
			logConflicts(err)
			return fmt.Errorf("classify title bouts: %w", err)
		}
		contextJSON, err := buildTitlesContext(tb, tb.Reigns(cfg.Titles))
		if err != nil {
			return fmt.Errorf("build context: %w", err)
		}
		return callAnthropic(cmd.Context(), contextJSON, args[0])
	})
}

// buildFighterContext serialises a fighter summary and its career rows into
// compact JSON. Missing cells become null.
func buildFighterContext(sum model.FighterSummary, cols []string, last int) (string, error) {
	rows := sum.Career.Rows
	if last > 0 && last < len(rows) {
		rows = rows[:last]
	}
	entries := make([]map[string]any, 0, len(rows))
	for i := range rows {
		entry := make(map[string]any, len(cols))
		for _, c := range cols {
			v, _ := rows[i].Get(c)
			entry[c] = jsonValue(v)
		}
		entries = append(entries, entry)
	}

	doc := map[string]any{
		"subject": "fighter",
		"fighter": sum.Career.Fighter,
		"fights":  sum.Fights,
		"summary": map[string]any{
			"column":  sum.Column,
			"missing": sum.Missing,
			"total":   jsonFloat(sum.Total),
			"mean":    jsonFloat(sum.Mean),
			"median":  jsonFloat(sum.Median),
		},
		"bouts_newest_first": entries,
	}
	b, err := json.Marshal(doc)
	return string(b), err
}

// buildTitlesContext serialises the title bout tables into compact JSON.
func buildTitlesContext(tb title.TitleBouts, reigns []model.ChampionReign) (string, error) {
	type boutEntry struct {
		Event     any    `json:"event"`
		Date      any    `json:"date"`
		Champion  string `json:"champion,omitempty"`
		Contender string `json:"contender,omitempty"`
		A         string `json:"contender_a,omitempty"`
		B         string `json:"contender_b,omitempty"`
		ResultA   any    `json:"result_first"`
		ResultB   any    `json:"result_second"`
	}
	type reignEntry struct {
		Champion string `json:"champion"`
		Bouts    int    `json:"title_bouts"`
		Retained int    `json:"retained"`
		Lost     int    `json:"lost"`
		Other    int    `json:"other"`
		First    any    `json:"first"`
		Last     any    `json:"last"`
	}

	contested := make([]boutEntry, 0, len(tb.Contested))
	for _, r := range tb.Contested {
		contested = append(contested, boutEntry{
			Event: jsonValue(r.EventName), Date: jsonValue(r.EventDate),
			Champion: r.Champion, Contender: r.Contender,
			ResultA: jsonValue(r.ChampionResult), ResultB: jsonValue(r.ContenderResult),
		})
	}
	vacant := make([]boutEntry, 0, len(tb.Vacant))
	for _, r := range tb.Vacant {
		vacant = append(vacant, boutEntry{
			Event: jsonValue(r.EventName), Date: jsonValue(r.EventDate),
			A: r.ContenderA, B: r.ContenderB,
			ResultA: jsonValue(r.ContenderAResult), ResultB: jsonValue(r.ContenderBResult),
		})
	}
	rs := make([]reignEntry, 0, len(reigns))
	for _, r := range reigns {
		rs = append(rs, reignEntry{
			Champion: r.Champion, Bouts: r.Defences, Retained: r.Retained, Lost: r.Lost, Other: r.Other,
			First: jsonValue(r.FirstDate), Last: jsonValue(r.LastDate),
		})
	}

	doc := map[string]any{
		"subject":   "title_bouts",
		"contested": contested,
		"vacant":    vacant,
		"reigns":    rs,
	}
	b, err := json.Marshal(doc)
	return string(b), err
}

func jsonValue(v model.Value) any {
	if v.IsMissing() {
		return nil
	}
	switch v.Kind() {
	case model.KindNumber:
		return round2(v.Float())
	case model.KindString:
		return v.Str()
	}
	return v.String()
}

func jsonFloat(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return round2(f)
}

// round2 rounds a float64 to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// callAnthropic streams a response from the Anthropic API and prints it to stdout.
func callAnthropic(ctx context.Context, dataJSON, question string) error {
	apiKey := analyzeAPIKey
	if apiKey == "" {
		apiKey = cfg.Analyze.APIKey
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}
	modelID := analyzeModel
	if modelID == "" {
		modelID = cfg.Analyze.Model
	}
	logger.Debug("analyze request", zap.String("model", modelID), zap.Int("context_bytes", len(dataJSON)))

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)

	fmt.Fprintln(os.Stdout, "\n─── AI Analysis ─────────────────────────────────────")

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: analyzeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	var answer strings.Builder
	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				text := delta.Delta.AsTextDelta().Text
				if analyzeRaw {
					fmt.Fprint(os.Stdout, text)
				}
				answer.WriteString(text)
			}
		}
	}
	if err := stream.Err(); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return fmt.Errorf("API authentication failed, check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}
	if !analyzeRaw {
		fmt.Fprint(os.Stdout, renderMarkdown(answer.String()))
	}
	fmt.Fprintln(os.Stdout, "\n─────────────────────────────────────────────────────")
	return nil
}

// renderMarkdown formats the answer for the terminal, falling back to the
// plain text if the renderer fails.
func renderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		logger.Debug("markdown renderer unavailable", zap.Error(err))
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		logger.Debug("markdown render failed", zap.Error(err))
		return md
	}
	return out
}
