package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-fight-careers/internal/career"
	"github.com/pable/go-fight-careers/internal/report"
	"github.com/pable/go-fight-careers/internal/storage"
	"github.com/pable/go-fight-careers/internal/title"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against one dataset. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

type shell struct {
	db  *storage.DB
	cur *bouts
}

func runShell(_ *cobra.Command, _ []string) error {
	db, err := openStorage()
	if err != nil {
		return err
	}
	defer db.Close()

	sh := &shell{db: db}
	cGreeting.Println("fightcareers shell")
	sh.use(datasetPrefix)
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("fightcareers")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		cmd, args := tokens[0], tokens[1:]
		rest := strings.Join(args, " ")

		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "datasets":
			sh.datasets()
		case "use":
			if len(args) != 1 {
				cError.Fprintln(os.Stderr, "usage: use <id-prefix>")
				continue
			}
			sh.use(args[0])
		case "overview":
			sh.with(func(b *bouts) error {
				report.PrintOverview(os.Stdout, overviewOf(b))
				return nil
			})
		case "fighters":
			sh.with(func(b *bouts) error {
				idx := career.NewIndexWithTitles(b.table, b.schema, cfg.Titles.TitleFlag, cfg.Titles.FlagValue)
				report.PrintFighters(os.Stdout, filterFighters(idx.Fighters(), 1, rest, 25))
				return nil
			})
		case "career", "stats":
			if rest == "" {
				cError.Fprintf(os.Stderr, "usage: %s <fighter name>\n", cmd)
				continue
			}
			if cmd == "career" {
				sh.career(rest)
			} else {
				sh.stats(rest)
			}
		case "titles":
			sh.titles(rest)
		case "chart":
			if len(args) < 2 {
				cError.Fprintln(os.Stderr, "usage: chart <column> <fighter name>")
				continue
			}
			sh.chart(args[0], strings.Join(args[1:], " "))
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", cmd)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"datasets", "list imported datasets"},
		{"use <id-prefix>", "switch to another dataset"},
		{"overview", "column layout and bout counts"},
		{"fighters [name]", "most active fighters, optionally filtered"},
		{"career <fighter>", "fighter's career, newest first"},
		{"stats <fighter>", "summary of the configured column"},
		{"titles [vacant|timeline|reigns]", "title bout tables"},
		{"chart <column> <fighter>", "text chart of a career column"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-34s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func (sh *shell) use(prefix string) {
	b, err := loadBouts(sh.db, prefix)
	if err != nil {
		cWarn.Fprintf(os.Stderr, "%v\n", err)
		return
	}
	sh.cur = b
	cMuted.Printf("dataset %s (%s, %d bouts)\n", b.meta.ID[:8], b.meta.Source, len(b.table.Rows))
}

func (sh *shell) with(fn func(b *bouts) error) {
	if sh.cur == nil {
		cError.Fprintln(os.Stderr, "no dataset loaded; 'datasets' then 'use <id-prefix>'")
		return
	}
	if err := fn(sh.cur); err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
	}
}

func (sh *shell) datasets() {
	sets, err := sh.db.ListDatasets()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(sets) == 0 {
		cMuted.Println("No datasets stored yet.")
		return
	}
	report.PrintDatasets(os.Stdout, sets)
}

func (sh *shell) career(name string) {
	sh.with(func(b *bouts) error {
		rows, err := career.Build(b.table, b.schema, name, cfg.Career)
		if err != nil {
			return fighterError(err)
		}
		cols, err := careerView(rows, nil, false)
		if err != nil {
			return err
		}
		cHeader.Fprintf(os.Stdout, "\n--- %s ---\n", rows.Fighter)
		report.PrintCareerTable(os.Stdout, rows, cols)
		return nil
	})
}

func (sh *shell) stats(name string) {
	sh.with(func(b *bouts) error {
		sum, err := career.Summarize(b.table, b.schema, name, cfg.Career)
		if err != nil {
			return err
		}
		report.PrintSummary(os.Stdout, sum)
		return nil
	})
}

func (sh *shell) titles(view string) {
	sh.with(func(b *bouts) error {
		tb, err := title.Classify(b.table, b.schema, cfg.Titles)
		if err != nil {
			logConflicts(err)
			return err
		}
		switch view {
		case "vacant":
			report.PrintVacant(os.Stdout, tb.Vacant)
		case "timeline":
			report.PrintContested(os.Stdout, tb.Timeline())
		case "reigns":
			report.PrintReigns(os.Stdout, tb.Reigns(cfg.Titles))
		case "":
			report.PrintContested(os.Stdout, tb.Contested)
		default:
			return fmt.Errorf("unknown titles view %q", view)
		}
		return nil
	})
}

func (sh *shell) chart(column, name string) {
	sh.with(func(b *bouts) error {
		r, err := chartRenderer("", column)
		if err != nil {
			return err
		}
		rows, err := career.Build(b.table, b.schema, name, cfg.Career)
		if err != nil {
			return fighterError(err)
		}
		opts := report.ChartOptions{
			TitleColumn: cfg.Titles.TitleFlag,
			TitleFlag:   cfg.Titles.FlagValue,
			DateColumn:  cfg.Career.DateColumn,
			Color:       !color.NoColor,
		}
		return r.Render(os.Stdout, rows, column, opts)
	})
}
