package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-cs-teams/internal/engine"
	"github.com/pable/go-cs-teams/internal/model"
	"github.com/pable/go-cs-teams/internal/report"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Load the match log once and query it interactively. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(cmd *cobra.Command, _ []string) error {
	eng, err := loadEngine(cmd.Context())
	if err != nil {
		return err
	}

	cGreeting.Println("csteams shell")
	cMuted.Printf("%d matches, %d teams loaded. type 'help' or 'exit'\n",
		eng.Dataset().Len(), len(eng.ListTeams()))
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("csteams")
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
		name, args := tokens[0], tokens[1:]

		switch name {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "teams":
			report.PrintList(os.Stdout, "Teams", eng.ListTeams())
		case "maps":
			report.PrintList(os.Stdout, "Maps", eng.ListMaps())
		case "events":
			report.PrintList(os.Stdout, "Events", eng.ListEvents())
		case "leaders":
			report.PrintLeaderboards(os.Stdout, eng.ComputeLeaderboards())
		case "summary", "trend", "breakdown", "show":
			shellPanel(eng, name, parseShellCriteria(args))
		case "compare":
			shellCompare(cmd.Context(), eng, args)
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", name)
		}
	}
	return scanner.Err()
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"teams | maps | events", "list distinct values"},
		{"summary <team> [--map M] [--event E]", "headline metrics"},
		{"trend <team> [...]", "cumulative win rate and rolling rounds"},
		{"breakdown <team> [...]", "per-map record and top opponents"},
		{"show <team> [...]", "everything above"},
		{"compare <team> vs <team> [...]", "two teams side by side"},
		{"leaders", "top CT and TR teams across all matches"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-40s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

// parseShellCriteria reads "<team words> [--map <words>] [--event <words>]".
// Multi-word values need no quoting.
func parseShellCriteria(args []string) model.FilterCriteria {
	fields := map[string][]string{}
	key := "team"
	for _, a := range args {
		switch a {
		case "--team", "--map", "--event":
			key = strings.TrimPrefix(a, "--")
			continue
		}
		fields[key] = append(fields[key], a)
	}
	return model.FilterCriteria{
		Team:  strings.Join(fields["team"], " "),
		Map:   strings.Join(fields["map"], " "),
		Event: strings.Join(fields["event"], " "),
	}
}

func shellPanel(eng *engine.Engine, view string, c model.FilterCriteria) {
	if c.Team == "" {
		cError.Fprintf(os.Stderr, "usage: %s <team> [--map M] [--event E]\n", view)
		return
	}
	p, err := eng.Panel(c)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if p.Summary.GamesPlayed == 0 {
		cWarn.Fprintf(os.Stderr, "no matches for %q\n", p.Criteria.Team)
	}
	switch view {
	case "summary":
		report.PrintMetrics(os.Stdout, p.Criteria, p.Summary)
	case "trend":
		report.PrintTrend(os.Stdout, p.Trend)
	case "breakdown":
		report.PrintMapBreakdown(os.Stdout, p.Breakdown)
		fmt.Println()
		report.PrintOpponents(os.Stdout, p.Opponents)
	default:
		report.PrintPanel(os.Stdout, p)
	}
}

func shellCompare(ctx context.Context, eng *engine.Engine, args []string) {
	sep := -1
	for i, a := range args {
		if a == "vs" {
			sep = i
			break
		}
	}
	if sep < 1 || sep == len(args)-1 {
		cError.Fprintln(os.Stderr, "usage: compare <team> vs <team> [--map M] [--event E]")
		return
	}
	left := parseShellCriteria(args[:sep])
	right := parseShellCriteria(args[sep+1:])
	// Filters given on either side apply to both.
	if left.Map == "" {
		left.Map = right.Map
	}
	if left.Event == "" {
		left.Event = right.Event
	}
	right.Map, right.Event = left.Map, left.Event

	cmp, err := eng.Compare(ctx, left, right)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report.PrintComparison(os.Stdout, cmp)
}
