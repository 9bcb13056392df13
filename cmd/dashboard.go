package cmd

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/interview-assistant/internal/dashboard"
	"github.com/spigell/interview-assistant/internal/session"
	"github.com/spigell/interview-assistant/internal/ui"
)

const scoreColumn = 3

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the candidate roster",
	Run: func(cmd *cobra.Command, _ []string) {
		runDashboard(cmd)
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)

	dashboardCmd.Flags().StringP("search", "s", "", "show candidates whose name or email contains the text")
	dashboardCmd.Flags().String("sort", string(dashboard.SortByDate), "sort by name, score or date")
	dashboardCmd.Flags().String("order", string(dashboard.Desc), "asc or desc")
	dashboardCmd.Flags().Bool("details", false, "choose a candidate and print the full interview")
}

func runDashboard(cmd *cobra.Command) {
	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	field, order, err := dashboard.ParseSort(cmd.Flag("sort").Value.String(), cmd.Flag("order").Value.String())
	if err != nil {
		logger.Fatal("parsing sort flags", zap.Error(err))
	}

	candidates, err := loadRoster(cmd.Context(), config.Storage)
	if err != nil {
		logger.Fatal("loading candidates", zap.Error(err))
	}

	stats := dashboard.ComputeStats(candidates)
	fmt.Println(ui.TitleStyle.Render("CANDIDATES"))
	fmt.Printf("Total: %d  Completed: %d  In progress: %d  Average score: %.1f\n\n",
		stats.Total, stats.Completed, stats.InProgress, stats.AverageScore)

	shown := dashboard.Sort(dashboard.Filter(candidates, cmd.Flag("search").Value.String()), field, order)
	if len(shown) == 0 {
		logger.Info("no candidates to show")
		return
	}

	fmt.Println(renderRoster(shown))

	if cmd.Flag("details").Value.String() != "true" {
		return
	}

	items := make([]string, len(shown))
	for i, c := range shown {
		items[i] = dashboard.Label(c)
	}
	prompt := promptui.Select{
		Label: "Choose a candidate and press ENTER",
		Items: items,
	}
	idx, _, err := prompt.Run()
	if err != nil {
		logger.Fatal("exiting", zap.Error(err))
	}

	fmt.Println()
	fmt.Print(dashboard.Details(shown[idx]))
}

func renderRoster(candidates []session.Candidate) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(ui.DividerStyle).
		Headers("Name", "Email", "Status", "Score", "Date")

	for _, c := range candidates {
		score := "-"
		if c.Status == session.StatusCompleted {
			score = strconv.FormatFloat(c.FinalScore, 'f', 1, 64)
		}
		t.Row(c.Name, c.Email, string(c.Status), score, c.CreatedAt.Format("2006-01-02"))
	}

	t.StyleFunc(func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return ui.HeaderCellStyle
		}
		if col == scoreColumn && row >= 0 && row < len(candidates) && candidates[row].Status == session.StatusCompleted {
			return ui.CellStyle.Inherit(ui.BandStyle(dashboard.ScoreBand(candidates[row].FinalScore)))
		}
		return ui.CellStyle
	})

	return t.Render()
}
