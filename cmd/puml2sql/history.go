package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/sadopc/puml2sql/internal/history"
	"github.com/sadopc/puml2sql/internal/theme"
)

func newHistoryCmd(configFlag *string) *cobra.Command {
	var (
		search   string
		clearAll bool
		limit    int
		color    bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past conversion runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(*configFlag)
			if !cfg.History.Enabled {
				fmt.Fprintln(cmd.ErrOrStderr(), "Warning: history is disabled in the config file")
			}

			hist, err := history.New()
			if err != nil {
				return err
			}
			defer hist.Close()

			th := selectTheme(cmd.ErrOrStderr(), cfg, cmd.Flags().Changed("color"), color, "")
			return runHistory(cmd.OutOrStdout(), hist, th, search, clearAll, limit)
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Only show runs whose input, output or target contains this text")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "Delete all recorded runs")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list")
	cmd.Flags().BoolVar(&color, "color", false, "Style the table with the configured theme")
	return cmd
}

func runHistory(w io.Writer, hist *history.History, th *theme.Theme, search string, clearAll bool, limit int) error {
	if clearAll {
		if err := hist.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(w, "History cleared")
		return nil
	}

	var (
		entries []history.Entry
		err     error
	)
	if search != "" {
		entries, err = hist.Search("%"+search+"%", limit)
	} else {
		entries, err = hist.Recent(limit)
	}
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "No runs recorded")
		return nil
	}

	_, err = fmt.Fprintln(w, historyTable(entries, th))
	return err
}

var historyHeaders = []string{"WHEN", "INPUT", "OUTPUT", "TABLES", "STMTS", "DIAGS", "MS", "STATUS"}

const statusCol = 7

// historyTable renders entries as a bordered table. A nil theme renders
// without colors.
func historyTable(entries []history.Entry, th *theme.Theme) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		out := e.Output
		if out == "" {
			out = "stdout"
		}
		if e.Target != "" {
			out += " -> " + e.Target
		}
		status := "ok"
		if e.IsError {
			status = "error"
		}
		rows = append(rows, []string{
			e.ExecutedAt.Local().Format("2006-01-02 15:04:05"),
			e.Input,
			out,
			strconv.Itoa(e.Tables),
			strconv.Itoa(e.Statements),
			strconv.Itoa(e.Diagnostics),
			strconv.FormatInt(e.DurationMS, 10),
			status,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(historyHeaders...).
		Rows(rows...)

	cell := lipgloss.NewStyle().Padding(0, 1)
	if th == nil {
		return t.StyleFunc(func(row, col int) lipgloss.Style { return cell }).String()
	}

	return t.
		BorderStyle(th.TableBorder).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return th.TableHeader.Padding(0, 1)
			case col == statusCol && row >= 0 && row < len(entries):
				if entries[row].IsError {
					return th.ErrorText.Padding(0, 1)
				}
				return th.SuccessText.Padding(0, 1)
			}
			return th.TableCell.Padding(0, 1)
		}).
		String()
}
