package results

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dd0wney/netprop/pkg/algorithms"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

func renderTable(title string, headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), t.Render())
}

// RenderRWR renders the top of an RWR ranking.
func RenderRWR(top []algorithms.RankedNode) string {
	rows := make([][]string, 0, len(top))
	for _, n := range top {
		rows = append(rows, []string{strconv.Itoa(n.Rank), n.ID, fmt.Sprintf("%.6g", n.Score)})
	}
	return renderTable(fmt.Sprintf("RWR top %d", len(top)), []string{"rank", "node", "score"}, rows)
}

// RenderDiamond renders the first n admissions of a DIAMOnD run.
func RenderDiamond(steps []algorithms.DiamondStep, n int) string {
	if n < len(steps) {
		steps = steps[:n]
	}
	rows := make([][]string, 0, len(steps))
	for _, s := range steps {
		rows = append(rows, []string{
			strconv.Itoa(s.Rank),
			s.ID,
			fmt.Sprintf("%.3e", s.PValue),
			strconv.Itoa(s.Links),
			strconv.Itoa(s.Degree),
		})
	}
	return renderTable(fmt.Sprintf("DIAMOnD first %d", len(steps)),
		[]string{"step", "node", "p-value", "links", "degree"}, rows)
}
