package results

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/dd0wney/netprop/pkg/algorithms"
)

var (
	rwrHeader     = []string{"node", "score", "rank"}
	diamondHeader = []string{"node", "score", "step_added", "links", "degree"}
)

// formatScore prints the shortest representation that parses back to the
// same float64.
func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// EncodeRWR writes one row per node in ranking order.
func EncodeRWR(w io.Writer, ranking []algorithms.RankedNode) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rwrHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, n := range ranking {
		rec := []string{n.ID, formatScore(n.Score), strconv.Itoa(n.Rank)}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write %s: %w", n.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// EncodeDiamond writes one row per admitted node in admission order. The
// score column is the p-value at admission.
func EncodeDiamond(w io.Writer, steps []algorithms.DiamondStep) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(diamondHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, s := range steps {
		rec := []string{
			s.ID,
			formatScore(s.PValue),
			strconv.Itoa(s.Rank),
			strconv.Itoa(s.Links),
			strconv.Itoa(s.Degree),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write %s: %w", s.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
