package results

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/netprop/pkg/algorithms"
	"github.com/dd0wney/netprop/pkg/logging"
	"github.com/dd0wney/netprop/pkg/network"
	"github.com/dd0wney/netprop/pkg/seeds"
)

func pathNetwork(t *testing.T) *network.Network {
	t.Helper()
	net, _, err := network.Parse(strings.NewReader("A B 1\nB C 1\nC D 1\n"), network.LoadOptions{
		Format:    network.FormatSTRING,
		Delimiter: ' ',
	})
	require.NoError(t, err)
	return net
}

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestEncodeRWR(t *testing.T) {
	net := pathNetwork(t)
	a, _ := net.Index("A")
	res, err := algorithms.RWR(net, []int{a}, algorithms.DefaultRWROptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodeRWR(&buf, res.Ranking()))

	records := readCSV(t, buf.Bytes())
	require.Len(t, records, net.Len()+1)
	assert.Equal(t, []string{"node", "score", "rank"}, records[0])
	assert.Equal(t, "A", records[1][0])
	assert.Equal(t, "1", records[1][2])

	// scores survive the text round trip exactly
	for _, rec := range records[1:] {
		score, err := strconv.ParseFloat(rec[1], 64)
		require.NoError(t, err)
		want, ok := res.Score(rec[0])
		require.True(t, ok)
		assert.Equal(t, want, score, rec[0])
	}
}

func TestEncodeDiamond(t *testing.T) {
	steps := []algorithms.DiamondStep{
		{ID: "E", PValue: 0.2, Rank: 1, Links: 2, Degree: 3},
		{ID: "F", PValue: 1, Rank: 2, Links: 1, Degree: 2},
	}
	var buf bytes.Buffer
	require.NoError(t, EncodeDiamond(&buf, steps))

	assert.Equal(t, [][]string{
		{"node", "score", "step_added", "links", "degree"},
		{"E", "0.2", "1", "2", "3"},
		{"F", "1", "2", "1", "2"},
	}, readCSV(t, buf.Bytes()))
}

func TestEncodeDiamond_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeDiamond(&buf, nil))
	assert.Equal(t, "node,score,step_added,links,degree\n", buf.String())
}

func TestDirWriter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	w, err := NewDirWriter(dir, logging.NewNopLogger())
	require.NoError(t, err)
	assert.Equal(t, dir, w.Dir())

	net := pathNetwork(t)
	b, _ := net.Index("B")
	rwr, err := algorithms.RWR(net, []int{b}, algorithms.DefaultRWROptions())
	require.NoError(t, err)
	path, err := w.WriteRWR(rwr)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, RWRFile), path)

	dia, err := algorithms.Diamond(net, []int{b}, algorithms.DiamondOptions{Steps: 2, SeedWeight: 1})
	require.NoError(t, err)
	path, err = w.WriteDiamond(dia)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DiamondFile), path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{RWRFile, DiamondFile}, names, "no temporary files remain")

	data, err := os.ReadFile(filepath.Join(dir, DiamondFile))
	require.NoError(t, err)
	assert.Len(t, readCSV(t, data), 3)
}

func TestReport_RoundTrip(t *testing.T) {
	net := pathNetwork(t)
	a, _ := net.Index("A")

	opts := algorithms.DefaultRWROptions()
	opts.MaxIterations = 1
	res, err := algorithms.RWR(net, []int{a}, opts)
	require.NoError(t, err)
	require.NotEmpty(t, res.Warnings)

	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rep := NewReport("run-42", "rwr", started)
	rep.SetNetwork(&network.LoadReport{
		Format:  network.FormatSTRING,
		Rows:    4,
		Skipped: map[network.SkipReason]int{network.SkipMalformed: 1},
	}, net.Stats())
	rep.SetSeeds(2, &seeds.Resolution{
		Seeds:      []int{a},
		SeedIDs:    []string{"A"},
		Unresolved: []seeds.Unresolved{{Input: "ZZZ", Reason: seeds.ReasonNotInNetwork}},
	})
	rep.SetRWR(opts, res)
	rep.Finish(1500 * time.Millisecond)
	rep.Outputs = []string{RWRFile}

	w, err := NewDirWriter(t.TempDir(), nil)
	require.NoError(t, err)
	path, err := w.WriteReport(rep)
	require.NoError(t, err)

	got, err := ReadReport(path)
	require.NoError(t, err)
	assert.Equal(t, "run-42", got.RunID)
	assert.Equal(t, "rwr", got.Algorithm)
	assert.True(t, got.StartedAt.Equal(started))
	assert.Equal(t, "1.5s", got.Elapsed)
	assert.Equal(t, []string{"A"}, got.Seeds.Resolved)
	assert.Equal(t, rep.Seeds.Unresolved, got.Seeds.Unresolved)
	assert.Equal(t, net.Stats(), got.Network.Stats)
	assert.Equal(t, 1, got.Network.Load.Skipped[network.SkipMalformed])
	require.NotNil(t, got.Parameters.RWR)
	assert.Equal(t, 0.85, got.Parameters.RWR.Restart)
	assert.Nil(t, got.Parameters.Diamond)
	require.NotNil(t, got.RWR)
	assert.False(t, got.RWR.Converged)
	assert.Equal(t, 1, got.RWR.Iterations)
	require.Len(t, got.Warnings, 1)
	assert.Equal(t, "non_convergence", got.Warnings[0].Code)
	assert.Nil(t, got.Diamond)
}

func TestReport_Diamond(t *testing.T) {
	net := pathNetwork(t)
	a, _ := net.Index("A")
	opts := algorithms.DiamondOptions{Steps: 10, SeedWeight: 1}
	res, err := algorithms.Diamond(net, []int{a}, opts)
	require.NoError(t, err)

	rep := NewReport("run-7", "diamond", time.Now())
	rep.SetDiamond(opts, res)

	var buf bytes.Buffer
	require.NoError(t, EncodeReport(&buf, rep))
	out := buf.String()
	assert.Contains(t, out, "requested_steps: 10")
	assert.Contains(t, out, "admitted: 3")
	assert.Contains(t, out, "code: empty_candidate_set")
	assert.NotContains(t, out, "\nrwr:")
}

func TestRender(t *testing.T) {
	out := RenderRWR([]algorithms.RankedNode{
		{ID: "TP53", Score: 0.5, Rank: 1},
		{ID: "MDM2", Score: 0.25, Rank: 2},
	})
	assert.Contains(t, out, "RWR top 2")
	assert.Contains(t, out, "TP53")
	assert.Contains(t, out, "0.25")

	steps := []algorithms.DiamondStep{
		{ID: "E", PValue: 0.2, Rank: 1, Links: 2, Degree: 3},
		{ID: "FBXW7", PValue: 1, Rank: 2, Links: 1, Degree: 2},
	}
	out = RenderDiamond(steps, 1)
	assert.Contains(t, out, "DIAMOnD first 1")
	assert.Contains(t, out, "2.000e-01")
	assert.NotContains(t, out, "FBXW7")
}
