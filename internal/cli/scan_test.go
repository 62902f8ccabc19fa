package cli

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a003558/dyadic/internal/ir"
)

func TestScanText(t *testing.T) {
	out, stderr, err := execute(t, "scan", "--to", "8")
	require.NoError(t, err)

	lines := splitLines(out)
	// header, eight levels, blank line, summary
	require.Len(t, lines, 11)
	assert.Regexp(t, regexp.MustCompile(`^✓ scan: 8 level\(s\) in \[1, 8\], 0 violation\(s\), digest [0-9a-f]{16}$`), lines[10])
	assert.Contains(t, stderr, "experiment finished")
}

func TestScanJSON(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "scan", "--from", "5", "--to", "9")
	require.NoError(t, err)

	var report ir.Report
	resp := decodeResponse(t, out, &report)
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, report.Levels, 5)
	assert.Equal(t, ir.Level{N: 5, M: 9, L: 6, Staircase: 4, Bound: true, PrimeBase: 3}, report.Levels[0])
	assert.Empty(t, report.Violations)
	assert.NotEmpty(t, report.Digest)
	assert.Len(t, report.RunID, 36)
}

func TestScanSpikes(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "scan", "--to", "20", "--spikes")
	require.NoError(t, err)

	var report ir.Report
	decodeResponse(t, out, &report)
	assert.Equal(t, ir.KindSpikes, report.Experiment.Kind)
	require.Len(t, report.Levels, 14)
	assert.Equal(t, ir.Level{N: 2, M: 3, L: 2, Staircase: 2, Bound: true, PrimeBase: 3, Phi: 2}, report.Levels[0])
	for _, lv := range report.Levels {
		assert.NotZero(t, lv.PrimeBase, "n=%d", lv.N)
		assert.LessOrEqual(t, lv.L, lv.Phi, "n=%d", lv.N)
	}
}

func TestScanSpikesText(t *testing.T) {
	out, _, err := execute(t, "scan", "--to", "20", "--spikes")
	require.NoError(t, err)
	assert.Contains(t, out, "φ(m)")
	assert.Contains(t, out, "14 prime-power spike(s) in [1, 20]")
}

func TestScanWorkersDoNotChangeDigest(t *testing.T) {
	digest := func(workers string) string {
		out, _, err := execute(t, "--format", "json", "scan", "--to", "1500", "--workers", workers)
		require.NoError(t, err)
		var report ir.Report
		decodeResponse(t, out, &report)
		return report.Digest
	}
	assert.Equal(t, digest("1"), digest("7"))
}

func TestScanCSVStdout(t *testing.T) {
	out, _, err := execute(t, "scan", "--to", "4", "--csv", "-")
	require.NoError(t, err)
	assert.Equal(t,
		"n,m,l,staircase,bound,prime_base,phi\n"+
			"1,1,1,1,true,NA,NA\n"+
			"2,3,2,2,true,3,NA\n"+
			"3,5,4,3,true,5,NA\n"+
			"4,7,3,3,true,7,NA\n",
		out)
}

func TestScanCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "levels.csv")
	out, _, err := execute(t, "scan", "--to", "64", "--csv", path)
	require.NoError(t, err)
	assert.Contains(t, out, "64 level(s) in [1, 64]")

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 65)
	assert.Equal(t, []string{"64", "127", "7", "7", "true", "127", "NA"}, rows[64])
}

func TestScanCSVUnwritable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "levels.csv")
	out, _, err := execute(t, "scan", "--to", "4", "--csv", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E007]")
}

func TestScanInvalidArguments(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"to below from", []string{"scan", "--from", "10", "--to", "5"}, "to (5) must be >= from (10)"},
		{"zero from", []string{"scan", "--from", "0", "--to", "5"}, "from must be >= 1"},
		{"zero workers", []string{"scan", "--to", "5", "--workers", "0"}, "workers must be in [1, 256]"},
		{"range too large", []string{"scan", "--to", "2000000"}, "limit is"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, out, "Error [E008]")
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestScanRequiresTo(t *testing.T) {
	_, _, err := execute(t, "scan")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "to")
}
