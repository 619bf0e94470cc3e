package buildinfo

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintBuildData(t *testing.T) {
	orig := [3]string{buildVersion, buildDate, buildCommit}
	t.Cleanup(func() { buildVersion, buildDate, buildCommit = orig[0], orig[1], orig[2] })

	var buf bytes.Buffer
	buildVersion, buildDate, buildCommit = "", "", ""
	PrintBuildData(&buf)
	assert.Equal(t, "Build version: N/A\nBuild date: N/A\nBuild commit: N/A\n", buf.String())

	buf.Reset()
	buildVersion, buildDate, buildCommit = "v1.0.0", "2026-01-02", "abc123"
	PrintBuildData(&buf)
	assert.Equal(t, "Build version: v1.0.0\nBuild date: 2026-01-02\nBuild commit: abc123\n", buf.String())
}
