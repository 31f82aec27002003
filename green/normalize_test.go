package green

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeReport(t *testing.T) {
	assert.Equal(t, "Clear lungs.", NormalizeReport("  Clear lungs.  "))
	// NFKC folds fullwidth forms from CJK PACS exports.
	assert.Equal(t, "CT 1", NormalizeReport("ＣＴ　１"))
	// Tab indentation and space runs collapse, control codes vanish.
	assert.Equal(t, "FINDINGS: no acute process", NormalizeReport("FINDINGS:\t\tno  acute\x00 process"))
}

func TestNormalizeReportKeepsLineStructure(t *testing.T) {
	report := "FINDINGS:\n  Lungs are   clear.\nIMPRESSION:\n  No acute disease."
	assert.Equal(t, "FINDINGS:\nLungs are clear.\nIMPRESSION:\nNo acute disease.",
		NormalizeReport(report))
}

func TestNormalizeReports(t *testing.T) {
	out := NormalizeReports([]string{" a ", "b"})
	assert.Equal(t, []string{"a", "b"}, out)
}
