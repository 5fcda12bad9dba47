package core

import (
	"errors"
	"strings"
	"testing"
)

func TestDescribeChange_Identical(t *testing.T) {
	if got := DescribeChange("github", "- github (gh)", "- github (gh)"); got != "" {
		t.Errorf("Expected empty diff, got %q", got)
	}
}

func TestDescribeChange_SingleLine(t *testing.T) {
	got := DescribeChange("github", "- github (gh)", "- github (gh): work")

	for _, want := range []string{"--- a/github\n", "+++ b/github\n", "-- github (gh)\n", "+- github (gh): work\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("Diff missing %q:\n%s", want, got)
		}
	}
}

func TestDescribeChange_KeepsCommonLines(t *testing.T) {
	before := "- aws\n- github (gh)"
	after := "- aws\n- gitlab (gl)"
	got := DescribeChange("x", before, after)

	if !strings.Contains(got, " - aws\n") {
		t.Errorf("Common line should be unchanged:\n%s", got)
	}
	if strings.Count(got, "\n-") != 1 || strings.Count(got, "\n+") != 1 {
		t.Errorf("Expected exactly one removed and one added line:\n%s", got)
	}
}

func TestLabelsRoundTrip(t *testing.T) {
	l := Labels{Long: "github", Short: "gh", Extra: "work: personal"}

	got, err := ParseLabels(FormatLabels(l), Labels{})
	if err != nil {
		t.Fatalf("ParseLabels failed: %v", err)
	}
	if got != l {
		t.Errorf("Labels mismatch: got %+v, want %+v", got, l)
	}
}

func TestParseLabels_KeepsMissingKeys(t *testing.T) {
	base := Labels{Long: "github", Short: "gh", Extra: "old"}

	got, err := ParseLabels([]byte("# comment\n\nextra: new\n"), base)
	if err != nil {
		t.Fatalf("ParseLabels failed: %v", err)
	}
	if got.Long != "github" || got.Short != "gh" || got.Extra != "new" {
		t.Errorf("Unexpected labels: %+v", got)
	}
}

func TestParseLabels_Errors(t *testing.T) {
	for _, in := range []string{"no separator\n", "colour: blue\n"} {
		if _, err := ParseLabels([]byte(in), Labels{}); err == nil {
			t.Errorf("Expected error for %q", in)
		}
	}
}

func TestHandleConflict_Strategies(t *testing.T) {
	local := []*Entry{{Long: "github"}}
	incoming := &Entry{Long: "github", Short: "gh"}

	res, err := HandleConflict(local, incoming, StrategyKeepLocal)
	if err != nil || res != ResolutionKeepLocal {
		t.Errorf("KeepLocal: got %v, %v", res, err)
	}

	res, err = HandleConflict(local, incoming, StrategyUseIncoming)
	if err != nil || res != ResolutionUseIncoming {
		t.Errorf("UseIncoming: got %v, %v", res, err)
	}

	if _, err := HandleConflict(local, incoming, StrategyAbort); !errors.Is(err, ErrImportConflict) {
		t.Errorf("Abort: expected ErrImportConflict, got %v", err)
	}
}
