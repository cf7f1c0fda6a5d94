package compare

import (
	"strings"
	"testing"

	"reguguard-backend/models"
)

const (
	aiVersion = "1.1 Access Control\nAccess should be limited.\nPasswords should be rotated.\n\n" +
		"1.2 Retention\nRecords are kept in the archive room.\n"
	humanVersion = "1.1 Access Control\nAccess must be limited by the system owner.\nPasswords must be rotated every 90 days per NIST guidance.\n\n" +
		"1.2 Retention\nRecords are kept in the archive room.\n"
)

func TestCompare(t *testing.T) {
	got := Compare(aiVersion, humanVersion)
	if got.AIClauses != 2 || got.HumanClauses != 2 || got.MatchedPairs != 2 {
		t.Fatalf("clauses = %d/%d, pairs = %d", got.AIClauses, got.HumanClauses, got.MatchedPairs)
	}
	if len(got.KeyDifferences) != 1 {
		t.Fatalf("key differences = %+v", got.KeyDifferences)
	}
	diff := got.KeyDifferences[0]
	if diff.Classification != models.DiffRegulatoryAlignment {
		t.Errorf("classification = %q", diff.Classification)
	}
	if diff.AIClauseID != "CLAUSE-001" || diff.HumanClauseID != "CLAUSE-001" {
		t.Errorf("pair = %s/%s", diff.AIClauseID, diff.HumanClauseID)
	}
	for _, ln := range diff.AddedLines {
		if !strings.Contains(humanVersion, ln) {
			t.Errorf("added line %q not verbatim", ln)
		}
	}
	if len(diff.RemovedLines) != 2 || len(diff.AddedLines) != 2 {
		t.Errorf("removed = %q, added = %q", diff.RemovedLines, diff.AddedLines)
	}
	if len(got.HumanEnhancements) != 1 || len(got.HumanWeaknesses) != 0 {
		t.Errorf("enhancements = %d, weaknesses = %d", len(got.HumanEnhancements), len(got.HumanWeaknesses))
	}

	want := []string{ruleMandatory, ruleOwners, ruleAnchoring}
	if strings.Join(got.LearningRules, "\n") != strings.Join(want, "\n") {
		t.Errorf("rules = %q", got.LearningRules)
	}
	if len(got.Recommendations) != 3 || !strings.HasPrefix(got.Recommendations[0], recommendationPrefix) {
		t.Errorf("recommendations = %q", got.Recommendations)
	}
}

func TestCompare_Weakness(t *testing.T) {
	ai := "1.1 Log Review\nSupervisors must review access logs monthly.\n"
	human := "1.1 Log Review\nAccess logs are checked.\nIssues go to IT.\n"
	got := Compare(ai, human)
	if len(got.HumanWeaknesses) != 1 {
		t.Fatalf("weaknesses = %+v", got)
	}
	if got.HumanWeaknesses[0].Classification != models.DiffControlStrengthening {
		t.Errorf("weakness classification = %q", got.HumanWeaknesses[0].Classification)
	}
	if got.KeyDifferences[0].Classification != models.DiffClarityEnhancement {
		t.Errorf("difference classification = %q", got.KeyDifferences[0].Classification)
	}
	if got.Recommendations[0] != noRulesRecommendation {
		t.Errorf("recommendations = %q", got.Recommendations)
	}
}

func TestCompare_Empty(t *testing.T) {
	for _, tt := range [][2]string{{"", humanVersion}, {aiVersion, "  "}} {
		got := Compare(tt[0], tt[1])
		if len(got.Recommendations) != 1 || got.Recommendations[0] != noClausesRecommendation {
			t.Errorf("recommendations = %q", got.Recommendations)
		}
		if got.KeyDifferences == nil || got.LearningRules == nil {
			t.Error("nil collections")
		}
	}
}

func TestCompare_UnevenClauses(t *testing.T) {
	ai := "1.1 Scope of work\nThis applies to all staff.\n\n1.2 Training plan\nTraining happens yearly.\n\n1.3 Audit cycle\nAudits happen quarterly.\n"
	human := "1.1 Scope of work\nThis applies to all staff.\n"
	got := Compare(ai, human)
	if got.MatchedPairs != 1 {
		t.Errorf("pairs = %d, want one-to-one matching", got.MatchedPairs)
	}
}

func TestDiffLines(t *testing.T) {
	removed, added := DiffLines("a line\nsame\nold line\n", "a line\nsame\nnew line\n\nanother\n")
	if strings.Join(removed, "|") != "old line" || strings.Join(added, "|") != "new line|another" {
		t.Errorf("removed = %q, added = %q", removed, added)
	}
	removed, added = DiffLines("same\n", "same\n")
	if len(removed) != 0 || len(added) != 0 {
		t.Errorf("identical texts differ: %q %q", removed, added)
	}
}

func TestClassify(t *testing.T) {
	many := []string{"a", "b", "c", "d", "e"}
	tests := []struct {
		name           string
		removed, added []string
		want           models.DifferenceKind
	}{
		{"nothing", nil, nil, models.DiffNoMaterialDifference},
		{"regulatory", []string{"Follow the rules."}, []string{"Follow 21 CFR Part 11."}, models.DiffRegulatoryAlignment},
		{"control", []string{"Do it."}, []string{"Do it after approval."}, models.DiffControlStrengthening},
		{"mandatory", []string{"Staff should lock screens."}, []string{"Staff must lock screens."}, models.DiffComplianceImprovement},
		{"structural", many, []string{"f", "g", "h"}, models.DiffStructuralImprovement},
		{"clarity", []string{"x"}, []string{"Lock screens.", "Log out."}, models.DiffClarityEnhancement},
		{"single edit", []string{"x"}, []string{"y"}, models.DiffNoMaterialDifference},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.removed, tt.added); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}
