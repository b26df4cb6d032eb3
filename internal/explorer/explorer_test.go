package explorer

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"compdash/internal/model"
)

func testRecords() []model.ComplianceRecord {
	return []model.ComplianceRecord{
		{ID: "1", Framework: "ISO 27001", ObligationID: "A.9.1.1", Description: "Access control policy", Status: model.StatusCompliant, Confidence: 0.94, Category: "Access Control", Severity: model.SeverityCritical},
		{ID: "2", Framework: "ISO 27001", ObligationID: "A.12.4.1", Description: "Event logging", Status: model.StatusNonCompliant, Confidence: 0.64, Category: "Operations Security", Severity: model.SeverityMedium},
		{ID: "3", Framework: "GDPR", ObligationID: "Art.32", Description: "Security of processing", Status: model.StatusRequiresAction, Confidence: 0.75, Category: "Security", Severity: model.SeverityHigh},
		{ID: "4", Framework: "ISO 27001", ObligationID: "A.7.2.2", Description: "Awareness training", Status: model.StatusRequiresAction, Confidence: 0.71, Category: "Human Resources", Severity: model.SeverityLow},
	}
}

func ids(records []model.ComplianceRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestApply_SearchIsCaseInsensitive(t *testing.T) {
	got := Apply(testRecords(), Query{Search: "EVENT"})
	if diff := cmp.Diff([]string{"2"}, ids(got)); diff != "" {
		t.Errorf("search mismatch (-want +got):\n%s", diff)
	}

	// Matches obligation id and framework too.
	if got := Apply(testRecords(), Query{Search: "art.32"}); len(got) != 1 || got[0].ID != "3" {
		t.Errorf("obligation id search failed: %v", ids(got))
	}
	if got := Apply(testRecords(), Query{Search: "gdpr"}); len(got) != 1 || got[0].ID != "3" {
		t.Errorf("framework search failed: %v", ids(got))
	}
}

func TestApply_SearchIntersectsStatusFilter(t *testing.T) {
	// "a" as a search term matches several rows; the status filter must
	// intersect, not union.
	got := Apply(testRecords(), Query{Search: "a", Status: model.StatusRequiresAction})
	for _, r := range got {
		if r.Status != model.StatusRequiresAction {
			t.Errorf("record %s has status %s", r.ID, r.Status)
		}
	}
	if len(got) != 2 {
		t.Errorf("got %d rows, want 2", len(got))
	}
}

func TestApply_FrameworkFilter(t *testing.T) {
	got := Apply(testRecords(), Query{Framework: "GDPR"})
	if diff := cmp.Diff([]string{"3"}, ids(got)); diff != "" {
		t.Errorf("framework filter mismatch (-want +got):\n%s", diff)
	}
}

func TestApply_SeveritySortRankOrder(t *testing.T) {
	got := Apply(testRecords(), Query{SortBy: SortSeverity})
	want := []string{"1", "3", "2", "4"} // Critical, High, Medium, Low
	if diff := cmp.Diff(want, ids(got)); diff != "" {
		t.Errorf("severity order mismatch (-want +got):\n%s", diff)
	}
}

func TestApply_DescendingReversesWithoutChangingSet(t *testing.T) {
	asc := Apply(testRecords(), Query{SortBy: SortConfidence})
	desc := Apply(testRecords(), Query{SortBy: SortConfidence, Descending: true})

	if len(asc) != len(desc) {
		t.Fatalf("row set changed: %d vs %d", len(asc), len(desc))
	}
	for i := range asc {
		if asc[i].ID != desc[len(desc)-1-i].ID {
			t.Errorf("position %d: %s vs %s", i, asc[i].ID, desc[len(desc)-1-i].ID)
		}
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	in := testRecords()
	before := ids(in)
	Apply(in, Query{SortBy: SortConfidence, Descending: true})
	if diff := cmp.Diff(before, ids(in)); diff != "" {
		t.Errorf("input mutated (-want +got):\n%s", diff)
	}
}

func TestFrameworks(t *testing.T) {
	got := Frameworks(testRecords())
	want := []string{"GDPR", "ISO 27001"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("frameworks mismatch (-want +got):\n%s", diff)
	}
}

func TestStatusCounts(t *testing.T) {
	counts := StatusCounts(testRecords())
	if counts[model.StatusCompliant] != 1 || counts[model.StatusNonCompliant] != 1 || counts[model.StatusRequiresAction] != 2 {
		t.Errorf("counts = %v", counts)
	}
}

func TestCategories(t *testing.T) {
	records := testRecords()
	records = append(records, model.ComplianceRecord{ID: "5", Category: "Access Control", Status: model.StatusNonCompliant})
	got := Categories(records)
	if got[0].Category != "Access Control" || got[0].Total != 2 || got[0].Passed != 1 || got[0].Failed != 1 {
		t.Errorf("top category = %+v", got[0])
	}
}
