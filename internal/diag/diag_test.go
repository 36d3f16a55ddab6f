package diag

import "testing"

func TestReporterCountsWarnings(t *testing.T) {
	c := &Collector{}
	rep := NewReporter(c)
	rep.Warnf(Unsupported, "Unsupported shape attribute '%s'", "rp")
	rep.Warnf(UnknownField, "Ignored field '%s'", "x")
	if rep.Warnings() != 2 {
		t.Errorf("Warnings = %d, want 2", rep.Warnings())
	}
	if c.Count(Unsupported) != 1 {
		t.Errorf("Count(Unsupported) = %d, want 1", c.Count(Unsupported))
	}

	err := rep.Fail(Errorf(MissingField, "Field not found 'layer.ks'"))
	last := c.Items[len(c.Items)-1]
	if last.Severity != Fatal || last.Kind != MissingField || last.Message != err.Error() {
		t.Errorf("fatal diagnostic = %+v", last)
	}
}
