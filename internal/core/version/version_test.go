package version

import "testing"

func TestInfo(t *testing.T) {
	t.Parallel()

	bi := Info("remindme-bot")
	if bi.Service != "remindme-bot" || bi.Version != "dev" {
		t.Fatalf("unexpected %+v", bi)
	}
	if got, want := bi.String(), "remindme-bot dev (none, unknown)"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
