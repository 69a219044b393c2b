package cmd

import (
	"strings"
	"testing"

	"github.com/pders01/copycode/internal/testutil"
)

func resetAugmentFlags() {
	augmentDryRun = false
	augmentJSON = false
	augmentToon = false
	augmentInclude = []string{}
	augmentExclude = []string{}
	augmentWorkers = 0
	augmentIDs = false
}

func TestAugmentSite(t *testing.T) {
	s := testutil.NewTempSite(t)
	s.CreateFile("index.html", testutil.SamplePage)
	s.CreateFile("guide/setup.html", testutil.SamplePage)

	resetAugmentFlags()

	if err := runAugment(nil, []string{s.Path}); err != nil {
		t.Fatalf("augment command failed: %v", err)
	}

	for _, name := range []string{"index.html", "guide/setup.html"} {
		if got := s.CountButtons(name); got != 2 {
			t.Errorf("%s: expected 2 buttons, got %d", name, got)
		}
	}
}

func TestAugmentDefaultsToWorkingDirectory(t *testing.T) {
	s := testutil.NewTempSite(t)
	s.CreateFile("index.html", testutil.SamplePage)
	s.Chdir()

	resetAugmentFlags()

	if err := runAugment(nil, []string{}); err != nil {
		t.Fatalf("augment command failed: %v", err)
	}
	if got := s.CountButtons("index.html"); got != 2 {
		t.Errorf("expected 2 buttons, got %d", got)
	}
}

func TestAugmentTwiceIsStable(t *testing.T) {
	s := testutil.NewTempSite(t)
	s.CreateFile("index.html", testutil.SamplePage)

	resetAugmentFlags()

	if err := runAugment(nil, []string{s.Path}); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	first := s.ReadFile("index.html")

	if err := runAugment(nil, []string{s.Path}); err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if s.ReadFile("index.html") != first {
		t.Error("second run changed the page")
	}
}

func TestAugmentDryRun(t *testing.T) {
	s := testutil.NewTempSite(t)
	s.CreateFile("index.html", testutil.SamplePage)

	resetAugmentFlags()
	augmentDryRun = true
	augmentJSON = true
	defer resetAugmentFlags()

	if err := runAugment(nil, []string{s.Path}); err != nil {
		t.Fatalf("augment command failed: %v", err)
	}
	if s.ReadFile("index.html") != testutil.SamplePage {
		t.Error("dry run wrote the page")
	}
}

func TestAugmentExcludeAndIDs(t *testing.T) {
	s := testutil.NewTempSite(t)
	s.CreateFile("index.html", testutil.SamplePage)
	s.CreateFile("drafts/wip.html", testutil.SamplePage)

	resetAugmentFlags()
	augmentExclude = []string{"drafts/**"}
	augmentIDs = true
	defer resetAugmentFlags()

	if err := runAugment(nil, []string{s.Path}); err != nil {
		t.Fatalf("augment command failed: %v", err)
	}

	if s.CountButtons("drafts/wip.html") != 0 {
		t.Error("excluded page was augmented")
	}
	if !strings.Contains(s.ReadFile("index.html"), "data-copy-id=") {
		t.Error("expected data-copy-id on wrappers")
	}
}

func TestAugmentMissingSite(t *testing.T) {
	resetAugmentFlags()

	if err := runAugment(nil, []string{"/nonexistent/site"}); err == nil {
		t.Error("expected error for missing site directory")
	}
}
