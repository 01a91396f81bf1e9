package reputation

import (
	"context"
	"testing"
)

func TestHeuristicLookup(t *testing.T) {
	testCases := []struct {
		name       string
		identifier string
		expected   Level
	}{
		{name: "empty identifier", identifier: "", expected: LevelSuspicious},
		{name: "whitespace identifier", identifier: "   ", expected: LevelSuspicious},
		{name: "too few digits", identifier: "555123", expected: LevelSuspicious},
		{name: "country code prefix", identifier: "+14155551234", expected: LevelSafe},
		{name: "toll free 800", identifier: "8005551234", expected: LevelSuspicious},
		{name: "toll free 888", identifier: "8885551234", expected: LevelSuspicious},
		{name: "plain ten digit number", identifier: "4155551234", expected: LevelSafe},
		{name: "formatted number", identifier: "(415) 555-1234", expected: LevelSafe},
	}

	heuristic := NewHeuristic()
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			level, err := heuristic.Lookup(context.Background(), testCase.identifier)
			if err != nil {
				t.Fatalf("expected heuristic lookup to never error, got %v", err)
			}
			if level != testCase.expected {
				t.Fatalf("expected %q to classify as %q, got %q", testCase.identifier, testCase.expected, level)
			}
		})
	}
}
