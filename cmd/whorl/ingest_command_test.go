package main

import (
	"encoding/json"
	"testing"

	"whorl/internal/ingest"
	"whorl/internal/testsupport"
)

func TestIngestCommandRunsBatchedPass(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.EncodedLines(25, 32)...)

	out, _, err := runCLI(t, env, "ingest", "--json")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	var sum ingest.Summary
	if err := json.Unmarshal([]byte(out), &sum); err != nil {
		t.Fatalf("parse summary: %v\noutput: %s", err, out)
	}
	if sum.Records != 25 || sum.Enrolled != 25 {
		t.Fatalf("records/enrolled = %d/%d, want 25/25", sum.Records, sum.Enrolled)
	}
	if sum.Clears != 2 || sum.NextID != 6 || sum.FinalCount != 5 {
		t.Fatalf("clears/nextID/finalCount = %d/%d/%d, want 2/6/5",
			sum.Clears, sum.NextID, sum.FinalCount)
	}
}

func TestIngestCommandTableOutput(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.EncodedLines(3, 32)...)

	out, _, err := runCLI(t, env, "ingest")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	requireContains(t, out, "Enrolled")
	requireContains(t, out, "Batch clears")
}

func TestIngestCommandExplicitSourceOverridesConfig(t *testing.T) {
	env := setupCLITestEnv(t)
	source := testsupport.WriteSourceFile(t, testsupport.EncodedLines(2, 32)...)

	out, _, err := runCLI(t, env, "ingest", "--source", source, "--json")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	var sum ingest.Summary
	if err := json.Unmarshal([]byte(out), &sum); err != nil {
		t.Fatalf("parse summary: %v", err)
	}
	if sum.Records != 2 {
		t.Fatalf("records = %d, want 2", sum.Records)
	}
}

func TestIngestCommandRequiresSource(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, env, "ingest"); err == nil {
		t.Fatal("expected error when no source is configured")
	}
}

func TestIngestCommandRejectsBadPolicy(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.EncodedLines(1, 16)...)

	if _, _, err := runCLI(t, env, "ingest", "--policy", "tolerate"); err == nil {
		t.Fatal("expected error for unknown decode policy")
	}
}
