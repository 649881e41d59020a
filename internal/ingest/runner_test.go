package ingest_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"whorl/internal/ingest"
	"whorl/internal/templatecodec"
	"whorl/internal/testsupport"
	"whorl/internal/zkfp"
	"whorl/internal/zkfp/sim"
)

func newRunner(t *testing.T, cfg ingest.Config) *ingest.Runner {
	t.Helper()
	runner, err := ingest.NewRunner(cfg)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	return runner
}

func TestRunBatchClearEveryTenRecords(t *testing.T) {
	sess := testsupport.OpenBoundSession(t)
	path := testsupport.WriteSourceFile(t, testsupport.EncodedLines(25, 32)...)

	runner := newRunner(t, ingest.Config{
		Source:    ingest.FileSource{Path: path},
		Session:   sess,
		BatchSize: 10,
		Passes:    1,
	})

	sum, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// 25 records with batch size 10: clears after the 10th and 20th
	// enrollments, then five more records carry ids 1 through 5.
	if sum.Records != 25 || sum.Enrolled != 25 {
		t.Fatalf("records/enrolled = %d/%d, want 25/25", sum.Records, sum.Enrolled)
	}
	if sum.Clears != 2 {
		t.Fatalf("clears = %d, want 2", sum.Clears)
	}
	if sum.NextID != 6 {
		t.Fatalf("next id = %d, want 6", sum.NextID)
	}
	if sum.FinalCount != 5 {
		t.Fatalf("final count = %d, want 5", sum.FinalCount)
	}
}

func TestRunClearOnFinalRecord(t *testing.T) {
	sess := testsupport.OpenBoundSession(t)
	path := testsupport.WriteSourceFile(t, testsupport.EncodedLines(10, 32)...)

	runner := newRunner(t, ingest.Config{
		Source:    ingest.FileSource{Path: path},
		Session:   sess,
		BatchSize: 10,
		Passes:    1,
	})

	sum, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Clears != 1 || sum.NextID != 1 || sum.FinalCount != 0 {
		t.Fatalf("clears/nextID/finalCount = %d/%d/%d, want 1/1/0",
			sum.Clears, sum.NextID, sum.FinalCount)
	}
}

func TestRunZeroBatchSizeNeverClears(t *testing.T) {
	sess := testsupport.OpenBoundSession(t)
	path := testsupport.WriteSourceFile(t, testsupport.EncodedLines(15, 32)...)

	runner := newRunner(t, ingest.Config{
		Source:  ingest.FileSource{Path: path},
		Session: sess,
		Passes:  1,
	})

	sum, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Clears != 0 || sum.FinalCount != 15 || sum.NextID != 16 {
		t.Fatalf("clears/finalCount/nextID = %d/%d/%d, want 0/15/16",
			sum.Clears, sum.FinalCount, sum.NextID)
	}
}

func TestRunSkipsBlankLinesWithoutConsumingIDs(t *testing.T) {
	sess := testsupport.OpenBoundSession(t)
	lines := []string{
		testsupport.EncodedTemplate(1, 32),
		"",
		testsupport.EncodedTemplate(2, 32),
		"   ",
		testsupport.EncodedTemplate(3, 32),
	}
	path := testsupport.WriteSourceFile(t, lines...)

	runner := newRunner(t, ingest.Config{
		Source:    ingest.FileSource{Path: path},
		Session:   sess,
		BatchSize: 10,
		Passes:    1,
	})

	sum, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Records != 5 || sum.Enrolled != 3 || sum.SkippedEmpty != 2 {
		t.Fatalf("records/enrolled/skipped = %d/%d/%d, want 5/3/2",
			sum.Records, sum.Enrolled, sum.SkippedEmpty)
	}
	if sum.NextID != 4 {
		t.Fatalf("next id = %d, want 4", sum.NextID)
	}
}

func TestRunDecodeFailurePolicy(t *testing.T) {
	lines := []string{
		testsupport.EncodedTemplate(1, 32),
		"QUJD*EF2",
		testsupport.EncodedTemplate(2, 32),
	}

	t.Run("reject skips the record", func(t *testing.T) {
		sess := testsupport.OpenBoundSession(t)
		path := testsupport.WriteSourceFile(t, lines...)

		runner := newRunner(t, ingest.Config{
			Source:  ingest.FileSource{Path: path},
			Session: sess,
			Decoder: templatecodec.NewDecoder(templatecodec.WithPolicy(templatecodec.PolicyReject)),
			Passes:  1,
		})

		sum, err := runner.Run(context.Background())
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if sum.Enrolled != 2 || sum.DecodeFailures != 1 {
			t.Fatalf("enrolled/decodeFailures = %d/%d, want 2/1",
				sum.Enrolled, sum.DecodeFailures)
		}
		if sum.NextID != 3 {
			t.Fatalf("next id = %d, want 3", sum.NextID)
		}
	})

	t.Run("coerce enrolls the record", func(t *testing.T) {
		sess := testsupport.OpenBoundSession(t)
		path := testsupport.WriteSourceFile(t, lines...)

		runner := newRunner(t, ingest.Config{
			Source:  ingest.FileSource{Path: path},
			Session: sess,
			Decoder: templatecodec.NewDecoder(templatecodec.WithPolicy(templatecodec.PolicyCoerce)),
			Passes:  1,
		})

		sum, err := runner.Run(context.Background())
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if sum.Enrolled != 3 || sum.DecodeFailures != 0 {
			t.Fatalf("enrolled/decodeFailures = %d/%d, want 3/0",
				sum.Enrolled, sum.DecodeFailures)
		}
	})
}

func TestRunEnrollRejectionConsumesID(t *testing.T) {
	sess := testsupport.OpenBoundSession(t, sim.WithAddStatus(zkfp.StatusInvalidParam))
	path := testsupport.WriteSourceFile(t, testsupport.EncodedLines(3, 32)...)

	runner := newRunner(t, ingest.Config{
		Source:    ingest.FileSource{Path: path},
		Session:   sess,
		BatchSize: 10,
		Passes:    1,
	})

	sum, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Enrolled != 0 || sum.EnrollFailures != 3 {
		t.Fatalf("enrolled/enrollFailures = %d/%d, want 0/3",
			sum.Enrolled, sum.EnrollFailures)
	}
	if sum.NextID != 4 {
		t.Fatalf("next id = %d, want 4", sum.NextID)
	}
}

func TestRunMultiplePasses(t *testing.T) {
	sess := testsupport.OpenBoundSession(t)
	path := testsupport.WriteSourceFile(t, testsupport.EncodedLines(4, 32)...)

	runner := newRunner(t, ingest.Config{
		Source:    ingest.FileSource{Path: path},
		Session:   sess,
		BatchSize: 10,
		Passes:    2,
	})

	sum, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Passes != 2 || sum.Records != 8 {
		t.Fatalf("passes/records = %d/%d, want 2/8", sum.Passes, sum.Records)
	}
	// ids 1-4 on pass one, 5-8 on pass two; no boundary hit.
	if sum.Clears != 0 || sum.NextID != 9 {
		t.Fatalf("clears/nextID = %d/%d, want 0/9", sum.Clears, sum.NextID)
	}
}

func TestRunRestartOnClearReplaysSource(t *testing.T) {
	sess := testsupport.OpenBoundSession(t)
	path := testsupport.WriteSourceFile(t, testsupport.EncodedLines(25, 32)...)

	runner := newRunner(t, ingest.Config{
		Source:         ingest.FileSource{Path: path},
		Session:        sess,
		BatchSize:      10,
		Passes:         3,
		RestartOnClear: true,
	})

	sum, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// Each pass replays from line one, clears at the 10th record, and
	// abandons the rest of the file.
	if sum.Passes != 3 || sum.Records != 30 || sum.Clears != 3 {
		t.Fatalf("passes/records/clears = %d/%d/%d, want 3/30/3",
			sum.Passes, sum.Records, sum.Clears)
	}
	if sum.NextID != 1 || sum.FinalCount != 0 {
		t.Fatalf("nextID/finalCount = %d/%d, want 1/0", sum.NextID, sum.FinalCount)
	}
}

func TestRunEndlessPassesStopOnContext(t *testing.T) {
	sess := testsupport.OpenBoundSession(t)
	path := testsupport.WriteSourceFile(t, testsupport.EncodedLines(2, 32)...)

	runner := newRunner(t, ingest.Config{
		Source:       ingest.FileSource{Path: path},
		Session:      sess,
		Passes:       0,
		PassInterval: time.Millisecond,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	sum, err := runner.Run(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run: got %v, want context deadline", err)
	}
	if sum.Passes < 1 {
		t.Fatalf("passes = %d, want at least one completed pass", sum.Passes)
	}
}

func TestRunSourceOpenFailure(t *testing.T) {
	sess := testsupport.OpenBoundSession(t)

	runner := newRunner(t, ingest.Config{
		Source:  ingest.FileSource{Path: "/nonexistent/templates.txt"},
		Session: sess,
		Passes:  1,
	})

	_, err := runner.Run(context.Background())
	if !errors.Is(err, ingest.ErrSourceOpen) {
		t.Fatalf("Run: got %v, want ErrSourceOpen", err)
	}
}

func TestNewRunnerValidation(t *testing.T) {
	sess := testsupport.OpenBoundSession(t)
	source := ingest.FileSource{Path: "templates.txt"}

	if _, err := ingest.NewRunner(ingest.Config{Session: sess}); err == nil {
		t.Fatal("expected error for missing source")
	}
	if _, err := ingest.NewRunner(ingest.Config{Source: source}); err == nil {
		t.Fatal("expected error for missing session")
	}
	if _, err := ingest.NewRunner(ingest.Config{Source: source, Session: sess, BatchSize: -1}); err == nil {
		t.Fatal("expected error for negative batch size")
	}
	if _, err := ingest.NewRunner(ingest.Config{Source: source, Session: sess, Passes: -1}); err == nil {
		t.Fatal("expected error for negative pass count")
	}
}
