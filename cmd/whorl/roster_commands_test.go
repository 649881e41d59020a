package main

import (
	"testing"

	"whorl/internal/testsupport"
)

func enrollFixture(t *testing.T, env *cliTestEnv, name string, seed byte) {
	t.Helper()
	templatePath := testsupport.WriteSourceFile(t, testsupport.EncodedTemplate(seed, 64))
	out, _, err := runCLI(t, env, "enroll", "--name", name, "--template", templatePath)
	if err != nil {
		t.Fatalf("enroll %s: %v", name, err)
	}
	requireContains(t, out, "Enrolled")
}

func TestEnrollAndRosterList(t *testing.T) {
	env := setupCLITestEnv(t)

	enrollFixture(t, env, "left thumb", 1)
	enrollFixture(t, env, "right index", 2)

	out, _, err := runCLI(t, env, "roster", "list")
	if err != nil {
		t.Fatalf("roster list: %v", err)
	}
	requireContains(t, out, "Left Thumb")
	requireContains(t, out, "Right Index")
}

func TestEnrollRejectsDuplicateName(t *testing.T) {
	env := setupCLITestEnv(t)

	enrollFixture(t, env, "Thumb", 1)
	templatePath := testsupport.WriteSourceFile(t, testsupport.EncodedTemplate(2, 64))
	if _, _, err := runCLI(t, env, "enroll", "--name", "thumb", "--template", templatePath); err == nil {
		t.Fatal("expected duplicate enrollment to fail")
	}
}

func TestRosterRemoveAndRename(t *testing.T) {
	env := setupCLITestEnv(t)

	enrollFixture(t, env, "Old Name", 1)

	out, _, err := runCLI(t, env, "roster", "rename", "Old Name", "New Name")
	if err != nil {
		t.Fatalf("roster rename: %v", err)
	}
	requireContains(t, out, "Renamed")

	out, _, err = runCLI(t, env, "roster", "remove", "New Name")
	if err != nil {
		t.Fatalf("roster remove: %v", err)
	}
	requireContains(t, out, "Removed")

	out, _, err = runCLI(t, env, "roster", "list")
	if err != nil {
		t.Fatalf("roster list: %v", err)
	}
	requireContains(t, out, "Roster is empty")
}

func TestRosterClearRequiresConfirmation(t *testing.T) {
	env := setupCLITestEnv(t)

	enrollFixture(t, env, "Thumb", 1)

	if _, _, err := runCLI(t, env, "roster", "clear"); err == nil {
		t.Fatal("expected clear without --yes to fail")
	}

	out, _, err := runCLI(t, env, "roster", "clear", "--yes")
	if err != nil {
		t.Fatalf("roster clear: %v", err)
	}
	requireContains(t, out, "Roster cleared")
}

func TestIdentifyMatchesEnrolledTemplate(t *testing.T) {
	env := setupCLITestEnv(t)

	enrollFixture(t, env, "Right Index", 7)
	probePath := testsupport.WriteSourceFile(t, testsupport.EncodedTemplate(7, 64))

	out, _, err := runCLI(t, env, "identify", "--template", probePath)
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	requireContains(t, out, "Right Index")
	requireContains(t, out, "score 100")
}

func TestVerifyAgainstNamedEntry(t *testing.T) {
	env := setupCLITestEnv(t)

	enrollFixture(t, env, "Thumb", 3)
	probePath := testsupport.WriteSourceFile(t, testsupport.EncodedTemplate(3, 64))

	out, _, err := runCLI(t, env, "verify", "--name", "Thumb", "--template", probePath)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	requireContains(t, out, "Verified")

	mismatchPath := testsupport.WriteSourceFile(t, testsupport.EncodedTemplate(200, 64))
	out, _, err = runCLI(t, env, "verify", "--name", "Thumb", "--template", mismatchPath)
	if err != nil {
		t.Fatalf("verify mismatch: %v", err)
	}
	requireContains(t, out, "Not verified")
}
