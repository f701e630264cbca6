package cli

import (
	"bytes"
	"flag"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
)

var update = flag.Bool("update", false, "update golden files in testdata/golden")

func repoRootTB(tb testing.TB) string {
	tb.Helper()
	_, file, _, _ := runtime.Caller(0)
	start := filepath.Dir(file)
	root, ok := findRepoRoot(start)
	if !ok {
		tb.Fatalf("could not locate repo root starting from %s", start)
	}
	return root
}

func findRepoRoot(start string) (string, bool) {
	cur := start
	for i := 0; i < 10; i++ { // cap to avoid infinite loop
		gomod := filepath.Join(cur, "go.mod")
		if st, err := os.Stat(gomod); err == nil && !st.IsDir() {
			return cur, true
		}
		next := filepath.Dir(cur)
		if next == cur {
			break
		}
		cur = next
	}
	return "", false
}

// requireGo skips tests that shell out to the go command through go/packages.
func requireGo(tb testing.TB) {
	tb.Helper()
	if _, err := exec.LookPath("go"); err != nil {
		tb.Skip("skipping E2E: go toolchain not available")
	}
}

func sampleDir(tb testing.TB) string {
	return filepath.Join(repoRootTB(tb), "sampleapp")
}

func writeOrCompareGolden(t *testing.T, got []byte, goldenPath string) {
	t.Helper()
	if *update {
		if err := os.MkdirAll(filepath.Dir(goldenPath), 0o755); err != nil {
			t.Fatalf("mkdir golden dir: %v", err)
		}
		if err := os.WriteFile(goldenPath, got, 0o644); err != nil {
			t.Fatalf("write golden: %v", err)
		}
		return
	}
	want, err := os.ReadFile(goldenPath)
	if err != nil {
		if os.IsNotExist(err) {
			t.Skipf("golden missing: %s (run with -update to create)", goldenPath)
		}
		t.Fatalf("read golden: %v", err)
	}
	if !bytes.Equal(got, want) {
		// on mismatch, write a .got file near golden for inspection
		_ = os.WriteFile(goldenPath+".got", got, 0o644)
		t.Fatalf("output does not match golden %s\n--- got (saved as .got)\n%s\n--- want\n%s", goldenPath, got, want)
	}
}
