package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"gonum.org/v1/gonum/floats/scalar"

	"MetalCal/internal/catalog"
	"MetalCal/internal/share"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("METALCAL_CONFIG", filepath.Join(t.TempDir(), "none.ini"))
	os.Unsetenv("METALCAL_CONFIG")
	var out, errOut bytes.Buffer
	root := NewRoot()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if out != "MetalCal v"+Version+"\n" {
		t.Errorf("got %q", out)
	}
}

func TestList(t *testing.T) {
	out, err := run(t, "list")
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{"deformation", "massBalance", "fePercent", "Strength coefficient"} {
		if !strings.Contains(out, s) {
			t.Errorf("list output does not contain %q", s)
		}
	}
}

func TestCalc(t *testing.T) {
	out, err := run(t, "calc", "deformation", "--set", "h0=10,hf=5,K=500,n=0.2,area=100")
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{"46465.98", "464.66", "0.6931", "ε = ln(10 / 5) = 0.6931"} {
		if !strings.Contains(out, s) {
			t.Errorf("calc output does not contain %q:\n%s", s, out)
		}
	}
}

func TestCalcJSON(t *testing.T) {
	out, err := run(t, "calc", "diffusion", "--set", "D=1e-6", "--defaults", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var res catalog.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatal(err)
	}
	depth, _ := res.Output("depth")
	if !scalar.EqualWithinAbs(depth, 0.06, 1e-12) {
		t.Errorf("depth: want 0.06, got %v", depth)
	}
}

func TestCalcErrors(t *testing.T) {
	tests := map[string][]string{
		"missing":         {"calc", "phases", "--set", "C0=0.5"},
		"unknown field":   {"calc", "phases", "--set", "C0=0.5,Cc=1", "--defaults"},
		"not a number":    {"calc", "phases", "--set", "C0=half", "--defaults"},
		"unknown formula": {"calc", "casting"},
		"no formula":      {"calc"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := run(t, args...); err == nil {
				t.Error("want error")
			}
		})
	}
}

func TestUndefinedShowsPlaceholder(t *testing.T) {
	out, err := run(t, "calc", "phases", "--set", "C0=0.5,Ca=5,Cb=5")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(out, "—") < 2 {
		t.Errorf("want placeholders for Wa and Wb:\n%s", out)
	}
}

func TestReportAndExport(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "r.pdf")
	if _, err := run(t, "report", "energy", "--defaults", "--project", "Furnace", "-o", pdf); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(pdf)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF-")) {
		t.Error("report is not a PDF")
	}

	xlsx := filepath.Join(dir, "r.xlsx")
	if _, err := run(t, "export", "deformation", "--defaults", "-o", xlsx); err != nil {
		t.Fatal(err)
	}
	x, err := excelize.OpenFile(xlsx)
	if err != nil {
		t.Fatal(err)
	}
	defer x.Close()
	if got := len(x.GetSheetList()); got != 3 {
		t.Errorf("want 3 sheets, got %d", got)
	}
}

func TestShare(t *testing.T) {
	t.Setenv("METALCAL_SHARE_KEY", "")
	os.Unsetenv("METALCAL_SHARE_KEY")
	if _, err := run(t, "share", "phases", "--defaults"); !errors.Is(err, share.ErrNoKey) {
		t.Errorf("without key: want ErrNoKey, got %v", err)
	}

	t.Setenv("METALCAL_SHARE_KEY", "secret")
	t.Setenv("METALCAL_BASE_URL", "https://metalcal.example")
	out, err := run(t, "share", "phases", "--defaults")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("want token and two links, got %q", out)
	}
	s, _ := share.NewSigner([]byte("secret"), 0)
	c, err := s.Parse(lines[0])
	if err != nil {
		t.Fatal(err)
	}
	if c.Formula != "phases" || c.Inputs["Cb"] != 1 {
		t.Errorf("unexpected claims %+v", c)
	}
	if lines[1] != "https://metalcal.example/share/"+lines[0] {
		t.Errorf("share link %s", lines[1])
	}
}

func TestWriteFileRemovesPartialOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.pdf")
	cmd := NewRoot()
	cmd.SetErr(&bytes.Buffer{})

	failed := errors.New("render failed")
	err := writeFile(cmd, path, func(w io.Writer) error {
		w.Write([]byte("%PDF-1.3 truncated"))
		return failed
	})
	if !errors.Is(err, failed) {
		t.Fatalf("want render error, got %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("partial file left behind: %v", err)
	}
}
