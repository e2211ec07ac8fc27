package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/agbru/friedmann/internal/config"
	"github.com/agbru/friedmann/internal/cosmo"
)

func TestPrintExecutionConfig(t *testing.T) {
	t.Parallel()
	cfg, err := config.ParseConfig("friedmann", []string{"--epsilon", "0.01", "--no-mirror"}, io.Discard, nil)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	PrintExecutionConfig(cfg, &buf)
	for _, want := range []string{"Execution Configuration", "ε=0.01", "logical processors", "disabled"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("banner does not contain %q:\n%s", want, buf.String())
		}
	}
}

func TestPrintExecutionMode(t *testing.T) {
	t.Parallel()
	var single, many bytes.Buffer
	PrintExecutionMode([]cosmo.Model{eds()}, &single)
	PrintExecutionMode([]cosmo.Model{eds(), lcdm()}, &many)
	if !strings.Contains(single.String(), "Single model eds") {
		t.Errorf("single = %q", single.String())
	}
	if !strings.Contains(many.String(), "Parallel comparison of 2 models") {
		t.Errorf("many = %q", many.String())
	}
}
