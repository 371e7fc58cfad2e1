package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestFirstNonFlagArg(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "skips leading flags",
			args: []string{"--flag", "unknown-cmd"},
			want: "unknown-cmd",
		},
		{
			name: "all flags",
			args: []string{"-h", "--help"},
			want: "",
		},
		{
			name: "finds command after help",
			args: []string{"--help", "settings"},
			want: "settings",
		},
		{
			name: "no args",
			args: nil,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := firstNonFlagArg(tt.args); got != tt.want {
				t.Errorf("firstNonFlagArg(%v) = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}

func TestWithDefaultCommand(t *testing.T) {
	page := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(page, []byte("<html></html>"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"file becomes browse", []string{page, "--no-tui"}, []string{"browse", page, "--no-tui"}},
		{"flags before file", []string{"--debug", page}, []string{"browse", "--debug", page}},
		{"command untouched", []string{"settings", "list"}, []string{"settings", "list"}},
		{"alias untouched", []string{"config", "list"}, []string{"config", "list"}},
		{"missing file untouched", []string{"nope.html"}, []string{"nope.html"}},
		{"directory untouched", []string{filepath.Dir(page)}, []string{filepath.Dir(page)}},
		{"no args", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := withDefaultCommand(tt.args); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("withDefaultCommand(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}

func TestFlagError(t *testing.T) {
	c := &cobra.Command{Use: "x"}
	c.Flags().String("cardinality", "", "")
	c.Flags().Bool("framed", false, "")

	tests := []struct {
		err  string
		want string
	}{
		{"unknown flag: --cardinalty", "did you mean --cardinality"},
		{"unknown flag: --limit", "try --cardinality, -c"},
		{"unknown flag: --zzzzzzzzzzzzzzzz", ""},
		{"flag needs an argument: --framed", ""},
	}

	for _, tt := range tests {
		got := flagError(c, errors.New(tt.err)).Error()
		if !strings.HasPrefix(got, tt.err) {
			t.Errorf("flagError(%q) lost the original message: %q", tt.err, got)
		}
		if tt.want == "" {
			if got != tt.err {
				t.Errorf("flagError(%q) = %q, want unchanged", tt.err, got)
			}
			continue
		}
		if !strings.Contains(got, tt.want) {
			t.Errorf("flagError(%q) = %q, want it to contain %q", tt.err, got, tt.want)
		}
	}
}
