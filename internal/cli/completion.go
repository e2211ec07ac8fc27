package cli

import (
	"fmt"
	"io"
	"strings"
)

// FlagCompletion describes a CLI flag for shell completion generation.
// Every generator reads flagRegistry, so a new flag only needs an entry
// there.
type FlagCompletion struct {
	Long      string   // long flag name without "--" (e.g., "preset")
	Short     string   // short flag without "-" (e.g., "o")
	Help      string   // description text
	Values    []string // suggested completion values (nil = boolean/no suggestions)
	ValueName string   // label for the value in zsh (e.g., "file", "duration")
	IsFile    bool     // true if the flag takes a file path
	IsPreset  bool     // true if values come from the preset catalog
	BashGroup string   // flags with same non-empty BashGroup share a bash case entry
}

var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message"},
	{Long: "version", Short: "V", Help: "Show version information"},
	{Long: "preset", Help: "Model preset", IsPreset: true, ValueName: "preset"},
	{Long: "preset-file", Help: "YAML file with additional presets", IsFile: true, ValueName: "file"},
	{Long: "omega-r", Help: "Radiation density parameter", ValueName: "omega", BashGroup: "omega"},
	{Long: "omega-m", Help: "Matter density parameter", ValueName: "omega", BashGroup: "omega"},
	{Long: "omega-l", Help: "Dark energy density parameter", ValueName: "omega", BashGroup: "omega"},
	{Long: "w", Help: "Dark energy equation of state", Values: []string{"-1", "-0.9", "-0.8", "-0.5"}, ValueName: "w"},
	{Long: "h0", Help: "Hubble constant in km/s/Mpc", Values: []string{"67.4", "70", "73"}, ValueName: "h0"},
	{Long: "epsilon", Help: "Step as a fraction of the Hubble time", Values: []string{"1e-2", "1e-3", "1e-4"}, ValueName: "epsilon"},
	{Long: "a-min", Help: "Scale factor ending the backward walk", ValueName: "a"},
	{Long: "a-max", Help: "Scale factor ending the forward walk", ValueName: "a"},
	{Long: "t-max", Help: "Forward time limit in Hubble times", ValueName: "t"},
	{Long: "max-step", Help: "Largest time step", ValueName: "dt"},
	{Long: "max-steps", Help: "Step limit per direction", ValueName: "steps"},
	{Long: "no-mirror", Help: "Do not mirror recollapse and bounce branches"},
	{Long: "timeout", Help: "Maximum execution time", Values: []string{"10s", "1m", "5m"}, ValueName: "duration"},
	{Long: "plot", Help: "Plot mode", Values: []string{"none", "ascii", "png", "pyplot"}, ValueName: "mode"},
	{Long: "output", Short: "o", Help: "CSV output file", IsFile: true, ValueName: "file"},
	{Long: "png", Help: "PNG output file", IsFile: true, ValueName: "file"},
	{Long: "json", Help: "Print the summary as JSON"},
	{Long: "details", Short: "d", Help: "Show integration details"},
	{Long: "quiet", Short: "q", Help: "Quiet mode for scripts"},
	{Long: "verbose", Short: "v", Help: "Enable debug logging"},
	{Long: "no-color", Help: "Disable colored output"},
	{Long: "tui", Help: "Start the interactive explorer"},
	{Long: "repl", Help: "Start the command prompt"},
	{Long: "serve", Help: "Serve the HTTP API", Values: []string{":8080"}, ValueName: "address"},
	{Long: "max-conns", Help: "Maximum concurrent connections", ValueName: "n"},
	{Long: "watch", Help: "Re-solve when the preset file changes"},
	{Long: "calibrate", Help: "Run a step-size convergence study"},
	{Long: "calibration-profile", Help: "Calibration profile file", IsFile: true, ValueName: "file"},
	{Long: "completion", Help: "Generate completion script", Values: []string{"bash", "zsh", "fish"}, ValueName: "shell"},
}

var bashGroupValues = map[string][]string{
	"omega": {"0", "0.3", "0.7", "1"},
}

// GenerateCompletion writes the completion script of shell. presets are the
// names offered for --preset.
func GenerateCompletion(out io.Writer, shell string, presets []string) error {
	switch shell {
	case "bash":
		return generateBashCompletion(out, presets)
	case "zsh":
		return generateZshCompletion(out, presets)
	case "fish":
		return generateFishCompletion(out, presets)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish)", shell)
	}
}

func presetList(presets []string) string {
	return strings.Join(append(append([]string(nil), presets...), "all"), " ")
}

func generateBashCompletion(out io.Writer, presets []string) error {
	var opts []string
	for _, f := range flagRegistry {
		if f.Long != "" {
			opts = append(opts, "--"+f.Long)
		}
		if f.Short != "" {
			opts = append(opts, "-"+f.Short)
		}
	}

	type caseEntry struct {
		patterns []string
		body     string
	}
	var cases []caseEntry
	var filePatterns []string
	seenGroups := map[string]bool{}
	for _, f := range flagRegistry {
		switch {
		case f.IsPreset:
			cases = append(cases, caseEntry{[]string{"--" + f.Long}, `COMPREPLY=( $(compgen -W "${presets}" -- "${cur}") )`})
		case f.IsFile:
			filePatterns = append(filePatterns, "--"+f.Long)
			if f.Short != "" {
				filePatterns = append(filePatterns, "-"+f.Short)
			}
		case f.BashGroup != "":
			if seenGroups[f.BashGroup] {
				continue
			}
			seenGroups[f.BashGroup] = true
			var patterns []string
			for _, gf := range flagRegistry {
				if gf.BashGroup == f.BashGroup {
					patterns = append(patterns, "--"+gf.Long)
				}
			}
			cases = append(cases, caseEntry{patterns, fmt.Sprintf(`COMPREPLY=( $(compgen -W "%s" -- "${cur}") )`, strings.Join(bashGroupValues[f.BashGroup], " "))})
		case len(f.Values) > 0:
			cases = append(cases, caseEntry{[]string{"--" + f.Long}, fmt.Sprintf(`COMPREPLY=( $(compgen -W "%s" -- "${cur}") )`, strings.Join(f.Values, " "))})
		}
	}
	if len(filePatterns) > 0 {
		cases = append(cases, caseEntry{filePatterns, `COMPREPLY=( $(compgen -f -- "${cur}") )`})
	}

	var caseBody strings.Builder
	for _, c := range cases {
		fmt.Fprintf(&caseBody, "        %s)\n            %s\n            return 0\n            ;;\n", strings.Join(c.patterns, "|"), c.body)
	}

	script := fmt.Sprintf(`# Bash completion script for friedmann
# Add this to your ~/.bashrc or ~/.bash_completion

_friedmann_completions() {
    local cur prev opts presets
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    opts="%s"
    presets="%s"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _friedmann_completions friedmann
`, strings.Join(opts, " "), presetList(presets), caseBody.String())

	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion bash generation failed: %w", err)
	}
	return nil
}

func generateZshCompletion(out io.Writer, presets []string) error {
	args := make([]string, 0, len(flagRegistry))
	for _, f := range flagRegistry {
		args = append(args, zshArgEntry(f))
	}

	script := fmt.Sprintf(`#compdef friedmann

# Zsh completion script for friedmann
# Add this to your ~/.zshrc or place in $fpath

_friedmann() {
    local -a presets
    presets=(%s)

    _arguments -s \
%s
}

_friedmann "$@"
`, presetList(presets), strings.Join(args, " \\\n"))

	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion zsh generation failed: %w", err)
	}
	return nil
}

// zshArgEntry formats a single FlagCompletion as a zsh _arguments entry.
func zshArgEntry(f FlagCompletion) string {
	valueSuffix := ""
	switch {
	case f.IsFile:
		valueSuffix = fmt.Sprintf(":%s:_files", f.ValueName)
	case f.IsPreset:
		valueSuffix = fmt.Sprintf(":%s:($presets)", f.ValueName)
	case len(f.Values) > 0:
		valueSuffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
	case f.ValueName != "":
		valueSuffix = fmt.Sprintf(":%s:", f.ValueName)
	}

	if f.Short != "" {
		return fmt.Sprintf("        '(-%s --%s)'{-%s,--%s}'[%s]%s'",
			f.Short, f.Long, f.Short, f.Long, f.Help, valueSuffix)
	}
	return fmt.Sprintf("        '--%s[%s]%s'", f.Long, f.Help, valueSuffix)
}

func generateFishCompletion(out io.Writer, presets []string) error {
	lines := []string{
		"# Fish completion script for friedmann",
		"# Add this to ~/.config/fish/completions/friedmann.fish",
		"",
		"# Disable file completion by default",
		"complete -c friedmann -f",
		"",
	}
	list := presetList(presets)
	for _, f := range flagRegistry {
		lines = append(lines, fishCompleteLine(f, list))
	}
	lines = append(lines, "")

	if _, err := fmt.Fprint(out, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("completion fish generation failed: %w", err)
	}
	return nil
}

// fishCompleteLine formats a single FlagCompletion as a fish complete command.
func fishCompleteLine(f FlagCompletion, presets string) string {
	parts := []string{"complete -c friedmann"}
	if f.Short != "" {
		parts = append(parts, "-s "+f.Short)
	}
	parts = append(parts, "-l "+f.Long, fmt.Sprintf("-d '%s'", f.Help))

	switch {
	case f.IsFile:
		parts = append(parts, "-rF")
	case f.IsPreset:
		parts = append(parts, fmt.Sprintf("-xa '%s'", presets))
	case len(f.Values) > 0:
		parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(f.Values, " ")))
	case f.ValueName != "":
		parts = append(parts, "-x")
	}
	return strings.Join(parts, " ")
}
