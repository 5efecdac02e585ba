package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/template"
)

// completionFlag describes one command-line flag for completion scripts.
type completionFlag struct {
	Name        string
	Description string
	// Values are the suggested arguments; "@backends" expands to the
	// registered backends, "@file" to file names.
	Values []string
}

var completionFlags = []completionFlag{
	{"a", "First operand", nil},
	{"b", "Second operand", nil},
	{"arrows", "Number of up-arrows", []string{"0", "1", "2", "3", "4"}},
	{"backend", "Numeric backend", []string{"@backends"}},
	{"timeout", "Maximum execution time", []string{"10s", "1m", "5m", "30m"}},
	{"v", "Display the full value", nil},
	{"d", "Display timing and size details", nil},
	{"c", "Display the computed value", nil},
	{"json", "Output in JSON format", nil},
	{"quiet", "Print only the value", nil},
	{"hex", "Display the value in hexadecimal", nil},
	{"output", "Save the value to a file", []string{"@file"}},
	{"no-color", "Disable colored output", nil},
	{"theme", "Color theme", []string{"dark", "light", "none"}},
	{"server", "Start the HTTP API server", nil},
	{"port", "Server port", []string{"8080", "3000", "9000"}},
	{"max-arrows", "Largest arrow count served", nil},
	{"max-operand", "Largest operand served", nil},
	{"batch-limit", "Largest batch served", nil},
	{"trusted-proxies", "Trusted proxy addresses", nil},
	{"log-level", "Log level", []string{"debug", "info", "warn", "error"}},
	{"log-file", "Rotated log file", []string{"@file"}},
	{"config", "YAML configuration file", []string{"@file"}},
	{"completion", "Print a completion script", []string{"bash", "zsh", "fish", "powershell"}},
	{"version", "Show version information", nil},
}

// GenerateCompletion writes a completion script for shell ("bash", "zsh",
// "fish", "powershell" or "ps") listing backends as -backend values.
func GenerateCompletion(out io.Writer, shell string, backends []string) error {
	var tmpl *template.Template
	switch shell {
	case "bash":
		tmpl = bashCompletion
	case "zsh":
		tmpl = zshCompletion
	case "fish":
		tmpl = fishCompletion
	case "powershell", "ps":
		tmpl = powershellCompletion
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish, powershell)", shell)
	}
	return tmpl.Execute(out, completionData{Flags: completionFlags, Backends: append(slices.Clone(backends), "all")})
}

type completionData struct {
	Flags    []completionFlag
	Backends []string
}

var completionFuncs = template.FuncMap{
	"join": strings.Join,
	// values expands @backends and drops @file.
	"values": func(f completionFlag, backends []string) []string {
		var vs []string
		for _, v := range f.Values {
			switch v {
			case "@backends":
				vs = append(vs, backends...)
			case "@file":
			default:
				vs = append(vs, v)
			}
		}
		return vs
	},
	"isFile": func(f completionFlag) bool {
		return len(f.Values) == 1 && f.Values[0] == "@file"
	},
	"quote": func(vs []string) string {
		q := make([]string, len(vs))
		for i, v := range vs {
			q[i] = "'" + v + "'"
		}
		return strings.Join(q, ", ")
	},
}

func newCompletion(name, text string) *template.Template {
	return template.Must(template.New(name).Funcs(completionFuncs).Parse(text))
}

var bashCompletion = newCompletion("bash", `# Bash completion for hypercalc
# source <(hypercalc -completion bash)

_hypercalc_completions() {
    local cur prev
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    COMPREPLY=()

    case "${prev}" in
{{- range .Flags}}{{$vs := values . $.Backends}}{{if isFile .}}
        -{{.Name}}) COMPREPLY=( $(compgen -f -- "${cur}") ); return 0 ;;
{{- else if $vs}}
        -{{.Name}}) COMPREPLY=( $(compgen -W "{{join $vs " "}}" -- "${cur}") ); return 0 ;;
{{- end}}{{end}}
    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "{{range $i, $f := .Flags}}{{if $i}} {{end}}-{{$f.Name}}{{end}}" -- "${cur}") )
    fi
}

complete -F _hypercalc_completions hypercalc
`)

var zshCompletion = newCompletion("zsh", `#compdef hypercalc

# Zsh completion for hypercalc

_hypercalc() {
    _arguments -s \
{{- range .Flags}}{{$vs := values . $.Backends}}
        '-{{.Name}}[{{.Description}}]{{if isFile .}}:file:_files{{else if $vs}}:value:({{join $vs " "}}){{end}}' \
{{- end}}
        '*::'
}

_hypercalc "$@"
`)

var fishCompletion = newCompletion("fish", `# Fish completion for hypercalc
# hypercalc -completion fish > ~/.config/fish/completions/hypercalc.fish

complete -c hypercalc -f
{{- range .Flags}}{{$vs := values . $.Backends}}
complete -c hypercalc -o {{.Name}} -d '{{.Description}}'{{if isFile .}} -rF{{else if $vs}} -xa '{{join $vs " "}}'{{end}}
{{- end}}
`)

var powershellCompletion = newCompletion("powershell", `# PowerShell completion for hypercalc
# hypercalc -completion powershell | Out-String | Invoke-Expression

Register-ArgumentCompleter -CommandName 'hypercalc' -Native -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)

    $values = @{
{{- range .Flags}}{{$vs := values . $.Backends}}{{if $vs}}
        '-{{.Name}}' = @({{quote $vs}})
{{- end}}{{end}}
    }
    $options = @(
{{- range .Flags}}
        @{ Name = '-{{.Name}}'; Description = '{{.Description}}' }
{{- end}}
    )

    $elements = $commandAst.CommandElements
    $prev = if ($elements.Count -gt 2) { $elements[-2].ToString() } else { '' }
    if ($values.ContainsKey($prev)) {
        $values[$prev] | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
        }
        return
    }
    $options | Where-Object { $_.Name -like "$wordToComplete*" } | ForEach-Object {
        [System.Management.Automation.CompletionResult]::new($_.Name, $_.Name, 'ParameterName', $_.Description)
    }
}
`)
