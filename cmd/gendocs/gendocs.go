// Command gendocs renders the command reference from the registered
// commands into a markdown file.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/spf13/pflag"

	_ "github.com/keshon/lvc/internal/cli"
	"github.com/keshon/lvc/internal/command"
)

const defaultTemplate = `# lvc command reference

Run ` + "`lvc <command>`" + ` anywhere inside a working tree.
{{range .}}
## {{.Name}}

{{.Brief}}
{{- if .Aliases}}

Aliases: {{join .Aliases ", "}}
{{- end}}

` + "```" + `
{{.Usage}}

{{.Help}}
` + "```" + `
{{end}}`

type section struct {
	Name    string
	Brief   string
	Usage   string
	Help    string
	Aliases []string
}

func sections(cmds []command.Command) []section {
	out := make([]section, 0, len(cmds))
	for _, c := range cmds {
		out = append(out, section{
			Name:    c.Name(),
			Brief:   c.Brief(),
			Usage:   c.Usage(),
			Help:    c.Help(),
			Aliases: c.Aliases(),
		})
	}
	return out
}

func render(w io.Writer, tplText string, cmds []command.Command) error {
	tpl, err := template.New("docs").Funcs(template.FuncMap{"join": strings.Join}).Parse(tplText)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	if err := tpl.Execute(w, sections(cmds)); err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}
	return nil
}

func run(tplFile, outFile string) error {
	tplText := defaultTemplate
	if tplFile != "" {
		data, err := os.ReadFile(tplFile)
		if err != nil {
			return fmt.Errorf("failed to read template: %w", err)
		}
		tplText = string(data)
	}

	if outFile == "-" {
		return render(os.Stdout, tplText, command.AllCommands())
	}
	f, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outFile, err)
	}
	if err := render(f, tplText, command.AllCommands()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func main() {
	var tplFile, outFile string
	pflag.StringVar(&tplFile, "template", "", "template file (defaults to the built-in one)")
	pflag.StringVarP(&outFile, "out", "o", "COMMANDS.md", "output file, - for stdout")
	pflag.Parse()

	if err := run(tplFile, outFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if outFile != "-" {
		fmt.Printf("%s generated successfully\n", outFile)
	}
}
