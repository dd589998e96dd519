package cli

import (
	"flag"
	"fmt"
	"io"
	"msgidscope/internal/global"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	RootCLICommand string = "root"
	menuIndent     string = "  "
)

// Flags sharing one usage text, e.g. -o and --output
type flagGroup struct {
	names    []string
	usage    string
	defValue string
}

// Prints usage, description, subcommands, options and notes for command to the flag set output
func PrintHelpMenu(fs *flag.FlagSet, command string, rootCmd *global.CommandSet) {
	out := fs.Output()

	path, found := findCommand(rootCmd, command)
	if !found {
		fmt.Fprintf(out, "Unknown command: %s\n", command)
		return
	}
	current := path[len(path)-1]

	fmt.Fprintf(out, "Usage: %s\n\n", usageLine(path, fs))

	if current == rootCmd {
		fmt.Fprintf(out, "%s\n%s\n\n", current.Description, current.FullDescription)
	} else if current.FullDescription != "" {
		fmt.Fprintf(out, "%sDescription:\n%s%s%s\n\n", menuIndent, menuIndent, menuIndent, current.FullDescription)
	}

	printSubcommands(out, current)
	printFlagGroups(out, groupFlags(fs))

	if len(current.Notes) > 0 {
		fmt.Fprintf(out, "\n%sNotes:\n", menuIndent)
		for _, note := range current.Notes {
			fmt.Fprintf(out, "%s%s- %s\n", menuIndent, menuIndent, note)
		}
	}
}

// Path from the root to the named command, searching every level of the tree
func findCommand(rootCmd *global.CommandSet, command string) (path []*global.CommandSet, found bool) {
	if command == "" || command == RootCLICommand {
		path = []*global.CommandSet{rootCmd}
		found = true
		return
	}

	for _, name := range childNames(rootCmd) {
		child := rootCmd.ChildCommands[name]
		if name == command {
			path = []*global.CommandSet{rootCmd, child}
			found = true
			return
		}

		var subPath []*global.CommandSet
		subPath, found = findCommand(child, command)
		if found {
			path = append([]*global.CommandSet{rootCmd}, subPath...)
			return
		}
	}
	return
}

func childNames(cmd *global.CommandSet) (names []string) {
	for name := range cmd.ChildCommands {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// Program name, command path (root omitted), then placeholders
func usageLine(path []*global.CommandSet, fs *flag.FlagSet) (line string) {
	parts := []string{filepath.Base(os.Args[0])}
	for _, cmd := range path[1:] {
		parts = append(parts, cmd.CommandName)
	}

	current := path[len(path)-1]
	if len(current.ChildCommands) > 0 {
		parts = append(parts, "<command>")
	}

	hasFlags := false
	fs.VisitAll(func(*flag.Flag) { hasFlags = true })
	if hasFlags {
		parts = append(parts, "[options]")
	}

	if current.UsageOption != "" {
		parts = append(parts, current.UsageOption)
	}

	line = strings.Join(parts, " ")
	return
}

func printSubcommands(out io.Writer, cmd *global.CommandSet) {
	names := childNames(cmd)
	if len(names) == 0 {
		return
	}

	width := 0
	for _, name := range names {
		width = max(width, len(name))
	}

	fmt.Fprintf(out, "%sCommands:\n", menuIndent)
	for _, name := range names {
		fmt.Fprintf(out, "%s%s%-*s  %s\n", menuIndent, menuIndent, width, name, cmd.ChildCommands[name].Description)
	}
	fmt.Fprintln(out)
}

// Merges short and long spellings of the same flag, short name first, groups ordered by name
func groupFlags(fs *flag.FlagSet) (groups []*flagGroup) {
	byUsage := make(map[string]*flagGroup)

	fs.VisitAll(func(arg *flag.Flag) {
		name := "--" + arg.Name
		if len(arg.Name) == 1 {
			name = "-" + arg.Name
		}

		group, seen := byUsage[arg.Usage]
		if !seen {
			group = &flagGroup{usage: arg.Usage, defValue: arg.DefValue}
			byUsage[arg.Usage] = group
			groups = append(groups, group)
		}
		group.names = append(group.names, name)
	})

	for _, group := range groups {
		sort.SliceStable(group.names, func(a, b int) bool {
			return len(group.names[a]) < len(group.names[b])
		})
	}

	sort.Slice(groups, func(a, b int) bool {
		nameA := strings.ToLower(strings.TrimLeft(groups[a].names[0], "-"))
		nameB := strings.ToLower(strings.TrimLeft(groups[b].names[0], "-"))
		return nameA < nameB
	})
	return
}

func printFlagGroups(out io.Writer, groups []*flagGroup) {
	if len(groups) == 0 {
		return
	}

	labels := make([]string, len(groups))
	width := 0
	for i, group := range groups {
		labels[i] = strings.Join(group.names, ", ")
		// Long-only flags line up with the long names of paired flags
		if !strings.HasPrefix(group.names[0], "--") {
			width = max(width, len(labels[i]))
		} else {
			labels[i] = "    " + labels[i]
			width = max(width, len(labels[i]))
		}
	}

	fmt.Fprintf(out, "%sOptions:\n", menuIndent)
	for i, group := range groups {
		desc := group.usage
		switch group.defValue {
		case "", "false", "0":
		default:
			desc += " [default: " + group.defValue + "]"
		}
		fmt.Fprintf(out, "%s%-*s  %s\n", menuIndent, width, labels[i], desc)
	}
}
