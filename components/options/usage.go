package options

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/nostalgist134/GqlGIU/components/version"
)

func getSection(name string) string {
	switch {
	case name == "u" || name == "X" || name == "q" || name == "d" || name == "H" || name == "x":
		return "request"
	case name == "w" || strings.HasPrefix(name, "mark"):
		return "payload"
	case name == "t" || name == "delay":
		return "concurrency"
	case name == "screen" || name == "o":
		return "output"
	case name == "addr" || name == "token" || name == "timeout":
		return "service"
	default:
		return "other"
	}
}

func printGrouped(fs *flag.FlagSet) {
	grouped := map[string][]*flag.Flag{}
	fs.VisitAll(func(f *flag.Flag) {
		section := getSection(f.Name)
		grouped[section] = append(grouped[section], f)
	})
	for _, section := range []string{"request", "payload", "concurrency", "output", "service", "other"} {
		flags := grouped[section]
		if len(flags) == 0 {
			continue
		}
		fmt.Fprintf(os.Stderr, "\n[%s settings]\n", section)
		for _, f := range flags {
			def := f.DefValue
			if def != "" {
				def = fmt.Sprintf(" (default: %s)", def)
			}
			fmt.Fprintf(os.Stderr, "  -%s\t%s%s\n", f.Name, f.Usage, def)
		}
	}
}

func exampleUsage(title string, cmdLines ...string) {
	fmt.Println(title + ":")
	for _, c := range cmdLines {
		fmt.Printf("    %s %s\n\n", os.Args[0], c)
	}
}

func usage() {
	fmt.Print(version.GetLogoVersionSlogan())
	fmt.Printf("Usage of %s:\n", os.Args[0])
	fmt.Printf("\t%s <subcommand> [options]\n", os.Args[0])
	fmt.Println("subcommands:")
	fmt.Println("    serve\tstart the workbench api")
	fmt.Println("    proxy\tstart the local forwarding proxy")
	fmt.Println("    lab\tstart the vulnerable practice target")
	fmt.Println("    fuzz\trun a fuzz job straight from the command line")
	fmt.Printf("\nrun %s <subcommand> -h for flags of each subcommand\n", os.Args[0])
}

func usageServe(fs *flag.FlagSet) {
	fmt.Printf("Usage of %s serve:\n", os.Args[0])
	printGrouped(fs)
	fmt.Println("\nSIMPLE USAGES:")
	exampleUsage("start the workbench api on the default port", "serve",
		"serve -addr 127.0.0.1:9000 -token giugiu")
}

func usageProxy(fs *flag.FlagSet) {
	fmt.Printf("Usage of %s proxy:\n", os.Args[0])
	printGrouped(fs)
	fmt.Println("\nSIMPLE USAGES:")
	exampleUsage("start the forwarding proxy", "proxy",
		"proxy -addr 127.0.0.1:8881 -timeout 15")
}

func usageLab(fs *flag.FlagSet) {
	fmt.Printf("Usage of %s lab:\n", os.Args[0])
	printGrouped(fs)
	fmt.Println("\nSIMPLE USAGES:")
	exampleUsage("start the practice target", "lab", "lab -addr 127.0.0.1:8882")
}

func usageFuzz(fs *flag.FlagSet) {
	fmt.Printf("Usage of %s fuzz:\n", os.Args[0])
	printGrouped(fs)
	fmt.Println("\nSIMPLE USAGES:")
	exampleUsage("fuzz a field name in a query",
		"fuzz -u http://127.0.0.1:8882/graphql -q \"{ users { id } }\" \\\n\t"+
			"-mark-start 2 -mark-end 7 -w dict.txt")
	exampleUsage("repeat the same request until interrupted(no marker)",
		"fuzz -u http://127.0.0.1:8882/graphql -q \"{ users { id } }\"")
	exampleUsage("go through the forwarding proxy with live screen",
		"fuzz -u http://target/graphql -q \"{ users { id } }\" -mark-start 2 -mark-end 7 \\\n\t"+
			"-w dict.txt -x http://127.0.0.1:8881 -t 8 -delay 100 -screen -o results.json")
}
