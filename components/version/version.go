package version

import "fmt"

const logo = "  _____       _  _____ _____ _    _\n / ____|     | |/ ____|_   _| |  | |\n| |  __  __ _| | |  __  | | | |  | |\n| | |_ |/ _` | | | |_ | | | | |  | |\n| |__| | (_| | | |__| |_| |_| |__| |\n \\_____|\\__, |_|\\_____|_____|\\____/   %s   -   %s\n           | |\n"

var (
	version = "v0.1.0"
	slogan  = "giu the graph before the graph gius you"
)

func GetVersion() string {
	return version
}

func GetLogoVersionSlogan() string {
	return fmt.Sprintf(logo, version, slogan)
}
