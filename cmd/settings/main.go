// Settings inspects and edits settings files from the command line.
//
// It reads JSON, YAML and TOML files, addresses nested settings with dotted
// paths and writes changes back atomically.
//
// Usage:
//
//	settings show app.yaml                 # print the file
//	settings show app.yaml --flat          # one dotted path per line
//	settings get app.yaml window.width     # print a single setting
//	settings set app.yaml theme dark       # change an existing setting
//	settings set app.yaml new 1 --create   # add a setting
//	settings unset app.yaml theme          # remove a setting
//	settings convert app.yaml app.json     # rewrite in another format
package main

import (
	"os"

	"github.com/lixenwraith/settings/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
