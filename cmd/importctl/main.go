// Command importctl imports Switch4Good spreadsheets from the command line
// and inspects the import log.
package main

import "github.com/SamTusick/Switch4Good-DataBaseSystem/cmd/importctl/cmd"

func main() {
	cmd.Execute()
}
