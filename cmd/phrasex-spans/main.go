// cmd/phrasex-spans/main.go
package main

import (
	"phrasex/internal/appshell"
	"phrasex/internal/spansapp"
)

func main() {
	appshell.MainStdin(spansapp.RunContext)
}
